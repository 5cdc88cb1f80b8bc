package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ParseError reports import input that is not valid JSON. It is raised
// before the importer runs and is distinct from validation skips and
// storage failures.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeImport reads one JSON document for BulkUpsertMeals. Numbers are kept
// as json.Number so calorie values are parsed exactly once.
func DecodeImport(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ParseError{Err: err}
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, &ParseError{Err: err}
	}
	return v, nil
}
