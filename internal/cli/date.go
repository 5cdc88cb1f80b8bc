package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/roach88/olive/internal/meal"
)

var dateParser = newDateParser()

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseDate resolves a --date value to a YYYY-MM-DD key. Empty input is
// today; a YYYY-MM-DD value is used verbatim; anything else ("yesterday",
// "last friday") is read as natural language relative to now.
func ParseDate(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return meal.DateKey(now), nil
	}
	if meal.IsISODate(input) {
		return input, nil
	}

	r, err := dateParser.Parse(input, now)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", input, err)
	}
	if r == nil {
		return "", fmt.Errorf("unrecognised date %q (use YYYY-MM-DD or e.g. \"yesterday\")", input)
	}
	return meal.DateKey(r.Time), nil
}

func (o *RootOptions) resolveDate(input string) (string, error) {
	date, err := ParseDate(input, o.Clock.Now())
	if err != nil {
		return "", invalidInput("invalid --date", err)
	}
	return date, nil
}

// resolveTime maps a --time value of "now" to the current HH:MM. Other
// values pass through for validation by the store.
func (o *RootOptions) resolveTime(input string) string {
	if strings.EqualFold(strings.TrimSpace(input), "now") {
		return meal.ClockTime(o.Clock.Now())
	}
	return input
}
