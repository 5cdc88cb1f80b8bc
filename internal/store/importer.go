package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/roach88/olive/internal/meal"
)

// decimalPattern is the numeric string form accepted for calories. Hex
// floats, underscores and inf/nan spellings are rejected.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ImportItem is one validated entry of a bulk import.
type ImportItem struct {
	Meal meal.Meal
	// ExplicitID is set when the source entry carried its own id. It drives
	// the added/updated tally.
	ExplicitID bool
}

// NormalizeImport flattens parsed JSON into a list of raw entries.
//
// Two shapes are accepted:
//   - a list of objects, each with its own date
//   - an object mapping date to a list of objects; the key overrides any
//     date inside the entries
//
// Mapping keys are visited in ascending order and keys whose value is not a
// list are ignored. Any other input yields no entries.
func NormalizeImport(input any) []any {
	switch v := input.(type) {
	case []any:
		return v
	case []map[string]any:
		items := make([]any, len(v))
		for i, it := range v {
			items[i] = it
		}
		return items
	case map[string]any:
		dates := make([]string, 0, len(v))
		for d := range v {
			dates = append(dates, d)
		}
		sort.Strings(dates)

		var items []any
		for _, date := range dates {
			for _, it := range asList(v[date]) {
				items = append(items, withDate(it, date))
			}
		}
		return items
	}
	return nil
}

func asList(v any) []any {
	switch l := v.(type) {
	case []any:
		return l
	case []map[string]any:
		items := make([]any, len(l))
		for i, it := range l {
			items[i] = it
		}
		return items
	}
	return nil
}

// withDate copies an entry with its date set to key. Entries that are not
// objects keep only the date and fail validation later.
func withDate(item any, date string) map[string]any {
	out := map[string]any{}
	if obj, ok := item.(map[string]any); ok {
		for k, v := range obj {
			out[k] = v
		}
	}
	out["date"] = date
	return out
}

// ParseImportItem coerces and validates one raw entry. The returned error is
// a *meal.ValidationError; such entries are skipped, never stored.
func ParseImportItem(raw any) (ImportItem, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return ImportItem{}, &meal.ValidationError{Field: "item", Message: "not an object"}
	}

	m := meal.Meal{
		Date:        strings.TrimSpace(coerceString(obj["date"])),
		Name:        meal.NormalizeName(coerceString(obj["name"])),
		Time:        strings.TrimSpace(coerceString(obj["time"])),
		Ingredients: strings.TrimSpace(coerceString(obj["ingredients"])),
	}
	if m.Time == "" {
		m.Time = meal.DefaultTime
	}

	if !meal.IsISODate(m.Date) {
		return ImportItem{}, &meal.ValidationError{Field: "date", Message: fmt.Sprintf("%q is not YYYY-MM-DD", m.Date)}
	}
	if m.Name == "" {
		return ImportItem{}, &meal.ValidationError{Field: "name", Message: "must not be empty"}
	}
	calories, ok := coerceNumber(obj["calories"])
	if !ok || !meal.IsValidCalories(calories) {
		return ImportItem{}, &meal.ValidationError{Field: "calories", Message: "must be a positive number"}
	}
	m.Calories = calories

	item := ImportItem{Meal: m}
	if id := meal.StripSpace(coerceID(obj["id"])); id != "" {
		item.Meal.ID = id
		item.ExplicitID = true
	}
	return item, nil
}

// BulkUpsertMeals imports parsed JSON (see NormalizeImport) as meals.
//
// Entries failing validation are counted as skipped and never reach the
// database. All valid entries are upserted by id in one transaction: a
// storage failure leaves the previous state untouched and returns a zero
// result. Entries without an id get a generated one.
//
// On conflict every column but id is overwritten, including created_at,
// which takes the batch time.
//
// The added/updated split is the heuristic documented on meal.ImportResult.
func (s *Store) BulkUpsertMeals(ctx context.Context, input any) (meal.ImportResult, error) {
	var result meal.ImportResult
	var valid []ImportItem
	for i, raw := range NormalizeImport(input) {
		item, err := ParseImportItem(raw)
		if err != nil {
			s.logger.Debug("import item skipped", "index", i, "reason", err)
			result.Skipped++
			continue
		}
		valid = append(valid, item)
	}
	if len(valid) == 0 {
		return result, nil
	}

	db, err := s.conn(ctx)
	if err != nil {
		return meal.ImportResult{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return meal.ImportResult{}, fmt.Errorf("bulk upsert: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO meals (id, date, name, calories, time, ingredients, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			name = excluded.name,
			calories = excluded.calories,
			time = excluded.time,
			ingredients = excluded.ingredients,
			created_at = excluded.created_at
	`)
	if err != nil {
		return meal.ImportResult{}, fmt.Errorf("bulk upsert: prepare: %w", err)
	}
	defer stmt.Close()

	now := s.clock.Now()
	createdAt := now.UnixMilli()
	var added, updated int
	for _, item := range valid {
		m := item.Meal
		if m.ID == "" {
			m.ID = s.ids.Generate(now)
		}
		if _, err := stmt.ExecContext(ctx,
			m.ID, m.Date, m.Name, m.Calories, m.Time, nullString(m.Ingredients), createdAt,
		); err != nil {
			return meal.ImportResult{}, fmt.Errorf("bulk upsert: write %s: %w", m.ID, err)
		}
		if item.ExplicitID {
			updated++
		} else {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return meal.ImportResult{}, fmt.Errorf("bulk upsert: commit: %w", err)
	}

	result.Added = added
	result.Updated = updated
	s.logger.Info("meals imported",
		"added", result.Added,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
	return result, nil
}

// ImportFile decodes a JSON file and bulk upserts its entries. Malformed JSON
// is reported as a *ParseError before any storage call.
func (s *Store) ImportFile(ctx context.Context, path string) (meal.ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path chosen by the user
	if err != nil {
		return meal.ImportResult{}, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	input, err := DecodeImport(f)
	if err != nil {
		return meal.ImportResult{}, err
	}
	return s.BulkUpsertMeals(ctx, input)
}

// coerceString renders a JSON scalar as text. Objects, lists and null
// become "".
func coerceString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// coerceID renders an entry id. false and numeric zero mean no id, like an
// empty string.
func coerceID(v any) string {
	switch x := v.(type) {
	case bool:
		if !x {
			return ""
		}
	case json.Number:
		if f, err := strconv.ParseFloat(x.String(), 64); err == nil && f == 0 {
			return ""
		}
	case float64:
		if x == 0 {
			return ""
		}
	}
	return coerceString(v)
}

// coerceNumber reads a calorie amount from a JSON number or numeric string.
func coerceNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := strconv.ParseFloat(x.String(), 64)
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if !decimalPattern.MatchString(s) {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}
