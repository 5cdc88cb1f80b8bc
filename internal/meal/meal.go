// Package meal defines the records stored in the calorie log and the pure
// helpers shared by the store, the preference service and the CLI.
//
// A Meal is the only persisted entity. Its Date is an opaque partition key in
// YYYY-MM-DD form; it is never checked against a real calendar, so a value
// such as "2025-02-30" is accepted and stored verbatim.
package meal

import "sort"

// DefaultTime is the time of day reported for meals stored without one.
const DefaultTime = "12:00"

// Meal is a single logged meal.
type Meal struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Name        string  `json:"name"`
	Calories    float64 `json:"calories"`
	Time        string  `json:"time"`
	Ingredients string  `json:"ingredients,omitempty"`
	CreatedAt   int64   `json:"created_at"`
}

// Suggestion is a distinct (name, calories) pair offered for autocomplete.
type Suggestion struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
}

// ImportResult reports how a bulk import was tallied.
//
// Added and Updated are a heuristic: items carrying an explicit id count as
// updated, the rest as added, whether or not a row already existed. Only
// Total is exact.
type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Total returns the number of items submitted to the import.
func (r ImportResult) Total() int {
	return r.Added + r.Updated + r.Skipped
}

// SortedDatesDesc returns the keys of a grouped view, newest date first.
// Grouped maps carry no order of their own.
func SortedDatesDesc[V any](grouped map[string]V) []string {
	dates := make([]string, 0, len(grouped))
	for d := range grouped {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}
