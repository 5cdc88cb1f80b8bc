package meal

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsISODate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2025-01-05", true},
		{"2025-02-30", true}, // pattern only, no calendar check
		{"0000-99-99", true},
		{"2025-1-05", false},
		{"2025/01/05", false},
		{" 2025-01-05", false},
		{"2025-01-05T00:00", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsISODate(tt.in))
		})
	}
}

func TestIsClockTime(t *testing.T) {
	assert.True(t, IsClockTime("00:00"))
	assert.True(t, IsClockTime("08:30"))
	assert.True(t, IsClockTime("23:59"))
	assert.False(t, IsClockTime("24:00"))
	assert.False(t, IsClockTime("8:30"))
	assert.False(t, IsClockTime("12:60"))
	assert.False(t, IsClockTime("noon"))
}

func TestIsValidCalories(t *testing.T) {
	assert.True(t, IsValidCalories(0.5))
	assert.True(t, IsValidCalories(2000))
	assert.False(t, IsValidCalories(0))
	assert.False(t, IsValidCalories(-1))
	assert.False(t, IsValidCalories(math.NaN()))
	assert.False(t, IsValidCalories(math.Inf(1)))
}

func TestValidateEntry(t *testing.T) {
	require.NoError(t, ValidateEntry("2025-01-05", "Apple", 95, "08:00"))
	require.NoError(t, ValidateEntry("2025-01-05", "Apple", 95, ""))

	tests := []struct {
		name     string
		date     string
		meal     string
		calories float64
		clock    string
		field    string
	}{
		{"bad date", "Jan 5", "Apple", 95, "", "date"},
		{"blank name", "2025-01-05", "   ", 95, "", "name"},
		{"zero calories", "2025-01-05", "Apple", 0, "", "calories"},
		{"negative calories", "2025-01-05", "Apple", -10, "", "calories"},
		{"bad time", "2025-01-05", "Apple", 95, "25:00", "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntry(tt.date, tt.meal, tt.calories, tt.clock)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMeal))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNormalizeName(t *testing.T) {
	// "e" + combining acute accent composes to a single rune under NFC.
	assert.Equal(t, "Caf\u00e9", NormalizeName("  Cafe\u0301 "))
	assert.Equal(t, "Toast", NormalizeName("Toast"))
}

func TestTimestampIDGenerator(t *testing.T) {
	now := time.UnixMilli(1736064000000)
	gen := TimestampIDGenerator{}

	a := gen.Generate(now)
	b := gen.Generate(now)

	prefix := strconv.FormatInt(now.UnixMilli(), 10)
	assert.Len(t, a, len(prefix)+12)
	assert.Equal(t, prefix, a[:len(prefix)])
	assert.NotEqual(t, a, b)
}

func TestFixedIDGenerator(t *testing.T) {
	gen := NewFixedIDGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate(time.Time{}))
	assert.Equal(t, "b", gen.Generate(time.Time{}))
	assert.Panics(t, func() { gen.Generate(time.Time{}) })
}

func TestStripSpace(t *testing.T) {
	assert.Equal(t, "abc123", StripSpace(" ab c\t12\n3 "))
	assert.Equal(t, "", StripSpace("   "))
}

func TestSortedDatesDesc(t *testing.T) {
	grouped := map[string]float64{
		"2025-01-03": 1,
		"2025-01-10": 2,
		"2024-12-31": 3,
	}
	assert.Equal(t, []string{"2025-01-10", "2025-01-03", "2024-12-31"}, SortedDatesDesc(grouped))
	assert.Empty(t, SortedDatesDesc(map[string][]Meal{}))
}

func TestImportResultTotal(t *testing.T) {
	assert.Equal(t, 6, ImportResult{Added: 1, Updated: 2, Skipped: 3}.Total())
}

func TestDateKeyAndClockTime(t *testing.T) {
	ts := time.Date(2025, 1, 5, 8, 7, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-05", DateKey(ts))
	assert.Equal(t, "08:07", ClockTime(ts))
}

func TestExportItems(t *testing.T) {
	items := ExportItems([]Meal{
		{ID: "1", Date: "2025-01-05", Name: "Apple", Calories: 95, Time: "08:00", CreatedAt: 1},
		{ID: "2", Date: "2025-01-04", Name: "Soup", Calories: 200, Ingredients: "leek"},
	})
	require.Len(t, items, 2)
	assert.Equal(t, ExportItem{Name: "Apple", Calories: 95, Time: "08:00", Date: "2025-01-05"}, items[0])
	assert.Equal(t, DefaultTime, items[1].Time)
	assert.Equal(t, "leek", items[1].Ingredients)
}

func TestTemplateItems(t *testing.T) {
	items := TemplateItems("2025-03-01")
	require.Len(t, items, 3)
	for _, it := range items {
		assert.Equal(t, "2025-03-01", it.Date)
		assert.True(t, IsValidCalories(it.Calories))
	}
	assert.Equal(t, "Example Meal 1", items[0].Name)
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "olive-export-2025-03-01.json", ExportFileName(true, "2025-03-01"))
	assert.Equal(t, "olive-template.json", ExportFileName(false, "2025-03-01"))
}
