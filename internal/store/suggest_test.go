package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/roach88/olive/internal/meal"
)

func TestGetNameSuggestions_MostRecentFirst(t *testing.T) {
	s := createTestStore(t)

	mustAdd(t, s, meal.Meal{Date: "2025-01-03", Name: "Toast", Calories: 300})
	mustAdd(t, s, meal.Meal{Date: "2025-01-04", Name: "Toast Sandwich", Calories: 450})
	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "Toast", Calories: 300})

	got, err := s.GetNameSuggestions(context.Background(), "Toast", 10)
	if err != nil {
		t.Fatalf("GetNameSuggestions() failed: %v", err)
	}
	want := []meal.Suggestion{
		{Name: "Toast", Calories: 300},
		{Name: "Toast Sandwich", Calories: 450},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggestions = %+v, want %+v", got, want)
	}
}

func TestGetNameSuggestions_SameRecencyRankedByCount(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// One batch shares a created_at, so frequency decides, then name.
	_, err := s.BulkUpsertMeals(ctx, decodeString(t, `[
		{"date": "2025-01-05", "name": "Tea", "calories": 5},
		{"date": "2025-01-05", "name": "Toast", "calories": 300},
		{"date": "2025-01-05", "name": "Toast", "calories": 300},
		{"date": "2025-01-05", "name": "Taco", "calories": 200}
	]`))
	if err != nil {
		t.Fatalf("BulkUpsertMeals() failed: %v", err)
	}

	got, err := s.GetNameSuggestions(ctx, "t", 0)
	if err != nil {
		t.Fatalf("GetNameSuggestions() failed: %v", err)
	}
	want := []meal.Suggestion{
		{Name: "Toast", Calories: 300},
		{Name: "Taco", Calories: 200},
		{Name: "Tea", Calories: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggestions = %+v, want %+v", got, want)
	}
}

func TestGetNameSuggestions_DistinctPairs(t *testing.T) {
	s := createTestStore(t)

	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "Oats", Calories: 150})
	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "Oats", Calories: 150})
	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "Oats", Calories: 300})

	got, err := s.GetNameSuggestions(context.Background(), "oa", 0)
	if err != nil {
		t.Fatalf("GetNameSuggestions() failed: %v", err)
	}
	want := []meal.Suggestion{
		{Name: "Oats", Calories: 300},
		{Name: "Oats", Calories: 150},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggestions = %+v, want %+v", got, want)
	}
}

func TestGetNameSuggestions_Limit(t *testing.T) {
	s := createTestStore(t)
	for i := 0; i < DefaultSuggestionLimit+3; i++ {
		mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "Rice", Calories: float64(100 + i)})
	}
	ctx := context.Background()

	got, err := s.GetNameSuggestions(ctx, "Rice", 2)
	if err != nil {
		t.Fatalf("GetNameSuggestions() failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d suggestions, want 2", len(got))
	}

	got, err = s.GetNameSuggestions(ctx, "Rice", 0)
	if err != nil {
		t.Fatalf("GetNameSuggestions() failed: %v", err)
	}
	if len(got) != DefaultSuggestionLimit {
		t.Errorf("default limit: got %d suggestions, want %d", len(got), DefaultSuggestionLimit)
	}
}

func TestGetNameSuggestions_PrefixOnly(t *testing.T) {
	s := createTestStore(t)
	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "Buttered Toast", Calories: 250})

	got, err := s.GetNameSuggestions(context.Background(), "Toast", 10)
	if err != nil {
		t.Fatalf("GetNameSuggestions() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("substring match leaked into prefix search: %+v", got)
	}
}

func TestGetNameSuggestions_EscapesWildcards(t *testing.T) {
	s := createTestStore(t)
	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "50% Dark Chocolate", Calories: 220})
	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "500g Steak", Calories: 1200})
	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "a_b", Calories: 10})
	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "axb", Calories: 10})
	ctx := context.Background()

	got, err := s.GetNameSuggestions(ctx, "50%", 10)
	if err != nil {
		t.Fatalf("GetNameSuggestions() failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "50% Dark Chocolate" {
		t.Errorf("%% matched as wildcard: %+v", got)
	}

	got, err = s.GetNameSuggestions(ctx, "a_", 10)
	if err != nil {
		t.Fatalf("GetNameSuggestions() failed: %v", err)
	}
	if len(got) != 1 || got[0].Name != "a_b" {
		t.Errorf("_ matched as wildcard: %+v", got)
	}
}

func TestGetNameSuggestions_BlankPrefix(t *testing.T) {
	s := createTestStore(t)
	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "Apple", Calories: 95})

	got, err := s.GetNameSuggestions(context.Background(), "   ", 10)
	if err != nil {
		t.Fatalf("GetNameSuggestions() failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("blank prefix = %+v, want empty slice", got)
	}
}
