package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/roach88/olive/internal/meal"
)

func TestAddMeal_Basic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	stored, err := s.AddMeal(ctx, meal.Meal{
		ID:          "meal-1",
		Date:        "2025-01-05",
		Name:        "  Apple ",
		Calories:    95,
		Time:        "08:00",
		Ingredients: "1 apple",
	})
	if err != nil {
		t.Fatalf("AddMeal() failed: %v", err)
	}

	if stored.Name != "Apple" {
		t.Errorf("name = %q, want trimmed %q", stored.Name, "Apple")
	}
	if stored.CreatedAt != testStart.UnixMilli() {
		t.Errorf("created_at = %d, want %d", stored.CreatedAt, testStart.UnixMilli())
	}

	got, err := s.GetMeal(ctx, "meal-1")
	if err != nil {
		t.Fatalf("GetMeal() failed: %v", err)
	}
	if got != stored {
		t.Errorf("read back %+v, want %+v", got, stored)
	}
}

func TestAddMeal_Defaults(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(meal.NewFixedIDGenerator("gen-1")))

	stored := mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "Soup", Calories: 200})

	if stored.ID != "gen-1" {
		t.Errorf("id = %q, want generated %q", stored.ID, "gen-1")
	}
	if stored.Time != meal.DefaultTime {
		t.Errorf("time = %q, want %q", stored.Time, meal.DefaultTime)
	}

	db, err := s.DB(context.Background())
	if err != nil {
		t.Fatalf("DB() failed: %v", err)
	}
	var isNull bool
	if err := db.QueryRow("SELECT ingredients IS NULL FROM meals WHERE id = 'gen-1'").Scan(&isNull); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if !isNull {
		t.Error("empty ingredients should be stored as NULL")
	}
}

func TestAddMeal_RejectsInvalidBeforeStorage(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name string
		m    meal.Meal
	}{
		{"zero calories", meal.Meal{Date: "2025-01-05", Name: "Water", Calories: 0}},
		{"negative calories", meal.Meal{Date: "2025-01-05", Name: "Run", Calories: -300}},
		{"blank name", meal.Meal{Date: "2025-01-05", Name: "  ", Calories: 100}},
		{"bad date", meal.Meal{Date: "05/01/2025", Name: "Apple", Calories: 95}},
		{"bad time", meal.Meal{Date: "2025-01-05", Name: "Apple", Calories: 95, Time: "8am"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddMeal(context.Background(), tt.m)
			if !errors.Is(err, meal.ErrInvalidMeal) {
				t.Fatalf("AddMeal() error = %v, want ErrInvalidMeal", err)
			}
		})
	}

	if n := countMeals(t, s); n != 0 {
		t.Errorf("rejected meals reached storage: %d rows", n)
	}
}

func TestAddMeal_DuplicateIDFails(t *testing.T) {
	s := createTestStore(t)
	mustAdd(t, s, meal.Meal{ID: "dup", Date: "2025-01-05", Name: "Apple", Calories: 95})

	_, err := s.AddMeal(context.Background(), meal.Meal{ID: "dup", Date: "2025-01-06", Name: "Pear", Calories: 80})
	if err == nil {
		t.Fatal("expected constraint error for duplicate id")
	}
	if errors.Is(err, meal.ErrInvalidMeal) {
		t.Fatalf("duplicate id should be a storage error, got validation error %v", err)
	}
	if !strings.Contains(strings.ToLower(err.Error()), "unique") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdateMeal_NameAndCalories(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustAdd(t, s, meal.Meal{ID: "m1", Date: "2025-01-05", Name: "Apple", Calories: 95, Time: "08:00"})

	if err := s.UpdateMeal(ctx, "m1", "Green apple", 80, nil); err != nil {
		t.Fatalf("UpdateMeal() failed: %v", err)
	}

	got, err := s.GetMeal(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMeal() failed: %v", err)
	}
	if got.Name != "Green apple" || got.Calories != 80 || got.Time != "08:00" {
		t.Errorf("after update: %+v", got)
	}
}

func TestUpdateMeal_WithTime(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustAdd(t, s, meal.Meal{ID: "m1", Date: "2025-01-05", Name: "Apple", Calories: 95, Time: "08:00"})

	clock := "19:30"
	if err := s.UpdateMeal(ctx, "m1", "Apple", 95, &clock); err != nil {
		t.Fatalf("UpdateMeal() failed: %v", err)
	}

	got, err := s.GetMeal(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMeal() failed: %v", err)
	}
	if got.Time != "19:30" {
		t.Errorf("time = %q, want %q", got.Time, "19:30")
	}
}

func TestUpdateMeal_UnknownIDIsNoOp(t *testing.T) {
	s := createTestStore(t)

	if err := s.UpdateMeal(context.Background(), "missing", "Apple", 95, nil); err != nil {
		t.Fatalf("UpdateMeal() on unknown id should not error: %v", err)
	}
	if n := countMeals(t, s); n != 0 {
		t.Errorf("update created %d rows", n)
	}
}

func TestUpdateMeal_RejectsInvalid(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustAdd(t, s, meal.Meal{ID: "m1", Date: "2025-01-05", Name: "Apple", Calories: 95})

	if err := s.UpdateMeal(ctx, "m1", "", 95, nil); !errors.Is(err, meal.ErrInvalidMeal) {
		t.Errorf("blank name: error = %v, want ErrInvalidMeal", err)
	}
	if err := s.UpdateMeal(ctx, "m1", "Apple", 0, nil); !errors.Is(err, meal.ErrInvalidMeal) {
		t.Errorf("zero calories: error = %v, want ErrInvalidMeal", err)
	}

	got, err := s.GetMeal(ctx, "m1")
	if err != nil {
		t.Fatalf("GetMeal() failed: %v", err)
	}
	if got.Name != "Apple" || got.Calories != 95 {
		t.Errorf("rejected update changed the row: %+v", got)
	}
}

func TestDeleteMeal(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	mustAdd(t, s, meal.Meal{ID: "m1", Date: "2025-01-05", Name: "Apple", Calories: 95})
	mustAdd(t, s, meal.Meal{ID: "m2", Date: "2025-01-05", Name: "Soup", Calories: 200})

	if err := s.DeleteMeal(ctx, "m1"); err != nil {
		t.Fatalf("DeleteMeal() failed: %v", err)
	}
	if _, err := s.GetMeal(ctx, "m1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMeal() after delete error = %v, want ErrNotFound", err)
	}

	// Deleting again is a no-op
	if err := s.DeleteMeal(ctx, "m1"); err != nil {
		t.Errorf("second DeleteMeal() failed: %v", err)
	}
	if n := countMeals(t, s); n != 1 {
		t.Errorf("meals = %d, want 1", n)
	}
}

func TestClearAllMeals(t *testing.T) {
	s := createTestStore(t)
	mustAdd(t, s, meal.Meal{Date: "2025-01-05", Name: "Apple", Calories: 95})
	mustAdd(t, s, meal.Meal{Date: "2025-01-06", Name: "Soup", Calories: 200})

	if err := s.ClearAllMeals(context.Background()); err != nil {
		t.Fatalf("ClearAllMeals() failed: %v", err)
	}
	if n := countMeals(t, s); n != 0 {
		t.Errorf("meals after clear = %d, want 0", n)
	}
}
