package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/olive/internal/meal"
	"github.com/roach88/olive/internal/testutil"
)

var testStart = time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestStore creates a new file-backed store in a temp dir with a
// clock that advances one millisecond per reading.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	opts = append([]Option{
		WithLogger(discardLogger()),
		WithClock(testutil.NewStepClock(testStart, time.Millisecond)),
	}, opts...)
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustAdd adds a meal and fails the test on error.
func mustAdd(t *testing.T, s *Store, m meal.Meal) meal.Meal {
	t.Helper()
	stored, err := s.AddMeal(context.Background(), m)
	if err != nil {
		t.Fatalf("AddMeal(%+v) failed: %v", m, err)
	}
	return stored
}

func countMeals(t *testing.T, s *Store) int {
	t.Helper()
	db, err := s.DB(context.Background())
	if err != nil {
		t.Fatalf("DB() failed: %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM meals").Scan(&n); err != nil {
		t.Fatalf("count meals: %v", err)
	}
	return n
}
