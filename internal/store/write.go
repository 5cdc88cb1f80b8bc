package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/olive/internal/meal"
)

// AddMeal inserts a new meal and returns it as stored.
//
// The meal is validated before any storage call; a rejection wraps
// meal.ErrInvalidMeal. The name is trimmed and NFC-normalised, an empty time
// becomes "12:00", an empty id is generated, and created_at is stamped from
// the Store's clock. An id that already exists fails with a constraint error.
func (s *Store) AddMeal(ctx context.Context, m meal.Meal) (meal.Meal, error) {
	m.Name = meal.NormalizeName(m.Name)
	m.Date = strings.TrimSpace(m.Date)
	m.Time = strings.TrimSpace(m.Time)
	m.Ingredients = strings.TrimSpace(m.Ingredients)
	if err := meal.ValidateEntry(m.Date, m.Name, m.Calories, m.Time); err != nil {
		return meal.Meal{}, fmt.Errorf("add meal: %w", err)
	}
	if m.Time == "" {
		m.Time = meal.DefaultTime
	}

	now := s.clock.Now()
	if m.ID == "" {
		m.ID = s.ids.Generate(now)
	}
	m.CreatedAt = now.UnixMilli()

	db, err := s.conn(ctx)
	if err != nil {
		return meal.Meal{}, err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO meals (id, date, name, calories, time, ingredients, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		m.ID,
		m.Date,
		m.Name,
		m.Calories,
		m.Time,
		nullString(m.Ingredients),
		m.CreatedAt,
	)
	if err != nil {
		return meal.Meal{}, fmt.Errorf("add meal: %w", err)
	}

	s.logger.Debug("meal added", "id", m.ID, "date", m.Date, "calories", m.Calories)
	return m, nil
}

// UpdateMeal changes the name and calories of a meal, and its time when
// clock is non-nil. An unknown id is a silent no-op; callers that need
// confirmation re-read with GetMeal.
func (s *Store) UpdateMeal(ctx context.Context, id, name string, calories float64, clock *string) error {
	name = meal.NormalizeName(name)
	var t string
	if clock != nil {
		t = strings.TrimSpace(*clock)
	}
	if err := meal.ValidateEdit(name, calories, t); err != nil {
		return fmt.Errorf("update meal: %w", err)
	}

	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	var res sql.Result
	if clock != nil {
		if t == "" {
			t = meal.DefaultTime
		}
		res, err = db.ExecContext(ctx,
			"UPDATE meals SET name = ?, calories = ?, time = ? WHERE id = ?",
			name, calories, t, id)
	} else {
		res, err = db.ExecContext(ctx,
			"UPDATE meals SET name = ?, calories = ? WHERE id = ?",
			name, calories, id)
	}
	if err != nil {
		return fmt.Errorf("update meal: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil {
		s.logger.Debug("meal updated", "id", id, "rows", n)
	}
	return nil
}

// DeleteMeal removes a meal. Deleting an unknown id is a no-op.
func (s *Store) DeleteMeal(ctx context.Context, id string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM meals WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete meal: %w", err)
	}
	s.logger.Debug("meal deleted", "id", id)
	return nil
}

// ClearAllMeals empties the meals table.
func (s *Store) ClearAllMeals(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, "DELETE FROM meals")
	if err != nil {
		return fmt.Errorf("clear meals: %w", err)
	}
	n, _ := res.RowsAffected()
	s.logger.Info("meals cleared", "rows", n)
	return nil
}

// nullString stores empty optional text as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
