package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/olive/internal/meal"
)

// mealColumns is the projection shared by every meal read. A NULL time is
// reported as the default so callers never observe a missing time.
const mealColumns = `id, date, name, calories, COALESCE(time, '12:00') AS time, ingredients, created_at`

// mealOrder is the deterministic within-date order. Meals sharing a
// created_at, such as one import batch, fall back to rowid, which is
// insertion order and survives an upsert.
const mealOrder = `COALESCE(time, '12:00') ASC, created_at ASC, rowid ASC`

// GetMealsByDate returns the meals of one date ordered by time, then
// creation. Returns an empty slice (not nil) if the date has no meals.
func (s *Store) GetMealsByDate(ctx context.Context, date string) ([]meal.Meal, error) {
	return s.queryMeals(ctx, `
		SELECT `+mealColumns+`
		FROM meals
		WHERE date = ?
		ORDER BY `+mealOrder, date)
}

// GetMeal retrieves a single meal by id.
// Returns ErrNotFound if no meal has that id.
func (s *Store) GetMeal(ctx context.Context, id string) (meal.Meal, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return meal.Meal{}, err
	}

	row := db.QueryRowContext(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = ?`, id)
	m, err := scanMeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return meal.Meal{}, ErrNotFound
	}
	if err != nil {
		return meal.Meal{}, fmt.Errorf("get meal: %w", err)
	}
	return m, nil
}

// GetAllMealsGroupedByDate returns every meal keyed by date, each list in
// GetMealsByDate order. Map iteration order is unspecified; use
// meal.SortedDatesDesc to walk dates newest first.
func (s *Store) GetAllMealsGroupedByDate(ctx context.Context) (map[string][]meal.Meal, error) {
	meals, err := s.listAllMeals(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]meal.Meal)
	for _, m := range meals {
		grouped[m.Date] = append(grouped[m.Date], m)
	}
	return grouped, nil
}

// GetTotalsByDate returns the calorie sum of every date that has meals.
// Dates without meals are absent; treat a missing key as zero.
func (s *Store) GetTotalsByDate(ctx context.Context) (map[string]float64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT date, SUM(calories) AS total
		FROM meals
		GROUP BY date
	`)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var date string
		var total sql.NullFloat64
		if err := rows.Scan(&date, &total); err != nil {
			return nil, fmt.Errorf("scan total: %w", err)
		}
		totals[date] = total.Float64
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate totals: %w", err)
	}

	return totals, nil
}

// GetTotalForDate returns the calorie sum of one date, 0 when it has no meals.
func (s *Store) GetTotalForDate(ctx context.Context, date string) (float64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, err
	}

	var total sql.NullFloat64
	err = db.QueryRowContext(ctx, "SELECT SUM(calories) FROM meals WHERE date = ?", date).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query total for %s: %w", date, err)
	}
	return total.Float64, nil
}

// listAllMeals returns every meal, newest date first, each date in
// GetMealsByDate order.
func (s *Store) listAllMeals(ctx context.Context) ([]meal.Meal, error) {
	return s.queryMeals(ctx, `
		SELECT `+mealColumns+`
		FROM meals
		ORDER BY date DESC, `+mealOrder)
}

func (s *Store) queryMeals(ctx context.Context, query string, args ...any) ([]meal.Meal, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer rows.Close()

	meals := []meal.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}

	return meals, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanMeal scans one mealColumns row.
func scanMeal(row scanner) (meal.Meal, error) {
	var m meal.Meal
	var ingredients sql.NullString
	if err := row.Scan(&m.ID, &m.Date, &m.Name, &m.Calories, &m.Time, &ingredients, &m.CreatedAt); err != nil {
		return meal.Meal{}, err
	}
	m.Ingredients = ingredients.String
	return m, nil
}
