package store

import (
	"context"
	"fmt"

	"github.com/roach88/olive/internal/meal"
)

// Export returns every meal as export entries, newest date first and each
// date in GetMealsByDate order. With no meals it returns the example
// template dated today and hasData=false.
func (s *Store) Export(ctx context.Context) (items []meal.ExportItem, hasData bool, err error) {
	meals, err := s.listAllMeals(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("export: %w", err)
	}
	if len(meals) == 0 {
		return meal.TemplateItems(s.Today()), false, nil
	}
	return meal.ExportItems(meals), true, nil
}

// Today returns the date key of the Store's clock.
func (s *Store) Today() string {
	return meal.DateKey(s.clock.Now())
}
