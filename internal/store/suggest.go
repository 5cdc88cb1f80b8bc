package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/olive/internal/meal"
)

// DefaultSuggestionLimit caps suggestions when the caller passes no limit.
const DefaultSuggestionLimit = 8

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GetNameSuggestions returns up to limit distinct (name, calories) pairs
// whose name starts with prefix.
//
// Pairs are ranked by their most recent created_at, then by how often they
// were logged. LIKE metacharacters in prefix are escaped, so user input only
// ever matches literally (case-insensitively for ASCII, as LIKE does).
// A blank prefix returns no suggestions.
func (s *Store) GetNameSuggestions(ctx context.Context, prefix string, limit int) ([]meal.Suggestion, error) {
	prefix = meal.NormalizeName(prefix)
	if prefix == "" {
		return []meal.Suggestion{}, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT name, calories
		FROM meals
		WHERE name LIKE ? ESCAPE '\'
		GROUP BY name, calories
		ORDER BY MAX(created_at) DESC, COUNT(*) DESC, name COLLATE BINARY ASC
		LIMIT ?
	`, likeEscaper.Replace(prefix)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := []meal.Suggestion{}
	for rows.Next() {
		var sg meal.Suggestion
		if err := rows.Scan(&sg.Name, &sg.Calories); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}

	return suggestions, nil
}
