// Package prefs holds the user's calorie goal and theme override.
//
// Each preference is a Value: a cached, persisted setting with synchronous
// subscribers. Service bundles the two and is built once at process start.
// Preferences are independent of the meal store.
package prefs

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Storage keys.
const (
	GoalKey  = "CALORIE_GOAL_V1"
	ThemeKey = "THEME_OVERRIDE_V1"
)

// DefaultGoal is the daily calorie target used until the user sets one.
const DefaultGoal = 2000

// MaxGoal is the largest accepted daily goal.
const MaxGoal = 99999999

// Theme is a color scheme override.
type Theme string

const (
	ThemeUnset Theme = ""
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light", "dark" and "unset" (or ""), case-insensitively.
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	case "", "unset", "system":
		return ThemeUnset, nil
	}
	return ThemeUnset, fmt.Errorf("unknown theme %q (want light, dark or unset)", s)
}

// Resolve returns the override, or system when no override is set.
func (t Theme) Resolve(system Theme) Theme {
	if t == ThemeUnset {
		return system
	}
	return t
}

func (t Theme) String() string {
	if t == ThemeUnset {
		return "unset"
	}
	return string(t)
}

// ValidateGoal reports whether g is an acceptable daily goal.
func ValidateGoal(g int) error {
	if g <= 0 || g > MaxGoal {
		return fmt.Errorf("goal must be between 1 and %d, got %d", MaxGoal, g)
	}
	return nil
}

// GoalCodec stores the goal as a decimal integer. Leading digits are used
// and anything after them ignored, so "2100kcal" reads as 2100.
var GoalCodec = Codec[int]{
	Decode: func(s string) (int, bool) {
		s = strings.TrimSpace(s)
		end := 0
		if end < len(s) && (s[end] == '-' || s[end] == '+') {
			end++
		}
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		g, err := strconv.Atoi(s[:end])
		if err != nil {
			return 0, false
		}
		return g, true
	},
	Encode: func(g int) (string, bool) {
		return strconv.Itoa(g), true
	},
}

// ThemeCodec stores light or dark. Unset removes the key.
var ThemeCodec = Codec[Theme]{
	Decode: func(s string) (Theme, bool) {
		switch Theme(s) {
		case ThemeLight, ThemeDark:
			return Theme(s), true
		}
		return ThemeUnset, false
	},
	Encode: func(t Theme) (string, bool) {
		if t == ThemeUnset {
			return "", false
		}
		return string(t), true
	},
}

// Service owns the process-wide preferences.
type Service struct {
	Goal  *Value[int]
	Theme *Value[Theme]
}

// NewService builds the preferences backed by kv.
func NewService(kv KV, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "prefs")
	return &Service{
		Goal:  NewValue(kv, GoalKey, DefaultGoal, GoalCodec, logger),
		Theme: NewValue(kv, ThemeKey, ThemeUnset, ThemeCodec, logger),
	}
}
