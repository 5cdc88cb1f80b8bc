package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/olive/internal/prefs"
)

// NewGoalCommand creates the goal command.
func NewGoalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "goal [kcal]",
		Short: "Show or set the daily calorie goal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			goal := rootOpts.Prefs().Goal

			if len(args) == 1 {
				g, err := strconv.Atoi(strings.TrimSpace(args[0]))
				if err != nil {
					return invalidInput(fmt.Sprintf("goal %q is not a whole number", args[0]), nil)
				}
				if err := prefs.ValidateGoal(g); err != nil {
					return invalidInput("invalid goal", err)
				}
				goal.Set(ctx, g)
			}

			g := goal.Get(ctx)
			return rootOpts.formatter(cmd).Success(
				map[string]int{"goal": g},
				fmt.Sprintf("Daily goal: %d kcal\n", g),
			)
		},
	}
}

// ThemeView is the result of the theme command.
type ThemeView struct {
	Override string `json:"override"`
	Resolved string `json:"resolved"`
}

// NewThemeCommand creates the theme command.
func NewThemeCommand(rootOpts *RootOptions) *cobra.Command {
	var system string

	cmd := &cobra.Command{
		Use:   "theme [light|dark|unset]",
		Short: "Show or set the color scheme override",
		Long: `Show or set the color scheme override. With the override unset,
the system scheme (--system) applies.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			theme := rootOpts.Prefs().Theme

			sys, err := prefs.ParseTheme(system)
			if err != nil || sys == prefs.ThemeUnset {
				return invalidInput(fmt.Sprintf("--system must be light or dark, got %q", system), nil)
			}

			if len(args) == 1 {
				t, err := prefs.ParseTheme(args[0])
				if err != nil {
					return invalidInput("invalid theme", err)
				}
				theme.Set(ctx, t)
			}

			override := theme.Get(ctx)
			view := ThemeView{Override: override.String(), Resolved: override.Resolve(sys).String()}
			return rootOpts.formatter(cmd).Success(view,
				fmt.Sprintf("Theme: %s (override %s)\n", view.Resolved, view.Override))
		},
	}

	cmd.Flags().StringVar(&system, "system", "light", "system color scheme (light|dark)")
	return cmd
}
