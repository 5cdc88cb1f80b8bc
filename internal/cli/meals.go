package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/olive/internal/meal"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Date        string
	Time        string
	Ingredients string
	ID          string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <name> <calories>",
		Short: "Log a meal",
		Long: `Log a meal against a date.

The date defaults to today and accepts YYYY-MM-DD or phrases such as
"yesterday". The time defaults to 12:00; "now" uses the current time.

Examples:
  olive add "Greek yogurt" 150 --time 08:15
  olive add Soup 200 --date yesterday --ingredients "carrot, leek"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "meal date (YYYY-MM-DD or natural language, default today)")
	cmd.Flags().StringVar(&opts.Time, "time", "", "meal time HH:MM or \"now\" (default 12:00)")
	cmd.Flags().StringVar(&opts.Ingredients, "ingredients", "", "free-text ingredients")
	cmd.Flags().StringVar(&opts.ID, "id", "", "explicit meal id (default generated)")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command, name, rawCalories string) error {
	calories, err := parseCalories(rawCalories)
	if err != nil {
		return err
	}
	date, err := opts.resolveDate(opts.Date)
	if err != nil {
		return err
	}

	m, err := opts.Store().AddMeal(cmd.Context(), meal.Meal{
		ID:          strings.TrimSpace(opts.ID),
		Date:        date,
		Name:        name,
		Calories:    calories,
		Time:        opts.resolveTime(opts.Time),
		Ingredients: opts.Ingredients,
	})
	if err != nil {
		return storeError("add meal", err)
	}

	text := fmt.Sprintf("Added %s (%s kcal) on %s at %s [%s]\n", m.Name, kcal(m.Calories), m.Date, m.Time, m.ID)
	return opts.formatter(cmd).Success(m, text)
}

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Name     string
	Calories string
	Time     string
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a logged meal",
		Long: `Change the name, calories or time of a logged meal.
Fields without a flag keep their current value.

Example:
  olive edit 1736064000000a1b2c3d4e5f6 --calories 180 --time 09:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "new name")
	cmd.Flags().StringVar(&opts.Calories, "calories", "", "new calorie amount")
	cmd.Flags().StringVar(&opts.Time, "time", "", "new time HH:MM or \"now\"")

	return cmd
}

func runEdit(opts *EditOptions, cmd *cobra.Command, id string) error {
	ctx := cmd.Context()
	st := opts.Store()

	current, err := st.GetMeal(ctx, id)
	if err != nil {
		return storeError(fmt.Sprintf("meal %s", id), err)
	}

	name := current.Name
	if cmd.Flags().Changed("name") {
		name = opts.Name
	}
	calories := current.Calories
	if cmd.Flags().Changed("calories") {
		if calories, err = parseCalories(opts.Calories); err != nil {
			return err
		}
	}
	var clock *string
	if cmd.Flags().Changed("time") {
		t := opts.resolveTime(opts.Time)
		clock = &t
	}

	if err := st.UpdateMeal(ctx, id, name, calories, clock); err != nil {
		return storeError("update meal", err)
	}

	updated, err := st.GetMeal(ctx, id)
	if err != nil {
		return storeError("reload meal", err)
	}
	text := fmt.Sprintf("Updated %s (%s kcal) on %s at %s [%s]\n",
		updated.Name, kcal(updated.Calories), updated.Date, updated.Time, updated.ID)
	return opts.formatter(cmd).Success(updated, text)
}

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a logged meal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st := rootOpts.Store()
			id := args[0]

			m, err := st.GetMeal(ctx, id)
			if err != nil {
				return storeError(fmt.Sprintf("meal %s", id), err)
			}
			if err := st.DeleteMeal(ctx, id); err != nil {
				return storeError("delete meal", err)
			}

			text := fmt.Sprintf("Deleted %s (%s kcal) from %s\n", m.Name, kcal(m.Calories), m.Date)
			return rootOpts.formatter(cmd).Success(m, text)
		},
	}
}

func parseCalories(s string) (float64, error) {
	c, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, invalidInput(fmt.Sprintf("calories %q is not a number", s), nil)
	}
	if !meal.IsValidCalories(c) {
		return 0, invalidInput(fmt.Sprintf("calories must be a positive number, got %s", s), nil)
	}
	return c, nil
}
