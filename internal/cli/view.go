package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/olive/internal/meal"
)

// DayView is one date's meals and total.
type DayView struct {
	Date      string      `json:"date"`
	Meals     []meal.Meal `json:"meals"`
	Total     float64     `json:"total"`
	Goal      int         `json:"goal"`
	Remaining float64     `json:"remaining"`
}

// DateTotal is one row of the totals command.
type DateTotal struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

func newDayView(date string, meals []meal.Meal, total float64, goal int) DayView {
	return DayView{
		Date:      date,
		Meals:     meals,
		Total:     total,
		Goal:      goal,
		Remaining: float64(goal) - total,
	}
}

// DayOptions holds flags for the day command.
type DayOptions struct {
	*RootOptions
	Date string
}

// NewDayCommand creates the day command.
func NewDayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Show one day's meals against the goal",
		Long: `Show the meals of one date, ordered by time, with the day total
against the calorie goal.

Examples:
  olive day
  olive day --date yesterday
  olive day --date 2025-01-05 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "date to show (default today)")

	return cmd
}

func runDay(opts *DayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	date, err := opts.resolveDate(opts.Date)
	if err != nil {
		return err
	}

	st := opts.Store()
	meals, err := st.GetMealsByDate(ctx, date)
	if err != nil {
		return storeError("load meals", err)
	}
	total, err := st.GetTotalForDate(ctx, date)
	if err != nil {
		return storeError("load total", err)
	}
	view := newDayView(date, meals, total, opts.Prefs().Goal.Get(ctx))

	s := newStyles(cmd.OutOrStdout())
	var b strings.Builder
	b.WriteString(s.heading.Render(date) + "\n")
	if len(meals) == 0 {
		b.WriteString(s.dim.Render("  no meals logged") + "\n")
	}
	for _, m := range meals {
		s.mealLine(&b, m)
	}
	s.goalLine(&b, view.Total, view.Goal)

	return opts.formatter(cmd).Success(view, b.String())
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show every logged day, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st := rootOpts.Store()

			grouped, err := st.GetAllMealsGroupedByDate(ctx)
			if err != nil {
				return storeError("load history", err)
			}
			totals, err := st.GetTotalsByDate(ctx)
			if err != nil {
				return storeError("load totals", err)
			}
			goal := rootOpts.Prefs().Goal.Get(ctx)

			s := newStyles(cmd.OutOrStdout())
			var b strings.Builder
			days := []DayView{}
			for i, date := range meal.SortedDatesDesc(grouped) {
				day := newDayView(date, grouped[date], totals[date], goal)
				days = append(days, day)

				if i > 0 {
					b.WriteString("\n")
				}
				b.WriteString(s.heading.Render(date) + "\n")
				for _, m := range day.Meals {
					s.mealLine(&b, m)
				}
				s.goalLine(&b, day.Total, goal)
			}
			if len(days) == 0 {
				b.WriteString("No meals logged yet.\n")
			}

			return rootOpts.formatter(cmd).Success(days, b.String())
		},
	}
}

// NewTotalsCommand creates the totals command.
func NewTotalsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Show the calorie total of every logged day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			totals, err := rootOpts.Store().GetTotalsByDate(ctx)
			if err != nil {
				return storeError("load totals", err)
			}
			goal := rootOpts.Prefs().Goal.Get(ctx)

			s := newStyles(cmd.OutOrStdout())
			var b strings.Builder
			rows := []DateTotal{}
			for _, date := range meal.SortedDatesDesc(totals) {
				rows = append(rows, DateTotal{Date: date, Total: totals[date]})
				style := s.under
				if totals[date] > float64(goal) {
					style = s.over
				}
				fmt.Fprintf(&b, "%s  %s kcal\n", date, style.Render(fmt.Sprintf("%8s", kcal(totals[date]))))
			}
			if len(rows) == 0 {
				b.WriteString("No meals logged yet.\n")
			}

			return rootOpts.formatter(cmd).Success(rows, b.String())
		},
	}
}
