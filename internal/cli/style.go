package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/olive/internal/meal"
)

// styles renders text output. Color is dropped automatically when w is not
// a terminal.
type styles struct {
	heading lipgloss.Style
	dim     lipgloss.Style
	over    lipgloss.Style
	under   lipgloss.Style
	name    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true),
		dim:     r.NewStyle().Faint(true),
		over:    r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		under:   r.NewStyle().Foreground(lipgloss.Color("10")),
		name:    r.NewStyle().Width(24),
	}
}

// kcal formats a calorie amount without trailing zeros.
func kcal(c float64) string {
	return strconv.FormatFloat(c, 'f', -1, 64)
}

func (s styles) mealLine(b *strings.Builder, m meal.Meal) {
	fmt.Fprintf(b, "  %s  %s %6s kcal  %s\n",
		m.Time, s.name.Render(m.Name), kcal(m.Calories), s.dim.Render(m.ID))
	if m.Ingredients != "" {
		fmt.Fprintf(b, "         %s\n", s.dim.Render(m.Ingredients))
	}
}

// goalLine renders a day total against the goal, highlighting overruns.
func (s styles) goalLine(b *strings.Builder, total float64, goal int) {
	remaining := float64(goal) - total
	if remaining < 0 {
		fmt.Fprintf(b, "Total %s / %d kcal %s\n", kcal(total), goal,
			s.over.Render(fmt.Sprintf("(%s over)", kcal(-remaining))))
		return
	}
	fmt.Fprintf(b, "Total %s / %d kcal %s\n", kcal(total), goal,
		s.under.Render(fmt.Sprintf("(%s left)", kcal(remaining))))
}
