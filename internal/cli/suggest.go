package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SuggestOptions holds flags for the suggest command.
type SuggestOptions struct {
	*RootOptions
	Limit int
}

// NewSuggestCommand creates the suggest command.
func NewSuggestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SuggestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Suggest previously logged meals by name prefix",
		Long: `List (name, calories) pairs logged before whose name starts with
prefix, most recently logged first.

Example:
  olive suggest toa --limit 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := opts.Limit
			if limit <= 0 {
				limit = opts.cfg.SuggestionLimit
			}

			suggestions, err := opts.Store().GetNameSuggestions(cmd.Context(), args[0], limit)
			if err != nil {
				return storeError("load suggestions", err)
			}

			s := newStyles(cmd.OutOrStdout())
			var b strings.Builder
			for _, sg := range suggestions {
				fmt.Fprintf(&b, "%s %6s kcal\n", s.name.Render(sg.Name), kcal(sg.Calories))
			}
			return opts.formatter(cmd).Success(suggestions, b.String())
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum suggestions (default $OLIVE_SUGGESTION_LIMIT)")

	return cmd
}
