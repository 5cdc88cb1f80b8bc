package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every logged meal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, ErrCodeUsage, "refusing to delete all meals without --yes")
			}
			if err := rootOpts.Store().ClearAllMeals(cmd.Context()); err != nil {
				return storeError("clear meals", err)
			}
			return rootOpts.formatter(cmd).Success(map[string]bool{"cleared": true}, "All meals deleted.\n")
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the database file and start over",
		Long: `Delete the database file and create a fresh, empty one at the
latest schema version. Use this when the database is damaged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, ErrCodeUsage, "refusing to reset the database without --yes")
			}
			st := rootOpts.Store()
			formatter := rootOpts.formatter(cmd)
			formatter.VerboseLog("Deleting %s and recreating the schema", st.Path())
			if err := st.Reset(cmd.Context()); err != nil {
				return storeError("reset database", err)
			}
			return formatter.Success(
				map[string]string{"path": st.Path()},
				fmt.Sprintf("Database %s reset.\n", st.Path()),
			)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm reset")
	return cmd
}

// SchemaView is the result of the schema command.
type SchemaView struct {
	Path    string   `json:"path"`
	Version int      `json:"version"`
	Columns []string `json:"columns"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Show the database schema version and columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := rootOpts.Store()
			info, err := st.SchemaInfo(cmd.Context())
			if err != nil {
				return storeError("read schema", err)
			}

			view := SchemaView{Path: st.Path(), Version: info.Version, Columns: []string{}}
			var b strings.Builder
			fmt.Fprintf(&b, "%s (schema version %d)\n", st.Path(), info.Version)
			for _, c := range info.Columns {
				view.Columns = append(view.Columns, c.Name)
				fmt.Fprintf(&b, "  %-12s %s\n", c.Name, c.Type)
			}
			return rootOpts.formatter(cmd).Success(view, b.String())
		},
	}
}
