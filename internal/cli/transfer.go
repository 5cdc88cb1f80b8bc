package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/olive/internal/meal"
	"github.com/roach88/olive/internal/store"
)

// ImportSummary is the result of the import command.
type ImportSummary struct {
	meal.ImportResult
	Total int `json:"total"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import meals from a JSON file",
		Long: `Import meals from a JSON file, or from stdin with "-".

Two shapes are accepted:
  [{"date": "2025-01-05", "name": "Apple", "calories": 95}, ...]
  {"2025-01-05": [{"name": "Apple", "calories": 95}], ...}

Entries with an "id" replace the stored meal with that id. Invalid entries
are skipped and counted; a malformed file imports nothing.

Example:
  olive import olive-export-2025-01-05.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st := rootOpts.Store()
			formatter := rootOpts.formatter(cmd)

			source := args[0]
			if source == "-" {
				source = "stdin"
			}
			formatter.VerboseLog("Importing meals from %s into %s", source, st.Path())

			var res meal.ImportResult
			var err error
			if args[0] == "-" {
				var input any
				input, err = store.DecodeImport(cmd.InOrStdin())
				if err == nil {
					res, err = st.BulkUpsertMeals(ctx, input)
				}
			} else {
				res, err = st.ImportFile(ctx, args[0])
			}
			if err != nil {
				return storeError("import", err)
			}

			if res.Skipped > 0 {
				formatter.VerboseLog("Skipped %d invalid entries", res.Skipped)
			}

			summary := ImportSummary{ImportResult: res, Total: res.Total()}
			text := fmt.Sprintf("Imported %d of %d: %d added, %d updated, %d skipped\n",
				res.Added+res.Updated, summary.Total, res.Added, res.Updated, res.Skipped)
			return formatter.Success(summary, text)
		},
	}
}

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Out string
	Dir string
}

// ExportSummary is the result of the export command.
type ExportSummary struct {
	Path     string `json:"path"`
	Count    int    `json:"count"`
	Template bool   `json:"template"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all meals as JSON",
		Long: `Write every meal to a JSON file that import accepts.

The file is named olive-export-YYYY-MM-DD.json. With no meals logged,
an example file olive-template.json is written instead.

Examples:
  olive export --dir ~/backups
  olive export --out - > meals.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Out, "out", "", `output file, "-" for stdout (default <dir>/<generated name>)`)
	cmd.Flags().StringVar(&opts.Dir, "dir", ".", "directory for the generated file name")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	st := opts.Store()
	formatter := opts.formatter(cmd)
	items, hasData, err := st.Export(cmd.Context())
	if err != nil {
		return storeError("export", err)
	}
	if hasData {
		formatter.VerboseLog("Exporting %d meals from %s", len(items), st.Path())
	} else {
		formatter.VerboseLog("No meals in %s, using the example template", st.Path())
	}

	if opts.Out == "-" {
		return writeExport(cmd.OutOrStdout(), items)
	}

	path := opts.Out
	if path == "" {
		path = filepath.Join(opts.Dir, meal.ExportFileName(hasData, st.Today()))
	}
	if err := writeExportFile(path, items); err != nil {
		return WrapExitError(ExitCommandError, ErrCodeStorage, "write export", err)
	}

	summary := ExportSummary{Path: path, Count: len(items), Template: !hasData}
	text := fmt.Sprintf("Exported %d meals to %s\n", len(items), path)
	if !hasData {
		text = fmt.Sprintf("No meals logged; wrote example file %s\n", path)
	}
	return formatter.Success(summary, text)
}

// writeExport writes items as indented JSON followed by a newline.
func writeExport(w io.Writer, items []meal.ExportItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeExportFile(path string, items []meal.ExportItem) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeExport(f, items); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
