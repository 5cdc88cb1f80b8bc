package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/olive/internal/config"
	"github.com/roach88/olive/internal/meal"
	"github.com/roach88/olive/internal/prefs"
	"github.com/roach88/olive/internal/store"
)

// RootOptions holds global flags for all commands and the resources they
// share during one invocation.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // overrides OLIVE_DB
	Settings string // overrides OLIVE_SETTINGS

	// Clock defaults to the system clock. Tests inject a fixed one.
	Clock meal.Clock

	cfg    config.Config
	logger *slog.Logger
	closer io.Closer
	store  *store.Store
	prefs  *prefs.Service
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the olive CLI.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "olive",
		Short: "olive - a local calorie log",
		Long: `Record meals against calendar dates, review daily totals against a
calorie goal, and move data in and out as JSON.

Meals live in a local SQLite database (OLIVE_DB, --db). The goal and
theme live in a YAML settings file (OLIVE_SETTINGS, --settings).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $OLIVE_DB or olive.db)")
	cmd.PersistentFlags().StringVar(&opts.Settings, "settings", "", "path to settings file (default $OLIVE_SETTINGS or olive-settings.yaml)")

	// Add subcommands
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewDayCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTotalsCommand(opts))
	cmd.AddCommand(NewSuggestCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewGoalCommand(opts))
	cmd.AddCommand(NewThemeCommand(opts))

	return cmd
}

// Run executes the CLI with args and returns the process exit code. Errors
// are reported on stdout as a CLIResponse in JSON mode and on stderr in
// text mode.
func Run(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if cerr := opts.Close(); cerr != nil && err == nil {
		err = WrapExitError(ExitCommandError, ErrCodeStorage, "close resources", cerr)
	}
	if err == nil {
		return ExitSuccess
	}

	format := opts.Format
	if !isValidFormat(format) {
		format = "text"
	}
	f := &OutputFormatter{Format: format, Writer: stdout, ErrWriter: stderr, Verbose: opts.Verbose}
	_ = f.Error(GetErrCode(err), err.Error(), nil)
	return GetExitCode(err)
}

// setup loads the environment configuration, applies flag overrides and
// builds the logger.
func (o *RootOptions) setup(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeConfig, "load configuration", err)
	}
	if o.Database != "" {
		cfg.DBPath = o.Database
	}
	if o.Settings != "" {
		cfg.SettingsPath = o.Settings
	}

	logger, closer, err := cfg.NewLogger(stderr, o.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, ErrCodeConfig, "configure logging", err)
	}
	if o.Clock == nil {
		o.Clock = meal.SystemClock{}
	}

	o.cfg = cfg
	o.logger = logger
	o.closer = closer
	return nil
}

// Store returns the meal store, created on first call. The database is
// opened on first use.
func (o *RootOptions) Store() *store.Store {
	if o.store == nil {
		o.store = store.New(o.cfg.DBPath,
			store.WithLogger(o.logger.With("component", "store")),
			store.WithClock(o.Clock),
		)
	}
	return o.store
}

// Prefs returns the preference service, created on first call.
func (o *RootOptions) Prefs() *prefs.Service {
	if o.prefs == nil {
		o.prefs = prefs.NewService(prefs.NewFileKV(o.cfg.SettingsPath, o.logger), o.logger)
	}
	return o.prefs
}

// Close releases the store and log file.
func (o *RootOptions) Close() error {
	var errs []error
	if o.store != nil {
		errs = append(errs, o.store.Close())
		o.store = nil
	}
	if o.closer != nil {
		errs = append(errs, o.closer.Close())
		o.closer = nil
	}
	return errors.Join(errs...)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
