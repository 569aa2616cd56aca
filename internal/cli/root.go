package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/smart-hr-go/internal/app"
	"github.com/cmlabs-hris/smart-hr-go/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "text" | "json" | "yaml"
	Storage    string // overrides STORAGE_DRIVER
	SQLitePath string // overrides SQLITE_PATH

	// Open builds the application. Tests replace it with an in-memory app.
	Open func(ctx context.Context) (*app.App, error)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the hrctl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	opts.Open = opts.openFromConfig
	return newRootCommand(opts)
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hrctl",
		Short: "Smart HR payroll administration",
		Long:  "Manage the employee roster and disburse monthly salaries against the payroll ledger.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			configureLogging(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", "storage driver (postgres|sqlite|memory), default from STORAGE_DRIVER")
	cmd.PersistentFlags().StringVar(&opts.SQLitePath, "db", "", "path to SQLite database, default from SQLITE_PATH")

	// Add subcommands
	cmd.AddCommand(NewEmployeeCommand(opts))
	cmd.AddCommand(NewPayrollCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))

	return cmd
}

// configureLogging keeps service logs off stdout so json and yaml output stay
// parseable.
func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func (o *RootOptions) openFromConfig(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.Storage != "" {
		cfg.Storage.Driver = o.Storage
	}
	if o.SQLitePath != "" {
		cfg.Storage.SQLitePath = o.SQLitePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg)
}

// session opens the application and a formatter for one command run.
func (o *RootOptions) session(cmd *cobra.Command) (*app.App, *OutputFormatter, error) {
	a, err := o.Open(cmd.Context())
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open storage", err)
	}
	return a, o.formatter(cmd), nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
