package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/fuelghg/internal/config"
	"github.com/rshade/fuelghg/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isWriterTerminal reports whether w is a terminal. Non-file writers, such
// as buffers in tests, never are.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

type configKey struct{}

// annotationConfigOptional marks commands that run without an existing
// config file.
const annotationConfigOptional = "fuelghg/config-optional"

// contextWithConfig stores the effective configuration.
func contextWithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromContext returns the effective configuration, or the defaults
// when the root command has not loaded one.
func configFromContext(ctx context.Context) *config.Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return cfg
		}
	}
	return config.New()
}

// NewRootCmd creates the root command of the fuelghg CLI. It loads the
// configuration, sets up logging and registers the subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "fuelghg",
		Short:   "Ship GHG intensity and compliance penalty calculator",
		Long:    "fuelghg: compute well-to-wake GHG intensity of ships from fuel consumption and assess compliance penalties",
		Version: ver,
		Example: rootCmdExample,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := loadConfig(ctx, cmd)
			if err != nil {
				if cmd.Annotations[annotationConfigOptional] != "true" || !errors.Is(err, os.ErrNotExist) {
					return configError(err)
				}
				cfg = config.New()
				cfg.ApplyEnv()
			}
			cmd.SetContext(contextWithConfig(ctx, cfg))

			result := setupLogging(cmd, cfg)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logResult != nil {
				return logResult.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default ~/.fuelghg/config.yaml, or $FUELGHG_CONFIG)")
	cmd.PersistentFlags().String("project-dir", "", "project directory whose .fuelghg/config.yaml overlays the config")
	cmd.PersistentFlags().String("reference", "", "reference data YAML (default: built-in data)")
	cmd.PersistentFlags().String("fuel-table", "", "additional fuel reference table (.csv or .sqlite)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	cmd.AddCommand(NewComputeCmd(), NewFlattenCmd(), newReferenceCmd(), newConfigCmd())
	return cmd
}

// loadConfig builds the effective configuration: file, project overlay,
// environment, then root flags.
func loadConfig(ctx context.Context, cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	projectFlag, _ := cmd.Flags().GetString("project-dir")
	wd, _ := os.Getwd()
	config.ApplyProjectDir(ctx, cfg, config.ResolveProjectDir(ctx, projectFlag, wd))
	cfg.ApplyEnv()

	if cmd.Flags().Changed("reference") {
		cfg.Reference.Path, _ = cmd.Flags().GetString("reference")
	}
	if cmd.Flags().Changed("fuel-table") {
		cfg.Reference.FuelTable, _ = cmd.Flags().GetString("fuel-table")
	}
	return cfg, nil
}

const rootCmdExample = `  # Compute intensity and penalties for a fleet
  fuelghg compute --ships ships.yaml --consumption consumption.csv

  # Same, as JSON, against the 2030 target
  fuelghg compute --ships ships.yaml --consumption consumption.csv --year 2030 -o json

  # Flatten the fleet definition into one row per generator
  fuelghg flatten --ships ships.yaml --out fleet.sqlite

  # Show the reference fuels and engines
  fuelghg reference show

  # Write and check configuration
  fuelghg config init
  fuelghg config validate`

// newReferenceCmd creates the reference command group.
func newReferenceCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "reference", Short: "Reference data commands"}
	cmd.AddCommand(NewReferenceShowCmd())
	return cmd
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
