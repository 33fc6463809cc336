package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/fuelghg/internal/config"
)

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the effective configuration: the config file, any project overlay
and environment overrides. This includes:
- compliance parameters (wind proportion, penalty rate, target)
- output format and precision
- logging format
- loading the configured reference data`,
		Example: `  # Validate current configuration
  fuelghg config validate

  # Validate and show the resolved values
  fuelghg config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	ctx := cmd.Context()
	cfg := configFromContext(ctx)

	if err := cfg.Validate(); err != nil {
		return configError(fmt.Errorf("configuration validation failed: %w", err))
	}
	ref, err := loadReference(ctx, cfg.Reference)
	if err != nil {
		return classify(fmt.Errorf("reference data: %w", err))
	}

	cmd.Printf("Configuration is valid\n")
	if verbose {
		printVerboseDetails(cmd, cfg)
		cmd.Printf("  Reference data: version %s, %d fuels, %d electricity sources, %d engine types\n",
			ref.Version(), len(ref.FuelNames()), len(ref.ElectricityNames()), len(ref.EngineTypes()))
	}
	return nil
}

func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	target, _ := cfg.Compliance.TargetIntensity()

	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Wind proportion: %g\n", cfg.Compliance.PropWindProportion)
	cmd.Printf("  Penalty rate: %g\n", cfg.Compliance.PenaltyRate)
	if cfg.Compliance.GHGTargetIntensity != 0 {
		cmd.Printf("  Target intensity: %g gCO2e/MJ\n", target)
	} else {
		cmd.Printf("  Target intensity: %g gCO2e/MJ (year %d)\n", target, cfg.Compliance.TargetYear)
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
