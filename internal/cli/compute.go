package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/fuelghg/internal/config"
	"github.com/rshade/fuelghg/internal/consumption"
	"github.com/rshade/fuelghg/internal/engine"
	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/logging"
	"github.com/rshade/fuelghg/internal/report"
	"github.com/rshade/fuelghg/internal/scenario"
	"github.com/rshade/fuelghg/internal/table"
)

// computeFlags are the flags of the compute command.
type computeFlags struct {
	ships             string
	consumption       string
	consumptionFormat string
	output            string
	precision         int
	wind              float64
	target            float64
	year              int
	rate              float64
	concurrency       int
	batchSize         int
	exitOnDeficit     bool
	saveConsumption   string
}

// NewComputeCmd creates the compute command.
func NewComputeCmd() *cobra.Command {
	var flags computeFlags

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute GHG intensity and compliance penalties for a fleet",
		Long: `Computes the well-to-tank and tank-to-wake GHG intensity of every ship in a
fleet definition from its fuel consumption, applies the wind-assistance reward
and assesses the penalty against the target intensity.

The consumption table has the columns ship, generator, fuel and mass. Fuel
mass is in grams; electricity delivered through an electric port is in MJ.`,
		Example: `  # Evaluate against the configured target
  fuelghg compute --ships ships.yaml --consumption consumption.csv

  # Against the 2035 limit, with 12% wind assistance, as JSON
  fuelghg compute --ships ships.yaml --consumption consumption.sqlite --year 2035 --wind 0.12 -o json

  # Fail the build when a ship misses the target
  fuelghg compute --ships ships.yaml --consumption consumption.csv --exit-on-deficit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return classify(runCompute(cmd, &flags))
		},
	}

	cmd.Flags().StringVar(&flags.ships, "ships", "", "fleet definition YAML (required)")
	cmd.Flags().StringVar(&flags.consumption, "consumption", "", "consumption table (required)")
	cmd.Flags().StringVar(&flags.consumptionFormat, "consumption-format", "",
		"consumption table format: csv or sqlite (default: from the file extension)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format: table, json or ndjson")
	cmd.Flags().IntVar(&flags.precision, "precision", 0, "decimals of intensities in table output")
	cmd.Flags().Float64Var(&flags.wind, "wind", 0, "wind-assistance proportion in [0, 1]")
	cmd.Flags().Float64Var(&flags.target, "target", 0, "target GHG intensity in gCO2e/MJ")
	cmd.Flags().IntVar(&flags.year, "year", 0, "reporting year whose target intensity applies")
	cmd.Flags().Float64Var(&flags.rate, "rate", 0, "penalty rate in EUR per tonne of VLSFO equivalent")
	cmd.Flags().IntVar(&flags.concurrency, "concurrency", 0, "parallel ship evaluations (default: number of CPUs)")
	cmd.Flags().IntVar(&flags.batchSize, "batch-size", 0, "ships per evaluation batch")
	cmd.Flags().BoolVar(&flags.exitOnDeficit, "exit-on-deficit", false,
		"exit with code 5 when any ship exceeds the target intensity")
	cmd.Flags().StringVar(&flags.saveConsumption, "save-consumption", "",
		"also write the consumption actually evaluated, duplicates summed, to this csv or sqlite path")
	_ = cmd.MarkFlagRequired("ships")
	_ = cmd.MarkFlagRequired("consumption")

	return cmd
}

// applyComputeFlags overlays explicitly set flags onto cfg.
func applyComputeFlags(cmd *cobra.Command, cfg *config.Config, flags *computeFlags) {
	f := cmd.Flags()
	if f.Changed("output") {
		cfg.Output.DefaultFormat = flags.output
	}
	if f.Changed("precision") {
		cfg.Output.Precision = flags.precision
	}
	if f.Changed("wind") {
		cfg.Compliance.PropWindProportion = flags.wind
	}
	if f.Changed("rate") {
		cfg.Compliance.PenaltyRate = flags.rate
	}
	switch {
	case f.Changed("target"):
		cfg.Compliance.GHGTargetIntensity = flags.target
	case f.Changed("year"):
		cfg.Compliance.GHGTargetIntensity = 0
		cfg.Compliance.TargetYear = flags.year
	}
}

func runCompute(cmd *cobra.Command, flags *computeFlags) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	cfg := *configFromContext(ctx)
	applyComputeFlags(cmd, &cfg, flags)
	if err := cfg.Validate(); err != nil {
		return configError(err)
	}
	target, err := cfg.Compliance.TargetIntensity()
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Output.DefaultFormat)
	if err != nil {
		return configError(err)
	}

	ref, err := loadReference(ctx, cfg.Reference)
	if err != nil {
		return err
	}
	fleetDef, err := scenario.LoadFile(flags.ships)
	if err != nil {
		return err
	}
	usage, err := loadConsumption(cmd, flags)
	if err != nil {
		return err
	}
	scenarios, err := scenario.Assemble(fleetDef, ref, usage)
	if err != nil {
		return err
	}
	if flags.saveConsumption != "" {
		if err := saveConsumption(cmd, scenarios, flags.saveConsumption); err != nil {
			return err
		}
	}

	eng, err := engine.New(engine.Options{
		WindProportion:  cfg.Compliance.PropWindProportion,
		PenaltyRate:     cfg.Compliance.PenaltyRate,
		TargetIntensity: target,
		Concurrency:     flags.concurrency,
		BatchSize:       flags.batchSize,
	})
	if err != nil {
		return err
	}

	outcomes, err := eng.EvaluateFleet(ctx, scenarios)
	if err != nil {
		return err
	}

	if err := report.Render(cmd.OutOrStdout(), outcomes, report.Options{
		Format:          format,
		Precision:       cfg.Output.Precision,
		Styled:          format == report.FormatTable && isWriterTerminal(cmd.OutOrStdout()),
		TargetIntensity: target,
	}); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	summary := engine.Summarize(outcomes)
	log.Info().Ctx(ctx).
		Int("ships", summary.Ships).
		Int("failed", summary.Failed).
		Int("compliant", summary.Compliant).
		Float64("intensity", summary.Intensity).
		Str("penalty", summary.PenaltyAmount.String()).
		Msg("fleet evaluated")

	if summary.Failed > 0 {
		return firstFailure(outcomes, summary)
	}
	if flags.exitOnDeficit && summary.Compliant < summary.Ships {
		return deficitError(summary.Ships-summary.Compliant, summary.Ships)
	}
	return nil
}

func loadConsumption(cmd *cobra.Command, flags *computeFlags) (*table.Table, error) {
	var (
		format table.Format
		err    error
	)
	if flags.consumptionFormat != "" {
		format, err = table.ParseFormat(flags.consumptionFormat)
	} else {
		format, err = table.FormatOf(flags.consumption)
	}
	if err != nil {
		return nil, err
	}
	return table.Load(cmd.Context(), flags.consumption, format, scenario.Columns()...)
}

// saveConsumption writes the per-generator records of scenarios back out as
// a consumption table.
func saveConsumption(cmd *cobra.Command, scenarios []engine.Scenario, path string) error {
	ships := make([]*fleet.Ship, len(scenarios))
	records := make(map[string][]consumption.Record, len(scenarios))
	for i, sc := range scenarios {
		ships[i] = sc.Ship
		records[sc.Ship.Name()] = sc.Records
	}
	t, err := scenario.RecordsTable(ships, records)
	if err != nil {
		return err
	}
	format, err := outputFormat(path, "")
	if err != nil {
		return err
	}
	written, err := table.Save(cmd.Context(), t, path, format)
	if err != nil {
		return err
	}
	cmd.Printf("Wrote %d consumption rows to %s\n", t.Len(), written)
	return nil
}

// firstFailure reports failed ships with the exit code of the first one.
func firstFailure(outcomes []engine.Outcome, summary engine.Summary) error {
	for _, o := range outcomes {
		if o.Err != nil {
			return &ExitError{
				Code: ExitCodeFor(o.Err),
				Err:  fmt.Errorf("%d of %d ships failed: %w", summary.Failed, summary.Ships, o.Err),
			}
		}
	}
	return errors.New("ship evaluation failed")
}
