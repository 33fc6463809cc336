package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/fuelghg/internal/flatten"
	"github.com/rshade/fuelghg/internal/logging"
	"github.com/rshade/fuelghg/internal/report"
	"github.com/rshade/fuelghg/internal/scenario"
	"github.com/rshade/fuelghg/internal/table"
)

// NewFlattenCmd creates the flatten command.
func NewFlattenCmd() *cobra.Command {
	var (
		ships        string
		shipFields   []string
		engineFields []string
		out          string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Flatten a fleet definition into one row per generator",
		Long: fmt.Sprintf(`Flattens the ships of a fleet definition into a table with one row per
generator. Ship columns are prefixed with %q and generator columns with %q.

Ship fields:      %s
Generator fields: %s`,
			flatten.ShipPrefix, flatten.EnginePrefix,
			strings.Join(flatten.ShipFields(), ", "), strings.Join(flatten.EngineFields(), ", ")),
		Example: `  # Print the flattened fleet
  fuelghg flatten --ships ships.yaml

  # Only names and slip rates, saved as SQLite
  fuelghg flatten --ships ships.yaml --ship-fields name --engine-fields name,slip_rate --out fleet --format sqlite`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logging.FromContext(ctx)
			cfg := configFromContext(ctx)

			ref, err := loadReference(ctx, cfg.Reference)
			if err != nil {
				return classify(err)
			}
			def, err := scenario.LoadFile(ships)
			if err != nil {
				return classify(err)
			}
			built, err := scenario.BuildShips(def, ref)
			if err != nil {
				return classify(err)
			}
			t, err := flatten.Flatten(built, shipFields, engineFields)
			if err != nil {
				return classify(err)
			}

			if out == "" {
				return report.WriteTable(cmd.OutOrStdout(), t, cfg.Output.Precision)
			}

			f, err := outputFormat(out, format)
			if err != nil {
				return classify(err)
			}
			written, err := table.Save(ctx, t, out, f)
			if err != nil {
				return classify(err)
			}
			log.Info().Ctx(ctx).Str("path", written).Int("rows", t.Len()).Msg("flattened fleet saved")
			cmd.Printf("Wrote %d rows to %s\n", t.Len(), written)
			return nil
		},
	}

	cmd.Flags().StringVar(&ships, "ships", "", "fleet definition YAML (required)")
	cmd.Flags().StringSliceVar(&shipFields, "ship-fields", flatten.ShipFields(), "ship fields to include")
	cmd.Flags().StringSliceVar(&engineFields, "engine-fields", flatten.EngineFields(), "generator fields to include")
	cmd.Flags().StringVar(&out, "out", "", "write the table to this path instead of stdout")
	cmd.Flags().StringVar(&format, "format", "", "table format for --out: csv or sqlite (default: from the extension, else csv)")
	_ = cmd.MarkFlagRequired("ships")

	return cmd
}

// outputFormat resolves the table format for a written file: the explicit
// name, else the path's extension, else csv.
func outputFormat(path, name string) (table.Format, error) {
	if name != "" {
		return table.ParseFormat(name)
	}
	if f, err := table.FormatOf(path); err == nil {
		return f, nil
	}
	return table.FormatCSV, nil
}
