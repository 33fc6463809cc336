package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/fuelghg/internal/reference"
	"github.com/rshade/fuelghg/internal/report"
	"github.com/rshade/fuelghg/internal/table"
)

// NewReferenceShowCmd creates the reference show command.
func NewReferenceShowCmd() *cobra.Command {
	var (
		export string
		format string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the reference fuels, electricity sources and engine types",
		Example: `  # Show the built-in reference data
  fuelghg reference show

  # Export the fuel table to edit and load back with --fuel-table
  fuelghg reference show --export fuels.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)

			ref, err := loadReference(ctx, cfg.Reference)
			if err != nil {
				return classify(err)
			}
			fuels, err := ref.FuelTable()
			if err != nil {
				return classify(err)
			}

			if export != "" {
				f, err := outputFormat(export, format)
				if err != nil {
					return classify(err)
				}
				written, err := table.Save(ctx, fuels, export, f)
				if err != nil {
					return classify(err)
				}
				cmd.Printf("Wrote %d fuels to %s\n", fuels.Len(), written)
				return nil
			}

			return classify(showReference(cmd, ref, fuels, cfg.Output.Precision))
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "write the fuel table to this path")
	cmd.Flags().StringVar(&format, "format", "", "table format for --export: csv or sqlite")

	return cmd
}

func showReference(cmd *cobra.Command, ref *reference.Registry, fuels *table.Table, precision int) error {
	w := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(w, "Reference data version %s\n\nFUELS\n", ref.Version()); err != nil {
		return err
	}
	if err := report.WriteTable(w, fuels, precision); err != nil {
		return err
	}

	electricity, err := table.New(table.String("name"), table.Float("emission_factor"), table.String("green"))
	if err != nil {
		return err
	}
	for _, name := range ref.ElectricityNames() {
		e, _ := ref.Electricity(name)
		green := "no"
		if e.IsGreen() {
			green = "yes"
		}
		if err := electricity.Append(name, e.EmissionFactor(), green); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "\nELECTRICITY"); err != nil {
		return err
	}
	if err := report.WriteTable(w, electricity, precision); err != nil {
		return err
	}

	engines, err := ref.EngineTable()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "\nENGINES"); err != nil {
		return err
	}
	return report.WriteTable(w, engines, precision)
}
