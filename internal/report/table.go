package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rshade/fuelghg/internal/engine"
	"github.com/rshade/fuelghg/internal/table"
)

// tabwriterPadding is the minimum padding between columns.
const tabwriterPadding = 2

const (
	quantityPrecision = 2
	statusCompliant   = "COMPLIANT"
	statusDeficit     = "DEFICIT"
	statusFailed      = "FAILED"
)

func renderTable(w io.Writer, outcomes []engine.Outcome, opts Options) error {
	title := fmt.Sprintf("GHG INTENSITY (target %s gCO2e/MJ)", FormatFloat(opts.TargetIntensity, opts.Precision))
	if opts.Styled {
		title = titleStyle().Render(title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "SHIP\tWTT\tTTW\tWIND\tINTENSITY\tENERGY(MJ)\tGHG(tCO2e)\tBALANCE\tSTATUS\tPENALTY(EUR)\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "----\t---\t---\t----\t---------\t----------\t----------\t-------\t------\t------------\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	var failures []engine.Outcome
	for _, o := range outcomes {
		if o.Err != nil || o.Result == nil {
			failures = append(failures, o)
			if _, err := fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\t-\t%s\t-\n", o.Ship, statusFailed); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
			continue
		}
		if err := writeResultRow(tw, o.Result, opts.Precision); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, o := range failures {
		if _, err := fmt.Fprintf(w, "error: %s: %v\n", o.Ship, o.Err); err != nil {
			return err
		}
	}

	return writeSummary(w, engine.Summarize(outcomes), opts)
}

func writeResultRow(w io.Writer, r *engine.Result, precision int) error {
	b, a := r.Breakdown, r.Assessment
	status := statusDeficit
	if a.Compliant {
		status = statusCompliant
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		r.Ship,
		FormatFloat(b.WtT, precision),
		FormatFloat(b.TtW, precision),
		FormatFloat(b.WindReward, quantityPrecision),
		FormatFloat(b.Intensity, precision),
		FormatFloat(b.EnergyMJ, quantityPrecision),
		FormatFloat(b.EmissionsG/engine.GramsPerTonne, quantityPrecision),
		FormatFloat(a.Balance, precision),
		status,
		FormatMoney(a.Amount),
	)
	return err
}

func writeSummary(w io.Writer, s engine.Summary, opts Options) error {
	lines := []string{
		fmt.Sprintf("Ships:      %d (%d compliant, %d failed)", s.Ships, s.Compliant, s.Failed),
		fmt.Sprintf("Energy:     %s MJ", FormatFloat(s.EnergyMJ, quantityPrecision)),
		fmt.Sprintf("Emissions:  %s tCO2e", FormatFloat(s.EmissionsTCO2e, quantityPrecision)),
		fmt.Sprintf("Intensity:  %s gCO2e/MJ", FormatFloat(s.Intensity, opts.Precision)),
		fmt.Sprintf("Penalty:    %s EUR", FormatMoney(s.PenaltyAmount)),
	}
	body := strings.Join(lines, "\n")
	if opts.Styled {
		compliant := s.Failed == 0 && s.Compliant == s.Ships
		body = summaryStyle().BorderForeground(statusStyle(compliant).GetForeground()).Render(body)
	}
	_, err := fmt.Fprintf(w, "\n%s\n", body)
	return err
}

// WriteTable writes a generic table with aligned columns. Float cells use
// precision decimals.
func WriteTable(w io.Writer, t *table.Table, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	names := t.ColumnNames()
	header := make([]string, len(names))
	rule := make([]string, len(names))
	for i, n := range names {
		header[i] = strings.ToUpper(n)
		rule[i] = strings.Repeat("-", len(n))
	}
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, strings.Join(rule, "\t")); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	cells := make([]string, len(names))
	for i := range t.Len() {
		for j, v := range t.Row(i) {
			switch v := v.(type) {
			case float64:
				cells[j] = FormatFloat(v, precision)
			default:
				cells[j] = fmt.Sprint(v)
			}
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return tw.Flush()
}
