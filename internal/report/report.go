// Package report renders fleet evaluation results as an aligned table, a
// JSON document or newline-delimited JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/fuelghg/internal/engine"
)

// Format selects the rendering.
type Format string

const (
	FormatTable  Format = "table"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatJSON, FormatNDJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table, json or ndjson)", name)
	}
}

// Options control rendering.
type Options struct {
	Format Format

	// Precision is the number of decimals of intensities in table output.
	Precision int

	// Styled adds terminal styling to table output.
	Styled bool

	// TargetIntensity is shown in the table header and JSON summary.
	TargetIntensity float64
}

// ShipRecord is the serialized form of one outcome.
type ShipRecord struct {
	Index int `json:"index"`
	*engine.Result
	Ship  string `json:"ship"`
	Error string `json:"error,omitempty"`
}

// Document is the JSON report.
type Document struct {
	TargetIntensity float64        `json:"target_intensity"`
	Ships           []ShipRecord   `json:"ships"`
	Summary         engine.Summary `json:"summary"`
}

// NewDocument builds the JSON report of outcomes.
func NewDocument(outcomes []engine.Outcome, target float64) Document {
	doc := Document{
		TargetIntensity: target,
		Ships:           make([]ShipRecord, len(outcomes)),
		Summary:         engine.Summarize(outcomes),
	}
	for i, o := range outcomes {
		doc.Ships[i] = newShipRecord(o)
	}
	return doc
}

func newShipRecord(o engine.Outcome) ShipRecord {
	rec := ShipRecord{Index: o.Index, Ship: o.Ship, Result: o.Result}
	if o.Err != nil {
		rec.Error = o.Err.Error()
		rec.Result = nil
	}
	return rec
}

// Render writes outcomes to w.
func Render(w io.Writer, outcomes []engine.Outcome, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(outcomes, opts.TargetIntensity))
	case FormatNDJSON:
		return renderNDJSON(w, outcomes)
	case FormatTable, "":
		return renderTable(w, outcomes, opts)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Format)
	}
}

// renderNDJSON writes one line per ship followed by a summary line.
func renderNDJSON(w io.Writer, outcomes []engine.Outcome) error {
	enc := json.NewEncoder(w)
	for _, o := range outcomes {
		if err := enc.Encode(newShipRecord(o)); err != nil {
			return fmt.Errorf("encoding ship %q: %w", o.Ship, err)
		}
	}
	summary := struct {
		Summary engine.Summary `json:"summary"`
	}{engine.Summarize(outcomes)}
	return enc.Encode(summary)
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
}

func summaryStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
}

func statusStyle(compliant bool) lipgloss.Style {
	if compliant {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
}
