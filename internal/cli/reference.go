package cli

import (
	"context"
	"fmt"

	"github.com/rshade/fuelghg/internal/config"
	"github.com/rshade/fuelghg/internal/logging"
	"github.com/rshade/fuelghg/internal/reference"
	"github.com/rshade/fuelghg/internal/table"
)

// loadReference builds the registry described by rc: the YAML at rc.Path
// or the built-in data, with fuels from rc.FuelTable replacing or adding to
// the document's fuels.
func loadReference(ctx context.Context, rc config.ReferenceConfig) (*reference.Registry, error) {
	log := logging.FromContext(ctx)

	var (
		doc reference.Document
		err error
	)
	if rc.Path == "" {
		doc, err = reference.DefaultDocument()
	} else {
		doc, err = reference.LoadDocument(rc.Path)
	}
	if err != nil {
		return nil, err
	}

	if rc.FuelTable != "" {
		format, err := table.FormatOf(rc.FuelTable)
		if err != nil {
			return nil, err
		}
		t, err := table.Load(ctx, rc.FuelTable, format, reference.FuelTableKeys()...)
		if err != nil {
			return nil, err
		}
		entries, err := reference.FuelEntriesFromTable(t)
		if err != nil {
			return nil, fmt.Errorf("fuel table %s: %w", rc.FuelTable, err)
		}
		doc.Fuels = mergeFuels(doc.Fuels, entries)
	}

	reg, err := reference.Build(doc)
	if err != nil {
		return nil, err
	}

	log.Debug().Ctx(ctx).
		Str("path", rc.Path).
		Str("fuel_table", rc.FuelTable).
		Str("version", reg.Version().String()).
		Int("fuels", len(reg.FuelNames())).
		Int("engine_types", len(reg.EngineTypes())).
		Msg("reference data loaded")
	return reg, nil
}

// mergeFuels replaces same-named base entries with overrides and appends
// the rest, keeping base order.
func mergeFuels(base, overrides []reference.FuelEntry) []reference.FuelEntry {
	byName := make(map[string]int, len(base))
	out := append([]reference.FuelEntry(nil), base...)
	for i, e := range out {
		byName[e.Name] = i
	}
	for _, e := range overrides {
		if i, ok := byName[e.Name]; ok {
			out[i] = e
			continue
		}
		byName[e.Name] = len(out)
		out = append(out, e)
	}
	return out
}
