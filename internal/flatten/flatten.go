// Package flatten reshapes ships into a table with one row per (ship,
// generator) pair for reporting.
package flatten

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/table"
)

// Column name prefixes.
const (
	ShipPrefix   = "ship_"
	EnginePrefix = "engine_"
)

// Generator kinds reported by the "kind" engine field.
const (
	KindEngine       = "engine"
	KindElectricPort = "electric_port"
)

const listSeparator = ";"

type shipField struct {
	kind  table.Kind
	value func(*fleet.Ship) any
}

type engineField struct {
	kind  table.Kind
	value func(fleet.PowerGenerator) any
}

var shipFields = map[string]shipField{
	"name":         {table.KindString, func(s *fleet.Ship) any { return s.Name() }},
	"ship_ef":      {table.KindFloat, func(s *fleet.Ship) any { return s.ShipEF() }},
	"engine_count": {table.KindFloat, func(s *fleet.Ship) any { return float64(len(s.Engines())) }},
	"fuels":        {table.KindString, func(s *fleet.Ship) any { return strings.Join(s.FuelNames(), listSeparator) }},
}

var engineFields = map[string]engineField{
	"name":      {table.KindString, func(g fleet.PowerGenerator) any { return g.Name() }},
	"kind":      {table.KindString, generatorKind},
	"type":      {table.KindString, generatorType},
	"slip_rate": {table.KindFloat, func(g fleet.PowerGenerator) any { return g.SlipRate() }},
	"fuels":     {table.KindString, sourceNames},
	"green":     {table.KindFloat, greenElectricity},
}

// ShipFields returns the supported ship field names, sorted.
func ShipFields() []string { return sortedKeys(shipFields) }

// EngineFields returns the supported engine field names, sorted.
func EngineFields() []string { return sortedKeys(engineFields) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Flatten returns one row per (ship, generator) pair, ships and generators
// in input order. Ship columns are named "ship_<field>" and engine columns
// "engine_<field>".
func Flatten(ships []*fleet.Ship, shipFieldNames, engineFieldNames []string) (*table.Table, error) {
	columns := make([]table.Column, 0, len(shipFieldNames)+len(engineFieldNames))
	sf := make([]shipField, len(shipFieldNames))
	for i, name := range shipFieldNames {
		f, ok := shipFields[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown ship field %q (supported: %s)",
				fleet.ErrConfiguration, name, strings.Join(ShipFields(), ", "))
		}
		sf[i] = f
		columns = append(columns, table.Column{Name: ShipPrefix + name, Kind: f.kind})
	}
	ef := make([]engineField, len(engineFieldNames))
	for i, name := range engineFieldNames {
		f, ok := engineFields[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown engine field %q (supported: %s)",
				fleet.ErrConfiguration, name, strings.Join(EngineFields(), ", "))
		}
		ef[i] = f
		columns = append(columns, table.Column{Name: EnginePrefix + name, Kind: f.kind})
	}

	t, err := table.New(columns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fleet.ErrConfiguration, err)
	}

	for _, ship := range ships {
		if ship == nil {
			return nil, fmt.Errorf("%w: nil ship", fleet.ErrConfiguration)
		}
		shipCells := make([]any, len(sf))
		for i, f := range sf {
			shipCells[i] = f.value(ship)
		}
		for _, g := range ship.Engines() {
			row := slices.Clone(shipCells)
			for _, f := range ef {
				row = append(row, f.value(g))
			}
			if err := t.Append(row...); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func generatorKind(g fleet.PowerGenerator) any {
	if _, ok := g.(*fleet.ElectricPort); ok {
		return KindElectricPort
	}
	return KindEngine
}

func generatorType(g fleet.PowerGenerator) any {
	if e, ok := g.(*fleet.Engine); ok {
		return e.Type()
	}
	return ""
}

func sourceNames(g fleet.PowerGenerator) any {
	sources := g.Sources()
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.Name()
	}
	return strings.Join(names, listSeparator)
}

func greenElectricity(g fleet.PowerGenerator) any {
	if p, ok := g.(*fleet.ElectricPort); ok && p.Electricity().IsGreen() {
		return 1.0
	}
	return 0.0
}
