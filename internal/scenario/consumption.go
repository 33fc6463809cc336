package scenario

import (
	"fmt"
	"math"

	"github.com/rshade/fuelghg/internal/consumption"
	"github.com/rshade/fuelghg/internal/engine"
	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/reference"
	"github.com/rshade/fuelghg/internal/table"
)

// Columns of a consumption table. Each row records the mass of one source
// consumed by one generator of one ship; electricity is recorded in MJ.
const (
	ColShip      = "ship"
	ColGenerator = "generator"
	ColSource    = "fuel"
	ColMass      = "mass"
)

// Columns returns the typed consumption table columns. Pass them to
// table.Load so ships and generators named by number stay text.
func Columns() []table.Column {
	return []table.Column{table.String(ColShip), table.String(ColGenerator), table.String(ColSource), table.Float(ColMass)}
}

// Records converts a consumption table into per-ship records aligned with
// each ship's generators. Rows repeating a ship, generator and source are
// summed. Ships without rows get empty records.
func Records(t *table.Table, ships []*fleet.Ship) (map[string][]consumption.Record, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil consumption table", fleet.ErrConfiguration)
	}
	for _, col := range []string{ColShip, ColGenerator, ColSource, ColMass} {
		if _, ok := t.Column(col); !ok {
			return nil, fmt.Errorf("%w: consumption table lacks column %q", table.ErrSchema, col)
		}
	}

	byShip := make(map[string]*fleet.Ship, len(ships))
	out := make(map[string][]consumption.Record, len(ships))
	for _, s := range ships {
		byShip[s.Name()] = s
		recs := make([]consumption.Record, len(s.Engines()))
		for i := range recs {
			recs[i] = consumption.Record{}
		}
		out[s.Name()] = recs
	}

	for i := range t.Len() {
		shipName, err := t.StringAt(i, ColShip)
		if err != nil {
			return nil, err
		}
		genName, err := t.StringAt(i, ColGenerator)
		if err != nil {
			return nil, err
		}
		source, err := t.StringAt(i, ColSource)
		if err != nil {
			return nil, err
		}
		mass, err := t.FloatAt(i, ColMass)
		if err != nil {
			return nil, err
		}

		s, ok := byShip[shipName]
		if !ok {
			return nil, fmt.Errorf("%w: consumption row %d: unknown ship %q", fleet.ErrConfiguration, i+1, shipName)
		}
		g := generatorIndex(s, genName)
		if g < 0 {
			return nil, fmt.Errorf("%w: consumption row %d: ship %q has no generator %q",
				fleet.ErrConfiguration, i+1, shipName, genName)
		}
		if math.IsNaN(mass) || math.IsInf(mass, 0) || mass < 0 {
			return nil, fmt.Errorf("%w: consumption row %d: mass must be a non-negative number, got %v",
				fleet.ErrConfiguration, i+1, mass)
		}
		out[shipName][g][source] += mass
	}
	return out, nil
}

func generatorIndex(s *fleet.Ship, name string) int {
	for i, g := range s.Engines() {
		if g.Name() == name {
			return i
		}
	}
	return -1
}

// RecordsTable is the inverse of Records: one row per non-zero source mass,
// ships in the given order, generators and sources in ship order.
func RecordsTable(ships []*fleet.Ship, records map[string][]consumption.Record) (*table.Table, error) {
	t, err := table.New(Columns()...)
	if err != nil {
		return nil, err
	}
	for _, s := range ships {
		recs := records[s.Name()]
		for gi, g := range s.Engines() {
			if gi >= len(recs) {
				break
			}
			for _, src := range s.FuelNames() {
				mass := recs[gi][src]
				if mass == 0 {
					continue
				}
				if err := t.Append(s.Name(), g.Name(), src, mass); err != nil {
					return nil, err
				}
			}
		}
	}
	return t, nil
}

// Assemble builds the ships of f from ref and pairs each with its records
// from the consumption table, in definition order.
func Assemble(f File, ref *reference.Registry, t *table.Table) ([]engine.Scenario, error) {
	ships, err := BuildShips(f, ref)
	if err != nil {
		return nil, err
	}
	records, err := Records(t, ships)
	if err != nil {
		return nil, err
	}

	scenarios := make([]engine.Scenario, len(ships))
	for i, s := range ships {
		scenarios[i] = engine.Scenario{
			Ship:           s,
			Records:        records[s.Name()],
			WindProportion: f.Ships[i].WindProportion,
		}
	}
	return scenarios, nil
}
