// Package consumption assembles the fuel × engine consumption matrix of a
// ship from per-engine fuel mass records.
package consumption

import (
	"fmt"
	"math"

	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/matrix"
)

// Record maps power source name to consumed mass for one generator.
// Electricity is recorded in MJ.
type Record map[string]float64

// Total returns the mass summed over all sources in the record.
func (r Record) Total() float64 {
	var total float64
	for _, v := range r {
		total += v
	}
	return total
}

// Build returns a matrix with one row per ship fuel (in ship.FuelNames order)
// and one column per engine (in ship.Engines order). records[i] belongs to
// the i-th engine and is left-joined onto the fuel index; fuels an engine has
// no record for resolve to 0.
func Build(ship *fleet.Ship, records []Record) (*matrix.Matrix, error) {
	if ship == nil {
		return nil, fmt.Errorf("%w: nil ship", fleet.ErrConfiguration)
	}

	engines := ship.Engines()
	if len(records) != len(engines) {
		return nil, fmt.Errorf("%w: ship %q has %d engines but %d mass records",
			fleet.ErrConfiguration, ship.Name(), len(engines), len(records))
	}

	table, err := matrix.New(matrix.FuelAxis, ship.FuelNames(), nil)
	if err != nil {
		return nil, err
	}

	for i, rec := range records {
		if err := validate(ship, engines[i], rec); err != nil {
			return nil, err
		}
		if table, err = table.JoinColumn(engines[i].Name(), rec); err != nil {
			return nil, err
		}
	}

	return table, nil
}

func validate(ship *fleet.Ship, engine fleet.PowerGenerator, rec Record) error {
	for fuel, mass := range rec {
		if _, ok := ship.Fuel(fuel); !ok {
			return fmt.Errorf("%w: ship %q: engine %q records fuel %q which the ship does not use",
				fleet.ErrConfiguration, ship.Name(), engine.Name(), fuel)
		}
		if math.IsNaN(mass) || math.IsInf(mass, 0) || mass < 0 {
			return fmt.Errorf("%w: ship %q: engine %q: mass of %q must be a non-negative number, got %v",
				fleet.ErrConfiguration, ship.Name(), engine.Name(), fuel, mass)
		}
		if mass == 0 {
			continue
		}
		if _, ok := engine.CombustedEF(fuel); !ok {
			return fmt.Errorf("%w: ship %q: engine %q consumed %v of %q which it cannot burn",
				fleet.ErrConfiguration, ship.Name(), engine.Name(), mass, fuel)
		}
	}
	return nil
}
