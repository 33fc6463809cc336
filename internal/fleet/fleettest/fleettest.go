// Package fleettest provides fixtures for tests that need ships.
package fleettest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/fuelghg/internal/fleet"
)

// Factors is a CombustionFactors keyed by engine type then fuel name.
type Factors map[string]map[string]float64

// CombustionFactor implements fleet.CombustionFactors.
func (f Factors) CombustionFactor(engineType, fuel string) (float64, bool) {
	v, ok := f[engineType][fuel]
	return v, ok
}

// Golden scenario constants. The conventional fuel burns with GWP 1, the
// methane with GWP 25 and slip factor 1, so combusted factors are 3.2 and
// 25*0.11 and the methane slipped factor is 25.
const (
	GoldenSlipRate       = 0.02
	ConventionalMass     = 100.0
	MethaneMass          = 10.0
	ConventionalCombust  = 3.2
	MethaneCombustFactor = 0.11
	MethaneGWP           = 25.0
)

// Fuel builds a fuel or fails the test.
func Fuel(t testing.TB, spec fleet.FuelSpec) fleet.Fuel {
	t.Helper()
	f, err := fleet.NewFuel(spec)
	require.NoError(t, err)
	return f
}

// Conventional is a fossil fuel: WtT 0.5, LCV 40, reward 1.
func Conventional(t testing.TB) fleet.Fuel {
	return Fuel(t, fleet.FuelSpec{Name: "conventional", WtTEmissionFactor: 0.5, LowerCalorificValue: 40})
}

// Methane is a renewable non-biological methane: WtT 0.3, LCV 50, reward 2, slips.
func Methane(t testing.TB) fleet.Fuel {
	return Fuel(t, fleet.FuelSpec{
		Name:                   "methane",
		WtTEmissionFactor:      0.3,
		LowerCalorificValue:    50,
		NonBiological:          true,
		Renewable:              true,
		GlobalWarmingPotential: MethaneGWP,
		SlipFactor:             1,
	})
}

// GoldenFactors are the combustion factors of the golden engine type.
func GoldenFactors() Factors {
	return Factors{"dual-fuel": {"conventional": ConventionalCombust, "methane": MethaneCombustFactor}}
}

// GoldenShip has a single dual-fuel engine "ME" burning Conventional and Methane.
func GoldenShip(t testing.TB) *fleet.Ship {
	t.Helper()
	me, err := fleet.NewEngine(fleet.EngineSpec{
		Name:     "ME",
		Type:     "dual-fuel",
		Fuels:    []fleet.Fuel{Conventional(t), Methane(t)},
		SlipRate: GoldenSlipRate,
	}, GoldenFactors())
	require.NoError(t, err)

	ship, err := fleet.NewShip(fleet.ShipSpec{Name: "Golden", Generators: []fleet.PowerGenerator{me}})
	require.NoError(t, err)
	return ship
}

// TwoEngineShip burns Conventional and Methane in "ME" and Conventional in
// "AE", and takes grid electricity through "OPS".
func TwoEngineShip(t testing.TB) *fleet.Ship {
	t.Helper()
	factors := Factors{
		"dual-fuel": {"conventional": ConventionalCombust, "methane": MethaneCombustFactor},
		"aux":       {"conventional": ConventionalCombust},
	}
	me, err := fleet.NewEngine(fleet.EngineSpec{
		Name: "ME", Type: "dual-fuel", Fuels: []fleet.Fuel{Conventional(t), Methane(t)}, SlipRate: GoldenSlipRate,
	}, factors)
	require.NoError(t, err)
	ae, err := fleet.NewEngine(fleet.EngineSpec{
		Name: "AE", Type: "aux", Fuels: []fleet.Fuel{Conventional(t)}, SlipRate: 0.05,
	}, factors)
	require.NoError(t, err)
	grid, err := fleet.NewElectricity(fleet.ElectricitySpec{Name: "grid", EmissionFactor: 40})
	require.NoError(t, err)
	ops, err := fleet.NewElectricPort("OPS", grid)
	require.NoError(t, err)

	ship, err := fleet.NewShip(fleet.ShipSpec{
		Name: "Twin", Generators: []fleet.PowerGenerator{me, ae, ops}, ShipEF: 1.2,
	})
	require.NoError(t, err)
	return ship
}

// ShoreOnlyShip takes all its energy from green shore power through "OPS".
func ShoreOnlyShip(t testing.TB) *fleet.Ship {
	t.Helper()
	shore, err := fleet.NewElectricity(fleet.ElectricitySpec{Name: "green-shore", Green: true})
	require.NoError(t, err)
	ops, err := fleet.NewElectricPort("OPS", shore)
	require.NoError(t, err)

	ship, err := fleet.NewShip(fleet.ShipSpec{Name: "Shore", Generators: []fleet.PowerGenerator{ops}})
	require.NoError(t, err)
	return ship
}
