// Package emissions reduces a ship's consumption matrix and emission factors
// to well-to-tank and tank-to-wake GHG intensities and combines them into the
// reported GHG intensity.
//
// Calculators are pure: they read an Inputs value and return a scalar. An
// Inputs value is assembled per computation from immutable domain objects.
package emissions

import (
	"fmt"

	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/matrix"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// ErrDegenerateInput indicates a zero energy or consumption denominator.
// The intensity is undefined; it is never reported as 0 or infinity.
const ErrDegenerateInput = constError("degenerate input: division by zero")

// FuelFactors are the per-fuel quantities the intensity formulas need.
type FuelFactors struct {
	Name                string
	LowerCalorificValue float64
	WtTEmissionFactor   float64
	RewardFactor        float64
}

// Inputs is everything a Calculator reads. Fuels orders the fuel axis and
// Engines the engine axis; the matrices may arrive in either orientation and
// are conformed to (Fuels × Engines) before use.
type Inputs struct {
	Consumption *matrix.Matrix
	Fuels       []FuelFactors
	Engines     []string

	// SlipRates holds one fraction per engine, aligned with Engines.
	SlipRates []float64

	// Combusted and Slipped hold emission factors per fuel per engine.
	Combusted *matrix.Matrix
	Slipped   *matrix.Matrix
}

// NewInputs derives calculator inputs for ship from its consumption matrix.
func NewInputs(ship *fleet.Ship, consumption *matrix.Matrix) (*Inputs, error) {
	if ship == nil {
		return nil, fmt.Errorf("%w: nil ship", fleet.ErrConfiguration)
	}

	sources := ship.FuelsUsed()
	engines := ship.Engines()
	fuelNames := ship.FuelNames()
	engineNames := ship.EngineNames()

	in := &Inputs{
		Consumption: consumption,
		Fuels:       make([]FuelFactors, len(sources)),
		Engines:     engineNames,
		SlipRates:   make([]float64, len(engines)),
	}
	for i, src := range sources {
		in.Fuels[i] = FuelFactors{
			Name:                src.Name(),
			LowerCalorificValue: src.LowerCalorificValue(),
			WtTEmissionFactor:   src.EmissionFactor(),
			RewardFactor:        src.RewardFactor(),
		}
	}
	for j, g := range engines {
		in.SlipRates[j] = g.SlipRate()
	}

	combusted := make([][]float64, len(sources))
	slipped := make([][]float64, len(sources))
	for i, src := range sources {
		combusted[i] = make([]float64, len(engines))
		slipped[i] = make([]float64, len(engines))
		for j, g := range engines {
			// Generators that do not use a source leave its cells at 0; the
			// consumption builder guarantees their mass is 0 as well.
			combusted[i][j], _ = g.CombustedEF(src.Name())
			slipped[i][j], _ = g.SlippedEF(src.Name())
		}
	}

	var err error
	if in.Combusted, err = matrix.FromRows(matrix.FuelAxis, fuelNames, engineNames, combusted); err != nil {
		return nil, err
	}
	if in.Slipped, err = matrix.FromRows(matrix.FuelAxis, fuelNames, engineNames, slipped); err != nil {
		return nil, err
	}
	return in, nil
}

// FuelNames returns the fuel axis labels.
func (in *Inputs) FuelNames() []string {
	names := make([]string, len(in.Fuels))
	for i, f := range in.Fuels {
		names[i] = f.Name
	}
	return names
}

// conformed returns m oriented as Fuels × Engines.
func (in *Inputs) conformed(what string, m *matrix.Matrix) (*matrix.Matrix, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: %s matrix is missing", matrix.ErrShapeMismatch, what)
	}
	c, err := m.Conform(in.FuelNames(), in.Engines)
	if err != nil {
		return nil, fmt.Errorf("%s matrix: %w", what, err)
	}
	return c, nil
}

// fuelMass returns consumption summed across engines, one value per fuel.
func (in *Inputs) fuelMass() ([]float64, error) {
	c, err := in.conformed("consumption", in.Consumption)
	if err != nil {
		return nil, err
	}
	return c.Totals(matrix.FuelAxis), nil
}

// rewardedEnergy is Σ mass_i · reward_i · lcv_i.
func (in *Inputs) rewardedEnergy(mass []float64) float64 {
	var total float64
	for i, f := range in.Fuels {
		total += mass[i] * f.RewardFactor * f.LowerCalorificValue
	}
	return total
}

// Energy returns the energy content of the consumption, Σ mass_i · lcv_i, in MJ.
func (in *Inputs) Energy() (float64, error) {
	mass, err := in.fuelMass()
	if err != nil {
		return 0, err
	}
	var total float64
	for i, f := range in.Fuels {
		total += mass[i] * f.LowerCalorificValue
	}
	return total, nil
}
