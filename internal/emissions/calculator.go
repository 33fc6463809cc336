package emissions

import (
	"fmt"
	"math"

	"github.com/rshade/fuelghg/internal/matrix"
)

// Calculator reduces Inputs to a GHG intensity in gCO2e per MJ.
type Calculator interface {
	Name() string
	Compute(in *Inputs) (float64, error)
}

// Terms are the numerator (emissions) and denominator (reward-adjusted
// energy) of an intensity.
type Terms struct {
	Emissions      float64
	RewardedEnergy float64
}

// Intensity divides the terms, failing when the denominator is zero.
func (t Terms) Intensity(name string) (float64, error) {
	if t.RewardedEnergy == 0 {
		return 0, fmt.Errorf("%w: %s reward-adjusted energy is zero (no consumption)", ErrDegenerateInput, name)
	}
	v := t.Emissions / t.RewardedEnergy
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s intensity is not finite", ErrDegenerateInput, name)
	}
	return v, nil
}

// WellToTank computes upstream intensity. It ignores the engine axis:
//
//	Σ_i(mass_i · ef_WtT_i · lcv_i) / Σ_i(mass_i · reward_i · lcv_i)
type WellToTank struct{}

// Name identifies the calculator in logs and reports.
func (WellToTank) Name() string { return "WtT" }

// Terms returns the WtT numerator and denominator.
func (WellToTank) Terms(in *Inputs) (Terms, error) {
	mass, err := in.fuelMass()
	if err != nil {
		return Terms{}, err
	}

	var emissions float64
	for i, f := range in.Fuels {
		emissions += mass[i] * f.LowerCalorificValue * f.WtTEmissionFactor
	}
	return Terms{Emissions: emissions, RewardedEnergy: in.rewardedEnergy(mass)}, nil
}

// Compute returns the WtT intensity.
func (c WellToTank) Compute(in *Inputs) (float64, error) {
	t, err := c.Terms(in)
	if err != nil {
		return 0, err
	}
	return t.Intensity(c.Name())
}

// TankToWake computes on-board combustion and slip intensity. Each cell's
// factor blends combustion and slip by the engine's slip rate:
//
//	(1 − slip_e) · combusted_fe + slip_e · slipped_fe
//
// and the emissions Σ_fe(mass_fe · blended_fe) are divided by
// Σ_f(mass_f · reward_f · lcv_f), mass_f being summed across engines.
type TankToWake struct{}

// Name identifies the calculator in logs and reports.
func (TankToWake) Name() string { return "TtW" }

// Terms returns the TtW numerator and denominator.
func (TankToWake) Terms(in *Inputs) (Terms, error) {
	if len(in.SlipRates) != len(in.Engines) {
		return Terms{}, fmt.Errorf("%w: %d slip rates for %d engines",
			matrix.ErrShapeMismatch, len(in.SlipRates), len(in.Engines))
	}

	mass, err := in.conformed("consumption", in.Consumption)
	if err != nil {
		return Terms{}, err
	}
	combusted, err := in.conformed("combusted emission factor", in.Combusted)
	if err != nil {
		return Terms{}, err
	}
	slipped, err := in.conformed("slipped emission factor", in.Slipped)
	if err != nil {
		return Terms{}, err
	}

	var emissions float64
	for i := range in.Fuels {
		for j, slip := range in.SlipRates {
			blended := (1-slip)*combusted.At(i, j) + slip*slipped.At(i, j)
			emissions += mass.At(i, j) * blended
		}
	}

	return Terms{Emissions: emissions, RewardedEnergy: in.rewardedEnergy(mass.Totals(matrix.FuelAxis))}, nil
}

// Compute returns the TtW intensity.
func (c TankToWake) Compute(in *Inputs) (float64, error) {
	t, err := c.Terms(in)
	if err != nil {
		return 0, err
	}
	return t.Intensity(c.Name())
}
