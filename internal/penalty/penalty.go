// Package penalty converts a GHG intensity shortfall against a regulatory
// target into a monetary penalty.
package penalty

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/rshade/fuelghg/internal/emissions"
	"github.com/rshade/fuelghg/internal/fleet"
)

const (
	// DefaultRate is the penalty in currency units per tonne of VLSFO-equivalent energy.
	DefaultRate = 2400.0

	// ReferenceEnergyMJ is the energy content of one tonne of VLSFO.
	ReferenceEnergyMJ = 41000.0

	// amountPlaces is the rounding applied to monetary amounts.
	amountPlaces = 2
)

// Balance returns current − target. A positive balance is a shortfall.
func Balance(target, current float64) float64 {
	return current - target
}

// Compute returns rate × balance / (current × ReferenceEnergyMJ) when the
// balance is positive and 0 otherwise, compliance at equality included. A
// zero current intensity is compliant with any non-negative target.
func Compute(target, current, rate float64) (float64, error) {
	if err := validate(target, current, rate); err != nil {
		return 0, err
	}
	balance := Balance(target, current)
	if balance <= 0 {
		return 0, nil
	}
	return rate * balance / (current * ReferenceEnergyMJ), nil
}

func validate(target, current, rate float64) error {
	if math.IsNaN(current) || math.IsInf(current, 0) || current < 0 {
		return fmt.Errorf("%w: current intensity must be a non-negative number, got %v", emissions.ErrDegenerateInput, current)
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target < 0 {
		return fmt.Errorf("%w: target intensity must be a non-negative number, got %v", fleet.ErrConfiguration, target)
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("%w: penalty rate must be positive, got %v", fleet.ErrConfiguration, rate)
	}
	return nil
}

// Assessment is the compliance outcome of one ship.
type Assessment struct {
	Target    float64 `json:"target_intensity"`
	Current   float64 `json:"current_intensity"`
	Balance   float64 `json:"compliance_balance"`
	Compliant bool    `json:"compliant"`

	// Penalty is the per-MJ penalty returned by Compute.
	Penalty float64 `json:"penalty"`

	// Amount is Penalty scaled by the energy consumed, rounded to cents.
	Amount decimal.Decimal `json:"penalty_amount"`
}

// Assess computes the penalty for a ship that consumed energyMJ at the
// current intensity.
func Assess(target, current, rate, energyMJ float64) (Assessment, error) {
	p, err := Compute(target, current, rate)
	if err != nil {
		return Assessment{}, err
	}
	if math.IsNaN(energyMJ) || math.IsInf(energyMJ, 0) || energyMJ < 0 {
		return Assessment{}, fmt.Errorf("%w: energy must be a non-negative number, got %v", fleet.ErrConfiguration, energyMJ)
	}

	balance := Balance(target, current)
	return Assessment{
		Target:    target,
		Current:   current,
		Balance:   balance,
		Compliant: balance <= 0,
		Penalty:   p,
		Amount:    decimal.NewFromFloat(p).Mul(decimal.NewFromFloat(energyMJ)).Round(amountPlaces),
	}, nil
}

// Total sums the amounts of several assessments.
func Total(assessments []Assessment) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assessments {
		total = total.Add(a.Amount)
	}
	return total
}
