// Package fleet holds the immutable domain model used by the GHG intensity
// calculators: power sources (fuels and electricity), the generators that
// draw on them (engines and electric ports) and ships.
//
// Values are built through validating factory functions. Every derived field
// (slipped emission factor, reward factor, per-fuel combustion factors) is
// computed once at construction and never changes afterwards, so domain values
// may be shared freely between goroutines.
package fleet

import (
	"fmt"
	"math"
)

// Regulatory reward factors applied to the energy denominator.
const (
	// RewardFactorStandard applies to fossil and biological fuels and to electricity.
	RewardFactorStandard = 1.0

	// RewardFactorRFNBO applies to renewable fuels of non-biological origin.
	RewardFactorRFNBO = 2.0
)

// DefaultGlobalWarmingPotential is used when a fuel specification leaves GWP unset.
const DefaultGlobalWarmingPotential = 1.0

// ElectricityCalorificValue is the energy per unit of electricity. Electricity
// consumption is recorded directly in MJ.
const ElectricityCalorificValue = 1.0

// PowerSource is anything a generator draws energy from.
type PowerSource interface {
	// Name is the unique identifier of the source.
	Name() string

	// EmissionFactor is the well-to-tank factor in gCO2e per MJ.
	EmissionFactor() float64

	// LowerCalorificValue is the energy density in MJ per unit mass.
	LowerCalorificValue() float64

	// GlobalWarmingPotential is the CO2-equivalence multiplier.
	GlobalWarmingPotential() float64

	// SlippedEF is the emission factor of the fraction escaping combustion unburned.
	SlippedEF() float64

	// RewardFactor weights the source's energy in the intensity denominator.
	RewardFactor() float64
}

// FuelSpec carries the static reference attributes of a fuel.
type FuelSpec struct {
	Name                   string
	WtTEmissionFactor      float64
	LowerCalorificValue    float64
	NonBiological          bool
	Renewable              bool
	GlobalWarmingPotential float64
	SlipFactor             float64

	// RewardFactor overrides the derived reward factor when set.
	RewardFactor *float64
}

// Fuel is a combustible power source.
type Fuel struct {
	name          string
	wttEF         float64
	lcv           float64
	nonBiological bool
	renewable     bool
	gwp           float64
	slipFactor    float64
	slippedEF     float64
	rewardFactor  float64
}

// NewFuel validates spec and returns a fully derived Fuel.
func NewFuel(spec FuelSpec) (Fuel, error) {
	if spec.Name == "" {
		return Fuel{}, fmt.Errorf("%w: fuel name is required", ErrConfiguration)
	}
	if !nonNegative(spec.WtTEmissionFactor) {
		return Fuel{}, fmt.Errorf("%w: fuel %q: WtT emission factor must be a non-negative number, got %v",
			ErrConfiguration, spec.Name, spec.WtTEmissionFactor)
	}
	if !positive(spec.LowerCalorificValue) {
		return Fuel{}, fmt.Errorf("%w: fuel %q: lower calorific value must be positive, got %v",
			ErrConfiguration, spec.Name, spec.LowerCalorificValue)
	}
	if spec.SlipFactor != 0 && spec.SlipFactor != 1 {
		return Fuel{}, fmt.Errorf("%w: fuel %q: slip factor must be 0 or 1, got %v",
			ErrConfiguration, spec.Name, spec.SlipFactor)
	}

	gwp := spec.GlobalWarmingPotential
	if gwp == 0 {
		gwp = DefaultGlobalWarmingPotential
	}
	if !positive(gwp) {
		return Fuel{}, fmt.Errorf("%w: fuel %q: global warming potential must be positive, got %v",
			ErrConfiguration, spec.Name, gwp)
	}

	reward := DeriveRewardFactor(spec.NonBiological, spec.Renewable)
	if spec.RewardFactor != nil {
		reward = *spec.RewardFactor
		if !nonNegative(reward) {
			return Fuel{}, fmt.Errorf("%w: fuel %q: reward factor must be non-negative, got %v",
				ErrConfiguration, spec.Name, reward)
		}
	}

	return Fuel{
		name:          spec.Name,
		wttEF:         spec.WtTEmissionFactor,
		lcv:           spec.LowerCalorificValue,
		nonBiological: spec.NonBiological,
		renewable:     spec.Renewable,
		gwp:           gwp,
		slipFactor:    spec.SlipFactor,
		slippedEF:     gwp * spec.SlipFactor,
		rewardFactor:  reward,
	}, nil
}

// DeriveRewardFactor returns RewardFactorRFNBO for renewable fuels of
// non-biological origin and RewardFactorStandard for everything else.
// Biological fuels get 1, not the 0 of the regulation's 2/1/0 table, so
// their energy always counts in the intensity denominator.
func DeriveRewardFactor(nonBiological, renewable bool) float64 {
	if nonBiological && renewable {
		return RewardFactorRFNBO
	}
	return RewardFactorStandard
}

func (f Fuel) Name() string { return f.name }
func (f Fuel) EmissionFactor() float64 { return f.wttEF }
func (f Fuel) LowerCalorificValue() float64 { return f.lcv }
func (f Fuel) GlobalWarmingPotential() float64 { return f.gwp }
func (f Fuel) SlippedEF() float64 { return f.slippedEF }
func (f Fuel) RewardFactor() float64 { return f.rewardFactor }

// IsNonBiological reports whether the fuel is of non-biological origin.
func (f Fuel) IsNonBiological() bool { return f.nonBiological }

// IsRenewable reports whether the fuel is renewable-eligible.
func (f Fuel) IsRenewable() bool { return f.renewable }

// SlipFactor is 1 when the fuel can escape combustion unburned.
func (f Fuel) SlipFactor() float64 { return f.slipFactor }

// ElectricitySpec carries the reference attributes of an electricity supply.
type ElectricitySpec struct {
	Name           string
	EmissionFactor float64
	Green          bool
}

// Electricity is a shore or grid power supply. Its consumption is recorded in MJ.
type Electricity struct {
	name  string
	ef    float64
	green bool
}

// NewElectricity validates spec. Green electricity always carries a zero
// emission factor, whatever the spec says.
func NewElectricity(spec ElectricitySpec) (Electricity, error) {
	if spec.Name == "" {
		return Electricity{}, fmt.Errorf("%w: electricity name is required", ErrConfiguration)
	}
	if !nonNegative(spec.EmissionFactor) {
		return Electricity{}, fmt.Errorf("%w: electricity %q: emission factor must be a non-negative number, got %v",
			ErrConfiguration, spec.Name, spec.EmissionFactor)
	}

	ef := spec.EmissionFactor
	if spec.Green {
		ef = 0
	}
	return Electricity{name: spec.Name, ef: ef, green: spec.Green}, nil
}

func (e Electricity) Name() string { return e.name }
func (e Electricity) EmissionFactor() float64 { return e.ef }
func (e Electricity) LowerCalorificValue() float64 { return ElectricityCalorificValue }
func (e Electricity) GlobalWarmingPotential() float64 { return DefaultGlobalWarmingPotential }
func (e Electricity) SlippedEF() float64 { return 0 }
func (e Electricity) RewardFactor() float64 { return RewardFactorStandard }

// IsGreen reports whether the supply is certified green electricity.
func (e Electricity) IsGreen() bool { return e.green }

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func positive(v float64) bool {
	return nonNegative(v) && v > 0
}
