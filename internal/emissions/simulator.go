package emissions

import (
	"fmt"
	"math"

	"github.com/rshade/fuelghg/internal/fleet"
)

// Wind-assisted propulsion reward bands. Each band excludes its lower bound
// and includes its upper bound.
const (
	windBandLow  = 0.05
	windBandMid  = 0.10
	windBandHigh = 0.15

	WindRewardNone = 1.0
	WindRewardLow  = 0.99
	WindRewardMid  = 0.97
	WindRewardHigh = 0.95
)

// WindRewardFactor returns the intensity multiplier for the proportion p of
// propulsion power supplied by wind.
func WindRewardFactor(p float64) float64 {
	switch {
	case p <= windBandLow:
		return WindRewardNone
	case p <= windBandMid:
		return WindRewardLow
	case p <= windBandHigh:
		return WindRewardMid
	default:
		return WindRewardHigh
	}
}

// Breakdown is the outcome of one ship's intensity computation.
type Breakdown struct {
	WtT              float64 `json:"wtt_intensity"`
	TtW              float64 `json:"ttw_intensity"`
	WindReward       float64 `json:"wind_reward_factor"`
	Intensity        float64 `json:"ghg_intensity"`
	EnergyMJ         float64 `json:"energy_mj"`
	RewardedEnergyMJ float64 `json:"rewarded_energy_mj"`
	EmissionsG       float64 `json:"emissions_gco2e"`
}

// Simulator combines WtT and TtW intensities under a fixed wind reward. The
// reward is resolved once, when the simulator is created.
type Simulator struct {
	windProportion float64
	windReward     float64
}

// NewSimulator returns a simulator for a wind-assistance proportion in [0, 1].
func NewSimulator(windProportion float64) (*Simulator, error) {
	if math.IsNaN(windProportion) || windProportion < 0 || windProportion > 1 {
		return nil, fmt.Errorf("%w: wind proportion must lie in [0, 1], got %v", fleet.ErrConfiguration, windProportion)
	}
	return &Simulator{windProportion: windProportion, windReward: WindRewardFactor(windProportion)}, nil
}

// WindProportion is the proportion the simulator was created with.
func (s *Simulator) WindProportion() float64 { return s.windProportion }

// WindReward is the resolved wind reward factor.
func (s *Simulator) WindReward() float64 { return s.windReward }

// Combine returns (wtt + ttw) × wind reward.
func (s *Simulator) Combine(wtt, ttw float64) float64 {
	return (wtt + ttw) * s.windReward
}

// Evaluate runs both calculators over in and combines their intensities.
func (s *Simulator) Evaluate(in *Inputs) (Breakdown, error) {
	var wtt WellToTank
	var ttw TankToWake

	wttTerms, err := wtt.Terms(in)
	if err != nil {
		return Breakdown{}, err
	}
	ttwTerms, err := ttw.Terms(in)
	if err != nil {
		return Breakdown{}, err
	}

	wttIntensity, err := wttTerms.Intensity(wtt.Name())
	if err != nil {
		return Breakdown{}, err
	}
	ttwIntensity, err := ttwTerms.Intensity(ttw.Name())
	if err != nil {
		return Breakdown{}, err
	}

	energy, err := in.Energy()
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		WtT:              wttIntensity,
		TtW:              ttwIntensity,
		WindReward:       s.windReward,
		Intensity:        s.Combine(wttIntensity, ttwIntensity),
		EnergyMJ:         energy,
		RewardedEnergyMJ: wttTerms.RewardedEnergy,
		EmissionsG:       wttTerms.Emissions + ttwTerms.Emissions,
	}, nil
}
