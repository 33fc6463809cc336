package penalty

import (
	"fmt"

	"github.com/rshade/fuelghg/internal/fleet"
)

// BaselineIntensity is the 2020 fleet reference intensity in gCO2e/MJ.
const BaselineIntensity = 91.16

// FirstReportingYear is the first year a target applies.
const FirstReportingYear = 2025

type reductionStep struct {
	from      int
	reduction float64
}

// reductionSchedule lists reductions below the baseline, each applying from
// its year until the next step.
var reductionSchedule = []reductionStep{
	{from: 2025, reduction: 0.02},
	{from: 2030, reduction: 0.06},
	{from: 2035, reduction: 0.145},
	{from: 2040, reduction: 0.31},
	{from: 2045, reduction: 0.62},
	{from: 2050, reduction: 0.80},
}

// Reduction returns the reduction below the baseline that applies in year.
func Reduction(year int) (float64, error) {
	if year < FirstReportingYear {
		return 0, fmt.Errorf("%w: no target intensity before %d, got %d", fleet.ErrConfiguration, FirstReportingYear, year)
	}
	var r float64
	for _, step := range reductionSchedule {
		if year >= step.from {
			r = step.reduction
		}
	}
	return r, nil
}

// TargetIntensity returns the regulatory GHG intensity limit for year.
func TargetIntensity(year int) (float64, error) {
	r, err := Reduction(year)
	if err != nil {
		return 0, err
	}
	return BaselineIntensity * (1 - r), nil
}
