package engine

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/rshade/fuelghg/internal/engine/batch"
	"github.com/rshade/fuelghg/internal/logging"
	"github.com/rshade/fuelghg/internal/penalty"
)

// Outcome is the evaluation of one fleet member. Exactly one of Result and
// Err is set.
type Outcome struct {
	Index  int
	Ship   string
	Result *Result
	Err    error
}

// EvaluateFleet evaluates every scenario, concurrently, and returns one
// outcome per scenario in input order. A failing ship does not stop the
// others; the returned error is non-nil only when ctx ends first.
func (e *Engine) EvaluateFleet(ctx context.Context, scenarios []Scenario) ([]Outcome, error) {
	log := logging.FromContext(ctx)
	outcomes := make([]Outcome, len(scenarios))
	if len(scenarios) == 0 {
		return outcomes, nil
	}

	proc := batch.NewProcessorWithDefaults[Scenario]()
	if e.opts.BatchSize > 0 {
		p, err := batch.NewProcessor[Scenario](e.opts.BatchSize)
		if err != nil {
			return nil, err
		}
		proc = p
	}
	proc.WithProgressCallback(func(s batch.ProgressSnapshot) {
		log.Debug().Ctx(ctx).
			Int("processed", s.ProcessedItems).
			Int("total", s.TotalItems).
			Float64("percent", s.PercentComplete).
			Msg("fleet evaluation progress")
	})

	err := proc.ProcessConcurrent(ctx, scenarios, func(ctx context.Context, ships []Scenario, offset int) error {
		for i, sc := range ships {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := Outcome{Index: offset + i}
			if sc.Ship != nil {
				o.Ship = sc.Ship.Name()
			}
			res, err := e.Evaluate(ctx, sc)
			if err != nil {
				o.Err = err
				log.Warn().Ctx(ctx).Str("ship", o.Ship).Err(err).Msg("ship evaluation failed")
			} else {
				o.Result = &res
			}
			outcomes[offset+i] = o
		}
		return nil
	}, e.opts.Concurrency)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, err
	}
	return outcomes, nil
}

// Summary aggregates fleet outcomes.
type Summary struct {
	Ships          int             `json:"ships"`
	Failed         int             `json:"failed"`
	Compliant      int             `json:"compliant"`
	EnergyMJ       float64         `json:"energy_mj"`
	EmissionsTCO2e float64         `json:"emissions_tco2e"`
	Intensity      float64         `json:"ghg_intensity"`
	PenaltyAmount  decimal.Decimal `json:"penalty_amount"`
}

// GramsPerTonne converts gCO2e to tCO2e.
const GramsPerTonne = 1e6

// Summarize totals successful outcomes. Intensity is the energy-weighted mean
// of the ships' intensities.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Ships: len(outcomes)}
	assessments := make([]penalty.Assessment, 0, len(outcomes))
	var weighted float64
	for _, o := range outcomes {
		if o.Err != nil || o.Result == nil {
			s.Failed++
			continue
		}
		b := o.Result.Breakdown
		s.EnergyMJ += b.EnergyMJ
		s.EmissionsTCO2e += b.EmissionsG / GramsPerTonne
		weighted += b.Intensity * b.EnergyMJ
		if o.Result.Assessment.Compliant {
			s.Compliant++
		}
		assessments = append(assessments, o.Result.Assessment)
	}
	if s.EnergyMJ > 0 {
		s.Intensity = weighted / s.EnergyMJ
	}
	s.PenaltyAmount = penalty.Total(assessments)
	return s
}
