// Package engine runs the intensity and penalty pipeline for a ship and for
// whole fleets.
//
// Each evaluation builds fresh per-computation state (consumption matrix,
// calculator inputs) from immutable ships, so evaluations share nothing and
// a fleet can be evaluated concurrently.
package engine

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/fuelghg/internal/consumption"
	"github.com/rshade/fuelghg/internal/emissions"
	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/logging"
	"github.com/rshade/fuelghg/internal/penalty"
)

// Options are the compliance parameters applied to every evaluation.
type Options struct {
	// WindProportion is the default wind-assistance proportion in [0, 1].
	WindProportion float64

	// PenaltyRate defaults to penalty.DefaultRate when zero.
	PenaltyRate float64

	// TargetIntensity is the regulatory limit in gCO2e/MJ.
	TargetIntensity float64

	// Concurrency bounds parallel ship evaluations; runtime.NumCPU when zero.
	Concurrency int

	// BatchSize is the number of ships per batch; batch.DefaultBatchSize when zero.
	BatchSize int
}

// Scenario is one ship and its per-generator consumption, records aligned
// with the ship's generators.
type Scenario struct {
	Ship    *fleet.Ship
	Records []consumption.Record

	// WindProportion overrides Options.WindProportion when set.
	WindProportion *float64
}

// Result is the outcome of one successful evaluation.
type Result struct {
	ID         ulid.ULID           `json:"id"`
	Ship       string              `json:"ship"`
	Breakdown  emissions.Breakdown `json:"breakdown"`
	Assessment penalty.Assessment  `json:"assessment"`
}

// Engine evaluates scenarios under fixed options.
type Engine struct {
	opts      Options
	simulator *emissions.Simulator
}

// New validates opts and returns an engine.
func New(opts Options) (*Engine, error) {
	if opts.PenaltyRate == 0 {
		opts.PenaltyRate = penalty.DefaultRate
	}
	if math.IsNaN(opts.PenaltyRate) || opts.PenaltyRate < 0 {
		return nil, fmt.Errorf("%w: penalty rate must be positive, got %v", fleet.ErrConfiguration, opts.PenaltyRate)
	}
	if math.IsNaN(opts.TargetIntensity) || math.IsInf(opts.TargetIntensity, 0) || opts.TargetIntensity <= 0 {
		return nil, fmt.Errorf("%w: target intensity must be positive, got %v", fleet.ErrConfiguration, opts.TargetIntensity)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.NumCPU()
	}

	sim, err := emissions.NewSimulator(opts.WindProportion)
	if err != nil {
		return nil, err
	}
	return &Engine{opts: opts, simulator: sim}, nil
}

// Options returns the effective options.
func (e *Engine) Options() Options { return e.opts }

func (e *Engine) simulatorFor(sc Scenario) (*emissions.Simulator, error) {
	if sc.WindProportion == nil {
		return e.simulator, nil
	}
	return emissions.NewSimulator(*sc.WindProportion)
}

// Evaluate computes the intensity breakdown and penalty of one scenario.
func (e *Engine) Evaluate(ctx context.Context, sc Scenario) (Result, error) {
	log := logging.FromContext(ctx)

	if sc.Ship == nil {
		return Result{}, fmt.Errorf("%w: scenario has no ship", fleet.ErrConfiguration)
	}
	name := sc.Ship.Name()

	sim, err := e.simulatorFor(sc)
	if err != nil {
		return Result{}, fmt.Errorf("ship %q: %w", name, err)
	}

	table, err := consumption.Build(sc.Ship, sc.Records)
	if err != nil {
		return Result{}, err
	}
	in, err := emissions.NewInputs(sc.Ship, table)
	if err != nil {
		return Result{}, fmt.Errorf("ship %q: %w", name, err)
	}

	breakdown, err := sim.Evaluate(in)
	if err != nil {
		return Result{}, fmt.Errorf("ship %q: %w", name, err)
	}

	assessment, err := penalty.Assess(e.opts.TargetIntensity, breakdown.Intensity, e.opts.PenaltyRate, breakdown.EnergyMJ)
	if err != nil {
		return Result{}, fmt.Errorf("ship %q: %w", name, err)
	}

	log.Debug().Ctx(ctx).
		Str("ship", name).
		Float64("wtt", breakdown.WtT).
		Float64("ttw", breakdown.TtW).
		Float64("wind_reward", breakdown.WindReward).
		Float64("intensity", breakdown.Intensity).
		Float64("energy_mj", breakdown.EnergyMJ).
		Str("penalty", assessment.Amount.String()).
		Msg("ship evaluated")

	return Result{
		ID:         ulid.Make(),
		Ship:       name,
		Breakdown:  breakdown,
		Assessment: assessment,
	}, nil
}
