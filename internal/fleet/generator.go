package fleet

import (
	"fmt"
	"math"
)

// percentThreshold is the value at and above which a slip rate is read as a percentage.
const percentThreshold = 1.0

// percentDivisor converts a percentage into a fraction.
const percentDivisor = 100.0

// PowerGenerator converts power sources into propulsion or auxiliary power.
type PowerGenerator interface {
	Name() string

	// Sources lists the power sources used by the generator, in declaration order.
	Sources() []PowerSource

	// SlipRate is the fraction (0-1) of fuel mass leaving the generator unburned.
	SlipRate() float64

	// CombustedEF returns the combustion emission factor for the named source.
	// The boolean is false when the generator does not use the source.
	CombustedEF(source string) (float64, bool)

	// SlippedEF returns the slip emission factor for the named source.
	SlippedEF(source string) (float64, bool)
}

// CombustionFactors looks up the regulatory combustion emission factor of a
// fuel burnt in a given engine type.
type CombustionFactors interface {
	CombustionFactor(engineType, fuel string) (float64, bool)
}

// NormalizeSlipRate turns rate into a fraction. Values of 1 or more are read
// as percentages. The result must lie in [0, 1].
func NormalizeSlipRate(rate float64) (float64, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return 0, fmt.Errorf("%w: slip rate must be a non-negative number, got %v", ErrConfiguration, rate)
	}
	if rate >= percentThreshold {
		rate /= percentDivisor
	}
	if rate > 1 {
		return 0, fmt.Errorf("%w: slip rate %v%% exceeds 100%%", ErrConfiguration, rate*percentDivisor)
	}
	return rate, nil
}

// EngineSpec describes a combustion engine installed on a ship.
type EngineSpec struct {
	// Name identifies the engine on its ship.
	Name string

	// Type keys the engine into the combustion factor table. Defaults to Name.
	Type string

	Fuels []Fuel

	// SlipRate is a fraction, or a percentage when 1 or more.
	SlipRate float64
}

// Engine is a combustion power generator.
type Engine struct {
	name       string
	engineType string
	fuels      []Fuel
	slipRate   float64
	combusted  []float64
	slipped    []float64
}

// NewEngine validates spec and derives the combusted and slipped emission
// factors of each fuel. The combusted factor is the fuel's GWP times the
// regulatory factor found in factors for the engine type.
func NewEngine(spec EngineSpec, factors CombustionFactors) (*Engine, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: engine name is required", ErrConfiguration)
	}
	if len(spec.Fuels) == 0 {
		return nil, fmt.Errorf("%w: engine %q uses no fuel", ErrConfiguration, spec.Name)
	}
	if factors == nil {
		return nil, fmt.Errorf("%w: engine %q: no combustion factor table", ErrConfiguration, spec.Name)
	}

	engineType := spec.Type
	if engineType == "" {
		engineType = spec.Name
	}

	slipRate, err := NormalizeSlipRate(spec.SlipRate)
	if err != nil {
		return nil, fmt.Errorf("engine %q: %w", spec.Name, err)
	}

	e := &Engine{
		name:       spec.Name,
		engineType: engineType,
		fuels:      make([]Fuel, 0, len(spec.Fuels)),
		slipRate:   slipRate,
		combusted:  make([]float64, 0, len(spec.Fuels)),
		slipped:    make([]float64, 0, len(spec.Fuels)),
	}

	seen := make(map[string]struct{}, len(spec.Fuels))
	for _, f := range spec.Fuels {
		if _, dup := seen[f.Name()]; dup {
			return nil, fmt.Errorf("%w: engine %q lists fuel %q twice", ErrConfiguration, spec.Name, f.Name())
		}
		seen[f.Name()] = struct{}{}

		cf, ok := factors.CombustionFactor(engineType, f.Name())
		if !ok {
			return nil, fmt.Errorf("%w: no combustion factor for fuel %q in engine type %q",
				ErrConfiguration, f.Name(), engineType)
		}
		if !nonNegative(cf) {
			return nil, fmt.Errorf("%w: combustion factor for fuel %q in engine type %q must be non-negative, got %v",
				ErrConfiguration, f.Name(), engineType, cf)
		}

		e.fuels = append(e.fuels, f)
		e.combusted = append(e.combusted, f.GlobalWarmingPotential()*cf)
		e.slipped = append(e.slipped, f.SlippedEF())
	}

	return e, nil
}

func (e *Engine) Name() string { return e.name }
func (e *Engine) SlipRate() float64 { return e.slipRate }

// Type is the reference engine type used for combustion factor lookups.
func (e *Engine) Type() string { return e.engineType }

func (e *Engine) Sources() []PowerSource {
	out := make([]PowerSource, len(e.fuels))
	for i, f := range e.fuels {
		out[i] = f
	}
	return out
}

// CombustedEFs returns one combusted emission factor per fuel, aligned with Fuels.
func (e *Engine) CombustedEFs() []float64 {
	out := make([]float64, len(e.combusted))
	copy(out, e.combusted)
	return out
}

// SlippedEFs returns one slipped emission factor per fuel, aligned with Fuels.
func (e *Engine) SlippedEFs() []float64 {
	out := make([]float64, len(e.slipped))
	copy(out, e.slipped)
	return out
}

func (e *Engine) CombustedEF(source string) (float64, bool) {
	if i := e.fuelIndex(source); i >= 0 {
		return e.combusted[i], true
	}
	return 0, false
}

func (e *Engine) SlippedEF(source string) (float64, bool) {
	if i := e.fuelIndex(source); i >= 0 {
		return e.slipped[i], true
	}
	return 0, false
}

func (e *Engine) fuelIndex(name string) int {
	for i, f := range e.fuels {
		if f.Name() == name {
			return i
		}
	}
	return -1
}

// ElectricPort draws shore or grid electricity. Nothing is combusted on board.
type ElectricPort struct {
	name   string
	source Electricity
}

// NewElectricPort wraps a single electricity supply.
func NewElectricPort(name string, source Electricity) (*ElectricPort, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: electric port name is required", ErrConfiguration)
	}
	if source.Name() == "" {
		return nil, fmt.Errorf("%w: electric port %q has no electricity source", ErrConfiguration, name)
	}
	return &ElectricPort{name: name, source: source}, nil
}

func (p *ElectricPort) Name() string { return p.name }
func (p *ElectricPort) SlipRate() float64 { return 0 }
func (p *ElectricPort) Electricity() Electricity { return p.source }
func (p *ElectricPort) Sources() []PowerSource { return []PowerSource{p.source} }

func (p *ElectricPort) CombustedEF(source string) (float64, bool) {
	return 0, source == p.source.Name()
}

func (p *ElectricPort) SlippedEF(source string) (float64, bool) {
	return 0, source == p.source.Name()
}
