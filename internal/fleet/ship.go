package fleet

import "fmt"

// DefaultShipEF is the ship-level multiplier assigned when none is given.
// No calculator consumes it.
const DefaultShipEF = 1.0

// ShipSpec describes a ship and its installed generators.
type ShipSpec struct {
	Name       string
	Generators []PowerGenerator
	ShipEF     float64
}

// Ship is an ordered collection of power generators.
type Ship struct {
	name       string
	generators []PowerGenerator
	shipEF     float64
	sources    []PowerSource
}

// NewShip validates spec and collects the union of power sources used by its
// generators, in order of first appearance. Generator names must be unique
// and any two sources sharing a name must be identical.
func NewShip(spec ShipSpec) (*Ship, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("%w: ship name is required", ErrConfiguration)
	}
	if len(spec.Generators) == 0 {
		return nil, fmt.Errorf("%w: ship %q has no engines", ErrConfiguration, spec.Name)
	}

	shipEF := spec.ShipEF
	if shipEF == 0 {
		shipEF = DefaultShipEF
	}

	s := &Ship{
		name:       spec.Name,
		generators: make([]PowerGenerator, 0, len(spec.Generators)),
		shipEF:     shipEF,
	}

	names := make(map[string]struct{}, len(spec.Generators))
	sources := make(map[string]PowerSource)
	for _, g := range spec.Generators {
		if g == nil {
			return nil, fmt.Errorf("%w: ship %q has a nil engine", ErrConfiguration, spec.Name)
		}
		if _, dup := names[g.Name()]; dup {
			return nil, fmt.Errorf("%w: ship %q has two engines named %q", ErrConfiguration, spec.Name, g.Name())
		}
		names[g.Name()] = struct{}{}
		s.generators = append(s.generators, g)

		for _, src := range g.Sources() {
			known, ok := sources[src.Name()]
			if !ok {
				sources[src.Name()] = src
				s.sources = append(s.sources, src)
				continue
			}
			if known != src {
				return nil, fmt.Errorf("%w: ship %q: conflicting definitions of power source %q",
					ErrConfiguration, spec.Name, src.Name())
			}
		}
	}

	return s, nil
}

func (s *Ship) Name() string { return s.name }

// ShipEF is an informational multiplier carried from the ship configuration.
func (s *Ship) ShipEF() float64 { return s.shipEF }

// Engines returns the ship's generators in declaration order.
func (s *Ship) Engines() []PowerGenerator {
	out := make([]PowerGenerator, len(s.generators))
	copy(out, s.generators)
	return out
}

// Engine returns the named generator.
func (s *Ship) Engine(name string) (PowerGenerator, bool) {
	for _, g := range s.generators {
		if g.Name() == name {
			return g, true
		}
	}
	return nil, false
}

// EngineNames returns generator names in declaration order.
func (s *Ship) EngineNames() []string {
	out := make([]string, len(s.generators))
	for i, g := range s.generators {
		out[i] = g.Name()
	}
	return out
}

// FuelsUsed returns the union of all generators' power sources.
func (s *Ship) FuelsUsed() []PowerSource {
	out := make([]PowerSource, len(s.sources))
	copy(out, s.sources)
	return out
}

// FuelNames returns the names of FuelsUsed, in the same order.
func (s *Ship) FuelNames() []string {
	out := make([]string, len(s.sources))
	for i, src := range s.sources {
		out[i] = src.Name()
	}
	return out
}

// Fuel returns the named power source.
func (s *Ship) Fuel(name string) (PowerSource, bool) {
	for _, src := range s.sources {
		if src.Name() == name {
			return src, true
		}
	}
	return nil, false
}
