// Package scenario turns ship definition files and consumption tables into
// evaluable scenarios.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/reference"
)

// File is the YAML form of a fleet definition.
type File struct {
	Ships []ShipConfig `yaml:"ships"`
}

// ShipConfig describes one ship.
type ShipConfig struct {
	Name   string  `yaml:"name"`
	ShipEF float64 `yaml:"ship_ef,omitempty"`

	// WindProportion overrides the configured wind-assistance proportion.
	WindProportion *float64 `yaml:"wind_proportion,omitempty"`

	Generators []GeneratorConfig `yaml:"generators"`
}

// GeneratorConfig describes an engine (Type and Fuels) or an electric port
// (Electricity).
type GeneratorConfig struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type,omitempty"`
	Fuels       []string `yaml:"fuels,omitempty"`
	SlipRate    *float64 `yaml:"slip_rate,omitempty"`
	Electricity string   `yaml:"electricity,omitempty"`
}

// LoadFile reads a fleet definition.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading fleet definition: %w", err)
	}
	return ParseFile(data)
}

// ParseFile decodes a fleet definition.
func ParseFile(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("%w: parsing fleet definition: %v", fleet.ErrConfiguration, err)
	}
	if len(f.Ships) == 0 {
		return File{}, fmt.Errorf("%w: fleet definition has no ships", fleet.ErrConfiguration)
	}
	return f, nil
}

// BuildShip constructs the ship described by c from reference data.
func BuildShip(c ShipConfig, ref *reference.Registry) (*fleet.Ship, error) {
	if ref == nil {
		return nil, fmt.Errorf("%w: no reference data", fleet.ErrConfiguration)
	}
	generators := make([]fleet.PowerGenerator, 0, len(c.Generators))
	for _, g := range c.Generators {
		pg, err := buildGenerator(g, ref)
		if err != nil {
			return nil, fmt.Errorf("ship %q: %w", c.Name, err)
		}
		generators = append(generators, pg)
	}
	return fleet.NewShip(fleet.ShipSpec{Name: c.Name, Generators: generators, ShipEF: c.ShipEF})
}

func buildGenerator(g GeneratorConfig, ref *reference.Registry) (fleet.PowerGenerator, error) {
	if g.Electricity != "" {
		if g.Type != "" || len(g.Fuels) > 0 {
			return nil, fmt.Errorf("%w: generator %q mixes electricity with engine fields", fleet.ErrConfiguration, g.Name)
		}
		return ref.NewElectricPort(g.Name, g.Electricity)
	}
	if g.Type == "" {
		return nil, fmt.Errorf("%w: generator %q needs a type or an electricity source", fleet.ErrConfiguration, g.Name)
	}
	return ref.NewEngine(g.Name, g.Type, g.Fuels, g.SlipRate)
}

// BuildShips constructs every ship of f.
func BuildShips(f File, ref *reference.Registry) ([]*fleet.Ship, error) {
	ships := make([]*fleet.Ship, 0, len(f.Ships))
	seen := make(map[string]struct{}, len(f.Ships))
	for _, c := range f.Ships {
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate ship %q", fleet.ErrConfiguration, c.Name)
		}
		seen[c.Name] = struct{}{}

		s, err := BuildShip(c, ref)
		if err != nil {
			return nil, err
		}
		ships = append(ships, s)
	}
	return ships, nil
}
