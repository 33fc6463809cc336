// Package reference holds the regulatory reference data: fuel emission
// factors and calorific values, electricity sources, and per engine type
// slip rates and combustion emission factors.
//
// A Registry is built once at startup and is read-only afterwards; it is
// safe for concurrent use and is passed explicitly to whatever needs it.
package reference

import (
	"fmt"
	"os"
	"slices"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/fuelghg/internal/fleet"
)

// SupportedSchema is the semver constraint reference documents must satisfy.
const SupportedSchema = "^1"

// Document is the YAML form of the reference data.
type Document struct {
	Version     string             `yaml:"version"`
	Fuels       []FuelEntry        `yaml:"fuels"`
	Electricity []ElectricityEntry `yaml:"electricity,omitempty"`
	Engines     []EngineEntry      `yaml:"engines"`
}

// FuelEntry describes one fuel.
type FuelEntry struct {
	Name                   string   `yaml:"name"`
	WtTEmissionFactor      float64  `yaml:"wtt_ef"`
	LowerCalorificValue    float64  `yaml:"lcv"`
	NonBiological          bool     `yaml:"non_biological,omitempty"`
	Renewable              bool     `yaml:"renewable,omitempty"`
	GlobalWarmingPotential float64  `yaml:"gwp,omitempty"`
	SlipFactor             float64  `yaml:"slip_factor,omitempty"`
	RewardFactor           *float64 `yaml:"reward_factor,omitempty"`
}

// ElectricityEntry describes one electricity source.
type ElectricityEntry struct {
	Name           string  `yaml:"name"`
	EmissionFactor float64 `yaml:"emission_factor"`
	Green          bool    `yaml:"green,omitempty"`
}

// EngineEntry describes one engine type. SlipRate may be a fraction or a
// percentage.
type EngineEntry struct {
	Type              string             `yaml:"type"`
	SlipRate          float64            `yaml:"slip_rate"`
	CombustionFactors map[string]float64 `yaml:"combustion_factors"`
}

// EngineType is a validated engine type.
type EngineType struct {
	Type              string
	SlipRate          float64
	CombustionFactors map[string]float64
}

// Registry is the immutable reference data set.
type Registry struct {
	version     *semver.Version
	fuels       map[string]fleet.Fuel
	fuelOrder   []string
	electricity map[string]fleet.Electricity
	elecOrder   []string
	engines     map[string]EngineType
	engineOrder []string
}

// Parse decodes and builds a YAML reference document.
func Parse(data []byte) (*Registry, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// LoadDocument reads the YAML reference document at path without building it.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading reference data: %w", err)
	}
	return ParseDocument(data)
}

// ParseDocument decodes a YAML reference document without building it.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: parsing reference data: %v", fleet.ErrConfiguration, err)
	}
	return doc, nil
}

// Build validates doc and returns the registry it describes.
func Build(doc Document) (*Registry, error) {
	v, err := checkVersion(doc.Version)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		version:     v,
		fuels:       make(map[string]fleet.Fuel, len(doc.Fuels)),
		electricity: make(map[string]fleet.Electricity, len(doc.Electricity)),
		engines:     make(map[string]EngineType, len(doc.Engines)),
	}

	for _, e := range doc.Fuels {
		if err := r.addFuel(e); err != nil {
			return nil, err
		}
	}
	for _, e := range doc.Electricity {
		if err := r.addElectricity(e); err != nil {
			return nil, err
		}
	}
	for _, e := range doc.Engines {
		if err := r.addEngine(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func checkVersion(raw string) (*semver.Version, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: reference data has no version", fleet.ErrConfiguration)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: reference data version %q: %v", fleet.ErrConfiguration, raw, err)
	}
	c, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return nil, err
	}
	if !c.Check(v) {
		return nil, fmt.Errorf("%w: reference data version %s does not satisfy %s",
			fleet.ErrConfiguration, v, SupportedSchema)
	}
	return v, nil
}

func (r *Registry) nameTaken(name string) bool {
	_, fuel := r.fuels[name]
	_, elec := r.electricity[name]
	return fuel || elec
}

func (r *Registry) addFuel(e FuelEntry) error {
	if r.nameTaken(e.Name) {
		return fmt.Errorf("%w: duplicate power source %q in reference data", fleet.ErrConfiguration, e.Name)
	}
	f, err := fleet.NewFuel(fleet.FuelSpec{
		Name:                   e.Name,
		WtTEmissionFactor:      e.WtTEmissionFactor,
		LowerCalorificValue:    e.LowerCalorificValue,
		NonBiological:          e.NonBiological,
		Renewable:              e.Renewable,
		GlobalWarmingPotential: e.GlobalWarmingPotential,
		SlipFactor:             e.SlipFactor,
		RewardFactor:           e.RewardFactor,
	})
	if err != nil {
		return err
	}
	r.fuels[e.Name] = f
	r.fuelOrder = append(r.fuelOrder, e.Name)
	return nil
}

func (r *Registry) addElectricity(e ElectricityEntry) error {
	if r.nameTaken(e.Name) {
		return fmt.Errorf("%w: duplicate power source %q in reference data", fleet.ErrConfiguration, e.Name)
	}
	el, err := fleet.NewElectricity(fleet.ElectricitySpec{Name: e.Name, EmissionFactor: e.EmissionFactor, Green: e.Green})
	if err != nil {
		return err
	}
	r.electricity[e.Name] = el
	r.elecOrder = append(r.elecOrder, e.Name)
	return nil
}

func (r *Registry) addEngine(e EngineEntry) error {
	if e.Type == "" {
		return fmt.Errorf("%w: engine type has no name", fleet.ErrConfiguration)
	}
	if _, dup := r.engines[e.Type]; dup {
		return fmt.Errorf("%w: duplicate engine type %q", fleet.ErrConfiguration, e.Type)
	}
	slip, err := fleet.NormalizeSlipRate(e.SlipRate)
	if err != nil {
		return fmt.Errorf("engine type %q: %w", e.Type, err)
	}
	factors := make(map[string]float64, len(e.CombustionFactors))
	for fuel, cf := range e.CombustionFactors {
		if _, ok := r.fuels[fuel]; !ok {
			return fmt.Errorf("%w: engine type %q lists unknown fuel %q", fleet.ErrConfiguration, e.Type, fuel)
		}
		if cf < 0 {
			return fmt.Errorf("%w: engine type %q: negative combustion factor for %q", fleet.ErrConfiguration, e.Type, fuel)
		}
		factors[fuel] = cf
	}
	r.engines[e.Type] = EngineType{Type: e.Type, SlipRate: slip, CombustionFactors: factors}
	r.engineOrder = append(r.engineOrder, e.Type)
	return nil
}

// Version returns the reference data version.
func (r *Registry) Version() *semver.Version { return r.version }

// Fuel returns the named fuel.
func (r *Registry) Fuel(name string) (fleet.Fuel, bool) {
	f, ok := r.fuels[name]
	return f, ok
}

// FuelNames returns fuel names in document order.
func (r *Registry) FuelNames() []string { return slices.Clone(r.fuelOrder) }

// Electricity returns the named electricity source.
func (r *Registry) Electricity(name string) (fleet.Electricity, bool) {
	e, ok := r.electricity[name]
	return e, ok
}

// ElectricityNames returns electricity source names in document order.
func (r *Registry) ElectricityNames() []string { return slices.Clone(r.elecOrder) }

// EngineType returns a copy of the named engine type.
func (r *Registry) EngineType(name string) (EngineType, bool) {
	e, ok := r.engines[name]
	if !ok {
		return EngineType{}, false
	}
	factors := make(map[string]float64, len(e.CombustionFactors))
	for k, v := range e.CombustionFactors {
		factors[k] = v
	}
	e.CombustionFactors = factors
	return e, true
}

// EngineTypes returns engine type names in document order.
func (r *Registry) EngineTypes() []string { return slices.Clone(r.engineOrder) }

// CombustionFactor implements fleet.CombustionFactors.
func (r *Registry) CombustionFactor(engineType, fuel string) (float64, bool) {
	e, ok := r.engines[engineType]
	if !ok {
		return 0, false
	}
	cf, ok := e.CombustionFactors[fuel]
	return cf, ok
}

// NewEngine builds an engine of a registered type. A nil slipRate uses the
// type's default.
func (r *Registry) NewEngine(name, engineType string, fuels []string, slipRate *float64) (*fleet.Engine, error) {
	et, ok := r.engines[engineType]
	if !ok {
		return nil, fmt.Errorf("%w: engine %q: unknown engine type %q", fleet.ErrConfiguration, name, engineType)
	}
	spec := fleet.EngineSpec{Name: name, Type: engineType, SlipRate: et.SlipRate}
	if slipRate != nil {
		spec.SlipRate = *slipRate
	}
	for _, fn := range fuels {
		f, ok := r.fuels[fn]
		if !ok {
			return nil, fmt.Errorf("%w: engine %q: unknown fuel %q", fleet.ErrConfiguration, name, fn)
		}
		spec.Fuels = append(spec.Fuels, f)
	}
	return fleet.NewEngine(spec, r)
}

// NewElectricPort builds a port drawing from a registered electricity source.
func (r *Registry) NewElectricPort(name, source string) (*fleet.ElectricPort, error) {
	e, ok := r.electricity[source]
	if !ok {
		return nil, fmt.Errorf("%w: port %q: unknown electricity source %q", fleet.ErrConfiguration, name, source)
	}
	return fleet.NewElectricPort(name, e)
}
