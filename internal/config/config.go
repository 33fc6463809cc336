// Package config loads the fuelghg configuration: compliance parameters,
// reference data location, output and logging settings.
//
// Precedence, lowest first: built-in defaults, the config file, a project
// overlay merged section by section, environment variables, CLI flags. Flags
// are applied by the cli package.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/logging"
	"github.com/rshade/fuelghg/internal/penalty"
)

// Environment variables.
const (
	EnvConfig       = "FUELGHG_CONFIG"
	EnvOutputFormat = "FUELGHG_OUTPUT_FORMAT"
	EnvProjectDir   = "FUELGHG_PROJECT_DIR"
)

const (
	dirName  = ".fuelghg"
	fileName = "config.yaml"
)

// Output formats.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// OutputFormats lists the supported report formats.
func OutputFormats() []string { return []string{FormatTable, FormatJSON, FormatNDJSON} }

const (
	defaultPrecision = 4
	maxPrecision     = 12
)

// Config is the complete fuelghg configuration.
type Config struct {
	Compliance ComplianceConfig `yaml:"compliance"`
	Reference  ReferenceConfig  `yaml:"reference"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ComplianceConfig holds the regulatory parameters.
type ComplianceConfig struct {
	PropWindProportion float64 `yaml:"prop_wind_proportion"`
	PenaltyRate        float64 `yaml:"penalty_rate"`

	// GHGTargetIntensity wins over TargetYear when set.
	GHGTargetIntensity float64 `yaml:"ghg_target_intensity,omitempty"`
	TargetYear         int     `yaml:"target_year,omitempty"`
}

// TargetIntensity resolves the target: the explicit intensity when set,
// otherwise the regulatory limit for TargetYear.
func (c ComplianceConfig) TargetIntensity() (float64, error) {
	if c.GHGTargetIntensity != 0 {
		return c.GHGTargetIntensity, nil
	}
	if c.TargetYear == 0 {
		return 0, fmt.Errorf("%w: compliance needs ghg_target_intensity or target_year", fleet.ErrConfiguration)
	}
	return penalty.TargetIntensity(c.TargetYear)
}

// ReferenceConfig locates reference data. An empty Path selects the
// built-in data set. FuelTable, when set, adds fuels from a csv or sqlite
// table.
type ReferenceConfig struct {
	Path      string `yaml:"path,omitempty"`
	FuelTable string `yaml:"fuel_table,omitempty"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Compliance: ComplianceConfig{
			PenaltyRate: penalty.DefaultRate,
			TargetYear:  penalty.FirstReportingYear,
		},
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     defaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// DefaultDir returns ~/.fuelghg.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath returns ~/.fuelghg/config.yaml.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// ResolvePath picks the config file: flagValue, then FUELGHG_CONFIG, then
// the default path. explicit reports whether the user named the file.
func ResolvePath(flagValue string) (path string, explicit bool, err error) {
	if flagValue != "" {
		return flagValue, true, nil
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env, true, nil
	}
	path, err = DefaultPath()
	return path, false, err
}

// Load reads the config file chosen by ResolvePath on top of the defaults
// and applies environment overrides. A missing default file is not an
// error; a missing explicitly named file is.
func Load(flagValue string) (*Config, error) {
	path, explicit, err := ResolvePath(flagValue)
	if err != nil {
		return nil, err
	}
	cfg := New()
	if err := cfg.readFile(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parsing config %s: %v", fleet.ErrConfiguration, path, err)
	}
	return nil
}

// ApplyEnv applies environment variable overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(logging.EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(logging.EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
}

// Validate checks every section and returns all problems found.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{fleet.ErrConfiguration}, args...)...))
	}

	comp := c.Compliance
	if math.IsNaN(comp.PropWindProportion) || comp.PropWindProportion < 0 || comp.PropWindProportion > 1 {
		add("compliance.prop_wind_proportion must lie in [0, 1], got %v", comp.PropWindProportion)
	}
	if math.IsNaN(comp.PenaltyRate) || comp.PenaltyRate <= 0 {
		add("compliance.penalty_rate must be positive, got %v", comp.PenaltyRate)
	}
	if comp.GHGTargetIntensity < 0 || math.IsNaN(comp.GHGTargetIntensity) {
		add("compliance.ghg_target_intensity must be positive, got %v", comp.GHGTargetIntensity)
	} else if _, err := comp.TargetIntensity(); err != nil {
		errs = append(errs, err)
	}

	if !slices.Contains(OutputFormats(), c.Output.DefaultFormat) {
		add("output.default_format must be one of %v, got %q", OutputFormats(), c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		add("output.precision must lie in [0, %d], got %d", maxPrecision, c.Output.Precision)
	}

	if c.Logging.Format != logging.FormatConsole && c.Logging.Format != logging.FormatJSON {
		add("logging.format must be %q or %q, got %q", logging.FormatConsole, logging.FormatJSON, c.Logging.Format)
	}

	return errors.Join(errs...)
}

// Save writes c to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
