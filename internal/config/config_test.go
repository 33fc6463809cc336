package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fuelghg/internal/config"
	"github.com/rshade/fuelghg/internal/fleet"
	"github.com/rshade/fuelghg/internal/logging"
	"github.com/rshade/fuelghg/internal/penalty"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvConfig, config.EnvOutputFormat, logging.EnvLogLevel, logging.EnvLogFormat} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestNew_Defaults(t *testing.T) {
	cfg := config.New()
	require.NoError(t, cfg.Validate())

	target, err := cfg.Compliance.TargetIntensity()
	require.NoError(t, err)
	want, err := penalty.TargetIntensity(penalty.FirstReportingYear)
	require.NoError(t, err)
	assert.InDelta(t, want, target, 0)
	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
}

func TestComplianceConfig_TargetIntensity(t *testing.T) {
	explicit := config.ComplianceConfig{GHGTargetIntensity: 80, TargetYear: 2030}
	v, err := explicit.TargetIntensity()
	require.NoError(t, err)
	assert.InDelta(t, 80.0, v, 0)

	_, err = config.ComplianceConfig{}.TargetIntensity()
	require.ErrorIs(t, err, fleet.ErrConfiguration)

	_, err = config.ComplianceConfig{TargetYear: 2020}.TargetIntensity()
	require.ErrorIs(t, err, fleet.ErrConfiguration)
}

func TestLoad(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")
	require.NoError(t, err, "missing default file falls back to defaults")
	assert.Equal(t, config.New(), cfg)

	path := filepath.Join(t.TempDir(), "fuelghg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
compliance:
  prop_wind_proportion: 0.12
output:
  precision: 6
`), 0o600))

	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.12, cfg.Compliance.PropWindProportion, 0)
	assert.InDelta(t, penalty.DefaultRate, cfg.Compliance.PenaltyRate, 0, "unset keys keep defaults")
	assert.Equal(t, 6, cfg.Output.Precision)
	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)

	t.Setenv(config.EnvConfig, path)
	cfg, err = config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Output.Precision)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("output: [x"), 0o600))
	_, err = config.Load(bad)
	require.ErrorIs(t, err, fleet.ErrConfiguration)
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(logging.EnvLogLevel, "debug")
	t.Setenv(logging.EnvLogFormat, "json")
	t.Setenv(config.EnvOutputFormat, "ndjson")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "ndjson", cfg.Output.DefaultFormat)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{name: "wind", mutate: func(c *config.Config) { c.Compliance.PropWindProportion = 1.2 }, want: "prop_wind_proportion"},
		{name: "rate", mutate: func(c *config.Config) { c.Compliance.PenaltyRate = 0 }, want: "penalty_rate"},
		{name: "negative target", mutate: func(c *config.Config) { c.Compliance.GHGTargetIntensity = -1 }, want: "ghg_target_intensity"},
		{name: "early year", mutate: func(c *config.Config) { c.Compliance.TargetYear = 2019 }, want: "2019"},
		{name: "format", mutate: func(c *config.Config) { c.Output.DefaultFormat = "xml" }, want: "default_format"},
		{name: "precision", mutate: func(c *config.Config) { c.Output.Precision = 20 }, want: "precision"},
		{name: "log format", mutate: func(c *config.Config) { c.Logging.Format = "text" }, want: "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, fleet.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSave(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.New()
	cfg.Compliance.GHGTargetIntensity = 85.5
	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "warn", Format: "json"}
	assert.Equal(t, logging.OutputStderr, lc.ToLoggingConfig().Output)
	require.NoError(t, lc.EnsureLogDir())

	lc.File = filepath.Join(t.TempDir(), "logs", "fuelghg.log")
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, lc.File, got.File)
	require.NoError(t, lc.EnsureLogDir())
	assert.DirExists(t, filepath.Dir(lc.File))
}
