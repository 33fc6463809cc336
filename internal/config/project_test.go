package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fuelghg/internal/config"
)

func TestResolveProjectDir_FlagOverridesEnv(t *testing.T) {
	ctx := context.Background()
	envDir := t.TempDir()
	flagDir := t.TempDir()
	t.Setenv(config.EnvProjectDir, envDir)

	got := config.ResolveProjectDir(ctx, flagDir, "/does/not/matter")
	assert.Equal(t, filepath.Join(flagDir, ".fuelghg"), got)
	assert.True(t, filepath.IsAbs(got))

	got = config.ResolveProjectDir(ctx, "", "/does/not/matter")
	assert.Equal(t, filepath.Join(envDir, ".fuelghg"), got)
}

func TestResolveProjectDir_NoDoubleAppend(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	dir := filepath.Join(t.TempDir(), ".fuelghg")
	assert.Equal(t, dir, config.ResolveProjectDir(context.Background(), dir, ""))
}

func TestResolveProjectDir_WalkUp(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	t.Setenv("HOME", t.TempDir())

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".fuelghg"), 0o755))
	sub := filepath.Join(root, "voyages", "2025")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	assert.Equal(t, filepath.Join(root, ".fuelghg"), config.ResolveProjectDir(context.Background(), "", sub))
}

func TestResolveProjectDir_NotFound(t *testing.T) {
	t.Setenv(config.EnvProjectDir, "")
	assert.Empty(t, config.ResolveProjectDir(context.Background(), "", ""))
}

func TestApplyProjectDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := config.New()
	config.ApplyProjectDir(ctx, cfg, dir)
	assert.Equal(t, config.New(), cfg, "missing overlay leaves config untouched")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("output:\n  default_format: ndjson\n  precision: 1\n"), 0o600))
	config.ApplyProjectDir(ctx, cfg, dir)
	assert.Equal(t, "ndjson", cfg.Output.DefaultFormat)
	assert.Equal(t, config.New().Compliance, cfg.Compliance)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output: [broken"), 0o600))
	config.ApplyProjectDir(ctx, cfg, dir)
	assert.Equal(t, "ndjson", cfg.Output.DefaultFormat, "broken overlay is ignored")
}
