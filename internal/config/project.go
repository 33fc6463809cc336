package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rshade/fuelghg/internal/logging"
)

// ResolveProjectDir determines the project-local .fuelghg directory. It
// checks, in order, flagValue (--project-dir), FUELGHG_PROJECT_DIR and a
// walk up from startDir for a .fuelghg directory other than the global one.
//
// The returned path is absolute, or empty when no project is found. The
// directory is not created.
func ResolveProjectDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbsProjectDir(ctx, flagValue)
	}
	if envDir := os.Getenv(EnvProjectDir); envDir != "" {
		return toAbsProjectDir(ctx, envDir)
	}
	if startDir == "" {
		return ""
	}

	global, _ := DefaultDir()
	dir := toAbsProjectDir(ctx, startDir)
	for {
		if dir != global {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				return dir
			}
		}
		parent := filepath.Dir(filepath.Dir(dir))
		if parent == filepath.Dir(dir) {
			return ""
		}
		dir = filepath.Join(parent, dirName)
	}
}

// ApplyProjectDir shallow-merges <projectDir>/config.yaml onto cfg. A
// missing file leaves cfg untouched. A broken overlay is logged and ignored.
func ApplyProjectDir(ctx context.Context, cfg *Config, projectDir string) {
	if projectDir == "" {
		return
	}

	overlayPath := filepath.Join(projectDir, fileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return
	}

	merged := *cfg
	if err := ShallowMergeYAML(&merged, overlayPath); err != nil {
		logging.FromContext(ctx).Warn().Ctx(ctx).
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global config")
		return
	}
	*cfg = merged
}

// toAbsProjectDir converts dir to an absolute path ending in .fuelghg.
func toAbsProjectDir(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logging.FromContext(ctx).Warn().Ctx(ctx).
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for project directory")
		abs = dir
	}

	if filepath.Base(abs) == dirName {
		return abs
	}
	return filepath.Join(abs, dirName)
}
