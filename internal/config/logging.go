package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rshade/fuelghg/internal/logging"
)

// ToLoggingConfig converts the section for the logging package. A file
// sends output to that file, otherwise to stderr.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}
	return logging.Config{Level: lc.Level, Format: lc.Format, Output: output, File: lc.File}
}

// EnsureLogDir creates the directory of the configured log file. It is a
// no-op when logging goes to stderr.
func (lc LoggingConfig) EnsureLogDir() error {
	if lc.File == "" {
		return nil
	}
	dir := filepath.Dir(lc.File)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating log directory %s: %w", dir, err)
	}
	return nil
}
