package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/fuelghg/internal/config"
)

// NewConfigInitCmd creates the config init command. With --project-dir it
// writes the project overlay <dir>/.fuelghg/config.yaml; otherwise the
// global config file.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Initialize configuration file with default values",
		Annotations: map[string]string{annotationConfigOptional: "true"},
		Example: `  # Create ~/.fuelghg/config.yaml
  fuelghg config init

  # Create a project overlay in the current directory
  fuelghg config init --project-dir .

  # Overwrite an existing file
  fuelghg config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := initPath(cmd)
			if err != nil {
				return err
			}
			return initConfig(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

func initPath(cmd *cobra.Command) (string, error) {
	if projectFlag, _ := cmd.Flags().GetString("project-dir"); projectFlag != "" {
		dir := config.ResolveProjectDir(cmd.Context(), projectFlag, "")
		return filepath.Join(dir, "config.yaml"), nil
	}
	configFlag, _ := cmd.Flags().GetString("config")
	path, _, err := config.ResolvePath(configFlag)
	return path, err
}

func initConfig(cmd *cobra.Command, path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	if err := config.New().Save(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	return nil
}
