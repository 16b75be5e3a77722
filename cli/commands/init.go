package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumen-labs/lumen-go/cli/config"
	"github.com/lumen-labs/lumen-go/content"
)

func (a *App) newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter configuration file",
		Long: `Create a configuration file with sensible defaults.

The file is written to ~/.lumen/config.yaml unless --config points elsewhere.

Example:
  lumen init
  lumen init --default-model prism-alpha`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit()
		},
	}

	cmd.Flags().StringVar(&a.initModel, "default-model", string(content.ModelCrystal), "default model written to the config")
	cmd.Flags().BoolVar(&a.initForce, "force", false, "overwrite an existing config file")

	return cmd
}

func (a *App) runInit() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if !a.initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %q already exists (use --force to overwrite)", path)
		}
	}

	cfg := &config.Config{
		DefaultModel: a.initModel,
		APIKeyEnv:    apiKeyEnv,
		KeyName:      defaultKeyName,
	}

	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(a.stdout, "Created %s\n\n", path)
	fmt.Fprintln(a.stdout, "Next steps:")
	fmt.Fprintln(a.stdout, "  lumen keys set")
	fmt.Fprintln(a.stdout, "  lumen ask \"Hello\"")

	return nil
}
