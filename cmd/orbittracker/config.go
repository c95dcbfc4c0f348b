package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oxygene76/orbittracker/pkg/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the orbittracker configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to $HOME/.orbittracker/config.yaml
(or the path given by --config). An existing file is kept unless --force
is set.`,
	// the target file may not exist yet, so skip loading it
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
		return nil
	},
}

var configForce bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = filepath.Join(utils.ConfigDir(), "config.yaml")
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := utils.SaveConfig(utils.DefaultConfig(), path); err != nil {
		return err
	}

	fmt.Printf("Configuration initialized at: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Point catalog.path at your star catalogue")
	fmt.Println("2. List stars: orbittracker catalog list")
	fmt.Println("3. Predict: orbittracker predict sirius")
	return nil
}
