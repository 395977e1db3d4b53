package cmd

import (
	"fmt"

	"ledbox-netcfg/internal/pkg/config"

	"github.com/spf13/cobra"
)

var (
	configFlag string
)

var rootCmd = &cobra.Command{
	Use:          "ledbox-netcfg",
	Short:        "ledbox-netcfg manages the network settings of the LED Matrix Effect Box",
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig loads the configuration and rejects it before any network work if invalid.
func loadConfig(configPath string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "f", "",
		"Path to config file (YAML); defaults and LEDBOX_* environment variables apply without it")
}
