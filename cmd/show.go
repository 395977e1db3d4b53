package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var revealFlag bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configFlag)
		if err != nil {
			return err
		}

		if !revealFlag {
			cfg.Device = cfg.Device.Redacted()
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	showCmd.Flags().BoolVar(&revealFlag, "reveal", false, "Print passwords in clear text")
	rootCmd.AddCommand(showCmd)
}
