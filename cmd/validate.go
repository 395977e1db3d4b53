package cmd

import (
	"fmt"
	"strings"

	"ledbox-netcfg/internal/pkg/config"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration without touching the network",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configFlag)
		if err != nil {
			return err
		}

		device := cfg.Device
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Configuration OK")
		fmt.Fprintf(out, "Interface: %s\n", cfg.Interface)
		fmt.Fprintf(out, "OTA enabled: %v\n", device.OTA.Enabled)
		fmt.Fprintf(out, "Static IP: %s/%d via %s\n",
			device.Network.IP, device.Network.Netmask.PrefixLength(), device.Network.Gateway)
		fmt.Fprintf(out, "Connect timeout: %s (%d x %s)\n",
			device.ConnectTimeout(), device.WiFiRetryTimeoutCount, config.RetryInterval)
		fmt.Fprintf(out, "Hostname prefix: %s\n", device.ProductName)
		if fields := device.Placeholders(); len(fields) > 0 {
			fmt.Fprintf(out, "Warning: placeholder values in %s\n", strings.Join(fields, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
