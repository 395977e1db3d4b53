package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ledbox-netcfg/internal/adapter/infrastructure/file"
	"ledbox-netcfg/internal/adapter/infrastructure/network"
	"ledbox-netcfg/internal/adapter/static"
	"ledbox-netcfg/internal/pkg/logging"
	"ledbox-netcfg/internal/port"

	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the static network configuration and keep it applied until stopped",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configFlag)
		if err != nil {
			return err
		}

		logging.InitLogger(cfg.Logging)
		logger := logging.GetLogger()
		logger.WithField("config_file", configFlag).Info("Starting ledbox-netcfg")

		if fields := cfg.Device.Placeholders(); len(fields) > 0 {
			logger.WithField("fields", strings.Join(fields, ", ")).
				Warn("Credentials still hold the shipped placeholder values")
		}

		if !cfg.Device.NetworkEnabled() {
			logger.Info("OTA is disabled, no network configuration to apply")
			return nil
		}

		manager, err := static.NewManager(cfg, network.NewManagerAdapter(), file.NewManagerAdapter())
		if err != nil {
			logger.WithField("interface", cfg.Interface).WithError(err).Error("Failed to create network configuration adapter")
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case sig := <-sigChan:
				logger.WithField("signal", sig.String()).Info("Received shutdown signal")
				cancel()
			case <-ctx.Done():
			}
		}()

		return runManager(ctx, manager)
	},
}

// runManager runs mgr until it fails or ctx ends. Cancellation is a clean stop.
func runManager(ctx context.Context, mgr port.NetworkConfigurationManager) error {
	logger := logging.WithComponentAndInterface("apply", mgr.GetInterfaceName())
	logger.Info("Starting network configuration adapter")

	if err := mgr.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("Network configuration adapter failed")
		return err
	}

	logger.Info("Network configuration adapter stopped")
	return nil
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
