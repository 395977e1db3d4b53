package port

import (
	"context"
)

// NetworkConfigurationManager brings one interface to the device's configured
// network state and keeps it there.
type NetworkConfigurationManager interface {
	// Run applies the configuration and maintains it until the context is cancelled.
	Run(ctx context.Context) error

	// GetInterfaceName returns the name of the network interface managed by this manager.
	GetInterfaceName() string
}
