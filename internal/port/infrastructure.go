// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

import (
	"github.com/vishvananda/netlink"
)

//go:generate mockgen -destination=../mock/mock_port.go -package=mock ledbox-netcfg/internal/port NetworkManager,FileManager,NetworkConfigurationManager

// NetworkManager is a port for network interface operations.
// This interface abstracts netlink operations for network configuration.
type NetworkManager interface {
	// GetLinkByName returns a network link by interface name
	GetLinkByName(interfaceName string) (netlink.Link, error)

	// ListAddresses returns IPv4 addresses configured on the link
	ListAddresses(link netlink.Link) ([]netlink.Addr, error)

	// AddAddress adds an IP address to the interface
	AddAddress(link netlink.Link, addr *netlink.Addr) error

	// DeleteAddress removes an IP address from the interface
	DeleteAddress(link netlink.Link, addr *netlink.Addr) error

	// ListRoutes returns IPv4 routes
	ListRoutes() ([]netlink.Route, error)

	// AddRoute adds a route
	AddRoute(route *netlink.Route) error

	// DeleteRoute removes a route
	DeleteRoute(route *netlink.Route) error

	// SetLinkUp brings the interface up
	SetLinkUp(link netlink.Link) error
}

// FileManager is a port for file system operations.
type FileManager interface {
	// ReadFile reads the contents of a file
	ReadFile(filename string) ([]byte, error)

	// WriteFile replaces the contents of a file with data
	WriteFile(filename string, data []byte, perm int) error

	// FileExists checks if a file exists
	FileExists(filename string) bool
}
