// Package network provides the netlink-backed NetworkManager adapter.
package network

import (
	"errors"
	"fmt"
	"net"
	"syscall"

	"ledbox-netcfg/internal/port"

	"github.com/vishvananda/netlink"
)

// ManagerAdapter implements the NetworkManager port on top of vishvananda/netlink.
type ManagerAdapter struct{}

var _ port.NetworkManager = (*ManagerAdapter)(nil)

// NewManagerAdapter creates a new network manager adapter.
func NewManagerAdapter() *ManagerAdapter {
	return &ManagerAdapter{}
}

func linkName(link netlink.Link) string {
	if link == nil || link.Attrs() == nil {
		return "<nil>"
	}
	return link.Attrs().Name
}

// GetLinkByName returns a network link by interface name.
func (n *ManagerAdapter) GetLinkByName(interfaceName string) (netlink.Link, error) {
	link, err := netlink.LinkByName(interfaceName)
	if err != nil {
		return nil, fmt.Errorf("failed to get netlink interface %s: %w", interfaceName, err)
	}
	return link, nil
}

// ListAddresses returns IPv4 addresses configured on the link.
func (n *ManagerAdapter) ListAddresses(link netlink.Link) ([]netlink.Addr, error) {
	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses on %s: %w", linkName(link), err)
	}
	return addrs, nil
}

// AddAddress adds an IP address to the interface.
func (n *ManagerAdapter) AddAddress(link netlink.Link, addr *netlink.Addr) error {
	if err := netlink.AddrAdd(link, addr); err != nil {
		return fmt.Errorf("failed to add address %s to %s: %w", addr.IPNet, linkName(link), err)
	}
	return nil
}

// DeleteAddress removes an IP address from the interface.
func (n *ManagerAdapter) DeleteAddress(link netlink.Link, addr *netlink.Addr) error {
	if err := netlink.AddrDel(link, addr); err != nil {
		return fmt.Errorf("failed to delete address %s from %s: %w", addr.IPNet, linkName(link), err)
	}
	return nil
}

// ListRoutes returns IPv4 routes of all links.
func (n *ManagerAdapter) ListRoutes() ([]netlink.Route, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return nil, fmt.Errorf("failed to list routes: %w", err)
	}
	return routes, nil
}

// AddRoute adds a route. A route the kernel already holds is not an error.
func (n *ManagerAdapter) AddRoute(route *netlink.Route) error {
	if err := netlink.RouteAdd(route); err != nil {
		if errors.Is(err, syscall.EEXIST) {
			return nil
		}
		return fmt.Errorf("failed to add route via %s: %w", route.Gw, err)
	}
	return nil
}

// DeleteRoute removes a route.
func (n *ManagerAdapter) DeleteRoute(route *netlink.Route) error {
	if err := netlink.RouteDel(route); err != nil {
		return fmt.Errorf("failed to delete route via %s: %w", route.Gw, err)
	}
	return nil
}

// SetLinkUp brings the interface up. It is a no-op for a link that is already up.
func (n *ManagerAdapter) SetLinkUp(link netlink.Link) error {
	if link.Attrs() != nil && link.Attrs().Flags&net.FlagUp != 0 {
		return nil
	}
	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("failed to set link %s up: %w", linkName(link), err)
	}
	return nil
}
