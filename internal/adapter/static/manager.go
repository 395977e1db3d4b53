package static

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"ledbox-netcfg/internal/pkg/config"
	"ledbox-netcfg/internal/pkg/logging"
	"ledbox-netcfg/internal/port"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// ErrLinkTimeout is returned when the interface is still not usable after
// the configured number of connection trials.
var ErrLinkTimeout = errors.New("link did not become ready")

const defaultRepairInterval = 30 * time.Second

// Manager applies the device's static addressing to one interface and keeps
// it applied. It implements the NetworkConfigurationManager port.
type Manager struct {
	iface          *net.Interface
	settings       config.Settings
	hostnameFile   string
	networkMgr     port.NetworkManager
	fileMgr        port.FileManager
	pollInterval   time.Duration
	repairInterval time.Duration
}

var _ port.NetworkConfigurationManager = (*Manager)(nil)

// NewManager creates a static address manager for cfg.Interface. The device
// settings are copied; later changes to cfg do not reach the manager.
func NewManager(cfg *config.Config, networkMgr port.NetworkManager, fileMgr port.FileManager) (*Manager, error) {
	iface, err := net.InterfaceByName(cfg.Interface)
	if err != nil {
		return nil, fmt.Errorf("interface not found: %w", err)
	}

	if !cfg.Device.NetworkEnabled() {
		return nil, fmt.Errorf("network configuration is disabled while OTA is off")
	}

	return &Manager{
		iface:          iface,
		settings:       cfg.Device,
		hostnameFile:   cfg.HostnameFile,
		networkMgr:     networkMgr,
		fileMgr:        fileMgr,
		pollInterval:   config.RetryInterval,
		repairInterval: defaultRepairInterval,
	}, nil
}

// GetInterfaceName returns the name of the network interface managed by this manager.
func (m *Manager) GetInterfaceName() string {
	return m.iface.Name
}

func (m *Manager) logger() *logrus.Entry {
	return logging.WithComponentAndInterface("static", m.iface.Name)
}

// Run waits for the link, applies the static address, default route and
// hostname, then repairs drift until the context is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	logger := m.logger().WithField("mac", m.iface.HardwareAddr.String())
	logger.WithFields(logrus.Fields{
		"max_trials": m.settings.WiFiRetryTimeoutCount,
		"timeout":    m.settings.ConnectTimeout().String(),
	}).Info("Waiting for link")

	link, err := m.waitForLink(ctx)
	if err != nil {
		return err
	}

	if err := m.applyStaticConfig(ctx, link); err != nil {
		return fmt.Errorf("failed to apply static configuration: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"ip":      m.settings.Network.IP.String(),
		"netmask": m.settings.Network.Netmask.String(),
		"gateway": m.settings.Network.Gateway.String(),
	}).Info("Static IP configuration applied successfully")

	if err := m.writeHostname(); err != nil {
		logger.WithError(err).Warn("Failed to write hostname")
	}

	return m.monitorInterface(ctx)
}

func linkUsable(attrs *netlink.LinkAttrs) bool {
	if attrs == nil || attrs.Flags&net.FlagUp == 0 {
		return false
	}
	return attrs.OperState == netlink.OperUp || attrs.OperState == netlink.OperUnknown
}

// waitForLink polls the link once per poll interval for at most
// WiFiRetryTimeoutCount trials. An administratively down link is raised once.
func (m *Manager) waitForLink(ctx context.Context) (netlink.Link, error) {
	logger := m.logger()
	trials := m.settings.WiFiRetryTimeoutCount
	raised := false

	for trial := 1; trial <= trials; trial++ {
		link, err := m.networkMgr.GetLinkByName(m.iface.Name)
		switch {
		case err != nil:
			logger.WithError(err).WithField("trial", trial).Debug("Link lookup failed")
		case linkUsable(link.Attrs()):
			logger.WithField("trial", trial).Info("Link is ready")
			return link, nil
		case link.Attrs().Flags&net.FlagUp == 0 && !raised:
			raised = true
			logger.Warn("Interface is down, bringing it up")
			if err := m.networkMgr.SetLinkUp(link); err != nil {
				logger.WithError(err).Warn("Failed to bring interface up")
			}
		default:
			logger.WithFields(logrus.Fields{
				"trial":      trial,
				"oper_state": link.Attrs().OperState.String(),
			}).Debug("Link not ready")
		}

		if trial == trials {
			break
		}

		timer := time.NewTimer(m.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("%w: %s not usable after %d trials (%s)",
		ErrLinkTimeout, m.iface.Name, trials, m.settings.ConnectTimeout())
}

// applyStaticConfig applies the static IP configuration to the interface.
func (m *Manager) applyStaticConfig(ctx context.Context, link netlink.Link) error {
	logger := m.logger()
	network := m.settings.Network

	ipNet := &net.IPNet{
		IP:   network.IP.IP(),
		Mask: network.Netmask.Mask(),
	}

	logger.WithField("ip", ipNet.String()).Info("Configuring interface with IP")

	existingAddrs, err := m.networkMgr.ListAddresses(link)
	if err != nil {
		return fmt.Errorf("failed to list existing addresses: %w", err)
	}

	targetConfigured := false
	for _, addr := range existingAddrs {
		if addr.IPNet.IP.Equal(ipNet.IP) && addr.IPNet.Mask.String() == ipNet.Mask.String() {
			logger.WithField("ip", ipNet.String()).Info("IP address already configured, skipping")
			targetConfigured = true
			break
		}
	}

	if !targetConfigured {
		// Only one IPv4 address may remain on the interface.
		for _, addr := range existingAddrs {
			if err := m.networkMgr.DeleteAddress(link, &addr); err != nil {
				logger.WithError(err).WithField("address", addr.IPNet.String()).Warn("Failed to remove existing address")
			} else {
				logger.WithField("address", addr.IPNet.String()).Debug("Removed existing address")
			}
		}

		if err := m.networkMgr.AddAddress(link, &netlink.Addr{IPNet: ipNet}); err != nil {
			return fmt.Errorf("failed to add IP address %s: %w", ipNet.String(), err)
		}
		logger.WithField("ip", ipNet.String()).Info("Successfully added IP address")
	}

	if !network.Gateway.IsZero() {
		logger.WithField("gateway", network.Gateway.String()).Info("Setting default gateway")
		if err := m.configureDefaultRoute(ctx, link, network.Gateway.IP()); err != nil {
			return fmt.Errorf("failed to set default gateway: %w", err)
		}
	}

	return nil
}

func isDefaultRoute(route netlink.Route) bool {
	return route.Dst == nil || route.Dst.String() == "0.0.0.0/0"
}

// configureDefaultRoute makes gateway the only default route.
func (m *Manager) configureDefaultRoute(ctx context.Context, link netlink.Link, gateway net.IP) error {
	logger := m.logger().WithField("gateway", gateway.String())

	routes, err := m.networkMgr.ListRoutes()
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	hasDefaultRoute := false
	for _, route := range routes {
		if !isDefaultRoute(route) || route.Gw == nil {
			continue
		}
		if route.Gw.Equal(gateway) && route.LinkIndex == link.Attrs().Index {
			logger.Debug("Default route already configured, skipping")
			hasDefaultRoute = true
			continue
		}
		if err := m.networkMgr.DeleteRoute(&route); err != nil {
			logger.WithError(err).WithField("existing_gateway", route.Gw.String()).
				Warn("Failed to remove existing default route")
		} else {
			logger.WithField("existing_gateway", route.Gw.String()).
				Debug("Removed conflicting default route")
		}
	}

	if hasDefaultRoute {
		return nil
	}

	route := &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Gw:        gateway,
	}
	if err := m.networkMgr.AddRoute(route); err != nil {
		return fmt.Errorf("failed to add default route: %w", err)
	}
	logger.Info("Successfully configured default route")

	return nil
}

// writeHostname stores the derived device hostname unless it is already current.
func (m *Manager) writeHostname() error {
	hostname := m.settings.Hostname(m.iface.HardwareAddr)
	content := hostname + "\n"
	logger := m.logger().WithField("hostname", hostname)

	if current, err := m.fileMgr.ReadFile(m.hostnameFile); err == nil && string(current) == content {
		logger.Debug("Hostname already up to date, skipping")
		return nil
	}

	if err := m.fileMgr.WriteFile(m.hostnameFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", m.hostnameFile, err)
	}

	logger.WithField("file", m.hostnameFile).Info("Updated hostname")
	return nil
}

// monitorInterface re-checks the configuration every repair interval.
func (m *Manager) monitorInterface(ctx context.Context) error {
	logger := m.logger()
	logger.Info("Starting interface monitoring")

	ticker := time.NewTicker(m.repairInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Interface monitoring stopped due to context cancellation")
			return ctx.Err()
		case <-ticker.C:
			if err := m.checkAndRepairConfiguration(ctx); err != nil {
				logger.WithError(err).Error("Configuration check failed")
			}
		}
	}
}

// checkAndRepairConfiguration brings the link up and re-adds the static
// address if either has been lost.
func (m *Manager) checkAndRepairConfiguration(ctx context.Context) error {
	logger := m.logger()

	link, err := m.networkMgr.GetLinkByName(m.iface.Name)
	if err != nil {
		return fmt.Errorf("failed to get netlink interface: %w", err)
	}

	if link.Attrs().Flags&net.FlagUp == 0 {
		logger.Warn("Interface is down, bringing it up")
		if err := m.networkMgr.SetLinkUp(link); err != nil {
			return fmt.Errorf("failed to bring interface up: %w", err)
		}
	}

	addrs, err := m.networkMgr.ListAddresses(link)
	if err != nil {
		return fmt.Errorf("failed to get interface addresses: %w", err)
	}

	expectedIP := m.settings.Network.IP.IP()
	for _, addr := range addrs {
		if addr.IPNet.IP.Equal(expectedIP) {
			return nil
		}
	}

	logger.WithField("ip", m.settings.Network.IP.String()).
		Warn("Static IP not found on interface, reapplying configuration")
	if err := m.applyStaticConfig(ctx, link); err != nil {
		return fmt.Errorf("failed to reapply static configuration: %w", err)
	}
	logger.Info("Static configuration reapplied successfully")

	return nil
}
