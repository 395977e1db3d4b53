package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"ledbox-netcfg/internal/types"
)

// RetryInterval is the unit of WiFiRetryTimeoutCount: the device polls its
// connection state once per interval.
const RetryInterval = 500 * time.Millisecond

// Values shipped with the device. The credential strings are placeholders
// meant to be replaced at provisioning time.
const (
	DefaultOTAPassword           = "PROVIDE YOUR PASSWORD FOR OTA UPDATE"
	DefaultRouterSSID            = "SSID OF YOUR ROUTER"
	DefaultRouterPassword        = "PASSWORD OF YOUR ROUTER"
	DefaultProductName           = "LedMatrixEffectBox_"
	DefaultWiFiRetryTimeoutCount = 10
)

var (
	DefaultStaticIP   = types.NewIPv4Address(192, 168, 8, 205)
	DefaultGatewayIP  = types.NewIPv4Address(192, 168, 8, 1)
	DefaultSubnetMask = types.NewIPv4Address(255, 255, 0, 0)
)

const redactedSecret = "********"

// OTAConfig gates over-the-air firmware updates.
type OTAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Password string `yaml:"password"`
}

// RouterConfig holds the credentials of the access point the device joins.
// It is only used when OTA is enabled.
type RouterConfig struct {
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`
}

// StaticConfig represents static IP configuration
type StaticConfig struct {
	IP      types.IPv4Address `yaml:"ip"`
	Gateway types.IPv4Address `yaml:"gateway"`
	Netmask types.IPv4Address `yaml:"netmask"`
}

// Settings is the complete device configuration. It is built once at start-up
// and handed to consumers by value; nothing mutates it afterwards.
type Settings struct {
	OTA                   OTAConfig    `yaml:"ota"`
	Router                RouterConfig `yaml:"router"`
	ProductName           string       `yaml:"product_name"`
	WiFiRetryTimeoutCount int          `yaml:"wifi_retry_timeout_count"` // in units of RetryInterval
	Network               StaticConfig `yaml:"network"`
}

// Default returns the settings the device ships with.
func Default() Settings {
	return Settings{
		OTA: OTAConfig{
			Enabled:  true,
			Password: DefaultOTAPassword,
		},
		Router: RouterConfig{
			SSID:     DefaultRouterSSID,
			Password: DefaultRouterPassword,
		},
		ProductName:           DefaultProductName,
		WiFiRetryTimeoutCount: DefaultWiFiRetryTimeoutCount,
		Network: StaticConfig{
			IP:      DefaultStaticIP,
			Gateway: DefaultGatewayIP,
			Netmask: DefaultSubnetMask,
		},
	}
}

// ConnectTimeout is the total time the connection poll may take before giving up.
func (s Settings) ConnectTimeout() time.Duration {
	return time.Duration(s.WiFiRetryTimeoutCount) * RetryInterval
}

// NetworkEnabled reports whether the router settings are in use.
func (s Settings) NetworkEnabled() bool {
	return s.OTA.Enabled
}

// Hostname derives the device identifier: the product name followed by the
// last three bytes of mac in upper-case hex.
func (s Settings) Hostname(mac net.HardwareAddr) string {
	if len(mac) < 3 {
		return s.ProductName
	}
	tail := mac[len(mac)-3:]
	return fmt.Sprintf("%s%02X%02X%02X", s.ProductName, tail[0], tail[1], tail[2])
}

// Placeholders lists the credential fields that still hold shipped placeholder text.
func (s Settings) Placeholders() []string {
	var fields []string
	if s.OTA.Password == DefaultOTAPassword {
		fields = append(fields, "ota.password")
	}
	if s.Router.SSID == DefaultRouterSSID {
		fields = append(fields, "router.ssid")
	}
	if s.Router.Password == DefaultRouterPassword {
		fields = append(fields, "router.password")
	}
	return fields
}

// Redacted returns a copy with secrets masked.
func (s Settings) Redacted() Settings {
	if s.OTA.Password != "" {
		s.OTA.Password = redactedSecret
	}
	if s.Router.Password != "" {
		s.Router.Password = redactedSecret
	}
	return s
}

// Validate checks the settings. Every error wraps ErrInvalidConfig.
func (s Settings) Validate() error {
	if s.WiFiRetryTimeoutCount <= 0 {
		return invalidf("wifi retry timeout count must be positive, got %d", s.WiFiRetryTimeoutCount)
	}
	if strings.TrimSpace(s.ProductName) == "" {
		return invalidf("product name is required")
	}

	if s.OTA.Enabled {
		if s.OTA.Password == "" {
			return invalidf("OTA password is required when OTA is enabled")
		}
		if s.Router.SSID == "" {
			return invalidf("router SSID is required when OTA is enabled")
		}
		if s.Router.Password == "" {
			return invalidf("router password is required when OTA is enabled")
		}
	}

	return s.Network.validate()
}

func (n StaticConfig) validate() error {
	if n.Netmask.IsZero() || !n.Netmask.IsContiguousMask() {
		return invalidf("subnet mask %s is not a valid mask", n.Netmask)
	}

	if n.IP.IsZero() {
		return invalidf("static IP address is required")
	}
	if n.Netmask.PrefixLength() < 31 {
		if n.IP == n.IP.Network(n.Netmask) {
			return invalidf("static IP %s is the network address of its subnet", n.IP)
		}
		if n.IP == n.IP.Broadcast(n.Netmask) {
			return invalidf("static IP %s is the broadcast address of its subnet", n.IP)
		}
	}

	// gateway is optional
	if !n.Gateway.IsZero() {
		if n.Gateway == n.IP {
			return invalidf("gateway %s equals the static IP", n.Gateway)
		}
		if !n.IP.SameSubnet(n.Gateway, n.Netmask) {
			return invalidf("gateway %s is outside subnet %s/%d", n.Gateway, n.IP.Network(n.Netmask), n.Netmask.PrefixLength())
		}
	}

	return nil
}
