//go:build unit

package config

import (
	"net"
	"testing"
	"time"

	"ledbox-netcfg/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func provisioned() Settings {
	s := Default()
	s.OTA.Password = "ota-secret"
	s.Router.SSID = "workshop"
	s.Router.Password = "hunter22"
	return s
}

func TestDefault(t *testing.T) {
	s := Default()

	assert.True(t, s.OTA.Enabled)
	assert.Equal(t, "PROVIDE YOUR PASSWORD FOR OTA UPDATE", s.OTA.Password)
	assert.Equal(t, "SSID OF YOUR ROUTER", s.Router.SSID)
	assert.Equal(t, "PASSWORD OF YOUR ROUTER", s.Router.Password)
	assert.Equal(t, "LedMatrixEffectBox_", s.ProductName)
	assert.Equal(t, 10, s.WiFiRetryTimeoutCount)
	assert.Equal(t, [4]int{192, 168, 8, 205}, s.Network.IP.Octets())
	assert.Equal(t, [4]int{192, 168, 8, 1}, s.Network.Gateway.Octets())
	assert.Equal(t, [4]int{255, 255, 0, 0}, s.Network.Netmask.Octets())
	assert.NoError(t, s.Validate())

	assert.Empty(t, cmp.Diff(Default(), Default()))
}

func TestSettings_ConnectTimeout(t *testing.T) {
	s := Default()
	assert.Equal(t, 5000*time.Millisecond, s.ConnectTimeout())

	s.WiFiRetryTimeoutCount = 1
	assert.Equal(t, RetryInterval, s.ConnectTimeout())
}

func TestSettings_Hostname(t *testing.T) {
	s := Default()

	mac, err := net.ParseMAC("24:6f:28:a1:b2:c3")
	assert.NoError(t, err)
	assert.Equal(t, "LedMatrixEffectBox_A1B2C3", s.Hostname(mac))
	assert.Equal(t, "LedMatrixEffectBox_", s.Hostname(nil))
}

func TestSettings_Placeholders(t *testing.T) {
	assert.Equal(t, []string{"ota.password", "router.ssid", "router.password"}, Default().Placeholders())
	assert.Empty(t, provisioned().Placeholders())
}

func TestSettings_Redacted(t *testing.T) {
	s := provisioned()
	r := s.Redacted()

	assert.Equal(t, redactedSecret, r.OTA.Password)
	assert.Equal(t, redactedSecret, r.Router.Password)
	assert.Equal(t, "workshop", r.Router.SSID)
	// the original value is untouched
	assert.Equal(t, "ota-secret", s.OTA.Password)

	s.Router.Password = ""
	assert.Empty(t, s.Redacted().Router.Password)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{"ZeroRetryCount", func(s *Settings) { s.WiFiRetryTimeoutCount = 0 }, "wifi retry timeout count must be positive"},
		{"NegativeRetryCount", func(s *Settings) { s.WiFiRetryTimeoutCount = -3 }, "wifi retry timeout count must be positive"},
		{"EmptyProductName", func(s *Settings) { s.ProductName = "" }, "product name is required"},
		{"EmptyOTAPassword", func(s *Settings) { s.OTA.Password = "" }, "OTA password is required"},
		{"EmptySSID", func(s *Settings) { s.Router.SSID = "" }, "router SSID is required"},
		{"EmptyRouterPassword", func(s *Settings) { s.Router.Password = "" }, "router password is required"},
		{"ZeroMask", func(s *Settings) { s.Network.Netmask = types.IPv4Address{} }, "is not a valid mask"},
		{"NonContiguousMask", func(s *Settings) { s.Network.Netmask = types.NewIPv4Address(255, 0, 255, 0) }, "is not a valid mask"},
		{"ZeroIP", func(s *Settings) { s.Network.IP = types.IPv4Address{} }, "static IP address is required"},
		{"NetworkAddress", func(s *Settings) { s.Network.IP = types.NewIPv4Address(192, 168, 0, 0) }, "network address"},
		{"BroadcastAddress", func(s *Settings) { s.Network.IP = types.NewIPv4Address(192, 168, 255, 255) }, "broadcast address"},
		{"GatewayEqualsIP", func(s *Settings) { s.Network.Gateway = s.Network.IP }, "equals the static IP"},
		{"GatewayOutsideSubnet", func(s *Settings) { s.Network.Gateway = types.NewIPv4Address(10, 0, 0, 1) }, "is outside subnet 192.168.0.0/16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := provisioned()
			tt.mutate(&s)
			err := s.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("OTADisabledIgnoresCredentials", func(t *testing.T) {
		s := provisioned()
		s.OTA = OTAConfig{Enabled: false}
		s.Router = RouterConfig{}
		assert.NoError(t, s.Validate())
		assert.False(t, s.NetworkEnabled())
	})

	t.Run("GatewayIsOptional", func(t *testing.T) {
		s := provisioned()
		s.Network.Gateway = types.IPv4Address{}
		assert.NoError(t, s.Validate())
	})

	t.Run("PointToPointMask", func(t *testing.T) {
		s := provisioned()
		s.Network.IP = types.NewIPv4Address(10, 0, 0, 0)
		s.Network.Gateway = types.NewIPv4Address(10, 0, 0, 1)
		s.Network.Netmask = types.NewIPv4Address(255, 255, 255, 254)
		assert.NoError(t, s.Validate())
	})
}
