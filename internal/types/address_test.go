//go:build unit

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseIPv4Address(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		addr, err := ParseIPv4Address("192.168.8.205")
		require.NoError(t, err)
		assert.Equal(t, NewIPv4Address(192, 168, 8, 205), addr)
		assert.Equal(t, [4]int{192, 168, 8, 205}, addr.Octets())
		assert.Equal(t, "192.168.8.205", addr.String())
	})

	t.Run("Boundaries", func(t *testing.T) {
		addr, err := ParseIPv4Address("0.0.0.255")
		require.NoError(t, err)
		assert.Equal(t, [4]int{0, 0, 0, 255}, addr.Octets())
	})

	invalid := map[string]string{
		"OctetOutOfRange": "192.168.8.256",
		"TooFewOctets":    "192.168.8",
		"TooManyOctets":   "192.168.8.1.1",
		"EmptyOctet":      "192..8.1",
		"Negative":        "192.168.-1.1",
		"NotANumber":      "192.168.eight.1",
		"Empty":           "",
	}
	for name, input := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := ParseIPv4Address(input)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid IPv4 address")
		})
	}
}

func TestIPv4Address_Mask(t *testing.T) {
	t.Run("Contiguous", func(t *testing.T) {
		mask := NewIPv4Address(255, 255, 0, 0)
		assert.True(t, mask.IsContiguousMask())
		assert.Equal(t, 16, mask.PrefixLength())
		assert.Equal(t, "ffff0000", mask.Mask().String())
	})

	t.Run("HostMask", func(t *testing.T) {
		mask := NewIPv4Address(255, 255, 255, 255)
		assert.True(t, mask.IsContiguousMask())
		assert.Equal(t, 32, mask.PrefixLength())
	})

	t.Run("NonContiguous", func(t *testing.T) {
		mask := NewIPv4Address(255, 0, 255, 0)
		assert.False(t, mask.IsContiguousMask())
		assert.Equal(t, -1, mask.PrefixLength())
	})
}

func TestIPv4Address_Subnet(t *testing.T) {
	ip := NewIPv4Address(192, 168, 8, 205)
	mask := NewIPv4Address(255, 255, 0, 0)

	assert.Equal(t, NewIPv4Address(192, 168, 0, 0), ip.Network(mask))
	assert.Equal(t, NewIPv4Address(192, 168, 255, 255), ip.Broadcast(mask))
	assert.True(t, ip.SameSubnet(NewIPv4Address(192, 168, 8, 1), mask))
	assert.False(t, ip.SameSubnet(NewIPv4Address(192, 169, 8, 1), mask))
	assert.Equal(t, "192.168.8.205", ip.IP().String())
}

func TestIPv4Address_YAML(t *testing.T) {
	type doc struct {
		IP IPv4Address `yaml:"ip"`
	}

	t.Run("DottedString", func(t *testing.T) {
		var d doc
		require.NoError(t, yaml.Unmarshal([]byte("ip: 192.168.8.1\n"), &d))
		assert.Equal(t, NewIPv4Address(192, 168, 8, 1), d.IP)
	})

	t.Run("OctetList", func(t *testing.T) {
		var d doc
		require.NoError(t, yaml.Unmarshal([]byte("ip: [255, 255, 0, 0]\n"), &d))
		assert.Equal(t, NewIPv4Address(255, 255, 0, 0), d.IP)
	})

	t.Run("OctetListOutOfRange", func(t *testing.T) {
		var d doc
		err := yaml.Unmarshal([]byte("ip: [192, 168, 300, 1]\n"), &d)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "out of range")
	})

	t.Run("OctetListWrongLength", func(t *testing.T) {
		var d doc
		err := yaml.Unmarshal([]byte("ip: [192, 168, 1]\n"), &d)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "needs 4 octets")
	})

	t.Run("Marshal", func(t *testing.T) {
		out, err := yaml.Marshal(doc{IP: NewIPv4Address(10, 0, 0, 1)})
		require.NoError(t, err)
		assert.Equal(t, "ip: 10.0.0.1\n", string(out))
	})
}
