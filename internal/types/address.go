// Package types defines common types used across the application.
package types

import (
	"fmt"
	"math/bits"
	"net"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// IPv4Address is a 4-octet network address, used for host addresses,
// gateways and subnet masks alike.
type IPv4Address [4]byte

// NewIPv4Address builds an address from its four octets.
func NewIPv4Address(a, b, c, d byte) IPv4Address {
	return IPv4Address{a, b, c, d}
}

// ParseIPv4Address parses dotted decimal notation (e.g. "192.168.8.205").
// Exactly four octets in [0,255] are accepted.
func ParseIPv4Address(s string) (IPv4Address, error) {
	var addr IPv4Address

	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 4 {
		return addr, fmt.Errorf("invalid IPv4 address %q: expected 4 octets, got %d", s, len(parts))
	}

	for i, part := range parts {
		octet, err := parseOctet(part)
		if err != nil {
			return IPv4Address{}, fmt.Errorf("invalid IPv4 address %q: octet %d: %w", s, i+1, err)
		}
		addr[i] = octet
	}

	return addr, nil
}

func parseOctet(s string) (byte, error) {
	if s == "" {
		return 0, fmt.Errorf("empty octet")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%q is not a decimal number", s)
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v > 255 {
		return 0, fmt.Errorf("%q is out of range 0-255", s)
	}
	return byte(v), nil
}

// MustParseIPv4Address is like ParseIPv4Address but panics on error.
func MustParseIPv4Address(s string) IPv4Address {
	addr, err := ParseIPv4Address(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// Octets returns the four octets as integers.
func (a IPv4Address) Octets() [4]int {
	return [4]int{int(a[0]), int(a[1]), int(a[2]), int(a[3])}
}

// IsZero reports whether the address is 0.0.0.0.
func (a IPv4Address) IsZero() bool {
	return a == IPv4Address{}
}

func (a IPv4Address) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}

// IP returns the address as a 4-byte net.IP.
func (a IPv4Address) IP() net.IP {
	return net.IPv4(a[0], a[1], a[2], a[3]).To4()
}

// Mask interprets the address as a subnet mask.
func (a IPv4Address) Mask() net.IPMask {
	return net.IPv4Mask(a[0], a[1], a[2], a[3])
}

func (a IPv4Address) uint32() uint32 {
	return uint32(a[0])<<24 | uint32(a[1])<<16 | uint32(a[2])<<8 | uint32(a[3])
}

func fromUint32(v uint32) IPv4Address {
	return IPv4Address{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// IsContiguousMask reports whether the address is a valid subnet mask:
// leading ones followed only by zeros.
func (a IPv4Address) IsContiguousMask() bool {
	v := a.uint32()
	return bits.OnesCount32(v) == bits.LeadingZeros32(^v)
}

// PrefixLength returns the CIDR prefix length of a contiguous mask, or -1.
func (a IPv4Address) PrefixLength() int {
	if !a.IsContiguousMask() {
		return -1
	}
	return bits.OnesCount32(a.uint32())
}

// Network returns the network address of a under mask.
func (a IPv4Address) Network(mask IPv4Address) IPv4Address {
	return fromUint32(a.uint32() & mask.uint32())
}

// Broadcast returns the broadcast address of a under mask.
func (a IPv4Address) Broadcast(mask IPv4Address) IPv4Address {
	return fromUint32(a.uint32() | ^mask.uint32())
}

// SameSubnet reports whether a and b share a network under mask.
func (a IPv4Address) SameSubnet(b, mask IPv4Address) bool {
	return a.Network(mask) == b.Network(mask)
}

// MarshalYAML encodes the address in dotted decimal notation.
func (a IPv4Address) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

// UnmarshalYAML accepts either "192.168.8.205" or [192, 168, 8, 205].
func (a *IPv4Address) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		addr, err := ParseIPv4Address(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*a = addr
		return nil
	case yaml.SequenceNode:
		if len(node.Content) != 4 {
			return fmt.Errorf("line %d: IPv4 address needs 4 octets, got %d", node.Line, len(node.Content))
		}
		var addr IPv4Address
		for i, item := range node.Content {
			octet, err := parseOctet(item.Value)
			if err != nil {
				return fmt.Errorf("line %d: octet %d: %w", node.Line, i+1, err)
			}
			addr[i] = octet
		}
		*a = addr
		return nil
	default:
		return fmt.Errorf("line %d: IPv4 address must be a string or a list of 4 octets", node.Line)
	}
}
