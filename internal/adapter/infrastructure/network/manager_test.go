//go:build unit

package network

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vishvananda/netlink"
)

func TestManagerAdapter_GetLinkByName(t *testing.T) {
	adapter := NewManagerAdapter()

	t.Run("Loopback", func(t *testing.T) {
		link, err := adapter.GetLinkByName("lo")
		if err != nil {
			t.Skip("Loopback interface not available, skipping test")
		}
		assert.Equal(t, "lo", link.Attrs().Name)
	})

	t.Run("InvalidInterface", func(t *testing.T) {
		_, err := adapter.GetLinkByName("nonexistent")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get netlink interface nonexistent")
	})
}

func TestManagerAdapter_ListAddresses(t *testing.T) {
	adapter := NewManagerAdapter()

	link, err := adapter.GetLinkByName("lo")
	if err != nil {
		t.Skip("Loopback interface not available, skipping test")
	}

	addresses, err := adapter.ListAddresses(link)
	assert.NoError(t, err)
	for _, addr := range addresses {
		assert.NotNil(t, addr.IPNet.IP.To4())
	}
}

func TestManagerAdapter_SetLinkUp_AlreadyUp(t *testing.T) {
	adapter := NewManagerAdapter()

	// An admin-up link never reaches netlink, so no privileges are needed.
	link := &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: "ledbox-test0", Flags: net.FlagUp}}
	assert.NoError(t, adapter.SetLinkUp(link))
}

func TestLinkName(t *testing.T) {
	assert.Equal(t, "<nil>", linkName(nil))
	assert.Equal(t, "wlan0", linkName(&netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: "wlan0"}}))
}
