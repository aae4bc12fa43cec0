package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostnet-agent/internal/domain/entities"
)

func TestDeviceChain_Names(t *testing.T) {
	nic := entities.BaseDevice{Kind: entities.BaseKindNIC, Name: "eth0"}

	tests := []struct {
		name     string
		topology entities.Topology
		names    []string
		port     string
		top      string
	}{
		{
			name:     "NIC만",
			topology: entities.Topology{Base: nic},
			names:    []string{"eth0"},
			port:     "eth0",
			top:      "eth0",
		},
		{
			name:     "NIC 위 VLAN",
			topology: entities.Topology{Base: nic, VLAN: 101},
			names:    []string{"eth0", "eth0.101"},
			port:     "eth0.101",
			top:      "eth0.101",
		},
		{
			name:     "NIC 위 브리지",
			topology: entities.Topology{Base: nic, Bridged: true},
			names:    []string{"eth0", "net1"},
			port:     "eth0",
			top:      "net1",
		},
		{
			name:     "VLAN 위 브리지",
			topology: entities.Topology{Base: nic, VLAN: 101, Bridged: true},
			names:    []string{"eth0", "eth0.101", "net1"},
			port:     "eth0.101",
			top:      "net1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := NewDeviceChain("net1", tt.topology)
			assert.Equal(t, tt.names, chain.Names())
			assert.Equal(t, tt.port, chain.PortName())
			assert.Equal(t, tt.top, chain.Top())
		})
	}
}

func TestTopologyResolver_Resolve(t *testing.T) {
	running := entities.NewRunningSnapshot(map[string]entities.NetworkAttributes{
		"net1": {Bonding: "bond0", VLAN: 200, Bridged: true, IPAddr: "192.0.2.1", Prefix: 24},
		"bad":  {},
	}, nil)
	resolver := NewTopologyResolver(running)

	t.Run("생성 요청은 요청의 토폴로지 사용", func(t *testing.T) {
		req := entities.NetworkRequest{
			Name:     "net2",
			Topology: entities.Topology{Base: entities.BaseDevice{Name: "eth0"}},
		}
		chain, found, err := resolver.Resolve(req)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []string{"eth0"}, chain.Names())
	})

	t.Run("삭제 요청은 running configuration에서 복원", func(t *testing.T) {
		chain, found, err := resolver.Resolve(entities.NetworkRequest{Name: "net1", Remove: true})
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []string{"bond0", "bond0.200", "net1"}, chain.Names())
	})

	t.Run("running configuration에 없는 삭제 요청", func(t *testing.T) {
		_, found, err := resolver.Resolve(entities.NetworkRequest{Name: "ghost", Remove: true})
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("손상된 running 항목", func(t *testing.T) {
		_, _, err := resolver.Resolve(entities.NetworkRequest{Name: "bad", Remove: true})
		assert.Error(t, err)
	})
}

func TestVLANInterfaceName(t *testing.T) {
	assert.Equal(t, "eth0.101", VLANInterfaceName("eth0", 101))
	assert.Equal(t, "bond0.4094", VLANInterfaceName("bond0", 4094))
	assert.Equal(t, "net1", BridgeInterfaceName("net1"))
}
