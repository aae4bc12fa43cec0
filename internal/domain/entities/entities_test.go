package entities

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunningSnapshot_CopiesInput(t *testing.T) {
	networks := map[string]NetworkAttributes{
		"net1": {Nic: "eth0", Bridged: true},
	}
	bonds := map[string]BondAttributes{
		"bond0": {Nics: []string{"eth1", "eth2"}},
	}

	snapshot := NewRunningSnapshot(networks, bonds)

	networks["net2"] = NetworkAttributes{Nic: "eth3"}
	bonds["bond0"].Nics[0] = "eth9"
	delete(bonds, "bond0")

	_, ok := snapshot.Network("net2")
	assert.False(t, ok, "스냅샷 생성 후 입력 맵 변경이 반영되면 안됩니다")
	assert.True(t, snapshot.HasBond("bond0"))
	assert.Equal(t, []string{"eth1", "eth2"}, snapshot.Bonds()["bond0"].Nics)
}

func TestRunningSnapshot_AccessorsReturnCopies(t *testing.T) {
	snapshot := NewRunningSnapshot(
		map[string]NetworkAttributes{"net1": {Nic: "eth0"}},
		map[string]BondAttributes{"bond0": {Nics: []string{"eth1"}}},
	)

	nets := snapshot.Networks()
	nets["net1"] = NetworkAttributes{Nic: "eth7"}
	delete(snapshot.Bonds(), "bond0")

	attrs, ok := snapshot.Network("net1")
	require.True(t, ok)
	assert.Equal(t, "eth0", attrs.Nic)
	assert.True(t, snapshot.HasBond("bond0"))
}

func TestRunningSnapshot_EmptyAndNil(t *testing.T) {
	tests := []struct {
		name     string
		snapshot *RunningSnapshot
	}{
		{name: "빈 스냅샷", snapshot: EmptyRunningSnapshot()},
		{name: "nil 스냅샷", snapshot: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.snapshot.Networks())
			assert.Empty(t, tt.snapshot.Networks())
			assert.NotNil(t, tt.snapshot.Bonds())
			assert.Empty(t, tt.snapshot.Bonds())
			assert.False(t, tt.snapshot.HasBond("bond0"))
			_, ok := tt.snapshot.Network("net1")
			assert.False(t, ok)
		})
	}
}

func TestBondRequest_Options(t *testing.T) {
	options := NewBondOptions()
	options.Set("miimon", "150")
	options.Set("updelay", "200")
	options.Set("downdelay", "100")

	req := BondRequest{Name: "bond0", Options: options}

	assert.Equal(t, []string{"miimon", "updelay", "downdelay"}, req.OptionKeys())
	assert.Equal(t, map[string]string{"miimon": "150", "updelay": "200", "downdelay": "100"}, req.OptionsMap())

	assert.Nil(t, BondRequest{Name: "bond0"}.OptionsMap())
	assert.Nil(t, BondRequest{Name: "bond0", Options: NewBondOptions()}.OptionsMap())
	assert.Nil(t, BondRequest{Name: "bond0"}.OptionKeys())
}

func TestNetworkRequest_Helpers(t *testing.T) {
	req := NetworkRequest{Name: "net1"}
	assert.False(t, req.HasGateway())
	assert.False(t, req.HasVLAN())

	req.Gateway = netip.MustParseAddr("192.0.2.254")
	req.VLAN = 101
	assert.True(t, req.HasGateway())
	assert.True(t, req.HasVLAN())

	assert.Equal(t, "nic", BaseKindNIC.String())
	assert.Equal(t, "bonding", BaseKindBonding.String())
	assert.Equal(t, "static", IPModeStatic.String())
	assert.Equal(t, "dynamic", IPModeDynamic.String())
	assert.Equal(t, "disabled", IPModeDisabled.String())
}

func TestRunningSnapshot_Apply(t *testing.T) {
	original := NewRunningSnapshot(
		map[string]NetworkAttributes{
			"keep":    {Nic: "eth0"},
			"replace": {Nic: "eth1"},
			"drop":    {Nic: "eth2"},
		},
		map[string]BondAttributes{
			"bond0": {Nics: []string{"eth3", "eth4"}},
			"bond1": {Nics: []string{"eth5"}},
		},
	)

	next := original.Apply(
		map[string]NetworkAttributes{
			"replace": {Nic: "eth1", VLAN: 10},
			"drop":    {Remove: true},
			"new":     {Bonding: "bond2"},
			"ghost":   {Remove: true},
		},
		map[string]BondAttributes{
			"bond1": {Remove: true},
			"bond2": {Nics: []string{"eth6", "eth7"}},
		},
	)

	assert.Equal(t, map[string]NetworkAttributes{
		"keep":    {Nic: "eth0"},
		"replace": {Nic: "eth1", VLAN: 10},
		"new":     {Bonding: "bond2"},
	}, next.Networks())
	assert.True(t, next.HasBond("bond0"))
	assert.False(t, next.HasBond("bond1"))
	assert.True(t, next.HasBond("bond2"))

	// 원래 스냅샷은 그대로
	assert.Len(t, original.Networks(), 3)
	assert.True(t, original.HasBond("bond1"))
	attrs, _ := original.Network("replace")
	assert.Zero(t, attrs.VLAN)
}
