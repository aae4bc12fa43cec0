package services

import (
	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/nmstate"
)

// ifaceState는 집계 전 인터페이스 상태와 병합 우선순위 정보입니다
type ifaceState struct {
	nmstate.Interface
	// kind는 장치 종류입니다. 이더넷은 type 필드를 출력하지 않으므로 따로 보관합니다.
	kind string
	// implicitIP는 IP 페이로드가 체인 하위 장치의 기본값(비활성화)임을 뜻하며
	// 네트워크가 명시적으로 지정한 IP 페이로드에 양보합니다
	implicitIP bool
	// removal은 삭제 요청에서 파생된 상태임을 뜻합니다
	removal bool
}

// baseDeviceState는 네트워크의 기반 장치(NIC 또는 본드) 상태입니다.
// 이더넷 장치는 물리 장치이므로 absent로 표시하지 않습니다.
func baseDeviceState(base entities.BaseDevice) ifaceState {
	return ifaceState{
		Interface: nmstate.Interface{
			Name:  base.Name,
			State: nmstate.InterfaceStateUp,
		},
		kind: baseKind(base.Kind),
	}
}

func baseKind(kind entities.BaseKind) string {
	if kind == entities.BaseKindBonding {
		return nmstate.InterfaceTypeBond
	}
	return nmstate.InterfaceTypeEthernet
}

// bondState는 본드 요청의 상태입니다. 새 본드는 IP가 비활성화된 상태로 생성됩니다.
func bondState(req entities.BondRequest, isNew bool) ifaceState {
	state := ifaceState{kind: nmstate.InterfaceTypeBond, Interface: nmstate.Interface{
		Name:  req.Name,
		Type:  nmstate.InterfaceTypeBond,
		State: nmstate.InterfaceStateUp,
		LinkAggregation: &nmstate.BondConfig{
			Mode:    req.Mode,
			Slaves:  req.Slaves,
			Options: req.OptionsMap(),
		},
	}}
	if isNew {
		state.setDisabledIP()
	}
	return state
}

// bondAbsentState는 본드 삭제 상태입니다
func bondAbsentState(name string) ifaceState {
	return ifaceState{kind: nmstate.InterfaceTypeBond, Interface: nmstate.Interface{
		Name:  name,
		Type:  nmstate.InterfaceTypeBond,
		State: nmstate.InterfaceStateAbsent,
	}}
}

func vlanState(base string, id int) ifaceState {
	return ifaceState{kind: nmstate.InterfaceTypeVlan, Interface: nmstate.Interface{
		Name:  VLANInterfaceName(base, id),
		Type:  nmstate.InterfaceTypeVlan,
		State: nmstate.InterfaceStateUp,
		VLAN: &nmstate.VlanConfig{
			ID:        id,
			BaseIface: base,
		},
	}}
}

// bridgeState는 linux-bridge 상태입니다. STP는 정책상 항상 비활성화합니다.
func bridgeState(name, port string) ifaceState {
	return ifaceState{kind: nmstate.InterfaceTypeLinuxBridge, Interface: nmstate.Interface{
		Name:  name,
		Type:  nmstate.InterfaceTypeLinuxBridge,
		State: nmstate.InterfaceStateUp,
		Bridge: &nmstate.BridgeConfig{
			Options: &nmstate.BridgeOptions{STP: nmstate.STPOptions{Enabled: false}},
			Port:    []nmstate.BridgePort{{Name: port}},
		},
	}}
}

// removedDeviceState는 이름만 가진 absent 상태입니다 (VLAN, 브리지 삭제)
func removedDeviceState(name, kind string) ifaceState {
	return ifaceState{
		Interface: nmstate.Interface{
			Name:  name,
			State: nmstate.InterfaceStateAbsent,
		},
		kind:    kind,
		removal: true,
	}
}

// resetBaseState는 삭제된 네트워크의 기반 장치를 유지한 채 IP만 비활성화합니다
func resetBaseState(base entities.BaseDevice) ifaceState {
	state := baseDeviceState(base)
	state.setDisabledIP()
	state.removal = true
	return state
}

func (s *ifaceState) setDisabledIP() {
	s.IPv4 = disabledIP()
	s.IPv6 = disabledIP()
	s.implicitIP = true
}

func (s *ifaceState) setIP(ipv4, ipv6 *nmstate.IPConfig) {
	s.IPv4 = ipv4
	s.IPv6 = ipv6
	s.implicitIP = false
}

// networkStates는 생성/수정 요청의 체인에 대한 상태를 만듭니다.
// 최상위 장치만 네트워크의 IP 설정을 받고 나머지는 기본값으로 IP가 비활성화됩니다.
func networkStates(chain DeviceChain, req entities.NetworkRequest) []ifaceState {
	states := []ifaceState{baseDeviceState(chain.Base)}
	if chain.HasVLAN() {
		states = append(states, vlanState(chain.BaseName(), chain.VLAN))
	}
	if chain.Bridged {
		states = append(states, bridgeState(chain.BridgeName(), chain.PortName()))
	}

	top := chain.Top()
	for i := range states {
		if states[i].Name == top {
			states[i].setIP(ipv4State(req.IPv4), ipv6State(req.IPv6))
		} else {
			states[i].setDisabledIP()
		}
	}
	return states
}

// removalStates는 삭제 요청의 체인에 대한 상태를 만듭니다.
// VLAN이 있으면 기반 장치는 건드리지 않고, 없으면 기반 장치의 IP만 초기화합니다.
func removalStates(chain DeviceChain) []ifaceState {
	var states []ifaceState
	if chain.HasVLAN() {
		states = append(states, removedDeviceState(chain.VLANName(), nmstate.InterfaceTypeVlan))
	} else {
		states = append(states, resetBaseState(chain.Base))
	}
	if chain.Bridged {
		states = append(states, removedDeviceState(chain.BridgeName(), nmstate.InterfaceTypeLinuxBridge))
	}
	return states
}
