package services

import (
	"fmt"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
)

// DeviceChain은 논리 네트워크 하나가 사용하는 장치 체인입니다 (base → vlan → bridge)
type DeviceChain struct {
	Network string
	entities.Topology
}

// NewDeviceChain은 네트워크 이름과 토폴로지로 장치 체인을 생성합니다
func NewDeviceChain(network string, topology entities.Topology) DeviceChain {
	return DeviceChain{Network: network, Topology: topology}
}

// BaseName은 기반 장치 이름입니다
func (c DeviceChain) BaseName() string {
	return c.Base.Name
}

// VLANName은 VLAN 장치 이름입니다. VLAN이 없으면 빈 문자열입니다.
func (c DeviceChain) VLANName() string {
	if !c.HasVLAN() {
		return ""
	}
	return VLANInterfaceName(c.Base.Name, c.VLAN)
}

// BridgeName은 브리지 장치 이름입니다. 브리지가 없으면 빈 문자열입니다.
func (c DeviceChain) BridgeName() string {
	if !c.Bridged {
		return ""
	}
	return BridgeInterfaceName(c.Network)
}

// PortName은 브리지에 연결되는 장치, 즉 브리지 아래 최상위 장치의 이름입니다
func (c DeviceChain) PortName() string {
	if c.HasVLAN() {
		return c.VLANName()
	}
	return c.BaseName()
}

// Top은 네트워크의 IP 설정을 받는 최상위 장치 이름입니다 (bridge > vlan > base)
func (c DeviceChain) Top() string {
	if c.Bridged {
		return c.BridgeName()
	}
	return c.PortName()
}

// Names는 체인의 모든 장치 이름을 아래에서 위 순서로 반환합니다
func (c DeviceChain) Names() []string {
	names := []string{c.BaseName()}
	if c.HasVLAN() {
		names = append(names, c.VLANName())
	}
	if c.Bridged {
		names = append(names, c.BridgeName())
	}
	return names
}

// validate는 체인 안의 장치 이름이 서로 겹치지 않는지 확인합니다.
// 브리지가 자기 하위 장치와 같은 이름을 가지면 그 장치를 포트로 삼을 수 없습니다.
func (c DeviceChain) validate() error {
	if !c.Bridged {
		return nil
	}
	for _, lower := range []string{c.BaseName(), c.VLANName()} {
		if lower != "" && lower == c.BridgeName() {
			return errors.NewConflictError(lower, fmt.Sprintf("네트워크 %s의 브리지 이름이 하위 장치 이름과 같습니다", c.Network))
		}
	}
	return nil
}

// TopologyResolver는 네트워크 요청의 장치 체인을 결정합니다.
// 삭제 요청은 running configuration을 조회해 체인을 복원합니다.
type TopologyResolver struct {
	running map[string]entities.NetworkAttributes
}

// NewTopologyResolver는 새로운 TopologyResolver를 생성합니다
func NewTopologyResolver(running interfaces.RunningConfig) *TopologyResolver {
	r := &TopologyResolver{running: map[string]entities.NetworkAttributes{}}
	if running != nil {
		r.running = running.Networks()
	}
	return r
}

// Resolve는 요청의 장치 체인을 반환합니다. 삭제 대상이 running configuration에
// 없으면 found=false를 반환하며 이는 에러가 아닙니다.
func (r *TopologyResolver) Resolve(req entities.NetworkRequest) (DeviceChain, bool, error) {
	if !req.Remove {
		chain := NewDeviceChain(req.Name, req.Topology)
		if err := chain.validate(); err != nil {
			return DeviceChain{}, false, err
		}
		return chain, true, nil
	}

	attrs, ok := r.running[req.Name]
	if !ok {
		return DeviceChain{}, false, nil
	}

	topology, err := NormalizeTopology(req.Name, attrs)
	if err != nil {
		return DeviceChain{}, false, err
	}
	return NewDeviceChain(req.Name, topology), true, nil
}

// RunningAttributes는 삭제 대상 네트워크의 적용된 속성을 반환합니다
func (r *TopologyResolver) RunningAttributes(network string) (entities.NetworkAttributes, bool) {
	attrs, ok := r.running[network]
	return attrs, ok
}
