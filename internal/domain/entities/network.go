package entities

import (
	"fmt"
	"net/netip"
)

// BaseKind는 네트워크의 기반 장치 종류를 나타냅니다
type BaseKind int

const (
	BaseKindNIC BaseKind = iota
	BaseKindBonding
)

// String은 레거시 속성 키 이름을 반환합니다
func (k BaseKind) String() string {
	switch k {
	case BaseKindNIC:
		return "nic"
	case BaseKindBonding:
		return "bonding"
	}
	return fmt.Sprintf("BaseKind(%d)", int(k))
}

// BaseDevice는 네트워크가 올라가는 물리 NIC 또는 본드입니다
type BaseDevice struct {
	Kind BaseKind
	Name string
}

// Topology는 논리 네트워크의 장치 구성(base, vlan, bridge)입니다
type Topology struct {
	Base    BaseDevice
	VLAN    int
	Bridged bool
}

// HasVLAN은 VLAN 장치가 체인에 포함되는지 확인합니다
func (t Topology) HasVLAN() bool {
	return t.VLAN > 0
}

// IPMode는 주소 패밀리별 IP 설정 방식입니다
type IPMode int

const (
	IPModeDisabled IPMode = iota
	IPModeStatic
	IPModeDynamic
)

// String은 IP 모드의 문자열 표현을 반환합니다
func (m IPMode) String() string {
	switch m {
	case IPModeDisabled:
		return "disabled"
	case IPModeStatic:
		return "static"
	case IPModeDynamic:
		return "dynamic"
	}
	return fmt.Sprintf("IPMode(%d)", int(m))
}

// IPv4Config는 IPv4 설정입니다. Address는 static 모드에서만 유효합니다.
type IPv4Config struct {
	Mode    IPMode
	Address netip.Prefix
}

// IPv6Config는 IPv6 설정입니다. DHCP/Autoconf는 dynamic 모드에서 독립적으로 켜집니다.
type IPv6Config struct {
	Mode     IPMode
	Address  netip.Prefix
	DHCP     bool
	Autoconf bool
}

// NetworkRequest는 생성/수정 또는 삭제할 논리 네트워크 하나입니다.
// 삭제 요청은 Name과 Remove만 의미가 있으며 토폴로지는 running configuration에서 복원됩니다.
type NetworkRequest struct {
	Name   string
	Remove bool
	Topology
	IPv4         IPv4Config
	IPv6         IPv6Config
	DefaultRoute bool
	Gateway      netip.Addr
}

// HasGateway는 유효한 게이트웨이가 지정되었는지 확인합니다
func (r NetworkRequest) HasGateway() bool {
	return r.Gateway.IsValid()
}
