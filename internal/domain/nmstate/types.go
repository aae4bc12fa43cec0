// Package nmstate는 상태 조정 도구(nmstate)가 소비하는 선언적 인터페이스 상태 스키마입니다.
// 필드 이름은 다운스트림 호환성을 위해 고정되어 있습니다.
package nmstate

const (
	InterfaceTypeBond        = "bond"
	InterfaceTypeLinuxBridge = "linux-bridge"
	InterfaceTypeVlan        = "vlan"
	InterfaceTypeEthernet    = "ethernet"

	InterfaceStateUp     = "up"
	InterfaceStateAbsent = "absent"

	RouteStateAbsent = "absent"

	// DefaultRouteDestination은 IPv4 기본 라우트의 목적지입니다
	DefaultRouteDestination = "0.0.0.0/0"
	// UseDefaultRouteTable은 시스템 기본 라우팅 테이블을 뜻하는 table-id 값입니다
	UseDefaultRouteTable = 0
)

// State는 적용기에 전달되는 최종 디스크립터입니다
type State struct {
	Interfaces []Interface `json:"interfaces" yaml:"interfaces"`
	Routes     *Routes     `json:"routes,omitempty" yaml:"routes,omitempty"`
}

// Routes는 라우트 설정 목록입니다
type Routes struct {
	Config []RouteEntry `json:"config" yaml:"config"`
}

// RouteEntry는 단일 라우트 항목입니다
type RouteEntry struct {
	Destination      string `json:"destination" yaml:"destination"`
	NextHopAddress   string `json:"next-hop-address" yaml:"next-hop-address"`
	NextHopInterface string `json:"next-hop-interface" yaml:"next-hop-interface"`
	TableID          int    `json:"table-id" yaml:"table-id"`
	State            string `json:"state,omitempty" yaml:"state,omitempty"`
}

// Interface는 네트워크 장치 하나의 원하는 상태입니다
type Interface struct {
	Name            string        `json:"name" yaml:"name"`
	Type            string        `json:"type,omitempty" yaml:"type,omitempty"`
	State           string        `json:"state,omitempty" yaml:"state,omitempty"`
	LinkAggregation *BondConfig   `json:"link-aggregation,omitempty" yaml:"link-aggregation,omitempty"`
	Bridge          *BridgeConfig `json:"bridge,omitempty" yaml:"bridge,omitempty"`
	VLAN            *VlanConfig   `json:"vlan,omitempty" yaml:"vlan,omitempty"`
	IPv4            *IPConfig     `json:"ipv4,omitempty" yaml:"ipv4,omitempty"`
	IPv6            *IPConfig     `json:"ipv6,omitempty" yaml:"ipv6,omitempty"`
}

// BondConfig는 link-aggregation 설정입니다
type BondConfig struct {
	Mode    string            `json:"mode" yaml:"mode"`
	Slaves  []string          `json:"slaves" yaml:"slaves"`
	Options map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

// BridgeConfig는 linux-bridge 설정입니다
type BridgeConfig struct {
	Options *BridgeOptions `json:"options,omitempty" yaml:"options,omitempty"`
	Port    []BridgePort   `json:"port" yaml:"port"`
}

// BridgeOptions는 브리지 옵션입니다
type BridgeOptions struct {
	STP STPOptions `json:"stp" yaml:"stp"`
}

// STPOptions는 STP 설정입니다
type STPOptions struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// BridgePort는 브리지 포트입니다
type BridgePort struct {
	Name string `json:"name" yaml:"name"`
}

// VlanConfig는 VLAN 설정입니다
type VlanConfig struct {
	ID        int    `json:"id" yaml:"id"`
	BaseIface string `json:"base-iface" yaml:"base-iface"`
}

// IPConfig는 주소 패밀리 하나의 IP 설정입니다
type IPConfig struct {
	Enabled  bool        `json:"enabled" yaml:"enabled"`
	Address  []IPAddress `json:"address,omitempty" yaml:"address,omitempty"`
	DHCP     *bool       `json:"dhcp,omitempty" yaml:"dhcp,omitempty"`
	Autoconf *bool       `json:"autoconf,omitempty" yaml:"autoconf,omitempty"`
}

// IPAddress는 정적 주소 하나입니다
type IPAddress struct {
	IP           string `json:"ip" yaml:"ip"`
	PrefixLength int    `json:"prefix-length" yaml:"prefix-length"`
}

// NewEmptyState는 인터페이스가 없는 디스크립터를 생성합니다
func NewEmptyState() *State {
	return &State{Interfaces: []Interface{}}
}
