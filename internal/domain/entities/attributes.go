package entities

// SwitchLegacy는 지원되는 유일한 스위치 타입입니다
const SwitchLegacy = "legacy"

// NetworkAttributes는 레거시 네트워크 설정 모델의 원본 속성입니다.
// 요청 입력과 running configuration 스냅샷이 같은 형태를 사용합니다.
type NetworkAttributes struct {
	Nic          string `yaml:"nic,omitempty" json:"nic,omitempty"`
	Bonding      string `yaml:"bonding,omitempty" json:"bonding,omitempty"`
	VLAN         int    `yaml:"vlan,omitempty" json:"vlan,omitempty"`
	Bridged      bool   `yaml:"bridged,omitempty" json:"bridged,omitempty"`
	Switch       string `yaml:"switch,omitempty" json:"switch,omitempty"`
	IPAddr       string `yaml:"ipaddr,omitempty" json:"ipaddr,omitempty"`
	Netmask      string `yaml:"netmask,omitempty" json:"netmask,omitempty"`
	Prefix       int    `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	IPv6Addr     string `yaml:"ipv6addr,omitempty" json:"ipv6addr,omitempty"`
	BootProto    string `yaml:"bootproto,omitempty" json:"bootproto,omitempty"`
	DHCPv6       bool   `yaml:"dhcpv6,omitempty" json:"dhcpv6,omitempty"`
	IPv6Autoconf bool   `yaml:"ipv6autoconf,omitempty" json:"ipv6autoconf,omitempty"`
	DefaultRoute bool   `yaml:"defaultRoute,omitempty" json:"defaultRoute,omitempty"`
	Gateway      string `yaml:"gateway,omitempty" json:"gateway,omitempty"`
	Remove       bool   `yaml:"remove,omitempty" json:"remove,omitempty"`
}

// BondAttributes는 레거시 본딩 설정 모델의 원본 속성입니다
type BondAttributes struct {
	Nics    []string `yaml:"nics,omitempty" json:"nics,omitempty"`
	Options string   `yaml:"options,omitempty" json:"options,omitempty"`
	Switch  string   `yaml:"switch,omitempty" json:"switch,omitempty"`
	Remove  bool     `yaml:"remove,omitempty" json:"remove,omitempty"`
}
