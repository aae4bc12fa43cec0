package services

import (
	"fmt"
	"net"
	"net/netip"
	"strings"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
)

const (
	bootProtoDHCP = "dhcp"
	maxVLANID     = 4094
)

// NormalizeNetwork는 원본 네트워크 속성을 NetworkRequest로 변환합니다.
// 삭제 요청은 토폴로지 없이 반환됩니다.
func NormalizeNetwork(name string, attrs entities.NetworkAttributes) (entities.NetworkRequest, error) {
	if attrs.Remove {
		return entities.NetworkRequest{Name: name, Remove: true}, nil
	}

	topology, err := NormalizeTopology(name, attrs)
	if err != nil {
		return entities.NetworkRequest{}, err
	}

	ipv4, err := normalizeIPv4(name, attrs)
	if err != nil {
		return entities.NetworkRequest{}, err
	}

	ipv6, err := normalizeIPv6(name, attrs)
	if err != nil {
		return entities.NetworkRequest{}, err
	}

	req := entities.NetworkRequest{
		Name:         name,
		Topology:     topology,
		IPv4:         ipv4,
		IPv6:         ipv6,
		DefaultRoute: attrs.DefaultRoute,
	}

	if attrs.Gateway != "" {
		gw, err := netip.ParseAddr(attrs.Gateway)
		if err != nil || !gw.Is4() {
			return entities.NetworkRequest{}, errors.NewInvalidIPConfigError(name, "잘못된 IPv4 게이트웨이: "+attrs.Gateway, err)
		}
		req.Gateway = gw
	}

	return req, nil
}

// NormalizeTopology는 속성에서 base/vlan/bridge 토폴로지만 추출합니다.
// running configuration에서 삭제 대상을 복원할 때도 사용됩니다.
func NormalizeTopology(name string, attrs entities.NetworkAttributes) (entities.Topology, error) {
	if err := validateSwitch(name, attrs.Switch); err != nil {
		return entities.Topology{}, err
	}

	var base entities.BaseDevice
	switch {
	case attrs.Nic != "" && attrs.Bonding != "":
		return entities.Topology{}, errors.NewValidationError(
			fmt.Sprintf("네트워크 %s: nic과 bonding을 동시에 지정할 수 없습니다", name), nil)
	case attrs.Nic != "":
		base = entities.BaseDevice{Kind: entities.BaseKindNIC, Name: attrs.Nic}
	case attrs.Bonding != "":
		base = entities.BaseDevice{Kind: entities.BaseKindBonding, Name: attrs.Bonding}
	default:
		return entities.Topology{}, errors.NewValidationError(
			fmt.Sprintf("네트워크 %s: 기반 장치(nic 또는 bonding)가 없습니다", name), nil)
	}

	if attrs.VLAN < 0 || attrs.VLAN > maxVLANID {
		return entities.Topology{}, errors.NewValidationError(
			fmt.Sprintf("네트워크 %s: 잘못된 VLAN ID %d", name, attrs.VLAN), nil)
	}

	return entities.Topology{
		Base:    base,
		VLAN:    attrs.VLAN,
		Bridged: attrs.Bridged,
	}, nil
}

func normalizeIPv4(network string, attrs entities.NetworkAttributes) (entities.IPv4Config, error) {
	dynamic := strings.EqualFold(attrs.BootProto, bootProtoDHCP)
	static := attrs.IPAddr != "" || attrs.Netmask != "" || attrs.Prefix != 0

	switch {
	case dynamic && static:
		return entities.IPv4Config{}, errors.NewInvalidIPConfigError(network, "IPv4에 dhcp와 정적 주소를 동시에 지정할 수 없습니다", nil)
	case dynamic:
		return entities.IPv4Config{Mode: entities.IPModeDynamic}, nil
	case !static:
		return entities.IPv4Config{Mode: entities.IPModeDisabled}, nil
	}

	if attrs.IPAddr == "" {
		return entities.IPv4Config{}, errors.NewInvalidIPConfigError(network, "IPv4 주소 없이 netmask/prefix가 지정되었습니다", nil)
	}
	addr, err := netip.ParseAddr(attrs.IPAddr)
	if err != nil || !addr.Is4() {
		return entities.IPv4Config{}, errors.NewInvalidIPConfigError(network, "잘못된 IPv4 주소: "+attrs.IPAddr, err)
	}

	var prefixLen int
	switch {
	case attrs.Netmask != "" && attrs.Prefix != 0:
		return entities.IPv4Config{}, errors.NewInvalidIPConfigError(network, "netmask와 prefix를 동시에 지정할 수 없습니다", nil)
	case attrs.Netmask != "":
		prefixLen, err = netmaskToPrefixLength(attrs.Netmask)
		if err != nil {
			return entities.IPv4Config{}, errors.NewInvalidIPConfigError(network, "잘못된 netmask: "+attrs.Netmask, err)
		}
	case attrs.Prefix != 0:
		prefixLen = attrs.Prefix
	default:
		return entities.IPv4Config{}, errors.NewInvalidIPConfigError(network, "IPv4 주소에 netmask 또는 prefix가 없습니다", nil)
	}

	prefix := netip.PrefixFrom(addr, prefixLen)
	if !prefix.IsValid() {
		return entities.IPv4Config{}, errors.NewInvalidIPConfigError(network, fmt.Sprintf("잘못된 IPv4 prefix 길이: %d", prefixLen), nil)
	}
	return entities.IPv4Config{Mode: entities.IPModeStatic, Address: prefix}, nil
}

func normalizeIPv6(network string, attrs entities.NetworkAttributes) (entities.IPv6Config, error) {
	dynamic := attrs.DHCPv6 || attrs.IPv6Autoconf
	static := attrs.IPv6Addr != ""

	switch {
	case dynamic && static:
		return entities.IPv6Config{}, errors.NewInvalidIPConfigError(network, "IPv6에 동적 설정과 정적 주소를 동시에 지정할 수 없습니다", nil)
	case dynamic:
		return entities.IPv6Config{
			Mode:     entities.IPModeDynamic,
			DHCP:     attrs.DHCPv6,
			Autoconf: attrs.IPv6Autoconf,
		}, nil
	case !static:
		return entities.IPv6Config{Mode: entities.IPModeDisabled}, nil
	}

	if !strings.Contains(attrs.IPv6Addr, "/") {
		return entities.IPv6Config{}, errors.NewInvalidIPConfigError(network, "IPv6 주소에 prefix가 없습니다: "+attrs.IPv6Addr, nil)
	}
	prefix, err := netip.ParsePrefix(attrs.IPv6Addr)
	if err != nil || !prefix.Addr().Is6() || prefix.Addr().Is4In6() {
		return entities.IPv6Config{}, errors.NewInvalidIPConfigError(network, "잘못된 IPv6 주소: "+attrs.IPv6Addr, err)
	}

	return entities.IPv6Config{Mode: entities.IPModeStatic, Address: prefix}, nil
}

// netmaskToPrefixLength는 "255.255.255.0" 형식의 netmask를 prefix 길이로 변환합니다
func netmaskToPrefixLength(netmask string) (int, error) {
	ip := net.ParseIP(netmask).To4()
	if ip == nil {
		return 0, fmt.Errorf("IPv4 netmask가 아닙니다")
	}
	ones, bits := net.IPMask(ip).Size()
	if bits == 0 {
		return 0, fmt.Errorf("연속되지 않은 netmask")
	}
	return ones, nil
}

func validateSwitch(name, sw string) error {
	if sw != "" && sw != entities.SwitchLegacy {
		return errors.NewValidationError(fmt.Sprintf("%s: 지원하지 않는 switch 타입 %q", name, sw), nil)
	}
	return nil
}
