package services

import (
	"net"
	"net/netip"

	gocidr "github.com/apparentlymart/go-cidr/cidr"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/nmstate"
)

func disabledIP() *nmstate.IPConfig {
	return &nmstate.IPConfig{Enabled: false}
}

func boolPtr(v bool) *bool {
	return &v
}

func staticIP(prefix netip.Prefix) *nmstate.IPConfig {
	return &nmstate.IPConfig{
		Enabled: true,
		Address: []nmstate.IPAddress{{
			IP:           prefix.Addr().String(),
			PrefixLength: prefix.Bits(),
		}},
	}
}

// ipv4State는 IPv4 설정을 nmstate ipv4 페이로드로 변환합니다
func ipv4State(cfg entities.IPv4Config) *nmstate.IPConfig {
	switch cfg.Mode {
	case entities.IPModeStatic:
		return staticIP(cfg.Address)
	case entities.IPModeDynamic:
		return &nmstate.IPConfig{Enabled: true, DHCP: boolPtr(true)}
	case entities.IPModeDisabled:
		return disabledIP()
	}
	return disabledIP()
}

// ipv6State는 IPv6 설정을 nmstate ipv6 페이로드로 변환합니다
func ipv6State(cfg entities.IPv6Config) *nmstate.IPConfig {
	switch cfg.Mode {
	case entities.IPModeStatic:
		return staticIP(cfg.Address)
	case entities.IPModeDynamic:
		return &nmstate.IPConfig{
			Enabled:  true,
			DHCP:     boolPtr(cfg.DHCP),
			Autoconf: boolPtr(cfg.Autoconf),
		}
	case entities.IPModeDisabled:
		return disabledIP()
	}
	return disabledIP()
}

// defaultRoute는 기본 라우트 항목을 만듭니다. 기본 라우트가 요청되고
// 게이트웨이와 정적 IPv4 주소가 모두 있을 때만 생성됩니다.
func defaultRoute(req entities.NetworkRequest, chain DeviceChain) (nmstate.RouteEntry, bool) {
	if !req.DefaultRoute || !req.HasGateway() || req.IPv4.Mode != entities.IPModeStatic {
		return nmstate.RouteEntry{}, false
	}
	return nmstate.RouteEntry{
		Destination:      nmstate.DefaultRouteDestination,
		NextHopAddress:   req.Gateway.String(),
		NextHopInterface: chain.Top(),
		TableID:          nmstate.UseDefaultRouteTable,
	}, true
}

// removedDefaultRoute는 삭제되는 네트워크가 기본 라우트를 갖고 있었다면 absent 라우트를 만듭니다
func removedDefaultRoute(attrs entities.NetworkAttributes, chain DeviceChain) (nmstate.RouteEntry, bool) {
	if !attrs.DefaultRoute || attrs.Gateway == "" {
		return nmstate.RouteEntry{}, false
	}
	return nmstate.RouteEntry{
		Destination:      nmstate.DefaultRouteDestination,
		NextHopAddress:   attrs.Gateway,
		NextHopInterface: chain.Top(),
		TableID:          nmstate.UseDefaultRouteTable,
		State:            nmstate.RouteStateAbsent,
	}, true
}

// gatewayProblem은 게이트웨이가 정적 주소의 서브넷에서 쓸 수 없는 주소이면 그 이유를 반환합니다.
// 문제가 없으면 빈 문자열입니다.
func gatewayProblem(prefix netip.Prefix, gateway netip.Addr) string {
	subnet := prefix.Masked()
	if !subnet.Contains(gateway) {
		return "게이트웨이가 정적 주소의 서브넷 밖에 있습니다"
	}

	// /31, /32에는 네트워크/브로드캐스트 주소가 따로 없음
	if subnet.Bits() >= subnet.Addr().BitLen()-1 {
		return ""
	}

	_, ipnet, err := net.ParseCIDR(subnet.String())
	if err != nil {
		return ""
	}
	network, broadcast := gocidr.AddressRange(ipnet)
	gw := net.IP(gateway.AsSlice())

	switch {
	case gw.Equal(network):
		return "게이트웨이가 서브넷의 네트워크 주소입니다"
	case gw.Equal(broadcast):
		return "게이트웨이가 서브넷의 브로드캐스트 주소입니다"
	}
	return ""
}
