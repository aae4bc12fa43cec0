package services

import "fmt"

// VLANInterfaceName은 기반 장치와 VLAN ID로 VLAN 장치 이름을 생성합니다 (예: eth0.101)
func VLANInterfaceName(base string, vlanID int) string {
	return fmt.Sprintf("%s.%d", base, vlanID)
}

// BridgeInterfaceName은 브리지 장치 이름을 생성합니다. 브리지는 네트워크 이름을 그대로 사용합니다.
func BridgeInterfaceName(network string) string {
	return network
}
