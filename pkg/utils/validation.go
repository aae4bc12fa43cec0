package utils

import (
	"fmt"
	"regexp"
)

// MaxInterfaceNameLength는 커널 IFNAMSIZ(16)에서 NUL 종료 문자를 뺀 길이입니다
const MaxInterfaceNameLength = 15

var (
	// 커널이 허용하지 않는 문자: '/', ':', 공백
	forbiddenInterfaceChars = regexp.MustCompile(`[/:\s]`)
)

// ValidateInterfaceName은 리눅스 네트워크 장치 이름으로 사용할 수 있는지 검증
func ValidateInterfaceName(name string) error {
	if name == "" {
		return fmt.Errorf("인터페이스 이름이 비어있음")
	}

	if len(name) > MaxInterfaceNameLength {
		return fmt.Errorf("인터페이스 이름이 너무 김: %s (%d자, 최대 %d자)", name, len(name), MaxInterfaceNameLength)
	}

	if name == "." || name == ".." {
		return fmt.Errorf("잘못된 인터페이스 이름: %s", name)
	}

	if forbiddenInterfaceChars.MatchString(name) {
		return fmt.Errorf("인터페이스 이름에 허용되지 않는 문자 포함: %q", name)
	}

	return nil
}

// ValidateVLANID는 802.1Q VLAN ID 범위를 검증 (0은 VLAN 없음)
func ValidateVLANID(id int) error {
	if id < 0 || id > 4094 {
		return fmt.Errorf("잘못된 VLAN ID: %d (0~4094)", id)
	}
	return nil
}
