package services

import (
	"strings"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
)

// DefaultBondMode는 mode 옵션이 없을 때 사용하는 aggregation 모드입니다 (mode=0)
const DefaultBondMode = "balance-rr"

// bondModeNames는 커널 본딩 모드 번호 → nmstate 모드 이름 테이블입니다
var bondModeNames = map[string]string{
	"0": "balance-rr",
	"1": "active-backup",
	"2": "balance-xor",
	"3": "broadcast",
	"4": "802.3ad",
	"5": "balance-tlb",
	"6": "balance-alb",
}

// ParseBondOptions는 "mode=4 miimon=150" 형식의 옵션 문자열을 순서가 보존된 매핑으로 파싱합니다
func ParseBondOptions(raw string) (*entities.BondOptions, error) {
	options := entities.NewBondOptions()
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			return nil, errors.NewMalformedOptionsError(token, "본딩 옵션은 key=value 형식이어야 합니다")
		}
		options.Set(key, value)
	}
	return options, nil
}

// BondModeName은 mode 옵션 값을 텍스트 aggregation 모드 이름으로 변환합니다.
// 숫자와 이름 모두 허용합니다.
func BondModeName(value string) (string, bool) {
	if name, ok := bondModeNames[value]; ok {
		return name, true
	}
	for _, name := range bondModeNames {
		if name == value {
			return name, true
		}
	}
	return "", false
}

// NormalizeBond는 원본 본드 속성을 BondRequest로 변환합니다
func NormalizeBond(name string, attrs entities.BondAttributes) (entities.BondRequest, error) {
	if attrs.Remove {
		return entities.BondRequest{Name: name, Remove: true}, nil
	}
	if err := validateSwitch(name, attrs.Switch); err != nil {
		return entities.BondRequest{}, err
	}

	options, err := ParseBondOptions(attrs.Options)
	if err != nil {
		return entities.BondRequest{}, err
	}

	mode := DefaultBondMode
	if value, ok := options.Get("mode"); ok {
		mode, ok = BondModeName(value)
		if !ok {
			return entities.BondRequest{}, errors.NewMalformedOptionsError("mode="+value, "알 수 없는 본딩 모드")
		}
		options.Delete("mode")
	}

	// 슬레이브 순서는 요청 순서를 그대로 유지
	slaves := append([]string{}, attrs.Nics...)

	return entities.BondRequest{
		Name:    name,
		Slaves:  slaves,
		Mode:    mode,
		Options: options,
	}, nil
}
