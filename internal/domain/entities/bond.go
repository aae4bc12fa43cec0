package entities

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// BondOptions는 옵션 문자열에 나타난 순서를 보존하는 option→value 매핑입니다
type BondOptions = orderedmap.OrderedMap[string, string]

// NewBondOptions는 빈 BondOptions를 생성합니다
func NewBondOptions() *BondOptions {
	return orderedmap.New[string, string]()
}

// BondRequest는 생성/수정 또는 삭제할 본드 하나입니다
type BondRequest struct {
	Name   string
	Remove bool
	Slaves []string
	// Mode는 텍스트 aggregation 모드 이름입니다 (예: "802.3ad")
	Mode string
	// Options는 mode를 제외한 나머지 옵션입니다
	Options *BondOptions
}

// OptionsMap은 옵션을 일반 map으로 반환합니다. 옵션이 없으면 nil입니다.
func (b BondRequest) OptionsMap() map[string]string {
	if b.Options == nil || b.Options.Len() == 0 {
		return nil
	}
	out := make(map[string]string, b.Options.Len())
	for pair := b.Options.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// OptionKeys는 옵션 키를 원래 순서대로 반환합니다
func (b BondRequest) OptionKeys() []string {
	if b.Options == nil {
		return nil
	}
	keys := make([]string, 0, b.Options.Len())
	for pair := b.Options.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}
