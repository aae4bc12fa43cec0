package entities

import "maps"

// RunningSnapshot은 마지막으로 적용에 성공한 설정의 불변 스냅샷입니다.
// 생성 시 입력 맵을 복사하므로 이후 호출자가 원본을 수정해도 영향이 없습니다.
type RunningSnapshot struct {
	networks map[string]NetworkAttributes
	bonds    map[string]BondAttributes
}

// NewRunningSnapshot은 새로운 RunningSnapshot을 생성합니다
func NewRunningSnapshot(networks map[string]NetworkAttributes, bonds map[string]BondAttributes) *RunningSnapshot {
	s := &RunningSnapshot{
		networks: maps.Clone(networks),
		bonds:    make(map[string]BondAttributes, len(bonds)),
	}
	if s.networks == nil {
		s.networks = map[string]NetworkAttributes{}
	}
	for name, attrs := range bonds {
		attrs.Nics = append([]string(nil), attrs.Nics...)
		s.bonds[name] = attrs
	}
	return s
}

// EmptyRunningSnapshot은 아무것도 적용되지 않은 호스트의 스냅샷입니다
func EmptyRunningSnapshot() *RunningSnapshot {
	return NewRunningSnapshot(nil, nil)
}

// Networks는 네트워크 이름 → 적용된 속성 매핑의 복사본을 반환합니다
func (s *RunningSnapshot) Networks() map[string]NetworkAttributes {
	if s == nil {
		return map[string]NetworkAttributes{}
	}
	return maps.Clone(s.networks)
}

// Bonds는 본드 이름 → 적용된 속성 매핑의 복사본을 반환합니다
func (s *RunningSnapshot) Bonds() map[string]BondAttributes {
	if s == nil {
		return map[string]BondAttributes{}
	}
	return maps.Clone(s.bonds)
}

// Network는 단일 네트워크의 적용된 속성을 조회합니다
func (s *RunningSnapshot) Network(name string) (NetworkAttributes, bool) {
	if s == nil {
		return NetworkAttributes{}, false
	}
	attrs, ok := s.networks[name]
	return attrs, ok
}

// HasBond는 본드가 이미 적용되어 있는지 확인합니다
func (s *RunningSnapshot) HasBond(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.bonds[name]
	return ok
}

// Apply는 요청을 반영한 새 스냅샷을 반환합니다. 삭제 요청은 항목을 제거하고
// 나머지는 요청 속성으로 교체합니다. 원래 스냅샷은 변경되지 않습니다.
func (s *RunningSnapshot) Apply(networks map[string]NetworkAttributes, bonds map[string]BondAttributes) *RunningSnapshot {
	nextNetworks := s.Networks()
	for name, attrs := range networks {
		if attrs.Remove {
			delete(nextNetworks, name)
			continue
		}
		nextNetworks[name] = attrs
	}

	nextBonds := s.Bonds()
	for name, attrs := range bonds {
		if attrs.Remove {
			delete(nextBonds, name)
			continue
		}
		nextBonds[name] = attrs
	}

	return NewRunningSnapshot(nextNetworks, nextBonds)
}
