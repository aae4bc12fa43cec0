package services

import (
	"fmt"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"

	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/nmstate"
)

// Aggregator는 모든 네트워크/본드 요청의 인터페이스 상태를 이름 기준으로 병합하고
// 라우트 항목을 모읍니다. 결과 인터페이스 목록은 항상 이름 오름차순입니다.
type Aggregator struct {
	states map[string]ifaceState
	routes []nmstate.RouteEntry
}

// NewAggregator는 새로운 Aggregator를 생성합니다
func NewAggregator() *Aggregator {
	return &Aggregator{states: map[string]ifaceState{}}
}

// Add는 인터페이스 상태를 추가합니다. 같은 이름의 상태가 이미 있으면 병합하며
// 양립할 수 없는 페이로드는 ConflictError를 반환합니다.
func (a *Aggregator) Add(states ...ifaceState) error {
	for _, incoming := range states {
		existing, ok := a.states[incoming.Name]
		if !ok {
			a.states[incoming.Name] = incoming
			continue
		}
		merged, err := mergeStates(existing, incoming)
		if err != nil {
			return err
		}
		a.states[incoming.Name] = merged
	}
	return nil
}

// AddRoute는 라우트 항목을 추가합니다. 동일한 항목은 한 번만 기록됩니다.
func (a *Aggregator) AddRoute(route nmstate.RouteEntry) {
	if lo.Contains(a.routes, route) {
		return
	}
	a.routes = append(a.routes, route)
}

// State는 최종 디스크립터를 조립합니다. 라우트가 없으면 routes 키를 생략합니다.
func (a *Aggregator) State() *nmstate.State {
	state := nmstate.NewEmptyState()

	for _, name := range sortedKeys(a.states) {
		state.Interfaces = append(state.Interfaces, a.states[name].Interface)
	}

	if len(a.routes) > 0 {
		routes := append([]nmstate.RouteEntry{}, a.routes...)
		sort.SliceStable(routes, func(i, j int) bool {
			if routes[i].NextHopInterface != routes[j].NextHopInterface {
				return routes[i].NextHopInterface < routes[j].NextHopInterface
			}
			if routes[i].Destination != routes[j].Destination {
				return routes[i].Destination < routes[j].Destination
			}
			return routes[i].State < routes[j].State
		})
		state.Routes = &nmstate.Routes{Config: routes}
	}
	return state
}

// mergeStates는 같은 이름의 두 상태를 병합합니다.
// 삭제에서 파생된 상태는 생성 요청의 상태에 양보합니다:
// absent 쪽이 있으면 그 상태가 그대로 이기고, 그 외에는 필드 단위로 병합합니다.
func mergeStates(existing, incoming ifaceState) (ifaceState, error) {
	if existing.removal != incoming.removal {
		strong, weak := existing, incoming
		if existing.removal {
			strong, weak = incoming, existing
		}
		if weak.State == nmstate.InterfaceStateAbsent || strong.State == nmstate.InterfaceStateAbsent {
			return strong, nil
		}
	}

	merged := existing
	merged.removal = existing.removal && incoming.removal
	name := existing.Name

	var err error
	if merged.kind, err = mergeScalar(name, "kind", existing.kind, incoming.kind); err != nil {
		return ifaceState{}, err
	}
	if merged.Type, err = mergeScalar(name, "type", existing.Type, incoming.Type); err != nil {
		return ifaceState{}, err
	}
	if merged.State, err = mergeScalar(name, "state", existing.State, incoming.State); err != nil {
		return ifaceState{}, err
	}
	if merged.LinkAggregation, err = mergePayload(name, "link-aggregation", existing.LinkAggregation, incoming.LinkAggregation); err != nil {
		return ifaceState{}, err
	}
	if merged.Bridge, err = mergePayload(name, "bridge", existing.Bridge, incoming.Bridge); err != nil {
		return ifaceState{}, err
	}
	if merged.VLAN, err = mergePayload(name, "vlan", existing.VLAN, incoming.VLAN); err != nil {
		return ifaceState{}, err
	}

	switch {
	case incoming.IPv4 == nil && incoming.IPv6 == nil:
	case existing.IPv4 == nil && existing.IPv6 == nil:
		merged.IPv4, merged.IPv6, merged.implicitIP = incoming.IPv4, incoming.IPv6, incoming.implicitIP
	case existing.implicitIP && !incoming.implicitIP:
		merged.IPv4, merged.IPv6, merged.implicitIP = incoming.IPv4, incoming.IPv6, false
	case !existing.implicitIP && incoming.implicitIP:
	default:
		if !cmp.Equal(existing.IPv4, incoming.IPv4) {
			return ifaceState{}, conflict(name, "ipv4", existing.IPv4, incoming.IPv4)
		}
		if !cmp.Equal(existing.IPv6, incoming.IPv6) {
			return ifaceState{}, conflict(name, "ipv6", existing.IPv6, incoming.IPv6)
		}
	}

	return merged, nil
}

func mergeScalar(name, field, existing, incoming string) (string, error) {
	switch {
	case existing == "":
		return incoming, nil
	case incoming == "" || existing == incoming:
		return existing, nil
	}
	return "", conflict(name, field, existing, incoming)
}

func mergePayload[T any](name, field string, existing, incoming *T) (*T, error) {
	switch {
	case existing == nil:
		return incoming, nil
	case incoming == nil || cmp.Equal(existing, incoming):
		return existing, nil
	}
	return nil, conflict(name, field, existing, incoming)
}

func conflict(name, field string, existing, incoming any) error {
	return errors.NewConflictError(name, fmt.Sprintf("%s 필드가 충돌합니다: %s", field, cmp.Diff(existing, incoming)))
}
