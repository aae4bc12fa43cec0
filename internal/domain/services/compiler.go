package services

import (
	"sort"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/domain/nmstate"
)

// CompilerOptions는 StateCompiler의 동작 옵션입니다
type CompilerOptions struct {
	// TrackDefaultRouteRemoval이 켜져 있으면 running configuration에 기본 라우트가
	// 기록된 네트워크를 삭제할 때 absent 라우트 항목을 생성합니다.
	// 기본값은 꺼짐이며 이 경우 삭제 시 라우트 항목을 전혀 만들지 않습니다.
	TrackDefaultRouteRemoval bool
}

// StateCompiler는 레거시 네트워크/본딩 설정을 nmstate 디스크립터로 변환하는 도메인 서비스입니다.
// 호출 사이에 상태를 보존하지 않으며 (요청, running 스냅샷)에 대한 순수 함수로 동작합니다.
type StateCompiler struct {
	logger  *logrus.Logger
	options CompilerOptions
}

// NewStateCompiler는 새로운 StateCompiler를 생성합니다
func NewStateCompiler(logger *logrus.Logger, options CompilerOptions) *StateCompiler {
	return &StateCompiler{
		logger:  logger,
		options: options,
	}
}

// Compile은 네트워크와 본드 요청을 running configuration 스냅샷과 함께 디스크립터로 변환합니다.
// 에러가 발생하면 부분 결과 없이 에러만 반환합니다.
func (c *StateCompiler) Compile(
	networks map[string]entities.NetworkAttributes,
	bondings map[string]entities.BondAttributes,
	running interfaces.RunningConfig,
) (*nmstate.State, error) {
	if running == nil {
		running = entities.EmptyRunningSnapshot()
	}

	aggregator := NewAggregator()

	if err := c.compileBonds(aggregator, bondings, running); err != nil {
		return nil, err
	}
	if err := c.compileNetworks(aggregator, networks, running); err != nil {
		return nil, err
	}

	return aggregator.State(), nil
}

func (c *StateCompiler) compileBonds(
	aggregator *Aggregator,
	bondings map[string]entities.BondAttributes,
	running interfaces.RunningConfig,
) error {
	runningBonds := running.Bonds()

	for _, name := range sortedKeys(bondings) {
		req, err := NormalizeBond(name, bondings[name])
		if err != nil {
			return err
		}

		if req.Remove {
			c.logger.WithField("bond", name).Debug("본드 삭제 상태 생성")
			if err := aggregator.Add(bondAbsentState(name)); err != nil {
				return err
			}
			continue
		}

		_, exists := runningBonds[name]
		c.logger.WithFields(logrus.Fields{
			"bond":    name,
			"mode":    req.Mode,
			"slaves":  req.Slaves,
			"options": req.OptionKeys(),
			"is_new":  !exists,
		}).Debug("본드 상태 생성")

		if err := aggregator.Add(bondState(req, !exists)); err != nil {
			return err
		}
	}
	return nil
}

func (c *StateCompiler) compileNetworks(
	aggregator *Aggregator,
	networks map[string]entities.NetworkAttributes,
	running interfaces.RunningConfig,
) error {
	resolver := NewTopologyResolver(running)

	for _, name := range sortedKeys(networks) {
		req, err := NormalizeNetwork(name, networks[name])
		if err != nil {
			return err
		}

		chain, found, err := resolver.Resolve(req)
		if err != nil {
			return err
		}
		if !found {
			c.logger.WithField("network", name).Debug("running configuration에 없는 네트워크 삭제 요청, 무시")
			continue
		}

		if req.Remove {
			if err := c.compileRemoval(aggregator, resolver, chain); err != nil {
				return err
			}
			continue
		}

		c.logger.WithFields(logrus.Fields{
			"network": name,
			"devices": chain.Names(),
			"top":     chain.Top(),
			"ipv4":    req.IPv4.Mode.String(),
			"ipv6":    req.IPv6.Mode.String(),
		}).Debug("네트워크 상태 생성")

		if err := aggregator.Add(networkStates(chain, req)...); err != nil {
			return err
		}

		if route, ok := defaultRoute(req, chain); ok {
			if problem := gatewayProblem(req.IPv4.Address, req.Gateway); problem != "" {
				c.logger.WithFields(logrus.Fields{
					"network": name,
					"gateway": req.Gateway.String(),
					"address": req.IPv4.Address.String(),
				}).Warn(problem)
			}
			aggregator.AddRoute(route)
		}
	}
	return nil
}

func (c *StateCompiler) compileRemoval(aggregator *Aggregator, resolver *TopologyResolver, chain DeviceChain) error {
	c.logger.WithFields(logrus.Fields{
		"network": chain.Network,
		"devices": chain.Names(),
	}).Debug("네트워크 삭제 상태 생성")

	if err := aggregator.Add(removalStates(chain)...); err != nil {
		return err
	}

	if !c.options.TrackDefaultRouteRemoval {
		return nil
	}
	attrs, _ := resolver.RunningAttributes(chain.Network)
	if route, ok := removedDefaultRoute(attrs, chain); ok {
		aggregator.AddRoute(route)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
