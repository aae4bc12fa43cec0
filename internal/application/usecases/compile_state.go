package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mitchellh/hashstructure/v2"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/domain/nmstate"
	"hostnet-agent/internal/domain/services"
	"hostnet-agent/internal/infrastructure/metrics"
	"hostnet-agent/pkg/utils"
)

// CompileStateUseCase는 레거시 네트워크/본딩 요청을 nmstate 디스크립터로 변환하는 유스케이스입니다
type CompileStateUseCase struct {
	repository interfaces.RunningConfigRepository
	compiler   *services.StateCompiler
	logger     *logrus.Logger
}

// NewCompileStateUseCase는 새로운 CompileStateUseCase를 생성합니다
func NewCompileStateUseCase(
	repo interfaces.RunningConfigRepository,
	compiler *services.StateCompiler,
	logger *logrus.Logger,
) *CompileStateUseCase {
	return &CompileStateUseCase{
		repository: repo,
		compiler:   compiler,
		logger:     logger,
	}
}

// CompileStateInput은 유스케이스의 입력 파라미터입니다
type CompileStateInput struct {
	Networks map[string]entities.NetworkAttributes `json:"networks" yaml:"networks"`
	Bondings map[string]entities.BondAttributes    `json:"bondings" yaml:"bondings"`
}

// CompileStateOutput은 유스케이스의 출력 결과입니다
type CompileStateOutput struct {
	State *nmstate.State
	// Fingerprint는 디스크립터 내용의 해시입니다. 같은 입력과 running 스냅샷은 같은 값을 만듭니다.
	Fingerprint    string
	InterfaceCount int
	RouteCount     int
}

// Execute는 상태 컴파일 유스케이스를 실행합니다
func (uc *CompileStateUseCase) Execute(ctx context.Context, input CompileStateInput) (*CompileStateOutput, error) {
	start := time.Now()

	output, err := uc.execute(ctx, input)

	status := "success"
	if err != nil {
		status = "failed"
		metrics.RecordError(errors.TypeOf(err))
	}
	metrics.RecordCompilation(status, time.Since(start).Seconds())

	return output, err
}

func (uc *CompileStateUseCase) execute(ctx context.Context, input CompileStateInput) (*CompileStateOutput, error) {
	if err := validateInput(input); err != nil {
		uc.logger.WithError(err).Warn("요청 유효성 검증 실패")
		return nil, err
	}

	running, err := uc.repository.Load(ctx)
	if err != nil {
		return nil, errors.NewSystemError(fmt.Sprintf("running configuration 조회 실패 (%s)", uc.repository.Source()), err)
	}

	state, err := uc.compiler.Compile(input.Networks, input.Bondings, running)
	if err != nil {
		uc.logger.WithError(err).WithFields(logrus.Fields{
			"networks": len(input.Networks),
			"bondings": len(input.Bondings),
		}).Error("디스크립터 생성 실패")
		return nil, err
	}

	fingerprint, err := hashstructure.Hash(state, hashstructure.FormatV2, nil)
	if err != nil {
		return nil, errors.NewSystemError("디스크립터 해시 계산 실패", err)
	}

	output := &CompileStateOutput{
		State:          state,
		Fingerprint:    fmt.Sprintf("%016x", fingerprint),
		InterfaceCount: len(state.Interfaces),
	}
	if state.Routes != nil {
		output.RouteCount = len(state.Routes.Config)
	}

	for _, iface := range state.Interfaces {
		metrics.RecordEmittedInterface(iface.State)
	}
	metrics.RecordEmittedRoutes(output.RouteCount)

	uc.logger.WithFields(logrus.Fields{
		"networks":    len(input.Networks),
		"bondings":    len(input.Bondings),
		"interfaces":  output.InterfaceCount,
		"routes":      output.RouteCount,
		"fingerprint": output.Fingerprint,
		"source":      uc.repository.Source(),
	}).Info("디스크립터 생성 완료")

	return output, nil
}

// validateInput은 컴파일 전에 장치 이름을 검증합니다. 발견한 문제를 모두 모아 하나의 에러로 반환합니다.
func validateInput(input CompileStateInput) error {
	var errs error

	for _, name := range sortedNames(input.Bondings) {
		attrs := input.Bondings[name]
		errs = multierr.Append(errs, checkName("bond", name))
		if attrs.Remove {
			continue
		}
		for _, nic := range attrs.Nics {
			errs = multierr.Append(errs, checkName("bond "+name+" slave", nic))
		}
	}

	for _, name := range sortedNames(input.Networks) {
		attrs := input.Networks[name]
		if attrs.Remove {
			continue
		}
		if attrs.Bridged {
			errs = multierr.Append(errs, checkName("network", name))
		}
		for _, base := range []string{attrs.Nic, attrs.Bonding} {
			if base == "" {
				continue
			}
			errs = multierr.Append(errs, checkName("network "+name+" base", base))
			if attrs.VLAN > 0 {
				errs = multierr.Append(errs, checkName("network "+name+" vlan", services.VLANInterfaceName(base, attrs.VLAN)))
			}
		}
		if err := utils.ValidateVLANID(attrs.VLAN); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("network %s: %w", name, err))
		}
	}

	if errs != nil {
		return errors.NewValidationError("잘못된 요청", errs)
	}
	return nil
}

func checkName(kind, name string) error {
	if err := utils.ValidateInterfaceName(name); err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	names := lo.Keys(m)
	sort.Strings(names)
	return names
}
