package usecases

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/domain/nmstate"
	"hostnet-agent/internal/domain/services"
)

// CommitRunningConfigUseCase는 적용에 성공한 요청을 running configuration에 반영하는 유스케이스입니다.
// 디스크립터로 변환할 수 없는 요청은 저장하지 않습니다.
type CommitRunningConfigUseCase struct {
	// mu는 조회-반영-저장 구간을 직렬화합니다. 동시에 들어온 반영 요청이
	// 같은 스냅샷을 기준으로 저장하면 먼저 저장된 항목이 사라집니다.
	mu         sync.Mutex
	repository interfaces.RunningConfigRepository
	compiler   *services.StateCompiler
	logger     *logrus.Logger
}

// NewCommitRunningConfigUseCase는 새로운 CommitRunningConfigUseCase를 생성합니다
func NewCommitRunningConfigUseCase(
	repo interfaces.RunningConfigRepository,
	compiler *services.StateCompiler,
	logger *logrus.Logger,
) *CommitRunningConfigUseCase {
	return &CommitRunningConfigUseCase{
		repository: repo,
		compiler:   compiler,
		logger:     logger,
	}
}

// CommitRunningConfigOutput은 반영 후 running configuration 요약입니다
type CommitRunningConfigOutput struct {
	State    *nmstate.State
	Networks int
	Bonds    int
}

// Execute는 요청을 검증하고 컴파일한 뒤 running configuration에 반영합니다.
// 삭제 요청은 항목을 지우고 나머지는 항목을 통째로 교체합니다.
func (uc *CommitRunningConfigUseCase) Execute(ctx context.Context, input CompileStateInput) (*CommitRunningConfigOutput, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	running, err := uc.repository.Load(ctx)
	if err != nil {
		return nil, errors.NewSystemError(fmt.Sprintf("running configuration 조회 실패 (%s)", uc.repository.Source()), err)
	}

	state, err := uc.compiler.Compile(input.Networks, input.Bondings, running)
	if err != nil {
		return nil, err
	}

	next := running.Apply(input.Networks, input.Bondings)
	if err := uc.repository.Save(ctx, next); err != nil {
		return nil, errors.NewSystemError(fmt.Sprintf("running configuration 저장 실패 (%s)", uc.repository.Source()), err)
	}

	output := &CommitRunningConfigOutput{
		State:    state,
		Networks: len(next.Networks()),
		Bonds:    len(next.Bonds()),
	}

	uc.logger.WithFields(logrus.Fields{
		"networks": output.Networks,
		"bonds":    output.Bonds,
		"source":   uc.repository.Source(),
	}).Info("running configuration 반영 완료")

	return output, nil
}
