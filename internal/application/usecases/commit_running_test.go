package usecases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hostnet-agent/internal/domain/entities"
	domainerrors "hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/services"
)

func newTestCommitUseCase(repo *MockRunningConfigRepository) *CommitRunningConfigUseCase {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	compiler := services.NewStateCompiler(logger, services.CompilerOptions{})
	return NewCommitRunningConfigUseCase(repo, compiler, logger)
}

func TestCommitRunningConfigUseCase_Execute(t *testing.T) {
	mockRepo := new(MockRunningConfigRepository)
	useCase := newTestCommitUseCase(mockRepo)
	ctx := context.Background()

	running := entities.NewRunningSnapshot(
		map[string]entities.NetworkAttributes{
			"oldnet":  {Nic: "eth2", Bridged: true},
			"storage": {Nic: "eth3", VLAN: 20},
		},
		map[string]entities.BondAttributes{
			"bond9": {Nics: []string{"eth8", "eth9"}},
		},
	)
	mockRepo.On("Load", ctx).Return(running, nil)

	var saved *entities.RunningSnapshot
	mockRepo.On("Save", ctx, mock.AnythingOfType("*entities.RunningSnapshot")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*entities.RunningSnapshot)
		}).
		Return(nil)

	input := CompileStateInput{
		Networks: map[string]entities.NetworkAttributes{
			"oldnet":    {Remove: true},
			"ovirtmgmt": {Bonding: "bond0", Bridged: true, BootProto: "dhcp"},
		},
		Bondings: map[string]entities.BondAttributes{
			"bond0": {Nics: []string{"eth0", "eth1"}},
			"bond9": {Remove: true},
		},
	}

	output, err := useCase.Execute(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 2, output.Networks)
	assert.Equal(t, 1, output.Bonds)
	assert.NotEmpty(t, output.State.Interfaces)

	_, hasOld := saved.Network("oldnet")
	assert.False(t, hasOld)
	_, hasStorage := saved.Network("storage")
	assert.True(t, hasStorage)
	mgmt, ok := saved.Network("ovirtmgmt")
	require.True(t, ok)
	assert.Equal(t, "bond0", mgmt.Bonding)
	assert.True(t, saved.HasBond("bond0"))
	assert.False(t, saved.HasBond("bond9"))

	// 원본 스냅샷은 변경되지 않음
	_, stillOld := running.Network("oldnet")
	assert.True(t, stillOld)

	mockRepo.AssertExpectations(t)
}

func TestCommitRunningConfigUseCase_Execute_Failures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		input     CompileStateInput
		setup     func(*MockRunningConfigRepository)
		checkType func(error) bool
	}{
		{
			name: "유효하지 않은 요청은 저장하지 않음",
			input: CompileStateInput{
				Bondings: map[string]entities.BondAttributes{
					"bond-with-a-long-name": {Nics: []string{"eth0"}},
				},
			},
			setup:     func(*MockRunningConfigRepository) {},
			checkType: domainerrors.IsValidationError,
		},
		{
			name: "running configuration 조회 실패",
			input: CompileStateInput{
				Networks: map[string]entities.NetworkAttributes{"net1": {Nic: "eth0"}},
			},
			setup: func(m *MockRunningConfigRepository) {
				m.On("Load", ctx).Return(nil, errors.New("db down"))
			},
			checkType: domainerrors.IsSystemError,
		},
		{
			name: "컴파일 실패 시 저장하지 않음",
			input: CompileStateInput{
				Networks: map[string]entities.NetworkAttributes{"net1": {Bridged: true}},
			},
			setup: func(m *MockRunningConfigRepository) {
				m.On("Load", ctx).Return(entities.EmptyRunningSnapshot(), nil)
			},
			checkType: func(err error) bool { return err != nil },
		},
		{
			name: "저장 실패",
			input: CompileStateInput{
				Networks: map[string]entities.NetworkAttributes{"net1": {Nic: "eth0"}},
			},
			setup: func(m *MockRunningConfigRepository) {
				m.On("Load", ctx).Return(entities.EmptyRunningSnapshot(), nil)
				m.On("Save", ctx, mock.Anything).Return(errors.New("read-only file system"))
			},
			checkType: domainerrors.IsSystemError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRunningConfigRepository)
			tt.setup(mockRepo)
			useCase := newTestCommitUseCase(mockRepo)

			output, err := useCase.Execute(ctx, tt.input)

			require.Error(t, err)
			assert.Nil(t, output)
			assert.True(t, tt.checkType(err))
			mockRepo.AssertExpectations(t)
		})
	}
}

// slowRepository는 조회에 지연이 있는 메모리 저장소입니다
type slowRepository struct {
	mu       sync.Mutex
	snapshot *entities.RunningSnapshot
	delay    time.Duration
}

func (r *slowRepository) Load(ctx context.Context) (*entities.RunningSnapshot, error) {
	r.mu.Lock()
	snapshot := r.snapshot
	r.mu.Unlock()
	time.Sleep(r.delay)
	return snapshot, nil
}

func (r *slowRepository) Save(ctx context.Context, snapshot *entities.RunningSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshot = snapshot
	return nil
}

func (r *slowRepository) Source() string {
	return "memory"
}

func TestCommitRunningConfigUseCase_Execute_Concurrent(t *testing.T) {
	repo := &slowRepository{snapshot: entities.EmptyRunningSnapshot(), delay: 20 * time.Millisecond}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	useCase := NewCommitRunningConfigUseCase(repo, services.NewStateCompiler(logger, services.CompilerOptions{}), logger)

	const commits = 4
	var wg sync.WaitGroup
	errs := make(chan error, commits)
	for i := 0; i < commits; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := useCase.Execute(context.Background(), CompileStateInput{
				Networks: map[string]entities.NetworkAttributes{
					fmt.Sprintf("net%d", i): {Nic: fmt.Sprintf("eth%d", i)},
				},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	networks := repo.snapshot.Networks()
	assert.Len(t, networks, commits)
	for i := 0; i < commits; i++ {
		assert.Contains(t, networks, fmt.Sprintf("net%d", i))
	}
}
