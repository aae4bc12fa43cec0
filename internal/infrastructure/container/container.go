package container

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"

	"hostnet-agent/internal/application/usecases"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/domain/services"
	"hostnet-agent/internal/infrastructure/adapters"
	"hostnet-agent/internal/infrastructure/config"
	"hostnet-agent/internal/infrastructure/health"
	"hostnet-agent/internal/infrastructure/metrics"
	"hostnet-agent/internal/infrastructure/persistence"
	infraservices "hostnet-agent/internal/infrastructure/services"
	"hostnet-agent/pkg/utils"
)

// Container는 의존성 주입을 관리하는 컨테이너입니다
type Container struct {
	config *config.Config
	logger *logrus.Logger

	// 인프라스트럭처 어댑터들
	fileSystem interfaces.FileSystem
	clock      interfaces.Clock

	// 서비스들
	healthService *health.HealthService
	backupService interfaces.BackupService
	compiler      *services.StateCompiler

	// 레포지토리
	repository interfaces.RunningConfigRepository
	cache      *persistence.SnapshotCache

	// 유스케이스
	compileStateUseCase  *usecases.CompileStateUseCase
	commitRunningUseCase *usecases.CommitRunningConfigUseCase

	// 데이터베이스 (running configuration 소스가 mysql일 때만)
	db *sql.DB
}

// NewContainer는 새로운 Container를 생성합니다
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
	}

	if err := container.initializeInfrastructure(ctx); err != nil {
		_ = container.Close()
		return nil, err
	}

	container.initializeServices()
	container.initializeUseCases()

	return container, nil
}

// initializeInfrastructure는 인프라스트럭처 컴포넌트들을 초기화합니다
func (c *Container) initializeInfrastructure(ctx context.Context) error {
	c.fileSystem = adapters.NewRealFileSystem()
	c.clock = adapters.NewRealClock()
	c.backupService = infraservices.NewBackupService(c.fileSystem, c.clock, c.logger, c.config.Agent.BackupDir)

	switch c.config.Running.Source {
	case config.RunningSourceMySQL:
		repo, err := c.openMySQLRepository(ctx)
		if err != nil {
			return err
		}
		c.repository = repo
	default:
		c.repository = persistence.NewFileRepository(c.fileSystem, c.backupService, c.config.Running.File, c.logger)
	}

	c.cache = persistence.NewSnapshotCache(c.repository, c.clock, c.logger)
	return nil
}

// openMySQLRepository는 데이터베이스에 연결하고 스키마를 준비합니다
func (c *Container) openMySQLRepository(ctx context.Context) (*persistence.MySQLRepository, error) {
	db, err := sql.Open("mysql", c.config.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	// 연결 풀 설정
	db.SetMaxOpenConns(c.config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.config.Database.MaxLifetime)

	repo := persistence.NewMySQLRepository(db, c.logger)

	// 에이전트가 데이터베이스보다 먼저 뜨는 경우가 흔하므로 연결은 재시도
	err = utils.RetryWithBackoff(ctx, utils.DefaultRetryConfig, func(ctx context.Context) error {
		if err := repo.Ping(ctx); err != nil {
			c.logger.WithError(err).WithField("host", c.config.Database.Host).Warn("데이터베이스 연결 실패, 재시도")
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// initializeServices는 서비스들을 초기화합니다
func (c *Container) initializeServices() {
	c.healthService = health.NewHealthService(c.clock, c.repository.Source(), c.logger)
	c.cache.OnRefresh(c.healthService.UpdateRunningConfigHealth)

	c.compiler = services.NewStateCompiler(c.logger, services.CompilerOptions{
		TrackDefaultRouteRemoval: c.config.Agent.TrackRouteRemoval,
	})
}

// initializeUseCases는 유스케이스들을 초기화합니다
func (c *Container) initializeUseCases() {
	c.compileStateUseCase = usecases.NewCompileStateUseCase(c.cache, c.compiler, c.logger)
	c.commitRunningUseCase = usecases.NewCommitRunningConfigUseCase(c.cache, c.compiler, c.logger)
	metrics.SetAgentInfo(Version, c.repository.Source())
}

// Version은 빌드 시 -ldflags로 덮어쓰는 에이전트 버전입니다
var Version = "0.1.0"

// GetConfig는 설정을 반환합니다
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetFileSystem은 파일 시스템 어댑터를 반환합니다
func (c *Container) GetFileSystem() interfaces.FileSystem {
	return c.fileSystem
}

// GetHealthService는 헬스 서비스를 반환합니다
func (c *Container) GetHealthService() *health.HealthService {
	return c.healthService
}

// GetSnapshotCache는 running configuration 캐시를 반환합니다
func (c *Container) GetSnapshotCache() *persistence.SnapshotCache {
	return c.cache
}

// GetCompileStateUseCase는 상태 컴파일 유스케이스를 반환합니다
func (c *Container) GetCompileStateUseCase() *usecases.CompileStateUseCase {
	return c.compileStateUseCase
}

// GetCommitRunningConfigUseCase는 running configuration 반영 유스케이스를 반환합니다
func (c *Container) GetCommitRunningConfigUseCase() *usecases.CommitRunningConfigUseCase {
	return c.commitRunningUseCase
}

// Close는 컨테이너를 정리합니다
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
