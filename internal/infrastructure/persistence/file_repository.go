package persistence

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
	"hostnet-agent/internal/infrastructure/metrics"
)

// SourceFile은 파일 기반 저장소의 종류 이름입니다
const SourceFile = "file"

// FileRepository는 YAML 파일 기반의 RunningConfigRepository 구현체입니다
type FileRepository struct {
	fileSystem interfaces.FileSystem
	backup     interfaces.BackupService
	path       string
	logger     *logrus.Logger
}

// NewFileRepository는 새로운 FileRepository를 생성합니다. backup이 nil이면 백업 없이 저장합니다.
func NewFileRepository(
	fs interfaces.FileSystem,
	backup interfaces.BackupService,
	path string,
	logger *logrus.Logger,
) *FileRepository {
	return &FileRepository{
		fileSystem: fs,
		backup:     backup,
		path:       path,
		logger:     logger,
	}
}

// Load는 running configuration 파일을 읽습니다. 파일이 없으면 아무것도 적용되지 않은 호스트로 간주합니다.
func (r *FileRepository) Load(ctx context.Context) (*entities.RunningSnapshot, error) {
	snapshot, err := r.load()
	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.RecordRunningConfigLoad(SourceFile, status)
	return snapshot, err
}

func (r *FileRepository) load() (*entities.RunningSnapshot, error) {
	if !r.fileSystem.Exists(r.path) {
		r.logger.WithField("path", r.path).Info("running configuration 파일이 없음, 빈 설정으로 간주")
		return entities.EmptyRunningSnapshot(), nil
	}

	content, err := r.fileSystem.ReadFile(r.path)
	if err != nil {
		return nil, errors.NewSystemError("running configuration 파일 읽기 실패", err)
	}

	var doc runningDocument
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, errors.NewSystemError(fmt.Sprintf("running configuration 파일 파싱 실패: %s", r.path), err)
	}

	snapshot := doc.snapshot()
	r.logger.WithFields(logrus.Fields{
		"path":     r.path,
		"networks": len(doc.Networks),
		"bonds":    len(doc.Bonds),
	}).Debug("running configuration 조회 완료")

	return snapshot, nil
}

// Save는 스냅샷을 파일에 저장합니다. 기존 파일은 먼저 백업합니다.
func (r *FileRepository) Save(ctx context.Context, snapshot *entities.RunningSnapshot) error {
	content, err := yaml.Marshal(newRunningDocument(snapshot))
	if err != nil {
		return errors.NewSystemError("running configuration 직렬화 실패", err)
	}

	if r.backup != nil {
		if err := r.backup.CreateBackup(ctx, constants.RunningBackupName, r.path); err != nil {
			return err
		}
	}

	if err := r.fileSystem.WriteFile(r.path, content, constants.RunningFilePermission); err != nil {
		return errors.NewSystemError("running configuration 파일 저장 실패", err)
	}

	r.logger.WithField("path", r.path).Info("running configuration 저장 완료")
	return nil
}

// Source는 저장소 종류를 반환합니다
func (r *FileRepository) Source() string {
	return SourceFile
}

// Path는 running configuration 파일 경로를 반환합니다
func (r *FileRepository) Path() string {
	return r.path
}
