package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"hostnet-agent/internal/domain/constants"
	"hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/interfaces"
)

// BackupService는 running configuration 파일을 덮어쓰기 전에 백업을 남기는 서비스입니다
type BackupService struct {
	fileSystem interfaces.FileSystem
	clock      interfaces.Clock
	logger     *logrus.Logger
	backupDir  string
}

// NewBackupService는 새로운 BackupService를 생성합니다
func NewBackupService(
	fs interfaces.FileSystem,
	clock interfaces.Clock,
	logger *logrus.Logger,
	backupDir string,
) interfaces.BackupService {
	return &BackupService{
		fileSystem: fs,
		clock:      clock,
		logger:     logger,
		backupDir:  backupDir,
	}
}

// CreateBackup은 현재 파일의 백업을 생성합니다
func (s *BackupService) CreateBackup(ctx context.Context, name string, path string) error {
	if !s.fileSystem.Exists(path) {
		s.logger.WithFields(logrus.Fields{
			"name": name,
			"path": path,
		}).Debug("백업할 파일이 없음")
		return nil
	}

	content, err := s.fileSystem.ReadFile(path)
	if err != nil {
		return errors.NewSystemError("백업 원본 읽기 실패", err)
	}

	backupPath := s.backupPath(name, path)
	if err := s.fileSystem.WriteFile(backupPath, content, constants.RunningFilePermission); err != nil {
		return errors.NewSystemError("백업 파일 저장 실패", err)
	}

	s.logger.WithFields(logrus.Fields{
		"name":        name,
		"backup_path": backupPath,
	}).Info("백업 생성 완료")

	return nil
}

// backupPath는 백업 파일 경로를 만듭니다 (예: running_20250108_150405.000.yaml)
func (s *BackupService) backupPath(name, path string) string {
	timestamp := s.clock.Now().UTC().Format("20060102_150405.000")
	timestamp = strings.Replace(timestamp, ".", "_", 1)
	return filepath.Join(s.backupDir, fmt.Sprintf("%s_%s%s", name, timestamp, filepath.Ext(path)))
}
