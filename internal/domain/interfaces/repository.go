package interfaces

import (
	"context"

	"hostnet-agent/internal/domain/entities"
)

// RunningConfig는 마지막으로 적용에 성공한 설정을 읽기 전용으로 제공하는 인터페이스입니다
type RunningConfig interface {
	// Networks는 네트워크 이름 → 적용된 속성 매핑을 반환합니다
	Networks() map[string]entities.NetworkAttributes

	// Bonds는 본드 이름 → 적용된 속성 매핑을 반환합니다
	Bonds() map[string]entities.BondAttributes
}

// RunningConfigRepository는 running configuration 저장소 인터페이스입니다
type RunningConfigRepository interface {
	// Load는 현재 running configuration의 불변 스냅샷을 조회합니다
	Load(ctx context.Context) (*entities.RunningSnapshot, error)

	// Save는 스냅샷 전체를 running configuration으로 저장합니다
	Save(ctx context.Context, snapshot *entities.RunningSnapshot) error

	// Source는 저장소 종류를 반환합니다 (file, mysql)
	Source() string
}

// BackupService는 덮어쓰기 전에 파일을 보관하는 서비스 인터페이스입니다
type BackupService interface {
	// CreateBackup은 path의 현재 내용을 백업 디렉토리에 타임스탬프를 붙여 복사합니다.
	// 원본이 없으면 아무것도 하지 않습니다.
	CreateBackup(ctx context.Context, name string, path string) error
}
