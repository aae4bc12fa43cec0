package persistence

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"hostnet-agent/internal/domain/entities"
	"hostnet-agent/internal/domain/interfaces"
)

// SnapshotCache는 running configuration 스냅샷을 메모리에 보관하는 RunningConfigRepository입니다.
// serve 모드에서 요청마다 저장소를 읽지 않도록 하며, Refresh 또는 파일 감시로 갱신됩니다.
type SnapshotCache struct {
	source interfaces.RunningConfigRepository
	clock  interfaces.Clock
	logger *logrus.Logger

	mu       sync.RWMutex
	snapshot *entities.RunningSnapshot
	loadedAt time.Time

	listenersMu sync.Mutex
	listeners   []func(error)
}

// NewSnapshotCache는 새로운 SnapshotCache를 생성합니다
func NewSnapshotCache(source interfaces.RunningConfigRepository, clock interfaces.Clock, logger *logrus.Logger) *SnapshotCache {
	return &SnapshotCache{
		source: source,
		clock:  clock,
		logger: logger,
	}
}

// OnRefresh는 갱신 시도마다 결과를 받을 콜백을 등록합니다
func (c *SnapshotCache) OnRefresh(fn func(error)) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Refresh는 원본 저장소에서 스냅샷을 다시 읽습니다. 실패하면 이전 스냅샷을 유지합니다.
func (c *SnapshotCache) Refresh(ctx context.Context) error {
	snapshot, err := c.source.Load(ctx)
	if err == nil {
		c.store(snapshot)
		c.logger.WithField("source", c.source.Source()).Debug("running configuration 스냅샷 갱신")
	} else {
		c.logger.WithError(err).WithField("source", c.source.Source()).Warn("running configuration 갱신 실패, 이전 스냅샷 유지")
	}
	c.notify(err)
	return err
}

// Load는 캐시된 스냅샷을 반환합니다. 아직 읽은 적이 없으면 원본에서 읽습니다.
func (c *SnapshotCache) Load(ctx context.Context) (*entities.RunningSnapshot, error) {
	c.mu.RLock()
	snapshot := c.snapshot
	c.mu.RUnlock()

	if snapshot != nil {
		return snapshot, nil
	}

	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, nil
}

// Save는 원본 저장소에 저장한 뒤 캐시를 교체합니다
func (c *SnapshotCache) Save(ctx context.Context, snapshot *entities.RunningSnapshot) error {
	if err := c.source.Save(ctx, snapshot); err != nil {
		return err
	}
	c.store(snapshot)
	return nil
}

// Source는 원본 저장소 종류를 반환합니다
func (c *SnapshotCache) Source() string {
	return c.source.Source()
}

// LoadedAt은 마지막으로 갱신에 성공한 시각을 반환합니다
func (c *SnapshotCache) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

func (c *SnapshotCache) store(snapshot *entities.RunningSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = snapshot
	c.loadedAt = c.clock.Now()
}

func (c *SnapshotCache) notify(err error) {
	c.listenersMu.Lock()
	listeners := append([]func(error){}, c.listeners...)
	c.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(err)
	}
}

// Watch는 path 파일이 바뀔 때마다 스냅샷을 갱신합니다. 컨텍스트가 취소될 때까지 블록합니다.
// rename으로 교체되는 파일도 감지하도록 상위 디렉토리를 감시합니다.
func (c *SnapshotCache) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch path %s: %w", dir, err)
	}

	c.logger.WithField("path", target).Info("running configuration 파일 감시 시작")

	relevantOps := fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&relevantOps == 0 {
				continue
			}

			c.logger.WithFields(logrus.Fields{
				"path": event.Name,
				"op":   event.Op.String(),
			}).Debug("running configuration 파일 변경 감지")

			_ = c.Refresh(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.WithError(err).Error("파일 감시 에러")

		case <-ctx.Done():
			c.logger.Debug("running configuration 파일 감시 종료")
			return nil
		}
	}
}
