package polling

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"hostnet-agent/internal/infrastructure/metrics"
)

// Strategy는 주기 작업의 다음 실행 간격을 결정하는 전략 인터페이스입니다
type Strategy interface {
	// NextInterval은 직전 실행 결과에 따라 다음 실행까지의 대기 시간을 반환합니다
	NextInterval(success bool) time.Duration
	// Reset은 전략을 초기 상태로 리셋합니다
	Reset()
}

// ExponentialBackoffStrategy는 실패가 이어질 때 간격을 지수적으로 늘리는 전략입니다
type ExponentialBackoffStrategy struct {
	baseInterval   time.Duration
	maxInterval    time.Duration
	multiplier     float64
	currentBackoff int
	logger         *logrus.Logger
}

// NewExponentialBackoffStrategy는 새로운 지수 백오프 전략을 생성합니다
func NewExponentialBackoffStrategy(
	baseInterval time.Duration,
	maxInterval time.Duration,
	multiplier float64,
	logger *logrus.Logger,
) *ExponentialBackoffStrategy {
	if multiplier <= 1 {
		multiplier = 2.0
	}
	if maxInterval < baseInterval {
		maxInterval = baseInterval
	}

	return &ExponentialBackoffStrategy{
		baseInterval: baseInterval,
		maxInterval:  maxInterval,
		multiplier:   multiplier,
		logger:       logger,
	}
}

// NextInterval은 다음 실행까지의 대기 시간을 계산합니다.
// n번째 연속 실패 후 간격은 base * multiplier^(n-1)이며 maxInterval을 넘지 않습니다.
func (s *ExponentialBackoffStrategy) NextInterval(success bool) time.Duration {
	if success {
		if s.currentBackoff > 0 {
			s.logger.WithField("backoff_count", s.currentBackoff).Debug("reload 성공, 백오프 리셋")
			s.Reset()
		}
		return s.baseInterval
	}

	s.currentBackoff++
	metrics.SetBackoffLevel(float64(s.currentBackoff))

	backoff := float64(s.baseInterval) * math.Pow(s.multiplier, float64(s.currentBackoff-1))
	next := s.maxInterval
	if backoff < float64(s.maxInterval) {
		next = time.Duration(backoff)
	}

	s.logger.WithFields(logrus.Fields{
		"backoff_count": s.currentBackoff,
		"next_interval": next,
		"max_interval":  s.maxInterval,
	}).Debug("reload 백오프 간격 계산")

	return next
}

// Reset은 백오프 카운터를 리셋합니다
func (s *ExponentialBackoffStrategy) Reset() {
	s.currentBackoff = 0
	metrics.SetBackoffLevel(0)
}

// PollingController는 전략에 따라 작업을 주기적으로 실행합니다.
// serve 모드에서 running configuration 스냅샷을 다시 읽는 데 사용됩니다.
type PollingController struct {
	strategy Strategy
	logger   *logrus.Logger
}

// NewPollingController는 새로운 폴링 컨트롤러를 생성합니다
func NewPollingController(strategy Strategy, logger *logrus.Logger) *PollingController {
	return &PollingController{
		strategy: strategy,
		logger:   logger,
	}
}

// Start는 컨텍스트가 취소될 때까지 task를 반복 실행합니다.
// 첫 실행은 기본 간격 후에 일어나며 task 실패는 루프를 멈추지 않습니다.
func (c *PollingController) Start(ctx context.Context, task func(context.Context) error) error {
	timer := time.NewTimer(c.strategy.NextInterval(true))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("폴링 중지")
			return nil

		case <-timer.C:
			err := task(ctx)
			if err != nil {
				c.logger.WithError(err).Error("폴링 작업 실패")
			}
			timer.Reset(c.strategy.NextInterval(err == nil))
		}
	}
}
