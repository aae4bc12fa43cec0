package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"hostnet-agent/internal/application/polling"
	"hostnet-agent/internal/application/usecases"
	domainerrors "hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/infrastructure/config"
	"hostnet-agent/internal/infrastructure/container"
)

const maxRequestBytes = 1 << 20

func buildServeCmd(logger *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve descriptor compilation over HTTP and keep the running configuration fresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appContainer, err := newContainer(cmd.Context(), logger, "")
			if err != nil {
				return err
			}
			defer closeContainer(appContainer, logger)

			return NewApplication(appContainer, logger).Run(cmd.Context())
		},
	}
}

// Application은 serve 모드의 메인 애플리케이션 구조체입니다
type Application struct {
	container *container.Container
	logger    *logrus.Logger
}

// NewApplication은 새로운 Application을 생성합니다
func NewApplication(container *container.Container, logger *logrus.Logger) *Application {
	return &Application{
		container: container,
		logger:    logger,
	}
}

// Run은 HTTP 서버와 running configuration 갱신 루프를 실행합니다. 컨텍스트가 취소되면 정리 후 반환합니다.
func (a *Application) Run(ctx context.Context) error {
	cfg := a.container.GetConfig()
	cache := a.container.GetSnapshotCache()

	if err := cache.Refresh(ctx); err != nil {
		a.logger.WithError(err).Warn("초기 running configuration 조회 실패, 갱신 루프에서 재시도")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Health.Port,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.WithField("port", cfg.Health.Port).Info("HTTP server started (/healthz, /metrics, /v1/state, /v1/running)")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return a.reloadLoop(ctx, cfg)
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// reloadLoop는 파일 소스면 파일 변경을 감시하고, 데이터베이스 소스면 지수 백오프로 폴링합니다
func (a *Application) reloadLoop(ctx context.Context, cfg *config.Config) error {
	cache := a.container.GetSnapshotCache()

	if cfg.Running.Source == config.RunningSourceFile {
		return cache.Watch(ctx, cfg.Running.File)
	}

	strategy := polling.NewExponentialBackoffStrategy(
		cfg.Agent.ReloadInterval,
		cfg.Agent.BackoffMaxInterval,
		cfg.Agent.BackoffMultiplier,
		a.logger,
	)
	a.logger.WithFields(logrus.Fields{
		"base_interval": cfg.Agent.ReloadInterval,
		"max_interval":  cfg.Agent.BackoffMaxInterval,
		"multiplier":    cfg.Agent.BackoffMultiplier,
	}).Info("Running configuration polling enabled")

	return polling.NewPollingController(strategy, a.logger).Start(ctx, cache.Refresh)
}

func (a *Application) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/healthz", a.container.GetHealthService())
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/v1/state", a.handleCompile)
	mux.HandleFunc("/v1/running", a.handleCommit)
	return mux
}

// handleCompile은 요청 본문(JSON)을 디스크립터로 변환해 응답합니다
func (a *Application) handleCompile(w http.ResponseWriter, r *http.Request) {
	input, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}

	output, err := a.container.GetCompileStateUseCase().Execute(r.Context(), input)
	a.container.GetHealthService().RecordCompilation(err)
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("X-State-Fingerprint", output.Fingerprint)
	a.writeJSON(w, http.StatusOK, output.State)
}

// handleCommit은 적용에 성공한 요청을 running configuration에 반영합니다
func (a *Application) handleCommit(w http.ResponseWriter, r *http.Request) {
	input, ok := a.decodeRequest(w, r)
	if !ok {
		return
	}

	output, err := a.container.GetCommitRunningConfigUseCase().Execute(r.Context(), input)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]int{
		"networks": output.Networks,
		"bonds":    output.Bonds,
	})
}

func (a *Application) decodeRequest(w http.ResponseWriter, r *http.Request) (usecases.CompileStateInput, bool) {
	var input usecases.CompileStateInput
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return input, false
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&input); err != nil {
		a.writeError(w, domainerrors.NewValidationError("요청 본문을 해석할 수 없습니다", err))
		return input, false
	}
	return input, true
}

func (a *Application) writeError(w http.ResponseWriter, err error) {
	a.writeJSON(w, statusCodeOf(err), map[string]string{
		"type":  domainerrors.TypeOf(err),
		"error": err.Error(),
	})
}

func (a *Application) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.WithError(err).Error("failed to encode response")
	}
}

// statusCodeOf는 도메인 에러 타입을 HTTP 상태 코드로 변환합니다
func statusCodeOf(err error) int {
	switch {
	case domainerrors.IsValidationError(err),
		domainerrors.IsMalformedOptionsError(err),
		domainerrors.IsInvalidIPConfigError(err):
		return http.StatusBadRequest
	case domainerrors.IsNotFoundError(err):
		return http.StatusNotFound
	case domainerrors.IsConflictError(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
