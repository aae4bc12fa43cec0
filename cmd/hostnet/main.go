package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hostnet-agent/internal/infrastructure/config"
	"hostnet-agent/internal/infrastructure/container"
)

const command = "hostnet"

func main() {
	if exitCode := run(); exitCode != 0 {
		os.Exit(exitCode)
	}
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()

	cmd := cobra.Command{
		Use:           command,
		Version:       container.Version,
		Short:         "Translate legacy host network definitions into nmstate descriptors",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		buildCompileCmd(logger),
		buildCommitCmd(logger),
		buildServeCmd(logger),
	)

	if err := cmd.ExecuteContext(ctx); err != nil {
		errorString := err.Error()
		if strings.Contains(errorString, "arg(s)") || strings.Contains(errorString, "flag") || strings.Contains(errorString, "command") {
			fmt.Fprintf(os.Stderr, "Error: %s\n\n", errorString)
			fmt.Fprintln(os.Stderr, cmd.UsageString())
		} else {
			logger.WithError(err).Error("command failed")
		}
		return 1
	}

	return 0
}

// newLogger는 LOG_LEVEL 환경 변수를 반영한 JSON 로거를 만듭니다.
// 디스크립터가 stdout으로 나가므로 로그는 stderr에 씁니다.
func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)

	if logLevelStr := os.Getenv("LOG_LEVEL"); logLevelStr != "" {
		logLevel, err := logrus.ParseLevel(logLevelStr)
		if err != nil {
			logger.WithError(err).Warnf("Unknown LOG_LEVEL value: %s. Using default Info level.", logLevelStr)
		} else {
			logger.SetLevel(logLevel)
		}
	}
	return logger
}

// newContainer는 설정을 읽어 컨테이너를 만듭니다. runningFile이 주어지면 파일 소스로 덮어씁니다.
func newContainer(ctx context.Context, logger *logrus.Logger, runningFile string) (*container.Container, error) {
	cfg, err := config.NewEnvironmentConfigLoader().Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if runningFile != "" {
		cfg.Running.Source = config.RunningSourceFile
		cfg.Running.File = runningFile
	}

	appContainer, err := container.NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dependency injection container: %w", err)
	}
	return appContainer, nil
}

func closeContainer(appContainer *container.Container, logger *logrus.Logger) {
	if err := appContainer.Close(); err != nil {
		logger.WithError(err).Error("Failed to cleanup container")
	}
}
