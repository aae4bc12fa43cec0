package config

import (
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"

	"hostnet-agent/internal/domain/errors"
)

// EnvPrefix는 모든 설정 환경 변수의 접두사입니다
const EnvPrefix = "HOSTNET"

// running configuration 저장소 종류
const (
	RunningSourceFile  = "file"
	RunningSourceMySQL = "mysql"
)

// 출력 형식
const (
	OutputFormatYAML = "yaml"
	OutputFormatJSON = "json"
)

// Config is a struct that holds application configuration
type Config struct {
	Agent    AgentConfig    `envconfig:"AGENT"`
	Running  RunningConfig  `envconfig:"RUNNING"`
	Database DatabaseConfig `envconfig:"DB"`
	Health   HealthConfig   `envconfig:"HEALTH"`
}

// AgentConfig is a struct that holds compiler and reload configuration
type AgentConfig struct {
	TrackRouteRemoval  bool          `split_words:"true" default:"false"`
	OutputFormat       string        `split_words:"true" default:"yaml"`
	ReloadInterval     time.Duration `split_words:"true" default:"30s"`
	BackoffMaxInterval time.Duration `split_words:"true" default:"5m"`
	BackoffMultiplier  float64       `split_words:"true" default:"2.0"`
	BackupDir          string        `split_words:"true" default:"/var/lib/hostnet/backups"`
}

// RunningConfig is a struct that holds running configuration source settings
type RunningConfig struct {
	Source string `default:"file"`
	File   string `default:"/var/lib/hostnet/running.yaml"`
}

// DatabaseConfig is a struct that holds database configuration
type DatabaseConfig struct {
	Host         string        `default:"127.0.0.1"`
	Port         string        `default:"3306"`
	User         string        `default:"hostnet"`
	Password     string
	Name         string        `default:"hostnet"`
	MaxOpenConns int           `split_words:"true" default:"10"`
	MaxIdleConns int           `split_words:"true" default:"5"`
	MaxLifetime  time.Duration `split_words:"true" default:"5m"`
}

// HealthConfig is a struct that holds health check configuration
type HealthConfig struct {
	Port string `default:"8080"`
}

// ConfigLoader is an interface for loading configuration
type ConfigLoader interface {
	Load() (*Config, error)
}

// EnvironmentConfigLoader is an implementation that loads configuration from environment variables
type EnvironmentConfigLoader struct{}

// NewEnvironmentConfigLoader creates a new EnvironmentConfigLoader
func NewEnvironmentConfigLoader() ConfigLoader {
	return &EnvironmentConfigLoader{}
}

// Load loads configuration from HOSTNET_* environment variables
func (l *EnvironmentConfigLoader) Load() (*Config, error) {
	config := &Config{}
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return nil, errors.NewValidationError("failed to parse environment configuration", err)
	}

	if err := l.validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validate validates the configuration
func (l *EnvironmentConfigLoader) validate(config *Config) error {
	// Validate running configuration source
	switch config.Running.Source {
	case RunningSourceFile:
		if config.Running.File == "" {
			return errors.NewValidationError("running configuration file not configured", nil)
		}
	case RunningSourceMySQL:
		if err := l.validateDatabase(config.Database); err != nil {
			return err
		}
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported running configuration source: %q", config.Running.Source), nil)
	}

	// Validate agent configuration
	switch config.Agent.OutputFormat {
	case OutputFormatYAML, OutputFormatJSON:
	default:
		return errors.NewValidationError(fmt.Sprintf("unsupported output format: %q", config.Agent.OutputFormat), nil)
	}
	if config.Agent.ReloadInterval <= 0 {
		return errors.NewValidationError("invalid reload interval", nil)
	}
	if config.Agent.BackoffMaxInterval < config.Agent.ReloadInterval {
		return errors.NewValidationError("backoff max interval must not be shorter than reload interval", nil)
	}
	if config.Agent.BackoffMultiplier <= 1 {
		return errors.NewValidationError("backoff multiplier must be greater than 1", nil)
	}

	// Validate health check configuration
	if config.Health.Port == "" {
		return errors.NewValidationError("health check port not configured", nil)
	}

	return nil
}

func (l *EnvironmentConfigLoader) validateDatabase(db DatabaseConfig) error {
	if db.Host == "" {
		return errors.NewValidationError("database host not configured", nil)
	}
	if db.Port == "" {
		return errors.NewValidationError("database port not configured", nil)
	}
	if db.User == "" {
		return errors.NewValidationError("database user not configured", nil)
	}
	if db.Name == "" {
		return errors.NewValidationError("database name not configured", nil)
	}
	return nil
}

// DSN은 go-sql-driver/mysql 연결 문자열을 생성합니다
func (db DatabaseConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = db.User
	cfg.Passwd = db.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(db.Host, db.Port)
	cfg.DBName = db.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}
