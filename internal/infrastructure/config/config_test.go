package config

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostnet-agent/internal/domain/errors"
)

func TestEnvironmentConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name      string
		envVars   map[string]string
		wantError bool
		validate  func(*testing.T, *Config)
	}{
		{
			name:      "기본 설정값 사용",
			envVars:   map[string]string{},
			wantError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, RunningSourceFile, cfg.Running.Source)
				assert.Equal(t, "/var/lib/hostnet/running.yaml", cfg.Running.File)
				assert.Equal(t, "127.0.0.1", cfg.Database.Host)
				assert.Equal(t, "3306", cfg.Database.Port)
				assert.Equal(t, "hostnet", cfg.Database.User)
				assert.Equal(t, "", cfg.Database.Password)
				assert.Equal(t, "hostnet", cfg.Database.Name)
				assert.Equal(t, 10, cfg.Database.MaxOpenConns)
				assert.Equal(t, 5, cfg.Database.MaxIdleConns)
				assert.Equal(t, 5*time.Minute, cfg.Database.MaxLifetime)
				assert.False(t, cfg.Agent.TrackRouteRemoval)
				assert.Equal(t, OutputFormatYAML, cfg.Agent.OutputFormat)
				assert.Equal(t, 30*time.Second, cfg.Agent.ReloadInterval)
				assert.Equal(t, 5*time.Minute, cfg.Agent.BackoffMaxInterval)
				assert.Equal(t, 2.0, cfg.Agent.BackoffMultiplier)
				assert.Equal(t, "/var/lib/hostnet/backups", cfg.Agent.BackupDir)
				assert.Equal(t, "8080", cfg.Health.Port)
			},
		},
		{
			name: "환경 변수로 설정 오버라이드",
			envVars: map[string]string{
				"HOSTNET_RUNNING_SOURCE":             "mysql",
				"HOSTNET_DB_HOST":                    "db.example",
				"HOSTNET_DB_PORT":                    "13306",
				"HOSTNET_DB_USER":                    "custom-user",
				"HOSTNET_DB_PASSWORD":                "custom-pass",
				"HOSTNET_DB_NAME":                    "custom-db",
				"HOSTNET_DB_MAX_OPEN_CONNS":          "20",
				"HOSTNET_AGENT_TRACK_ROUTE_REMOVAL":  "true",
				"HOSTNET_AGENT_OUTPUT_FORMAT":        "json",
				"HOSTNET_AGENT_RELOAD_INTERVAL":      "10s",
				"HOSTNET_AGENT_BACKOFF_MAX_INTERVAL": "1m",
				"HOSTNET_AGENT_BACKOFF_MULTIPLIER":   "1.5",
				"HOSTNET_AGENT_BACKUP_DIR":           "/custom/backup",
				"HOSTNET_HEALTH_PORT":                "9090",
			},
			wantError: false,
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, RunningSourceMySQL, cfg.Running.Source)
				assert.Equal(t, "db.example", cfg.Database.Host)
				assert.Equal(t, "13306", cfg.Database.Port)
				assert.Equal(t, "custom-user", cfg.Database.User)
				assert.Equal(t, "custom-pass", cfg.Database.Password)
				assert.Equal(t, "custom-db", cfg.Database.Name)
				assert.Equal(t, 20, cfg.Database.MaxOpenConns)
				assert.True(t, cfg.Agent.TrackRouteRemoval)
				assert.Equal(t, OutputFormatJSON, cfg.Agent.OutputFormat)
				assert.Equal(t, 10*time.Second, cfg.Agent.ReloadInterval)
				assert.Equal(t, time.Minute, cfg.Agent.BackoffMaxInterval)
				assert.Equal(t, 1.5, cfg.Agent.BackoffMultiplier)
				assert.Equal(t, "/custom/backup", cfg.Agent.BackupDir)
				assert.Equal(t, "9090", cfg.Health.Port)
			},
		},
		{
			name:      "지원하지 않는 running 저장소",
			envVars:   map[string]string{"HOSTNET_RUNNING_SOURCE": "etcd"},
			wantError: true,
		},
		{
			name:      "빈 running 파일 경로",
			envVars:   map[string]string{"HOSTNET_RUNNING_FILE": ""},
			wantError: true,
		},
		{
			name:      "지원하지 않는 출력 형식",
			envVars:   map[string]string{"HOSTNET_AGENT_OUTPUT_FORMAT": "xml"},
			wantError: true,
		},
		{
			name:      "잘못된 reload 간격",
			envVars:   map[string]string{"HOSTNET_AGENT_RELOAD_INTERVAL": "0s"},
			wantError: true,
		},
		{
			name:      "파싱할 수 없는 reload 간격",
			envVars:   map[string]string{"HOSTNET_AGENT_RELOAD_INTERVAL": "soon"},
			wantError: true,
		},
		{
			name: "최대 백오프가 reload 간격보다 짧음",
			envVars: map[string]string{
				"HOSTNET_AGENT_RELOAD_INTERVAL":      "1m",
				"HOSTNET_AGENT_BACKOFF_MAX_INTERVAL": "30s",
			},
			wantError: true,
		},
		{
			name:      "1 이하의 백오프 계수",
			envVars:   map[string]string{"HOSTNET_AGENT_BACKOFF_MULTIPLIER": "1"},
			wantError: true,
		},
		{
			name:      "빈 헬스체크 포트",
			envVars:   map[string]string{"HOSTNET_HEALTH_PORT": ""},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			loader := NewEnvironmentConfigLoader()
			cfg, err := loader.Load()

			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestEnvironmentConfigLoader_validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Agent: AgentConfig{
				OutputFormat:       OutputFormatYAML,
				ReloadInterval:     30 * time.Second,
				BackoffMaxInterval: 5 * time.Minute,
				BackoffMultiplier:  2,
			},
			Running:  RunningConfig{Source: RunningSourceMySQL},
			Database: DatabaseConfig{Host: "db", Port: "3306", User: "hostnet", Name: "hostnet"},
			Health:   HealthConfig{Port: "8080"},
		}
	}

	loader := &EnvironmentConfigLoader{}
	require.NoError(t, loader.validate(valid()))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "DB 호스트 없음", mutate: func(c *Config) { c.Database.Host = "" }},
		{name: "DB 포트 없음", mutate: func(c *Config) { c.Database.Port = "" }},
		{name: "DB 사용자 없음", mutate: func(c *Config) { c.Database.User = "" }},
		{name: "DB 이름 없음", mutate: func(c *Config) { c.Database.Name = "" }},
		{name: "running 파일 없음", mutate: func(c *Config) { c.Running = RunningConfig{Source: RunningSourceFile} }},
		{name: "헬스체크 포트 없음", mutate: func(c *Config) { c.Health.Port = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := loader.validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{Host: "db.example", Port: "3306", User: "hostnet", Password: "secret", Name: "hostnet"}

	parsed, err := mysql.ParseDSN(db.DSN())
	require.NoError(t, err)
	assert.Equal(t, "hostnet", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.example:3306", parsed.Addr)
	assert.Equal(t, "hostnet", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}
