package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "hostnet-agent/internal/domain/errors"
	"hostnet-agent/internal/domain/nmstate"
	"hostnet-agent/internal/infrastructure/adapters"
	"hostnet-agent/internal/infrastructure/config"
	"hostnet-agent/internal/infrastructure/container"
)

const runningYAML = `networks:
  oldnet:
    nic: eth2
    bridged: true
`

func newTestApplication(t *testing.T) (*Application, string) {
	t.Helper()

	dir := t.TempDir()
	runningFile := filepath.Join(dir, "running.yaml")
	require.NoError(t, os.WriteFile(runningFile, []byte(runningYAML), 0o600))

	cfg := &config.Config{
		Agent: config.AgentConfig{
			OutputFormat:       config.OutputFormatYAML,
			ReloadInterval:     time.Second,
			BackoffMaxInterval: time.Minute,
			BackoffMultiplier:  2,
			BackupDir:          filepath.Join(dir, "backups"),
		},
		Running: config.RunningConfig{Source: config.RunningSourceFile, File: runningFile},
		Health:  config.HealthConfig{Port: "0"},
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	appContainer, err := container.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = appContainer.Close() })

	return NewApplication(appContainer, logger), runningFile
}

func post(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestApplication_CompileEndpoint(t *testing.T) {
	app, _ := newTestApplication(t)
	handler := app.routes()

	rec := post(t, handler, "/v1/state", `{
		"networks": {
			"ovirtmgmt": {"nic": "eth0", "bridged": true, "bootproto": "dhcp"},
			"oldnet": {"remove": true}
		}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-State-Fingerprint"))

	var state nmstate.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))

	names := make([]string, 0, len(state.Interfaces))
	for _, iface := range state.Interfaces {
		names = append(names, iface.Name)
	}
	assert.Equal(t, []string{"eth0", "eth2", "oldnet", "ovirtmgmt"}, names)
}

func TestApplication_CompileEndpoint_Errors(t *testing.T) {
	app, _ := newTestApplication(t)
	handler := app.routes()

	tests := []struct {
		name     string
		body     string
		httpCode int
		errType  string
	}{
		{
			name:     "본문 해석 실패",
			body:     `{"networks": [`,
			httpCode: http.StatusBadRequest,
			errType:  "VALIDATION",
		},
		{
			name:     "잘못된 본딩 옵션",
			body:     `{"bondings": {"bond0": {"nics": ["eth0"], "options": "miimon"}}}`,
			httpCode: http.StatusBadRequest,
			errType:  "MALFORMED_OPTIONS",
		},
		{
			name:     "같은 장치에 서로 다른 IP",
			body:     `{"networks": {"a": {"nic": "eth0", "bootproto": "dhcp"}, "b": {"nic": "eth0", "ipaddr": "192.0.2.1", "netmask": "255.255.255.0"}}}`,
			httpCode: http.StatusConflict,
			errType:  "CONFLICT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, handler, "/v1/state", tt.body)
			assert.Equal(t, tt.httpCode, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.errType, body["type"])
		})
	}
}

func TestApplication_MethodNotAllowed(t *testing.T) {
	app, _ := newTestApplication(t)
	rec := httptest.NewRecorder()
	app.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/state", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestApplication_CommitEndpoint(t *testing.T) {
	app, runningFile := newTestApplication(t)
	handler := app.routes()

	rec := post(t, handler, "/v1/running", `{
		"networks": {"oldnet": {"remove": true}, "storage": {"nic": "eth3", "vlan": 20}}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body["networks"])

	data, err := os.ReadFile(runningFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "storage:")
	assert.NotContains(t, string(data), "oldnet:")

	// 반영 후에는 삭제 요청이 무시됨
	rec = post(t, handler, "/v1/state", `{"networks": {"oldnet": {"remove": true}}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var state nmstate.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Empty(t, state.Interfaces)
}

func TestEncodeState(t *testing.T) {
	state := &nmstate.State{
		Interfaces: []nmstate.Interface{{Name: "eth0", State: nmstate.InterfaceStateUp}},
	}

	var yamlOut bytes.Buffer
	require.NoError(t, encodeState(&yamlOut, state, config.OutputFormatYAML))
	assert.Equal(t, "interfaces:\n  - name: eth0\n    state: up\n", yamlOut.String())

	var jsonOut bytes.Buffer
	require.NoError(t, encodeState(&jsonOut, state, config.OutputFormatJSON))
	assert.JSONEq(t, `{"interfaces":[{"name":"eth0","state":"up"}]}`, jsonOut.String())

	assert.Error(t, encodeState(io.Discard, state, "toml"))
}

func TestRequestFlags_Input(t *testing.T) {
	dir := t.TempDir()
	networks := filepath.Join(dir, "networks.json")
	bondings := filepath.Join(dir, "bondings.yaml")
	require.NoError(t, os.WriteFile(networks, []byte(`{"net1": {"nic": "eth0", "vlan": 10}}`), 0o600))
	require.NoError(t, os.WriteFile(bondings, []byte("bond0:\n  nics: [eth1, eth2]\n  options: mode=4\n"), 0o600))

	fs := adapters.NewRealFileSystem()

	request := requestFlags{networksFile: networks, bondingsFile: bondings}
	input, err := request.input(fs)
	require.NoError(t, err)
	assert.Equal(t, 10, input.Networks["net1"].VLAN)
	assert.Equal(t, []string{"eth1", "eth2"}, input.Bondings["bond0"].Nics)

	empty, err := (&requestFlags{}).input(fs)
	require.NoError(t, err)
	assert.Nil(t, empty.Networks)

	_, err = (&requestFlags{networksFile: filepath.Join(dir, "missing.yaml")}).input(fs)
	assert.Error(t, err)
}

func TestStatusCodeOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusCodeOf(domainerrors.NewValidationError("bad", nil)))
	assert.Equal(t, http.StatusBadRequest, statusCodeOf(domainerrors.NewInvalidIPConfigError("net1", "bad", nil)))
	assert.Equal(t, http.StatusNotFound, statusCodeOf(domainerrors.NewNotFoundError("gone")))
	assert.Equal(t, http.StatusConflict, statusCodeOf(domainerrors.NewConflictError("eth0", "clash")))
	assert.Equal(t, http.StatusInternalServerError, statusCodeOf(domainerrors.NewSystemError("boom", nil)))
}
