package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"hostnet-agent/internal/domain/interfaces"
)

// HealthService provides health check functionality
type HealthService struct {
	mu                 sync.RWMutex
	clock              interfaces.Clock
	logger             *logrus.Logger
	startTime          time.Time
	runningHealthy     bool
	runningError       error
	runningSource      string
	lastReload         time.Time
	compiledStates     int64
	failedCompilations int64
}

// HealthStatus represents health check status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the health check response struct
type HealthResponse struct {
	Status     HealthStatus           `json:"status"`
	Timestamp  string                 `json:"timestamp"`
	Components map[string]interface{} `json:"components"`
	Statistics map[string]interface{} `json:"statistics"`
}

// NewHealthService creates a new HealthService
func NewHealthService(clock interfaces.Clock, runningSource string, logger *logrus.Logger) *HealthService {
	return &HealthService{
		clock:         clock,
		logger:        logger,
		startTime:     clock.Now(),
		runningSource: runningSource,
	}
}

// UpdateRunningConfigHealth records the result of the latest running configuration reload
func (h *HealthService) UpdateRunningConfigHealth(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.runningHealthy = err == nil
	h.runningError = err
	if err == nil {
		h.lastReload = h.clock.Now()
	}
}

// RecordCompilation records the outcome of a descriptor compilation
func (h *HealthService) RecordCompilation(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err != nil {
		h.failedCompilations++
		return
	}
	h.compiledStates++
}

// ServeHTTP handles the HTTP health check endpoint
func (h *HealthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := h.buildHealthResponse()

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("failed to encode health check response")
	}
}

// buildHealthResponse constructs the health check response
func (h *HealthService) buildHealthResponse() HealthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := h.clock.Now()

	lastReload := ""
	if !h.lastReload.IsZero() {
		lastReload = h.lastReload.Format(time.RFC3339)
	}

	components := map[string]interface{}{
		"running_config": map[string]interface{}{
			"healthy":     h.runningHealthy,
			"source":      h.runningSource,
			"last_reload": lastReload,
			"error":       formatError(h.runningError),
		},
	}

	statistics := map[string]interface{}{
		"compiled_states":     h.compiledStates,
		"failed_compilations": h.failedCompilations,
		"uptime":              formatUptime(now.Sub(h.startTime)),
	}

	return HealthResponse{
		Status:     h.determineOverallStatus(),
		Timestamp:  now.Format(time.RFC3339),
		Components: components,
		Statistics: statistics,
	}
}

// determineOverallStatus determines the overall health status
func (h *HealthService) determineOverallStatus() HealthStatus {
	// Without a running configuration snapshot every removal would be ignored
	if !h.runningHealthy {
		return StatusUnhealthy
	}

	// If failed compilations are 50% or more, status is degraded
	if h.failedCompilations > 0 {
		failureRate := float64(h.failedCompilations) / float64(h.compiledStates+h.failedCompilations)
		if failureRate >= 0.5 {
			return StatusDegraded
		}
	}

	return StatusHealthy
}

// formatError formats an error to string
func formatError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// formatUptime formats uptime duration to human-readable format
func formatUptime(duration time.Duration) string {
	days := int(duration.Hours()) / 24
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh%dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
