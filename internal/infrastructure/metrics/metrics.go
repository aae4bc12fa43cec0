package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 디스크립터 컴파일 관련 메트릭
	CompilationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostnet_compilations_total",
			Help: "Total number of state compilations",
		},
		[]string{"status"}, // success, failed
	)

	CompileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hostnet_compile_duration_seconds",
			Help:    "Time spent compiling a desired-state descriptor",
			Buckets: prometheus.DefBuckets,
		},
	)

	EmittedInterfaces = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostnet_emitted_interfaces_total",
			Help: "Total number of interface states emitted in descriptors",
		},
		[]string{"state"}, // up, absent
	)

	EmittedRoutes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hostnet_emitted_routes_total",
			Help: "Total number of route entries emitted in descriptors",
		},
	)

	// running configuration 관련 메트릭
	RunningConfigLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostnet_running_config_loads_total",
			Help: "Total number of running configuration loads",
		},
		[]string{"source", "status"}, // file|mysql, success|failed
	)

	ReloadBackoffLevel = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostnet_reload_backoff_level",
			Help: "Current running configuration reload backoff level (0 = no backoff)",
		},
	)

	// 데이터베이스 관련 메트릭
	DBConnectionStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostnet_db_connection_status",
			Help: "Database connection status (1 = connected, 0 = disconnected)",
		},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostnet_db_query_duration_seconds",
			Help:    "Time spent executing database queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type"}, // running_networks, running_bonds
	)

	// 에러 메트릭
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostnet_errors_total",
			Help: "Total number of errors encountered",
		},
		[]string{"error_type"}, // VALIDATION, CONFLICT, MALFORMED_OPTIONS, ...
	)

	// 시스템 정보
	AgentInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hostnet_agent_info",
			Help: "Agent information",
		},
		[]string{"version", "running_source"},
	)
)

// RecordCompilation은 컴파일 결과와 소요 시간을 기록합니다
func RecordCompilation(status string, duration float64) {
	CompilationsTotal.WithLabelValues(status).Inc()
	CompileDuration.Observe(duration)
}

// RecordEmittedInterface는 디스크립터에 포함된 인터페이스 상태를 기록합니다
func RecordEmittedInterface(state string) {
	EmittedInterfaces.WithLabelValues(state).Inc()
}

// RecordEmittedRoutes는 디스크립터에 포함된 라우트 항목 수를 기록합니다
func RecordEmittedRoutes(count int) {
	EmittedRoutes.Add(float64(count))
}

// RecordRunningConfigLoad는 running configuration 조회 결과를 기록합니다
func RecordRunningConfigLoad(source, status string) {
	RunningConfigLoads.WithLabelValues(source, status).Inc()
}

// RecordDBQuery는 데이터베이스 쿼리 시간을 기록합니다
func RecordDBQuery(queryType string, duration float64) {
	DBQueryDuration.WithLabelValues(queryType).Observe(duration)
}

// RecordError는 에러 발생을 기록합니다
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// SetBackoffLevel은 현재 백오프 레벨을 설정합니다
func SetBackoffLevel(level float64) {
	ReloadBackoffLevel.Set(level)
}

// SetDBConnectionStatus는 데이터베이스 연결 상태를 설정합니다
func SetDBConnectionStatus(connected bool) {
	if connected {
		DBConnectionStatus.Set(1)
	} else {
		DBConnectionStatus.Set(0)
	}
}

// SetAgentInfo는 에이전트 정보를 설정합니다
func SetAgentInfo(version, runningSource string) {
	AgentInfo.WithLabelValues(version, runningSource).Set(1)
}
