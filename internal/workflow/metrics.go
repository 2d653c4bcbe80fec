package workflow

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vitox-e2e/internal/artifact"
)

// MetricsNamespace 指标命名空间
const MetricsNamespace = "vitox_e2e"

// Metrics 单次运行的指标
//
// 流程是一次性进程，没有 HTTP 端口；指标写入 node_exporter 的 textfile 目录。
// 每个 Metrics 使用独立的 Registry，测试之间互不干扰。
type Metrics struct {
	registry *prometheus.Registry

	StepsTotal       *prometheus.CounterVec
	StepDuration     *prometheus.HistogramVec
	ArtifactsTotal   *prometheus.CounterVec
	RunDuration      prometheus.Gauge
	LastRunSuccess   prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// NewMetrics 创建指标实例
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		StepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "steps_total",
				Help:      "Total workflow steps by step and status",
			},
			[]string{"step", "status"},
		),
		StepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Name:      "step_duration_seconds",
				Help:      "Workflow step duration in seconds",
				Buckets:   []float64{0.1, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
			},
			[]string{"step"},
		),
		ArtifactsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Name:      "artifacts_total",
				Help:      "Model artifacts by role and outcome",
			},
			[]string{"role", "outcome"},
		),
		RunDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: MetricsNamespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of the last run in seconds",
			},
		),
		LastRunSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: MetricsNamespace,
				Name:      "last_run_success",
				Help:      "1 if the last run succeeded, 0 otherwise",
			},
		),
		LastRunTimestamp: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: MetricsNamespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last run finished",
			},
		),
	}
}

// Registry 返回底层 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordStep 记录步骤结果
func (m *Metrics) RecordStep(step State, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	m.StepsTotal.WithLabelValues(string(step), status).Inc()
	m.StepDuration.WithLabelValues(string(step)).Observe(duration.Seconds())
}

// RecordArtifact 记录产物处理结果
func (m *Metrics) RecordArtifact(role artifact.Role, outcome artifact.Outcome) {
	m.ArtifactsTotal.WithLabelValues(string(role), string(outcome)).Inc()
}

// RecordRun 记录整次运行
func (m *Metrics) RecordRun(finished time.Time, duration time.Duration, success bool) {
	m.RunDuration.Set(duration.Seconds())
	m.LastRunTimestamp.Set(float64(finished.Unix()))
	if success {
		m.LastRunSuccess.Set(1)
	} else {
		m.LastRunSuccess.Set(0)
	}
}

// WriteTextfile 写入 textfile collector 文件（原子替换）
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
