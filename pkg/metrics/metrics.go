// Package metrics provides Prometheus metrics for the validator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/travigo/netex-validator/pkg/validation"
)

const (
	KindCommon = "common"
	KindLine   = "line"

	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	FilesValidatedTotal *prometheus.CounterVec
	FindingsTotal       *prometheus.CounterVec
	ValidationDuration  *prometheus.HistogramVec
	ReportsCleanedTotal prometheus.Counter
	QueueReadyCount     *prometheus.GaugeVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	filesValidatedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netex_validator_files_validated_total",
			Help: "Total number of validated files",
		},
		[]string{"kind", "outcome"},
	)

	findingsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netex_validator_findings_total",
			Help: "Total number of findings reported",
		},
		[]string{"rule", "severity"},
	)

	validationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netex_validator_file_duration_seconds",
			Help:    "Time spent validating one file",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	reportsCleanedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "netex_validator_reports_cleaned_total",
		Help: "Total number of completed reports whose shared data was removed",
	})

	queueReadyCount := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netex_validator_queue_ready",
			Help: "Deliveries waiting in each queue",
		},
		[]string{"queue"},
	)

	registry.MustRegister(
		filesValidatedTotal,
		findingsTotal,
		validationDuration,
		reportsCleanedTotal,
		queueReadyCount,
	)

	return &Metrics{
		Registry:            registry,
		FilesValidatedTotal: filesValidatedTotal,
		FindingsTotal:       findingsTotal,
		ValidationDuration:  validationDuration,
		ReportsCleanedTotal: reportsCleanedTotal,
		QueueReadyCount:     queueReadyCount,
	}
}

func FileKind(fileName string) string {
	if validation.IsCommonFile(fileName) {
		return KindCommon
	}
	return KindLine
}

// ObserveFile records the outcome of one file. A nil report means the file could not be validated.
func (m *Metrics) ObserveFile(fileName string, report *validation.Report, duration time.Duration) {
	kind := FileKind(fileName)
	m.ValidationDuration.WithLabelValues(kind).Observe(duration.Seconds())

	if report == nil || len(report.FailedRules) > 0 {
		m.FilesValidatedTotal.WithLabelValues(kind, OutcomeError).Inc()
	} else {
		outcome := OutcomeValid
		if report.HasErrors() {
			outcome = OutcomeInvalid
		}
		m.FilesValidatedTotal.WithLabelValues(kind, outcome).Inc()
	}
	if report == nil {
		return
	}

	for _, entry := range report.Entries {
		m.FindingsTotal.WithLabelValues(entry.RuleCode, string(entry.Severity)).Inc()
	}
}
