package service

import (
	"context"

	"github.com/alexanderramin/rebound/internal/contract"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metricsObserver struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsObserver registers use-case counters and latency histograms on reg.
// Outcomes are "ok", "internal", or the business error code.
func NewMetricsObserver(reg prometheus.Registerer) UseCaseObserver {
	factory := promauto.With(reg)
	return &metricsObserver{
		total: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rebound",
			Name:      "use_case_total",
			Help:      "Service use cases by name and outcome.",
		}, []string{"use_case", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rebound",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case"}),
	}
}

func (m *metricsObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	m.total.WithLabelValues(event.Name, outcome(event.Err)).Inc()
	m.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if re, ok := contract.AsRecoveryError(err); ok {
		return string(re.Code)
	}
	return "internal"
}

func isBusinessError(err error) bool {
	_, ok := contract.AsRecoveryError(err)
	return ok
}
