package service

import (
	"context"

	"github.com/alexanderramin/rkam/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsUseCaseObserver records use-case counts and latencies in Prometheus.
type MetricsUseCaseObserver struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsUseCaseObserver creates the collectors and registers them with reg.
func NewMetricsUseCaseObserver(reg prometheus.Registerer) *MetricsUseCaseObserver {
	m := &MetricsUseCaseObserver{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rkam",
			Name:      "use_case_total",
			Help:      "Service use cases executed, by outcome code.",
		}, []string{"use_case", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rkam",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case"}),
	}
	if reg != nil {
		reg.MustRegister(m.total, m.duration)
	}
	return m
}

func (m *MetricsUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	code := "OK"
	if event.Err != nil {
		code = string(domain.ErrorKind(event.Err))
	}
	m.total.WithLabelValues(event.Name, code).Inc()
	m.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}
