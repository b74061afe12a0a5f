package instrument

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus collectors shared by Metered operations.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the operation collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kvtrace",
			Subsystem: "operation",
			Name:      "calls_total",
			Help:      "Total number of instrumented operation calls by outcome",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kvtrace",
			Subsystem: "operation",
			Name:      "duration_seconds",
			Help:      "Duration of instrumented operation calls",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{m.calls, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register operation metrics: %w", err)
		}
	}

	return m, nil
}

type meteredOperation struct {
	name    string
	metrics *Metrics
	next    Operation
}

// Metered returns an Operation that records one call, its outcome and its
// duration in m under the operation label name. The result and error of next
// pass through unchanged.
func Metered(name string, m *Metrics, next Operation) Operation {
	return &meteredOperation{name: name, metrics: m, next: next}
}

func (o *meteredOperation) Invoke(ctx context.Context, args ...any) (any, error) {
	start := time.Now()
	result, err := o.next.Invoke(ctx, args...)
	o.metrics.duration.WithLabelValues(o.name).Observe(time.Since(start).Seconds())

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	o.metrics.calls.WithLabelValues(o.name, outcome).Inc()

	return result, err
}

// WriteMetrics writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
