package metrics

import "github.com/prometheus/client_golang/prometheus"

// GatewayMetrics exposes counters/histograms for gateway operations.
type GatewayMetrics struct {
	operationsTotal  *prometheus.CounterVec
	operationSeconds *prometheus.HistogramVec
}

func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	m := &GatewayMetrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vaultpay",
			Subsystem: "gateway",
			Name:      "operations_total",
			Help:      "Total gateway operations by outcome",
		}, []string{"operation", "result"}),
		operationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "vaultpay",
			Subsystem: "gateway",
			Name:      "operation_seconds",
			Help:      "Latency of gateway operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operationsTotal, m.operationSeconds)
	return m
}

func (m *GatewayMetrics) ObserveOperation(operation, result string, seconds float64) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, result).Inc()
	m.operationSeconds.WithLabelValues(operation).Observe(seconds)
}
