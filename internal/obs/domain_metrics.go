package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// SelectionOpsTotal counts ledger mutations by operation and result.
	SelectionOpsTotal *prometheus.CounterVec
	// SubmitTotal counts checkout submissions by outcome.
	SubmitTotal *prometheus.CounterVec
	// CartServiceLatency records cart service call latency in milliseconds.
	CartServiceLatency *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		SelectionOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_ops_total",
			Help:      "Count of selection ledger mutations by operation and result.",
		}, []string{"op", "result"})
		SubmitTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_submit_total",
			Help:      "Count of checkout submissions by outcome.",
		}, []string{"result"})
		CartServiceLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cart_service_call_duration_ms",
			Help:      "Latency of cart service calls in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"call", "result"})

		SelectionOpsTotal = registerCounterVec(reg, SelectionOpsTotal)
		SubmitTotal = registerCounterVec(reg, SubmitTotal)
		CartServiceLatency = registerHistogramVec(reg, CartServiceLatency)
	})
}

// RegisterSessionGauge exposes the live session count via a gauge function.
func RegisterSessionGauge(namespace string, reg prometheus.Registerer, count func() int) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	g := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Number of live configurator sessions.",
	}, func() float64 { return float64(count()) })
	registerGaugeFunc(reg, g)
}
