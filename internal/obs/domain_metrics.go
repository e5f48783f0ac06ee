package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuotePreviewTotal counts quote recomputations by outcome.
	QuotePreviewTotal *prometheus.CounterVec
	// QuoteComputeDuration records engine computation latency in milliseconds.
	QuoteComputeDuration prometheus.Histogram
	// QuoteExportTotal counts quote document exports by outcome.
	QuoteExportTotal *prometheus.CounterVec
	// SalesHandoffTotal counts send-to-sales handoffs by outcome.
	SalesHandoffTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific
// Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuotePreviewTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_preview_total",
			Help:      "Count of quote preview computations by outcome.",
		}, []string{"result"})
		QuoteComputeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_compute_duration_ms",
			Help:      "Quote engine computation latency in milliseconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		})
		QuoteExportTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_export_total",
			Help:      "Count of quote document exports by outcome.",
		}, []string{"result"})
		SalesHandoffTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_handoff_total",
			Help:      "Count of send-to-sales handoffs by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, QuotePreviewTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuotePreviewTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteComputeDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				QuoteComputeDuration = v
			}
		})
		mustRegisterCollector(reg, QuoteExportTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteExportTotal = v
			}
		})
		mustRegisterCollector(reg, SalesHandoffTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SalesHandoffTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
