package summary

import "github.com/prometheus/client_golang/prometheus"

type MetricsProvider struct {
	generated  *prometheus.CounterVec
	overruns   prometheus.Counter
	usageRatio prometheus.Gauge
}

func NewMetricsProvider(registry *prometheus.Registry) *MetricsProvider {
	if registry == nil {
		return nil
	}

	provider := &MetricsProvider{
		generated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ctxsum_summaries_generated_total",
				Help: "Total number of summaries generated by output format",
			},
			[]string{"format"},
		),
		overruns: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ctxsum_word_budget_overruns_total",
				Help: "Total number of text renderings that exceeded the word budget",
			},
		),
		usageRatio: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ctxsum_token_usage_ratio",
				Help: "Last observed token usage ratio",
			},
		),
	}

	registry.MustRegister(
		provider.generated,
		provider.overruns,
		provider.usageRatio,
	)

	return provider
}

func (p *MetricsProvider) IncrementGenerated(format string) {
	if p != nil && p.generated != nil {
		p.generated.WithLabelValues(format).Inc()
	}
}

func (p *MetricsProvider) IncrementOverruns() {
	if p != nil && p.overruns != nil {
		p.overruns.Inc()
	}
}

func (p *MetricsProvider) ObserveUsageRatio(ratio float64) {
	if p != nil && p.usageRatio != nil {
		p.usageRatio.Set(ratio)
	}
}
