package pricing

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	Hits      prometheus.Counter
	Misses    prometheus.Counter
	Fallbacks prometheus.Counter
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricing_cache_hits_total",
			Help: "Pricing lookups served from cache",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricing_cache_misses_total",
			Help: "Pricing lookups that went to the source",
		}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pricing_fallbacks_total",
			Help: "Pricing fetches that failed and returned built-in defaults",
		}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Fallbacks)
	return m
}

func (m *Metrics) hit() {
	if m != nil {
		m.Hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.Misses.Inc()
	}
}

func (m *Metrics) fallback() {
	if m != nil {
		m.Fallbacks.Inc()
	}
}
