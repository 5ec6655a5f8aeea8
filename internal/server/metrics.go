package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	emptyMatches    prometheus.Counter
	catalogEntries  prometheus.Gauge
	vocabularyTerms prometheus.Gauge
}

// newMetrics registers the server's collectors on reg. Each Server owns its
// registry so several can coexist in one process.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookrec_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "bookrec_http_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
				// similarity over a few thousand entries runs in well under a second
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"route"},
		),
		emptyMatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookrec_empty_matches_total",
			Help: "Recommendation queries that matched no catalog entry",
		}),
		catalogEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bookrec_catalog_entries",
			Help: "Number of entries in the loaded catalog",
		}),
		vocabularyTerms: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bookrec_vocabulary_terms",
			Help: "Number of terms in the fitted TF-IDF vocabulary",
		}),
	}
}
