package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	searchQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scripture_search_queries_total",
			Help: "Search queries by outcome (hit, miss, short).",
		},
		[]string{"outcome"},
	)

	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scripture_search_duration_seconds",
			Help:    "Time spent scoring a query against the index.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)

	searchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scripture_search_results",
			Help:    "Number of verses returned per query.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	indexBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scripture_index_builds_total",
			Help: "Corpus loads, split by whether the index was rebuilt or reused.",
		},
		[]string{"result"},
	)

	indexedVerses = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scripture_indexed_verses",
			Help: "Verses in the active search index.",
		},
	)

	chatReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_replies_total",
			Help: "Assistant replies by outcome (ok, blocked, error).",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(searchQueries, searchDuration, searchResults, indexBuilds, indexedVerses, chatReplies)
}

// ObserveSearch records one query. short marks queries rejected for length.
func ObserveSearch(d time.Duration, results int, short bool) {
	switch {
	case short:
		searchQueries.WithLabelValues("short").Inc()
		return
	case results == 0:
		searchQueries.WithLabelValues("miss").Inc()
	default:
		searchQueries.WithLabelValues("hit").Inc()
	}
	searchDuration.Observe(d.Seconds())
	searchResults.Observe(float64(results))
}

// ObserveIndex records a corpus load. reused is true when an index with the
// same fingerprint was kept.
func ObserveIndex(verses int, reused bool) {
	if reused {
		indexBuilds.WithLabelValues("reused").Inc()
	} else {
		indexBuilds.WithLabelValues("built").Inc()
	}
	indexedVerses.Set(float64(verses))
}

// ObserveReply records the outcome of one assistant reply.
func ObserveReply(outcome string) {
	chatReplies.WithLabelValues(outcome).Inc()
}
