package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	IngestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sourcing_ingest_duration_seconds",
			Help:    "Article ingestion duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"source_type"},
	)

	IngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sourcing_ingest_total",
			Help: "Total number of ingestion attempts",
		},
		[]string{"status"},
	)

	RankDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sourcing_rank_duration_seconds",
			Help:    "Match ranking duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
	)

	RelevanceScore = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sourcing_relevance_score",
			Help:    "Relevance scores produced by ranking",
			Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0, 1.3},
		},
	)

	ThesisSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sourcing_thesis_submissions_total",
			Help: "Total thesis submissions",
		},
	)

	ThesisPoints = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sourcing_thesis_points",
			Help:    "Key points parsed per thesis",
			Buckets: []float64{1, 2, 3, 5, 10, 20, 50},
		},
	)

	EmbeddingFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sourcing_embedding_fallbacks_total",
			Help: "Remote embedding calls that degraded to the hash fallback",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sourcing_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sourcing_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)

	ArticlesStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sourcing_articles_stored_total",
			Help: "Total articles stored",
		},
	)

	ScrapesBlocked = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sourcing_scrapes_blocked_total",
			Help: "Scrapes refused by robots policy or anti-bot pages",
		},
	)
)

func Init() {
	prometheus.MustRegister(IngestDuration)
	prometheus.MustRegister(IngestTotal)
	prometheus.MustRegister(RankDuration)
	prometheus.MustRegister(RelevanceScore)
	prometheus.MustRegister(ThesisSubmissions)
	prometheus.MustRegister(ThesisPoints)
	prometheus.MustRegister(EmbeddingFallbacks)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(ArticlesStored)
	prometheus.MustRegister(ScrapesBlocked)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
