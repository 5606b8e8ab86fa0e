package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seo_analysis_started_total",
		Help: "Total analyses started.",
	})
	AnalysisCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seo_analysis_completed_total",
		Help: "Total analyses completed.",
	})
	AnalysisFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seo_analysis_failed_total",
		Help: "Total analyses failed, by stage.",
	}, []string{"stage"})
	AnalysisCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "seo_analysis_cache_hits_total",
		Help: "Total analyze requests served from cache.",
	})
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "seo_analysis_duration_seconds",
		Help:    "End-to-end analysis duration.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})
	RetrievalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "seo_retrieval_duration_seconds",
		Help:    "Knowledge retrieval duration.",
		Buckets: prometheus.DefBuckets,
	})
	ChatTurns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seo_chat_turns_total",
		Help: "Chat turns, by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(AnalysisStarted)
	prometheus.MustRegister(AnalysisCompleted)
	prometheus.MustRegister(AnalysisFailed)
	prometheus.MustRegister(AnalysisCacheHits)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(RetrievalDuration)
	prometheus.MustRegister(ChatTurns)
}

// ObserveAnalysis records an analysis duration measured from start.
func ObserveAnalysis(start time.Time) {
	AnalysisDuration.Observe(time.Since(start).Seconds())
}

// ObserveRetrieval records a retrieval duration measured from start.
func ObserveRetrieval(start time.Time) {
	RetrievalDuration.Observe(time.Since(start).Seconds())
}

// Handler exposes the default registry in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
