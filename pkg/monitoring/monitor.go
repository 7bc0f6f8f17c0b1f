package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	ProfilesBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpulse_profiles_built_total",
			Help: "Learner profiles built by the engine",
		},
		[]string{"source"},
	)

	RecordsSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "learnpulse_records_skipped_total",
			Help: "Learning records rejected by validation",
		},
	)

	PredictionsByRisk = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpulse_predictions_total",
			Help: "Predictions grouped by overall risk level",
		},
		[]string{"risk_level"},
	)

	RealtimeInterventions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpulse_realtime_interventions_total",
			Help: "Real-time interventions triggered after a session",
		},
		[]string{"target_area"},
	)

	CacheResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpulse_profile_cache_total",
			Help: "Profile cache lookups",
		},
		[]string{"result"},
	)

	EngineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "learnpulse_engine_duration_seconds",
			Help:    "Time spent in engine operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"operation"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(ProfilesBuilt)
		prometheus.MustRegister(RecordsSkipped)
		prometheus.MustRegister(PredictionsByRisk)
		prometheus.MustRegister(RealtimeInterventions)
		prometheus.MustRegister(CacheResults)
		prometheus.MustRegister(EngineDuration)
	})
}

// ObserveEngine 记录一次引擎调用耗时，配合 defer 使用
func ObserveEngine(operation string) func() {
	start := time.Now()
	return func() {
		EngineDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
