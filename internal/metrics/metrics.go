package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coordapi_requests_total",
		Help: "Total number of API requests by endpoint",
	}, []string{"endpoint"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coordapi_request_duration_ms",
		Help:    "Request duration in milliseconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"endpoint"})
	PointsConvertedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coordapi_points_converted_total",
		Help: "Total points converted by source and target coordinate system",
	}, []string{"from", "to"})
	ErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coordapi_errors_total",
		Help: "Total rejected requests by error kind",
	}, []string{"kind"})
	BatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coordapi_batch_size",
		Help:    "Number of points per batch request",
		Buckets: []float64{1, 10, 100, 1000, 5000, 10000, 50000},
	})
	RateLimitedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coordapi_rate_limited_total",
		Help: "Total requests rejected by the rate limiter",
	}, []string{"limiter"})
	AMapRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coordapi_amap_requests_total",
		Help: "Total amap REST requests",
	})
	AMapSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coordapi_amap_success_total",
		Help: "Total amap REST successes",
	})
	AMapFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coordapi_amap_fail_total",
		Help: "Total amap REST failures",
	})
	AMapDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coordapi_amap_duration_ms",
		Help:    "AMap REST call duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(PointsConvertedTotal)
	prometheus.MustRegister(ErrorsTotal)
	prometheus.MustRegister(BatchSize)
	prometheus.MustRegister(RateLimitedTotal)
	prometheus.MustRegister(AMapRequestsTotal)
	prometheus.MustRegister(AMapSuccessTotal)
	prometheus.MustRegister(AMapFailTotal)
	prometheus.MustRegister(AMapDurationMs)
}

// 文档注释：返回 Prometheus 指标处理器，在主入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
