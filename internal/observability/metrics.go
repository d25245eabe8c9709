package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartbanner_requests_total",
			Help: "Total banner HTTP requests",
		}, []string{"code"},
	)
	Latency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "smartbanner_request_duration_seconds",
		Help:    "Request latency seconds",
		Buckets: prometheus.DefBuckets,
	})
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "smartbanner_in_flight",
		Help: "In-flight HTTP requests",
	})
	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartbanner_decisions_total",
			Help: "Banner decisions by platform and reason",
		}, []string{"platform", "reason"},
	)
	Actions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartbanner_actions_total",
			Help: "User actions by kind and whether they changed state",
		}, []string{"action", "applied"},
	)
	CatalogRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartbanner_catalog_refreshes_total",
			Help: "Page catalog refreshes by result",
		}, []string{"result"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal, Latency, InFlight, Decisions, Actions, CatalogRefreshes)
}

func MetricsHandler() http.Handler { return promhttp.Handler() }

type rec struct {
	http.ResponseWriter
	code int
}

func (r *rec) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func Measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		InFlight.Inc()
		defer InFlight.Dec()

		rr := &rec{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rr, r)

		Latency.Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(strconv.Itoa(rr.code)).Inc()
	})
}
