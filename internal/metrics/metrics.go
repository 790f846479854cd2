package metrics

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the watch daemon.
type Metrics struct {
	ScansTotal   *prometheus.CounterVec // labels: result=ok|error
	ScanDuration prometheus.Histogram
	AlertsTotal  prometheus.Counter
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
}

// New registers and returns all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_scans_total",
			Help: "Watchlist scans performed, by result",
		}, []string{"result"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_scan_duration_seconds",
			Help:    "End-to-end duration of one ticker scan",
			Buckets: prometheus.DefBuckets,
		}),
		AlertsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_alerts_sent_total",
			Help: "Alert notifications sent",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_cache_hits_total",
			Help: "Bar cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_cache_misses_total",
			Help: "Bar cache misses",
		}),
	}
	prometheus.MustRegister(m.ScansTotal, m.ScanDuration, m.AlertsTotal, m.CacheHits, m.CacheMisses)
	return m
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	srv *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return &Server{srv: &http.Server{Addr: addr, Handler: mux}}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] metrics server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[ERROR] metrics server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
