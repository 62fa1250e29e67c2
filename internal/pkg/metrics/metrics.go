package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// --- Audit metrics ---
	AuditRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_audit_runs_total",
			Help: "Total number of audit runs by outcome.",
		},
		[]string{"outcome"},
	)
	AuditDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "link_audit_duration_seconds",
			Help:    "Wall time of a full audit run.",
			Buckets: prometheus.DefBuckets,
		},
	)
	FilesScannedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "link_audit_files_scanned_total",
			Help: "Total number of source files read by the link extractor.",
		},
	)
	FileReadErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_audit_file_read_errors_total",
			Help: "Total number of files or directories skipped, by warning kind.",
		},
		[]string{"kind"},
	)
	ScanCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "link_audit_scan_cache_hits_total",
			Help: "Files whose links were served from the scan cache.",
		},
	)
	LinksClassifiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_audit_links_classified_total",
			Help: "Total number of link records classified, by status.",
		},
		[]string{"status"},
	)
	BrokenLinks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "link_audit_broken_links",
			Help: "Broken links found by the latest audit.",
		},
	)
	OrphanRoutes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "link_audit_orphan_routes",
			Help: "Orphan routes found by the latest audit.",
		},
	)

	// --- Inbound (server) metrics ---
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "code"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_errors_total",
			Help: "Total number of HTTP requests resulting in client or server errors.",
		},
		[]string{"method", "route", "code"},
	)

	// --- Runtime metrics ---
	CPUCount = promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "process_cpu_count",
			Help: "Number of CPU cores available.",
		},
		func() float64 { return float64(runtime.NumCPU()) },
	)
)

func MetricsRegister() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		AuditRunsTotal,
		AuditDuration,
		FilesScannedTotal,
		FileReadErrorsTotal,
		ScanCacheHitsTotal,
		LinksClassifiedTotal,
		BrokenLinks,
		OrphanRoutes,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPRequestErrorsTotal,
		CPUCount,
	)

	return reg
}
