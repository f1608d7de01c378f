// Package metrics exposes Prometheus metrics for the registry service on a
// dedicated listener.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ip_registry"

var (
	// RegistrationsTotal counts successful non-duplicate registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Number of new records registered.",
	})

	// DuplicateRegistrations counts registration attempts that matched an
	// existing content digest.
	DuplicateRegistrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_registrations_total",
		Help:      "Number of registration attempts deduplicated against an existing record.",
	})

	// UploadFailures counts registrations that fell back to a placeholder
	// content identifier because every upload backend failed.
	UploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upload_failures_total",
		Help:      "Number of gateway uploads that failed and were recorded with a placeholder CID.",
	})

	// LedgerFailures counts best-effort mirror transactions that errored.
	LedgerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_failures_total",
		Help:      "Number of on-chain mirror submissions that failed.",
	})
)

// MetricsServer serves the Prometheus scrape endpoint.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr.
func New(addr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}, nil
}

// ListenAndServe blocks serving the scrape endpoint.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
