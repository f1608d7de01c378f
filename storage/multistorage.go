package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clearmark/ip-registry-backend/interfaces"
)

// MultiBackend implements interfaces.UploadBackend over multiple backends for
// redundancy. Content is uploaded to every available backend; the first
// successful upload supplies the recorded content identifier.
type MultiBackend struct {
	backends []interfaces.UploadBackend
	log      *slog.Logger
}

// NewMultiBackend creates a redundant upload backend.
func NewMultiBackend(backends []interfaces.UploadBackend, log *slog.Logger) *MultiBackend {
	if log == nil {
		log = slog.Default()
	}

	return &MultiBackend{
		backends: backends,
		log:      log,
	}
}

// Upload stores data on all available backends. Returns the identifier from
// the first backend that succeeds, or an aggregate error when every backend
// fails.
func (m *MultiBackend) Upload(ctx context.Context, data []byte, name string) (string, error) {
	start := time.Now()
	var cid string
	var success bool
	var errs []error

	for _, backend := range m.backends {
		if !backend.Available(ctx) {
			m.log.Debug("Backend unavailable", slog.String("backend_name", backend.Name()))
			continue
		}

		id, err := backend.Upload(ctx, data, name)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", backend.Name(), err))
			m.log.Debug("Failed to upload to backend",
				slog.String("backend_name", backend.Name()),
				"err", err)
			continue
		}

		if !success {
			cid = id
			success = true
			m.log.Info("Uploaded content",
				slog.String("backend_name", backend.Name()),
				slog.String("cid", id),
				slog.Duration("duration", time.Since(start)))
		} else {
			m.log.Debug("Replicated content",
				slog.String("backend_name", backend.Name()),
				slog.String("cid", id))
		}
	}

	if !success {
		m.log.Error("All backends failed to store content",
			slog.String("name", name),
			slog.Int("failed_backends", len(errs)),
			slog.Duration("duration", time.Since(start)))
		return "", fmt.Errorf("all backends failed to store %s: %v", name, errs)
	}

	return cid, nil
}

// Available reports whether at least one backend is reachable.
func (m *MultiBackend) Available(ctx context.Context) bool {
	for _, backend := range m.backends {
		if backend.Available(ctx) {
			return true
		}
	}
	return false
}

// Name returns a unique identifier for this backend.
func (m *MultiBackend) Name() string {
	return fmt.Sprintf("multi-%d", len(m.backends))
}

// LocationURI returns the URIs of all aggregated backends.
func (m *MultiBackend) LocationURI() string {
	uris := make([]string, 0, len(m.backends))
	for _, backend := range m.backends {
		uris = append(uris, backend.LocationURI())
	}
	return fmt.Sprintf("multi://%v", uris)
}
