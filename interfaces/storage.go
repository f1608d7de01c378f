package interfaces

import (
	"context"
	"errors"
)

// ErrBackendUnavailable indicates an upload backend cannot be reached.
var ErrBackendUnavailable = errors.New("upload backend unavailable")

// ErrInvalidLocationURI indicates a backend location URI could not be parsed.
var ErrInvalidLocationURI = errors.New("invalid backend location URI")

// UploadBackend stores raw file bytes on a content-addressed gateway and
// returns the gateway's identifier for them. Upload failures are non-fatal to
// registration; the caller substitutes a placeholder identifier.
type UploadBackend interface {
	// Upload stores data under the given name and returns the content
	// identifier assigned by the gateway.
	Upload(ctx context.Context, data []byte, name string) (string, error)

	// Available reports whether the backend is currently reachable.
	Available(ctx context.Context) bool

	// Name returns a unique identifier for this backend.
	Name() string

	// LocationURI returns the URI this backend was created from.
	LocationURI() string
}
