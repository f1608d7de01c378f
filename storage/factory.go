package storage

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/clearmark/ip-registry-backend/interfaces"
)

// UploadBackendFactory creates upload backends from URI strings and manages
// multi-backend configurations for redundant uploads.
type UploadBackendFactory struct {
	log *slog.Logger
}

// NewUploadBackendFactory creates a new factory instance.
func NewUploadBackendFactory(log *slog.Logger) *UploadBackendFactory {
	return &UploadBackendFactory{log: log}
}

// BackendFor creates an upload backend from a location URI.
//
// Supported schemes:
//   - file:// - local filesystem storage
//   - ipfs:// - an IPFS node's HTTP API
//   - s3://   - Amazon S3 or compatible object storage (Filebase)
//
// Returns an error if the URI is invalid or the scheme is unsupported.
func (f *UploadBackendFactory) BackendFor(locationURI string) (interfaces.UploadBackend, error) {
	u, err := url.Parse(locationURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interfaces.ErrInvalidLocationURI, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		return f.createFileBackend(u)
	case "ipfs":
		return f.createIPFSBackend(u)
	case "s3":
		return f.createS3Backend(u)
	default:
		return nil, fmt.Errorf("unsupported backend scheme: %s", u.Scheme)
	}
}

// CreateMultiBackend creates a redundant upload backend from a list of
// location URIs. URIs that fail to produce a backend are skipped with a
// warning; an error is returned only when none are usable.
func (f *UploadBackendFactory) CreateMultiBackend(locationURIs []string) (interfaces.UploadBackend, error) {
	backends := make([]interfaces.UploadBackend, 0, len(locationURIs))

	for _, uri := range locationURIs {
		backend, err := f.BackendFor(uri)
		if err != nil {
			f.log.Warn("Failed to create upload backend",
				"err", err,
				slog.String("locationURI", uri))
			continue
		}
		backends = append(backends, backend)
	}

	if len(backends) == 0 {
		return nil, fmt.Errorf("no valid upload backends among %d URIs", len(locationURIs))
	}

	if len(backends) == 1 {
		return backends[0], nil
	}

	return NewMultiBackend(backends, f.log), nil
}

func (f *UploadBackendFactory) createFileBackend(u *url.URL) (interfaces.UploadBackend, error) {
	dir := u.Path
	if u.Host != "" {
		// Relative paths come through as file://dir/sub.
		dir = u.Host + u.Path
	}
	if dir == "" {
		return nil, fmt.Errorf("%w: file URI is missing a directory", interfaces.ErrInvalidLocationURI)
	}
	return NewFileBackend(dir, f.log)
}

func (f *UploadBackendFactory) createIPFSBackend(u *url.URL) (interfaces.UploadBackend, error) {
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: ipfs URI is missing a host", interfaces.ErrInvalidLocationURI)
	}
	port := u.Port()
	if port == "" {
		port = "5001"
	}
	return NewIPFSBackend(host, port, f.log)
}

func (f *UploadBackendFactory) createS3Backend(u *url.URL) (interfaces.UploadBackend, error) {
	bucket := u.Host
	if bucket == "" {
		return nil, fmt.Errorf("%w: s3 URI is missing a bucket", interfaces.ErrInvalidLocationURI)
	}

	prefix := strings.TrimPrefix(u.Path, "/")
	query := u.Query()
	region := query.Get("region")
	if region == "" {
		region = "us-east-1"
	}
	endpoint := query.Get("endpoint")

	var accessKey, secretKey string
	if u.User != nil {
		accessKey = u.User.Username()
		secretKey, _ = u.User.Password()
	}

	return NewS3Backend(bucket, prefix, region, endpoint, accessKey, secretKey, f.log)
}

// GatewayURL formats the public HTTP gateway URL for a content identifier.
// Placeholder identifiers have no gateway location and yield an empty string.
func GatewayURL(base, cid string) string {
	if cid == "" || strings.HasPrefix(cid, PlaceholderPrefix) {
		return ""
	}
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(base, "/"), cid)
}

// PlaceholderPrefix marks content identifiers fabricated locally when every
// upload backend failed. Records carrying one never resolve on a gateway.
const PlaceholderPrefix = "unavailable-"

// PlaceholderCID builds the substitute identifier recorded when the upload
// collaborator is down.
func PlaceholderCID(digest interfaces.ContentDigest) string {
	return PlaceholderPrefix + digest.String()[:8]
}
