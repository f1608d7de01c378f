package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/clearmark/ip-registry-backend/interfaces"
)

// cidMetadataKey is the object metadata key under which IPFS-pinning
// S3-compatible gateways (Filebase) expose the pinned CID.
const cidMetadataKey = "Cid"

// S3Backend implements an upload backend using Amazon S3 or a compatible
// service. Against a Filebase-style endpoint the stored object is pinned to
// IPFS and the returned identifier is the pinned CID; against plain S3 the
// object key is returned instead.
type S3Backend struct {
	client      *s3.S3
	bucketName  string
	prefix      string
	log         *slog.Logger
	locationURI string
}

// NewS3Backend creates a new S3 upload backend. The endpoint may point at any
// S3-compatible service; leave it empty for AWS itself.
func NewS3Backend(bucketName, prefix, region, endpoint, accessKey, secretKey string, log *slog.Logger) (*S3Backend, error) {
	uri := fmt.Sprintf("s3://%s/%s?region=%s", bucketName, prefix, region)
	if accessKey != "" {
		uri = fmt.Sprintf("s3://%s:***@%s/%s?region=%s", accessKey, bucketName, prefix, region)
	}
	if endpoint != "" {
		uri += fmt.Sprintf("&endpoint=%s", endpoint)
	}

	cfg := aws.Config{
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	if accessKey != "" && secretKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	} else {
		log.Warn("No S3 credentials provided - uploads may fail unless bucket is public writable")
	}

	sess, err := session.NewSession(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Backend{
		client:      s3.New(sess),
		bucketName:  bucketName,
		prefix:      strings.TrimSuffix(prefix, "/"),
		log:         log,
		locationURI: uri,
	}, nil
}

// Upload puts data into the bucket keyed by its content digest and returns
// the gateway CID from the object metadata, falling back to the object key
// when the service exposes none.
func (b *S3Backend) Upload(ctx context.Context, data []byte, name string) (string, error) {
	start := time.Now()
	digest := interfaces.ComputeDigest(data)
	key := b.getObjectKey(digest)

	_, err := b.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
		Metadata: map[string]*string{
			"Filename": aws.String(name),
		},
	})
	if err != nil {
		b.log.Error("Failed to upload to S3",
			slog.String("key", key),
			"err", err,
			slog.Duration("duration", time.Since(start)))
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	// Filebase reports the pinned CID on the stored object's metadata.
	head, err := b.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		b.log.Warn("Failed to read uploaded object metadata, using object key as identifier",
			slog.String("key", key), "err", err)
		return key, nil
	}

	if cid, ok := head.Metadata[cidMetadataKey]; ok && cid != nil && *cid != "" {
		b.log.Debug("Stored content in S3",
			slog.String("key", key),
			slog.String("cid", *cid),
			slog.Duration("duration", time.Since(start)))
		return *cid, nil
	}

	b.log.Debug("Stored content in S3 without gateway CID",
		slog.String("key", key),
		slog.Duration("duration", time.Since(start)))
	return key, nil
}

// Available checks bucket accessibility with a HEAD request.
func (b *S3Backend) Available(ctx context.Context) bool {
	_, err := b.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucketName),
	})
	if err != nil {
		b.log.Debug("S3 backend unavailable", "err", err)
		return false
	}
	return true
}

// Name returns a unique identifier for this backend.
func (b *S3Backend) Name() string {
	return fmt.Sprintf("s3-%s", b.bucketName)
}

// LocationURI returns the URI that identifies this backend.
func (b *S3Backend) LocationURI() string {
	return b.locationURI
}

func (b *S3Backend) getObjectKey(digest interfaces.ContentDigest) string {
	if b.prefix == "" {
		return digest.String()
	}
	return path.Join(b.prefix, digest.String())
}
