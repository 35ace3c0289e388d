// Package storage implements object storage for user-uploaded media on top of
// gocloud.dev blob buckets. One bucket per media kind, addressed by URL, so
// local file buckets and GCS buckets are interchangeable per environment.
package storage

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"loyalty/config"
	"loyalty/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocloud.dev/blob"

	// Registered bucket drivers.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
)

const defaultMaxUploadBytes = 32 << 20 // 32 MiB

// blobStorageService implements service.StorageService.
type blobStorageService struct {
	buckets       map[service.MediaKind]*blob.Bucket
	publicBaseURL string
	maxBytes      int64
	logger        *slog.Logger
}

// NewBlobStorageService opens one bucket per configured media kind.
func NewBlobStorageService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.StorageService, error) {
	if cfg.Storage == nil || len(cfg.Storage.Buckets) == 0 {
		return nil, errors.New("storage buckets must be configured")
	}

	buckets := make(map[service.MediaKind]*blob.Bucket, len(cfg.Storage.Buckets))
	for kind, bucketURL := range cfg.Storage.Buckets {
		bucket, err := blob.OpenBucket(ctx, bucketURL)
		if err != nil {
			// Close whatever already opened before bailing out.
			for _, opened := range buckets {
				opened.Close()
			}

			return nil, errors.Wrapf(err, "failed to open bucket for %s", kind)
		}
		buckets[service.MediaKind(kind)] = bucket
	}

	maxBytes := cfg.Storage.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}

	logger.Info("Blob storage initialized",
		slog.Int("bucket_count", len(buckets)),
		slog.Int64("max_upload_bytes", maxBytes),
	)

	return &blobStorageService{
		buckets:       buckets,
		publicBaseURL: strings.TrimSuffix(cfg.Storage.PublicBaseURL, "/"),
		maxBytes:      maxBytes,
		logger:        logger,
	}, nil
}

// ErrUnknownMediaKind is returned when no bucket is configured for the kind.
var ErrUnknownMediaKind = errors.New("unknown media kind")

// ErrUploadTooLarge is returned when the content exceeds the configured cap.
var ErrUploadTooLarge = errors.New("upload exceeds size limit")

// Upload stores the content under a generated key in the kind's bucket and
// returns the public URL of the stored object. Keys keep only the original
// extension; the rest of the name is a fresh UUID so uploads never collide.
func (s *blobStorageService) Upload(ctx context.Context, kind service.MediaKind, filename, contentType string, content io.Reader) (string, error) {
	bucket, ok := s.buckets[kind]
	if !ok {
		return "", ErrUnknownMediaKind
	}

	key := uuid.NewString() + strings.ToLower(path.Ext(filename))

	writer, err := bucket.NewWriter(ctx, key, &blob.WriterOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to open bucket writer")
	}

	// LimitReader with one extra byte so an over-limit upload is detectable.
	written, err := io.Copy(writer, io.LimitReader(content, s.maxBytes+1))
	if err != nil {
		writer.Close()

		return "", errors.Wrap(err, "failed to write object")
	}
	if written > s.maxBytes {
		writer.Close()
		// Best effort cleanup of the partial object.
		if delErr := bucket.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to clean up oversized upload",
				slog.String("key", key),
				slog.Any("error", delErr),
			)
		}

		return "", ErrUploadTooLarge
	}

	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "failed to finalize object")
	}

	s.logger.Info("Media uploaded",
		slog.String("kind", string(kind)),
		slog.String("key", key),
		slog.Int64("bytes", written),
	)

	return s.publicBaseURL + "/" + string(kind) + "/" + key, nil
}

// Delete removes a previously uploaded object by its public URL.
// URLs outside the public base are ignored.
func (s *blobStorageService) Delete(ctx context.Context, rawURL string) error {
	kind, key, ok := s.parsePublicURL(rawURL)
	if !ok {
		return nil
	}

	bucket, found := s.buckets[kind]
	if !found {
		return nil
	}

	if err := bucket.Delete(ctx, key); err != nil {
		return errors.Wrap(err, "failed to delete object")
	}

	return nil
}

// Close releases bucket handles.
func (s *blobStorageService) Close() error {
	var firstErr error
	for kind, bucket := range s.buckets {
		if err := bucket.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "failed to close bucket for %s", kind)
		}
	}

	return firstErr
}

// parsePublicURL splits a stored public URL back into media kind and object key.
func (s *blobStorageService) parsePublicURL(rawURL string) (service.MediaKind, string, bool) {
	if !strings.HasPrefix(rawURL, s.publicBaseURL+"/") {
		return "", "", false
	}

	// Path layout is <base>/<kind>/<key>.
	trimmed := strings.TrimPrefix(rawURL, s.publicBaseURL+"/")
	if idx := strings.IndexByte(trimmed, '?'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	return service.MediaKind(parts[0]), parts[1], true
}
