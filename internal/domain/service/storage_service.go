package service

import (
	"context"
	"io"
)

// MediaKind selects which bucket an upload lands in.
type MediaKind string

const (
	MediaKindMission     MediaKind = "missions"
	MediaKindReward      MediaKind = "rewards"
	MediaKindReviewImage MediaKind = "review-images"
	MediaKindReviewVideo MediaKind = "review-videos"
	MediaKindAvatar      MediaKind = "avatars"
)

// StorageService abstracts object storage for user-uploaded media.
// Entity rows store only the returned public URL.
type StorageService interface {
	// Upload stores the content under a generated key in the kind's bucket
	// and returns the public URL of the stored object.
	Upload(ctx context.Context, kind MediaKind, filename, contentType string, content io.Reader) (string, error)

	// Delete removes a previously uploaded object by its public URL.
	// Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error

	// Close releases bucket handles.
	Close() error
}
