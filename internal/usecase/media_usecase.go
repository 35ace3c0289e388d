package usecase

import (
	"context"
	"io"

	"loyalty/internal/domain/service"
)

// UploadMediaInput defines one media upload.
type UploadMediaInput struct {
	Kind        service.MediaKind
	Filename    string
	ContentType string
	Content     io.Reader
}

// MediaUsecase defines the interface for media uploads backing missions,
// rewards, reviews and avatars. Entity rows store only the returned URL.
type MediaUsecase interface {
	Upload(ctx context.Context, input *UploadMediaInput) (string, error)
	Delete(ctx context.Context, url string) error
}
