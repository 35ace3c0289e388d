package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "loyalty/internal/delivery/context"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/service"
	"loyalty/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// mediaService implements the MediaUsecase interface.
type mediaService struct {
	storage service.StorageService
	logger  *slog.Logger
}

// MediaServiceParams holds dependencies for MediaService, injected by Fx.
type MediaServiceParams struct {
	fx.In

	Storage service.StorageService
	Logger  *slog.Logger
}

// NewMediaService is the constructor for mediaService.
func NewMediaService(params MediaServiceParams) usecase.MediaUsecase {
	return &mediaService{
		storage: params.Storage,
		logger:  params.Logger,
	}
}

func (srv *mediaService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// allowedContentType maps each media kind to the content-type prefix it accepts.
var allowedContentType = map[service.MediaKind]string{
	service.MediaKindMission:     "image/",
	service.MediaKindReward:      "image/",
	service.MediaKindReviewImage: "image/",
	service.MediaKindReviewVideo: "video/",
	service.MediaKindAvatar:      "image/",
}

// Upload stores one media object and returns its public URL.
func (srv *mediaService) Upload(ctx context.Context, input *usecase.UploadMediaInput) (string, error) {
	prefix, ok := allowedContentType[input.Kind]
	if !ok {
		return "", domainerrors.ErrValidationFailed.WrapMessage("unknown media kind")
	}
	if !strings.HasPrefix(input.ContentType, prefix) {
		return "", domainerrors.ErrValidationFailed.WrapMessage("unsupported content type: " + input.ContentType)
	}

	url, err := srv.storage.Upload(ctx, input.Kind, input.Filename, input.ContentType, input.Content)
	if err != nil {
		srv.log(ctx).Error("Media upload failed", slog.String("kind", string(input.Kind)), slog.Any("error", err))

		return "", errors.Wrap(err, "failed to upload media")
	}

	srv.log(ctx).Debug("Media uploaded", slog.String("kind", string(input.Kind)), slog.String("url", url))

	return url, nil
}

// Delete removes a previously uploaded object.
func (srv *mediaService) Delete(ctx context.Context, url string) error {
	if err := srv.storage.Delete(ctx, url); err != nil {
		return errors.Wrap(err, "failed to delete media")
	}

	return nil
}
