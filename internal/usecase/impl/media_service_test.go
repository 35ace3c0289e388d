package impl

import (
	"context"
	"io"
	"strings"
	"testing"

	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/service"
	"loyalty/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage records uploads and deletions keyed by the returned URL.
type fakeStorage struct {
	uploads map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(ctx context.Context, kind service.MediaKind, filename, contentType string, content io.Reader) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}

	url := "https://cdn.example.com/media/" + string(kind) + "/" + filename
	s.uploads[url] = data

	return url, nil
}

func (s *fakeStorage) Delete(ctx context.Context, url string) error {
	delete(s.uploads, url)
	s.deleted = append(s.deleted, url)

	return nil
}

func (s *fakeStorage) Close() error { return nil }

func createTestMediaService(t *testing.T) (usecase.MediaUsecase, *fakeStorage) {
	t.Helper()

	storage := newFakeStorage()
	service := NewMediaService(MediaServiceParams{
		Storage: storage,
		Logger:  newDiscardLogger(),
	})

	return service, storage
}

func TestMediaService_Upload_Success(t *testing.T) {
	mediaSvc, storage := createTestMediaService(t)

	url, err := mediaSvc.Upload(context.Background(), &usecase.UploadMediaInput{
		Kind:        service.MediaKindAvatar,
		Filename:    "selfie.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("fake image bytes"),
	})

	require.NoError(t, err)
	assert.Contains(t, url, "/avatars/")
	assert.Equal(t, []byte("fake image bytes"), storage.uploads[url])
}

func TestMediaService_Upload_UnknownKind(t *testing.T) {
	mediaSvc, storage := createTestMediaService(t)

	_, err := mediaSvc.Upload(context.Background(), &usecase.UploadMediaInput{
		Kind:        service.MediaKind("tax-documents"),
		Filename:    "w2.pdf",
		ContentType: "application/pdf",
		Content:     strings.NewReader("x"),
	})

	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Empty(t, storage.uploads)
}

func TestMediaService_Upload_ContentTypeAllowlist(t *testing.T) {
	mediaSvc, storage := createTestMediaService(t)

	// Image kinds reject non-image payloads.
	_, err := mediaSvc.Upload(context.Background(), &usecase.UploadMediaInput{
		Kind:        service.MediaKindAvatar,
		Filename:    "malware.exe",
		ContentType: "application/octet-stream",
		Content:     strings.NewReader("x"),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	// The video kind rejects images and accepts video payloads.
	_, err = mediaSvc.Upload(context.Background(), &usecase.UploadMediaInput{
		Kind:        service.MediaKindReviewVideo,
		Filename:    "clip.png",
		ContentType: "image/png",
		Content:     strings.NewReader("x"),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Empty(t, storage.uploads)

	_, err = mediaSvc.Upload(context.Background(), &usecase.UploadMediaInput{
		Kind:        service.MediaKindReviewVideo,
		Filename:    "clip.mp4",
		ContentType: "video/mp4",
		Content:     strings.NewReader("x"),
	})
	assert.NoError(t, err)
}

func TestMediaService_Delete(t *testing.T) {
	mediaSvc, storage := createTestMediaService(t)

	url, err := mediaSvc.Upload(context.Background(), &usecase.UploadMediaInput{
		Kind:        service.MediaKindReviewImage,
		Filename:    "dish.png",
		ContentType: "image/png",
		Content:     strings.NewReader("png bytes"),
	})
	require.NoError(t, err)

	require.NoError(t, mediaSvc.Delete(context.Background(), url))
	assert.Empty(t, storage.uploads)
	assert.Equal(t, []string{url}, storage.deleted)
}
