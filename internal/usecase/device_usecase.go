package usecase

import (
	"context"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// RegisterDeviceInput defines the data required to register a device for push.
type RegisterDeviceInput struct {
	DeviceID string
	FCMToken string
	Platform string
}

// DeviceUsecase defines the interface for push notification device management.
type DeviceUsecase interface {
	RegisterDevice(ctx context.Context, userID uuid.UUID, input *RegisterDeviceInput) (*entity.UserDevice, error)
	UpdateToken(ctx context.Context, userID, deviceID uuid.UUID, fcmToken string) error
	RemoveDevice(ctx context.Context, userID, deviceID uuid.UUID) error

	// ListActiveDevices is used by the push worker to fan a notification out
	// to every active device of a user.
	ListActiveDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)
}
