package repository

import (
	"context"
	"errors"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrDeviceNotFound is returned when a device lookup misses.
var ErrDeviceNotFound = errors.New("device not found")

// ErrDuplicateDevice is returned when registering an already-registered device.
var ErrDuplicateDevice = errors.New("device already registered")

// DeviceRepository defines the operations for push-notification device persistence.
type DeviceRepository interface {
	// Create persists a new device for a user.
	Create(ctx context.Context, device *entity.UserDevice) error

	// FindActiveByUser retrieves all active devices for a specific user.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error)

	// UpdateFCMToken updates the FCM token for a specific device.
	UpdateFCMToken(ctx context.Context, deviceID uuid.UUID, fcmToken string) error

	// Delete removes a device by its ID (soft delete).
	Delete(ctx context.Context, id uuid.UUID) error
}
