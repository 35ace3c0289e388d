package impl

import (
	"context"
	"log/slog"

	deliverycontext "loyalty/internal/delivery/context"
	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/repository"
	"loyalty/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// deviceService implements the DeviceUsecase interface.
type deviceService struct {
	deviceRepo repository.DeviceRepository
	logger     *slog.Logger
}

// DeviceServiceParams holds dependencies for DeviceService, injected by Fx.
type DeviceServiceParams struct {
	fx.In

	DeviceRepo repository.DeviceRepository
	Logger     *slog.Logger
}

// NewDeviceService is the constructor for deviceService.
func NewDeviceService(params DeviceServiceParams) usecase.DeviceUsecase {
	return &deviceService{
		deviceRepo: params.DeviceRepo,
		logger:     params.Logger,
	}
}

func (srv *deviceService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterDevice registers a device for push notifications.
func (srv *deviceService) RegisterDevice(ctx context.Context, userID uuid.UUID, input *usecase.RegisterDeviceInput) (*entity.UserDevice, error) {
	if input.DeviceID == "" || input.FCMToken == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("device ID and FCM token are required")
	}

	device := &entity.UserDevice{
		UserID:   userID,
		FCMToken: input.FCMToken,
		DeviceID: input.DeviceID,
		Platform: input.Platform,
		IsActive: true,
	}
	if err := srv.deviceRepo.Create(ctx, device); err != nil {
		if errors.Is(err, repository.ErrDuplicateDevice) {
			return nil, domainerrors.ErrConflict.WrapMessage("device already registered")
		}
		srv.log(ctx).Error("Failed to register device", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to register device")
	}

	srv.log(ctx).Info("Device registered", slog.Any("userID", userID), slog.Any("deviceID", device.ID))

	return device, nil
}

// UpdateToken refreshes the FCM token of one of the caller's devices.
func (srv *deviceService) UpdateToken(ctx context.Context, userID, deviceID uuid.UUID, fcmToken string) error {
	if err := srv.ensureOwnership(ctx, userID, deviceID); err != nil {
		return err
	}

	if err := srv.deviceRepo.UpdateFCMToken(ctx, deviceID, fcmToken); err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return domainerrors.ErrNotFound
		}

		return errors.Wrap(err, "failed to update FCM token")
	}

	return nil
}

// RemoveDevice unregisters one of the caller's devices.
func (srv *deviceService) RemoveDevice(ctx context.Context, userID, deviceID uuid.UUID) error {
	if err := srv.ensureOwnership(ctx, userID, deviceID); err != nil {
		return err
	}

	if err := srv.deviceRepo.Delete(ctx, deviceID); err != nil {
		if errors.Is(err, repository.ErrDeviceNotFound) {
			return domainerrors.ErrNotFound
		}

		return errors.Wrap(err, "failed to remove device")
	}

	srv.log(ctx).Info("Device removed", slog.Any("userID", userID), slog.Any("deviceID", deviceID))

	return nil
}

// ListActiveDevices returns a user's active devices for push fan-out.
func (srv *deviceService) ListActiveDevices(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	devices, err := srv.deviceRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list active devices")
	}

	return devices, nil
}

// ensureOwnership checks the device belongs to the caller.
func (srv *deviceService) ensureOwnership(ctx context.Context, userID, deviceID uuid.UUID) error {
	devices, err := srv.deviceRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to load devices")
	}
	for _, device := range devices {
		if device.ID == deviceID {
			return nil
		}
	}

	return domainerrors.ErrForbidden
}
