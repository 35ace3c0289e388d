package impl

import (
	"context"
	"log/slog"

	deliverycontext "loyalty/internal/delivery/context"
	"loyalty/internal/domain/constants"
	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/repository"
	"loyalty/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

// ProfileServiceParams holds dependencies for ProfileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	UserRepo repository.UserRepository
	Logger   *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		userRepo: params.UserRepo,
		logger:   params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the member's own account data.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return user, nil
}

// UpdateProfile applies the non-nil fields and returns the updated user.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load profile for update")
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	// Merge key-by-key so a partial update from one surface does not wipe
	// flags or links written by another.
	if input.ExtendedData != nil {
		if user.ExtendedData == nil {
			user.ExtendedData = make(map[string]any, len(input.ExtendedData))
		}
		for key, value := range input.ExtendedData {
			user.ExtendedData[key] = value
		}
	}

	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to update profile", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update profile")
	}

	srv.log(ctx).Debug("Profile updated", slog.Any("userID", userID))

	return user, nil
}

// SetRoles replaces a user's role set. Roles ride in the JWT, so the change
// takes effect on the user's next token issue.
func (srv *profileService) SetRoles(ctx context.Context, userID uuid.UUID, roles []string) (*entity.User, error) {
	if len(roles) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("at least one role is required")
	}
	for _, role := range roles {
		switch role {
		case constants.RoleUser, constants.RoleAdmin:
		default:
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown role: " + role)
		}
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user for role change")
	}

	user.Roles = roles
	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Error("Failed to set roles", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to set roles")
	}

	srv.log(ctx).Info("Roles updated", slog.Any("userID", userID), slog.Any("roles", roles))

	return user, nil
}

// ListUsers is the admin back-office user listing.
func (srv *profileService) ListUsers(ctx context.Context, input *usecase.ListUsersInput) (*usecase.ListUsersOutput, error) {
	users, total, err := srv.userRepo.List(ctx, repository.UserFilter{
		Search: input.Search,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return &usecase.ListUsersOutput{Users: users, Total: total}, nil
}
