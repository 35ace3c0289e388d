package usecase

import (
	"context"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput defines the editable profile fields.
// Nil pointers leave the current value untouched.
type UpdateProfileInput struct {
	Name         *string
	Phone        *string
	AvatarURL    *string
	ExtendedData map[string]any // Merged key-by-key into the stored blob when non-nil.
}

// ListUsersInput narrows the admin user listing.
type ListUsersInput struct {
	Search string
	Limit  int
	Offset int
}

// ListUsersOutput returns one page of users plus the unpaginated total.
type ListUsersOutput struct {
	Users []*entity.User
	Total int64
}

// ProfileUsecase defines the interface for member profile operations.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.User, error)

	// ListUsers is the admin back-office user listing.
	ListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error)

	// SetRoles replaces a user's role set. Admin only; takes effect on the
	// user's next token issue since roles ride in the JWT.
	SetRoles(ctx context.Context, userID uuid.UUID, roles []string) (*entity.User, error)
}
