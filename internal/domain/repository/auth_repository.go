package repository

import (
	"context"
	"errors"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAuthNotFound is returned when no credential exists for the lookup.
var ErrAuthNotFound = errors.New("authentication not found")

// AuthRepository defines the operations for credential persistence.
type AuthRepository interface {
	// Create persists a new authentication method for a user.
	Create(ctx context.Context, auth *entity.Authentication) error

	// FindByUserAndProvider retrieves the credential a user registered for a
	// given provider, e.g. the "email" password hash.
	FindByUserAndProvider(ctx context.Context, userID uuid.UUID, provider string) (*entity.Authentication, error)

	// UpdatePasswordHash replaces the stored hash for an email credential.
	UpdatePasswordHash(ctx context.Context, authID uuid.UUID, passwordHash string) error
}
