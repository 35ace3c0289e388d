// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrBalanceWouldGoNegative is returned when a relative balance update would
// drive the denormalized point balance below zero.
var ErrBalanceWouldGoNegative = errors.New("point balance would go negative")

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Search string // Matches against email and name.
	Limit  int
	Offset int
}

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user entity to the storage.
	Create(ctx context.Context, user *entity.User) error

	// Update modifies an existing user entity in the storage.
	// The Points field is ignored here; balances only move via AddPoints/SetPoints.
	Update(ctx context.Context, user *entity.User) error

	// List returns users matching the filter plus the unpaginated total.
	List(ctx context.Context, filter UserFilter) ([]*entity.User, int64, error)

	// AddPoints applies a signed delta to the denormalized balance as a single
	// relative UPDATE. Returns ErrBalanceWouldGoNegative when the delta would
	// take the balance below zero; the row is left untouched in that case.
	AddPoints(ctx context.Context, userID uuid.UUID, delta int) error

	// SetPoints overwrites the denormalized balance. Used only by ledger
	// reconciliation.
	SetPoints(ctx context.Context, userID uuid.UUID, points int) error
}
