package repository

import (
	"context"
	"errors"
	"time"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when a token hash has no matching session.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshTokenRepository defines the operations for session persistence.
type RefreshTokenRepository interface {
	// Create persists a new session row.
	Create(ctx context.Context, token *entity.RefreshToken) error

	// FindByTokenHash retrieves a session by the SHA-256 hash of the raw token.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteByTokenHash revokes a single session.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteByUser revokes every session of a user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	// CountActiveByUser counts sessions of a user expiring after now.
	CountActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)

	// DeleteOldestByUser removes the oldest sessions of a user, keeping at most
	// keep rows. Used to enforce the max-active-sessions cap.
	DeleteOldestByUser(ctx context.Context, userID uuid.UUID, keep int) error
}
