package repository

import (
	"context"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// PointTransactionRepository defines the operations for the append-only point ledger.
// Ledger rows are never updated or deleted.
type PointTransactionRepository interface {
	// Create appends one ledger row.
	Create(ctx context.Context, tx *entity.PointTransaction) error

	// ListByUser returns a user's ledger rows, newest first, plus the
	// unpaginated total.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.PointTransaction, int64, error)

	// SumByUser computes the ledger sum for a user. This is the source of
	// truth the denormalized balance is reconciled against.
	SumByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
