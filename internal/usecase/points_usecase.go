package usecase

import (
	"context"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// AdjustPointsInput defines an admin-initiated balance correction.
type AdjustPointsInput struct {
	UserID      uuid.UUID
	Amount      int // Signed delta.
	Description string
}

// PointHistoryOutput returns one page of ledger rows plus the unpaginated total.
type PointHistoryOutput struct {
	Transactions []*entity.PointTransaction
	Total        int64
}

// ReconcileOutput reports a ledger reconciliation run for one user.
type ReconcileOutput struct {
	LedgerSum       int
	PreviousBalance int
	Corrected       bool // True when the stored balance disagreed and was overwritten.
}

// PointsUsecase defines the interface for balances and the point ledger.
type PointsUsecase interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) (*PointHistoryOutput, error)

	// Adjust credits or debits a member and writes the ledger row in the same
	// transaction. Admin only. Negative adjustments that would overdraw fail.
	Adjust(ctx context.Context, input *AdjustPointsInput) (*entity.PointTransaction, error)

	// Reconcile rebuilds the denormalized balance from the ledger sum.
	// The ledger is the source of truth; the stored balance is the copy.
	Reconcile(ctx context.Context, userID uuid.UUID) (*ReconcileOutput, error)
}
