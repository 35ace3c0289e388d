package entity

import (
	"time"

	"github.com/google/uuid"
)

// PointTransactionType classifies why a balance changed.
type PointTransactionType string

const (
	PointTxMissionReward    PointTransactionType = "MISSION_REWARD"
	PointTxAdminAdjust      PointTransactionType = "ADMIN_ADJUST"
	PointTxRedemption       PointTransactionType = "REDEMPTION"
	PointTxRedemptionRefund PointTransactionType = "REDEMPTION_REFUND"
)

// PointTransaction is an immutable ledger row logging one point balance change.
// Rows are append-only; the user's denormalized balance is always written in
// the same database transaction as the ledger insert.
type PointTransaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Amount      int // Signed delta: positive for awards, negative for redemptions.
	Type        PointTransactionType
	Description string
	ReferenceID *uuid.UUID // The participation/redemption row this change traces back to.
	CreatedAt   time.Time
}
