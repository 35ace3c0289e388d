package entity

import (
	"time"

	"github.com/google/uuid"
)

// RedemptionStatus is the fulfilment state of a redemption request.
type RedemptionStatus string

const (
	RedemptionStatusPending   RedemptionStatus = "PENDING"
	RedemptionStatusFulfilled RedemptionStatus = "FULFILLED"
	RedemptionStatusCancelled RedemptionStatus = "CANCELLED"
)

// RedemptionItem is a reward catalog entry a user can exchange points for.
type RedemptionItem struct {
	ID          uuid.UUID
	Name        string
	Description string
	ImageURL    string
	PointsCost  int
	Stock       *int // nil means stock is not tracked for this item.
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RedemptionRequest is a user's request to redeem points for one item.
// PointsSpent snapshots the cost at redemption time; later item edits do not
// change what was debited.
type RedemptionRequest struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ItemID      uuid.UUID
	PointsSpent int
	Status      RedemptionStatus
	VoucherCode string // Encoded into the voucher QR for in-store verification.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
