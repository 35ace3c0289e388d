package usecase

import (
	"context"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateRedemptionItemInput defines the data required to create a catalog item.
type CreateRedemptionItemInput struct {
	Name        string
	Description string
	ImageURL    string
	PointsCost  int
	Stock       *int // nil leaves stock untracked.
	IsActive    bool
}

// UpdateRedemptionItemInput carries the replacement state of a catalog item.
type UpdateRedemptionItemInput = CreateRedemptionItemInput

// ListRedemptionRequestsInput narrows the admin request listing.
type ListRedemptionRequestsInput struct {
	Status entity.RedemptionStatus
	UserID uuid.UUID
	Limit  int
	Offset int
}

// ListRedemptionRequestsOutput returns one page of requests plus the unpaginated total.
type ListRedemptionRequestsOutput struct {
	Requests []*entity.RedemptionRequest
	Total    int64
}

// RedeemOutput returns the created request and the member's balance after the debit.
type RedeemOutput struct {
	Request *entity.RedemptionRequest
	Balance int
}

// RedemptionUsecase defines the interface for the reward catalog and point redemption.
type RedemptionUsecase interface {
	// Admin catalog operations.
	CreateItem(ctx context.Context, input *CreateRedemptionItemInput) (*entity.RedemptionItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input *UpdateRedemptionItemInput) (*entity.RedemptionItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// ListItems returns the catalog; members see only active items.
	ListItems(ctx context.Context, activeOnly bool) ([]*entity.RedemptionItem, error)

	// Redeem atomically debits the member's balance, writes the ledger row,
	// decrements tracked stock and creates the PENDING request. Any failure
	// rolls the whole exchange back.
	Redeem(ctx context.Context, userID, itemID uuid.UUID) (*RedeemOutput, error)

	// Cancel refunds the snapshot cost and restocks the item. Members may
	// cancel their own PENDING requests; admins may cancel any PENDING request.
	Cancel(ctx context.Context, callerID uuid.UUID, isAdmin bool, requestID uuid.UUID) error

	// Fulfill marks a PENDING request as handed over. Admin only.
	Fulfill(ctx context.Context, requestID uuid.UUID) error

	ListRequests(ctx context.Context, input *ListRedemptionRequestsInput) (*ListRedemptionRequestsOutput, error)
	ListMyRequests(ctx context.Context, userID uuid.UUID) ([]*entity.RedemptionRequest, error)

	// GetVoucherQR renders the PNG voucher for the member's own request.
	GetVoucherQR(ctx context.Context, userID, requestID uuid.UUID) ([]byte, error)

	// VerifyVoucher resolves scanned QR data to the underlying request. Admin only.
	VerifyVoucher(ctx context.Context, qrData string) (*entity.RedemptionRequest, error)
}
