package repository

import (
	"context"
	"errors"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRedemptionItemNotFound is returned when a catalog item lookup misses.
var ErrRedemptionItemNotFound = errors.New("redemption item not found")

// ErrRedemptionNotFound is returned when a redemption request lookup misses.
var ErrRedemptionNotFound = errors.New("redemption request not found")

// ErrOutOfStock is returned when a conditional stock decrement finds no stock left.
var ErrOutOfStock = errors.New("redemption item out of stock")

// RedemptionRequestFilter narrows the admin request listing.
type RedemptionRequestFilter struct {
	Status entity.RedemptionStatus // Empty means all statuses.
	UserID uuid.UUID               // uuid.Nil means all users.
	Limit  int
	Offset int
}

// RedemptionRepository defines the operations for reward catalog and request persistence.
type RedemptionRepository interface {
	// Catalog items.
	CreateItem(ctx context.Context, item *entity.RedemptionItem) error
	UpdateItem(ctx context.Context, item *entity.RedemptionItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	FindItemByID(ctx context.Context, id uuid.UUID) (*entity.RedemptionItem, error)
	ListItems(ctx context.Context, activeOnly bool) ([]*entity.RedemptionItem, error)

	// DecrementStock conditionally decrements tracked stock
	// (WHERE stock > 0) and returns ErrOutOfStock when no row qualified.
	// Items with untracked stock (NULL) are not touched and never fail.
	DecrementStock(ctx context.Context, itemID uuid.UUID) error

	// IncrementStock returns one unit of tracked stock (used on cancel).
	IncrementStock(ctx context.Context, itemID uuid.UUID) error

	// Requests.
	CreateRequest(ctx context.Context, request *entity.RedemptionRequest) error
	FindRequestByID(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error)
	ListRequests(ctx context.Context, filter RedemptionRequestFilter) ([]*entity.RedemptionRequest, int64, error)

	// UpdateRequestStatusIfPending flips the status with a conditional
	// WHERE status = 'PENDING' update and reports whether a row was changed.
	UpdateRequestStatusIfPending(ctx context.Context, id uuid.UUID, status entity.RedemptionStatus) (bool, error)
}
