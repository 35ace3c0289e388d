package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	deliverycontext "loyalty/internal/delivery/context"
	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/repository"
	"loyalty/internal/domain/service"
	"loyalty/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// redemptionService implements the RedemptionUsecase interface.
type redemptionService struct {
	txManager      repository.TransactionManager
	redemptionRepo repository.RedemptionRepository
	voucherService service.VoucherService
	eventPublisher service.EventPublisher
	logger         *slog.Logger
}

// RedemptionServiceParams holds dependencies for RedemptionService, injected by Fx.
type RedemptionServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	RedemptionRepo repository.RedemptionRepository
	VoucherService service.VoucherService
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewRedemptionService is the constructor for redemptionService.
func NewRedemptionService(params RedemptionServiceParams) usecase.RedemptionUsecase {
	return &redemptionService{
		txManager:      params.TxManager,
		redemptionRepo: params.RedemptionRepo,
		voucherService: params.VoucherService,
		eventPublisher: params.EventPublisher,
		logger:         params.Logger,
	}
}

func (srv *redemptionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// newVoucherCode generates the random code encoded into the voucher QR.
func newVoucherCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate voucher code")
	}

	return hex.EncodeToString(buf), nil
}

func validateItemInput(input *usecase.CreateRedemptionItemInput) error {
	if input.Name == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("item name is required")
	}
	if input.PointsCost <= 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("points cost must be positive")
	}
	if input.Stock != nil && *input.Stock < 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("stock must not be negative")
	}

	return nil
}

// CreateItem creates a new catalog item. Admin only.
func (srv *redemptionService) CreateItem(ctx context.Context, input *usecase.CreateRedemptionItemInput) (*entity.RedemptionItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	item := &entity.RedemptionItem{
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		PointsCost:  input.PointsCost,
		Stock:       input.Stock,
		IsActive:    input.IsActive,
	}
	if err := srv.redemptionRepo.CreateItem(ctx, item); err != nil {
		srv.log(ctx).Error("Failed to create redemption item", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create redemption item")
	}

	srv.log(ctx).Info("Redemption item created", slog.Any("itemID", item.ID), slog.String("name", item.Name))

	return item, nil
}

// UpdateItem replaces a catalog item's state. Admin only.
func (srv *redemptionService) UpdateItem(ctx context.Context, id uuid.UUID, input *usecase.UpdateRedemptionItemInput) (*entity.RedemptionItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	item := &entity.RedemptionItem{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		PointsCost:  input.PointsCost,
		Stock:       input.Stock,
		IsActive:    input.IsActive,
	}
	if err := srv.redemptionRepo.UpdateItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrRedemptionItemNotFound) {
			return nil, domainerrors.ErrRedemptionItemNotFound
		}

		return nil, errors.Wrap(err, "failed to update redemption item")
	}

	updated, err := srv.redemptionRepo.FindItemByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload redemption item")
	}

	return updated, nil
}

// DeleteItem soft-deletes a catalog item. Existing requests keep their snapshot cost.
func (srv *redemptionService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := srv.redemptionRepo.DeleteItem(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRedemptionItemNotFound) {
			return domainerrors.ErrRedemptionItemNotFound
		}

		return errors.Wrap(err, "failed to delete redemption item")
	}

	return nil
}

// ListItems returns the catalog; members see only active items.
func (srv *redemptionService) ListItems(ctx context.Context, activeOnly bool) ([]*entity.RedemptionItem, error) {
	items, err := srv.redemptionRepo.ListItems(ctx, activeOnly)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list redemption items")
	}

	return items, nil
}

// Redeem atomically debits the member's balance, writes the ledger row,
// decrements tracked stock and creates the PENDING request. The conditional
// balance and stock updates make concurrent redemptions safe: the loser of a
// race fails and the whole transaction rolls back.
func (srv *redemptionService) Redeem(ctx context.Context, userID, itemID uuid.UUID) (*usecase.RedeemOutput, error) {
	srv.log(ctx).Info("Redeeming item", slog.Any("userID", userID), slog.Any("itemID", itemID))

	var output usecase.RedeemOutput
	var itemName string

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		redemptionRepo := repoFactory.RedemptionRepo()
		userRepo := repoFactory.UserRepo()
		pointTxRepo := repoFactory.PointTxRepo()

		item, err := redemptionRepo.FindItemByID(ctx, itemID)
		if err != nil {
			if errors.Is(err, repository.ErrRedemptionItemNotFound) {
				return domainerrors.ErrRedemptionItemNotFound
			}

			return errors.Wrap(err, "failed to find redemption item")
		}
		if !item.IsActive {
			return domainerrors.ErrRedemptionItemNotFound
		}

		// Debit first; the conditional UPDATE rejects an overdraw outright.
		if err := userRepo.AddPoints(ctx, userID, -item.PointsCost); err != nil {
			if errors.Is(err, repository.ErrBalanceWouldGoNegative) {
				return domainerrors.ErrInsufficientPoints
			}
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to debit points")
		}

		if err := redemptionRepo.DecrementStock(ctx, itemID); err != nil {
			if errors.Is(err, repository.ErrOutOfStock) {
				return domainerrors.ErrOutOfStock
			}

			return errors.Wrap(err, "failed to decrement stock")
		}

		voucherCode, err := newVoucherCode()
		if err != nil {
			return err
		}

		request := &entity.RedemptionRequest{
			UserID:      userID,
			ItemID:      itemID,
			PointsSpent: item.PointsCost,
			Status:      entity.RedemptionStatusPending,
			VoucherCode: voucherCode,
		}
		if err := redemptionRepo.CreateRequest(ctx, request); err != nil {
			return errors.Wrap(err, "failed to create redemption request")
		}

		referenceID := request.ID
		ledgerRow := &entity.PointTransaction{
			UserID:      userID,
			Amount:      -item.PointsCost,
			Type:        entity.PointTxRedemption,
			Description: item.Name,
			ReferenceID: &referenceID,
		}
		if err := pointTxRepo.Create(ctx, ledgerRow); err != nil {
			return errors.Wrap(err, "failed to write ledger row")
		}

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to reload user balance")
		}

		output.Request = request
		output.Balance = user.Points
		itemName = item.Name

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Redemption failed", slog.Any("userID", userID), slog.Any("itemID", itemID), slog.Any("error", err))

		return nil, err
	}

	srv.publishRedemptionEvent(ctx, service.EventRedemptionRequested, output.Request, itemName, -output.Request.PointsSpent, output.Balance)

	return &output, nil
}

// Cancel refunds the snapshot cost and restocks the item. Only PENDING
// requests can be cancelled; the conditional flip makes a concurrent
// cancel/fulfill race resolve to exactly one winner.
func (srv *redemptionService) Cancel(ctx context.Context, callerID uuid.UUID, isAdmin bool, requestID uuid.UUID) error {
	srv.log(ctx).Info("Cancelling redemption", slog.Any("requestID", requestID))

	var cancelled *entity.RedemptionRequest
	var balanceAfter int

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		redemptionRepo := repoFactory.RedemptionRepo()
		userRepo := repoFactory.UserRepo()
		pointTxRepo := repoFactory.PointTxRepo()

		request, err := redemptionRepo.FindRequestByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, repository.ErrRedemptionNotFound) {
				return domainerrors.ErrRedemptionNotFound
			}

			return errors.Wrap(err, "failed to find redemption request")
		}

		if !isAdmin && request.UserID != callerID {
			return domainerrors.ErrForbidden
		}

		flipped, err := redemptionRepo.UpdateRequestStatusIfPending(ctx, requestID, entity.RedemptionStatusCancelled)
		if err != nil {
			return errors.Wrap(err, "failed to update request status")
		}
		if !flipped {
			return domainerrors.ErrRedemptionFinalized
		}

		// Refund the snapshot cost, not the item's current price.
		if err := userRepo.AddPoints(ctx, request.UserID, request.PointsSpent); err != nil {
			return errors.Wrap(err, "failed to refund points")
		}

		referenceID := request.ID
		ledgerRow := &entity.PointTransaction{
			UserID:      request.UserID,
			Amount:      request.PointsSpent,
			Type:        entity.PointTxRedemptionRefund,
			ReferenceID: &referenceID,
		}
		if err := pointTxRepo.Create(ctx, ledgerRow); err != nil {
			return errors.Wrap(err, "failed to write refund ledger row")
		}

		if err := redemptionRepo.IncrementStock(ctx, request.ItemID); err != nil {
			return errors.Wrap(err, "failed to restock item")
		}

		user, err := userRepo.FindByID(ctx, request.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to reload user balance")
		}

		request.Status = entity.RedemptionStatusCancelled
		cancelled = request
		balanceAfter = user.Points

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Cancellation failed", slog.Any("requestID", requestID), slog.Any("error", err))

		return err
	}

	srv.publishRedemptionEvent(ctx, service.EventRedemptionFinalized, cancelled, "", cancelled.PointsSpent, balanceAfter)

	return nil
}

// Fulfill marks a PENDING request as handed over. Admin only.
func (srv *redemptionService) Fulfill(ctx context.Context, requestID uuid.UUID) error {
	srv.log(ctx).Info("Fulfilling redemption", slog.Any("requestID", requestID))

	var fulfilled *entity.RedemptionRequest
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		redemptionRepo := repoFactory.RedemptionRepo()

		request, err := redemptionRepo.FindRequestByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, repository.ErrRedemptionNotFound) {
				return domainerrors.ErrRedemptionNotFound
			}

			return errors.Wrap(err, "failed to find redemption request")
		}

		flipped, err := redemptionRepo.UpdateRequestStatusIfPending(ctx, requestID, entity.RedemptionStatusFulfilled)
		if err != nil {
			return errors.Wrap(err, "failed to update request status")
		}
		if !flipped {
			return domainerrors.ErrRedemptionFinalized
		}

		request.Status = entity.RedemptionStatusFulfilled
		fulfilled = request

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Fulfilment failed", slog.Any("requestID", requestID), slog.Any("error", err))

		return err
	}

	srv.publishRedemptionEvent(ctx, service.EventRedemptionFinalized, fulfilled, "", 0, 0)

	return nil
}

// ListRequests is the admin request listing.
func (srv *redemptionService) ListRequests(ctx context.Context, input *usecase.ListRedemptionRequestsInput) (*usecase.ListRedemptionRequestsOutput, error) {
	requests, total, err := srv.redemptionRepo.ListRequests(ctx, repository.RedemptionRequestFilter{
		Status: input.Status,
		UserID: input.UserID,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list redemption requests")
	}

	return &usecase.ListRedemptionRequestsOutput{Requests: requests, Total: total}, nil
}

// ListMyRequests returns the caller's own redemption requests.
func (srv *redemptionService) ListMyRequests(ctx context.Context, userID uuid.UUID) ([]*entity.RedemptionRequest, error) {
	requests, _, err := srv.redemptionRepo.ListRequests(ctx, repository.RedemptionRequestFilter{UserID: userID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list redemption requests")
	}

	return requests, nil
}

// GetVoucherQR renders the PNG voucher for the member's own PENDING request.
func (srv *redemptionService) GetVoucherQR(ctx context.Context, userID, requestID uuid.UUID) ([]byte, error) {
	request, err := srv.redemptionRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRedemptionNotFound) {
			return nil, domainerrors.ErrRedemptionNotFound
		}

		return nil, errors.Wrap(err, "failed to find redemption request")
	}

	if request.UserID != userID {
		return nil, domainerrors.ErrForbidden
	}
	if request.Status != entity.RedemptionStatusPending {
		return nil, domainerrors.ErrRedemptionFinalized
	}

	png, err := srv.voucherService.GenerateVoucherQR(request.ID, request.VoucherCode)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render voucher")
	}

	return png, nil
}

// VerifyVoucher resolves scanned QR data to the underlying request. Admin only.
func (srv *redemptionService) VerifyVoucher(ctx context.Context, qrData string) (*entity.RedemptionRequest, error) {
	requestID, voucherCode, err := srv.voucherService.ParseVoucherQR(qrData)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("unreadable voucher")
	}

	request, err := srv.redemptionRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrRedemptionNotFound) {
			return nil, domainerrors.ErrRedemptionNotFound
		}

		return nil, errors.Wrap(err, "failed to find redemption request")
	}

	if request.VoucherCode != voucherCode {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("voucher code mismatch")
	}

	return request, nil
}

// publishRedemptionEvent emits a redemption lifecycle event. Publish failures
// are logged, not surfaced: the transaction already committed.
func (srv *redemptionService) publishRedemptionEvent(ctx context.Context, eventType string, request *entity.RedemptionRequest, title string, amount, balance int) {
	event := &service.LoyaltyEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		Type:        eventType,
		UserID:      request.UserID.String(),
		Amount:      amount,
		Balance:     balance,
		ReferenceID: request.ID.String(),
		Title:       title,
		Detail:      string(request.Status),
	}
	if err := srv.eventPublisher.PublishLoyaltyEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish redemption event", slog.Any("requestID", request.ID), slog.Any("error", err))
	}
}
