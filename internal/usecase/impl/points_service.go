package impl

import (
	"context"
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

// pointsService implements the PointsUsecase interface.
type pointsService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	pointTxRepo    repository.PointTransactionRepository
	eventPublisher service.EventPublisher
	logger         *slog.Logger
}

// PointsServiceParams holds dependencies for PointsService, injected by Fx.
type PointsServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	PointTxRepo    repository.PointTransactionRepository
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewPointsService is the constructor for pointsService.
func NewPointsService(params PointsServiceParams) usecase.PointsUsecase {
	return &pointsService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		pointTxRepo:    params.PointTxRepo,
		eventPublisher: params.EventPublisher,
		logger:         params.Logger,
	}
}

func (srv *pointsService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetBalance returns the denormalized balance.
func (srv *pointsService) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, domainerrors.ErrUserNotFound
		}

		return 0, errors.Wrap(err, "failed to load user")
	}

	return user.Points, nil
}

// GetHistory returns one page of the member's ledger, newest first.
func (srv *pointsService) GetHistory(ctx context.Context, userID uuid.UUID, limit, offset int) (*usecase.PointHistoryOutput, error) {
	transactions, total, err := srv.pointTxRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list point transactions")
	}

	return &usecase.PointHistoryOutput{Transactions: transactions, Total: total}, nil
}

// Adjust credits or debits a member and writes the ledger row in the same
// transaction. A negative adjustment that would overdraw fails and rolls back.
func (srv *pointsService) Adjust(ctx context.Context, input *usecase.AdjustPointsInput) (*entity.PointTransaction, error) {
	if input.Amount == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("adjustment amount must not be zero")
	}

	srv.log(ctx).Info("Adjusting points", slog.Any("userID", input.UserID), slog.Int("amount", input.Amount))

	var ledgerRow *entity.PointTransaction
	var balanceAfter int

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		pointTxRepo := repoFactory.PointTxRepo()

		if err := userRepo.AddPoints(ctx, input.UserID, input.Amount); err != nil {
			if errors.Is(err, repository.ErrBalanceWouldGoNegative) {
				return domainerrors.ErrNegativeBalance
			}
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to apply adjustment")
		}

		row := &entity.PointTransaction{
			UserID:      input.UserID,
			Amount:      input.Amount,
			Type:        entity.PointTxAdminAdjust,
			Description: input.Description,
		}
		if err := pointTxRepo.Create(ctx, row); err != nil {
			return errors.Wrap(err, "failed to write ledger row")
		}

		user, err := userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to reload user balance")
		}

		ledgerRow = row
		balanceAfter = user.Points

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Adjustment failed", slog.Any("userID", input.UserID), slog.Any("error", err))

		return nil, err
	}

	event := &service.LoyaltyEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		Type:        service.EventPointsAdjusted,
		UserID:      input.UserID.String(),
		Amount:      input.Amount,
		Balance:     balanceAfter,
		ReferenceID: ledgerRow.ID.String(),
		Detail:      input.Description,
	}
	if err := srv.eventPublisher.PublishLoyaltyEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish adjustment event", slog.Any("userID", input.UserID), slog.Any("error", err))
	}

	return ledgerRow, nil
}

// Reconcile rebuilds the denormalized balance from the ledger sum. The ledger
// is the source of truth; a disagreeing stored balance is overwritten.
func (srv *pointsService) Reconcile(ctx context.Context, userID uuid.UUID) (*usecase.ReconcileOutput, error) {
	var output usecase.ReconcileOutput

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		pointTxRepo := repoFactory.PointTxRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound
			}

			return errors.Wrap(err, "failed to load user")
		}

		sum, err := pointTxRepo.SumByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to sum ledger")
		}

		output.LedgerSum = sum
		output.PreviousBalance = user.Points

		if sum != user.Points {
			if err := userRepo.SetPoints(ctx, userID, sum); err != nil {
				return errors.Wrap(err, "failed to correct balance")
			}
			output.Corrected = true
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Reconciliation failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, err
	}

	if output.Corrected {
		srv.log(ctx).Warn("Balance drift corrected",
			slog.Any("userID", userID),
			slog.Int("previous", output.PreviousBalance),
			slog.Int("ledger_sum", output.LedgerSum),
		)
	}

	return &output, nil
}
