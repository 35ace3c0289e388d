package postgres

import (
	"context"

	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/repository"
	"loyalty/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// pointTransactionRepository implements the repository.PointTransactionRepository
// interface. The ledger is append-only; there are no update or delete methods.
type pointTransactionRepository struct {
	db *gorm.DB
}

// NewPointTransactionRepository is the constructor for pointTransactionRepository.
func NewPointTransactionRepository(db *gorm.DB) repository.PointTransactionRepository {
	return &pointTransactionRepository{
		db: db,
	}
}

// Create appends one ledger row.
func (repo *pointTransactionRepository) Create(ctx context.Context, tx *entity.PointTransaction) error {
	txM := fromPointTransactionDomain(tx)

	if err := repo.db.WithContext(ctx).Create(txM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrUserNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create point transaction")
	}

	tx.ID = txM.ID
	tx.CreatedAt = txM.CreatedAt

	return nil
}

// ListByUser returns a user's ledger rows, newest first, plus the unpaginated total.
func (repo *pointTransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.PointTransaction, int64, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.PointTransactionModel{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count point transactions")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var txModels []*model.PointTransactionModel
	if err := query.Order("created_at DESC").Find(&txModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list point transactions")
	}

	txs := make([]*entity.PointTransaction, 0, len(txModels))
	for _, txM := range txModels {
		txs = append(txs, toPointTransactionDomain(txM))
	}

	return txs, total, nil
}

// SumByUser computes the ledger sum for a user. This is the source of truth
// the denormalized balance is reconciled against.
func (repo *pointTransactionRepository) SumByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var sum *int

	if err := repo.db.WithContext(ctx).
		Model(&model.PointTransactionModel{}).
		Select("SUM(amount)").
		Where("user_id = ?", userID).
		Scan(&sum).Error; err != nil {
		return 0, errors.Wrap(err, "failed to sum point transactions")
	}

	// SUM over zero rows is NULL.
	if sum == nil {
		return 0, nil
	}

	return *sum, nil
}

// --- Mapper Functions ---

func toPointTransactionDomain(data *model.PointTransactionModel) *entity.PointTransaction {
	if data == nil {
		return nil
	}

	return &entity.PointTransaction{
		ID:          data.ID,
		UserID:      data.UserID,
		Amount:      data.Amount,
		Type:        entity.PointTransactionType(data.Type),
		Description: data.Description,
		ReferenceID: data.ReferenceID,
		CreatedAt:   data.CreatedAt,
	}
}

func fromPointTransactionDomain(data *entity.PointTransaction) *model.PointTransactionModel {
	if data == nil {
		return nil
	}

	return &model.PointTransactionModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Amount:      data.Amount,
		Type:        string(data.Type),
		Description: data.Description,
		ReferenceID: data.ReferenceID,
		CreatedAt:   data.CreatedAt,
	}
}
