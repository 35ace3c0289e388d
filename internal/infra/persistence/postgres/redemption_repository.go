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

// redemptionRepository implements the repository.RedemptionRepository interface.
type redemptionRepository struct {
	db *gorm.DB
}

// NewRedemptionRepository is the constructor for redemptionRepository.
func NewRedemptionRepository(db *gorm.DB) repository.RedemptionRepository {
	return &redemptionRepository{
		db: db,
	}
}

// CreateItem persists a new catalog item.
func (repo *redemptionRepository) CreateItem(ctx context.Context, item *entity.RedemptionItem) error {
	itemM := fromRedemptionItemDomain(item)

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("item fields violate constraints")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create redemption item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt
	item.UpdatedAt = itemM.UpdatedAt

	return nil
}

// UpdateItem modifies an existing catalog item.
// Stock is in the Select list so switching between tracked and untracked (NULL) sticks.
func (repo *redemptionRepository) UpdateItem(ctx context.Context, item *entity.RedemptionItem) error {
	itemM := fromRedemptionItemDomain(item)

	result := repo.db.WithContext(ctx).
		Model(&model.RedemptionItemModel{}).
		Where("id = ?", item.ID).
		Select("name", "description", "image_url", "points_cost", "stock", "is_active").
		Updates(itemM)

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("item fields violate constraints")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update redemption item")
	}

	if result.RowsAffected == 0 {
		return repository.ErrRedemptionItemNotFound
	}

	return nil
}

// DeleteItem soft-deletes a catalog item; existing requests keep their FK.
func (repo *redemptionRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.RedemptionItemModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete redemption item")
	}

	if result.RowsAffected == 0 {
		return repository.ErrRedemptionItemNotFound
	}

	return nil
}

// FindItemByID retrieves a single catalog item by its unique ID.
func (repo *redemptionRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*entity.RedemptionItem, error) {
	var itemM model.RedemptionItemModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&itemM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRedemptionItemNotFound
		}

		return nil, errors.Wrap(err, "failed to find redemption item by id")
	}

	return toRedemptionItemDomain(&itemM), nil
}

// ListItems returns catalog items, cheapest first.
func (repo *redemptionRepository) ListItems(ctx context.Context, activeOnly bool) ([]*entity.RedemptionItem, error) {
	query := repo.db.WithContext(ctx).Model(&model.RedemptionItemModel{})

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var itemModels []*model.RedemptionItemModel
	if err := query.Order("points_cost ASC").Find(&itemModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list redemption items")
	}

	items := make([]*entity.RedemptionItem, 0, len(itemModels))
	for _, itemM := range itemModels {
		items = append(items, toRedemptionItemDomain(itemM))
	}

	return items, nil
}

// DecrementStock conditionally decrements tracked stock. The WHERE stock > 0
// guard means two concurrent redemptions of the last unit cannot both
// succeed: the loser matches no row and gets ErrOutOfStock. Items with
// untracked stock (NULL) are not touched and never fail.
func (repo *redemptionRepository) DecrementStock(ctx context.Context, itemID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.RedemptionItemModel{}).
		Where("id = ? AND stock IS NOT NULL AND stock > 0", itemID).
		Update("stock", gorm.Expr("stock - 1"))

	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to decrement stock")
	}

	if result.RowsAffected == 0 {
		// Untracked stock is not an error; only a tracked zero is.
		var itemM model.RedemptionItemModel
		if err := repo.db.WithContext(ctx).
			Select("stock").
			Where("id = ?", itemID).
			First(&itemM).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrRedemptionItemNotFound
			}

			return errors.Wrap(err, "failed to check item stock")
		}
		if itemM.Stock == nil {
			return nil
		}

		return repository.ErrOutOfStock
	}

	return nil
}

// IncrementStock returns one unit of tracked stock (used on cancel).
// Untracked items are left alone.
func (repo *redemptionRepository) IncrementStock(ctx context.Context, itemID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Model(&model.RedemptionItemModel{}).
		Where("id = ? AND stock IS NOT NULL", itemID).
		Update("stock", gorm.Expr("stock + 1")).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to increment stock")
	}

	return nil
}

// CreateRequest persists a new redemption request.
func (repo *redemptionRepository) CreateRequest(ctx context.Context, request *entity.RedemptionRequest) error {
	requestM := fromRedemptionRequestDomain(request)

	if err := repo.db.WithContext(ctx).Create(requestM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrRedemptionItemNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create redemption request")
	}

	request.ID = requestM.ID
	request.CreatedAt = requestM.CreatedAt
	request.UpdatedAt = requestM.UpdatedAt

	return nil
}

// FindRequestByID retrieves a single redemption request by its unique ID.
func (repo *redemptionRepository) FindRequestByID(ctx context.Context, id uuid.UUID) (*entity.RedemptionRequest, error) {
	var requestM model.RedemptionRequestModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&requestM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRedemptionNotFound
		}

		return nil, errors.Wrap(err, "failed to find redemption request by id")
	}

	return toRedemptionRequestDomain(&requestM), nil
}

// ListRequests returns redemption requests matching the filter plus the unpaginated total.
func (repo *redemptionRepository) ListRequests(ctx context.Context, filter repository.RedemptionRequestFilter) ([]*entity.RedemptionRequest, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.RedemptionRequestModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count redemption requests")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var requestModels []*model.RedemptionRequestModel
	if err := query.Order("created_at DESC").Find(&requestModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list redemption requests")
	}

	requests := make([]*entity.RedemptionRequest, 0, len(requestModels))
	for _, requestM := range requestModels {
		requests = append(requests, toRedemptionRequestDomain(requestM))
	}

	return requests, total, nil
}

// UpdateRequestStatusIfPending flips the status with a conditional
// WHERE status = 'PENDING' update and reports whether a row was changed.
func (repo *redemptionRepository) UpdateRequestStatusIfPending(ctx context.Context, id uuid.UUID, status entity.RedemptionStatus) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.RedemptionRequestModel{}).
		Where("id = ? AND status = ?", id, entity.RedemptionStatusPending).
		Update("status", string(status))

	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update redemption request status")
	}

	return result.RowsAffected > 0, nil
}

// --- Mapper Functions ---

func toRedemptionItemDomain(data *model.RedemptionItemModel) *entity.RedemptionItem {
	if data == nil {
		return nil
	}

	return &entity.RedemptionItem{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		ImageURL:    data.ImageURL,
		PointsCost:  data.PointsCost,
		Stock:       data.Stock,
		IsActive:    data.IsActive,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromRedemptionItemDomain(data *entity.RedemptionItem) *model.RedemptionItemModel {
	if data == nil {
		return nil
	}

	return &model.RedemptionItemModel{
		ID:          data.ID,
		Name:        data.Name,
		Description: data.Description,
		ImageURL:    data.ImageURL,
		PointsCost:  data.PointsCost,
		Stock:       data.Stock,
		IsActive:    data.IsActive,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func toRedemptionRequestDomain(data *model.RedemptionRequestModel) *entity.RedemptionRequest {
	if data == nil {
		return nil
	}

	return &entity.RedemptionRequest{
		ID:          data.ID,
		UserID:      data.UserID,
		ItemID:      data.ItemID,
		PointsSpent: data.PointsSpent,
		Status:      entity.RedemptionStatus(data.Status),
		VoucherCode: data.VoucherCode,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromRedemptionRequestDomain(data *entity.RedemptionRequest) *model.RedemptionRequestModel {
	if data == nil {
		return nil
	}

	return &model.RedemptionRequestModel{
		ID:          data.ID,
		UserID:      data.UserID,
		ItemID:      data.ItemID,
		PointsSpent: data.PointsSpent,
		Status:      string(data.Status),
		VoucherCode: data.VoucherCode,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}
