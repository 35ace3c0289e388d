package postgres

import (
	"context"
	"time"

	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/repository"
	"loyalty/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// missionRepository implements the repository.MissionRepository interface.
type missionRepository struct {
	db *gorm.DB
}

// NewMissionRepository is the constructor for missionRepository.
func NewMissionRepository(db *gorm.DB) repository.MissionRepository {
	return &missionRepository{
		db: db,
	}
}

// Create persists a new mission.
func (repo *missionRepository) Create(ctx context.Context, mission *entity.Mission) error {
	missionM := fromMissionDomain(mission)

	if err := repo.db.WithContext(ctx).Create(missionM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("mission fields violate constraints")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required mission information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create mission")
	}

	mission.ID = missionM.ID
	mission.CreatedAt = missionM.CreatedAt
	mission.UpdatedAt = missionM.UpdatedAt

	return nil
}

// Update modifies an existing mission.
// The Select list forces every column through, so product_images is written
// even when the slice shrank to empty and zero values like user_limit=0 stick.
func (repo *missionRepository) Update(ctx context.Context, mission *entity.Mission) error {
	missionM := fromMissionDomain(mission)

	result := repo.db.WithContext(ctx).
		Model(&model.MissionModel{}).
		Where("id = ?", mission.ID).
		Select("title", "description", "content", "type", "status", "points_reward",
			"starts_at", "expires_at", "user_limit", "total_limit", "thumbnail_url", "product_images").
		Updates(missionM)

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("mission fields violate constraints")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update mission")
	}

	if result.RowsAffected == 0 {
		return repository.ErrMissionNotFound
	}

	return nil
}

// Delete soft-deletes a mission; existing participations keep their FK.
func (repo *missionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.MissionModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete mission")
	}

	if result.RowsAffected == 0 {
		return repository.ErrMissionNotFound
	}

	return nil
}

// FindByID retrieves a single mission by its unique ID.
func (repo *missionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
	var missionM model.MissionModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&missionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMissionNotFound
		}

		return nil, errors.Wrap(err, "failed to find mission by id")
	}

	return toMissionDomain(&missionM), nil
}

// List returns missions matching the filter plus the unpaginated total.
func (repo *missionRepository) List(ctx context.Context, filter repository.MissionFilter) ([]*entity.Mission, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.MissionModel{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count missions")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var missionModels []*model.MissionModel
	if err := query.Order("created_at DESC").Find(&missionModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list missions")
	}

	missions := make([]*entity.Mission, 0, len(missionModels))
	for _, missionM := range missionModels {
		missions = append(missions, toMissionDomain(missionM))
	}

	return missions, total, nil
}

// ListOpen returns ACTIVE missions whose date window contains now.
// A zero expires_at means the mission never expires.
func (repo *missionRepository) ListOpen(ctx context.Context, now time.Time) ([]*entity.Mission, error) {
	var missionModels []*model.MissionModel

	if err := repo.db.WithContext(ctx).
		Where("status = ?", entity.MissionStatusActive).
		Where("starts_at <= ?", now).
		Where("expires_at IS NULL OR expires_at = ? OR expires_at >= ?", time.Time{}, now).
		Order("starts_at DESC").
		Find(&missionModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list open missions")
	}

	missions := make([]*entity.Mission, 0, len(missionModels))
	for _, missionM := range missionModels {
		missions = append(missions, toMissionDomain(missionM))
	}

	return missions, nil
}

// --- Mapper Functions ---

// toMissionDomain converts a GORM MissionModel to a domain Mission entity.
func toMissionDomain(data *model.MissionModel) *entity.Mission {
	if data == nil {
		return nil
	}

	return &entity.Mission{
		ID:            data.ID,
		Title:         data.Title,
		Description:   data.Description,
		Content:       data.Content,
		Type:          entity.MissionType(data.Type),
		Status:        entity.MissionStatus(data.Status),
		PointsReward:  data.PointsReward,
		StartsAt:      data.StartsAt,
		ExpiresAt:     data.ExpiresAt,
		UserLimit:     data.UserLimit,
		TotalLimit:    data.TotalLimit,
		ThumbnailURL:  data.ThumbnailURL,
		ProductImages: stringsFromJSON(data.ProductImages),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

// fromMissionDomain converts a domain Mission entity to a GORM MissionModel.
func fromMissionDomain(data *entity.Mission) *model.MissionModel {
	if data == nil {
		return nil
	}

	return &model.MissionModel{
		ID:            data.ID,
		Title:         data.Title,
		Description:   data.Description,
		Content:       data.Content,
		Type:          string(data.Type),
		Status:        string(data.Status),
		PointsReward:  data.PointsReward,
		StartsAt:      data.StartsAt,
		ExpiresAt:     data.ExpiresAt,
		UserLimit:     data.UserLimit,
		TotalLimit:    data.TotalLimit,
		ThumbnailURL:  data.ThumbnailURL,
		ProductImages: stringsToJSON(data.ProductImages),
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
