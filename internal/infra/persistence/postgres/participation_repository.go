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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// participationRepository implements the repository.ParticipationRepository interface.
type participationRepository struct {
	db *gorm.DB
}

// NewParticipationRepository is the constructor for participationRepository.
func NewParticipationRepository(db *gorm.DB) repository.ParticipationRepository {
	return &participationRepository{
		db: db,
	}
}

// Create persists a new PENDING participation.
func (repo *participationRepository) Create(ctx context.Context, participation *entity.MissionParticipation) error {
	participationM := fromParticipationDomain(participation)

	if err := repo.db.WithContext(ctx).Create(participationM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrMissionNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create participation")
	}

	participation.ID = participationM.ID
	participation.CreatedAt = participationM.CreatedAt
	participation.UpdatedAt = participationM.UpdatedAt

	return nil
}

// FindByID retrieves a single participation by its unique ID.
func (repo *participationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error) {
	var participationM model.MissionParticipationModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&participationM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrParticipationNotFound
		}

		return nil, errors.Wrap(err, "failed to find participation by id")
	}

	return toParticipationDomain(&participationM), nil
}

// moderatedRow is the scan target for the joined moderation listing.
// Nullable joined columns signal a soft-deleted user or mission.
type moderatedRow struct {
	model.MissionParticipationModel

	UserName      *string
	UserEmail     *string
	MissionTitle  *string
	MissionPoints *int
}

// ListModerated returns participations matching the filter, each enriched with
// the joined user and mission columns the back-office needs. The joins happen
// in SQL; soft-deleted related rows surface as Deleted flags instead of
// fabricated placeholder names.
func (repo *participationRepository) ListModerated(ctx context.Context, filter repository.ParticipationFilter) ([]*entity.ModeratedParticipation, int64, error) {
	base := repo.db.WithContext(ctx).
		Model(&model.MissionParticipationModel{}).
		Table("mission_participations AS p")

	if filter.Status != "" {
		base = base.Where("p.status = ?", filter.Status)
	}
	if filter.MissionID != uuid.Nil {
		base = base.Where("p.mission_id = ?", filter.MissionID)
	}
	if filter.UserID != uuid.Nil {
		base = base.Where("p.user_id = ?", filter.UserID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count participations")
	}

	query := base.
		Select("p.*, u.name AS user_name, u.email AS user_email, m.title AS mission_title, m.points_reward AS mission_points").
		Joins("LEFT JOIN users u ON u.id = p.user_id AND u.deleted_at IS NULL").
		Joins("LEFT JOIN missions m ON m.id = p.mission_id AND m.deleted_at IS NULL").
		Order("p.created_at DESC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []*moderatedRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list moderated participations")
	}

	result := make([]*entity.ModeratedParticipation, 0, len(rows))
	for _, row := range rows {
		enriched := &entity.ModeratedParticipation{
			Participation:  toParticipationDomain(&row.MissionParticipationModel),
			UserDeleted:    row.UserName == nil,
			MissionDeleted: row.MissionTitle == nil,
		}
		if row.UserName != nil {
			enriched.UserName = *row.UserName
		}
		if row.UserEmail != nil {
			enriched.UserEmail = *row.UserEmail
		}
		if row.MissionTitle != nil {
			enriched.MissionTitle = *row.MissionTitle
		}
		if row.MissionPoints != nil {
			enriched.MissionPoints = *row.MissionPoints
		}
		result = append(result, enriched)
	}

	return result, total, nil
}

// ListByUser returns a user's own participations, newest first.
func (repo *participationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.MissionParticipation, error) {
	var participationModels []*model.MissionParticipationModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&participationModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list participations by user")
	}

	participations := make([]*entity.MissionParticipation, 0, len(participationModels))
	for _, participationM := range participationModels {
		participations = append(participations, toParticipationDomain(participationM))
	}

	return participations, nil
}

// CountByMission counts non-rejected submissions against a mission.
// Rejected submissions give the user their attempt back, so they stay out of
// the limit math.
func (repo *participationRepository) CountByMission(ctx context.Context, missionID uuid.UUID) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.MissionParticipationModel{}).
		Where("mission_id = ? AND status <> ?", missionID, entity.ParticipationStatusRejected).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count participations by mission")
	}

	return count, nil
}

// CountByMissionAndUser counts one user's non-rejected submissions against a mission.
func (repo *participationRepository) CountByMissionAndUser(ctx context.Context, missionID, userID uuid.UUID) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.MissionParticipationModel{}).
		Where("mission_id = ? AND user_id = ? AND status <> ?", missionID, userID, entity.ParticipationStatusRejected).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count participations by mission and user")
	}

	return count, nil
}

// UpdateStatusIfPending flips the status with a conditional WHERE status = 'PENDING'
// update and reports whether a row was changed. Of two admins moderating the
// same row concurrently, exactly one observes true.
func (repo *participationRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status entity.ParticipationStatus, note string, moderatedAt time.Time) (bool, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.MissionParticipationModel{}).
		Where("id = ? AND status = ?", id, entity.ParticipationStatusPending).
		Updates(map[string]any{
			"status":        string(status),
			"reviewer_note": note,
			"moderated_at":  moderatedAt,
		})

	if result.Error != nil {
		return false, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update participation status")
	}

	return result.RowsAffected > 0, nil
}

// --- Mapper Functions ---

// toParticipationDomain converts a GORM MissionParticipationModel to a domain entity.
func toParticipationDomain(data *model.MissionParticipationModel) *entity.MissionParticipation {
	if data == nil {
		return nil
	}

	return &entity.MissionParticipation{
		ID:             data.ID,
		UserID:         data.UserID,
		MissionID:      data.MissionID,
		Status:         entity.ParticipationStatus(data.Status),
		SubmissionData: mapFromJSON(data.SubmissionData),
		ReviewerNote:   data.ReviewerNote,
		ModeratedAt:    data.ModeratedAt,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

// fromParticipationDomain converts a domain entity to a GORM MissionParticipationModel.
func fromParticipationDomain(data *entity.MissionParticipation) *model.MissionParticipationModel {
	if data == nil {
		return nil
	}

	var submission datatypes.JSON
	if data.SubmissionData != nil {
		submission = mapToJSON(data.SubmissionData)
	}

	return &model.MissionParticipationModel{
		ID:             data.ID,
		UserID:         data.UserID,
		MissionID:      data.MissionID,
		Status:         string(data.Status),
		SubmissionData: submission,
		ReviewerNote:   data.ReviewerNote,
		ModeratedAt:    data.ModeratedAt,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}
