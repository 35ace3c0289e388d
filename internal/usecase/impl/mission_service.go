package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "loyalty/internal/delivery/context"
	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/repository"
	"loyalty/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// missionService implements the MissionUsecase interface.
type missionService struct {
	missionRepo       repository.MissionRepository
	participationRepo repository.ParticipationRepository
	logger            *slog.Logger
}

// MissionServiceParams holds dependencies for MissionService, injected by Fx.
type MissionServiceParams struct {
	fx.In

	MissionRepo       repository.MissionRepository
	ParticipationRepo repository.ParticipationRepository
	Logger            *slog.Logger
}

// NewMissionService is the constructor for missionService.
func NewMissionService(params MissionServiceParams) usecase.MissionUsecase {
	return &missionService{
		missionRepo:       params.MissionRepo,
		participationRepo: params.ParticipationRepo,
		logger:            params.Logger,
	}
}

func (srv *missionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// validateMissionInput rejects inverted date windows and negative rewards
// before anything touches the database.
func validateMissionInput(input *usecase.CreateMissionInput) error {
	if !input.ExpiresAt.IsZero() && input.ExpiresAt.Before(input.StartsAt) {
		return domainerrors.ErrMissionDateOrder
	}
	if input.PointsReward < 0 || input.UserLimit < 0 || input.TotalLimit < 0 {
		return domainerrors.ErrValidationFailed.WrapMessage("limits and reward must not be negative")
	}

	return nil
}

func missionFromInput(input *usecase.CreateMissionInput) *entity.Mission {
	return &entity.Mission{
		Title:         input.Title,
		Description:   input.Description,
		Content:       input.Content,
		Type:          input.Type,
		Status:        input.Status,
		PointsReward:  input.PointsReward,
		StartsAt:      input.StartsAt,
		ExpiresAt:     input.ExpiresAt,
		UserLimit:     input.UserLimit,
		TotalLimit:    input.TotalLimit,
		ThumbnailURL:  input.ThumbnailURL,
		ProductImages: input.ProductImages,
	}
}

// CreateMission creates a new mission. Admin only.
func (srv *missionService) CreateMission(ctx context.Context, input *usecase.CreateMissionInput) (*entity.Mission, error) {
	if err := validateMissionInput(input); err != nil {
		return nil, err
	}

	mission := missionFromInput(input)
	if mission.Status == "" {
		mission.Status = entity.MissionStatusDraft
	}

	if err := srv.missionRepo.Create(ctx, mission); err != nil {
		srv.log(ctx).Error("Failed to create mission", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create mission")
	}

	srv.log(ctx).Info("Mission created", slog.Any("missionID", mission.ID), slog.String("title", mission.Title))

	return mission, nil
}

// UpdateMission replaces a mission's editable state. Admin only.
func (srv *missionService) UpdateMission(ctx context.Context, id uuid.UUID, input *usecase.UpdateMissionInput) (*entity.Mission, error) {
	if err := validateMissionInput(input); err != nil {
		return nil, err
	}

	mission := missionFromInput(input)
	mission.ID = id

	if err := srv.missionRepo.Update(ctx, mission); err != nil {
		if errors.Is(err, repository.ErrMissionNotFound) {
			return nil, domainerrors.ErrMissionNotFound
		}
		srv.log(ctx).Error("Failed to update mission", slog.Any("missionID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update mission")
	}

	updated, err := srv.missionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reload mission after update")
	}

	return updated, nil
}

// DeleteMission soft-deletes a mission. Existing participations survive and
// show up with a MissionDeleted flag in the moderation listing.
func (srv *missionService) DeleteMission(ctx context.Context, id uuid.UUID) error {
	if err := srv.missionRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMissionNotFound) {
			return domainerrors.ErrMissionNotFound
		}

		return errors.Wrap(err, "failed to delete mission")
	}

	srv.log(ctx).Info("Mission deleted", slog.Any("missionID", id))

	return nil
}

// ListMissions is the admin mission listing.
func (srv *missionService) ListMissions(ctx context.Context, input *usecase.ListMissionsInput) (*usecase.ListMissionsOutput, error) {
	missions, total, err := srv.missionRepo.List(ctx, repository.MissionFilter{
		Statuses: input.Statuses,
		Type:     input.Type,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list missions")
	}

	return &usecase.ListMissionsOutput{Missions: missions, Total: total}, nil
}

// GetMission retrieves a single mission.
func (srv *missionService) GetMission(ctx context.Context, id uuid.UUID) (*entity.Mission, error) {
	mission, err := srv.missionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrMissionNotFound) {
			return nil, domainerrors.ErrMissionNotFound
		}

		return nil, errors.Wrap(err, "failed to find mission")
	}

	return mission, nil
}

// ListOpenMissions returns currently open missions annotated with the
// caller's submission headroom.
func (srv *missionService) ListOpenMissions(ctx context.Context, userID uuid.UUID) ([]*usecase.OpenMissionOutput, error) {
	missions, err := srv.missionRepo.ListOpen(ctx, time.Now())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list open missions")
	}

	result := make([]*usecase.OpenMissionOutput, 0, len(missions))
	for _, mission := range missions {
		mine, err := srv.participationRepo.CountByMissionAndUser(ctx, mission.ID, userID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to count user submissions")
		}

		canSubmit := mission.UserLimit == 0 || mine < int64(mission.UserLimit)
		if canSubmit && mission.TotalLimit > 0 {
			all, err := srv.participationRepo.CountByMission(ctx, mission.ID)
			if err != nil {
				return nil, errors.Wrap(err, "failed to count mission submissions")
			}
			canSubmit = all < int64(mission.TotalLimit)
		}

		result = append(result, &usecase.OpenMissionOutput{
			Mission:        mission,
			SubmittedCount: mine,
			CanSubmit:      canSubmit,
		})
	}

	return result, nil
}
