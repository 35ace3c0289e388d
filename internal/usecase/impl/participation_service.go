package impl

import (
	"context"
	"log/slog"
	"time"

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

// participationService implements the ParticipationUsecase interface.
type participationService struct {
	txManager      repository.TransactionManager
	eventPublisher service.EventPublisher
	logger         *slog.Logger
}

// ParticipationServiceParams holds dependencies for ParticipationService, injected by Fx.
type ParticipationServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	EventPublisher service.EventPublisher
	Logger         *slog.Logger
}

// NewParticipationService is the constructor for participationService.
func NewParticipationService(params ParticipationServiceParams) usecase.ParticipationUsecase {
	return &participationService{
		txManager:      params.TxManager,
		eventPublisher: params.EventPublisher,
		logger:         params.Logger,
	}
}

func (srv *participationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Submit records a member's submission against an open mission. The limit
// checks and the insert share one transaction; at read-committed isolation
// two truly concurrent submissions can still both pass the count, so the
// limits are best-effort gates, not hard uniqueness guarantees.
func (srv *participationService) Submit(ctx context.Context, userID uuid.UUID, input *usecase.SubmitParticipationInput) (*entity.MissionParticipation, error) {
	srv.log(ctx).Info("Mission submission", slog.Any("userID", userID), slog.Any("missionID", input.MissionID))

	var created *entity.MissionParticipation
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		missionRepo := repoFactory.MissionRepo()
		participationRepo := repoFactory.ParticipationRepo()

		mission, err := missionRepo.FindByID(ctx, input.MissionID)
		if err != nil {
			if errors.Is(err, repository.ErrMissionNotFound) {
				return domainerrors.ErrMissionNotFound
			}

			return errors.Wrap(err, "failed to find mission")
		}

		if !mission.IsOpenAt(time.Now()) {
			return domainerrors.ErrMissionNotOpen
		}

		if mission.UserLimit > 0 {
			mine, err := participationRepo.CountByMissionAndUser(ctx, mission.ID, userID)
			if err != nil {
				return errors.Wrap(err, "failed to count user submissions")
			}
			if mine >= int64(mission.UserLimit) {
				return domainerrors.ErrSubmissionLimitReached
			}
		}

		if mission.TotalLimit > 0 {
			all, err := participationRepo.CountByMission(ctx, mission.ID)
			if err != nil {
				return errors.Wrap(err, "failed to count mission submissions")
			}
			if all >= int64(mission.TotalLimit) {
				return domainerrors.ErrSubmissionLimitReached
			}
		}

		participation := &entity.MissionParticipation{
			UserID:         userID,
			MissionID:      mission.ID,
			Status:         entity.ParticipationStatusPending,
			SubmissionData: input.SubmissionData,
		}
		if err := participationRepo.Create(ctx, participation); err != nil {
			return errors.Wrap(err, "failed to create participation")
		}

		created = participation

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Mission submission failed", slog.Any("userID", userID), slog.Any("missionID", input.MissionID), slog.Any("error", err))

		return nil, err
	}

	return created, nil
}

// ListMine returns the caller's own submissions, newest first.
func (srv *participationService) ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.MissionParticipation, error) {
	var participations []*entity.MissionParticipation
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var err error
		participations, err = repoFactory.ParticipationRepo().ListByUser(ctx, userID)

		return errors.Wrap(err, "failed to list participations")
	})
	if err != nil {
		return nil, err
	}

	return participations, nil
}

// ListModerated is the back-office moderation listing.
func (srv *participationService) ListModerated(ctx context.Context, input *usecase.ListParticipationsInput) (*usecase.ListParticipationsOutput, error) {
	var output usecase.ListParticipationsOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		rows, total, err := repoFactory.ParticipationRepo().ListModerated(ctx, repository.ParticipationFilter{
			Status:    input.Status,
			MissionID: input.MissionID,
			UserID:    input.UserID,
			Limit:     input.Limit,
			Offset:    input.Offset,
		})
		if err != nil {
			return errors.Wrap(err, "failed to list moderated participations")
		}
		output.Participations = rows
		output.Total = total

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &output, nil
}

// Approve flips a PENDING submission to APPROVED, credits the mission reward
// and writes the ledger row, all in one transaction. Approving an already
// APPROVED row is an idempotent no-op; a REJECTED row cannot be approved.
func (srv *participationService) Approve(ctx context.Context, input *usecase.ModerateParticipationInput) (*usecase.ModerationOutput, error) {
	srv.log(ctx).Info("Approving participation", slog.Any("participationID", input.ParticipationID))

	var output usecase.ModerationOutput
	var balanceAfter int
	var missionTitle string

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		participationRepo := repoFactory.ParticipationRepo()
		missionRepo := repoFactory.MissionRepo()
		userRepo := repoFactory.UserRepo()
		pointTxRepo := repoFactory.PointTxRepo()

		participation, err := participationRepo.FindByID(ctx, input.ParticipationID)
		if err != nil {
			if errors.Is(err, repository.ErrParticipationNotFound) {
				return domainerrors.ErrParticipationNotFound
			}

			return errors.Wrap(err, "failed to find participation")
		}

		moderated, err := participationRepo.UpdateStatusIfPending(ctx, participation.ID, entity.ParticipationStatusApproved, input.Note, time.Now())
		if err != nil {
			return errors.Wrap(err, "failed to update participation status")
		}

		if !moderated {
			// Someone got here first. Re-approving an approval is harmless;
			// flipping a rejection is not.
			current, err := participationRepo.FindByID(ctx, participation.ID)
			if err != nil {
				return errors.Wrap(err, "failed to reload participation")
			}
			if current.Status == entity.ParticipationStatusApproved {
				output.Participation = current
				output.AlreadyModerated = true

				return nil
			}

			return domainerrors.ErrParticipationModerated
		}

		mission, err := missionRepo.FindByID(ctx, participation.MissionID)
		if err != nil {
			if errors.Is(err, repository.ErrMissionNotFound) {
				// Deleted mission: nothing left to price the reward against.
				return domainerrors.ErrMissionNotFound
			}

			return errors.Wrap(err, "failed to find mission for award")
		}

		if mission.PointsReward > 0 {
			if err := userRepo.AddPoints(ctx, participation.UserID, mission.PointsReward); err != nil {
				return errors.Wrap(err, "failed to credit mission reward")
			}

			referenceID := participation.ID
			ledgerRow := &entity.PointTransaction{
				UserID:      participation.UserID,
				Amount:      mission.PointsReward,
				Type:        entity.PointTxMissionReward,
				Description: mission.Title,
				ReferenceID: &referenceID,
			}
			if err := pointTxRepo.Create(ctx, ledgerRow); err != nil {
				return errors.Wrap(err, "failed to write ledger row")
			}
		}

		user, err := userRepo.FindByID(ctx, participation.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to reload user balance")
		}

		updated, err := participationRepo.FindByID(ctx, participation.ID)
		if err != nil {
			return errors.Wrap(err, "failed to reload participation")
		}

		output.Participation = updated
		output.PointsAwarded = mission.PointsReward
		balanceAfter = user.Points
		missionTitle = mission.Title

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Approve failed", slog.Any("participationID", input.ParticipationID), slog.Any("error", err))

		return nil, err
	}

	if !output.AlreadyModerated {
		srv.publishModerationEvents(ctx, output.Participation, missionTitle, output.PointsAwarded, balanceAfter)
	}

	return &output, nil
}

// Reject flips a PENDING submission to REJECTED. No points move.
func (srv *participationService) Reject(ctx context.Context, input *usecase.ModerateParticipationInput) (*usecase.ModerationOutput, error) {
	srv.log(ctx).Info("Rejecting participation", slog.Any("participationID", input.ParticipationID))

	var output usecase.ModerationOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		participationRepo := repoFactory.ParticipationRepo()

		participation, err := participationRepo.FindByID(ctx, input.ParticipationID)
		if err != nil {
			if errors.Is(err, repository.ErrParticipationNotFound) {
				return domainerrors.ErrParticipationNotFound
			}

			return errors.Wrap(err, "failed to find participation")
		}

		moderated, err := participationRepo.UpdateStatusIfPending(ctx, participation.ID, entity.ParticipationStatusRejected, input.Note, time.Now())
		if err != nil {
			return errors.Wrap(err, "failed to update participation status")
		}

		if !moderated {
			current, err := participationRepo.FindByID(ctx, participation.ID)
			if err != nil {
				return errors.Wrap(err, "failed to reload participation")
			}
			if current.Status == entity.ParticipationStatusRejected {
				output.Participation = current
				output.AlreadyModerated = true

				return nil
			}

			return domainerrors.ErrParticipationModerated
		}

		updated, err := participationRepo.FindByID(ctx, participation.ID)
		if err != nil {
			return errors.Wrap(err, "failed to reload participation")
		}
		output.Participation = updated

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Reject failed", slog.Any("participationID", input.ParticipationID), slog.Any("error", err))

		return nil, err
	}

	if !output.AlreadyModerated {
		srv.publishModerationEvents(ctx, output.Participation, "", 0, 0)
	}

	return &output, nil
}

// publishModerationEvents emits the moderation event and, when points moved,
// the award event. Publish failures are logged, not surfaced: the transaction
// already committed and the client will still see the result on next load.
func (srv *participationService) publishModerationEvents(ctx context.Context, participation *entity.MissionParticipation, missionTitle string, awarded, balance int) {
	requestID := deliverycontext.GetRequestIDFromContext(ctx)

	event := &service.LoyaltyEvent{
		RequestID:   requestID,
		Type:        service.EventParticipationModerated,
		UserID:      participation.UserID.String(),
		ReferenceID: participation.ID.String(),
		Title:       missionTitle,
		Detail:      string(participation.Status),
	}
	if err := srv.eventPublisher.PublishLoyaltyEvent(ctx, event); err != nil {
		srv.log(ctx).Error("Failed to publish moderation event", slog.Any("participationID", participation.ID), slog.Any("error", err))
	}

	if awarded > 0 {
		awardEvent := &service.LoyaltyEvent{
			RequestID:   requestID,
			Type:        service.EventPointsAwarded,
			UserID:      participation.UserID.String(),
			Amount:      awarded,
			Balance:     balance,
			ReferenceID: participation.ID.String(),
			Title:       missionTitle,
		}
		if err := srv.eventPublisher.PublishLoyaltyEvent(ctx, awardEvent); err != nil {
			srv.log(ctx).Error("Failed to publish award event", slog.Any("participationID", participation.ID), slog.Any("error", err))
		}
	}
}
