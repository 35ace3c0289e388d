package usecase

import (
	"context"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// SubmitParticipationInput defines the data required to submit against a mission.
type SubmitParticipationInput struct {
	MissionID      uuid.UUID
	SubmissionData map[string]any
}

// ModerateParticipationInput identifies the row under moderation plus the
// reviewer's note.
type ModerateParticipationInput struct {
	ParticipationID uuid.UUID
	Note            string
}

// ListParticipationsInput narrows the back-office moderation listing.
type ListParticipationsInput struct {
	Status    entity.ParticipationStatus
	MissionID uuid.UUID
	UserID    uuid.UUID
	Limit     int
	Offset    int
}

// ListParticipationsOutput returns one page of enriched rows plus the unpaginated total.
type ListParticipationsOutput struct {
	Participations []*entity.ModeratedParticipation
	Total          int64
}

// ModerationOutput reports the result of an approve or reject.
type ModerationOutput struct {
	Participation *entity.MissionParticipation

	// AlreadyModerated is true when the row had already left PENDING before
	// this call. Approving an APPROVED row is an idempotent no-op: no second
	// award is made.
	AlreadyModerated bool

	// PointsAwarded is the mission reward credited by this call, 0 when none.
	PointsAwarded int
}

// ParticipationUsecase defines the interface for mission submissions and their moderation.
type ParticipationUsecase interface {
	// Member operations.
	Submit(ctx context.Context, userID uuid.UUID, input *SubmitParticipationInput) (*entity.MissionParticipation, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.MissionParticipation, error)

	// Admin operations. Approve credits the mission reward and writes the
	// ledger row in the same transaction as the status flip.
	ListModerated(ctx context.Context, input *ListParticipationsInput) (*ListParticipationsOutput, error)
	Approve(ctx context.Context, input *ModerateParticipationInput) (*ModerationOutput, error)
	Reject(ctx context.Context, input *ModerateParticipationInput) (*ModerationOutput, error)
}
