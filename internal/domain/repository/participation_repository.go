package repository

import (
	"context"
	"errors"
	"time"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrParticipationNotFound is returned when a participation lookup misses.
var ErrParticipationNotFound = errors.New("participation not found")

// ParticipationFilter narrows the moderation listing.
type ParticipationFilter struct {
	Status    entity.ParticipationStatus // Empty means all statuses.
	MissionID uuid.UUID                  // uuid.Nil means all missions.
	UserID    uuid.UUID                  // uuid.Nil means all users.
	Limit     int
	Offset    int
}

// ParticipationRepository defines the operations for mission participation persistence.
type ParticipationRepository interface {
	// Create persists a new PENDING participation.
	Create(ctx context.Context, participation *entity.MissionParticipation) error

	// FindByID retrieves a single participation by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MissionParticipation, error)

	// ListModerated returns participations matching the filter, each enriched
	// with the joined user and mission columns the back-office needs, plus the
	// unpaginated total. The joins happen in SQL, not by stitching rows in the
	// caller.
	ListModerated(ctx context.Context, filter ParticipationFilter) ([]*entity.ModeratedParticipation, int64, error)

	// ListByUser returns a user's own participations, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.MissionParticipation, error)

	// CountByMission counts non-rejected submissions against a mission.
	CountByMission(ctx context.Context, missionID uuid.UUID) (int64, error)

	// CountByMissionAndUser counts one user's non-rejected submissions against a mission.
	CountByMissionAndUser(ctx context.Context, missionID, userID uuid.UUID) (int64, error)

	// UpdateStatusIfPending flips the status with a conditional
	// WHERE status = 'PENDING' update and reports whether a row was changed.
	// This is the guard that makes concurrent moderation safe: of two admins
	// approving the same row, exactly one sees moderated=true.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status entity.ParticipationStatus, note string, moderatedAt time.Time) (bool, error)
}
