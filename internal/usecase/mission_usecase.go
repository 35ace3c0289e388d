package usecase

import (
	"context"
	"time"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateMissionInput defines the data required to create a mission.
type CreateMissionInput struct {
	Title         string
	Description   string
	Content       string
	Type          entity.MissionType
	Status        entity.MissionStatus
	PointsReward  int
	StartsAt      time.Time
	ExpiresAt     time.Time // Zero means the mission never expires.
	UserLimit     int       // 0 means unlimited.
	TotalLimit    int       // 0 means unlimited.
	ThumbnailURL  string
	ProductImages []string
}

// UpdateMissionInput carries the full replacement state of a mission.
// ProductImages is always written, including when it shrank to empty.
type UpdateMissionInput = CreateMissionInput

// ListMissionsInput narrows the admin mission listing.
type ListMissionsInput struct {
	Statuses []entity.MissionStatus
	Type     entity.MissionType
	Limit    int
	Offset   int
}

// ListMissionsOutput returns one page of missions plus the unpaginated total.
type ListMissionsOutput struct {
	Missions []*entity.Mission
	Total    int64
}

// OpenMissionOutput is a mission as seen by a member, with their remaining headroom.
type OpenMissionOutput struct {
	Mission *entity.Mission

	// SubmittedCount is the caller's non-rejected submissions against this mission.
	SubmittedCount int64

	// CanSubmit reports whether another submission would pass the limit checks.
	CanSubmit bool
}

// MissionUsecase defines the interface for mission management and browsing.
type MissionUsecase interface {
	// Admin operations.
	CreateMission(ctx context.Context, input *CreateMissionInput) (*entity.Mission, error)
	UpdateMission(ctx context.Context, id uuid.UUID, input *UpdateMissionInput) (*entity.Mission, error)
	DeleteMission(ctx context.Context, id uuid.UUID) error
	ListMissions(ctx context.Context, input *ListMissionsInput) (*ListMissionsOutput, error)

	// Member operations.
	GetMission(ctx context.Context, id uuid.UUID) (*entity.Mission, error)
	ListOpenMissions(ctx context.Context, userID uuid.UUID) ([]*OpenMissionOutput, error)
}
