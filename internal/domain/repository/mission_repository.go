package repository

import (
	"context"
	"errors"
	"time"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrMissionNotFound is returned when a mission lookup misses.
var ErrMissionNotFound = errors.New("mission not found")

// MissionFilter narrows the admin mission listing.
type MissionFilter struct {
	Statuses []entity.MissionStatus
	Type     entity.MissionType
	Limit    int
	Offset   int
}

// MissionRepository defines the operations for mission persistence.
type MissionRepository interface {
	// Create persists a new mission.
	Create(ctx context.Context, mission *entity.Mission) error

	// Update modifies an existing mission. ProductImages is always written,
	// including when it shrinks to empty.
	Update(ctx context.Context, mission *entity.Mission) error

	// Delete soft-deletes a mission; existing participations keep their FK.
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID retrieves a single mission by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Mission, error)

	// List returns missions matching the filter plus the unpaginated total.
	List(ctx context.Context, filter MissionFilter) ([]*entity.Mission, int64, error)

	// ListOpen returns ACTIVE missions whose date window contains now.
	ListOpen(ctx context.Context, now time.Time) ([]*entity.Mission, error)
}
