package entity

import (
	"time"

	"github.com/google/uuid"
)

// MissionType distinguishes what a user has to submit to complete a mission.
type MissionType string

const (
	// MissionTypeReview requires the user to publish a product review.
	MissionTypeReview MissionType = "REVIEW"
	// MissionTypeReceipt requires the user to upload a purchase receipt.
	MissionTypeReceipt MissionType = "RECEIPT"
)

// MissionStatus is the admin-driven lifecycle state of a mission.
type MissionStatus string

const (
	MissionStatusDraft     MissionStatus = "DRAFT"
	MissionStatusActive    MissionStatus = "ACTIVE"
	MissionStatusCompleted MissionStatus = "COMPLETED"
)

// Mission is an admin-defined campaign a user can complete for points.
type Mission struct {
	ID            uuid.UUID
	Title         string
	Description   string
	Content       string // Rich-text body shown on the mission detail page.
	Type          MissionType
	Status        MissionStatus
	PointsReward  int
	StartsAt      time.Time
	ExpiresAt     time.Time
	UserLimit     int      // Max submissions per user; 0 means unlimited.
	TotalLimit    int      // Max submissions across all users; 0 means unlimited.
	ThumbnailURL  string
	ProductImages []string // Always persisted, even when empty.
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsOpenAt reports whether the mission accepts submissions at the given time.
func (m *Mission) IsOpenAt(t time.Time) bool {
	if m.Status != MissionStatusActive {
		return false
	}
	if t.Before(m.StartsAt) {
		return false
	}
	if !m.ExpiresAt.IsZero() && t.After(m.ExpiresAt) {
		return false
	}

	return true
}
