package entity

import (
	"time"

	"github.com/google/uuid"
)

// ParticipationStatus is the moderation state of a mission participation.
// PENDING transitions to exactly one of APPROVED or REJECTED; both are terminal.
type ParticipationStatus string

const (
	ParticipationStatusPending  ParticipationStatus = "PENDING"
	ParticipationStatusApproved ParticipationStatus = "APPROVED"
	ParticipationStatusRejected ParticipationStatus = "REJECTED"
)

// MissionParticipation is a user's single submission attempt against a mission.
// SubmissionData is opaque to the server: receipt image URLs for RECEIPT
// missions, a review reference for REVIEW missions.
type MissionParticipation struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	MissionID      uuid.UUID
	Status         ParticipationStatus
	SubmissionData map[string]any
	ReviewerNote   string     // Optional note left by the moderating admin.
	ModeratedAt    *time.Time // Set when the status leaves PENDING.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ModeratedParticipation is a participation enriched with the joined user and
// mission fields the back-office list needs. Deleted flags mark a missing
// related row instead of fabricating a placeholder identity.
type ModeratedParticipation struct {
	Participation *MissionParticipation

	UserName    string
	UserEmail   string
	UserDeleted bool

	MissionTitle   string
	MissionPoints  int
	MissionDeleted bool
}
