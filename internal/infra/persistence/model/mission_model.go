package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MissionModel is the GORM-specific struct for the 'missions' table.
// ProductImages is stored as a jsonb array and is always written on update,
// including when it shrinks to empty.
type MissionModel struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Title         string         `gorm:"type:varchar(255);not null"`
	Description   string         `gorm:"type:text;not null"`
	Content       string         `gorm:"type:text"`
	Type          string         `gorm:"type:varchar(20);not null;index"`
	Status        string         `gorm:"type:varchar(20);not null;index;default:'DRAFT'"`
	PointsReward  int            `gorm:"not null;check:points_reward >= 0"`
	StartsAt      time.Time      `gorm:"not null;index"`
	ExpiresAt     time.Time      `gorm:"index"`
	UserLimit     int            `gorm:"not null;default:0"`
	TotalLimit    int            `gorm:"not null;default:0"`
	ThumbnailURL  string         `gorm:"type:varchar(1024)"`
	ProductImages datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (MissionModel) TableName() string {
	return "missions"
}

// MissionParticipationModel is the GORM-specific struct for the
// 'mission_participations' table.
type MissionParticipationModel struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index"`
	MissionID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Status         string         `gorm:"type:varchar(20);not null;index;default:'PENDING'"`
	SubmissionData datatypes.JSON `gorm:"type:jsonb"`
	ReviewerNote   string         `gorm:"type:text"`
	ModeratedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (MissionParticipationModel) TableName() string {
	return "mission_participations"
}
