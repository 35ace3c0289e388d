// Package model contains the GORM-specific persistence structs.
// They are mapped to and from pure domain entities by the repositories.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserModel is the GORM-specific struct for the 'users' table.
// Points is the denormalized balance; every write to it is paired with a
// point_transactions insert in the same database transaction.
type UserModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name         string         `gorm:"type:varchar(255);not null"`
	Phone        string         `gorm:"type:varchar(50)"`
	AvatarURL    string         `gorm:"type:varchar(1024)"`
	Roles        datatypes.JSON `gorm:"type:jsonb;not null;default:'[\"user\"]'"`
	Points       int            `gorm:"not null;default:0;check:points >= 0"`
	ExtendedData datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
