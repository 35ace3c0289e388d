package model

import (
	"time"

	"github.com/google/uuid"
)

// PointTransactionModel is the GORM-specific struct for the 'point_transactions' table.
// Rows are append-only; no UpdatedAt, no soft delete.
type PointTransactionModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Amount      int        `gorm:"not null"`
	Type        string     `gorm:"type:varchar(30);not null;index"`
	Description string     `gorm:"type:text"`
	ReferenceID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (PointTransactionModel) TableName() string {
	return "point_transactions"
}
