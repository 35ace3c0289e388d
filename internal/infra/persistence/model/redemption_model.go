package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RedemptionItemModel is the GORM-specific struct for the 'redemption_items' table.
// A NULL Stock means stock is not tracked for the item.
type RedemptionItemModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`
	ImageURL    string    `gorm:"type:varchar(1024)"`
	PointsCost  int       `gorm:"not null;check:points_cost > 0"`
	Stock       *int      `gorm:"check:stock IS NULL OR stock >= 0"`
	IsActive    bool      `gorm:"not null;default:true;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (RedemptionItemModel) TableName() string {
	return "redemption_items"
}

// RedemptionRequestModel is the GORM-specific struct for the 'redemption_requests' table.
type RedemptionRequestModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PointsSpent int       `gorm:"not null"`
	Status      string    `gorm:"type:varchar(20);not null;index;default:'PENDING'"`
	VoucherCode string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (RedemptionRequestModel) TableName() string {
	return "redemption_requests"
}
