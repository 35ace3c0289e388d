package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReviewModel is the GORM-specific struct for the 'reviews' table.
// LikesCount mirrors the live count of review_likes rows; it is resynced in
// the same transaction as every like/unlike.
type ReviewModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	AuthorID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title      string         `gorm:"type:varchar(255);not null"`
	Content    string         `gorm:"type:text;not null"`
	Rating     int            `gorm:"not null;check:rating BETWEEN 1 AND 5"`
	ImageURLs  datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	VideoURL   string         `gorm:"type:varchar(1024)"`
	Status     string         `gorm:"type:varchar(20);not null;index;default:'DRAFT'"`
	ViewCount  int            `gorm:"not null;default:0"`
	LikesCount int            `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}

// ReviewLikeModel is the GORM-specific struct for the 'review_likes' table.
type ReviewLikeModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_review_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_like_review_user,priority:2"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewLikeModel) TableName() string {
	return "review_likes"
}

// ReviewCommentModel is the GORM-specific struct for the 'review_comments' table.
type ReviewCommentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ReviewID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewCommentModel) TableName() string {
	return "review_comments"
}
