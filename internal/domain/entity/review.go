package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the publication state of a review.
type ReviewStatus string

const (
	ReviewStatusDraft     ReviewStatus = "DRAFT"
	ReviewStatusPublished ReviewStatus = "PUBLISHED"
)

// Review is user-authored product content.
// LikesCount is denormalized and resynced from the like rows on every
// like/unlike inside the same transaction.
type Review struct {
	ID         uuid.UUID
	AuthorID   uuid.UUID
	Title      string
	Content    string
	Rating     int // 1..5
	ImageURLs  []string
	VideoURL   string
	Status     ReviewStatus
	ViewCount  int
	LikesCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReviewLike is one user's like on one review; unique per (review, user).
type ReviewLike struct {
	ID        uuid.UUID
	ReviewID  uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
}

// ReviewComment is a comment under a review.
type ReviewComment struct {
	ID        uuid.UUID
	ReviewID  uuid.UUID
	UserID    uuid.UUID
	Content   string
	CreatedAt time.Time
}
