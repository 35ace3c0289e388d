package repository

import (
	"context"
	"errors"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrReviewNotFound is returned when a review lookup misses.
var ErrReviewNotFound = errors.New("review not found")

// ErrLikeNotFound is returned when removing a like that does not exist.
var ErrLikeNotFound = errors.New("review like not found")

// ErrDuplicateLike is returned when a user likes the same review twice.
var ErrDuplicateLike = errors.New("review already liked")

// ErrCommentNotFound is returned when a comment lookup misses.
var ErrCommentNotFound = errors.New("review comment not found")

// ReviewFilter narrows the public review listing.
type ReviewFilter struct {
	Status   entity.ReviewStatus // Empty means all statuses.
	AuthorID uuid.UUID           // uuid.Nil means all authors.
	Limit    int
	Offset   int
}

// ReviewRepository defines the operations for review, like and comment persistence.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	Update(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]*entity.Review, int64, error)

	// Delete removes the review row itself. Cascading removal of likes and
	// comments is orchestrated by the usecase inside one transaction.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementViewCount bumps the view counter with a single relative UPDATE.
	IncrementViewCount(ctx context.Context, id uuid.UUID) error

	// Likes.
	CreateLike(ctx context.Context, like *entity.ReviewLike) error
	DeleteLike(ctx context.Context, reviewID, userID uuid.UUID) error
	CountLikes(ctx context.Context, reviewID uuid.UUID) (int64, error)
	DeleteLikesByReview(ctx context.Context, reviewID uuid.UUID) error

	// SetLikesCount resyncs the denormalized counter to the live row count.
	SetLikesCount(ctx context.Context, reviewID uuid.UUID, count int) error

	// Comments.
	CreateComment(ctx context.Context, comment *entity.ReviewComment) error
	FindCommentByID(ctx context.Context, id uuid.UUID) (*entity.ReviewComment, error)
	ListComments(ctx context.Context, reviewID uuid.UUID) ([]*entity.ReviewComment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	DeleteCommentsByReview(ctx context.Context, reviewID uuid.UUID) error
}
