package usecase

import (
	"context"

	"loyalty/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateReviewInput defines the data required to author a review.
type CreateReviewInput struct {
	Title     string
	Content   string
	Rating    int // 1..5
	ImageURLs []string
	VideoURL  string
	Publish   bool // False keeps the review as a draft.
}

// UpdateReviewInput carries the replacement state of a review's editable fields.
type UpdateReviewInput = CreateReviewInput

// ListReviewsInput narrows the review listing.
type ListReviewsInput struct {
	Status   entity.ReviewStatus
	AuthorID uuid.UUID
	Limit    int
	Offset   int

	// CallerID and CallerIsAdmin scope draft visibility: a non-admin caller
	// sees only published reviews unless listing their own.
	CallerID      uuid.UUID
	CallerIsAdmin bool
}

// ListReviewsOutput returns one page of reviews plus the unpaginated total.
type ListReviewsOutput struct {
	Reviews []*entity.Review
	Total   int64
}

// ReviewUsecase defines the interface for review authoring, browsing, likes and comments.
type ReviewUsecase interface {
	Create(ctx context.Context, authorID uuid.UUID, input *CreateReviewInput) (*entity.Review, error)

	// Update is author-only; admins go through Delete.
	Update(ctx context.Context, authorID, reviewID uuid.UUID, input *UpdateReviewInput) (*entity.Review, error)

	// Delete removes the review together with its likes and comments in one
	// transaction. The author or an admin may call it.
	Delete(ctx context.Context, callerID uuid.UUID, isAdmin bool, reviewID uuid.UUID) error

	// Get returns the review and bumps its view counter. Drafts resolve only
	// for their author and for admins; anyone else gets not-found.
	Get(ctx context.Context, callerID uuid.UUID, isAdmin bool, reviewID uuid.UUID) (*entity.Review, error)
	List(ctx context.Context, input *ListReviewsInput) (*ListReviewsOutput, error)

	// Like and Unlike keep the denormalized likes counter in sync with the
	// like rows inside the same transaction.
	Like(ctx context.Context, userID, reviewID uuid.UUID) error
	Unlike(ctx context.Context, userID, reviewID uuid.UUID) error

	AddComment(ctx context.Context, userID, reviewID uuid.UUID, content string) (*entity.ReviewComment, error)
	ListComments(ctx context.Context, reviewID uuid.UUID) ([]*entity.ReviewComment, error)
	DeleteComment(ctx context.Context, callerID uuid.UUID, isAdmin bool, commentID uuid.UUID) error
}
