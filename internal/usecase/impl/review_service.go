package impl

import (
	"context"
	"log/slog"

	deliverycontext "loyalty/internal/delivery/context"
	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/repository"
	"loyalty/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager  repository.TransactionManager
	reviewRepo repository.ReviewRepository
	logger     *slog.Logger
}

// ReviewServiceParams holds dependencies for ReviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	ReviewRepo repository.ReviewRepository
	Logger     *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		txManager:  params.TxManager,
		reviewRepo: params.ReviewRepo,
		logger:     params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func validateReviewInput(input *usecase.CreateReviewInput) error {
	if input.Rating < 1 || input.Rating > 5 {
		return domainerrors.ErrValidationFailed.WrapMessage("rating must be between 1 and 5")
	}
	if input.Title == "" || input.Content == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("title and content are required")
	}

	return nil
}

// Create authors a new review, published or as a draft.
func (srv *reviewService) Create(ctx context.Context, authorID uuid.UUID, input *usecase.CreateReviewInput) (*entity.Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	status := entity.ReviewStatusDraft
	if input.Publish {
		status = entity.ReviewStatusPublished
	}

	review := &entity.Review{
		AuthorID:  authorID,
		Title:     input.Title,
		Content:   input.Content,
		Rating:    input.Rating,
		ImageURLs: input.ImageURLs,
		VideoURL:  input.VideoURL,
		Status:    status,
	}

	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		srv.log(ctx).Error("Failed to create review", slog.Any("authorID", authorID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create review")
	}

	srv.log(ctx).Debug("Review created", slog.Any("reviewID", review.ID))

	return review, nil
}

// Update replaces a review's editable fields. Author only.
func (srv *reviewService) Update(ctx context.Context, authorID, reviewID uuid.UUID, input *usecase.UpdateReviewInput) (*entity.Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review")
	}

	if review.AuthorID != authorID {
		return nil, domainerrors.ErrReviewOwnershipViolation
	}

	review.Title = input.Title
	review.Content = input.Content
	review.Rating = input.Rating
	review.ImageURLs = input.ImageURLs
	review.VideoURL = input.VideoURL
	if input.Publish {
		review.Status = entity.ReviewStatusPublished
	}

	if err := srv.reviewRepo.Update(ctx, review); err != nil {
		return nil, errors.Wrap(err, "failed to update review")
	}

	return review, nil
}

// Delete removes the review together with its likes and comments in one
// transaction, so a failure midway leaves nothing half-deleted.
func (srv *reviewService) Delete(ctx context.Context, callerID uuid.UUID, isAdmin bool, reviewID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		review, err := reviewRepo.FindByID(ctx, reviewID)
		if err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return domainerrors.ErrReviewNotFound
			}

			return errors.Wrap(err, "failed to find review")
		}

		if !isAdmin && review.AuthorID != callerID {
			return domainerrors.ErrReviewOwnershipViolation
		}

		if err := reviewRepo.DeleteLikesByReview(ctx, reviewID); err != nil {
			return errors.Wrap(err, "failed to delete review likes")
		}
		if err := reviewRepo.DeleteCommentsByReview(ctx, reviewID); err != nil {
			return errors.Wrap(err, "failed to delete review comments")
		}
		if err := reviewRepo.Delete(ctx, reviewID); err != nil {
			return errors.Wrap(err, "failed to delete review")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Review deletion failed", slog.Any("reviewID", reviewID), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Review deleted", slog.Any("reviewID", reviewID))

	return nil
}

// Get returns the review and bumps its view counter.
func (srv *reviewService) Get(ctx context.Context, callerID uuid.UUID, isAdmin bool, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review")
	}

	// A draft does not exist for anyone but its author and admins.
	if review.Status != entity.ReviewStatusPublished && !isAdmin && review.AuthorID != callerID {
		return nil, domainerrors.ErrReviewNotFound
	}

	// A lost view count bump is not worth failing the read.
	if err := srv.reviewRepo.IncrementViewCount(ctx, reviewID); err != nil {
		srv.log(ctx).Warn("Failed to increment view count", slog.Any("reviewID", reviewID), slog.Any("error", err))
	} else {
		review.ViewCount++
	}

	return review, nil
}

// List returns reviews matching the filter. Non-admin callers see only
// published reviews unless the author filter is their own ID.
func (srv *reviewService) List(ctx context.Context, input *usecase.ListReviewsInput) (*usecase.ListReviewsOutput, error) {
	filter := repository.ReviewFilter{
		Status:   input.Status,
		AuthorID: input.AuthorID,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}
	listingOwn := input.AuthorID != uuid.Nil && input.AuthorID == input.CallerID
	if !input.CallerIsAdmin && !listingOwn {
		filter.Status = entity.ReviewStatusPublished
	}

	reviews, total, err := srv.reviewRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return &usecase.ListReviewsOutput{Reviews: reviews, Total: total}, nil
}

// Like records the like and resyncs the denormalized counter in one transaction.
func (srv *reviewService) Like(ctx context.Context, userID, reviewID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		if _, err := reviewRepo.FindByID(ctx, reviewID); err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return domainerrors.ErrReviewNotFound
			}

			return errors.Wrap(err, "failed to find review")
		}

		if err := reviewRepo.CreateLike(ctx, &entity.ReviewLike{ReviewID: reviewID, UserID: userID}); err != nil {
			if errors.Is(err, repository.ErrDuplicateLike) {
				return domainerrors.ErrAlreadyLiked
			}

			return errors.Wrap(err, "failed to create like")
		}

		return srv.resyncLikes(ctx, reviewRepo, reviewID)
	})
	if err != nil {
		srv.log(ctx).Warn("Like failed", slog.Any("reviewID", reviewID), slog.Any("userID", userID), slog.Any("error", err))

		return err
	}

	return nil
}

// Unlike removes the like and resyncs the counter. Unliking something never
// liked is a no-op.
func (srv *reviewService) Unlike(ctx context.Context, userID, reviewID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		if err := reviewRepo.DeleteLike(ctx, reviewID, userID); err != nil {
			if errors.Is(err, repository.ErrLikeNotFound) {
				return nil
			}

			return errors.Wrap(err, "failed to delete like")
		}

		return srv.resyncLikes(ctx, reviewRepo, reviewID)
	})
	if err != nil {
		srv.log(ctx).Warn("Unlike failed", slog.Any("reviewID", reviewID), slog.Any("userID", userID), slog.Any("error", err))

		return err
	}

	return nil
}

// resyncLikes writes the live like count back to the denormalized column.
func (srv *reviewService) resyncLikes(ctx context.Context, reviewRepo repository.ReviewRepository, reviewID uuid.UUID) error {
	count, err := reviewRepo.CountLikes(ctx, reviewID)
	if err != nil {
		return errors.Wrap(err, "failed to count likes")
	}
	if err := reviewRepo.SetLikesCount(ctx, reviewID, int(count)); err != nil {
		return errors.Wrap(err, "failed to set likes count")
	}

	return nil
}

// AddComment appends a comment under a review.
func (srv *reviewService) AddComment(ctx context.Context, userID, reviewID uuid.UUID, content string) (*entity.ReviewComment, error) {
	if content == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("comment content is required")
	}

	comment := &entity.ReviewComment{
		ReviewID: reviewID,
		UserID:   userID,
		Content:  content,
	}
	if err := srv.reviewRepo.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to create comment")
	}

	return comment, nil
}

// ListComments returns a review's comments, oldest first.
func (srv *reviewService) ListComments(ctx context.Context, reviewID uuid.UUID) ([]*entity.ReviewComment, error) {
	comments, err := srv.reviewRepo.ListComments(ctx, reviewID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list comments")
	}

	return comments, nil
}

// DeleteComment removes a single comment. The comment author or an admin may call it.
func (srv *reviewService) DeleteComment(ctx context.Context, callerID uuid.UUID, isAdmin bool, commentID uuid.UUID) error {
	comment, err := srv.reviewRepo.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return domainerrors.ErrNotFound
		}

		return errors.Wrap(err, "failed to find comment")
	}

	if !isAdmin && comment.UserID != callerID {
		return domainerrors.ErrForbidden
	}

	if err := srv.reviewRepo.DeleteComment(ctx, commentID); err != nil {
		return errors.Wrap(err, "failed to delete comment")
	}

	return nil
}
