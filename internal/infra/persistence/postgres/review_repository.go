package postgres

import (
	"context"

	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/domain/repository"
	"loyalty/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the repository.ReviewRepository interface.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// Create persists a new review.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating must be between 1 and 5")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// Update modifies an existing review's editable columns.
// Counters (view_count, likes_count) move only through their dedicated methods.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ?", review.ID).
		Select("title", "content", "rating", "image_urls", "video_url", "status").
		Updates(reviewM)

	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WrapMessage("rating must be between 1 and 5")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update review")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// FindByID retrieves a single review by its unique ID.
func (repo *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by id")
	}

	return toReviewDomain(&reviewM), nil
}

// List returns reviews matching the filter plus the unpaginated total.
func (repo *reviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]*entity.Review, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ReviewModel{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.AuthorID != uuid.Nil {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count reviews")
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var reviewModels []*model.ReviewModel
	if err := query.Order("created_at DESC").Find(&reviewModels).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list reviews")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for _, reviewM := range reviewModels {
		reviews = append(reviews, toReviewDomain(reviewM))
	}

	return reviews, total, nil
}

// Delete removes the review row itself (soft delete). Cascading removal of
// likes and comments is orchestrated by the usecase inside one transaction.
func (repo *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ReviewModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete review")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// IncrementViewCount bumps the view counter with a single relative UPDATE.
func (repo *reviewRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1"))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to increment view count")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// CreateLike records one user's like on one review.
func (repo *reviewRepository) CreateLike(ctx context.Context, like *entity.ReviewLike) error {
	likeM := fromReviewLikeDomain(like)

	if err := repo.db.WithContext(ctx).Create(likeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateLike
		}
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrReviewNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review like")
	}

	like.ID = likeM.ID
	like.CreatedAt = likeM.CreatedAt

	return nil
}

// DeleteLike removes one user's like on one review.
func (repo *reviewRepository) DeleteLike(ctx context.Context, reviewID, userID uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Delete(&model.ReviewLikeModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete review like")
	}

	if result.RowsAffected == 0 {
		return repository.ErrLikeNotFound
	}

	return nil
}

// CountLikes counts the live like rows for a review.
func (repo *reviewRepository) CountLikes(ctx context.Context, reviewID uuid.UUID) (int64, error) {
	var count int64

	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewLikeModel{}).
		Where("review_id = ?", reviewID).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count review likes")
	}

	return count, nil
}

// DeleteLikesByReview removes all like rows of a review.
func (repo *reviewRepository) DeleteLikesByReview(ctx context.Context, reviewID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Delete(&model.ReviewLikeModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete review likes")
	}

	return nil
}

// SetLikesCount resyncs the denormalized counter to the live row count.
func (repo *reviewRepository) SetLikesCount(ctx context.Context, reviewID uuid.UUID, count int) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ?", reviewID).
		Update("likes_count", count)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set likes count")
	}

	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// CreateComment persists a comment under a review.
func (repo *reviewRepository) CreateComment(ctx context.Context, comment *entity.ReviewComment) error {
	commentM := fromReviewCommentDomain(comment)

	if err := repo.db.WithContext(ctx).Create(commentM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrReviewNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review comment")
	}

	comment.ID = commentM.ID
	comment.CreatedAt = commentM.CreatedAt

	return nil
}

// FindCommentByID retrieves a single comment by its unique ID.
func (repo *reviewRepository) FindCommentByID(ctx context.Context, id uuid.UUID) (*entity.ReviewComment, error) {
	var commentM model.ReviewCommentModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&commentM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCommentNotFound
		}

		return nil, errors.Wrap(err, "failed to find review comment by id")
	}

	return toReviewCommentDomain(&commentM), nil
}

// ListComments returns a review's comments, oldest first.
func (repo *reviewRepository) ListComments(ctx context.Context, reviewID uuid.UUID) ([]*entity.ReviewComment, error) {
	var commentModels []*model.ReviewCommentModel

	if err := repo.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Order("created_at ASC").
		Find(&commentModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list review comments")
	}

	comments := make([]*entity.ReviewComment, 0, len(commentModels))
	for _, commentM := range commentModels {
		comments = append(comments, toReviewCommentDomain(commentM))
	}

	return comments, nil
}

// DeleteComment removes a single comment.
func (repo *reviewRepository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ReviewCommentModel{})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete review comment")
	}

	if result.RowsAffected == 0 {
		return repository.ErrCommentNotFound
	}

	return nil
}

// DeleteCommentsByReview removes all comment rows of a review.
func (repo *reviewRepository) DeleteCommentsByReview(ctx context.Context, reviewID uuid.UUID) error {
	if err := repo.db.WithContext(ctx).
		Where("review_id = ?", reviewID).
		Delete(&model.ReviewCommentModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete review comments")
	}

	return nil
}

// --- Mapper Functions ---

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:         data.ID,
		AuthorID:   data.AuthorID,
		Title:      data.Title,
		Content:    data.Content,
		Rating:     data.Rating,
		ImageURLs:  stringsFromJSON(data.ImageURLs),
		VideoURL:   data.VideoURL,
		Status:     entity.ReviewStatus(data.Status),
		ViewCount:  data.ViewCount,
		LikesCount: data.LikesCount,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:         data.ID,
		AuthorID:   data.AuthorID,
		Title:      data.Title,
		Content:    data.Content,
		Rating:     data.Rating,
		ImageURLs:  stringsToJSON(data.ImageURLs),
		VideoURL:   data.VideoURL,
		Status:     string(data.Status),
		ViewCount:  data.ViewCount,
		LikesCount: data.LikesCount,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

func toReviewCommentDomain(data *model.ReviewCommentModel) *entity.ReviewComment {
	if data == nil {
		return nil
	}

	return &entity.ReviewComment{
		ID:        data.ID,
		ReviewID:  data.ReviewID,
		UserID:    data.UserID,
		Content:   data.Content,
		CreatedAt: data.CreatedAt,
	}
}

func fromReviewCommentDomain(data *entity.ReviewComment) *model.ReviewCommentModel {
	if data == nil {
		return nil
	}

	return &model.ReviewCommentModel{
		ID:        data.ID,
		ReviewID:  data.ReviewID,
		UserID:    data.UserID,
		Content:   data.Content,
		CreatedAt: data.CreatedAt,
	}
}

func fromReviewLikeDomain(data *entity.ReviewLike) *model.ReviewLikeModel {
	if data == nil {
		return nil
	}

	return &model.ReviewLikeModel{
		ID:        data.ID,
		ReviewID:  data.ReviewID,
		UserID:    data.UserID,
		CreatedAt: data.CreatedAt,
	}
}
