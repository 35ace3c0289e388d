package impl

import (
	"context"
	"testing"

	"loyalty/internal/domain/entity"
	domainerrors "loyalty/internal/domain/errors"
	"loyalty/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewServiceFixtures struct {
	service usecase.ReviewUsecase
	store   *memStore
}

func createTestReviewService(t *testing.T) reviewServiceFixtures {
	t.Helper()

	store := newMemStore()
	service := NewReviewService(ReviewServiceParams{
		TxManager:  newFakeTxManager(store),
		ReviewRepo: &fakeReviewRepo{store},
		Logger:     newDiscardLogger(),
	})

	return reviewServiceFixtures{service: service, store: store}
}

func createTestReview(t *testing.T, fx reviewServiceFixtures, authorID uuid.UUID, publish bool) *entity.Review {
	t.Helper()

	review, err := fx.service.Create(context.Background(), authorID, &usecase.CreateReviewInput{
		Title:   "Great noodles",
		Content: "Would slurp again.",
		Rating:  5,
		Publish: publish,
	})
	require.NoError(t, err)

	return review
}

func TestReviewService_Create_DraftAndPublished(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)

	draft := createTestReview(t, fx, author.ID, false)
	assert.Equal(t, entity.ReviewStatusDraft, draft.Status)

	published := createTestReview(t, fx, author.ID, true)
	assert.Equal(t, entity.ReviewStatusPublished, published.Status)
	assert.Equal(t, author.ID, published.AuthorID)
}

func TestReviewService_Create_Validation(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)

	_, err := fx.service.Create(context.Background(), author.ID, &usecase.CreateReviewInput{
		Title:   "Great noodles",
		Content: "ok",
		Rating:  6,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = fx.service.Create(context.Background(), author.ID, &usecase.CreateReviewInput{
		Title:   "",
		Content: "ok",
		Rating:  4,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
	assert.Empty(t, fx.store.reviews)
}

func TestReviewService_Update_AuthorOnly(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	stranger := fx.store.addUser(0)
	review := createTestReview(t, fx, author.ID, false)

	updated, err := fx.service.Update(context.Background(), author.ID, review.ID, &usecase.UpdateReviewInput{
		Title:   "Even better noodles",
		Content: "Second visit confirmed it.",
		Rating:  4,
		Publish: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Even better noodles", updated.Title)
	assert.Equal(t, entity.ReviewStatusPublished, updated.Status)

	_, err = fx.service.Update(context.Background(), stranger.ID, review.ID, &usecase.UpdateReviewInput{
		Title:   "Hijacked",
		Content: "nope",
		Rating:  1,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrReviewOwnershipViolation))
}

func TestReviewService_Get_BumpsViewCount(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	reader := fx.store.addUser(0)
	review := createTestReview(t, fx, author.ID, true)

	got, err := fx.service.Get(context.Background(), reader.ID, false, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	got, err = fx.service.Get(context.Background(), reader.ID, false, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)
}

func TestReviewService_Get_NotFound(t *testing.T) {
	fx := createTestReviewService(t)
	reader := fx.store.addUser(0)

	_, err := fx.service.Get(context.Background(), reader.ID, false, uuid.New())
	assert.True(t, errors.Is(err, domainerrors.ErrReviewNotFound))
}

func TestReviewService_Get_DraftHiddenFromOthers(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	stranger := fx.store.addUser(0)
	draft := createTestReview(t, fx, author.ID, false)

	// A draft resolves as not-found for anyone but the author or an admin.
	_, err := fx.service.Get(context.Background(), stranger.ID, false, draft.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrReviewNotFound))

	got, err := fx.service.Get(context.Background(), author.ID, false, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	_, err = fx.service.Get(context.Background(), stranger.ID, true, draft.ID)
	assert.NoError(t, err)
}

func TestReviewService_List_HidesOthersDrafts(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	stranger := fx.store.addUser(0)
	createTestReview(t, fx, author.ID, false)
	published := createTestReview(t, fx, author.ID, true)

	// An unfiltered member listing returns published reviews only.
	output, err := fx.service.List(context.Background(), &usecase.ListReviewsInput{
		CallerID: stranger.ID,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, output.Total)
	assert.Equal(t, published.ID, output.Reviews[0].ID)

	// Asking for drafts outright does not widen visibility.
	output, err = fx.service.List(context.Background(), &usecase.ListReviewsInput{
		Status:   entity.ReviewStatusDraft,
		CallerID: stranger.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, output.Total)
	assert.Equal(t, entity.ReviewStatusPublished, output.Reviews[0].Status)

	// Neither does filtering by the draft author's ID.
	output, err = fx.service.List(context.Background(), &usecase.ListReviewsInput{
		AuthorID: author.ID,
		CallerID: stranger.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, output.Total)
	assert.Equal(t, entity.ReviewStatusPublished, output.Reviews[0].Status)
}

func TestReviewService_List_OwnDraftsVisible(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	createTestReview(t, fx, author.ID, false)
	createTestReview(t, fx, author.ID, true)

	output, err := fx.service.List(context.Background(), &usecase.ListReviewsInput{
		AuthorID: author.ID,
		CallerID: author.ID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, output.Total)
}

func TestReviewService_List_AdminSeesDrafts(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	admin := fx.store.addUser(0)
	createTestReview(t, fx, author.ID, false)

	output, err := fx.service.List(context.Background(), &usecase.ListReviewsInput{
		Status:        entity.ReviewStatusDraft,
		CallerID:      admin.ID,
		CallerIsAdmin: true,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, output.Total)
}

func TestReviewService_LikeUnlike_ResyncsCounter(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	alice := fx.store.addUser(0)
	bob := fx.store.addUser(0)
	review := createTestReview(t, fx, author.ID, true)

	require.NoError(t, fx.service.Like(context.Background(), alice.ID, review.ID))
	require.NoError(t, fx.service.Like(context.Background(), bob.ID, review.ID))
	assert.Equal(t, 2, fx.store.reviews[review.ID].LikesCount)

	require.NoError(t, fx.service.Unlike(context.Background(), alice.ID, review.ID))
	assert.Equal(t, 1, fx.store.reviews[review.ID].LikesCount)
}

func TestReviewService_Like_Twice(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	alice := fx.store.addUser(0)
	review := createTestReview(t, fx, author.ID, true)

	require.NoError(t, fx.service.Like(context.Background(), alice.ID, review.ID))

	err := fx.service.Like(context.Background(), alice.ID, review.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrAlreadyLiked))
	assert.Equal(t, 1, fx.store.reviews[review.ID].LikesCount)
}

func TestReviewService_Unlike_NeverLiked(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	alice := fx.store.addUser(0)
	review := createTestReview(t, fx, author.ID, true)

	assert.NoError(t, fx.service.Unlike(context.Background(), alice.ID, review.ID))
	assert.Zero(t, fx.store.reviews[review.ID].LikesCount)
}

func TestReviewService_Delete_CascadesLikesAndComments(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	alice := fx.store.addUser(0)
	review := createTestReview(t, fx, author.ID, true)

	require.NoError(t, fx.service.Like(context.Background(), alice.ID, review.ID))
	_, err := fx.service.AddComment(context.Background(), alice.ID, review.ID, "agreed")
	require.NoError(t, err)

	require.NoError(t, fx.service.Delete(context.Background(), author.ID, false, review.ID))

	assert.Empty(t, fx.store.reviews)
	assert.Empty(t, fx.store.likes[review.ID])
	assert.Empty(t, fx.store.comments)
}

func TestReviewService_Delete_StrangerForbidden(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	stranger := fx.store.addUser(0)
	review := createTestReview(t, fx, author.ID, true)

	err := fx.service.Delete(context.Background(), stranger.ID, false, review.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrReviewOwnershipViolation))

	// An admin may remove anyone's review.
	assert.NoError(t, fx.service.Delete(context.Background(), stranger.ID, true, review.ID))
}

func TestReviewService_Comments(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	alice := fx.store.addUser(0)
	review := createTestReview(t, fx, author.ID, true)

	comment, err := fx.service.AddComment(context.Background(), alice.ID, review.ID, "agreed")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, comment.UserID)

	_, err = fx.service.AddComment(context.Background(), alice.ID, review.ID, "")
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	comments, err := fx.service.ListComments(context.Background(), review.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestReviewService_DeleteComment_Ownership(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	alice := fx.store.addUser(0)
	bob := fx.store.addUser(0)
	review := createTestReview(t, fx, author.ID, true)

	comment, err := fx.service.AddComment(context.Background(), alice.ID, review.ID, "agreed")
	require.NoError(t, err)

	err = fx.service.DeleteComment(context.Background(), bob.ID, false, comment.ID)
	assert.True(t, errors.Is(err, domainerrors.ErrForbidden))

	require.NoError(t, fx.service.DeleteComment(context.Background(), alice.ID, false, comment.ID))
	assert.Empty(t, fx.store.comments)
}

func TestReviewService_List_FiltersByStatus(t *testing.T) {
	fx := createTestReviewService(t)
	author := fx.store.addUser(0)
	createTestReview(t, fx, author.ID, true)
	createTestReview(t, fx, author.ID, false)

	output, err := fx.service.List(context.Background(), &usecase.ListReviewsInput{
		Status:        entity.ReviewStatusPublished,
		CallerIsAdmin: true,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, output.Total)

	output, err = fx.service.List(context.Background(), &usecase.ListReviewsInput{CallerIsAdmin: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, output.Total)
}
