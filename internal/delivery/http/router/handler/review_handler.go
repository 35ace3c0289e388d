package handler

import (
	"net/http"

	"loyalty/internal/delivery/http/response"
	"loyalty/internal/domain/entity"
	"loyalty/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ReviewHandler holds dependencies for review handlers.
type ReviewHandler struct {
	uc usecase.ReviewUsecase
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(uc usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

// Create authors a new review.
func (h *ReviewHandler) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.CreateReviewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}

	review, err := h.uc.Create(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, review, "Review created successfully")
}

// Update replaces a review's editable fields. Author only.
func (h *ReviewHandler) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	reviewID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.UpdateReviewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}

	review, err := h.uc.Update(c.Request().Context(), userID, reviewID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, review, "Review updated successfully")
}

// Delete removes a review. The author or an admin may call it.
func (h *ReviewHandler) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	reviewID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Delete(c.Request().Context(), userID, callerIsAdmin(c), reviewID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Review deleted successfully")
}

// Get returns a single review and bumps its view counter.
func (h *ReviewHandler) Get(c echo.Context) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}
	reviewID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	review, err := h.uc.Get(c.Request().Context(), callerID, callerIsAdmin(c), reviewID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, review, "")
}

// List returns reviews matching the status and author filters.
func (h *ReviewHandler) List(c echo.Context) error {
	callerID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}
	limit, offset := paginationParams(c)

	input := &usecase.ListReviewsInput{
		Status:        entity.ReviewStatus(c.QueryParam("status")),
		Limit:         limit,
		Offset:        offset,
		CallerID:      callerID,
		CallerIsAdmin: callerIsAdmin(c),
	}
	if raw := c.QueryParam("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid author_id parameter")
		}
		input.AuthorID = id
	}

	output, err := h.uc.List(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// Like records the caller's like on a review.
func (h *ReviewHandler) Like(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	reviewID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Like(c.Request().Context(), userID, reviewID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Review liked")
}

// Unlike removes the caller's like. A missing like is a no-op.
func (h *ReviewHandler) Unlike(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	reviewID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Unlike(c.Request().Context(), userID, reviewID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Review unliked")
}

// commentRequest carries a comment body.
type commentRequest struct {
	Content string `json:"content"`
}

// AddComment appends a comment under a review.
func (h *ReviewHandler) AddComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	reviewID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid comment input")
	}

	comment, err := h.uc.AddComment(c.Request().Context(), userID, reviewID, req.Content)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, comment, "Comment added")
}

// ListComments returns a review's comments, oldest first.
func (h *ReviewHandler) ListComments(c echo.Context) error {
	reviewID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	comments, err := h.uc.ListComments(c.Request().Context(), reviewID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, comments, "")
}

// DeleteComment removes a comment. The comment author or an admin may call it.
func (h *ReviewHandler) DeleteComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	commentID, err := pathUUID(c, "commentID")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteComment(c.Request().Context(), userID, callerIsAdmin(c), commentID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Comment deleted")
}
