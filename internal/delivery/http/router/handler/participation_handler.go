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

// ParticipationHandler holds dependencies for submission and moderation handlers.
type ParticipationHandler struct {
	uc usecase.ParticipationUsecase
}

// NewParticipationHandler is the constructor for ParticipationHandler, injected by Fx.
func NewParticipationHandler(uc usecase.ParticipationUsecase) *ParticipationHandler {
	return &ParticipationHandler{uc: uc}
}

// Submit records a member's submission against a mission.
func (h *ParticipationHandler) Submit(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.SubmitParticipationInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid submission input")
	}

	participation, err := h.uc.Submit(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, participation, "Submission received")
}

// ListMine returns the caller's own submissions.
func (h *ParticipationHandler) ListMine(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	participations, err := h.uc.ListMine(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, participations, "")
}

// ListModerated is the back-office moderation listing with submitter and
// mission context joined in.
func (h *ParticipationHandler) ListModerated(c echo.Context) error {
	limit, offset := paginationParams(c)

	input := &usecase.ListParticipationsInput{
		Status: entity.ParticipationStatus(c.QueryParam("status")),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.QueryParam("mission_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid mission_id parameter")
		}
		input.MissionID = id
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid user_id parameter")
		}
		input.UserID = id
	}

	output, err := h.uc.ListModerated(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// moderationRequest carries the optional reviewer note.
type moderationRequest struct {
	Note string `json:"note"`
}

// Approve flips a pending submission to approved and credits the mission reward.
func (h *ParticipationHandler) Approve(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var req moderationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid moderation input")
	}

	output, err := h.uc.Approve(c.Request().Context(), &usecase.ModerateParticipationInput{
		ParticipationID: id,
		Note:            req.Note,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Submission approved")
}

// Reject flips a pending submission to rejected.
func (h *ParticipationHandler) Reject(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var req moderationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid moderation input")
	}

	output, err := h.uc.Reject(c.Request().Context(), &usecase.ModerateParticipationInput{
		ParticipationID: id,
		Note:            req.Note,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Submission rejected")
}
