package handler

import (
	"net/http"

	"loyalty/internal/delivery/http/response"
	"loyalty/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PointsHandler holds dependencies for balance and ledger handlers.
type PointsHandler struct {
	uc usecase.PointsUsecase
}

// NewPointsHandler is the constructor for PointsHandler, injected by Fx.
func NewPointsHandler(uc usecase.PointsUsecase) *PointsHandler {
	return &PointsHandler{uc: uc}
}

// GetBalance returns the caller's current point balance.
func (h *PointsHandler) GetBalance(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	balance, err := h.uc.GetBalance(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"balance": balance}, "")
}

// GetHistory returns one page of the caller's ledger, newest first.
func (h *PointsHandler) GetHistory(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	limit, offset := paginationParams(c)
	output, err := h.uc.GetHistory(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// adjustPointsRequest carries an admin balance correction.
type adjustPointsRequest struct {
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

// Adjust credits or debits a member's balance. Admin only.
func (h *PointsHandler) Adjust(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var req adjustPointsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid adjustment input")
	}

	row, err := h.uc.Adjust(c.Request().Context(), &usecase.AdjustPointsInput{
		UserID:      userID,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, row, "Points adjusted")
}

// Reconcile rebuilds a member's balance from the ledger. Admin only.
func (h *PointsHandler) Reconcile(c echo.Context) error {
	userID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Reconcile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Reconciliation completed")
}
