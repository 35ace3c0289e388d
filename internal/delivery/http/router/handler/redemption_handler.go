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

// RedemptionHandler holds dependencies for catalog and redemption handlers.
type RedemptionHandler struct {
	uc usecase.RedemptionUsecase
}

// NewRedemptionHandler is the constructor for RedemptionHandler, injected by Fx.
func NewRedemptionHandler(uc usecase.RedemptionUsecase) *RedemptionHandler {
	return &RedemptionHandler{uc: uc}
}

// CreateItem adds a catalog item. Admin only.
func (h *RedemptionHandler) CreateItem(c echo.Context) error {
	var input *usecase.CreateRedemptionItemInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid item input")
	}

	item, err := h.uc.CreateItem(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, item, "Item created successfully")
}

// UpdateItem replaces a catalog item's state. Admin only.
func (h *RedemptionHandler) UpdateItem(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.UpdateRedemptionItemInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid item input")
	}

	item, err := h.uc.UpdateItem(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "Item updated successfully")
}

// DeleteItem soft deletes a catalog item. Admin only.
func (h *RedemptionHandler) DeleteItem(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteItem(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Item deleted successfully")
}

// ListItems returns the reward catalog. Members only see active items.
func (h *RedemptionHandler) ListItems(c echo.Context) error {
	activeOnly := !callerIsAdmin(c) || c.QueryParam("active") == "true"

	items, err := h.uc.ListItems(c.Request().Context(), activeOnly)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, items, "")
}

// Redeem exchanges the caller's points for an item.
func (h *RedemptionHandler) Redeem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	itemID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Redeem(c.Request().Context(), userID, itemID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Redemption created")
}

// Cancel refunds a pending redemption request.
func (h *RedemptionHandler) Cancel(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	requestID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Cancel(c.Request().Context(), userID, callerIsAdmin(c), requestID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Redemption cancelled and refunded")
}

// Fulfill marks a pending request as handed over. Admin only.
func (h *RedemptionHandler) Fulfill(c echo.Context) error {
	requestID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.Fulfill(c.Request().Context(), requestID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Redemption fulfilled")
}

// ListRequests is the admin redemption request listing.
func (h *RedemptionHandler) ListRequests(c echo.Context) error {
	limit, offset := paginationParams(c)

	input := &usecase.ListRedemptionRequestsInput{
		Status: entity.RedemptionStatus(c.QueryParam("status")),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid user_id parameter")
		}
		input.UserID = id
	}

	output, err := h.uc.ListRequests(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// ListMyRequests returns the caller's redemption requests.
func (h *RedemptionHandler) ListMyRequests(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	requests, err := h.uc.ListMyRequests(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, requests, "")
}

// GetVoucherQR streams the voucher PNG for the caller's own pending request.
func (h *RedemptionHandler) GetVoucherQR(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	requestID, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	png, err := h.uc.GetVoucherQR(c.Request().Context(), userID, requestID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// verifyVoucherRequest carries the scanned QR payload.
type verifyVoucherRequest struct {
	QRData string `json:"qr_data"`
}

// VerifyVoucher resolves scanned QR data to the underlying request. Admin only.
func (h *RedemptionHandler) VerifyVoucher(c echo.Context) error {
	var req verifyVoucherRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid voucher input")
	}

	request, err := h.uc.VerifyVoucher(c.Request().Context(), req.QRData)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, request, "Voucher verified")
}
