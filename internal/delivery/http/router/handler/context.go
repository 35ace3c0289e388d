package handler

import (
	"slices"

	"loyalty/internal/domain/constants"
	domainerrors "loyalty/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// currentUserID reads the authenticated user ID set by the auth middleware.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return uuid.Nil, domainerrors.ErrForbidden.WrapMessage("missing authentication context")
	}

	return userID, nil
}

// callerIsAdmin reports whether the authenticated user carries the admin role.
func callerIsAdmin(c echo.Context) bool {
	roles, ok := c.Get("roles").([]string)

	return ok && slices.Contains(roles, constants.RoleAdmin)
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WrapMessage("invalid " + name + " parameter")
	}

	return id, nil
}
