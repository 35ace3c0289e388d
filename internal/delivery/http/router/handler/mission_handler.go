package handler

import (
	"net/http"

	"loyalty/internal/delivery/http/response"
	"loyalty/internal/domain/entity"
	"loyalty/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MissionHandler holds dependencies for mission handlers.
type MissionHandler struct {
	uc usecase.MissionUsecase
}

// NewMissionHandler is the constructor for MissionHandler, injected by Fx.
func NewMissionHandler(uc usecase.MissionUsecase) *MissionHandler {
	return &MissionHandler{uc: uc}
}

// CreateMission creates a mission. Admin only.
func (h *MissionHandler) CreateMission(c echo.Context) error {
	var input *usecase.CreateMissionInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid mission input")
	}

	mission, err := h.uc.CreateMission(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, mission, "Mission created successfully")
}

// UpdateMission replaces a mission's state. Admin only.
func (h *MissionHandler) UpdateMission(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	var input *usecase.UpdateMissionInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid mission input")
	}

	mission, err := h.uc.UpdateMission(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mission, "Mission updated successfully")
}

// DeleteMission soft deletes a mission. Admin only.
func (h *MissionHandler) DeleteMission(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.DeleteMission(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Mission deleted successfully")
}

// ListMissions is the admin mission listing with status and type filters.
func (h *MissionHandler) ListMissions(c echo.Context) error {
	limit, offset := paginationParams(c)

	var statuses []entity.MissionStatus
	if raw := c.QueryParams()["status"]; len(raw) > 0 {
		statuses = make([]entity.MissionStatus, 0, len(raw))
		for _, s := range raw {
			statuses = append(statuses, entity.MissionStatus(s))
		}
	}

	output, err := h.uc.ListMissions(c.Request().Context(), &usecase.ListMissionsInput{
		Statuses: statuses,
		Type:     entity.MissionType(c.QueryParam("type")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "")
}

// GetMission returns a single mission.
func (h *MissionHandler) GetMission(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return errors.WithStack(err)
	}

	mission, err := h.uc.GetMission(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, mission, "")
}

// ListOpenMissions returns missions open for the caller, with submission headroom.
func (h *MissionHandler) ListOpenMissions(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return errors.WithStack(err)
	}

	missions, err := h.uc.ListOpenMissions(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, missions, "")
}
