package http

import (
	"net/http"

	"github.com/Martyn911/ticket-system/entities"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type createEventRequest struct {
	Name         string `json:"name" validate:"required"`
	TotalTickets int    `json:"total_tickets" validate:"required,gt=0"`
}

func (h *Handler) PostEvents(c echo.Context) error {
	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := entities.NewEvent(req.Name, req.TotalTickets)
	if err != nil {
		return toHTTPError(err)
	}

	if err := h.eventRepo.Create(c.Request().Context(), event); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, entities.EventCreateResponse{EventID: event.EventID})
}

func (h *Handler) GetEventByID(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "event_id must be a valid uuid")
	}

	event, err := h.eventRepo.FindByID(c.Request().Context(), eventID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, event)
}
