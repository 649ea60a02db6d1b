package http

import (
	"net/http"

	"github.com/Martyn911/ticket-system/booking"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type bookTicketRequest struct {
	ClientID    string `json:"client_id" validate:"required,uuid"`
	ClientEmail string `json:"client_email" validate:"required,email"`
}

func (h *Handler) PostBookTicket(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "event_id must be a valid uuid")
	}

	var req bookTicketRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	confirmation, err := h.bookingService.BookTicket(c.Request().Context(), booking.BookTicketCommand{
		EventID:     eventID,
		ClientID:    uuid.MustParse(req.ClientID),
		ClientEmail: req.ClientEmail,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, confirmation)
}
