package http

import (
	"errors"
	"net/http"

	"github.com/Martyn911/ticket-system/entities"
	"github.com/labstack/echo/v4"
)

// toHTTPError translates the booking error taxonomy into transport codes:
// not-found, rejected (sold out), conflict-retry and unavailable.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, entities.ErrEventNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	case errors.Is(err, entities.ErrTicketsSoldOut):
		return echo.NewHTTPError(http.StatusBadRequest, "no tickets left for this event")
	case errors.Is(err, entities.ErrConcurrencyConflict):
		return echo.NewHTTPError(http.StatusConflict, "someone just booked the last ticket, please try again")
	case errors.Is(err, entities.ErrStoreUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable, please retry later")
	case errors.Is(err, entities.ErrInvalidEvent):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
