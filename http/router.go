package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func NewHttpRouter(
	bookingService BookingService,
	eventRepo EventRepository,
) *echo.Echo {
	e := libHttp.NewEcho()
	e.Use(otelecho.Middleware("ticket-system"))
	e.Validator = &requestValidator{validator: validator.New()}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler := Handler{
		bookingService: bookingService,
		eventRepo:      eventRepo,
	}

	e.POST("/events", handler.PostEvents)
	e.GET("/events/:event_id", handler.GetEventByID)
	e.POST("/events/:event_id/book", handler.PostBookTicket)

	return e
}

type requestValidator struct {
	validator *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
