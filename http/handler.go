package http

import (
	"context"

	"github.com/Martyn911/ticket-system/booking"
	"github.com/Martyn911/ticket-system/entities"
	"github.com/google/uuid"
)

type Handler struct {
	bookingService BookingService
	eventRepo      EventRepository
}

type BookingService interface {
	BookTicket(ctx context.Context, cmd booking.BookTicketCommand) (entities.BookingConfirmation, error)
}

type EventRepository interface {
	Create(ctx context.Context, event entities.Event) error
	FindByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
}
