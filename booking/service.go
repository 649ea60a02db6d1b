package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Martyn911/ticket-system/entities"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EventStore abstracts durable storage of the Event aggregate. WithTx opens
// the transaction boundary every booking runs in; FindByID and Save called
// inside it operate on the same transaction.
type EventStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	FindByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
	Save(ctx context.Context, event entities.Event) error
}

type BookingStore interface {
	Add(ctx context.Context, booking entities.Booking) error
}

// ConfirmationPublisher hands the confirmation to the notification pipeline.
// The production implementation writes to the transactional outbox, so the
// message becomes visible only after the booking commits.
type ConfirmationPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event entities.BookingConfirmed_v1) error
}

var bookingsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bookings_total",
		Help: "Booking attempts by outcome.",
	},
	[]string{"outcome"},
)

type Service struct {
	events    EventStore
	bookings  BookingStore
	publisher ConfirmationPublisher
}

func NewService(events EventStore, bookings BookingStore, publisher ConfirmationPublisher) Service {
	if events == nil {
		panic("missing event store")
	}
	if bookings == nil {
		panic("missing booking store")
	}
	if publisher == nil {
		panic("missing confirmation publisher")
	}
	return Service{
		events:    events,
		bookings:  bookings,
		publisher: publisher,
	}
}

type BookTicketCommand struct {
	EventID     uuid.UUID
	ClientID    uuid.UUID
	ClientEmail string
}

// BookTicket runs load -> issue -> persist -> notify as one atomic unit.
//
// All four error kinds (ErrEventNotFound, ErrTicketsSoldOut,
// ErrConcurrencyConflict, ErrStoreUnavailable) propagate unchanged and leave
// no state behind; retrying is the caller's decision, never ours.
func (s Service) BookTicket(ctx context.Context, cmd BookTicketCommand) (entities.BookingConfirmation, error) {
	var confirmation entities.BookingConfirmation

	err := s.events.WithTx(ctx, func(ctx context.Context) error {
		event, err := s.events.FindByID(ctx, cmd.EventID)
		if err != nil {
			return err
		}

		ticket, err := event.IssueTicket(cmd.ClientID)
		if err != nil {
			return err
		}

		booking := entities.NewBooking(cmd.ClientID, ticket)

		if err := s.bookings.Add(ctx, booking); err != nil {
			return err
		}

		// Save carries the version read at load time; a concurrent booking
		// that committed in between makes this fail and rolls everything back.
		if err := s.events.Save(ctx, event); err != nil {
			return err
		}

		err = s.publisher.PublishBookingConfirmed(ctx, entities.BookingConfirmed_v1{
			Header:       entities.NewEventHeader(),
			BookingID:    booking.BookingID,
			ClientEmail:  cmd.ClientEmail,
			TicketNumber: booking.TicketNumber,
		})
		if err != nil {
			return fmt.Errorf("could not publish confirmation: %w", err)
		}

		confirmation = entities.BookingConfirmation{
			BookingID:    booking.BookingID,
			TicketNumber: booking.TicketNumber,
		}
		return nil
	})
	if err != nil {
		bookingsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return entities.BookingConfirmation{}, err
	}

	log.FromContext(ctx).WithField("booking_id", confirmation.BookingID).Info("Ticket booked")
	bookingsTotal.WithLabelValues("confirmed").Inc()

	return confirmation, nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, entities.ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, entities.ErrTicketsSoldOut):
		return "sold_out"
	case errors.Is(err, entities.ErrConcurrencyConflict):
		return "conflict"
	case errors.Is(err, entities.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "error"
	}
}
