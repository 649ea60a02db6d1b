package entities

import "github.com/google/uuid"

// Booking is the immutable fact that a client holds a given ticket.
// The BookingID is generated by the coordinator, never by storage.
type Booking struct {
	BookingID    uuid.UUID `json:"booking_id" db:"booking_id"`
	ClientID     uuid.UUID `json:"client_id" db:"client_id"`
	EventID      uuid.UUID `json:"event_id" db:"event_id"`
	TicketNumber int       `json:"ticket_number" db:"ticket_number"`
}

func NewBooking(clientID uuid.UUID, ticket Ticket) Booking {
	return Booking{
		BookingID:    uuid.New(),
		ClientID:     clientID,
		EventID:      ticket.EventID,
		TicketNumber: ticket.TicketNumber,
	}
}

type BookingConfirmation struct {
	BookingID    uuid.UUID `json:"booking_id"`
	TicketNumber int       `json:"ticket_number"`
}

type EventCreateResponse struct {
	EventID uuid.UUID `json:"event_id"`
}
