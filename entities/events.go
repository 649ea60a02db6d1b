package entities

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
}

// BookingConfirmed_v1 is written to the transactional outbox in the same
// transaction as the booking itself and relayed after commit. Delivery is
// at-least-once; a duplicate confirmation email is tolerated.
type BookingConfirmed_v1 struct {
	Header EventHeader `json:"header"`

	BookingID    uuid.UUID `json:"booking_id"`
	ClientEmail  string    `json:"client_email"`
	TicketNumber int       `json:"ticket_number"`
}
