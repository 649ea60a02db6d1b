package entities

import (
	"github.com/google/uuid"
)

// Event is the aggregate guarding the capacity invariant:
// 0 <= SoldTickets <= TotalTickets, always, also under concurrent bookings.
type Event struct {
	EventID      uuid.UUID `json:"event_id" db:"event_id"`
	Name         string    `json:"name" db:"name"`
	TotalTickets int       `json:"total_tickets" db:"total_tickets"`
	SoldTickets  int       `json:"sold_tickets" db:"sold_tickets"`

	// Version is the optimistic concurrency token. It is read together with
	// the row and compared-and-incremented by the store on save.
	Version int `json:"-" db:"version"`
}

func NewEvent(name string, totalTickets int) (Event, error) {
	if name == "" {
		return Event{}, ErrInvalidEvent
	}
	if totalTickets < 1 {
		return Event{}, ErrInvalidEvent
	}

	return Event{
		EventID:      uuid.New(),
		Name:         name,
		TotalTickets: totalTickets,
	}, nil
}

// IssueTicket is the only code path that may change SoldTickets.
// It mutates in-memory state only; durability and conflict detection
// happen in the event repository at save time.
func (e *Event) IssueTicket(clientID uuid.UUID) (Ticket, error) {
	if e.SoldTickets >= e.TotalTickets {
		return Ticket{}, ErrTicketsSoldOut
	}

	e.SoldTickets++

	return Ticket{
		EventID:      e.EventID,
		ClientID:     clientID,
		TicketNumber: e.SoldTickets,
	}, nil
}

func (e Event) TicketsLeft() int {
	return e.TotalTickets - e.SoldTickets
}
