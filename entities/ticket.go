package entities

import "github.com/google/uuid"

// Ticket is the value object returned by Event.IssueTicket.
// TicketNumber is 1-based and equals SoldTickets at the moment of issuance.
type Ticket struct {
	EventID      uuid.UUID `json:"event_id"`
	ClientID     uuid.UUID `json:"client_id"`
	TicketNumber int       `json:"ticket_number"`
}

// Equal treats the event and the seat number as the ticket's identity.
// The client holding the ticket is not part of it.
func (t Ticket) Equal(other Ticket) bool {
	return t.EventID == other.EventID && t.TicketNumber == other.TicketNumber
}
