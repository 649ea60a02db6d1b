package entities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	event, err := NewEvent("Go Conference", 100)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.EventID)
	assert.Equal(t, "Go Conference", event.Name)
	assert.Equal(t, 100, event.TotalTickets)
	assert.Equal(t, 0, event.SoldTickets)
	assert.Equal(t, 0, event.Version)
}

func TestNewEvent_Invalid(t *testing.T) {
	_, err := NewEvent("", 10)
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewEvent("Go Conference", 0)
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = NewEvent("Go Conference", -1)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestIssueTicket(t *testing.T) {
	event, err := NewEvent("Go Conference", 3)
	require.NoError(t, err)

	clientID := uuid.New()

	for want := 1; want <= 3; want++ {
		ticket, err := event.IssueTicket(clientID)
		require.NoError(t, err)

		assert.Equal(t, want, ticket.TicketNumber)
		assert.Equal(t, event.EventID, ticket.EventID)
		assert.Equal(t, clientID, ticket.ClientID)
		assert.Equal(t, want, event.SoldTickets)
	}

	_, err = event.IssueTicket(clientID)
	assert.ErrorIs(t, err, ErrTicketsSoldOut)
	assert.Equal(t, 3, event.SoldTickets)

	// durability owns the token, issuing tickets must not touch it
	assert.Equal(t, 0, event.Version)
}

func TestIssueTicket_SoldOutLeavesNoMutation(t *testing.T) {
	event, err := NewEvent("Go Conference", 1)
	require.NoError(t, err)

	_, err = event.IssueTicket(uuid.New())
	require.NoError(t, err)

	before := event
	_, err = event.IssueTicket(uuid.New())
	assert.ErrorIs(t, err, ErrTicketsSoldOut)
	assert.Equal(t, before, event)
}

func TestTicketEqual(t *testing.T) {
	eventID := uuid.New()

	ticket := Ticket{EventID: eventID, ClientID: uuid.New(), TicketNumber: 1}
	sameSeatOtherClient := Ticket{EventID: eventID, ClientID: uuid.New(), TicketNumber: 1}
	otherSeat := Ticket{EventID: eventID, ClientID: ticket.ClientID, TicketNumber: 2}
	otherEvent := Ticket{EventID: uuid.New(), ClientID: ticket.ClientID, TicketNumber: 1}

	assert.True(t, ticket.Equal(sameSeatOtherClient))
	assert.False(t, ticket.Equal(otherSeat))
	assert.False(t, ticket.Equal(otherEvent))
}

func TestTicketsLeft(t *testing.T) {
	event, err := NewEvent("Go Conference", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, event.TicketsLeft())

	_, err = event.IssueTicket(uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 1, event.TicketsLeft())
}
