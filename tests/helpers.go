package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/require"
)

type createEventRequest struct {
	Name         string `json:"name"`
	TotalTickets int    `json:"total_tickets"`
}

type createEventResponse struct {
	EventID string `json:"event_id"`
}

type bookTicketRequest struct {
	ClientID    string `json:"client_id"`
	ClientEmail string `json:"client_email"`
}

type bookTicketResponse struct {
	BookingID    string `json:"booking_id"`
	TicketNumber int    `json:"ticket_number"`
}

func createEvent(t *testing.T, name string, totalTickets int) string {
	t.Helper()

	resp := postJSON(t, "http://localhost:8080/events", createEventRequest{
		Name:         name,
		TotalTickets: totalTickets,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created createEventResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.EventID)

	return created.EventID
}

func bookTicket(t *testing.T, eventID string, req bookTicketRequest) bookTicketResponse {
	t.Helper()

	resp := bookTicketRaw(t, eventID, req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var confirmation bookTicketResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&confirmation))

	return confirmation
}

func bookTicketRaw(t *testing.T, eventID string, req bookTicketRequest) *http.Response {
	t.Helper()

	return postJSON(t, "http://localhost:8080/events/"+eventID+"/book", req)
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(payload))
	require.NoError(t, err)

	httpReq.Header.Set("Correlation-ID", shortuuid.New())
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	require.NoError(t, err)

	return resp
}
