package db

var schema = `
CREATE TABLE IF NOT EXISTS events (
	event_id UUID PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	total_tickets INT NOT NULL CHECK (total_tickets > 0),
	sold_tickets INT NOT NULL DEFAULT 0 CHECK (sold_tickets >= 0 AND sold_tickets <= total_tickets),
	version INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS bookings (
	booking_id UUID PRIMARY KEY,
	client_id UUID NOT NULL,
	event_id UUID NOT NULL REFERENCES events (event_id),
	ticket_number INT NOT NULL,
	UNIQUE (event_id, ticket_number)
);
`
