package db

import (
	"context"
	"fmt"

	"github.com/Martyn911/ticket-system/entities"
	"github.com/jmoiron/sqlx"
)

type IBookingRepository interface {
	Add(ctx context.Context, booking entities.Booking) error
}

type BookingRepository struct {
	db *DB
}

func NewBookingRepository(db *DB) BookingRepository {
	if db == nil {
		panic("db is nil")
	}
	return BookingRepository{
		db: db,
	}
}

// Add inserts the booking record. The UNIQUE (event_id, ticket_number)
// constraint backs up the version check: two transactions that both passed
// the in-memory capacity check cannot both keep the same seat.
func (br BookingRepository) Add(ctx context.Context, booking entities.Booking) error {
	_, err := sqlx.NamedExecContext(ctx, br.db.queryer(ctx), `
		INSERT INTO
		    bookings (booking_id, client_id, event_id, ticket_number)
		VALUES
		    (:booking_id, :client_id, :event_id, :ticket_number)`,
		booking,
	)
	if isErrorUniqueViolation(err) {
		return entities.ErrConcurrencyConflict
	}
	if err != nil {
		return fmt.Errorf("could not add booking: %w", mapConnError(err))
	}

	return nil
}
