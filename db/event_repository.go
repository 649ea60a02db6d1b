package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Martyn911/ticket-system/entities"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type IEventRepository interface {
	Create(ctx context.Context, event entities.Event) error
	FindByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
	Save(ctx context.Context, event entities.Event) error
}

type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	if db == nil {
		panic("db is nil")
	}
	return EventRepository{
		db: db,
	}
}

func (er EventRepository) Create(ctx context.Context, event entities.Event) error {
	_, err := sqlx.NamedExecContext(ctx, er.db.queryer(ctx), `
		INSERT INTO
		    events (event_id, name, total_tickets, sold_tickets, version)
		VALUES
		    (:event_id, :name, :total_tickets, :sold_tickets, :version)`,
		event,
	)
	if err != nil {
		return fmt.Errorf("could not save event: %w", mapConnError(err))
	}
	return nil
}

// FindByID loads the aggregate together with its current concurrency token.
func (er EventRepository) FindByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error) {
	var event entities.Event
	err := sqlx.GetContext(ctx, er.db.queryer(ctx), &event, `
		SELECT
		    event_id, name, total_tickets, sold_tickets, version
		FROM
		    events
		WHERE
		    event_id = $1
	`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Event{}, entities.ErrEventNotFound
	}
	if err != nil {
		return entities.Event{}, fmt.Errorf("could not get event: %w", mapConnError(err))
	}

	return event, nil
}

// Save persists the aggregate with an optimistic check-and-increment on the
// version token. When the row changed since the load, no write happens and
// ErrConcurrencyConflict is returned.
func (er EventRepository) Save(ctx context.Context, event entities.Event) error {
	res, err := er.db.queryer(ctx).ExecContext(ctx, `
		UPDATE
		    events
		SET
		    sold_tickets = $2,
		    version = version + 1
		WHERE
		    event_id = $1 AND version = $3
	`, event.EventID, event.SoldTickets, event.Version)
	if err != nil {
		return fmt.Errorf("could not save event: %w", mapConnError(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not check affected rows: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or someone else bumped the version first.
		if _, findErr := er.FindByID(ctx, event.EventID); findErr != nil {
			return findErr
		}
		return entities.ErrConcurrencyConflict
	}

	return nil
}
