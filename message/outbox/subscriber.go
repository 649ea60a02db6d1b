package outbox

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

// NewPostgresSubscriber reads the outbox table the booking transaction wrote
// to. The forwarder drains this subscription into Redis, which is the only
// path a confirmation takes out of the database.
func NewPostgresSubscriber(db *sqlx.DB, logger watermill.LoggerAdapter) (message.Subscriber, error) {
	sub, err := sql.NewSubscriber(
		db,
		sql.SubscriberConfig{
			SchemaAdapter:  sql.DefaultPostgreSQLSchema{},
			OffsetsAdapter: sql.DefaultPostgreSQLOffsetsAdapter{},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox subscriber: %w", err)
	}

	// creates the outbox table and offsets on first start
	if err := sub.SubscribeInitialize(topic); err != nil {
		return nil, fmt.Errorf("failed to initialize outbox topic: %w", err)
	}

	return sub, nil
}
