package outbox

import (
	"context"
	"fmt"

	"github.com/Martyn911/ticket-system/db"
	"github.com/Martyn911/ticket-system/entities"
	"github.com/Martyn911/ticket-system/message/event"
	observability "github.com/Martyn911/ticket-system/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillSQL "github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

// Publisher writes events to the outbox table within the transaction carried
// in the context. The forwarder relays them to Redis only after that
// transaction commits, so a rolled back booking never produces a message.
type Publisher struct{}

func NewPublisher() Publisher {
	return Publisher{}
}

func (Publisher) PublishBookingConfirmed(ctx context.Context, evt entities.BookingConfirmed_v1) error {
	tx := db.TxFromContext(ctx)
	if tx == nil {
		return fmt.Errorf("confirmation must be published within a transaction")
	}

	publisher, err := newPublisherForTx(ctx, tx)
	if err != nil {
		return err
	}

	return event.NewBus(publisher).Publish(ctx, evt)
}

func newPublisherForTx(ctx context.Context, tx *sqlx.Tx) (message.Publisher, error) {
	var publisher message.Publisher

	logger := log.NewWatermill(log.FromContext(ctx))

	publisher, err := watermillSQL.NewPublisher(
		tx,
		watermillSQL.PublisherConfig{
			SchemaAdapter: watermillSQL.DefaultPostgreSQLSchema{},
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox publisher: %w", err)
	}
	publisher = log.CorrelationPublisherDecorator{Publisher: publisher}
	publisher = observability.TracingPublisherDecorator{Publisher: publisher}

	publisher = forwarder.NewPublisher(publisher, forwarder.PublisherConfig{
		ForwarderTopic: topic,
	})
	publisher = log.CorrelationPublisherDecorator{Publisher: publisher}

	return publisher, nil
}
