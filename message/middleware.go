package message

import (
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/lithammer/shortuuid/v3"
	"github.com/sirupsen/logrus"
)

// correlationIDKey is the metadata key CorrelationPublisherDecorator stamps
// on outgoing messages. correlationIDHeader is the HTTP header name; a
// producer that copies request headers into metadata verbatim still
// correlates.
const (
	correlationIDKey    = "correlation_id"
	correlationIDHeader = "Correlation-ID"
)

func useMiddlewares(router *message.Router, watermillLogger watermill.LoggerAdapter) {
	router.AddMiddleware(middleware.Recoverer)

	// Confirmation mails go out through an external gateway whose failures
	// are almost always transient. Back off up to half a minute before the
	// message returns to the stream for redelivery; duplicates are tolerated.
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      8,
		InitialInterval: time.Millisecond * 250,
		MaxInterval:     time.Second * 30,
		Multiplier:      2,
		Logger:          watermillLogger,
	}.Middleware)

	router.AddMiddleware(propagateCorrelationID)
	router.AddMiddleware(logMessage)
}

func propagateCorrelationID(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		correlationID := msg.Metadata.Get(correlationIDKey)
		if correlationID == "" {
			correlationID = msg.Metadata.Get(correlationIDHeader)
		}
		if correlationID == "" {
			correlationID = shortuuid.New()
		}

		ctx := log.ToContext(msg.Context(), logrus.WithFields(logrus.Fields{"correlation_id": correlationID}))
		ctx = log.ContextWithCorrelationID(ctx, correlationID)

		msg.SetContext(ctx)

		return next(msg)
	}
}

// logMessage logs the event name, never the payload: confirmation events
// carry client email addresses.
func logMessage(next message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		logger := log.FromContext(msg.Context()).WithFields(logrus.Fields{
			"message_id": msg.UUID,
			"event":      msg.Metadata.Get("name"),
		})

		logger.Info("Handling a message")

		msgs, err := next(msg)
		if err != nil {
			logger.WithError(err).Error("Message handling failed")
		}

		return msgs, err
	}
}
