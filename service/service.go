package service

import (
	"context"
	"net/http"

	"github.com/Martyn911/ticket-system/booking"
	"github.com/Martyn911/ticket-system/db"
	ticketsHttp "github.com/Martyn911/ticket-system/http"
	"github.com/Martyn911/ticket-system/message"
	"github.com/Martyn911/ticket-system/message/event"
	"github.com/Martyn911/ticket-system/message/outbox"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	watermillMessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	watermillRouter *watermillMessage.Router
	echoRouter      *echo.Echo
	addr            string
}

func New(
	addr string,
	redisClient *redis.Client,
	conn db.DB,
	mailerService event.MailerService,
) Service {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	var redisPublisher watermillMessage.Publisher
	redisPublisher = message.NewRedisPublisher(redisClient, watermillLogger)
	redisPublisher = log.CorrelationPublisherDecorator{Publisher: redisPublisher}

	eventRepo := db.NewEventRepository(&conn)
	bookingRepo := db.NewBookingRepository(&conn)

	bookingService := booking.NewService(
		storeWithTx{&conn, eventRepo},
		bookingRepo,
		outbox.NewPublisher(),
	)

	eventsHandler := event.NewHandler(mailerService)
	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)

	pgSubscriber, err := outbox.NewPostgresSubscriber(conn.Conn, watermillLogger)
	if err != nil {
		panic(err)
	}
	watermillRouter := message.NewWatermillRouter(
		pgSubscriber,
		redisPublisher,
		eventProcessorConfig,
		eventsHandler,
		watermillLogger,
	)

	echoRouter := ticketsHttp.NewHttpRouter(
		bookingService,
		eventRepo,
	)

	return Service{
		watermillRouter: watermillRouter,
		echoRouter:      echoRouter,
		addr:            addr,
	}
}

func (s Service) Run(ctx context.Context) error {
	errgrp, ctx := errgroup.WithContext(ctx)

	errgrp.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	errgrp.Go(func() error {
		// we don't want to start HTTP server before Watermill router (so service won't be healthy before it's ready)
		<-s.watermillRouter.Running()

		err := s.echoRouter.Start(s.addr)
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	errgrp.Go(func() error {
		<-ctx.Done()
		return s.echoRouter.Shutdown(context.Background())
	})

	return errgrp.Wait()
}

// storeWithTx glues the transaction helper and the event repository into the
// single EventStore dependency the coordinator asks for.
type storeWithTx struct {
	*db.DB
	db.EventRepository
}
