package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Martyn911/ticket-system/api"
	"github.com/Martyn911/ticket-system/db"
	"github.com/Martyn911/ticket-system/message"
	"github.com/Martyn911/ticket-system/service"
	observability "github.com/Martyn911/ticket-system/trace"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

type config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	PostgresURL string `env:"POSTGRES_URL,notEmpty"`
	RedisAddr   string `env:"REDIS_ADDR,notEmpty"`
	MailerAddr  string `env:"MAILER_ADDR,notEmpty"`
}

func main() {
	log.Init(logrus.InfoLevel)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	tp := observability.ConfigureTraceProvider()
	defer func() {
		_ = tp.Shutdown(context.Background())
	}()

	conn, err := db.NewDBConn(cfg.PostgresURL)
	if err != nil {
		logrus.WithError(err).Fatal("Could not connect to Postgres")
	}
	defer conn.Close()
	conn.MigrateSchema()

	redisClient := message.NewRedisClient(cfg.RedisAddr)
	defer redisClient.Close()

	mailerClient := api.NewMailerClient(cfg.MailerAddr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	svc := service.New(cfg.Addr, redisClient, conn, mailerClient)

	logrus.Info("Service starting...")

	if err := svc.Run(ctx); err != nil && err != context.Canceled {
		logrus.WithError(err).Fatal("Service stopped with error")
	}
}
