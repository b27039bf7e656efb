package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"trailbook/internal/bookings/events"
	"trailbook/internal/notifier"
	tourrepo "trailbook/internal/tours/repository"
	userrepo "trailbook/internal/users/repository"
	"trailbook/pkg/config"
	"trailbook/pkg/email"
	"trailbook/pkg/kafka"
	kafka_config "trailbook/pkg/kafka/config"
	kafka_middleware "trailbook/pkg/kafka/middleware"
)

const (
	ServiceName   = "notifier"
	ConsumerGroup = "trailbook-notifier"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Trailbook notifier service")

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	userRepo := userrepo.NewUserRepository(db, cfg.MongoReadTimeout, cfg.MongoWriteTimeout)
	tourRepo := tourrepo.NewTourRepository(db, cfg.MongoReadTimeout, cfg.MongoWriteTimeout)

	mailer, err := email.New(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
		AppEnv:   cfg.AppEnv,
	}, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize mailer", "error", err)
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	handler := notifier.NewHandler(userRepo, tourRepo, mailer, cfg.Log)
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		events.TopicBookingCreated,
		ConsumerGroup,
		events.TopicBookingCreatedDLQ,
		handler.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	cfg.Log.Info("Shutting down notifier")
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	cfg.Client.Close(shutdownCtx, cfg.Log)
}
