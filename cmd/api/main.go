package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/stripe/stripe-go/v82"

	"trailbook/internal/bookings/events"
	bookinghandler "trailbook/internal/bookings/handler"
	bookingrepo "trailbook/internal/bookings/repository"
	bookingservice "trailbook/internal/bookings/service"
	bookingvalidator "trailbook/internal/bookings/validator"
	reviewhandler "trailbook/internal/reviews/handler"
	reviewrepo "trailbook/internal/reviews/repository"
	reviewservice "trailbook/internal/reviews/service"
	reviewvalidator "trailbook/internal/reviews/validator"
	tourhandler "trailbook/internal/tours/handler"
	"trailbook/internal/tours/images"
	tourrepo "trailbook/internal/tours/repository"
	tourservice "trailbook/internal/tours/service"
	tourvalidator "trailbook/internal/tours/validator"
	userhandler "trailbook/internal/users/handler"
	userrepo "trailbook/internal/users/repository"
	userservice "trailbook/internal/users/service"
	uservalidator "trailbook/internal/users/validator"
	"trailbook/pkg/app"
	"trailbook/pkg/auth"
	"trailbook/pkg/config"
	"trailbook/pkg/contracts"
	dbmongo "trailbook/pkg/db/mongo"
	"trailbook/pkg/email"
	httputil "trailbook/pkg/http"
	"trailbook/pkg/kafka"
	kafka_config "trailbook/pkg/kafka/config"
	kafka_middleware "trailbook/pkg/kafka/middleware"
)

const ServiceName = "api"

// routes registers every domain handler on the shared router.
type routes []contracts.Handler

func (rs routes) RegisterRoutes(router *httprouter.Router) {
	for _, r := range rs {
		r.RegisterRoutes(router)
	}
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Trailbook API service")

	stripe.Key = cfg.StripeSecretKey

	producer := initProducer(cfg)
	catcher := httputil.NewCatcher(cfg.Log, cfg.AppEnv)
	handlers := initHandlers(cfg, producer, catcher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handlers, catcher.NotFoundHandler())
	serverApp.OnShutdown(func(ctx context.Context) {
		if producer != nil {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}
		cfg.Client.Close(ctx, cfg.Log)
	})
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, events.TopicBookingCreated, events.TopicBookingCreatedDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	return producer
}

func initHandlers(cfg *config.Config, producer *kafka.Producer, catcher *httputil.Catcher) contracts.Handler {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	log := cfg.Log

	mailer, err := email.New(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.EmailFrom,
		AppEnv:   cfg.AppEnv,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", "error", err)
	}

	tourRepo := tourrepo.NewTourRepository(db, cfg.MongoReadTimeout, cfg.MongoWriteTimeout)
	userRepo := userrepo.NewUserRepository(db, cfg.MongoReadTimeout, cfg.MongoWriteTimeout)
	reviewRepo := reviewrepo.NewReviewRepository(db, cfg.MongoReadTimeout, cfg.MongoWriteTimeout)
	bookingRepo := bookingrepo.NewBookingRepository(db, cfg.MongoReadTimeout, cfg.MongoWriteTimeout)

	txn := dbmongo.NewTransactionManager(cfg.Client.Mongo)

	tourService := tourservice.NewTourService(tourRepo, tourvalidator.NewTourValidator(log), log)
	userService := userservice.NewUserService(userRepo, uservalidator.NewUserValidator(log), log)
	reviewService := reviewservice.NewReviewService(reviewRepo, tourRepo, txn, reviewvalidator.NewReviewValidator(log), log)
	bookingService := bookingservice.NewBookingService(bookingRepo, tourRepo, producer, bookingvalidator.NewBookingValidator(log), log)

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	guard := auth.NewGuard(tokens, userService)
	processor := images.NewProcessor(cfg.TourImageDir, log)
	secureCookies := cfg.AppEnv == "production"

	log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return routes{
		tourhandler.NewTourHandler(tourRepo, tourService, processor, guard, catcher, log),
		userhandler.NewUserHandler(userRepo, userService, tokens, mailer, guard, catcher, cfg.JWTCookieExpires, secureCookies, log),
		reviewhandler.NewReviewHandler(reviewRepo, reviewService, guard, catcher, log),
		bookinghandler.NewBookingHandler(bookingRepo, bookingService, tourRepo, guard, catcher, log),
	}
}
