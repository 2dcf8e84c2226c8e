package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mybnb/service-booking/internal/application"
	"github.com/mybnb/service-booking/internal/auth"
	"github.com/mybnb/service-booking/internal/config"
	"github.com/mybnb/service-booking/internal/database"
	bookingEvents "github.com/mybnb/service-booking/internal/events"
	"github.com/mybnb/service-booking/internal/handler"
	"github.com/mybnb/service-booking/internal/health"
	"github.com/mybnb/service-booking/internal/kafka"
	"github.com/mybnb/service-booking/internal/logger"
	"github.com/mybnb/service-booking/internal/middleware"
	"github.com/mybnb/service-booking/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		err := db.AutoMigrate(
			&repository.ListingModel{},
			&repository.ReservationModel{},
			&repository.FavoriteModel{},
		)
		if err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(database.URL(cfg.DBConfig), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 7*24*time.Hour)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	reservationRepo := repository.NewGormReservationRepository(db)
	listingRepo := repository.NewGormListingRepository(db)
	favoriteRepo := repository.NewGormFavoriteRepository(db)

	// Initialize application services
	bookingService := application.NewBookingService(reservationRepo, listingRepo, kafkaProducer, log)
	listingService := application.NewListingService(listingRepo, reservationRepo, favoriteRepo, log)
	favoriteService := application.NewFavoriteService(favoriteRepo, listingRepo, log)

	// Initialize and start the user event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "service-booking"
	userConsumer := bookingEvents.NewUserEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		favoriteService,
		log,
	)
	defer func() { _ = userConsumer.Close() }()

	go func() {
		log.Info("starting user event consumer")
		if err := userConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("user event consumer error", zap.Error(err))
		}
	}()

	// Register custom binding validators
	if err := handler.RegisterValidations(); err != nil {
		log.Fatal("failed to register validations", zap.Error(err))
	}

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	listingHandler := handler.NewListingHandler(listingService)
	favoriteHandler := handler.NewFavoriteHandler(favoriteService)

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	cookieName := cfg.JWTConfig.CookieName
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager, cookieName)
	listingHandler.RegisterRoutes(&router.RouterGroup, jwtManager, cookieName)
	favoriteHandler.RegisterRoutes(&router.RouterGroup, jwtManager, cookieName)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
