package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/stayhub/stayhub-api/internal/config"
	"github.com/stayhub/stayhub-api/internal/domain/auth"
	"github.com/stayhub/stayhub-api/internal/domain/client"
	"github.com/stayhub/stayhub-api/internal/domain/listing"
	"github.com/stayhub/stayhub-api/internal/domain/report"
	"github.com/stayhub/stayhub-api/internal/domain/reservation"
	"github.com/stayhub/stayhub-api/internal/domain/user"
	"github.com/stayhub/stayhub-api/internal/middleware"
	"github.com/stayhub/stayhub-api/internal/pkg/database"
	"github.com/stayhub/stayhub-api/internal/pkg/jwt"
	"github.com/stayhub/stayhub-api/internal/pkg/logger"
	"github.com/stayhub/stayhub-api/internal/pkg/response"
	"github.com/stayhub/stayhub-api/internal/pkg/storage"
	"github.com/stayhub/stayhub-api/internal/pkg/stripecard"
)

func main() {
	cfg := config.Load()
	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting StayHub API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	store, err := newStorage(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	stripeClient := stripecard.NewClient(stripecard.Config{
		BaseURL:   cfg.StripeBaseURL,
		SecretKey: cfg.StripeSecretKey,
	})

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	reservationRepo := reservation.NewRepository(db)
	clientRepo := client.NewRepository(db)
	reportRepo := report.NewRepository(db)

	// ---------- Services ----------
	authService := auth.NewService(userRepo, jwtService, rdb)
	userService := user.NewService(userRepo)
	listingService := listing.NewService(listingRepo, store, rdb)
	reservationService := reservation.NewService(reservationRepo, listingRepo, stripeClient)
	clientService := client.NewService(clientRepo, store)
	reportService := report.NewService(reportRepo)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	listingHandler := listing.NewHandler(listingService)
	reservationHandler := reservation.NewHandler(reservationService)
	clientHandler := client.NewHandler(clientService)
	reportHandler := report.NewHandler(reportService)
	webhookHandler := reservation.NewWebhookHandler(cfg.StripeWebhookSecret)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/users", userHandler.Routes(authMiddleware))
		r.Mount("/listings", listingHandler.Routes(authMiddleware))
		r.Mount("/reservations", reservationHandler.Routes(authMiddleware))
		r.Mount("/clients", clientHandler.Routes(authMiddleware))
		r.Mount("/reports", reportHandler.Routes(authMiddleware))
	})

	r.Post("/webhooks/stripe", webhookHandler.HandleStripe)

	// ---------- Nightly maintenance ----------
	scheduler := cron.New()
	expiry := time.Duration(cfg.PendingExpiryHours) * time.Hour
	if _, err := scheduler.AddFunc(cfg.MaintenanceCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		n, err := reservationService.ExpirePending(ctx, time.Now().Add(-expiry))
		if err != nil {
			log.Error().Err(err).Msg("Failed to expire pending reservations")
			return
		}
		if n > 0 {
			log.Info().Int64("expired", n).Msg("Expired stale pending reservations")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("cron", cfg.MaintenanceCron).Msg("Invalid maintenance cron expression")
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.S3Endpoint == "" && cfg.S3AccessKey == "" {
		return storage.NewLocalStorage("./uploads", cfg.S3PublicURL)
	}
	return storage.NewS3Storage(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
}
