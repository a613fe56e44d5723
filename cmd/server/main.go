package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foboh/internal/config"
	"foboh/internal/infra"
	"foboh/internal/middleware"
	"foboh/internal/repository"
	"foboh/internal/router"
	"foboh/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := router.Deps{}

	// ── Stores ───────────────────────────────────────────────────────────────
	switch cfg.StoreDriver {
	case "memory":
		deps.Products = repository.NewMemoryProductRepository(repository.SeedProducts())
		deps.Profiles = repository.NewMemoryProfileRepository()
		log.Warn().Msg("using in-memory store, profiles are lost on restart")
	case "postgres":
		db, err := infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		deps.DB = db
		deps.Products = repository.NewProductRepository(db)
		deps.Profiles = repository.NewProfileRepository(db)
	default:
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("unknown STORE_DRIVER (postgres | memory)")
	}

	// ── Redis: profile cache + job queues ────────────────────────────────────
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		deps.Redis = rdb
		deps.Profiles = repository.NewCachedProfileRepository(deps.Profiles, rdb, cfg.ProfileCacheTTL)
	} else {
		log.Warn().Msg("REDIS_URL empty: profile cache and background price sheets disabled")
	}

	// ── Events ───────────────────────────────────────────────────────────────
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		pub := infra.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		defer pub.Close()
		deps.Events = pub
		log.Info().Strs("brokers", brokers).Str("topic", cfg.KafkaTopic).Msg("publishing profile events to kafka")
	}

	// ── Mail ─────────────────────────────────────────────────────────────────
	mailBreaker := infra.NewBreaker("smtp", infra.DefaultMailBreakerConfig())
	mailer := infra.NewMailer(cfg, mailBreaker)
	deps.MailBreaker = mailBreaker

	// ── Workers ──────────────────────────────────────────────────────────────
	if deps.Redis != nil {
		store, err := newSheetStore(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init price sheet store")
		}

		dispatcher := worker.NewDispatcher(deps.Redis)
		deps.Dispatcher = dispatcher

		recipient := cfg.PriceSheetRecipient
		if recipient != "" && !mailer.Configured() {
			log.Warn().Msg("PRICE_SHEET_RECIPIENT set but SMTP_HOST empty, price sheets will not be mailed")
			recipient = ""
		}

		pool := worker.NewPool(deps.Redis)
		pool.Register(worker.QueuePriceSheet,
			worker.NewPriceSheetWorker(deps.Profiles, deps.Products, store, dispatcher, recipient))
		queues := []string{worker.QueuePriceSheet}
		if mailer.Configured() {
			pool.Register(worker.QueueEmail, worker.NewEmailWorker(mailer, store))
			queues = append(queues, worker.QueueEmail)
		}
		pool.Start(ctx, cfg.WorkerPoolSize)

		worker.StartDLQRedrive(ctx, worker.RedriveConfig{
			RDB:         deps.Redis,
			Queues:      queues,
			MailBreaker: mailBreaker,
		})
	}

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	limiter.StartPurge(ctx, 10*time.Minute)
	deps.Limiter = limiter

	r := router.New(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("pricing service listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}

// setupLogger: dev pretty console, prod JSON; level from LOG_LEVEL.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func newSheetStore(ctx context.Context, cfg *config.Config) (infra.SheetStore, error) {
	switch cfg.PriceSheetStore {
	case "minio":
		return infra.NewMinioSheetStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	case "local", "":
		return infra.NewLocalSheetStore(cfg.PriceSheetPath), nil
	default:
		return nil, fmt.Errorf("unknown PRICE_SHEET_STORE %q (local | minio)", cfg.PriceSheetStore)
	}
}
