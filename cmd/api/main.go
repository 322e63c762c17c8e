package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"ehsas/internal/admin"
	"ehsas/internal/alumni"
	"ehsas/internal/api"
	"ehsas/internal/auth"
	"ehsas/internal/clock"
	"ehsas/internal/cloudinary"
	"ehsas/internal/config"
	"ehsas/internal/content"
	"ehsas/internal/logger"
	"ehsas/internal/notify"
	"ehsas/internal/queue"
	"ehsas/internal/sequence"
	"ehsas/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.LogLevel, cfg.Env)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// stores groups the persistence ports chosen by STORAGE_BACKEND.
type stores struct {
	admins        admin.Store
	alumni        alumni.Store
	notifications notify.Store
	content       content.Store
	sequence      sequence.Sequencer
}

func openStores(ctx context.Context, cfg config.App, log zerolog.Logger) (stores, *store.DB, error) {
	if cfg.StorageBackend == "memory" {
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		registry := alumni.NewMemoryStore()
		return stores{
			admins:        admin.NewMemoryStore(),
			alumni:        registry,
			notifications: notify.NewMemoryStore(),
			content:       content.NewMemoryStore(),
			sequence:      sequence.NewSeededMemory(alumni.BatchSeed(registry)),
		}, nil, nil
	}

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return stores{}, nil, err
	}
	return stores{
		admins:        admin.NewPostgresStore(db.Client),
		alumni:        alumni.NewPostgresStore(db.Client),
		notifications: notify.NewPostgresStore(db.Client),
		content:       content.NewPostgresStore(db.Client),
		sequence:      sequence.NewPostgres(db.Client),
	}, db, nil
}

func runHTTP(cfg config.App, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clk := clock.System{}

	st, db, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if db != nil {
			_ = db.Close()
		}
	}()

	var redisClient *store.Redis
	if cfg.SequenceBackend == "redis" || (cfg.MailBackend == "queue" && cfg.QueueBackend == "redis") {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
	}
	if cfg.SequenceBackend == "redis" {
		st.sequence = sequence.NewRedis(redisClient.Client, "", alumni.BatchSeed(st.alumni))
	}

	mailer := buildMailer(ctx, cfg, redisClient, log)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL, clk)
	admins := admin.NewService(st.admins, issuer, clk, logger.Component(log, "admin"))
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if _, err := admins.Seed(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return err
		}
	} else {
		log.Warn().Msg("ADMIN_EMAIL/ADMIN_PASSWORD not set, no administrator seeded")
	}

	recorder := notify.NewRecorder(st.notifications, clk)
	registry := alumni.NewService(alumni.Deps{
		Store:      st.alumni,
		Sequencer:  st.sequence,
		Recorder:   recorder,
		Mailer:     mailer,
		Clock:      clk,
		Log:        logger.Component(log, "alumni"),
		AdminInbox: cfg.AdminNotifyEmail,
	})

	deps := api.Deps{
		Admins:        admins,
		Issuer:        issuer,
		Alumni:        registry,
		Notifications: recorder,
		Content:       content.NewService(st.content, clk),
		Health:        map[string]api.HealthCheck{},
		Log:           logger.Component(log, "http"),
	}
	if cdn := cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder); cdn != nil {
		deps.Uploader = cdn
		log.Info().Str("cloud", cfg.CloudinaryCloudName).Msg("cloudinary configured")
	} else {
		log.Info().Msg("cloudinary not configured, uploads disabled")
	}
	if db != nil {
		deps.Health["db"] = db.Healthy
	}
	if redisClient != nil {
		deps.Health["redis"] = redisClient.Healthy
	}

	r := api.NewRouter(api.Options{
		APIPrefix:       cfg.APIPrefix,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		MetricsEnabled:  cfg.MetricsEnabled,
	}, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", cfg.StorageBackend).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced shutdown")
	}
	log.Info().Msg("server exited")
	return nil
}

// buildMailer picks the delivery path for MAIL_BACKEND. A Redis queue is
// drained by cmd/worker; an in-memory queue is drained by a goroutine in this
// process until ctx ends.
func buildMailer(ctx context.Context, cfg config.App, redisClient *store.Redis, log zerolog.Logger) notify.Mailer {
	mailLog := logger.Component(log, "mail")
	switch cfg.MailBackend {
	case "smtp":
		return notify.NewDeliveryMailer(cfg.SMTP, mailLog)
	case "queue":
		if cfg.QueueBackend == "redis" {
			return notify.NewQueueMailer(queue.NewRedisQueue(redisClient.Client, queue.DefaultKey))
		}
		q := queue.NewInMemory(256)
		w := notify.NewWorker(q, notify.NewDeliveryMailer(cfg.SMTP, mailLog), mailLog)
		go func() {
			n, err := w.Run(ctx)
			mailLog.Info().Err(err).Int("delivered", n).Msg("in-process mail worker stopped")
		}()
		return notify.NewQueueMailer(q)
	default:
		return notify.NewLogMailer(mailLog)
	}
}
