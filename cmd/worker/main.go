// Command worker delivers mail jobs queued by the API when MAIL_BACKEND=queue.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ehsas/internal/config"
	"ehsas/internal/logger"
	"ehsas/internal/notify"
	"ehsas/internal/queue"
	"ehsas/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.LogLevel, cfg.Env)

	if cfg.QueueBackend != "redis" {
		log.Fatal().Str("queue_backend", cfg.QueueBackend).Msg("worker needs QUEUE_BACKEND=redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.Warn().Str("addr", cfg.RedisAddr).Msg("redis not reachable yet, consumer will retry")
	}

	q := queue.NewRedisQueue(redisClient.Client, queue.DefaultKey).WithLogger(logger.Component(log, "queue"))
	mailer := notify.NewDeliveryMailer(cfg.SMTP, logger.Component(log, "mail"))

	log.Info().Str("queue", queue.DefaultKey).Msg("worker started, waiting for mail jobs")
	n, err := notify.NewWorker(q, mailer, logger.Component(log, "worker")).Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("queue consume failed")
	}
	log.Info().Int("delivered", n).Msg("worker stopped")
}
