package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/medibook/booking-api/internal/repository/postgres"
	"github.com/medibook/booking-api/pkg/logger"
	"github.com/medibook/booking-api/pkg/messaging/redis"
	"github.com/medibook/booking-api/pkg/metrics"
	"github.com/medibook/booking-api/pkg/worker"
)

// Spec is the worker's environment configuration. The worker deploys
// separately from the API, so it reads the environment directly instead of
// sharing the API's config file.
type Spec struct {
	DatabaseURL   string        `envconfig:"DATABASE_URL" required:"true"`
	RedisURL      string        `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	BatchSize     int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	PollInterval  time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	RetryAttempts int           `envconfig:"OUTBOX_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"OUTBOX_RETRY_DELAY" default:"1s"`
	HealthPort    int           `envconfig:"HEALTH_PORT" default:"8081"`
}

func setupHealthCheck(port int, lg *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			lg.Fatal(err, "Health check server failed")
		}
	}()
}

func main() {
	var spec Spec
	if err := envconfig.Process("", &spec); err != nil {
		log.Fatal().Err(err).Msg("Failed to load worker environment")
	}

	lg := logger.NewLogger(nil)

	db, err := sqlx.Connect("postgres", spec.DatabaseURL)
	if err != nil {
		lg.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          spec.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &log.Logger)
	if err != nil {
		lg.Fatal(err, "Failed to create Redis broker")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     spec.BatchSize,
			PollInterval:  spec.PollInterval,
			RetryAttempts: spec.RetryAttempts,
			RetryDelay:    spec.RetryDelay,
		},
		lg,
		metrics.NewMetrics("medibook", "worker"),
	)

	setupHealthCheck(spec.HealthPort, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		lg.Info("Shutting down...")
		cancel()
	}()

	processor.Start(ctx)
}
