package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"Order-Intake-Service/pkg/queue"
	"Order-Intake-Service/pkg/reconciler"
	"Order-Intake-Service/pkg/store"
)

var (
	natsURL       = getEnv("NATS_URL", "nats://localhost:4222")
	redisAddr     = getEnv("REDIS_ADDR", "localhost:6379")
	metricsPort   = getEnv("METRICS_PORT", "2112")
	streamName    = getEnv("ORDERS_STREAM", "ORDERS")
	subject       = getEnv("ORDERS_SUBJECT", "ORDERS.created")
	sweepInterval = getEnvDuration("SWEEP_INTERVAL", 30*time.Second)
	log           = logrus.WithFields(logrus.Fields{
		"service": "reconcilerworker",
		"version": "1.0.0",
	})
)

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration parses an environment variable as a time.Duration (e.g., "30s").
// Returns defaultValue if the variable is not set or parsing fails.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Warnf("Invalid duration value for %s: %s. Using default: %v", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

func main() {
	// Set log format to JSON
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	log.Info("Starting ReconcilerWorker...")

	orderStore := store.NewRedisStore(redisAddr)
	defer orderStore.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := orderStore.Ping(pingCtx); err != nil {
		log.WithError(err).Fatalf("Failed to connect to redis at %s", redisAddr)
	}
	log.Infof("Connected to redis at %s", redisAddr)

	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to NATS")
	}
	defer nc.Close()
	log.WithField("nats_url", natsURL).Info("Connected to NATS server")

	js, err := nc.JetStream()
	if err != nil {
		log.WithError(err).Fatal("Failed to get JetStream context")
	}
	if err := queue.EnsureStream(js, streamName); err != nil {
		log.WithError(err).Fatalf("Failed to ensure stream %s", streamName)
	}

	sweeper := reconciler.NewSweeper(orderStore, queue.NewJetStreamPublisher(js, subject), log)

	// Start HTTP server for metrics
	metricsRouter := http.NewServeMux()
	metricsRouter.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:    ":" + metricsPort,
		Handler: metricsRouter,
	}

	go func() {
		log.WithField("port", metricsPort).Info("Starting metrics server")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server ListenAndServe error")
			// Do not kill the worker if the metrics server fails to start
		}
	}()

	sweepCtx, cancelSweeps := context.WithCancel(context.Background())
	defer cancelSweeps()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Infof("ReconcilerWorker sweeping every %v", sweepInterval)

loop:
	for {
		select {
		case <-ticker.C:
			repaired, remaining, err := sweeper.Sweep(sweepCtx)
			if err != nil {
				log.WithError(err).Error("Reconciliation sweep failed")
				continue
			}
			if repaired > 0 || remaining > 0 {
				log.WithFields(logrus.Fields{
					"repaired":  repaired,
					"remaining": remaining,
				}).Info("Reconciliation sweep finished")
			}
		case <-quit:
			log.Info("Shutting down...")
			break loop
		}
	}

	cancelSweeps()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := metricsSrv.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("Metrics server shutdown error")
	}

	log.Info("Draining NATS connection...")
	if err := nc.Drain(); err != nil {
		log.WithError(err).Error("Error draining NATS connection")
	}

	log.Info("ReconcilerWorker shut down")
}
