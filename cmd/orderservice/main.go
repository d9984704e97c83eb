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
	"github.com/sirupsen/logrus"

	"Order-Intake-Service/pkg/api"
	"Order-Intake-Service/pkg/coordinator"
	"Order-Intake-Service/pkg/order"
	"Order-Intake-Service/pkg/queue"
	"Order-Intake-Service/pkg/store"
)

var (
	natsURL    = getEnv("NATS_URL", "nats://localhost:4222")
	redisAddr  = getEnv("REDIS_ADDR", "localhost:6379")
	port       = getEnv("PORT", "8080")
	streamName = getEnv("ORDERS_STREAM", "ORDERS")
	subject    = getEnv("ORDERS_SUBJECT", "ORDERS.created")
	log        = logrus.WithFields(logrus.Fields{
		"service": "orderservice",
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

func main() {
	// Set log format to JSON for structured logging.
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	log.Info("Starting OrderService...")

	// Connect to the order store.
	orderStore := store.NewRedisStore(redisAddr)
	defer orderStore.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := orderStore.Ping(pingCtx); err != nil {
		log.WithError(err).Fatalf("Failed to connect to redis at %s", redisAddr)
	}
	log.Infof("Connected to redis at %s", redisAddr)

	// Connect to NATS and make sure the orders stream exists.
	nc, err := nats.Connect(natsURL)
	if err != nil {
		log.WithError(err).Fatalf("Failed to connect to NATS at %s", natsURL)
	}
	defer nc.Close()
	log.Infof("Connected to NATS server at %s", natsURL)

	js, err := nc.JetStream()
	if err != nil {
		log.WithError(err).Fatal("Failed to get JetStream context")
	}
	if err := queue.EnsureStream(js, streamName); err != nil {
		log.WithError(err).Fatalf("Failed to ensure stream %s", streamName)
	}

	publisher := queue.NewJetStreamPublisher(js, subject)
	coord := coordinator.New(orderStore, publisher, order.NewDefaultIDGenerator(), log)
	handler := api.NewHandler(coord, orderStore, log)

	httpSrv := &http.Server{
		Addr:    ":" + port,
		Handler: api.NewRouter(handler),
	}

	go func() {
		log.Infof("OrderService HTTP server starting on port %s", port)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("OrderService HTTP server ListenAndServe error")
		}
	}()

	// Shutdown handling.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("OrderService shutting down...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()

	if err := httpSrv.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Error("OrderService HTTP server shutdown error")
	}

	log.Info("Draining NATS connection...")
	if err := nc.Drain(); err != nil {
		log.WithError(err).Error("Error draining NATS connection")
	}

	log.Info("OrderService shut down.")
}
