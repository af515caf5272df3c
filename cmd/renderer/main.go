package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"example.com/workoutmap/internal/auth"
	"example.com/workoutmap/internal/config"
	"example.com/workoutmap/internal/consumer"
	"example.com/workoutmap/internal/logger"
	httptransport "example.com/workoutmap/internal/transport/http"
	"example.com/workoutmap/internal/view"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Flush(log)

	if len(cfg.KafkaBrokers) == 0 {
		log.Error("KAFKA_BROKERS is required")
		logger.Flush(log)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	board := view.NewBoard()
	handler := consumer.NewProjectionHandler(board, log.Named("projection"))

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:         cfg.KafkaBrokers,
		GroupID:         cfg.ConsumerGroupID,
		Topic:           cfg.ViewTopic,
		MinBytes:        1,
		MaxBytes:        10e6,
		CommitInterval:  time.Second,
		RetentionTime:   24 * time.Hour,
		ReadLagInterval: -1,
	})
	proc := consumer.NewProcessor(reader, handler, consumer.WithLogger(log.Named("consumer")))

	metricsSrv := httptransport.NewMetricsServer(cfg.MetricsAddress)
	go func() {
		if err := httptransport.Serve(ctx, metricsSrv, time.Second, log.Named("metrics")); err != nil {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer reader.Close()

		log.Info("renderer consuming", zap.String("topic", cfg.ViewTopic), zap.String("group", cfg.ConsumerGroupID))
		if err := proc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("consumer stopped", zap.Error(err))
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/view", func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.FromContext(r.Context())
		if !ok || !claims.CanRead() {
			http.Error(w, "scope workouts:read required", http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(board.Snapshot())
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	authMiddleware.Disabled = cfg.AuthDisabled

	srvCfg := httptransport.DefaultServerConfig(cfg.HTTPAddress)
	server := httptransport.NewServer(srvCfg, authMiddleware.Wrap(mux))
	if err := httptransport.Serve(ctx, server, srvCfg.ShutdownTimeout, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}

	stop()
	wg.Wait()
}
