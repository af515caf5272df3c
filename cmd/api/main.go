package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"example.com/workoutmap/internal/api"
	"example.com/workoutmap/internal/auth"
	"example.com/workoutmap/internal/broadcast"
	"example.com/workoutmap/internal/config"
	"example.com/workoutmap/internal/domain"
	"example.com/workoutmap/internal/geo"
	"example.com/workoutmap/internal/logger"
	"example.com/workoutmap/internal/persistence"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("workoutmap api stopped", zap.Error(err))
		logger.Flush(log)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	blobs, closeBlobs, err := persistence.OpenBlobStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBlobs()

	board := view.NewBoard()
	sinks := view.Fanout{board}
	if len(cfg.KafkaBrokers) > 0 {
		producer := broadcast.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()
		publisher := broadcast.NewPublisher(producer, cfg.ViewTopic, broadcast.WithLogger(log.Named("broadcast")))
		published := make(chan error, 1)
		// drain what was already sequenced even after shutdown begins
		go func() { published <- publisher.Run(context.WithoutCancel(ctx)) }()
		defer func() {
			publisher.Close()
			<-published
		}()
		sinks = append(sinks, publisher)
		log.Info("broadcasting view instructions",
			zap.String("topic", cfg.ViewTopic),
			zap.String("stream", publisher.Stream()),
		)
	}

	views := view.NewSynchronizer(sinks,
		view.WithZoom(cfg.MapZoom),
		view.WithLogger(log.Named("view")),
	)
	service := domain.NewService(persistence.NewGateway(blobs, cfg.StorageKey), views,
		domain.WithLogger(log.Named("service")),
	)
	if err := service.Restore(ctx); err != nil {
		// unreadable history starts the session empty
		log.Warn("starting with an empty workout list", zap.Error(err))
	}

	var locator domain.Locator = geo.StaticProvider{
		At: domain.Coordinates{Latitude: cfg.HomeLatitude, Longitude: cfg.HomeLongitude},
	}
	if cfg.GeolocationURL != "" {
		locator = geo.NewHTTPProvider(cfg.GeolocationURL, cfg.HTTPTimeout)
	}
	if _, err := service.Locate(ctx, locator); err != nil {
		log.Warn("could not centre the map", zap.Error(err))
	}

	handler := api.NewHandler(service, board, locator, log)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	metricsSrv := httptransport.NewMetricsServer(cfg.MetricsAddress)
	go func() {
		if err := httptransport.Serve(ctx, metricsSrv, time.Second, log.Named("metrics")); err != nil {
			log.Error("metrics server stopped", zap.Error(err))
		}
	}()

	authMiddleware := auth.NewMiddleware(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer})
	authMiddleware.Disabled = cfg.AuthDisabled
	if cfg.AuthDisabled {
		log.Warn("authentication disabled")
	}

	srvCfg := httptransport.DefaultServerConfig(cfg.HTTPAddress)
	server := httptransport.NewServer(srvCfg,
		authMiddleware.Wrap(api.RequestLogger(log)(httptransport.CORS("http://localhost:5173")(mux))),
	)
	return httptransport.Serve(ctx, server, srvCfg.ShutdownTimeout, log)
}
