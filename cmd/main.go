package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "segmentservice/docs"
	"segmentservice/internal/config"
	"segmentservice/internal/engine"
	"segmentservice/internal/repository"
	"segmentservice/internal/service"
	"segmentservice/internal/transport/https"
)

// @title User segmentation service
// @version 1.0
// @host localhost:8080
// @BasePath /
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Storage initialization failed: ", err)
	}
	eng := engine.New(engine.NewRandomSampler(), slog.Default())
	segmentService := service.NewSegmentService(store, eng, slog.Default())
	userService := service.NewUserService(store, slog.Default())
	httpHandlers := https.NewHTTPHandlers(segmentService, userService)
	srv := https.NewHTTPServer(httpHandlers, cfg.App.Port)

	if err := https.StartServer(ctx, srv, store, time.Duration(cfg.App.ShutdownTimeout)*time.Second); err != nil {
		log.Fatal(err)
	}
}

func openStore(ctx context.Context, cfg config.Database) (repository.Store, error) {
	if cfg.Driver == config.StorageDriverMemory {
		slog.Default().Warn("using in-memory storage, data is lost on exit")
		return repository.NewMemoryStore(), nil
	}
	db, err := repository.ConnectToBase(ctx, cfg.URL, cfg.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := repository.RunMigrations(db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return repository.NewPgxStore(db), nil
}
