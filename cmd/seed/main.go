package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"segmentservice/internal/apperror"
	"segmentservice/internal/config"
	"segmentservice/internal/engine"
	"segmentservice/internal/model"
	"segmentservice/internal/repository"
	"segmentservice/internal/service"
)

var seedSegments = []model.CreateSegmentInput{
	{Slug: "MAIL_VOICE_MESSAGES", Name: "Voice messages in mail"},
	{Slug: "CLOUD_DISCOUNT_30", Name: "Cloud discount 30%"},
	{Slug: "MAIL_GPT", Name: "GPT in mail"},
}

func main() {
	users := flag.Int("users", 100, "number of users to register")
	percent := flag.Int("percent", 30, "auto-assign percent for seeded segments")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if cfg.Database.Driver != config.StorageDriverPostgres {
		log.Fatal("seed needs STORAGE_DRIVER=postgres")
	}
	ctx := context.Background()
	db, err := repository.ConnectToBase(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}
	if err := repository.RunMigrations(db); err != nil {
		log.Fatal("Failed to run database migrations: ", err)
	}
	store := repository.NewPgxStore(db)
	defer store.Close()

	if err := seed(ctx, store, *users, *percent); err != nil {
		log.Fatal(err)
	}
}

func seed(ctx context.Context, store repository.Store, users, percent int) error {
	userService := service.NewUserService(store, slog.Default())
	segmentService := service.NewSegmentService(store, engine.New(engine.NewRandomSampler(), slog.Default()), slog.Default())
	for i := 0; i < users; i++ {
		if _, err := userService.CreateUser(ctx); err != nil {
			return err
		}
	}
	for _, in := range seedSegments {
		in.AutoAssignPercent = &percent
		seg, err := segmentService.CreateSegment(ctx, in)
		if errors.Is(err, apperror.ErrSlugTaken) {
			slog.Default().Info("segment already seeded", "slug", in.Slug)
			continue
		}
		if err != nil {
			return err
		}
		details, err := segmentService.GetSegment(ctx, seg.Slug)
		if err != nil {
			return err
		}
		slog.Default().Info("segment seeded", "slug", seg.Slug, "members", details.MemberCount)
	}
	return nil
}
