// Command image_cleanup removes stored images that no school references.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"schoolhub/internal/config"
	"schoolhub/internal/database"
	"schoolhub/internal/domain/school"
	"schoolhub/internal/filestore"
	"schoolhub/internal/logger"
)

func main() {
	minAge := flag.Duration("min-age", time.Hour, "only remove files older than this")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := logger.Init(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Rotation:   cfg.Log.Rotation,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}
	l := logger.WithComponent("image_cleanup")

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		l.Fatal().Err(err).Msg("db connect failed")
	}
	defer func() { _ = database.Close(db) }()

	if err := school.Migrate(db); err != nil {
		l.Fatal().Err(err).Msg("migrate failed")
	}
	files, err := filestore.New(cfg.UploadDir)
	if err != nil {
		l.Fatal().Err(err).Msg("open upload dir failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := school.NewService(school.NewRepository(db), files)
	removed, err := svc.SweepOrphanImages(ctx, *minAge)
	if err != nil {
		l.Error().Err(err).Int("removed", removed).Msg("image cleanup failed")
		stop()
		_ = database.Close(db)
		os.Exit(1)
	}
	l.Info().Int("removed", removed).Str("dir", files.Dir()).Dur("min_age", *minAge).Msg("image cleanup completed")
}
