package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"schoolhub/internal/config"
	"schoolhub/internal/database"
	"schoolhub/internal/logger"
	"schoolhub/internal/server"
)

func main() {
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
	l := logger.WithComponent("main")

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		l.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() { _ = database.Close(db) }()

	app, err := server.New(db, server.Options{
		UploadDir:      cfg.UploadDir,
		AllowedOrigins: cfg.AllowedOrigins(),
		MetricsEnabled: cfg.MetricsEnabled,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("server setup failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l.Info().
		Str("env", cfg.AppEnv).
		Str("upload_dir", cfg.UploadDir).
		Strs("origins", cfg.AllowedOrigins()).
		Msg("starting schoolhub api")

	if err := app.Serve(ctx, cfg.Addr(), cfg.ShutdownTimeout); err != nil {
		l.Error().Err(err).Msg("server error")
		stop()
		_ = database.Close(db)
		os.Exit(1)
	}
}
