package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"

	"schoolhub/internal/config"
	"schoolhub/internal/database"
	"schoolhub/internal/domain/school"
	"schoolhub/internal/filestore"
	"schoolhub/internal/logger"
)

var schools = []school.CreateInput{
	{
		Name:        "Delhi Public School",
		Address:     "Plot 12, Nacharam",
		City:        "Hyderabad",
		State:       "Telangana",
		Contact:     "9876543210",
		Email:       "info@dpsnacharam.in",
		Description: "CBSE day school with science and robotics labs.",
	},
	{
		Name:    "Oakridge International School",
		Address: "Bachupally Road",
		City:    "Hyderabad",
		State:   "Telangana",
		Contact: "9123456780",
		Email:   "admissions@oakridge.in",
	},
	{
		Name:        "St. Xavier's High School",
		Address:     "5 Mahapalika Marg",
		City:        "Mumbai",
		State:       "Maharashtra",
		Email:       "office@xaviers.edu.in",
		Description: "Founded 1869. English medium, SSC board.",
	},
	{
		Name:    "Kendriya Vidyalaya No. 1",
		Address: "AFS Campus",
		City:    "Pune",
		State:   "Maharashtra",
		Contact: "9988776655",
		Email:   "kv1pune@kvs.gov.in",
	},
	{
		Name:  "Green Valley Public School",
		City:  "Jaipur",
		State: "Rajasthan",
		Email: "contact@greenvalley.school",
	},
}

func main() {
	reset := flag.Bool("reset", false, "delete every existing school (and its image) first")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatal().Err(err).Msg("load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := logger.Init(&logger.Config{Level: cfg.Log.Level, Format: "text"}); err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}
	l := logger.WithComponent("seed")

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		l.Fatal().Err(err).Msg("db connection failed")
	}
	defer func() { _ = database.Close(db) }()

	l.Info().Msg("running migrations")
	if err := school.Migrate(db); err != nil {
		l.Fatal().Err(err).Msg("migrate failed")
	}

	files, err := filestore.New(cfg.UploadDir)
	if err != nil {
		l.Fatal().Err(err).Msg("open upload dir failed")
	}
	svc := school.NewService(school.NewRepository(db), files)
	ctx := context.Background()

	if *reset {
		existing, err := svc.List(ctx)
		if err != nil {
			l.Fatal().Err(err).Msg("list schools failed")
		}
		l.Info().Int("count", len(existing)).Msg("cleaning old data")
		for _, s := range existing {
			if _, err := svc.Delete(ctx, s.ID); err != nil {
				l.Fatal().Err(err).Str("school_id", s.ID).Msg("delete failed")
			}
		}
	}

	l.Info().Msg("creating schools")
	for _, in := range schools {
		s, err := svc.Create(ctx, in, nil)
		if err != nil {
			l.Fatal().Err(err).Str("name", in.Name).Msg("create failed")
		}
		l.Info().Str("school_id", s.ID).Str("name", s.Name).Msg("school created")
	}
	l.Info().Int("count", len(schools)).Msg("seed completed")
}
