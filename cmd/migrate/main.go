package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
)

func main() {
	status := flag.Bool("status", false, "Report which tables exist without migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if *status {
		missing := 0
		for _, model := range database.Models() {
			exists := db.Migrator().HasTable(model)
			if !exists {
				missing++
			}
			fmt.Printf("%-40T %v\n", model, exists)
		}
		if missing > 0 {
			os.Exit(1)
		}
		return
	}

	if err := database.RunMigrations(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to apply migrations")
	}
	logging.Info().Str("driver", cfg.DBDriver).Msg("all migrations applied")
}
