package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vkotelnikov/defect-tracking-api/internal/config"
	"github.com/vkotelnikov/defect-tracking-api/internal/database"
	"github.com/vkotelnikov/defect-tracking-api/internal/handlers"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	db := database.GetDB()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if err := database.EnsureDefaultManager(db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure default manager account")
	}

	router := handlers.SetupRouter(db, cfg)

	log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
