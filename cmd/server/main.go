package main

import (
	"os"

	"ankachat/internal/api"
	"ankachat/internal/config"
	"ankachat/internal/hub"
	"ankachat/internal/message"
	"ankachat/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	if cfg.Secret == "" {
		log.Fatal().Msg("APP_SECRET must be set")
	}

	db, err := storage.Connect(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	h := hub.New(message.NewService(db))

	r := gin.Default()
	router := api.NewRouter(db, h)
	router.RegisterRoutes(r)

	log.Info().Str("addr", cfg.Addr).Msg("ankachat server started")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
