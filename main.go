package main

import (
	"net/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"evwcloud/m/internal/api"
	"evwcloud/m/internal/config"
	"evwcloud/m/internal/database"
	"evwcloud/m/internal/insights"
	"evwcloud/m/internal/logger"
	"evwcloud/m/internal/migrations"
	"evwcloud/m/internal/pos"
	"evwcloud/m/internal/store"
)

func main() {
	_ = godotenv.Load()
	logger.Setup()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)

	st := store.New(db)
	engine := pos.NewEngine(st, cfg.LogSalesToAudit)
	gen := insights.New(cfg.OpenAIKey, cfg.InsightTimeout)
	handler := api.New(st, engine, gen, cfg)

	log.Info().Str("port", cfg.HTTPPort).Msg("EVW POS server starting")
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
