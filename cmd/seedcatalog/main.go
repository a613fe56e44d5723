// cmd/seedcatalog loads the starter wine catalog into Postgres.
// Usage: go run ./cmd/seedcatalog
package main

import (
	"context"
	"os"
	"time"

	"foboh/internal/config"
	"foboh/internal/infra"
	"foboh/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	products := repository.SeedProducts()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.NewProductRepository(db).Upsert(ctx, products); err != nil {
		log.Fatal().Err(err).Msg("failed to seed catalog")
	}
	log.Info().Int("products", len(products)).Msg("catalog seeded")
}
