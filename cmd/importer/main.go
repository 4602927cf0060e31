package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_offers/internal/adapters/csvload"
	"hotel_offers/internal/adapters/observability"
	"hotel_offers/internal/app"
	"hotel_offers/internal/shared"
	mysqlrepo "hotel_offers/internal/storage/mysql"
)

// importer copies the CSV catalog in CATALOG_DIR into MySQL.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("dir", cfg.CatalogDir).
		Int("workers", cfg.ImportWorkers).
		Msg("importer starting")

	snap, err := csvload.Read(os.DirFS(cfg.CatalogDir))
	if err != nil {
		log.Fatal().Err(err).Msg("read csv failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	st, err := app.NewImportService(mysqlrepo.New(db), cfg.ImportWorkers).Import(ctx, snap)
	if err != nil {
		log.Fatal().Err(err).Interface("written", st).Msg("import failed")
	}
	log.Info().
		Int("cities", st.Cities).
		Int("hotels", st.Hotels).
		Int("advertisers", st.Advertisers).
		Int("links", st.Links).
		Msg("import completed")
}
