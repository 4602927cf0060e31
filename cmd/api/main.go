package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_offers/internal/adapters/advertiser"
	"hotel_offers/internal/adapters/csvload"
	server "hotel_offers/internal/adapters/http_server"
	"hotel_offers/internal/adapters/observability"
	redisad "hotel_offers/internal/adapters/redis"
	"hotel_offers/internal/app"
	"hotel_offers/internal/catalog"
	"hotel_offers/internal/domain"
	"hotel_offers/internal/shared"
	mysqlrepo "hotel_offers/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.CatalogSource).Msg("catalog load failed")
	}
	cities, hotels, advertisers := cat.Stats()
	log.Info().Int("cities", cities).Int("hotels", hotels).Int("advertisers", advertisers).Msg("catalog loaded")

	offers, err := offerSource(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.OfferSource).Msg("offer source init failed")
	}

	// http
	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	srv := server.New(15 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Search:  app.NewSearchService(cat, cfg.SearchWorkers),
		Catalog: cat,
		Offers:  offers,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("offers", cfg.OfferSource).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("server stopped")
}

func loadCatalog(ctx context.Context, cfg shared.Config) (*catalog.Catalog, error) {
	if cfg.CatalogSource != "mysql" {
		return csvload.Load(os.DirFS(cfg.CatalogDir))
	}
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, err
	}
	// the catalog is read once; the pool is not needed afterwards
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return app.LoadCatalog(ctx, mysqlrepo.New(db))
}

func offerSource(cfg shared.Config) (domain.OfferSource, error) {
	if cfg.OfferSource == "http" {
		return advertiser.New(cfg.AdvertiserURL, cfg.AdvertiserKey, cfg.AdvertiserRPS)
	}
	return redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB), nil
}
