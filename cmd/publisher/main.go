package main

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_offers/internal/adapters/observability"
	redisad "hotel_offers/internal/adapters/redis"
	"hotel_offers/internal/shared"
)

// publisher writes advertiser offer batches (JSON, see redisad.Batch) into
// the Redis offer feed read by the API when OFFER_SOURCE=redis.
func main() {
	file := flag.String("file", "-", "batch file, - for stdin")
	ttl := flag.Duration("ttl", 24*time.Hour, "expiry of published offers, 0 keeps them")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	var in io.Reader = os.Stdin
	if *file != "-" {
		f, err := os.Open(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("open batch file failed")
		}
		defer f.Close()
		in = f
	}

	batches, err := redisad.DecodeBatches(in)
	if err != nil {
		log.Fatal().Err(err).Msg("read batches failed")
	}

	feed := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer feed.Close()

	offers := 0
	for _, b := range batches {
		if err := feed.Publish(ctx, b.AdvertiserID, b.Stay, b.Offers, *ttl); err != nil {
			log.Fatal().Err(err).Int("advertiser", b.AdvertiserID).Msg("publish failed")
		}
		offers += len(b.Offers)
	}
	log.Info().
		Int("batches", len(batches)).
		Int("offers", offers).
		Str("redis", cfg.RedisAddr).
		Msg("offers published")
}
