package shared

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	CatalogSource string // csv|mysql
	CatalogDir    string
	MySQLDSN      string

	OfferSource   string // redis|http
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	AdvertiserURL string
	AdvertiserKey string
	AdvertiserRPS int

	SearchWorkers int
	ImportWorkers int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		LogLevel:      env("LOG_LEVEL", "info"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		CatalogSource: strings.ToLower(env("CATALOG_SOURCE", "csv")),
		CatalogDir:    env("CATALOG_DIR", "data"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotel_offers?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		OfferSource:   strings.ToLower(env("OFFER_SOURCE", "redis")),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		AdvertiserURL: env("ADVERTISER_BASE_URL", "http://localhost:9090/v1"),
		AdvertiserKey: env("ADVERTISER_API_KEY", ""),
		AdvertiserRPS: atoi("ADVERTISER_RPS", 20),
		SearchWorkers: atoi("SEARCH_WORKERS", 1),
		ImportWorkers: atoi("IMPORT_WORKERS", 8),
	}
	if c.OfferSource == "http" && c.AdvertiserKey == "" {
		log.Warn().Msg("ADVERTISER_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
