package observability

import (
	"context"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel_offers", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotel_offers", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel_offers", Name: "external_requests_total", Help: "Outbound requests."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hotel_offers", Name: "external_request_duration_seconds",
			Help:    "Outbound request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	AdvertiserQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel_offers", Name: "advertiser_queries_total", Help: "Advertisers considered per search."},
		[]string{"outcome"}, // outcome: queried|pruned|failed
	)
	AdvertiserErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel_offers", Name: "advertiser_errors_total", Help: "Failed advertiser queries by error class."},
		[]string{"error"},
	)
	Searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "hotel_offers", Name: "searches_total", Help: "Searches by outcome."},
		[]string{"outcome"},
	)
	SearchLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hotel_offers", Name: "search_duration_seconds",
			Help:    "Search duration seconds, offer requests included.",
			Buckets: prometheus.DefBuckets,
		},
	)
	HotelsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "hotel_offers", Name: "search_hotels_returned",
			Help:    "Hotels with at least one offer per search.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

// Serve exposes the registry on its own listener when addr is set.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return // disabled
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ExternalRequests, ExternalLatency,
		AdvertiserQueries, AdvertiserErrors, Searches, SearchLatency, HotelsReturned)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveAdvertiserQuery(outcome string) { // outcome: queried|pruned|failed
	AdvertiserQueries.WithLabelValues(outcome).Inc()
}

func ObserveSearch(outcome string, hotels int, dur time.Duration) {
	Searches.WithLabelValues(outcome).Inc()
	SearchLatency.Observe(dur.Seconds())
	if outcome == "ok" {
		HotelsReturned.Observe(float64(hotels))
	}
}

// ObserveAdvertiserFailure counts a failed query under both the outcome and
// the error class.
func ObserveAdvertiserFailure(err error) {
	AdvertiserQueries.WithLabelValues("failed").Inc()
	AdvertiserErrors.WithLabelValues(LabelErr(err)).Inc()
}

// LabelErr reduces err to a low-cardinality label: the context reasons by
// name, anything else by the type of the innermost wrapped error.
func LabelErr(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	}
	for {
		inner := errors.Unwrap(err)
		if inner == nil {
			return fmt.Sprintf("%T", err)
		}
		err = inner
	}
}
