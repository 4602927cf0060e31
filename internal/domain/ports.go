package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidQuery = errors.New("invalid query")
)

// OfferSource produces offers of one advertiser for a set of hotels.
// Implementations are expected to be slow; callers must never pass an empty hotelIDs.
type OfferSource interface {
	GetOffersFromAdvertiser(ctx context.Context, adv Advertiser, hotelIDs []int, dr DateRange) (map[int]Offer, error)
}

// CatalogRepository persists the reference tables.
type CatalogRepository interface {
	// Write paths
	UpsertCity(ctx context.Context, c City) error
	UpsertHotel(ctx context.Context, h Hotel) error
	UpsertAdvertiser(ctx context.Context, a Advertiser) error
	LinkAdvertiserHotel(ctx context.Context, advertiserID, hotelID int) error

	// Read paths
	ListCities(ctx context.Context) ([]City, error)
	ListHotels(ctx context.Context) ([]Hotel, error)
	ListAdvertisers(ctx context.Context) ([]Advertiser, error)
	ListCoverage(ctx context.Context) ([]Coverage, error)
}

// Coverage is one advertiser→hotel association row.
type Coverage struct {
	AdvertiserID int
	HotelID      int
}

// Snapshot is the full content of the reference tables, as produced by a loader.
type Snapshot struct {
	Cities      []City
	Hotels      []Hotel
	Advertisers []Advertiser
	Coverage    []Coverage
}
