package app

import (
	"context"
	"fmt"

	"hotel_offers/internal/catalog"
	"hotel_offers/internal/domain"
)

// LoadCatalog reads every reference table from repo and builds the in-memory catalog.
func LoadCatalog(ctx context.Context, repo domain.CatalogRepository) (*catalog.Catalog, error) {
	var (
		snap domain.Snapshot
		err  error
	)
	if snap.Cities, err = repo.ListCities(ctx); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	if snap.Hotels, err = repo.ListHotels(ctx); err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	if snap.Advertisers, err = repo.ListAdvertisers(ctx); err != nil {
		return nil, fmt.Errorf("list advertisers: %w", err)
	}
	if snap.Coverage, err = repo.ListCoverage(ctx); err != nil {
		return nil, fmt.Errorf("list coverage: %w", err)
	}
	return catalog.FromSnapshot(snap), nil
}
