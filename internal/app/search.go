package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_offers/internal/adapters/observability"
	"hotel_offers/internal/catalog"
	"hotel_offers/internal/domain"
)

type SearchService struct {
	catalog *catalog.Catalog
	workers int
}

// NewSearchService returns a search engine over c. workers <= 1 queries
// advertisers one after another; larger values bound the number of
// in-flight offer requests.
func NewSearchService(c *catalog.Catalog, workers int) *SearchService {
	if workers < 1 {
		workers = 1
	}
	return &SearchService{catalog: c, workers: workers}
}

// advertiserQuery is one planned call to the offer source.
type advertiserQuery struct {
	adv      domain.Advertiser
	hotelIDs []int
}

// Search returns every hotel in cityName that received at least one offer
// for dr. Unknown cities, cities without hotels and invalid ranges yield an
// empty result and no offer requests. Errors from src are returned as-is
// (wrapped with the advertiser id) and no partial result is produced.
func (s *SearchService) Search(ctx context.Context, cityName string, dr domain.DateRange, src domain.OfferSource) ([]domain.HotelWithOffers, error) {
	start := time.Now()
	out := []domain.HotelWithOffers{}

	if !s.catalog.HasCity(cityName) {
		log.Info().Str("city", cityName).Msg("search: unknown city")
		observability.ObserveSearch("unknown_city", 0, time.Since(start))
		return out, nil
	}
	candidates := s.catalog.HotelsInCity(cityName)
	if len(candidates) == 0 {
		log.Info().Str("city", cityName).Msg("search: no hotels in city")
		observability.ObserveSearch("no_hotels", 0, time.Since(start))
		return out, nil
	}
	if !dr.Valid() {
		log.Info().Time("start", dr.Start).Time("end", dr.End).Msg("search: start must be before end")
		observability.ObserveSearch("invalid_dates", 0, time.Since(start))
		return out, nil
	}

	plan := s.plan(candidates)
	log.Debug().Str("city", cityName).Int("hotels", len(candidates)).Int("advertisers", len(plan)).Msg("search: querying advertisers")

	results, err := s.fetch(ctx, plan, dr, src)
	if err != nil {
		observability.ObserveSearch("error", 0, time.Since(start))
		return nil, err
	}

	out, err = s.aggregate(results)
	if err != nil {
		observability.ObserveSearch("error", 0, time.Since(start))
		return nil, err
	}
	log.Debug().Str("city", cityName).Int("hotels_with_offers", len(out)).Msg("search: done")
	observability.ObserveSearch("ok", len(out), time.Since(start))
	return out, nil
}

// plan intersects every advertiser's coverage with the city's hotels and
// keeps only advertisers with a non-empty intersection, in ascending id order.
func (s *SearchService) plan(candidates []int) []advertiserQuery {
	inCity := make(map[int]struct{}, len(candidates))
	for _, id := range candidates {
		inCity[id] = struct{}{}
	}

	var plan []advertiserQuery
	for _, advID := range s.catalog.CoveringAdvertisers() {
		var hits []int
		for _, hid := range s.catalog.HotelsOfAdvertiser(advID) {
			if _, ok := inCity[hid]; ok {
				hits = append(hits, hid)
			}
		}
		if len(hits) == 0 {
			observability.ObserveAdvertiserQuery("pruned")
			continue
		}
		adv, ok := s.catalog.Advertiser(advID)
		if !ok {
			adv = domain.Advertiser{ID: advID}
		}
		plan = append(plan, advertiserQuery{adv: adv, hotelIDs: hits})
	}
	return plan
}

// fetch runs the planned queries. results[i] belongs to plan[i] whatever
// order the calls complete in.
func (s *SearchService) fetch(ctx context.Context, plan []advertiserQuery, dr domain.DateRange, src domain.OfferSource) ([]map[int]domain.Offer, error) {
	results := make([]map[int]domain.Offer, len(plan))

	if s.workers == 1 {
		for i, q := range plan {
			offers, err := s.query(ctx, q, dr, src)
			if err != nil {
				return nil, err
			}
			results[i] = offers
		}
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, q := range plan {
		i, q := i, q
		g.Go(func() error {
			offers, err := s.query(gctx, q, dr, src)
			if err != nil {
				return err
			}
			results[i] = offers
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *SearchService) query(ctx context.Context, q advertiserQuery, dr domain.DateRange, src domain.OfferSource) (map[int]domain.Offer, error) {
	offers, err := src.GetOffersFromAdvertiser(ctx, q.adv, q.hotelIDs, dr)
	if err != nil {
		observability.ObserveAdvertiserFailure(err)
		return nil, fmt.Errorf("advertiser %d: %w", q.adv.ID, err)
	}
	observability.ObserveAdvertiserQuery("queried")
	log.Debug().Int("advertiser", q.adv.ID).Int("requested", len(q.hotelIDs)).Int("offered", len(offers)).Msg("search: advertiser answered")
	return offers, nil
}

// aggregate groups offers by hotel. Offers of one hotel keep the advertiser
// processing order; hotels are returned by ascending id.
func (s *SearchService) aggregate(results []map[int]domain.Offer) ([]domain.HotelWithOffers, error) {
	byHotel := map[int][]domain.Offer{}
	for _, offers := range results {
		for hid, o := range offers {
			byHotel[hid] = append(byHotel[hid], o)
		}
	}

	ids := make([]int, 0, len(byHotel))
	for hid := range byHotel {
		ids = append(ids, hid)
	}
	slices.Sort(ids)

	out := make([]domain.HotelWithOffers, 0, len(ids))
	for _, hid := range ids {
		h, ok := s.catalog.Hotel(hid)
		if !ok {
			return nil, fmt.Errorf("offer for hotel %d: %w", hid, domain.ErrNotFound)
		}
		out = append(out, domain.HotelWithOffers{Hotel: h, Offers: byHotel[hid]})
	}
	return out, nil
}
