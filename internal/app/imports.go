package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_offers/internal/domain"
)

type ImportService struct {
	repo    domain.CatalogRepository
	workers int
}

func NewImportService(r domain.CatalogRepository, workers int) *ImportService {
	if workers < 1 {
		workers = 1
	}
	return &ImportService{repo: r, workers: workers}
}

// ImportStats counts rows written per table.
type ImportStats struct {
	Cities, Hotels, Advertisers, Links int
}

// Import writes snap into the repository. Parents go first (cities before
// hotels) to satisfy foreign keys; coverage links are written by a bounded
// pool since they dominate the row count.
func (s *ImportService) Import(ctx context.Context, snap domain.Snapshot) (ImportStats, error) {
	var st ImportStats

	for _, c := range snap.Cities {
		if err := s.repo.UpsertCity(ctx, c); err != nil {
			return st, fmt.Errorf("upsert city %d: %w", c.ID, err)
		}
		st.Cities++
	}
	known := make(map[int]struct{}, len(snap.Cities))
	for _, c := range snap.Cities {
		known[c.ID] = struct{}{}
	}
	for _, h := range snap.Hotels {
		if _, ok := known[h.CityID]; !ok {
			// would violate the FK; the hotel is unreachable by city search anyway
			log.Warn().Int("hotel", h.ID).Int("city", h.CityID).Msg("skipping hotel with unknown city")
			continue
		}
		if err := s.repo.UpsertHotel(ctx, h); err != nil {
			return st, fmt.Errorf("upsert hotel %d: %w", h.ID, err)
		}
		st.Hotels++
	}
	for _, a := range snap.Advertisers {
		if err := s.repo.UpsertAdvertiser(ctx, a); err != nil {
			return st, fmt.Errorf("upsert advertiser %d: %w", a.ID, err)
		}
		st.Advertisers++
	}

	links, err := s.link(ctx, snap.Coverage)
	st.Links = links
	return st, err
}

func (s *ImportService) link(ctx context.Context, cov []domain.Coverage) (int, error) {
	sem := semaphore.NewWeighted(int64(s.workers))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		written  int
	)

	for _, cv := range cov {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			break
		}
		mu.Lock()
		stop := firstErr != nil
		mu.Unlock()
		if stop {
			sem.Release(1)
			break
		}

		wg.Add(1)
		go func(cv domain.Coverage) {
			defer wg.Done()
			defer sem.Release(1)

			err := s.repo.LinkAdvertiserHotel(ctx, cv.AdvertiserID, cv.HotelID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("link advertiser %d hotel %d: %w", cv.AdvertiserID, cv.HotelID, err)
				}
				return
			}
			written++
		}(cv)
	}

	wg.Wait()
	return written, firstErr
}
