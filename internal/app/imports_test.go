package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hotel_offers/internal/app"
	"hotel_offers/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu          sync.Mutex
	cities      []domain.City
	hotels      []domain.Hotel
	advertisers []domain.Advertiser
	links       []domain.Coverage

	linkErr error
	listErr error
}

func (f *fakeRepo) UpsertCity(ctx context.Context, c domain.City) error {
	f.cities = append(f.cities, c)
	return nil
}
func (f *fakeRepo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	f.hotels = append(f.hotels, h)
	return nil
}
func (f *fakeRepo) UpsertAdvertiser(ctx context.Context, a domain.Advertiser) error {
	f.advertisers = append(f.advertisers, a)
	return nil
}
func (f *fakeRepo) LinkAdvertiserHotel(ctx context.Context, advertiserID, hotelID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return f.linkErr
	}
	f.links = append(f.links, domain.Coverage{AdvertiserID: advertiserID, HotelID: hotelID})
	return nil
}
func (f *fakeRepo) ListCities(ctx context.Context) ([]domain.City, error) {
	return f.cities, f.listErr
}
func (f *fakeRepo) ListHotels(ctx context.Context) ([]domain.Hotel, error) { return f.hotels, nil }
func (f *fakeRepo) ListAdvertisers(ctx context.Context) ([]domain.Advertiser, error) {
	return f.advertisers, nil
}
func (f *fakeRepo) ListCoverage(ctx context.Context) ([]domain.Coverage, error) {
	return f.links, nil
}

func snapshot() domain.Snapshot {
	s := domain.Snapshot{
		Cities:      []domain.City{{ID: 5, Name: "Munich"}},
		Hotels:      []domain.Hotel{{ID: 89, CityID: 5}, {ID: 90, CityID: 5}, {ID: 7, CityID: 404}},
		Advertisers: []domain.Advertiser{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}},
	}
	for h := 89; h <= 90; h++ {
		for a := 1; a <= 2; a++ {
			s.Coverage = append(s.Coverage, domain.Coverage{AdvertiserID: a, HotelID: h})
		}
	}
	return s
}

// ---- tests ----

func TestImport_ThenLoadCatalog(t *testing.T) {
	repo := &fakeRepo{}
	st, err := app.NewImportService(repo, 3).Import(context.Background(), snapshot())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if st.Cities != 1 || st.Hotels != 2 || st.Advertisers != 2 || st.Links != 4 {
		t.Fatalf("unexpected stats: %+v", st)
	}

	c, err := app.LoadCatalog(context.Background(), repo)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if got := c.HotelsInCity("Munich"); len(got) != 2 {
		t.Fatalf("unexpected hotels: %v", got)
	}
	if got := c.HotelsOfAdvertiser(2); len(got) != 2 || got[0] != 89 {
		t.Fatalf("unexpected coverage: %v", got)
	}
	if _, ok := c.Hotel(7); ok {
		t.Fatalf("hotel with unknown city should have been skipped")
	}
}

func TestImport_LinkError(t *testing.T) {
	boom := errors.New("deadlock")
	repo := &fakeRepo{linkErr: boom}

	st, err := app.NewImportService(repo, 2).Import(context.Background(), snapshot())
	if !errors.Is(err, boom) {
		t.Fatalf("expected link error, got %v", err)
	}
	if st.Links != 0 {
		t.Fatalf("no link should have been written, got %d", st.Links)
	}
}

func TestLoadCatalog_ListError(t *testing.T) {
	boom := errors.New("gone")
	_, err := app.LoadCatalog(context.Background(), &fakeRepo{listErr: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
}
