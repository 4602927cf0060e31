// Package catalog holds the immutable reference tables a search runs against.
package catalog

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"hotel_offers/internal/domain"
)

// Catalog is read-only once built and safe for concurrent use.
type Catalog struct {
	cities      map[int]domain.City
	hotels      map[int]domain.Hotel
	advertisers map[int]domain.Advertiser

	// folded city names, see foldCity
	cityNames map[string]struct{}
	// folded city name -> sorted hotel ids
	hotelsByCity map[string][]int
	// advertiser id -> sorted hotel ids
	hotelsByAdvertiser map[int][]int
	coveringIDs        []int
}

// foldCity is the single key both city checks use. Two names fold to the
// same key exactly when strings.EqualFold reports them equal.
func foldCity(name string) string { return strings.Map(foldRune, strings.TrimSpace(name)) }

// foldRune picks the smallest rune of r's simple case-folding orbit.
func foldRune(r rune) rune {
	lo := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < lo {
			lo = f
		}
	}
	return lo
}

func (c *Catalog) CityName(id int) (string, bool) {
	ct, ok := c.cities[id]
	return ct.Name, ok
}

func (c *Catalog) Hotel(id int) (domain.Hotel, bool) {
	h, ok := c.hotels[id]
	return h, ok
}

func (c *Catalog) Advertiser(id int) (domain.Advertiser, bool) {
	a, ok := c.advertisers[id]
	return a, ok
}

// HasCity matches name against cataloged city names ignoring case.
func (c *Catalog) HasCity(name string) bool {
	_, ok := c.cityNames[foldCity(name)]
	return ok
}

// HotelsInCity returns the ids of hotels located in the named city, ascending.
// The lookup ignores case, same as HasCity.
func (c *Catalog) HotelsInCity(name string) []int {
	return slices.Clone(c.hotelsByCity[foldCity(name)])
}

// HotelsOfAdvertiser returns the ids an advertiser can quote for, ascending.
func (c *Catalog) HotelsOfAdvertiser(id int) []int {
	return slices.Clone(c.hotelsByAdvertiser[id])
}

// CoveringAdvertisers lists every advertiser id present in the coverage index, ascending.
func (c *Catalog) CoveringAdvertisers() []int { return slices.Clone(c.coveringIDs) }

func (c *Catalog) Cities() []domain.City {
	out := make([]domain.City, 0, len(c.cities))
	for _, ct := range c.cities {
		out = append(out, ct)
	}
	slices.SortFunc(out, func(a, b domain.City) int { return a.ID - b.ID })
	return out
}

// Stats reports table sizes, used for startup logging.
func (c *Catalog) Stats() (cities, hotels, advertisers int) {
	return len(c.cities), len(c.hotels), len(c.advertisers)
}

// Builder accumulates rows from a loader. It is not safe for concurrent use.
type Builder struct {
	cities      map[int]domain.City
	hotels      map[int]domain.Hotel
	advertisers map[int]domain.Advertiser
	coverage    map[int]map[int]struct{}
}

func NewBuilder() *Builder {
	return &Builder{
		cities:      map[int]domain.City{},
		hotels:      map[int]domain.Hotel{},
		advertisers: map[int]domain.Advertiser{},
		coverage:    map[int]map[int]struct{}{},
	}
}

func (b *Builder) AddCity(c domain.City) { b.cities[c.ID] = c }

func (b *Builder) AddAdvertiser(a domain.Advertiser) { b.advertisers[a.ID] = a }

// AddHotel requires the hotel's city to be added first.
func (b *Builder) AddHotel(h domain.Hotel) error {
	if _, ok := b.cities[h.CityID]; !ok {
		return fmt.Errorf("hotel %d: city %d: %w", h.ID, h.CityID, domain.ErrNotFound)
	}
	b.hotels[h.ID] = h
	return nil
}

// Cover records that advertiserID can produce offers for hotelID.
func (b *Builder) Cover(advertiserID, hotelID int) {
	set, ok := b.coverage[advertiserID]
	if !ok {
		set = map[int]struct{}{}
		b.coverage[advertiserID] = set
	}
	set[hotelID] = struct{}{}
}

// Build freezes the accumulated rows and derives both indices.
func (b *Builder) Build() *Catalog {
	c := &Catalog{
		cities:             make(map[int]domain.City, len(b.cities)),
		hotels:             make(map[int]domain.Hotel, len(b.hotels)),
		advertisers:        make(map[int]domain.Advertiser, len(b.advertisers)),
		cityNames:          make(map[string]struct{}, len(b.cities)),
		hotelsByCity:       map[string][]int{},
		hotelsByAdvertiser: make(map[int][]int, len(b.coverage)),
	}
	for id, ct := range b.cities {
		c.cities[id] = ct
		c.cityNames[foldCity(ct.Name)] = struct{}{}
	}
	for id, a := range b.advertisers {
		c.advertisers[id] = a
	}
	for id, h := range b.hotels {
		c.hotels[id] = h
		key := foldCity(b.cities[h.CityID].Name)
		c.hotelsByCity[key] = append(c.hotelsByCity[key], id)
	}
	for key := range c.hotelsByCity {
		slices.Sort(c.hotelsByCity[key])
	}
	for advID, set := range b.coverage {
		ids := make([]int, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		c.hotelsByAdvertiser[advID] = ids
		c.coveringIDs = append(c.coveringIDs, advID)
	}
	slices.Sort(c.coveringIDs)
	return c
}

// FromSnapshot builds a Catalog from loaded tables. Hotels referencing a city
// missing from the snapshot are skipped with a warning, the same policy the
// importer applies.
func FromSnapshot(s domain.Snapshot) *Catalog {
	b := NewBuilder()
	for _, c := range s.Cities {
		b.AddCity(c)
	}
	for _, a := range s.Advertisers {
		b.AddAdvertiser(a)
	}
	for _, h := range s.Hotels {
		if err := b.AddHotel(h); err != nil {
			log.Warn().Err(err).Int("hotel", h.ID).Int("city", h.CityID).Msg("skipping hotel with unknown city")
		}
	}
	for _, cv := range s.Coverage {
		b.Cover(cv.AdvertiserID, cv.HotelID)
	}
	return b.Build()
}
