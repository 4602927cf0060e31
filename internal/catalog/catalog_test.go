package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_offers/internal/catalog"
	"hotel_offers/internal/domain"
)

func munich(t *testing.T) *catalog.Catalog {
	t.Helper()
	b := catalog.NewBuilder()
	b.AddCity(domain.City{ID: 5, Name: "Munich"})
	b.AddCity(domain.City{ID: 6, Name: "Paris"})
	for _, id := range []int{91, 89, 90} {
		require.NoError(t, b.AddHotel(domain.Hotel{ID: id, CityID: 5, Name: "h"}))
	}
	b.AddAdvertiser(domain.Advertiser{ID: 1, Name: "A"})
	b.Cover(1, 90)
	b.Cover(1, 89)
	b.Cover(1, 89)
	b.Cover(3, 500)
	return b.Build()
}

func TestCatalog_Lookups(t *testing.T) {
	c := munich(t)

	name, ok := c.CityName(5)
	assert.True(t, ok)
	assert.Equal(t, "Munich", name)

	_, ok = c.CityName(42)
	assert.False(t, ok)

	_, ok = c.Hotel(999)
	assert.False(t, ok)

	a, ok := c.Advertiser(1)
	require.True(t, ok)
	assert.Equal(t, "A", a.Name)

	assert.Equal(t, []int{89, 90, 91}, c.HotelsInCity("Munich"))
	assert.Equal(t, []int{89, 90}, c.HotelsOfAdvertiser(1))
	assert.Empty(t, c.HotelsOfAdvertiser(77))
	assert.Empty(t, c.HotelsInCity("Paris"))
	assert.Equal(t, []int{1, 3}, c.CoveringAdvertisers())

	cities, hotels, advertisers := c.Stats()
	assert.Equal(t, [3]int{2, 3, 1}, [3]int{cities, hotels, advertisers})
}

func TestCatalog_CityMatchingIgnoresCase(t *testing.T) {
	c := munich(t)

	assert.True(t, c.HasCity("mUNICH"))
	assert.False(t, c.HasCity("Berlin"))
	assert.Equal(t, []int{89, 90, 91}, c.HotelsInCity("MUNICH"))
}

func TestCatalog_ReturnedSlicesAreCopies(t *testing.T) {
	c := munich(t)

	ids := c.HotelsInCity("Munich")
	ids[0] = -1
	assert.Equal(t, 89, c.HotelsInCity("Munich")[0])
}

func TestBuilder_HotelWithUnknownCity(t *testing.T) {
	b := catalog.NewBuilder()
	err := b.AddHotel(domain.Hotel{ID: 1, CityID: 9})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCatalog_CityFoldingAgreesAcrossLookups(t *testing.T) {
	b := catalog.NewBuilder()
	b.AddCity(domain.City{ID: 1, Name: "ΝΑΞΟΣ"})
	b.AddCity(domain.City{ID: 2, Name: " Köln "})
	require.NoError(t, b.AddHotel(domain.Hotel{ID: 10, CityID: 1}))
	require.NoError(t, b.AddHotel(domain.Hotel{ID: 20, CityID: 2}))
	c := b.Build()

	for name, want := range map[string][]int{
		"ναξος": {10}, // final sigma
		"ναξοσ": {10},
		"Naxos": nil,
		"KÖLN":  {20},
		"köln ": {20},
	} {
		if want == nil {
			assert.False(t, c.HasCity(name), name)
			assert.Empty(t, c.HotelsInCity(name), name)
			continue
		}
		assert.True(t, c.HasCity(name), name)
		assert.Equal(t, want, c.HotelsInCity(name), name)
	}
}

func TestFromSnapshot_SkipsHotelWithUnknownCity(t *testing.T) {
	c := catalog.FromSnapshot(domain.Snapshot{
		Cities: []domain.City{{ID: 5, Name: "Munich"}},
		Hotels: []domain.Hotel{{ID: 89, CityID: 5}, {ID: 7, CityID: 404}},
	})

	_, ok := c.Hotel(7)
	assert.False(t, ok)
	assert.Equal(t, []int{89}, c.HotelsInCity("Munich"))
}
