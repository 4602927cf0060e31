package csvload_test

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_offers/internal/adapters/csvload"
	"hotel_offers/internal/domain"
)

func files(overrides map[string]string) fstest.MapFS {
	base := map[string]string{
		csvload.CitiesFile:      "ID,City_Name\n5, Munich\n6,Paris\n",
		csvload.HotelsFile:      "id,city_id,name,rating,stars\n89,5,hotel_a,80,4\n90,5, hotel_b ,71,3\n91,6,hotel_c,90,5\n",
		csvload.AdvertisersFile: "id,advertiser_name\n1,beach_expert\n2,travel_booking\n",
		csvload.CoverageFile:    "advertiser_id,hotel_id\n1,89\n1,90\n2,91\n",
	}
	for k, v := range overrides {
		base[k] = v
	}
	m := fstest.MapFS{}
	for k, v := range base {
		m[k] = &fstest.MapFile{Data: []byte(v)}
	}
	return m
}

func TestLoad(t *testing.T) {
	c, err := csvload.Load(files(nil))
	require.NoError(t, err)

	name, ok := c.CityName(5)
	require.True(t, ok)
	assert.Equal(t, "Munich", name)

	h, ok := c.Hotel(90)
	require.True(t, ok)
	assert.Equal(t, domain.Hotel{ID: 90, CityID: 5, Name: "hotel_b", Rating: 71, Stars: 3}, h)

	assert.Equal(t, []int{89, 90}, c.HotelsInCity("munich"))
	assert.Equal(t, []int{91}, c.HotelsOfAdvertiser(2))

	a, ok := c.Advertiser(1)
	require.True(t, ok)
	assert.Equal(t, "beach_expert", a.Name)
}

func TestRead_Errors(t *testing.T) {
	cases := map[string]struct {
		fsys    fstest.MapFS
		wantErr string
	}{
		"bad number":     {files(map[string]string{csvload.HotelsFile: "id,city_id,name,rating,stars\nx,5,a,1,1\n"}), `hotels.csv: line 2: column "id"`},
		"missing column": {files(map[string]string{csvload.CitiesFile: "id\n1\n"}), ""},
		"empty file":     {files(map[string]string{csvload.CoverageFile: ""}), "hotel_advertiser.csv: missing header row"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := csvload.Read(tc.fsys)
			if tc.wantErr == "" {
				// a missing name column is tolerated and yields an empty name
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	fsys := files(nil)
	delete(fsys, csvload.AdvertisersFile)

	_, err := csvload.Read(fsys)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_SkipsHotelInUnknownCity(t *testing.T) {
	c, err := csvload.Load(files(map[string]string{csvload.HotelsFile: "id,city_id,name,rating,stars\n1,77,a,1,1\n89,5,hotel_a,80,4\n"}))
	require.NoError(t, err)

	_, ok := c.Hotel(1)
	assert.False(t, ok)
	_, hotels, _ := c.Stats()
	assert.Equal(t, 1, hotels)
	assert.Equal(t, []int{89}, c.HotelsInCity("Munich"))
}
