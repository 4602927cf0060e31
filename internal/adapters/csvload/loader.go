// Package csvload reads the reference tables from a directory of CSV files:
// cities.csv, hotels.csv, advertisers.csv and hotel_advertiser.csv, each
// with a header row.
package csvload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"hotel_offers/internal/catalog"
	"hotel_offers/internal/domain"
)

const (
	CitiesFile      = "cities.csv"
	HotelsFile      = "hotels.csv"
	AdvertisersFile = "advertisers.csv"
	CoverageFile    = "hotel_advertiser.csv"
)

// Load reads all four files from fsys and builds a Catalog.
func Load(fsys fs.FS) (*catalog.Catalog, error) {
	snap, err := Read(fsys)
	if err != nil {
		return nil, err
	}
	return catalog.FromSnapshot(snap), nil
}

// Read parses the four files without cross-checking them.
func Read(fsys fs.FS) (domain.Snapshot, error) {
	var t domain.Snapshot
	err := readFile(fsys, CitiesFile, func(r row) error {
		id, err := r.num("id")
		if err != nil {
			return err
		}
		t.Cities = append(t.Cities, domain.City{ID: id, Name: r.str("city_name")})
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}

	err = readFile(fsys, HotelsFile, func(r row) error {
		var h domain.Hotel
		var err error
		if h.ID, err = r.num("id"); err != nil {
			return err
		}
		if h.CityID, err = r.num("city_id"); err != nil {
			return err
		}
		if h.Rating, err = r.num("rating"); err != nil {
			return err
		}
		if h.Stars, err = r.num("stars"); err != nil {
			return err
		}
		h.Name = r.str("name")
		t.Hotels = append(t.Hotels, h)
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}

	err = readFile(fsys, AdvertisersFile, func(r row) error {
		id, err := r.num("id")
		if err != nil {
			return err
		}
		t.Advertisers = append(t.Advertisers, domain.Advertiser{ID: id, Name: r.str("advertiser_name")})
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}

	err = readFile(fsys, CoverageFile, func(r row) error {
		adv, err := r.num("advertiser_id")
		if err != nil {
			return err
		}
		hotel, err := r.num("hotel_id")
		if err != nil {
			return err
		}
		t.Coverage = append(t.Coverage, domain.Coverage{AdvertiserID: adv, HotelID: hotel})
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return t, nil
}

// row is one record addressed by header name.
type row struct {
	line   int
	header map[string]int
	rec    []string
}

func (r row) str(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r row) num(col string) (int, error) {
	if _, ok := r.header[col]; !ok {
		return 0, fmt.Errorf("line %d: missing column %q", r.line, col)
	}
	n, err := strconv.Atoi(r.str(col))
	if err != nil {
		return 0, fmt.Errorf("line %d: column %q: %w", r.line, col, err)
	}
	return n, nil
}

func readFile(fsys fs.FS, name string, fn func(row) error) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: missing header row", name)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	header := make(map[string]int, len(head))
	for i, h := range head {
		// header names are matched ignoring case; strip a UTF-8 BOM on the first column
		header[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := fn(row{line: line, header: header, rec: rec}); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
}
