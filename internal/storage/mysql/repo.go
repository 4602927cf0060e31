package mysql

import (
	"context"
	"database/sql"

	"hotel_offers/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertCity(ctx context.Context, c domain.City) error {
	_, err := r.db.ExecContext(ctx, upsertCitySQL, c.ID, c.Name)
	return err
}

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	_, err := r.db.ExecContext(ctx, upsertHotelSQL, h.ID, h.CityID, h.Name, h.Rating, h.Stars)
	return err
}

func (r *Repo) UpsertAdvertiser(ctx context.Context, a domain.Advertiser) error {
	_, err := r.db.ExecContext(ctx, upsertAdvertiserSQL, a.ID, a.Name)
	return err
}

func (r *Repo) LinkAdvertiserHotel(ctx context.Context, advertiserID, hotelID int) error {
	_, err := r.db.ExecContext(ctx, linkAdvertiserHotelSQL, advertiserID, hotelID)
	return err
}

func (r *Repo) ListCities(ctx context.Context) ([]domain.City, error) {
	var out []domain.City
	err := r.each(ctx, listCitiesSQL, func(rows *sql.Rows) error {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	var out []domain.Hotel
	err := r.each(ctx, listHotelsSQL, func(rows *sql.Rows) error {
		var h domain.Hotel
		var rating, stars sql.NullInt64
		if err := rows.Scan(&h.ID, &h.CityID, &h.Name, &rating, &stars); err != nil {
			return err
		}
		// unrated hotels are stored as NULL and surface as zero
		h.Rating = int(rating.Int64)
		h.Stars = int(stars.Int64)
		out = append(out, h)
		return nil
	})
	return out, err
}

func (r *Repo) ListAdvertisers(ctx context.Context) ([]domain.Advertiser, error) {
	var out []domain.Advertiser
	err := r.each(ctx, listAdvertisersSQL, func(rows *sql.Rows) error {
		var a domain.Advertiser
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	return out, err
}

func (r *Repo) ListCoverage(ctx context.Context) ([]domain.Coverage, error) {
	var out []domain.Coverage
	err := r.each(ctx, listCoverageSQL, func(rows *sql.Rows) error {
		var c domain.Coverage
		if err := rows.Scan(&c.AdvertiserID, &c.HotelID); err != nil {
			return err
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

// each runs query and calls scan once per row.
func (r *Repo) each(ctx context.Context, query string, scan func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
