package domain

import "time"

type City struct {
	ID   int
	Name string
}

type Advertiser struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Hotel struct {
	ID     int    `json:"id"`
	CityID int    `json:"city_id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Stars  int    `json:"stars"`
}

// DateRange is half-open: a stay from Start until End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether Start is strictly before End.
func (d DateRange) Valid() bool { return d.Start.Before(d.End) }

type Offer struct {
	Advertiser  Advertiser `json:"advertiser"`
	PriceInEuro int        `json:"price_in_euro"`
	CPC         int        `json:"cpc"`
}

type HotelWithOffers struct {
	Hotel  Hotel   `json:"hotel"`
	Offers []Offer `json:"offers"`
}
