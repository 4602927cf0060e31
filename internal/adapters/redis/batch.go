package redisad

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"hotel_offers/internal/domain"
)

// Batch is one advertiser's offers for one stay, the unit cmd/publisher
// reads from a file:
//
//	{"advertiser_id":1,"start":"2024-06-10","end":"2024-06-12",
//	 "offers":{"89":{"price_in_euro":120,"cpc":3}}}
type Batch struct {
	AdvertiserID int
	Stay         domain.DateRange
	Offers       map[int]domain.Offer
}

type batchFile struct {
	AdvertiserID int                    `json:"advertiser_id"`
	Start        string                 `json:"start"`
	End          string                 `json:"end"`
	Offers       map[string]storedOffer `json:"offers"`
}

// DecodeBatches reads a JSON array of batches.
func DecodeBatches(r io.Reader) ([]Batch, error) {
	var raw []batchFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode batches: %w", err)
	}
	out := make([]Batch, 0, len(raw))
	for i, bf := range raw {
		b, err := bf.batch()
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (bf batchFile) batch() (Batch, error) {
	if bf.AdvertiserID <= 0 {
		return Batch{}, fmt.Errorf("advertiser_id %d: %w", bf.AdvertiserID, domain.ErrInvalidQuery)
	}
	start, err := time.Parse(time.DateOnly, bf.Start)
	if err != nil {
		return Batch{}, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(time.DateOnly, bf.End)
	if err != nil {
		return Batch{}, fmt.Errorf("end: %w", err)
	}
	dr := domain.DateRange{Start: start, End: end}
	if !dr.Valid() {
		return Batch{}, fmt.Errorf("stay %s..%s: %w", bf.Start, bf.End, domain.ErrInvalidQuery)
	}

	offers := make(map[int]domain.Offer, len(bf.Offers))
	for k, so := range bf.Offers {
		hid, err := strconv.Atoi(k)
		if err != nil {
			return Batch{}, fmt.Errorf("hotel id %q: %w", k, err)
		}
		offers[hid] = domain.Offer{PriceInEuro: so.PriceInEuro, CPC: so.CPC}
	}
	return Batch{AdvertiserID: bf.AdvertiserID, Stay: dr, Offers: offers}, nil
}
