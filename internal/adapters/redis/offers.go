// Package redisad reads advertiser offers published into Redis.
//
// Each advertiser writes one hash per stay, keyed
// offers:{advertiser}:{start}:{end} (dates as YYYY-MM-DD), with one field
// per hotel id holding {"price_in_euro":..,"cpc":..}.
package redisad

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"hotel_offers/internal/adapters/observability"
	"hotel_offers/internal/domain"
)

type OfferSource struct{ c *redis.Client }

func New(addr, pass string, db int) *OfferSource {
	return &OfferSource{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// NewWithClient wraps an existing client.
func NewWithClient(c *redis.Client) *OfferSource { return &OfferSource{c: c} }

type storedOffer struct {
	PriceInEuro int `json:"price_in_euro"`
	CPC         int `json:"cpc"`
}

func Key(advertiserID int, dr domain.DateRange) string {
	return fmt.Sprintf("offers:%d:%s:%s", advertiserID, dr.Start.Format(time.DateOnly), dr.End.Format(time.DateOnly))
}

func (s *OfferSource) GetOffersFromAdvertiser(ctx context.Context, adv domain.Advertiser, hotelIDs []int, dr domain.DateRange) (map[int]domain.Offer, error) {
	fields := make([]string, len(hotelIDs))
	for i, id := range hotelIDs {
		fields[i] = strconv.Itoa(id)
	}

	start := time.Now()
	vals, err := s.c.HMGet(ctx, Key(adv.ID, dr), fields...).Result()
	status := 200
	if err != nil {
		status = 500
	}
	observability.ObserveExternal("redis", "hmget", status, time.Since(start))
	if err != nil {
		return nil, err
	}

	out := make(map[int]domain.Offer, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue // hotel not offered
		}
		var so storedOffer
		if err := json.Unmarshal([]byte(raw), &so); err != nil {
			return nil, fmt.Errorf("decode offer for hotel %d: %w", hotelIDs[i], err)
		}
		out[hotelIDs[i]] = domain.Offer{Advertiser: adv, PriceInEuro: so.PriceInEuro, CPC: so.CPC}
	}
	return out, nil
}

// Publish stores offers of one advertiser for a stay. ttl <= 0 keeps them until overwritten.
func (s *OfferSource) Publish(ctx context.Context, advertiserID int, dr domain.DateRange, offers map[int]domain.Offer, ttl time.Duration) error {
	if len(offers) == 0 {
		return nil
	}
	vals := make([]any, 0, 2*len(offers))
	for hid, o := range offers {
		b, err := json.Marshal(storedOffer{PriceInEuro: o.PriceInEuro, CPC: o.CPC})
		if err != nil {
			return err
		}
		vals = append(vals, strconv.Itoa(hid), string(b))
	}

	key := Key(advertiserID, dr)
	pipe := s.c.TxPipeline()
	pipe.HSet(ctx, key, vals...)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *OfferSource) Close() error { return s.c.Close() }
