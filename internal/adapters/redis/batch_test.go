package redisad_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	redisad "hotel_offers/internal/adapters/redis"
	"hotel_offers/internal/domain"
)

func TestDecodeBatches_ThenPublish(t *testing.T) {
	batches, err := redisad.DecodeBatches(strings.NewReader(`[
		{"advertiser_id":1,"start":"2024-06-10","end":"2024-06-12",
		 "offers":{"89":{"price_in_euro":120,"cpc":3},"90":{"price_in_euro":99,"cpc":1}}}
	]`))
	if err != nil {
		t.Fatalf("DecodeBatches: %v", err)
	}
	if len(batches) != 1 || !batches[0].Stay.Start.Equal(stay.Start) || !batches[0].Stay.End.Equal(stay.End) {
		t.Fatalf("got %+v", batches)
	}

	src, _ := newSource(t)
	ctx := context.Background()
	b := batches[0]
	if err := src.Publish(ctx, b.AdvertiserID, b.Stay, b.Offers, time.Hour); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	got, err := src.GetOffersFromAdvertiser(ctx, domain.Advertiser{ID: 1}, []int{89, 90}, stay)
	if err != nil {
		t.Fatalf("GetOffersFromAdvertiser: %v", err)
	}
	if got[89].PriceInEuro != 120 || got[90].CPC != 1 {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeBatches_Rejects(t *testing.T) {
	cases := map[string]string{
		"not an array":  `{"advertiser_id":1}`,
		"no advertiser": `[{"start":"2024-06-10","end":"2024-06-12"}]`,
		"bad date":      `[{"advertiser_id":1,"start":"10.06.2024","end":"2024-06-12"}]`,
		"inverted stay": `[{"advertiser_id":1,"start":"2024-06-12","end":"2024-06-10"}]`,
		"bad hotel id":  `[{"advertiser_id":1,"start":"2024-06-10","end":"2024-06-12","offers":{"x":{}}}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := redisad.DecodeBatches(strings.NewReader(body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	_, err := redisad.DecodeBatches(strings.NewReader(`[{"advertiser_id":1,"start":"2024-06-12","end":"2024-06-12"}]`))
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("equal dates: got %v", err)
	}
}
