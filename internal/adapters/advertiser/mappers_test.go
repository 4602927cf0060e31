package advertiser

import (
	"encoding/json"
	"testing"

	"hotel_offers/internal/domain"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return v
}

func TestMapOffers_Shapes(t *testing.T) {
	cases := map[string]string{
		"list under offers":  `{"offers":[{"hotel_id":89,"price_in_euro":120,"cpc":3}]}`,
		"top-level list":     `[{"hotelId":"89","price":{"amount":120},"costPerClick":3}]`,
		"nested data.offers": `{"data":{"offers":[{"hotel":{"id":89},"amount":"120.40","bid":3}]}}`,
		"keyed by hotel":     `{"offers":{"89":{"price":120,"cpc":3},"x":{"price":1}}}`,
	}
	want := domain.Offer{PriceInEuro: 120, CPC: 3}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			got := mapOffers(decode(t, body))
			if len(got) != 1 || got[89] != want {
				t.Fatalf("got %+v", got)
			}
		})
	}
}

func TestMapOffers_SkipsIncompleteEntries(t *testing.T) {
	got := mapOffers(decode(t, `{"offers":[{"price":10},{"hotel_id":1},{"hotel_id":2,"price":5}, "junk"]}`))
	if len(got) != 1 || got[2].PriceInEuro != 5 || got[2].CPC != 0 {
		t.Fatalf("got %+v", got)
	}
}

func TestMapOffers_OfferIDIsNotAHotelID(t *testing.T) {
	got := mapOffers(decode(t, `{"offers":[{"id":7001,"hotel_id":89,"price":120,"cpc":3},{"id":7002,"price":99}]}`))
	if len(got) != 1 || got[89] != (domain.Offer{PriceInEuro: 120, CPC: 3}) {
		t.Fatalf("got %+v", got)
	}
}

func TestMapOffers_UnknownShape(t *testing.T) {
	if got := mapOffers(decode(t, `{"status":"ok"}`)); len(got) != 0 {
		t.Fatalf("got %+v", got)
	}
	if got := mapOffers(nil); len(got) != 0 {
		t.Fatalf("got %+v", got)
	}
}
