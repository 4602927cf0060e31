package advertiser

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_offers/internal/domain"
)

/********** alias registries **********/

// Advertisers disagree on payload shape; these list the paths we accept.
var listAliases = []string{"offers", "items", "data.offers", "data", "results"}

var offerAliases = map[string][]string{
	"hotel_id": {"hotel_id", "hotelId", "hotel.id", "property_id"},
	"price":    {"price_in_euro", "priceInEuro", "price.amount", "price", "amount"},
	"cpc":      {"cpc", "cost_per_click", "costPerClick", "bid"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// asInt accepts JSON numbers and numeric strings. Fractional prices are truncated.
func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int(f), true
		}
	}
	return 0, false
}

// firstIntAlias: first numeric value for a named alias set.
func firstIntAlias(m map[string]any, key string) (int, bool) {
	for _, p := range offerAliases[key] {
		if n, ok := asInt(lookupAny(m, p)); ok {
			return n, true
		}
	}
	return 0, false
}

/********** mapping **********/

// mapOffers turns a decoded response body into offers keyed by hotel id.
// Accepted shapes: a list of offer objects (top level or under one of
// listAliases), or an object keyed by hotel id.
func mapOffers(payload any) map[int]domain.Offer {
	out := map[int]domain.Offer{}

	var entries any = payload
	if m, ok := payload.(map[string]any); ok {
		entries = nil
		for _, p := range listAliases {
			if v := lookupAny(m, p); v != nil {
				entries = v
				break
			}
		}
	}

	switch t := entries.(type) {
	case []any:
		for _, e := range t {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			hid, ok := firstIntAlias(m, "hotel_id")
			if !ok {
				log.Debug().Interface("entry", m).Msg("advertiser offer without hotel id")
				continue
			}
			if o, ok := mapOffer(m); ok {
				out[hid] = o
			}
		}
	case map[string]any:
		for k, e := range t {
			hid, err := strconv.Atoi(k)
			if err != nil {
				continue
			}
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			if o, ok := mapOffer(m); ok {
				out[hid] = o
			}
		}
	}
	return out
}

// mapOffer requires a price; cpc defaults to zero.
func mapOffer(m map[string]any) (domain.Offer, bool) {
	price, ok := firstIntAlias(m, "price")
	if !ok {
		return domain.Offer{}, false
	}
	cpc, _ := firstIntAlias(m, "cpc")
	return domain.Offer{PriceInEuro: price, CPC: cpc}, true
}
