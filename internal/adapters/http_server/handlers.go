package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_offers/internal/app"
	"hotel_offers/internal/catalog"
	"hotel_offers/internal/domain"
)

type Handlers struct {
	Search  *app.SearchService
	Catalog *catalog.Catalog
	Offers  domain.OfferSource
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type searchResponse struct {
	City   string                   `json:"city"`
	Start  string                   `json:"start"`
	End    string                   `json:"end"`
	Hotels []domain.HotelWithOffers `json:"hotels"`
}

type cityView struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Hotels int    `json:"hotels"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/search", h.search)
	s.mux.Get("/v1/cities", h.listCities)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers 304 when the client already holds this representation.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// parseSearch reads city, start and end (YYYY-MM-DD). Date order is not
// checked here: an inverted range is a valid query with no results.
func parseSearch(r *http.Request) (string, domain.DateRange, error) {
	q := r.URL.Query()
	city := strings.TrimSpace(q.Get("city"))
	if city == "" {
		return "", domain.DateRange{}, fmt.Errorf("%w: city is required", domain.ErrInvalidQuery)
	}
	start, err := time.Parse(time.DateOnly, q.Get("start"))
	if err != nil {
		return "", domain.DateRange{}, fmt.Errorf("%w: start must be YYYY-MM-DD", domain.ErrInvalidQuery)
	}
	end, err := time.Parse(time.DateOnly, q.Get("end"))
	if err != nil {
		return "", domain.DateRange{}, fmt.Errorf("%w: end must be YYYY-MM-DD", domain.ErrInvalidQuery)
	}
	return city, domain.DateRange{Start: start, End: end}, nil
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	city, dr, err := parseSearch(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid query", err.Error())
		return
	}

	hotels, err := h.Search.Search(r.Context(), city, dr, h.Offers)
	if err != nil {
		if errors.Is(err, r.Context().Err()) {
			return // client went away
		}
		log.Error().Err(err).Str("city", city).Msg("search failed")
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusInternalServerError, "Inconsistent catalog", "offer references an unknown hotel")
			return
		}
		writeProblem(w, http.StatusBadGateway, "Offer source failed", "an advertiser could not be queried")
		return
	}

	writeJSON(w, r, searchResponse{
		City:   city,
		Start:  dr.Start.Format(time.DateOnly),
		End:    dr.End.Format(time.DateOnly),
		Hotels: hotels,
	})
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	cities := h.Catalog.Cities()
	out := make([]cityView, 0, len(cities))
	for _, c := range cities {
		out = append(out, cityView{ID: c.ID, Name: c.Name, Hotels: len(h.Catalog.HotelsInCity(c.Name))})
	}
	writeJSON(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	hotel, ok := h.Catalog.Hotel(id)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
		return
	}
	writeJSON(w, r, hotel)
}
