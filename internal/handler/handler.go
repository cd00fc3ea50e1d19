package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gallery-be/internal/catalog"
	"gallery-be/internal/gallery"
	"gallery-be/internal/logger"
	"gallery-be/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SessionTokenHeader carries a newly issued token for clients that do not
// keep cookies.
const SessionTokenHeader = "X-Session-Token"

const maxBodyBytes = 1 << 20

var unixEpoch = time.Unix(0, 0)

type Handler struct {
	sessions     *session.Manager
	tokens       *session.TokenIssuer
	secureCookie bool
}

func New(sessions *session.Manager, tokens *session.TokenIssuer, secureCookie bool) *Handler {
	return &Handler{sessions: sessions, tokens: tokens, secureCookie: secureCookie}
}

// Register mounts the health check and the gallery API on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", Health)
	mux.HandleFunc("GET /metrics", h.metrics)

	mux.Handle("GET /api/gallery", h.gallery(h.getGallery))
	mux.Handle("POST /api/gallery/fetch", h.gallery(h.fetch))
	mux.Handle("PUT /api/gallery/filters/tiers", h.gallery(h.setTiers))
	mux.Handle("PUT /api/gallery/filters/keyword", h.gallery(h.setKeyword))
	mux.Handle("PUT /api/gallery/filters/price-range", h.gallery(h.setPriceRange))
	mux.Handle("PUT /api/gallery/filters/sort", h.gallery(h.setSort))
	mux.Handle("POST /api/gallery/filters/reset", h.gallery(h.resetFilters))
	mux.Handle("POST /api/gallery/load-more", h.gallery(h.loadMore))
}

func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, map[string]string{"status": "OK"}, http.StatusOK)
}

func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	snapshot := h.sessions.Metrics().Snapshot()
	snapshot["sessions_active"] = uint64(h.sessions.Len())
	WriteJSON(w, snapshot, http.StatusOK)
}

// galleryFunc applies one event to the session and returns the snapshot.
type galleryFunc func(r *http.Request, s *session.Session) (gallery.Snapshot, error)

func (h *Handler) gallery(fn galleryFunc) http.Handler {
	return h.WithSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := SessionFrom(r.Context())
		if !ok {
			WriteJSONError(w, "missing session", http.StatusUnauthorized)
			return
		}

		snap, err := fn(r, s)
		if err != nil {
			writeError(w, r, err)
			return
		}
		WriteJSON(w, newGalleryResponse(snap), http.StatusOK)
	}))
}

// badRequest marks errors caused by the request body.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var br badRequest
	switch {
	case errors.As(err, &br):
		WriteJSONError(w, br.Error(), http.StatusBadRequest)
	case errors.Is(err, session.ErrClosed):
		WriteJSONError(w, "session expired", http.StatusGone)
	default:
		logger.FromCtx(r.Context()).Error("gallery request failed",
			zap.String("layer", "handler"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return badRequest{fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

// ----------------- Endpoints -----------------

func (h *Handler) getGallery(r *http.Request, s *session.Session) (gallery.Snapshot, error) {
	return s.Snapshot(r.Context())
}

func (h *Handler) fetch(r *http.Request, s *session.Session) (gallery.Snapshot, error) {
	return s.RequestFetch(r.Context())
}

type tiersRequest struct {
	Tiers []int `json:"tiers"`
}

func (h *Handler) setTiers(r *http.Request, s *session.Session) (gallery.Snapshot, error) {
	var req tiersRequest
	if err := decodeBody(r, &req); err != nil {
		return gallery.Snapshot{}, err
	}

	var tiers gallery.TierSet
	for _, code := range req.Tiers {
		t := catalog.Tier(code)
		if !t.Valid() {
			return gallery.Snapshot{}, badRequest{fmt.Errorf("%w: %d", catalog.ErrUnknownTier, code)}
		}
		tiers = tiers.With(t)
	}
	return s.SetTierFilter(r.Context(), tiers)
}

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

func (h *Handler) setKeyword(r *http.Request, s *session.Session) (gallery.Snapshot, error) {
	var req keywordRequest
	if err := decodeBody(r, &req); err != nil {
		return gallery.Snapshot{}, err
	}
	return s.SetKeyword(r.Context(), req.Keyword)
}

type priceRangeRequest struct {
	Min *decimal.Decimal `json:"min"`
	Max *decimal.Decimal `json:"max"`
}

func (h *Handler) setPriceRange(r *http.Request, s *session.Session) (gallery.Snapshot, error) {
	var req priceRangeRequest
	if err := decodeBody(r, &req); err != nil {
		return gallery.Snapshot{}, err
	}

	min, max := gallery.DefaultMinPrice, gallery.DefaultMaxPrice
	if req.Min != nil {
		min = *req.Min
	}
	if req.Max != nil {
		max = *req.Max
	}
	return s.SetPriceRange(r.Context(), min, max)
}

type sortRequest struct {
	Sort string `json:"sort"`
}

func (h *Handler) setSort(r *http.Request, s *session.Session) (gallery.Snapshot, error) {
	var req sortRequest
	if err := decodeBody(r, &req); err != nil {
		return gallery.Snapshot{}, err
	}
	return s.SetSort(r.Context(), gallery.SortKey(req.Sort))
}

func (h *Handler) resetFilters(r *http.Request, s *session.Session) (gallery.Snapshot, error) {
	return s.ResetFilters(r.Context())
}

func (h *Handler) loadMore(r *http.Request, s *session.Session) (gallery.Snapshot, error) {
	return s.RequestLoadMore(r.Context())
}
