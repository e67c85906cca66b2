// internal/adapters/http_server/handlers.go
package httpserver

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"restaurant_reviews/internal/adapters/leaflet"
	"restaurant_reviews/internal/adapters/toast"
	"restaurant_reviews/internal/app"
	"restaurant_reviews/internal/domain"
)

const maxReviewBytes = 64 << 10

type Handlers struct {
	Q      *app.QueryService
	S      *app.SyncService
	Toasts *toast.Feed
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type links struct {
	DetailURL string `json:"detail_url"`
	ImageURL  string `json:"image_url"`
}

// toView returns the cached record as the remote service sent it, with the links the front end
// renders appended as two more members.
func toView(r domain.Restaurant) (json.RawMessage, error) {
	raw, err := r.Raw()
	if err != nil {
		return nil, err
	}
	l, err := json.Marshal(links{DetailURL: app.DetailURL(r), ImageURL: app.ImageURL(r)})
	if err != nil {
		return nil, err
	}
	obj := bytes.TrimSpace(raw)
	if len(obj) < 2 || obj[0] != '{' || obj[len(obj)-1] != '}' {
		return nil, fmt.Errorf("restaurant %s: cached record is not a JSON object", r.ID)
	}
	head := bytes.TrimSpace(obj[:len(obj)-1])
	out := make([]byte, 0, len(head)+len(l)+1)
	out = append(out, head...)
	if len(head) > 1 {
		out = append(out, ',')
	}
	return append(out, l[1:]...), nil
}

func toViews(rs []domain.Restaurant) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(rs))
	for _, r := range rs {
		v, err := toView(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/restaurants", h.listRestaurants)
		r.Get("/restaurants/{id}", h.getRestaurant)
		r.Post("/restaurants/sync", h.syncRestaurants)
		r.Get("/cuisines", h.listCuisines)
		r.Get("/neighborhoods", h.listNeighborhoods)
		r.Get("/map", h.getMap)
		r.Post("/reviews", h.postReview)
		r.Post("/reviews/pending", h.replayPending)
		r.Get("/notifications", h.listNotifications)
	})
}

// filterParam reads a filter dimension; absent means "all".
func filterParam(r *http.Request, name string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return app.All
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

// writeCached writes v as JSON with a weak ETag, or 304 when the client already has it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not encode response")
		return
	}
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

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

func (h *Handlers) listRestaurants(w http.ResponseWriter, r *http.Request) {
	rs, err := h.Q.ByCuisineAndNeighborhood(r.Context(), filterParam(r, "cuisine"), filterParam(r, "neighborhood"))
	if err != nil {
		log.Error().Err(err).Msg("list restaurants failed")
		writeProblem(w, http.StatusServiceUnavailable, "Cache Unavailable", "restaurants could not be read")
		return
	}
	out, err := toViews(rs)
	if err != nil {
		log.Error().Err(err).Msg("render restaurants failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not encode response")
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Q.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Error().Err(err).Msg("get restaurant failed")
		writeProblem(w, http.StatusServiceUnavailable, "Cache Unavailable", "restaurants could not be read")
		return
	}
	if rest == nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "restaurant not found")
		return
	}
	out, err := toView(*rest)
	if err != nil {
		log.Error().Err(err).Msg("render restaurant failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not encode response")
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) listCuisines(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Cuisines(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list cuisines failed")
		writeProblem(w, http.StatusServiceUnavailable, "Cache Unavailable", "restaurants could not be read")
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) listNeighborhoods(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Neighborhoods(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list neighborhoods failed")
		writeProblem(w, http.StatusServiceUnavailable, "Cache Unavailable", "restaurants could not be read")
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getMap(w http.ResponseWriter, r *http.Request) {
	rs, err := h.Q.ByCuisineAndNeighborhood(r.Context(), filterParam(r, "cuisine"), filterParam(r, "neighborhood"))
	if err != nil {
		log.Error().Err(err).Msg("map restaurants failed")
		writeProblem(w, http.StatusServiceUnavailable, "Cache Unavailable", "restaurants could not be read")
		return
	}
	m := leaflet.NewMap()
	for _, rest := range rs {
		app.PlaceMarker(rest, m)
	}
	writeCached(w, r, m)
}

func (h *Handlers) syncRestaurants(w http.ResponseWriter, r *http.Request) {
	if err := h.S.FetchRestaurants(r.Context()); err != nil {
		if errors.Is(err, domain.ErrNetworkFailure) {
			writeProblem(w, http.StatusBadGateway, "Bad Gateway", "restaurant service unreachable")
			return
		}
		writeProblem(w, http.StatusServiceUnavailable, "Cache Unavailable", "restaurants could not be cached")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) postReview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxReviewBytes+1))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "could not read request body")
		return
	}
	if len(body) > maxReviewBytes {
		writeProblem(w, http.StatusRequestEntityTooLarge, "Review Too Large", "review must be at most 64KiB")
		return
	}
	if !json.Valid(body) {
		writeProblem(w, http.StatusBadRequest, "Invalid Review", "body must be JSON")
		return
	}

	resp, err := h.S.InsertReview(r.Context(), json.RawMessage(body))
	if err != nil {
		var rej *domain.RejectedError
		if errors.As(err, &rej) {
			if rej.Body == nil {
				writeProblem(w, rej.Status, "Review Rejected", "the review service refused the review")
				return
			}
			writeJSON(w, rej.Status, rej.Body)
			return
		}
		if errors.Is(err, domain.ErrNetworkFailure) {
			writeJSON(w, http.StatusAccepted, []byte(`{"status":"pending"}`))
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "review could not be posted")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) replayPending(w http.ResponseWriter, r *http.Request) {
	if err := h.S.CheckPendingRequests(r.Context()); err != nil {
		if errors.Is(err, domain.ErrNetworkFailure) {
			writeProblem(w, http.StatusBadGateway, "Bad Gateway", "review service unreachable; review kept for later")
			return
		}
		writeProblem(w, http.StatusServiceUnavailable, "Cache Unavailable", "pending review could not be read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	_, body := calcETagAndBody(h.Toasts.Recent())
	writeJSON(w, http.StatusOK, body)
}
