// Package handlers exposes the session controller over a thin JSON API so
// a dumb presentation layer can drive it.
package handlers

import (
	"errors"
	"log"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"reelfinder/internal/identity"
	"reelfinder/models"
	"reelfinder/services/aggregate"
	"reelfinder/services/session"
)

// SessionHandler routes presentation actions into the session registry.
type SessionHandler struct {
	sessions *session.Manager
	resolver identity.Resolver
}

// NewSessionHandler creates the session API handler.
func NewSessionHandler(sessions *session.Manager, resolver identity.Resolver) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		resolver: resolver,
	}
}

// Register mounts the session routes on the router.
func (h *SessionHandler) Register(r *mux.Router) {
	api := r.PathPrefix("/api/session").Subrouter()
	api.HandleFunc("", h.GetSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/search", h.UpdateSearch).Methods(http.MethodPost)
	api.HandleFunc("/select", h.SelectMovie).Methods(http.MethodPost)
	api.HandleFunc("/back", h.Back).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/toggle", h.ToggleWatchlist).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/add", h.AddToWatchlist).Methods(http.MethodPost)
	api.HandleFunc("/watchlist/remove", h.RemoveFromWatchlist).Methods(http.MethodPost)
}

// session resolves the request identity and returns its controller. An
// invalid token is treated as anonymous and logged; the auth provider owns
// credential errors, not this surface.
func (h *SessionHandler) session(r *http.Request) *session.Controller {
	id, err := h.resolver.Resolve(r)
	if err != nil {
		log.Printf("[handlers] identity resolution failed: %v", err)
		id = models.Identity{}
	}
	return h.sessions.Session(id)
}

// GetSnapshot returns the full session state.
// GET /api/session
func (h *SessionHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(r)
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

// UpdateSearch records a raw search term update (one per keystroke).
// POST /api/session/search
func (h *SessionHandler) UpdateSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctrl := h.session(r)
	ctrl.SetSearchTerm(req.Term)
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

// SelectMovie opens the detail view for a movie.
// POST /api/session/select
func (h *SessionHandler) SelectMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := decodeMovieID(w, r)
	if !ok {
		return
	}

	ctrl := h.session(r)
	ctrl.SelectMovie(movieID)
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

// Back leaves the detail view.
// POST /api/session/back
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(r)
	ctrl.Back()
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

// ToggleWatchlist flips between the Home and Watchlist views.
// POST /api/session/watchlist/toggle
func (h *SessionHandler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(r)
	if err := ctrl.ToggleWatchlist(r.Context()); err != nil {
		jsonError(w, "Failed to fetch watchlist", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

// AddToWatchlist saves a movie to the signed-in user's watchlist.
// POST /api/session/watchlist/add
func (h *SessionHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	movieID, ok := decodeMovieID(w, r)
	if !ok {
		return
	}

	ctrl := h.session(r)
	if err := ctrl.AddToWatchlist(r.Context(), movieID); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

// RemoveFromWatchlist removes a movie from the signed-in user's watchlist.
// POST /api/session/watchlist/remove
func (h *SessionHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	movieID, ok := decodeMovieID(w, r)
	if !ok {
		return
	}

	ctrl := h.session(r)
	if err := ctrl.RemoveFromWatchlist(r.Context(), movieID); err != nil {
		writeMutationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Snapshot())
}

func decodeMovieID(w http.ResponseWriter, r *http.Request) (int, bool) {
	var req struct {
		MovieID int `json:"movieId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return 0, false
	}
	if req.MovieID == 0 {
		jsonError(w, "movieId is required", http.StatusBadRequest)
		return 0, false
	}
	return req.MovieID, true
}

// writeMutationError maps watchlist mutation failures: missing identity is
// a client error surfaced as such, backend messages pass through.
func writeMutationError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrIdentityRequired) {
		jsonError(w, err.Error(), http.StatusUnauthorized)
		return
	}
	var apiErr *aggregate.APIError
	if errors.As(err, &apiErr) {
		jsonError(w, apiErr.Error(), http.StatusBadGateway)
		return
	}
	jsonError(w, "Request failed: "+err.Error(), http.StatusBadGateway)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[handlers] encode response: %v", err)
	}
}

func jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
