package server

import (
	"errors"
	"net/http"
	"strings"

	"navsession/internal/navigation"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler serves the navigation session endpoints.
type Handler struct {
	sessions SessionService
	log      zerolog.Logger
}

// NewHandler creates a navigation session handler.
func NewHandler(sessions SessionService, log zerolog.Logger) *Handler {
	return &Handler{sessions: sessions, log: log}
}

// RegisterRoutes registers the navigation session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/navigation/sessions", h.handleStartSession)
	r.Post("/navigation/sessions/{sessionID}/heartbeat", h.handleHeartbeat)
}

type startSessionRequest struct {
	RouteID string `json:"routeId"`
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var payload startSessionRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, h.log, http.StatusBadRequest, "", "invalid request body")
		return
	}

	routeID := payload.RouteID
	if msg := checkID("routeId", routeID); msg != "" {
		respondError(w, h.log, http.StatusBadRequest, "", msg)
		return
	}

	summary, err := h.sessions.StartSession(r.Context(), routeID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, h.log, http.StatusCreated, summary)
}

func (h *Handler) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if msg := checkID("sessionId", sessionID); msg != "" {
		respondError(w, h.log, http.StatusBadRequest, "", msg)
		return
	}

	if err := h.sessions.Heartbeat(r.Context(), sessionID); err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// checkID returns a client-facing message when id is unusable as a store key
// suffix. Identifiers are never rewritten before lookup.
func checkID(field, id string) string {
	switch {
	case strings.TrimSpace(id) == "":
		return field + " is required"
	case strings.TrimSpace(id) != id:
		return field + " must not have leading or trailing whitespace"
	}
	return ""
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	kind := navigation.Kind(err)
	status := statusForKind(kind)
	message := err.Error()

	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("kind", kind).Msg("navigation request failed")
		// store details stay in the log
		message = http.StatusText(status)
		if errors.Is(err, navigation.ErrStoreUnavailable) {
			message = navigation.ErrStoreUnavailable.Error()
		}
	}

	respondError(w, h.log, status, kind, message)
}

func statusForKind(kind string) int {
	switch kind {
	case navigation.KindRouteNotFound, navigation.KindSessionNotFound:
		return http.StatusNotFound
	case navigation.KindInvalidRouteFormat, navigation.KindMissingSegments, navigation.KindNoNavigableSegments:
		return http.StatusUnprocessableEntity
	case navigation.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func respondJSON(w http.ResponseWriter, log zerolog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, log zerolog.Logger, status int, kind, message string) {
	respondJSON(w, log, status, errorResponse{Error: message, Kind: kind})
}
