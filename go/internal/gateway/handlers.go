package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/rvbops/warroom/go/internal/events"
	"github.com/rvbops/warroom/go/internal/models"
	"github.com/rvbops/warroom/go/internal/situation"
)

// ArchiveReader serves event history beyond the store's retained window.
type ArchiveReader interface {
	RecentEvents(ctx context.Context, limit int) ([]events.Event, error)
	EventsByKind(ctx context.Context, kind events.Kind, limit int) ([]events.Event, error)
}

// Handler serves the viewer HTTP surface: WebSocket upgrades plus
// read-only JSON endpoints over the reconciled store.
type Handler struct {
	store   *situation.Store
	manager *ConnectionManager
	history ArchiveReader
}

// NewHandler creates the viewer HTTP handler.
func NewHandler(store *situation.Store, manager *ConnectionManager) *Handler {
	return &Handler{store: store, manager: manager}
}

// SetArchive attaches an archive so viewers can page past the live
// retention window. Must be called before RegisterRoutes serves traffic.
func (h *Handler) SetArchive(r ArchiveReader) {
	h.history = r
}

// RegisterRoutes registers all viewer routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleViewerConnection)
	mux.HandleFunc("/state", h.HandleState)
	mux.HandleFunc("/events", h.HandleEvents)
	mux.HandleFunc("/archive/events", h.HandleArchiveEvents)
	mux.HandleFunc("/score", h.HandleScore)
	mux.HandleFunc("/alerts", h.HandleAlerts)
	mux.HandleFunc("/stats", h.HandleStats)
	mux.HandleFunc("/healthz", h.HandleHealth)
}

// HandleViewerConnection upgrades a viewer WebSocket. The room defaults
// to audience when the query parameter names no valid role.
func (h *Handler) HandleViewerConnection(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	switch room {
	case models.RoleGM.Room(), models.RoleRed.Room(), models.RoleBlue.Room():
	default:
		room = models.RoleAudience.Room()
	}

	if err := h.manager.UpgradeConnection(w, r, room); err != nil {
		log.Error().Err(err).Str("room", room).Msg("failed to upgrade viewer connection")
		http.Error(w, "failed to upgrade connection", http.StatusInternalServerError)
	}
}

// HandleState returns the current reconciled game state.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.GameState())
}

// HandleEvents returns the retained event feed, optionally filtered by kind.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if kind := r.URL.Query().Get("kind"); kind != "" {
		writeJSON(w, h.store.EventsByKind(events.Kind(kind)))
		return
	}
	writeJSON(w, h.store.Events())
}

// HandleArchiveEvents returns archived events, newest first, optionally
// filtered by kind. 404 when no archive is configured.
func (h *Handler) HandleArchiveEvents(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		http.Error(w, "archive not configured", http.StatusNotFound)
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	var (
		evs []events.Event
		err error
	)
	if kind := r.URL.Query().Get("kind"); kind != "" {
		evs, err = h.history.EventsByKind(r.Context(), events.Kind(kind), limit)
	} else {
		evs, err = h.history.RecentEvents(r.Context(), limit)
	}
	if err != nil {
		log.Error().Err(err).Msg("archive query failed")
		http.Error(w, "archive query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, evs)
}

// HandleScore returns the current scoreboard.
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.Score())
}

// HandleAlerts returns the retained alerts.
func (h *Handler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.Alerts())
}

// HandleStats returns viewer connection statistics.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	total, rooms := h.manager.Stats()
	writeJSON(w, map[string]any{
		"total_connections": total,
		"rooms":             rooms,
	})
}

// HandleHealth is the liveness probe.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("failed to write health response")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
