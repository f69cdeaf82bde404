package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/driftmark/cointrail/internal/game/grid"
	"github.com/driftmark/cointrail/internal/game/session"
	"github.com/driftmark/cointrail/internal/web/templates"
)

const tracerName = "github.com/driftmark/cointrail/internal/web"

// Handler routes game API requests onto a session.
type Handler struct {
	sess   *session.Session
	tracer trace.Tracer
}

// NewHandler builds the HTTP handler for the game server.
func NewHandler(sess *session.Session) http.Handler {
	h := &Handler{
		sess:   sess,
		tracer: otel.Tracer(tracerName),
	}

	mux := http.NewServeMux()
	mux.Handle("GET /{$}", templ.Handler(templates.StatusPage()))
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	mux.HandleFunc("GET /api/state", h.handleState)
	mux.HandleFunc("POST /api/move", h.handleMove)
	mux.HandleFunc("POST /api/caches/{key}/collect", h.handleCollect)
	mux.HandleFunc("POST /api/caches/{key}/deposit", h.handleDeposit)
	mux.HandleFunc("POST /api/reset", h.handleReset)
	return mux
}

func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "state")
	defer span.End()

	state, err := h.stateView(ctx)
	if err != nil {
		h.serverError(w, "build state view", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleMove(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "move")
	defer span.End()

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "move body must be JSON with lat and lng")
		return
	}
	source := session.MoveSource(req.Source)
	if source == "" {
		source = session.MoveSourceManual
	}
	if source != session.MoveSourceManual && source != session.MoveSourceGeolocation {
		writeError(w, http.StatusBadRequest, "move source must be manual or geolocation")
		return
	}
	span.SetAttributes(attribute.String("move.source", string(source)))

	pos := grid.Position{Lat: req.Lat, Lng: req.Lng}
	if err := h.sess.MovePlayer(ctx, pos, source); err != nil {
		h.serverError(w, "move player", err)
		return
	}

	state, err := h.stateView(ctx)
	if err != nil {
		h.serverError(w, "build state view", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) handleCollect(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "collect")
	defer span.End()

	key := r.PathValue("key")
	span.SetAttributes(attribute.String("cache.key", key))
	if _, err := grid.ParseKey(key); err != nil {
		writeError(w, http.StatusBadRequest, "cache key must be in x,y form")
		return
	}

	coin, ok, err := h.sess.Collect(ctx, key)
	if err != nil {
		h.serverError(w, "collect coin", err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, collectResponse{Exhausted: true})
		return
	}
	cv := coinView(coin)
	writeJSON(w, http.StatusOK, collectResponse{Coin: &cv})
}

func (h *Handler) handleDeposit(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "deposit")
	defer span.End()

	key := r.PathValue("key")
	span.SetAttributes(attribute.String("cache.key", key))
	if _, err := grid.ParseKey(key); err != nil {
		writeError(w, http.StatusBadRequest, "cache key must be in x,y form")
		return
	}

	coin, ok, err := h.sess.Deposit(ctx, key)
	if err != nil {
		h.serverError(w, "deposit coin", err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, depositResponse{EmptyInventory: true})
		return
	}
	cv := coinView(coin)
	writeJSON(w, http.StatusOK, depositResponse{Coin: &cv})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "reset")
	defer span.End()

	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		writeError(w, http.StatusBadRequest, "reset requires explicit confirmation")
		return
	}

	if err := h.sess.Reset(ctx); err != nil {
		h.serverError(w, "reset game", err)
		return
	}

	state, err := h.stateView(ctx)
	if err != nil {
		h.serverError(w, "build state view", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) serverError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
