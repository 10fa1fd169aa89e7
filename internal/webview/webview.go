// Package webview serves a read-only JSON view of the dashboard store.
//
// Endpoints:
//   - GET  /healthz      - Liveness check
//   - GET  /api/state    - Current snapshot
//   - GET  /api/derived  - Derived totals and trends of the current snapshot
//   - GET  /api/events   - Server-sent events with the latest snapshot after every change
//   - POST /api/refresh  - Reload the dashboard for the configured user (?user= overrides)
package webview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/huangsam/devpulse/core"
	"go.uber.org/zap"
)

// shutdownTimeout bounds graceful shutdown once the serve context ends.
const shutdownTimeout = 5 * time.Second

// Handler serves the store over HTTP.
type Handler struct {
	store  *core.Store
	userID string
	logger *zap.Logger
}

// NewHandler creates a handler for store. userID is the default refresh target.
func NewHandler(store *core.Store, userID string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, userID: userID, logger: logger}
}

// Routes returns a router with every endpoint mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.HealthHandler)
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/state", h.StateHandler)
		ar.Get("/derived", h.DerivedHandler)
		ar.Get("/events", h.EventsHandler)
		ar.Post("/refresh", h.RefreshHandler)
	})
	return r
}

// Serve runs the HTTP server on addr until ctx ends, then shuts it down.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("webview listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("webview server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("webview shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("webview server: %w", err)
	}
	return nil
}

// HealthHandler handles GET /healthz.
func (h *Handler) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StateHandler handles GET /api/state.
func (h *Handler) StateHandler(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.store.Snapshot())
}

// DerivedHandler handles GET /api/derived.
func (h *Handler) DerivedHandler(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, core.Derive(h.store.Snapshot()))
}

// RefreshHandler handles POST /api/refresh.
//
// Response (200 OK) is the refreshed snapshot with its derived values. A backend
// failure answers 502 with the error and the snapshot that was kept.
func (h *Handler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		userID = h.userID
	}
	if userID == "" {
		h.writeError(w, "no user configured: pass ?user= or set --user", http.StatusBadRequest)
		return
	}

	err := h.store.RefreshAll(r.Context(), userID)
	st := h.store.Snapshot()
	resp := struct {
		State   core.State   `json:"state"`
		Derived core.Derived `json:"derived"`
		Error   string       `json:"error,omitempty"`
	}{State: st, Derived: core.Derive(st)}

	status := http.StatusOK
	if err != nil {
		h.logger.Warn("refresh failed", zap.String("user_id", userID), zap.Error(err))
		resp.Error = err.Error()
		status = http.StatusBadGateway
	}
	h.writeJSON(w, status, resp)
}

// EventsHandler handles GET /api/events. It sends the current snapshot and then
// the latest one after every change until the client goes away.
func (h *Handler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	updates := h.store.Subscribe(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	send := func(st core.State) bool {
		data, err := json.Marshal(st)
		if err != nil {
			h.logger.Error("failed to encode state event", zap.Error(err))
			return false
		}
		if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(h.store.Snapshot()) {
		return
	}
	for st := range updates {
		if !send(st) {
			return
		}
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, msg string, code int) {
	h.writeJSON(w, code, map[string]string{"error": msg})
}
