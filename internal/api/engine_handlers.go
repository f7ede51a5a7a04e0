package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quantumreach/outreach-server/internal/engines"
	"github.com/quantumreach/outreach-server/internal/pkg/httputil"
)

// GetEngines returns the last-known status of every automation engine.
func (h *Handlers) GetEngines(w http.ResponseWriter, r *http.Request) {
	if h.engines == nil {
		httputil.OK(w, map[string]any{"enabled": false, "engines": []any{}})
		return
	}
	httputil.OK(w, map[string]any{"enabled": true, "engines": h.engines.Latest()})
}

// RefreshEngines polls every engine synchronously and returns the result.
func (h *Handlers) RefreshEngines(w http.ResponseWriter, r *http.Request) {
	if h.engines == nil {
		httputil.BadRequest(w, "engine integration is disabled")
		return
	}
	httputil.OK(w, map[string]any{"enabled": true, "engines": h.engines.Refresh(r.Context())})
}

// TriggerEngine fires an engine's trigger webhook.
func (h *Handlers) TriggerEngine(w http.ResponseWriter, r *http.Request) {
	if h.engines == nil {
		httputil.BadRequest(w, "engine integration is disabled")
		return
	}
	name := chi.URLParam(r, "name")
	if err := h.engines.Trigger(r.Context(), name); err != nil {
		if errors.Is(err, engines.ErrUnknownEngine) {
			httputil.NotFound(w, err.Error())
			return
		}
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "triggered", "engine": name})
}
