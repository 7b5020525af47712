package stats

import (
	"encoding/json"
	"net/http"

	docserrors "github.com/protoworx/rippledocs/internal/errors"
	"github.com/protoworx/rippledocs/internal/logging"
)

// CacheControl is sent with every successful stat response.
const CacheControl = "public, s-maxage=3600, stale-while-revalidate=86400"

// Handlers serves the stat endpoints.
type Handlers struct {
	source Source
	logger logging.Logger
}

func NewHandlers(source Source, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{source: source, logger: logger.WithComponent("stats-api")}
}

// Register mounts the stat endpoints on mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/version", h.HandleVersion)
	mux.HandleFunc("/api/github/repo", h.HandleRepository)
	mux.HandleFunc("/api/bundlephobia", h.HandleBundle)
}

// HandleVersion answers {"version": ...}. Any failure still answers with the
// fallback version, with status 500 and no caching header.
func (h *Handlers) HandleVersion(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	v, err := h.source.Version(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), err, "Error fetching version")
		writeJSON(w, http.StatusInternalServerError, VersionInfo{Version: FallbackVersion})
		return
	}

	w.Header().Set("Cache-Control", CacheControl)
	writeJSON(w, http.StatusOK, VersionInfo{Version: v})
}

func (h *Handlers) HandleRepository(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	stats, err := h.source.Repository(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Error fetching GitHub repository data")
		return
	}

	w.Header().Set("Cache-Control", CacheControl)
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) HandleBundle(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	stats, err := h.source.Bundle(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Error fetching Bundlephobia data")
		return
	}

	w.Header().Set("Cache-Control", CacheControl)
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := docserrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), err, msg)
	} else {
		h.logger.Warn(r.Context(), err, msg)
	}

	writeJSON(w, status, map[string]string{"error": docserrors.PublicMessage(err)})
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}

	w.Header().Set("Allow", "GET, HEAD")
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	return false
}

// writeJSON writes v as the JSON response body with status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
