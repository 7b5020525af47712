package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	docserrors "github.com/protoworx/rippledocs/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	repo       RepoStats
	bundle     BundleStats
	version    string
	repoErr    error
	bundleErr  error
	versionErr error
}

func (s stubSource) Repository(context.Context) (RepoStats, error) { return s.repo, s.repoErr }
func (s stubSource) Bundle(context.Context) (BundleStats, error)   { return s.bundle, s.bundleErr }
func (s stubSource) Version(context.Context) (string, error)       { return s.version, s.versionErr }

func serve(t *testing.T, source Source, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	NewHandlers(source, nil).Register(mux)

	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandleVersion(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		w := serve(t, stubSource{version: "0.0.6"}, http.MethodGet, "/api/version")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, CacheControl, w.Header().Get("Cache-Control"))
		assert.Equal(t, "0.0.6", decode(t, w)["version"])
	})

	t.Run("failure reports fallback", func(t *testing.T) {
		src := stubSource{versionErr: docserrors.NewUpstreamError("VERSION_FETCH", "Failed to fetch package.json", 500)}
		w := serve(t, src, http.MethodGet, "/api/version")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Header().Get("Cache-Control"))
		assert.Equal(t, map[string]interface{}{"version": "0.0.0"}, decode(t, w))
	})
}

func TestHandleRepository(t *testing.T) {
	desc := "A tiny event bus"
	src := stubSource{repo: RepoStats{Repository: Repository{Stars: 5, Description: &desc, Topics: []string{}}}}

	w := serve(t, src, http.MethodGet, "/api/github/repo")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, CacheControl, w.Header().Get("Cache-Control"))

	body := decode(t, w)
	repo := body["repository"].(map[string]interface{})
	assert.Equal(t, float64(5), repo["stars"])
	assert.Equal(t, desc, repo["description"])
	assert.Nil(t, repo["license"])
	assert.Nil(t, body["package"])
}

func TestHandleErrors(t *testing.T) {
	tests := []struct {
		name       string
		source     stubSource
		path       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "rate limited",
			source:     stubSource{repoErr: docserrors.NewUpstreamError("GITHUB_RATE_LIMIT", "GitHub API rate limit exceeded", 429)},
			path:       "/api/github/repo",
			wantStatus: http.StatusTooManyRequests,
			wantError:  "GitHub API rate limit exceeded",
		},
		{
			name:       "bundle missing",
			source:     stubSource{bundleErr: docserrors.NewUpstreamError("BUNDLE_NOT_FOUND", "Package not found on Bundlephobia", 404)},
			path:       "/api/bundlephobia",
			wantStatus: http.StatusNotFound,
			wantError:  "Package not found on Bundlephobia",
		},
		{
			name:       "internal failure hides cause",
			source:     stubSource{bundleErr: docserrors.NewInternalError("UPSTREAM_TRANSPORT", "Internal server error", assert.AnError)},
			path:       "/api/bundlephobia",
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, tt.source, http.MethodGet, tt.path)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Empty(t, w.Header().Get("Cache-Control"))
			assert.Equal(t, map[string]interface{}{"error": tt.wantError}, decode(t, w))
		})
	}
}

func TestHandleBundle(t *testing.T) {
	w := serve(t, stubSource{bundle: BundleStats{Size: 10, Gzip: 4, Version: "0.0.6"}}, http.MethodGet, "/api/bundlephobia")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(4), body["gzip"])
	assert.Equal(t, "0.0.6", body["version"])
	assert.Contains(t, body, "dependencyCount")
}

func TestHandlersRejectOtherMethods(t *testing.T) {
	w := serve(t, stubSource{}, http.MethodPost, "/api/version")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
}
