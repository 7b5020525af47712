package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/a-h/templ"
	"github.com/protoworx/rippledocs/internal/breadcrumbs"
	docserrors "github.com/protoworx/rippledocs/internal/errors"
	"github.com/protoworx/rippledocs/internal/features"
	"github.com/protoworx/rippledocs/internal/navigation"
	"github.com/protoworx/rippledocs/internal/stats"
	"github.com/protoworx/rippledocs/internal/version"
	"github.com/protoworx/rippledocs/internal/views"
)

func (s *Server) buildNavigation(ctx context.Context) navigation.Navigation {
	return navigation.NewBuilder(s.content,
		navigation.WithBasePath(s.basePath()),
		navigation.WithLogger(s.logger),
	).Build(ctx)
}

func (s *Server) basePath() string {
	if s.config.Content.BasePath == "" {
		return navigation.DefaultBasePath
	}
	return s.config.Content.BasePath
}

// packageVersion prefers the version published on the default branch and
// falls back to the configured one.
func (s *Server) packageVersion(ctx context.Context) string {
	if s.stats != nil {
		if v, err := s.stats.Version(ctx); err == nil {
			return v
		}
	}
	return s.config.Stats.PackageVersion
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	ctx := r.Context()

	props := views.LandingProps{
		Package: s.config.Stats.Package,
		RepoURL: "https://github.com/" + s.config.Stats.Owner + "/" + s.config.Stats.Repo,
	}

	var readme []features.Feature
	var bundle *features.Feature

	if s.stats != nil {
		props.ShowStats = true

		if repo, err := s.stats.Repository(ctx); err != nil {
			s.logger.Warn(ctx, err, "Landing page without repository stats")
		} else {
			props.Repo = &repo
			if repo.Repository.Readme != nil {
				readme = features.ExtractFromReadme(*repo.Repository.Readme)
			}
		}

		if b, err := s.stats.Bundle(ctx); err != nil {
			s.logger.Warn(ctx, err, "Landing page without bundle stats")
		} else {
			props.Bundle = &b
			bundle = features.BundleSize(s.config.Stats.Package, &b.Size, &b.Gzip)
		}
	}

	if readme == nil {
		readme = features.Defaults()
	}
	props.Features = features.Combine(readme, bundle)

	s.writePage(w, r, http.StatusOK, views.LayoutProps{
		Title:      views.SiteName,
		Body:       views.Landing(props),
		LiveReload: s.hub != nil,
	})
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	ctx := r.Context()

	nav := s.buildNavigation(ctx)
	sidebar := func(current string) templ.Component {
		return views.Sidebar(nav, current, s.packageVersion(ctx))
	}

	page, err := s.resolver.Resolve(r.URL.Path)
	if err != nil {
		status := docserrors.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error(ctx, err, "Failed to resolve page", "path", r.URL.Path)
			http.Error(w, "Internal server error", status)
			return
		}

		s.writePage(w, r, status, views.LayoutProps{
			Title:      "Not Found",
			Body:       views.NotFound(r.URL.Path),
			Sidebar:    sidebar(r.URL.Path),
			Crumbs:     breadcrumbs.Resolve(&nav, path.Clean(r.URL.Path)),
			LiveReload: s.hub != nil,
		})
		return
	}

	rendered, err := s.renderer.Render(page.Source)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to render page", "file", page.Path)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	title := rendered.Title
	if title == "" {
		if found, ok := nav.Find(page.URL); ok {
			title = found.Title
		} else {
			title = navigation.TitleCase(path.Base(page.URL))
		}
	}

	s.writePage(w, r, http.StatusOK, views.LayoutProps{
		Title:      title,
		Body:       views.Article(rendered),
		Sidebar:    sidebar(page.URL),
		Crumbs:     breadcrumbs.Resolve(&nav, page.URL),
		LiveReload: s.hub != nil,
	})
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.buildNavigation(r.Context()))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, http.StatusNotFound, views.LayoutProps{
		Title: "Not Found",
		Body:  views.NotFound(r.URL.Path),
	})
}

// handleHealth returns the server health status for health checks
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	contentCheck := map[string]interface{}{"status": "healthy"}
	status := http.StatusOK
	overall := "healthy"
	if _, err := fs.Stat(s.content, "."); err != nil {
		contentCheck = map[string]interface{}{"status": "unhealthy", "message": "content root unreadable"}
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	liveReload := map[string]interface{}{"status": "disabled"}
	if s.hub != nil {
		liveReload = map[string]interface{}{"status": "healthy", "clients": s.hub.ClientCount()}
	}

	writeJSON(w, status, map[string]interface{}{
		"status":    overall,
		"timestamp": time.Now().UTC(),
		"version":   version.Get().Short(),
		"checks": map[string]interface{}{
			"content":     contentCheck,
			"live_reload": liveReload,
			"stats":       map[string]interface{}{"status": statsStatus(s.stats)},
		},
	})
}

func statsStatus(source stats.Source) string {
	if source == nil {
		return "disabled"
	}
	return "enabled"
}

// writePage renders the whole document before writing, so a render failure
// can still answer 500.
func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, props views.LayoutProps) {
	var buf bytes.Buffer
	if err := views.Layout(props).Render(r.Context(), &buf); err != nil {
		s.logger.Error(r.Context(), err, "Failed to render view", "path", r.URL.Path)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(buf.Bytes())
	}
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
