// Package server serves the documentation site: the landing page, the docs
// pages with their navigation, the stats API and the live reload socket.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/protoworx/rippledocs/internal/config"
	"github.com/protoworx/rippledocs/internal/content"
	"github.com/protoworx/rippledocs/internal/logging"
	"github.com/protoworx/rippledocs/internal/middleware"
	"github.com/protoworx/rippledocs/internal/navigation"
	"github.com/protoworx/rippledocs/internal/stats"
	"github.com/protoworx/rippledocs/internal/watcher"
	"github.com/protoworx/rippledocs/internal/websocket"
)

// Options are the dependencies of a Server. Only Config is required.
type Options struct {
	Config *config.Config
	Logger logging.Logger
	// Content overrides the content tree; it defaults to the directory at
	// Config.Content.Root.
	Content fs.FS
	// Stats is the source of repository, bundle and version data. A nil
	// Stats disables the stats API and the landing page stats.
	Stats stats.Source
}

// Server is the documentation HTTP server.
//
// Invariants:
// - navigation is rebuilt from content on every request that shows it
// - hub is nil when live reload is disabled
// - Shutdown runs its teardown once
type Server struct {
	config   *config.Config
	logger   logging.Logger
	content  fs.FS
	resolver *content.Resolver
	renderer *content.Renderer
	stats    stats.Source
	hub      *websocket.Hub
	chain    *middleware.Chain
	handler  http.Handler

	httpServer   *http.Server
	serverMutex  sync.Mutex
	shutdownOnce sync.Once
	shutdownErr  error
	watcher      *watcher.FileWatcher
}

// New creates a server. Nothing listens until Start.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("server: config cannot be nil")
	}
	cfg := opts.Config

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	contentFS := opts.Content
	if contentFS == nil {
		contentFS = os.DirFS(cfg.Content.Root)
	}

	basePath := cfg.Content.BasePath
	if basePath == "" {
		basePath = navigation.DefaultBasePath
	}

	s := &Server{
		config:   cfg,
		logger:   logger.WithComponent("server"),
		content:  contentFS,
		resolver: content.NewResolver(contentFS, basePath),
		renderer: content.NewRenderer(content.DefaultStyle),
		stats:    opts.Stats,
	}

	if cfg.Development.LiveReload {
		s.hub = websocket.NewHub(websocket.AllowList(cfg.Server.AllowedOrigins), logger)
	}

	s.chain = middleware.NewChain(middleware.Dependencies{Config: cfg, Logger: logger})
	s.handler = s.chain.Apply(s.routes(basePath))

	return s, nil
}

func (s *Server) routes(basePath string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/{$}", s.handleLanding)
	mux.HandleFunc(basePath, s.handleDocs)
	mux.HandleFunc(strings.TrimSuffix(basePath, "/")+"/", s.handleDocs)
	mux.HandleFunc("/api/navigation", s.handleNavigation)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/", s.handleNotFound)

	if s.stats != nil {
		stats.NewHandlers(s.stats, s.logger).Register(mux)
	}
	if s.hub != nil {
		mux.Handle("/ws", s.hub)
	}

	return mux
}

// Handler returns the full handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start watches the content root when live reload is enabled and serves
// HTTP until ctx is cancelled or the listener fails. Cancelling ctx shuts
// the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, fmt.Sprintf("%d", s.config.Server.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return s.Serve(ctx, listener)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.hub != nil {
		if err := s.startWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "Live reload disabled: cannot watch content", "root", s.config.Content.Root)
		}
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	httpServer := s.httpServer
	s.serverMutex.Unlock()

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		timeout := s.config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = config.DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn(shutdownCtx, err, "Graceful shutdown incomplete")
		}
	}()

	s.logger.Info(ctx, "Serving documentation", "addr", listener.Addr().String(), "content", s.config.Content.Root, "live_reload", s.hub != nil)

	err := httpServer.Serve(listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	if ctx.Err() != nil {
		<-shutdownDone
	}

	return nil
}

func (s *Server) startWatcher(ctx context.Context) error {
	fw, err := watcher.NewFileWatcher(watcher.DefaultDebounce, s.logger)
	if err != nil {
		return err
	}

	fw.AddFilter(watcher.ContentFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddHandler(s.handleContentChange)

	if err := fw.AddRecursive(s.config.Content.Root); err != nil {
		fw.Stop()
		return err
	}
	if err := fw.Start(ctx); err != nil {
		fw.Stop()
		return err
	}

	s.serverMutex.Lock()
	s.watcher = fw
	s.serverMutex.Unlock()

	return nil
}

func (s *Server) handleContentChange(events []watcher.ChangeEvent) error {
	for _, event := range events {
		s.logger.Info(context.Background(), "Content changed", "path", event.Path, "type", event.Type.String())
		s.hub.Reload(event.Path)
	}
	return nil
}

// Shutdown stops the watcher, closes the live reload connections and shuts
// the HTTP server down. It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		s.serverMutex.Lock()
		fw := s.watcher
		httpServer := s.httpServer
		s.serverMutex.Unlock()

		var errs []error
		if fw != nil {
			if err := fw.Stop(); err != nil {
				errs = append(errs, fmt.Errorf("stop watcher: %w", err))
			}
		}
		if s.hub != nil {
			if err := s.hub.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("close live reload: %w", err))
			}
		}
		s.chain.Stop()
		if httpServer != nil {
			if err := httpServer.Shutdown(ctx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown http: %w", err))
			}
		}

		s.shutdownErr = errors.Join(errs...)
	})

	return s.shutdownErr
}
