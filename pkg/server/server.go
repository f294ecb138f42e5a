// Package server hosts the mock engine: it loads plugin configurations,
// dispatches inbound requests through the matching core, and renders the
// winning resource's response behaviour.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jwcastillo/imposter/internal/matching"
	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/logging"
	"github.com/jwcastillo/imposter/pkg/plugin"
	"github.com/jwcastillo/imposter/pkg/script"
	"github.com/jwcastillo/imposter/pkg/store"
	"github.com/jwcastillo/imposter/pkg/template"
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// ConfigDir is scanned recursively for plugin configuration files.
	ConfigDir string

	// ScriptConcurrency bounds concurrent script executions; zero means
	// unbounded.
	ScriptConcurrency int

	// Watch enables configuration hot reload.
	Watch bool

	// Logger receives engine diagnostics. Defaults to a no-op logger.
	Logger *slog.Logger
}

// Server is the mock engine HTTP server. The active configuration lives in
// an immutable snapshot that reloads swap atomically, so an in-flight
// request always sees a self-consistent resource set.
type Server struct {
	opts     Options
	logger   *slog.Logger
	plugins  *plugin.Registry
	deps     plugin.Deps
	snapshot atomic.Pointer[snapshot]

	httpServer *http.Server
	watcher    *fsnotify.Watcher
}

// snapshot is one immutable view of all loaded plugins.
type snapshot struct {
	units []*unit
}

// unit pairs a plugin with the matcher built from its evaluator list.
type unit struct {
	plugin    plugin.Plugin
	matcher   *matching.Matcher
	responder *responder
}

// New creates a server and loads the initial configuration snapshot.
func New(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	engine := script.NewLimitedEngine(script.NewExprEngine(), opts.ScriptConcurrency)
	scripts := script.NewRegistry(engine)
	scripts.Register(script.ExprExtension, engine)

	stores := store.NewInMemoryFactory()
	resolver := template.NewResolver(stores)

	plugins := plugin.NewRegistry()
	RegisterBuiltinPlugins(plugins)

	s := &Server{
		opts:    opts,
		logger:  logger,
		plugins: plugins,
		deps: plugin.Deps{
			Resolver: resolver,
			Scripts:  scripts,
			Stores:   stores,
			Logger:   logger,
		},
	}

	snap, err := s.buildSnapshot()
	if err != nil {
		return nil, err
	}
	s.snapshot.Store(snap)
	return s, nil
}

// buildSnapshot loads every configuration file and constructs a fresh,
// fully resolved snapshot. Nothing in the running server is touched until
// the caller swaps the result in.
func (s *Server) buildSnapshot() (*snapshot, error) {
	configs, err := config.LoadDir(s.opts.ConfigDir)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{}
	for _, cfg := range configs {
		p, err := s.plugins.Create(cfg, s.deps)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize plugin %q: %w", cfg.Plugin, err)
		}
		snap.units = append(snap.units, &unit{
			plugin:    p,
			matcher:   matching.NewMatcher(p.Evaluators(), s.logger),
			responder: newResponder(p.Config(), s.deps, s.logger),
		})
		s.logger.Info("loaded plugin configuration",
			"plugin", p.Name(),
			"dir", cfg.Dir,
			"resources", len(p.Resources()),
		)
	}
	return snap, nil
}

// Reload rebuilds the snapshot from disk and swaps it in atomically. On
// failure the previous snapshot stays active.
func (s *Server) Reload() error {
	snap, err := s.buildSnapshot()
	if err != nil {
		return err
	}
	s.snapshot.Store(snap)
	s.logger.Info("configuration reloaded", "plugins", len(snap.units))
	return nil
}

// Start begins serving and blocks until the context is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.opts.Watch {
		if err := s.startWatcher(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mock engine listening", "addr", s.opts.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown stops the watcher and drains the HTTP server.
func (s *Server) Shutdown() error {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// startWatcher reloads the configuration when files under the config
// directory change. Events are debounced: editors produce bursts of
// writes for a single save.
func (s *Server) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to initialize config watcher: %w", err)
	}
	if err := watcher.Add(s.opts.ConfigDir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch config dir %s: %w", s.opts.ConfigDir, err)
	}
	s.watcher = watcher

	go func() {
		var debounce *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(300*time.Millisecond, func() {
					if err := s.Reload(); err != nil {
						s.logger.Error("configuration reload failed; keeping previous snapshot", "error", err)
					}
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("config watcher error", "error", err)
			}
		}
	}()
	return nil
}
