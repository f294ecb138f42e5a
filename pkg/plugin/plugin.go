// Package plugin defines the contract between the engine and the plugins
// that interpret resource configurations. A plugin resolves its configured
// resources once at startup and names the predicate evaluators the matcher
// runs for them.
package plugin

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwcastillo/imposter/internal/matching"
	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/script"
	"github.com/jwcastillo/imposter/pkg/store"
	"github.com/jwcastillo/imposter/pkg/template"
)

// Plugin is one loaded plugin configuration, ready to serve requests.
type Plugin interface {
	// Name is the plugin type ("rest", "openapi").
	Name() string

	// Config is the underlying plugin configuration.
	Config() *config.PluginConfig

	// Resources is the resolved candidate list, in configuration order.
	Resources() []*matching.ResolvedResource

	// Evaluators is the ordered predicate evaluator list for this plugin.
	Evaluators() []matching.Evaluator
}

// Deps carries the shared collaborators plugins wire into their evaluators.
type Deps struct {
	Resolver *template.Resolver
	Scripts  *script.Registry
	Stores   store.Factory
	Logger   *slog.Logger
}

// Factory builds a plugin from its configuration.
type Factory func(cfg *config.PluginConfig, deps Deps) (Plugin, error)

// Registry maps plugin names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register claims a plugin name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Create builds the plugin named by cfg.Plugin.
func (r *Registry) Create(cfg *config.PluginConfig, deps Deps) (Plugin, error) {
	f, ok := r.factories[cfg.Plugin]
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownPlugin, cfg.Plugin)
	}
	return f(cfg, deps)
}

// LoadScript resolves a resource's eval reference. A reference ending in a
// registered script extension is read from disk relative to the
// configuration directory; anything else is treated as an inline script for
// the default engine.
func LoadScript(cfg *config.PluginConfig, scripts *script.Registry, eval string) (*script.Script, error) {
	for _, ext := range scripts.Extensions() {
		if !strings.HasSuffix(eval, "."+ext) {
			continue
		}
		path := filepath.Join(cfg.Dir, eval)
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read script %s: %w", path, err)
		}
		return &script.Script{Source: string(source), Ext: ext, Name: eval}, nil
	}
	return &script.Script{Source: eval, Name: "<inline>"}, nil
}

// ResolveResources resolves every resource in cfg, loading referenced
// scripts eagerly so missing files surface at startup rather than on the
// first matching request.
func ResolveResources(cfg *config.PluginConfig, scripts *script.Registry) ([]*matching.ResolvedResource, error) {
	resolved := make([]*matching.ResolvedResource, 0, len(cfg.Resources))
	for _, res := range cfg.Resources {
		rr, err := matching.Resolve(cfg, res, func(eval string) (*script.Script, error) {
			return LoadScript(cfg, scripts, eval)
		})
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, rr)
	}
	return resolved, nil
}
