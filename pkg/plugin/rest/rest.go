// Package rest implements the default plugin: resources come straight from
// the configuration file and are matched with the full predicate set.
package rest

import (
	"github.com/jwcastillo/imposter/internal/matching"
	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/plugin"
)

// PluginName is the name this plugin registers under.
const PluginName = "rest"

// Plugin serves declaratively configured REST resources.
type Plugin struct {
	cfg        *config.PluginConfig
	resources  []*matching.ResolvedResource
	evaluators []matching.Evaluator
}

// New builds a rest plugin from its configuration.
func New(cfg *config.PluginConfig, deps plugin.Deps) (plugin.Plugin, error) {
	resources, err := plugin.ResolveResources(cfg, deps.Scripts)
	if err != nil {
		return nil, err
	}
	return &Plugin{
		cfg:        cfg,
		resources:  resources,
		evaluators: matching.DefaultEvaluators(deps.Resolver, deps.Scripts, deps.Stores),
	}, nil
}

// Name is the plugin type.
func (p *Plugin) Name() string { return PluginName }

// Config is the underlying plugin configuration.
func (p *Plugin) Config() *config.PluginConfig { return p.cfg }

// Resources is the resolved candidate list, in configuration order.
func (p *Plugin) Resources() []*matching.ResolvedResource { return p.resources }

// Evaluators is the ordered predicate evaluator list.
func (p *Plugin) Evaluators() []matching.Evaluator { return p.evaluators }
