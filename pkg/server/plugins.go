package server

import (
	"github.com/jwcastillo/imposter/pkg/plugin"
	"github.com/jwcastillo/imposter/pkg/plugin/openapi"
	"github.com/jwcastillo/imposter/pkg/plugin/rest"
)

// RegisterBuiltinPlugins installs the plugins shipped with the engine.
func RegisterBuiltinPlugins(r *plugin.Registry) {
	r.Register(rest.PluginName, rest.New)
	r.Register(openapi.PluginName, openapi.New)
}
