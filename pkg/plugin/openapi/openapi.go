// Package openapi implements the OpenAPI plugin: resources are derived
// from the paths and operations of an OpenAPI document, with example
// responses becoming response behaviours. Resources declared explicitly in
// the configuration file are kept ahead of the derived ones, so they win
// order-based tie-breaks.
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	"github.com/jwcastillo/imposter/internal/matching"
	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/plugin"
)

// PluginName is the name this plugin registers under.
const PluginName = "openapi"

// ErrNoSpecFile indicates a missing specFile entry in the configuration.
var ErrNoSpecFile = errors.New("openapi plugin requires specFile")

// Plugin serves mock resources derived from an OpenAPI document.
type Plugin struct {
	cfg        *config.PluginConfig
	resources  []*matching.ResolvedResource
	evaluators []matching.Evaluator
}

// New parses the configured OpenAPI document and builds the plugin.
func New(cfg *config.PluginConfig, deps plugin.Deps) (plugin.Plugin, error) {
	if cfg.SpecFile == "" {
		return nil, ErrNoSpecFile
	}
	specPath := filepath.Join(cfg.Dir, cfg.SpecFile)

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec %s: %w", specPath, err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec %s: %w", specPath, err)
	}

	derived := deriveResources(doc)
	deps.Logger.Info("derived resources from OpenAPI spec",
		"spec", cfg.SpecFile,
		"resources", len(derived),
	)

	// Explicitly declared resources stay first: declaration order is the
	// final tie-break during selection.
	merged := *cfg
	merged.Resources = append(append([]*config.ResourceConfig{}, cfg.Resources...), derived...)

	resources, err := plugin.ResolveResources(&merged, deps.Scripts)
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

// Resources is the resolved candidate list.
func (p *Plugin) Resources() []*matching.ResolvedResource { return p.resources }

// Evaluators is the ordered predicate evaluator list.
func (p *Plugin) Evaluators() []matching.Evaluator { return p.evaluators }

// deriveResources builds one resource per path/operation pair, in stable
// path-then-method order. OpenAPI path templates use the same "{param}"
// syntax as resource paths, so they carry over verbatim.
func deriveResources(doc *openapi3.T) []*config.ResourceConfig {
	var resources []*config.ResourceConfig

	paths := doc.Paths.Map()
	pathNames := make([]string, 0, len(paths))
	for name := range paths {
		pathNames = append(pathNames, name)
	}
	sort.Strings(pathNames)

	for _, pathName := range pathNames {
		operations := paths[pathName].Operations()
		methods := make([]string, 0, len(operations))
		for method := range operations {
			methods = append(methods, method)
		}
		sort.Strings(methods)

		for _, method := range methods {
			resources = append(resources, &config.ResourceConfig{
				ID:       uuid.New().String(),
				Path:     pathName,
				Method:   method,
				Response: deriveResponse(operations[method]),
			})
		}
	}
	return resources
}

// deriveResponse picks the operation's lowest 2xx response and renders its
// JSON example, when one exists. Operations without a success response
// mock as an empty 200.
func deriveResponse(op *openapi3.Operation) *config.ResponseConfig {
	response := &config.ResponseConfig{StatusCode: 200}
	if op.Responses == nil {
		return response
	}

	status, ref := lowestSuccess(op.Responses.Map())
	if ref == nil || ref.Value == nil {
		return response
	}
	response.StatusCode = status

	media := ref.Value.Content.Get("application/json")
	if media == nil {
		return response
	}

	example := media.Example
	if example == nil && media.Schema != nil && media.Schema.Value != nil {
		example = media.Schema.Value.Example
	}
	if example == nil {
		return response
	}

	encoded, err := json.Marshal(example)
	if err != nil {
		return response
	}
	response.Content = string(encoded)
	response.Headers = map[string]string{"Content-Type": "application/json"}
	return response
}

func lowestSuccess(responses map[string]*openapi3.ResponseRef) (int, *openapi3.ResponseRef) {
	best := 0
	var bestRef *openapi3.ResponseRef
	for code, ref := range responses {
		status, err := strconv.Atoi(code)
		if err != nil || status < 200 || status > 299 {
			continue
		}
		if bestRef == nil || status < best {
			best = status
			bestRef = ref
		}
	}
	return best, bestRef
}
