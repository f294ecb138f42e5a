// Package script is the boundary between the matching engine and the
// pluggable script engines. Engines are interchangeable and selected by the
// script file's extension; inline scripts use the default engine.
package script

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/jwcastillo/imposter/pkg/exchange"
	"github.com/jwcastillo/imposter/pkg/store"
)

// Common errors.
var (
	ErrNoEngine = errors.New("no script engine registered for extension")
)

// Script is a resolved script: its source text plus the extension it was
// loaded from ("" for inline scripts).
type Script struct {
	// Source is the script text.
	Source string

	// Ext is the originating file extension without the dot, empty for
	// inline scripts.
	Ext string

	// Name identifies the script in logs and errors (file path or
	// "<inline>").
	Name string
}

// ResponseBehaviour is the outcome of a response-generating script.
type ResponseBehaviour struct {
	StatusCode int
	Headers    map[string]string
	Content    string
}

// Engine executes user scripts. Implementations must be safe for concurrent
// use; one engine instance serves all requests.
type Engine interface {
	// Evaluate runs a predicate script and returns its boolean outcome.
	// A script error is a configuration defect and fails the whole
	// matching pass, so implementations must not mask it.
	Evaluate(ctx context.Context, s Script, rt *Runtime) (bool, error)

	// Execute runs a response-generating script.
	Execute(ctx context.Context, s Script, rt *Runtime) (*ResponseBehaviour, error)
}

// Registry selects an engine by script extension.
type Registry struct {
	engines map[string]Engine
	def     Engine
}

// NewRegistry creates a registry whose default engine handles inline
// scripts and unclaimed extensions are rejected.
func NewRegistry(def Engine) *Registry {
	return &Registry{engines: make(map[string]Engine), def: def}
}

// Register claims an extension (without the dot) for an engine.
func (r *Registry) Register(ext string, e Engine) {
	r.engines[strings.ToLower(ext)] = e
}

// EngineFor returns the engine responsible for a script.
func (r *Registry) EngineFor(s Script) (Engine, error) {
	if s.Ext == "" {
		return r.def, nil
	}
	e, ok := r.engines[strings.ToLower(s.Ext)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", ErrNoEngine, s.Ext, s.Name)
	}
	return e, nil
}

// Extensions lists the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.engines))
	for ext := range r.engines {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Runtime is the request context handed to scripts.
type Runtime struct {
	exchange *exchange.Exchange
	stores   store.Factory
}

// NewRuntime builds a script runtime for one exchange. stores may be nil.
func NewRuntime(ex *exchange.Exchange, stores store.Factory) *Runtime {
	return &Runtime{exchange: ex, stores: stores}
}

// Env materializes the variables scripts can reference: request data under
// "request" and an open-by-name store accessor under "stores".
func (rt *Runtime) Env() map[string]any {
	headers := make(map[string]string)
	for name := range rt.exchange.Headers() {
		headers[http.CanonicalHeaderKey(name)] = rt.exchange.Headers().Get(name)
	}

	query := make(map[string]string)
	for name, values := range rt.exchange.Request.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}

	pathParams := make(map[string]string)
	if rt.exchange.Route != nil {
		for k, v := range rt.exchange.Route.Params {
			pathParams[k] = v
		}
	}

	env := map[string]any{
		"request": map[string]any{
			"method":      rt.exchange.Method(),
			"path":        rt.exchange.Path(),
			"headers":     headers,
			"queryParams": query,
			"pathParams":  pathParams,
			"body":        rt.exchange.BodyString(),
		},
	}
	if rt.stores != nil {
		env["stores"] = func(name string) map[string]any {
			return rt.stores.Open(name).LoadAll()
		}
	}
	return env
}
