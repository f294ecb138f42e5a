package matching

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwcastillo/imposter/internal/router"
	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/exchange"
	"github.com/jwcastillo/imposter/pkg/script"
)

// resolve builds a ResolvedResource the way plugins do at startup, treating
// any eval content as an inline script.
func resolve(t *testing.T, cfg *config.PluginConfig, res *config.ResourceConfig) *ResolvedResource {
	t.Helper()
	resolved, err := Resolve(cfg, res, func(eval string) (*script.Script, error) {
		return &script.Script{Source: eval, Name: "<inline>"}, nil
	})
	require.NoError(t, err)
	return resolved
}

func resolveAll(t *testing.T, cfg *config.PluginConfig) []*ResolvedResource {
	t.Helper()
	out := make([]*ResolvedResource, 0, len(cfg.Resources))
	for _, res := range cfg.Resources {
		out = append(out, resolve(t, cfg, res))
	}
	return out
}

type requestSpec struct {
	method  string
	target  string
	body    string
	headers map[string]string
	// route, when non-empty, simulates the transport layer having matched
	// this path template.
	route string
}

func newExchange(t *testing.T, spec requestSpec) *exchange.Exchange {
	t.Helper()
	if spec.method == "" {
		spec.method = "GET"
	}
	r := httptest.NewRequest(spec.method, spec.target, strings.NewReader(spec.body))
	for name, value := range spec.headers {
		r.Header.Set(name, value)
	}
	ex := exchange.New(httptest.NewRecorder(), r)
	if spec.route != "" {
		ex = ex.WithRoute(&exchange.Route{
			Template: spec.route,
			Params:   router.ExtractParams(spec.route, r.URL.Path),
		})
	}
	return ex
}
