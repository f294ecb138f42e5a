package matching

import (
	"strings"

	"github.com/jwcastillo/imposter/internal/router"
	"github.com/jwcastillo/imposter/pkg/exchange"
)

const descriptionPath = "path"

// PathEvaluator matches the request path against the resource's configured
// path: trailing-"*" prefix wildcard, exact literal, then normalized
// template comparison against the route the transport matched.
type PathEvaluator struct{}

// NewPathEvaluator creates the path predicate evaluator.
func NewPathEvaluator() *PathEvaluator {
	return &PathEvaluator{}
}

// Evaluate applies the path matching policy.
func (e *PathEvaluator) Evaluate(res *ResolvedResource, ex *exchange.Exchange) (Result, error) {
	configured := res.Path
	if configured == "" {
		return NotConfigured(descriptionPath), nil
	}

	if strings.HasSuffix(configured, "*") {
		prefix := configured[:len(configured)-1]
		if strings.HasPrefix(ex.Path(), prefix) {
			return Wildcard(descriptionPath), nil
		}
		// No prefix match; the template comparison below is the last
		// chance for this resource.
	} else if configured == ex.Path() {
		return Exact(descriptionPath), nil
	}

	if ex.Route != nil && res.NormalizedPath == router.NormalizePath(ex.Route.Template) {
		return Exact(descriptionPath), nil
	}

	return Failed(descriptionPath), nil
}
