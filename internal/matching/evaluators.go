package matching

import (
	"github.com/jwcastillo/imposter/pkg/script"
	"github.com/jwcastillo/imposter/pkg/store"
	"github.com/jwcastillo/imposter/pkg/template"
)

// DefaultEvaluators is the full predicate category list in evaluation
// order. Cheap structural categories run first; the script category runs
// last since it may call out to a script engine. Plugins append their own
// categories to this list.
func DefaultEvaluators(resolver *template.Resolver, registry *script.Registry, stores store.Factory) []Evaluator {
	return []Evaluator{
		NewPathEvaluator(),
		NewMethodEvaluator(),
		NewQueryParamsEvaluator(),
		NewRequestHeadersEvaluator(),
		NewBodyEvaluator(),
		NewExpressionEvaluator(resolver),
		NewScriptEvaluator(registry, stores),
	}
}
