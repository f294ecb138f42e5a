package matching

import (
	"fmt"

	"github.com/jwcastillo/imposter/pkg/exchange"
	"github.com/jwcastillo/imposter/pkg/script"
	"github.com/jwcastillo/imposter/pkg/store"
)

const descriptionScript = "script"

// ScriptEvaluator invokes the script execution boundary for resources with
// a predicate script. The matching engine does not interpret script
// content; it only consumes the boolean outcome. A script failure is a
// configuration defect and aborts the whole matching pass.
type ScriptEvaluator struct {
	registry *script.Registry
	stores   store.Factory
}

// NewScriptEvaluator creates the script predicate evaluator. stores may be
// nil when scripts do not use stores.
func NewScriptEvaluator(registry *script.Registry, stores store.Factory) *ScriptEvaluator {
	return &ScriptEvaluator{registry: registry, stores: stores}
}

// Evaluate runs the resource's predicate script, if one is configured.
func (e *ScriptEvaluator) Evaluate(res *ResolvedResource, ex *exchange.Exchange) (Result, error) {
	if res.Script == nil {
		return NotConfigured(descriptionScript), nil
	}

	engine, err := e.registry.EngineFor(*res.Script)
	if err != nil {
		return Result{}, err
	}

	rt := script.NewRuntime(ex, e.stores)
	ok, err := engine.Evaluate(ex.Request.Context(), *res.Script, rt)
	if err != nil {
		return Result{}, fmt.Errorf("predicate script failed for resource %s: %w", res.Config.ID, err)
	}

	if ok {
		return Exact(descriptionScript), nil
	}
	return Failed(descriptionScript), nil
}
