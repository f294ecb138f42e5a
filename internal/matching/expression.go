package matching

import (
	"github.com/jwcastillo/imposter/pkg/condition"
	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/exchange"
	"github.com/jwcastillo/imposter/pkg/template"
)

const (
	descriptionExprAllOf = "allOf"
	descriptionExprAnyOf = "anyOf"
	descriptionExpr      = "expressions"
)

// ExpressionEvaluator matches allOf/anyOf lists of expression predicates.
// Each expression template is resolved against the request, then compared
// to its expected value through the condition matcher.
type ExpressionEvaluator struct {
	resolver *template.Resolver
}

// NewExpressionEvaluator creates the expression predicate evaluator.
func NewExpressionEvaluator(resolver *template.Resolver) *ExpressionEvaluator {
	return &ExpressionEvaluator{resolver: resolver}
}

// Evaluate applies the expression predicates, if any are configured.
// allOf takes precedence when both lists are present.
func (e *ExpressionEvaluator) Evaluate(res *ResolvedResource, ex *exchange.Exchange) (Result, error) {
	switch {
	case len(res.Config.AllOf) > 0:
		for _, em := range res.Config.AllOf {
			if !e.matchExpression(em, ex) {
				return Failed(descriptionExprAllOf), nil
			}
		}
		return ExactWeighted(descriptionExprAllOf, len(res.Config.AllOf)), nil

	case len(res.Config.AnyOf) > 0:
		for _, em := range res.Config.AnyOf {
			if e.matchExpression(em, ex) {
				return Exact(descriptionExprAnyOf), nil
			}
		}
		return Failed(descriptionExprAnyOf), nil

	default:
		return NotConfigured(descriptionExpr), nil
	}
}

func (e *ExpressionEvaluator) matchExpression(em config.ExpressionMatchConfig, ex *exchange.Exchange) bool {
	op, _ := condition.ParseOperator(em.Operator)

	resolved, present := e.resolver.ResolveChecked(em.Expression, ex)
	var actual *string
	if present {
		actual = &resolved
	}
	return condition.Match(em.Value, op, actual)
}
