package matching

import (
	"github.com/jwcastillo/imposter/pkg/exchange"
)

// Evaluator computes one predicate category's verdict for one candidate
// resource. Implementations are stateless and pure: safe for concurrent use
// across in-flight requests with no locking.
//
// A returned error aborts the whole matching pass for the request; only the
// script evaluator produces one. An unsatisfied predicate is a NotMatched
// result, not an error.
type Evaluator interface {
	Evaluate(res *ResolvedResource, ex *exchange.Exchange) (Result, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(res *ResolvedResource, ex *exchange.Exchange) (Result, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(res *ResolvedResource, ex *exchange.Exchange) (Result, error) {
	return f(res, ex)
}
