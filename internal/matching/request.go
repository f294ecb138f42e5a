package matching

import (
	"strings"

	"github.com/jwcastillo/imposter/pkg/exchange"
)

// The method, query-parameter, and request-header evaluators are the
// transport-level predicate categories. They follow the same four-state
// contract as the core categories; the aggregator and selector treat all
// categories alike.

const (
	descriptionMethod  = "method"
	descriptionQuery   = "query parameters"
	descriptionHeaders = "request headers"
)

// MethodEvaluator matches the HTTP method, case-insensitively.
type MethodEvaluator struct{}

// NewMethodEvaluator creates the method predicate evaluator.
func NewMethodEvaluator() *MethodEvaluator {
	return &MethodEvaluator{}
}

// Evaluate compares the configured method against the request's.
func (e *MethodEvaluator) Evaluate(res *ResolvedResource, ex *exchange.Exchange) (Result, error) {
	configured := res.Config.Method
	if configured == "" {
		return NotConfigured(descriptionMethod), nil
	}
	if strings.EqualFold(configured, ex.Method()) {
		return Exact(descriptionMethod), nil
	}
	return Failed(descriptionMethod), nil
}

// QueryParamsEvaluator requires every configured query parameter to equal
// its expected value. Each parameter counts toward the specificity score.
type QueryParamsEvaluator struct{}

// NewQueryParamsEvaluator creates the query-parameter predicate evaluator.
func NewQueryParamsEvaluator() *QueryParamsEvaluator {
	return &QueryParamsEvaluator{}
}

// Evaluate compares each configured query parameter against the request.
func (e *QueryParamsEvaluator) Evaluate(res *ResolvedResource, ex *exchange.Exchange) (Result, error) {
	configured := res.Config.QueryParams
	if len(configured) == 0 {
		return NotConfigured(descriptionQuery), nil
	}
	for name, expected := range configured {
		actual, ok := ex.Query(name)
		if !ok || actual != expected {
			return Failed(descriptionQuery), nil
		}
	}
	return ExactWeighted(descriptionQuery, len(configured)), nil
}

// RequestHeadersEvaluator requires every configured header to equal its
// expected value, with case-insensitive header names. Each header counts
// toward the specificity score.
type RequestHeadersEvaluator struct{}

// NewRequestHeadersEvaluator creates the request-header predicate evaluator.
func NewRequestHeadersEvaluator() *RequestHeadersEvaluator {
	return &RequestHeadersEvaluator{}
}

// Evaluate compares each configured header against the request.
func (e *RequestHeadersEvaluator) Evaluate(res *ResolvedResource, ex *exchange.Exchange) (Result, error) {
	configured := res.Config.RequestHeaders
	if len(configured) == 0 {
		return NotConfigured(descriptionHeaders), nil
	}
	for name, expected := range configured {
		actual, ok := ex.Header(name)
		if !ok || actual != expected {
			return Failed(descriptionHeaders), nil
		}
	}
	return ExactWeighted(descriptionHeaders, len(configured)), nil
}
