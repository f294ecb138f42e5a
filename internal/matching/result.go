// Package matching is the resource matching and dispatch core: it evaluates
// inbound requests against candidate resource configurations, aggregates
// per-category verdicts into a specificity score, and selects the winning
// resource under deterministic tie-break rules.
package matching

import (
	"fmt"
)

// ResultType is the verdict of one predicate category for one resource.
type ResultType int

const (
	// NoConfig means the category is not configured on the resource; it
	// contributes nothing, neither for nor against.
	NoConfig ResultType = iota

	// NotMatched means the category is configured and the request fails
	// it, disqualifying the resource.
	NotMatched

	// ExactMatch means the category is configured and satisfied precisely.
	ExactMatch

	// WildcardMatch means the category is satisfied only through a
	// prefix/wildcard relaxation: a match, but less specific than exact.
	WildcardMatch
)

func (t ResultType) String() string {
	switch t {
	case NoConfig:
		return "no config"
	case NotMatched:
		return "not matched"
	case ExactMatch:
		return "exact match"
	case WildcardMatch:
		return "wildcard match"
	default:
		return fmt.Sprintf("ResultType(%d)", int(t))
	}
}

// Result is the outcome of one predicate category against one request.
// Weight lets a category that combines several sub-conditions count each of
// them toward the specificity score.
type Result struct {
	// Description names the predicate category for diagnostics.
	Description string

	// Type is the verdict.
	Type ResultType

	// Weight is the score contribution when Type is a match. Always >= 1.
	Weight int
}

// NotConfigured builds a NoConfig result for a category.
func NotConfigured(description string) Result {
	return Result{Description: description, Type: NoConfig, Weight: 1}
}

// Failed builds a NotMatched result for a category.
func Failed(description string) Result {
	return Result{Description: description, Type: NotMatched, Weight: 1}
}

// Exact builds an ExactMatch result with weight 1.
func Exact(description string) Result {
	return Result{Description: description, Type: ExactMatch, Weight: 1}
}

// ExactWeighted builds an ExactMatch result counting weight sub-conditions.
func ExactWeighted(description string, weight int) Result {
	if weight < 1 {
		weight = 1
	}
	return Result{Description: description, Type: ExactMatch, Weight: weight}
}

// Wildcard builds a WildcardMatch result with weight 1.
func Wildcard(description string) Result {
	return Result{Description: description, Type: WildcardMatch, Weight: 1}
}

// MatchedResource is the aggregate verdict for one candidate resource.
type MatchedResource struct {
	// Resource is the candidate this verdict describes.
	Resource *ResolvedResource

	// Matched reports whether every configured predicate was satisfied and
	// at least one predicate was configured.
	Matched bool

	// Exact reports whether the match involved no wildcard relaxation.
	// Exact implies Matched.
	Exact bool

	// Score is the summed weight of all satisfied predicates. Only
	// meaningful when Matched is true.
	Score int
}
