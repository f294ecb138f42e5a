package matching

import (
	"log/slog"
	"sort"

	"github.com/jwcastillo/imposter/pkg/exchange"
	"github.com/jwcastillo/imposter/pkg/logging"
)

// Matcher runs an ordered list of predicate evaluators over candidate
// resources and selects matches. A Matcher is immutable after construction
// and safe for concurrent use.
type Matcher struct {
	evaluators []Evaluator
	logger     *slog.Logger
}

// NewMatcher creates a matcher with the given evaluator list. The list
// order determines result order per candidate but not the verdict. A nil
// logger disables diagnostics.
func NewMatcher(evaluators []Evaluator, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Matcher{evaluators: evaluators, logger: logger}
}

// EvaluateResource runs every evaluator against one candidate and
// aggregates the results.
func (m *Matcher) EvaluateResource(res *ResolvedResource, ex *exchange.Exchange) (MatchedResource, error) {
	results := make([]Result, 0, len(m.evaluators))
	for _, ev := range m.evaluators {
		result, err := ev.Evaluate(res, ex)
		if err != nil {
			return MatchedResource{}, err
		}
		results = append(results, result)
	}
	return Aggregate(res, results), nil
}

// MatchAll returns every matching candidate in original configuration
// order, for callers that compose over all applicable resources.
func (m *Matcher) MatchAll(candidates []*ResolvedResource, ex *exchange.Exchange) ([]MatchedResource, error) {
	var matched []MatchedResource
	for _, res := range candidates {
		verdict, err := m.EvaluateResource(res, ex)
		if err != nil {
			return nil, err
		}
		if verdict.Matched {
			matched = append(matched, verdict)
		}
	}
	return matched, nil
}

// MatchOne returns the single best-matching candidate, or nil when none
// matches. Exact matches beat wildcard matches; among exact matches a
// strictly higher specificity score wins; remaining ties resolve to the
// first candidate in original configuration order, with a warning, so
// behavior is reproducible across runs.
func (m *Matcher) MatchOne(candidates []*ResolvedResource, ex *exchange.Exchange) (*MatchedResource, error) {
	matched, err := m.MatchAll(candidates, ex)
	if err != nil {
		return nil, err
	}

	switch len(matched) {
	case 0:
		return nil, nil
	case 1:
		return &matched[0], nil
	}

	exact := make([]MatchedResource, 0, len(matched))
	for _, v := range matched {
		if v.Exact {
			exact = append(exact, v)
		}
	}

	switch len(exact) {
	case 0:
		// Wildcard-only collision: no candidate is meaningfully best.
		m.logger.Warn("multiple wildcard matches and no exact match; using first configured",
			"path", ex.Path(),
			"method", ex.Method(),
			"candidates", len(matched),
			"resource", matched[0].Resource.Config.ID,
		)
		return &matched[0], nil
	case 1:
		return &exact[0], nil
	}

	// Stable sort preserves configuration order among equal scores.
	sort.SliceStable(exact, func(i, j int) bool {
		return exact[i].Score > exact[j].Score
	})

	if exact[0].Score > exact[1].Score {
		return &exact[0], nil
	}

	m.logger.Warn("multiple exact matches with equal specificity; using first configured",
		"path", ex.Path(),
		"method", ex.Method(),
		"score", exact[0].Score,
		"resource", exact[0].Resource.Config.ID,
	)
	return &exact[0], nil
}
