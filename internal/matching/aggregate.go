package matching

// Aggregate combines the per-category results for one candidate into its
// verdict:
//
//   - Matched: no category failed, and at least one category is configured.
//     A resource with no predicates at all never matches, so an empty
//     resource cannot swallow every request.
//   - Exact: matched without any wildcard relaxation. One wildcard among
//     the results downgrades the whole resource regardless of how many
//     other categories matched exactly.
//   - Score: summed weight of the satisfied categories. Failed and
//     unconfigured categories contribute nothing.
func Aggregate(res *ResolvedResource, results []Result) MatchedResource {
	matched := true
	allUnconfigured := true
	exact := true
	score := 0

	for _, r := range results {
		switch r.Type {
		case NotMatched:
			matched = false
			allUnconfigured = false
		case ExactMatch:
			allUnconfigured = false
			score += r.Weight
		case WildcardMatch:
			allUnconfigured = false
			exact = false
			score += r.Weight
		case NoConfig:
			// Contributes nothing, neither for nor against.
		}
	}

	matched = matched && !allUnconfigured
	return MatchedResource{
		Resource: res,
		Matched:  matched,
		Exact:    matched && exact,
		Score:    score,
	}
}
