package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	res := &ResolvedResource{}

	tests := []struct {
		name        string
		results     []Result
		wantMatched bool
		wantExact   bool
		wantScore   int
	}{
		{
			name:        "all unconfigured never matches",
			results:     []Result{NotConfigured("path"), NotConfigured("request body")},
			wantMatched: false,
			wantExact:   false,
			wantScore:   0,
		},
		{
			name:        "empty result list never matches",
			results:     nil,
			wantMatched: false,
		},
		{
			name:        "single exact",
			results:     []Result{Exact("path")},
			wantMatched: true,
			wantExact:   true,
			wantScore:   1,
		},
		{
			name:        "exact plus unconfigured",
			results:     []Result{Exact("path"), NotConfigured("request body"), NotConfigured("script")},
			wantMatched: true,
			wantExact:   true,
			wantScore:   1,
		},
		{
			name:        "one failure disqualifies",
			results:     []Result{Exact("path"), Failed("request body")},
			wantMatched: false,
			wantExact:   false,
			wantScore:   1,
		},
		{
			name:        "single wildcard downgrades exactness",
			results:     []Result{Wildcard("path"), Exact("request body"), Exact("method")},
			wantMatched: true,
			wantExact:   false,
			wantScore:   3,
		},
		{
			name:        "weights accumulate",
			results:     []Result{Exact("path"), ExactWeighted("allOf", 3)},
			wantMatched: true,
			wantExact:   true,
			wantScore:   4,
		},
		{
			name:        "wildcard weight counts toward score",
			results:     []Result{Wildcard("path"), ExactWeighted("allOf", 2)},
			wantMatched: true,
			wantExact:   false,
			wantScore:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Aggregate(res, tt.results)
			assert.Equal(t, tt.wantMatched, verdict.Matched, "matched")
			assert.Equal(t, tt.wantExact, verdict.Exact, "exact")
			assert.Equal(t, tt.wantScore, verdict.Score, "score")
			if verdict.Exact {
				assert.True(t, verdict.Matched, "exact implies matched")
			}
		})
	}
}

func TestExactWeightedFloorsAtOne(t *testing.T) {
	assert.Equal(t, 1, ExactWeighted("allOf", 0).Weight)
	assert.Equal(t, 1, ExactWeighted("allOf", -3).Weight)
}

func TestResultTypeString(t *testing.T) {
	assert.Equal(t, "no config", NoConfig.String())
	assert.Equal(t, "not matched", NotMatched.String())
	assert.Equal(t, "exact match", ExactMatch.String())
	assert.Equal(t, "wildcard match", WildcardMatch.String())
}
