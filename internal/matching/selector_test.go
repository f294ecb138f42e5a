package matching

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/script"
	"github.com/jwcastillo/imposter/pkg/store"
	"github.com/jwcastillo/imposter/pkg/template"
)

func newTestMatcher(t *testing.T) (*Matcher, *bytes.Buffer) {
	t.Helper()
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	engine := script.NewExprEngine()
	registry := script.NewRegistry(engine)
	registry.Register(script.ExprExtension, engine)

	stores := store.NewInMemoryFactory()
	evaluators := DefaultEvaluators(template.NewResolver(stores), registry, stores)
	return NewMatcher(evaluators, logger), &logBuf
}

func TestMatchOnePrefersHigherScore(t *testing.T) {
	// Scenario: a plain path resource vs the same path plus a body rule.
	// Both match; the body rule adds specificity.
	cfg := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "plain", Path: "/pets"},
		{ID: "with-body", Path: "/pets", RequestBody: &config.RequestBodyConfig{
			BodyMatchCondition: config.BodyMatchCondition{JSONPath: "$.id", Value: "1"},
		}},
	}}
	m, logBuf := newTestMatcher(t)

	ex := newExchange(t, requestSpec{method: "POST", target: "/pets", body: `{"id":"1"}`})
	winner, err := m.MatchOne(resolveAll(t, cfg), ex)
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, "with-body", winner.Resource.Config.ID)
	assert.Equal(t, 2, winner.Score, "path exact + body exact")
	assert.Empty(t, logBuf.String(), "unambiguous selection logs nothing")
}

func TestMatchOnePrefersExactOverWildcard(t *testing.T) {
	// Scenario: wildcard path vs template path for the same request;
	// declaration order must not matter.
	wildcardFirst := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "wildcard", Path: "/pets/*"},
		{ID: "template", Path: "/pets/{petId}"},
	}}
	templateFirst := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "template", Path: "/pets/{petId}"},
		{ID: "wildcard", Path: "/pets/*"},
	}}

	for _, cfg := range []*config.PluginConfig{wildcardFirst, templateFirst} {
		m, _ := newTestMatcher(t)
		ex := newExchange(t, requestSpec{target: "/pets/99", route: "/pets/{petId}"})
		winner, err := m.MatchOne(resolveAll(t, cfg), ex)
		require.NoError(t, err)
		require.NotNil(t, winner)
		assert.Equal(t, "template", winner.Resource.Config.ID)
		assert.True(t, winner.Exact)
	}
}

func TestMatchOneTieBreaksByConfigurationOrder(t *testing.T) {
	// Scenario: two identical resources; the first declared wins, with a
	// warning, and the choice is stable across runs.
	cfg := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "a", Path: "/pets"},
		{ID: "b", Path: "/pets"},
	}}
	m, logBuf := newTestMatcher(t)
	candidates := resolveAll(t, cfg)

	for i := 0; i < 5; i++ {
		winner, err := m.MatchOne(candidates, newExchange(t, requestSpec{target: "/pets"}))
		require.NoError(t, err)
		require.NotNil(t, winner)
		assert.Equal(t, "a", winner.Resource.Config.ID)
	}
	assert.Contains(t, logBuf.String(), "equal specificity")
}

func TestMatchOneWildcardOnlyCollision(t *testing.T) {
	cfg := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "w1", Path: "/pets/*"},
		{ID: "w2", Path: "/pets/9*"},
	}}
	m, logBuf := newTestMatcher(t)

	winner, err := m.MatchOne(resolveAll(t, cfg), newExchange(t, requestSpec{target: "/pets/99"}))
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, "w1", winner.Resource.Config.ID, "first configured wins")
	assert.False(t, winner.Exact)
	assert.Contains(t, logBuf.String(), "no exact match")
}

func TestMatchOneNoCandidates(t *testing.T) {
	cfg := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "a", Path: "/pets"},
	}}
	m, _ := newTestMatcher(t)

	winner, err := m.MatchOne(resolveAll(t, cfg), newExchange(t, requestSpec{target: "/cats"}))
	require.NoError(t, err)
	assert.Nil(t, winner)
}

func TestMatchOneEmptyResourceNeverMatches(t *testing.T) {
	cfg := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "empty"},
	}}
	m, _ := newTestMatcher(t)

	winner, err := m.MatchOne(resolveAll(t, cfg), newExchange(t, requestSpec{target: "/anything"}))
	require.NoError(t, err)
	assert.Nil(t, winner, "a resource with no predicates must not swallow requests")
}

func TestMatchOneAllOfScenario(t *testing.T) {
	// Scenario: resource requires two body conditions, request satisfies
	// only one; nothing else matches, so the result is none.
	cfg := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "strict", Path: "/pets", RequestBody: &config.RequestBodyConfig{
			AllOf: []config.BodyMatchCondition{
				{JSONPath: "$.id", Value: "1"},
				{JSONPath: "$.name", Value: "fluffy"},
			},
		}},
	}}
	m, _ := newTestMatcher(t)

	ex := newExchange(t, requestSpec{method: "POST", target: "/pets", body: `{"id":"1","name":"rex"}`})
	winner, err := m.MatchOne(resolveAll(t, cfg), ex)
	require.NoError(t, err)
	assert.Nil(t, winner)
}

func TestMatchOneScriptPredicate(t *testing.T) {
	cfg := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "scripted", Path: "/pets", Eval: `request.queryParams.admin == "true"`},
	}}
	m, _ := newTestMatcher(t)
	candidates := resolveAll(t, cfg)

	winner, err := m.MatchOne(candidates, newExchange(t, requestSpec{target: "/pets?admin=true"}))
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, "scripted", winner.Resource.Config.ID)

	winner, err = m.MatchOne(candidates, newExchange(t, requestSpec{target: "/pets?admin=false"}))
	require.NoError(t, err)
	assert.Nil(t, winner, "false script predicate disqualifies the resource")
}

func TestMatchOneScriptFailurePropagates(t *testing.T) {
	cfg := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "broken", Path: "/pets", Eval: `request.method ==`},
	}}
	m, _ := newTestMatcher(t)

	_, err := m.MatchOne(resolveAll(t, cfg), newExchange(t, requestSpec{target: "/pets"}))
	require.Error(t, err, "a failing predicate script is a visible defect, not a skipped candidate")
	assert.Contains(t, err.Error(), "broken")
}

func TestMatchAllPreservesOrder(t *testing.T) {
	cfg := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "a", Path: "/pets"},
		{ID: "other", Path: "/cats"},
		{ID: "b", Path: "/pets"},
		{ID: "c", Path: "/pets/*"},
	}}
	m, _ := newTestMatcher(t)

	matched, err := m.MatchAll(resolveAll(t, cfg), newExchange(t, requestSpec{target: "/pets"}))
	require.NoError(t, err)

	ids := make([]string, len(matched))
	for i, v := range matched {
		ids[i] = v.Resource.Config.ID
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids, "subset of candidates in original relative order")
}

func TestMatchAllAgreesWithPerResourceVerdicts(t *testing.T) {
	cfg := &config.PluginConfig{Plugin: "rest", Resources: []*config.ResourceConfig{
		{ID: "a", Path: "/pets"},
		{ID: "b", Path: "/cats"},
		{ID: "c", Path: "/pets", Method: "GET"},
	}}
	m, _ := newTestMatcher(t)
	candidates := resolveAll(t, cfg)
	ex := newExchange(t, requestSpec{target: "/pets"})

	matched, err := m.MatchAll(candidates, ex)
	require.NoError(t, err)

	want := make(map[string]bool)
	for _, res := range candidates {
		verdict, err := m.EvaluateResource(res, ex)
		require.NoError(t, err)
		if verdict.Matched {
			want[res.Config.ID] = true
		}
	}

	got := make(map[string]bool)
	for _, v := range matched {
		got[v.Resource.Config.ID] = true
	}
	assert.Equal(t, want, got)
}
