package exchange

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeCapturesBodyOnce(t *testing.T) {
	r := httptest.NewRequest("POST", "/pets", strings.NewReader(`{"id":"1"}`))
	e := New(httptest.NewRecorder(), r)

	assert.Equal(t, `{"id":"1"}`, e.BodyString())
	// Body1 must still be readable from the underlying request.
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(data))
}

func TestExchangeAccessors(t *testing.T) {
	r := httptest.NewRequest("GET", "/pets/99?sort=asc", nil)
	r.Header.Set("X-Custom-Header", "foo")
	e := New(httptest.NewRecorder(), r)

	assert.Equal(t, "/pets/99", e.Path())
	assert.Equal(t, "GET", e.Method())

	v, ok := e.Header("x-custom-header")
	assert.True(t, ok)
	assert.Equal(t, "foo", v)

	_, ok = e.Header("X-Missing")
	assert.False(t, ok)

	q, ok := e.Query("sort")
	assert.True(t, ok)
	assert.Equal(t, "asc", q)

	_, ok = e.Query("page")
	assert.False(t, ok)

	_, ok = e.PathParam("petId")
	assert.False(t, ok, "no route attached")

	routed := e.WithRoute(&Route{Template: "/pets/{petId}", Params: map[string]string{"petId": "99"}})
	p, ok := routed.PathParam("petId")
	assert.True(t, ok)
	assert.Equal(t, "99", p)

	// Original exchange is unchanged.
	assert.Nil(t, e.Route)
}

func TestExchangeEmptyBody(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	e := New(httptest.NewRecorder(), r)
	assert.Empty(t, e.Body())
	assert.Equal(t, "", e.BodyString())
}
