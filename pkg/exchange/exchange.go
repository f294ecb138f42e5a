// Package exchange provides the read-only request view that predicate
// evaluators and scripts operate on.
package exchange

import (
	"bytes"
	"io"
	"net/http"
)

// Route describes the path-template route the transport layer matched for a
// request, together with the parameter values extracted from the path.
// Route is nil on an Exchange when no template route applied.
type Route struct {
	// Template is the route's own path template, e.g. "/pets/{petId}".
	Template string

	// Params maps parameter names to the values extracted from the path.
	Params map[string]string
}

// Exchange wraps one in-flight HTTP request. The body is read exactly once
// at construction and restored on the underlying request so downstream
// handlers can still consume it.
//
// An Exchange is read-only during matching and must not be retained after
// the response is dispatched.
type Exchange struct {
	Request *http.Request
	Writer  http.ResponseWriter
	Route   *Route

	body []byte
}

// New builds an Exchange for r, capturing the request body.
func New(w http.ResponseWriter, r *http.Request) *Exchange {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
	}
	return &Exchange{Request: r, Writer: w, body: body}
}

// WithRoute returns a shallow copy of the exchange carrying route info.
func (e *Exchange) WithRoute(route *Route) *Exchange {
	clone := *e
	clone.Route = route
	return &clone
}

// Path returns the request URL path.
func (e *Exchange) Path() string {
	return e.Request.URL.Path
}

// Method returns the request method.
func (e *Exchange) Method() string {
	return e.Request.Method
}

// Header looks up a request header, case-insensitively. The second return
// reports whether the header is present at all.
func (e *Exchange) Header(name string) (string, bool) {
	values := e.Request.Header.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Headers returns the request headers.
func (e *Exchange) Headers() http.Header {
	return e.Request.Header
}

// Query looks up a query parameter. The second return reports presence.
func (e *Exchange) Query(name string) (string, bool) {
	values, ok := e.Request.URL.Query()[name]
	if !ok || len(values) == 0 {
		return "", ok
	}
	return values[0], true
}

// PathParam looks up a route parameter extracted by template routing.
func (e *Exchange) PathParam(name string) (string, bool) {
	if e.Route == nil {
		return "", false
	}
	v, ok := e.Route.Params[name]
	return v, ok
}

// Body returns the raw request body. Never nil; empty for bodyless requests.
func (e *Exchange) Body() []byte {
	return e.body
}

// BodyString returns the request body decoded as a string.
func (e *Exchange) BodyString() string {
	return string(e.body)
}
