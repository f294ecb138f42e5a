package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTemplate(t *testing.T) {
	assert.True(t, IsTemplate("/pets/{petId}"))
	assert.True(t, IsTemplate("/a/{x}/b/{y}"))
	assert.False(t, IsTemplate("/pets"))
	assert.False(t, IsTemplate("/pets/*"))
	assert.False(t, IsTemplate("/open{brace"))
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "literal unchanged", in: "/pets", want: "/pets"},
		{name: "single param", in: "/pets/{petId}", want: "/pets/{}"},
		{name: "param name irrelevant", in: "/pets/{id}", want: "/pets/{}"},
		{name: "multiple params", in: "/stores/{storeId}/pets/{petId}", want: "/stores/{}/pets/{}"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.in))
		})
	}
}

func TestNormalizePathEquatesSpellings(t *testing.T) {
	assert.Equal(t, NormalizePath("/pets/{petId}"), NormalizePath("/pets/{id}"))
	assert.NotEqual(t, NormalizePath("/pets/{petId}"), NormalizePath("/pets"))
}

func TestMatchTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		path     string
		want     bool
	}{
		{name: "param segment matches value", template: "/pets/{petId}", path: "/pets/99", want: true},
		{name: "literal mismatch", template: "/pets/{petId}", path: "/cats/99", want: false},
		{name: "segment count mismatch", template: "/pets/{petId}", path: "/pets/99/toys", want: false},
		{name: "two params", template: "/stores/{s}/pets/{p}", path: "/stores/1/pets/2", want: true},
		{name: "exact literal", template: "/pets", path: "/pets", want: true},
		{name: "trailing slash tolerated", template: "/pets/", path: "/pets", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchTemplate(tt.template, tt.path))
		})
	}
}

func TestExtractParams(t *testing.T) {
	params := ExtractParams("/stores/{storeId}/pets/{petId}", "/stores/7/pets/99")
	assert.Equal(t, map[string]string{"storeId": "7", "petId": "99"}, params)

	assert.Empty(t, ExtractParams("/pets", "/pets"))
}
