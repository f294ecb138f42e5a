package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestParseOperator(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Operator
		wantOK bool
	}{
		{name: "empty defaults to EqualTo", input: "", want: OperatorEqualTo, wantOK: true},
		{name: "EqualTo", input: "EqualTo", want: OperatorEqualTo, wantOK: true},
		{name: "case insensitive", input: "notequalto", want: OperatorNotEqualTo, wantOK: true},
		{name: "eq alias", input: "eq", want: OperatorEqualTo, wantOK: true},
		{name: "regex alias", input: "regex", want: OperatorMatches, wantOK: true},
		{name: "Exists", input: "Exists", want: OperatorExists, wantOK: true},
		{name: "unknown", input: "ApproximatelyEqualTo", want: OperatorEqualTo, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOperator(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		op       Operator
		actual   *string
		want     bool
	}{
		{name: "equal", expected: "foo", op: OperatorEqualTo, actual: strPtr("foo"), want: true},
		{name: "not equal", expected: "foo", op: OperatorEqualTo, actual: strPtr("bar"), want: false},
		{name: "equal against absent", expected: "", op: OperatorEqualTo, actual: nil, want: false},
		{name: "not-equal against absent", expected: "foo", op: OperatorNotEqualTo, actual: nil, want: true},
		{name: "contains", expected: "lo wo", op: OperatorContains, actual: strPtr("hello world"), want: true},
		{name: "not contains", expected: "xyz", op: OperatorNotContains, actual: strPtr("hello"), want: true},
		{name: "regex match", expected: `^fo+$`, op: OperatorMatches, actual: strPtr("fooo"), want: true},
		{name: "regex no match", expected: `^\d+$`, op: OperatorMatches, actual: strPtr("abc"), want: false},
		{name: "invalid regex never matches", expected: `([`, op: OperatorMatches, actual: strPtr("anything"), want: false},
		{name: "invalid regex under NotMatches", expected: `([`, op: OperatorNotMatches, actual: strPtr("anything"), want: true},
		{name: "exists", expected: "", op: OperatorExists, actual: strPtr(""), want: true},
		{name: "exists absent", expected: "", op: OperatorExists, actual: nil, want: false},
		{name: "not exists", expected: "", op: OperatorNotExists, actual: nil, want: true},
		{name: "not exists present", expected: "", op: OperatorNotExists, actual: strPtr("x"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.expected, tt.op, tt.actual))
		})
	}
}

func TestValidatePattern(t *testing.T) {
	assert.NoError(t, ValidatePattern(`^/users/\d+$`))
	assert.Error(t, ValidatePattern(`([`))
}
