// Package condition implements the generic operator-based comparison used
// by body and expression predicates.
package condition

import (
	"regexp"
	"strings"
)

// Operator selects how an actual value is compared against an expected value.
type Operator string

const (
	OperatorEqualTo     Operator = "EqualTo"
	OperatorNotEqualTo  Operator = "NotEqualTo"
	OperatorContains    Operator = "Contains"
	OperatorNotContains Operator = "NotContains"
	OperatorMatches     Operator = "Matches"
	OperatorNotMatches  Operator = "NotMatches"
	OperatorExists      Operator = "Exists"
	OperatorNotExists   Operator = "NotExists"
)

// ParseOperator normalizes an operator name from configuration.
// The empty string defaults to EqualTo. Comparison is case-insensitive.
func ParseOperator(s string) (Operator, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return OperatorEqualTo, true
	case "equalto", "eq":
		return OperatorEqualTo, true
	case "notequalto", "ne":
		return OperatorNotEqualTo, true
	case "contains":
		return OperatorContains, true
	case "notcontains":
		return OperatorNotContains, true
	case "matches", "regex":
		return OperatorMatches, true
	case "notmatches":
		return OperatorNotMatches, true
	case "exists":
		return OperatorExists, true
	case "notexists":
		return OperatorNotExists, true
	default:
		return OperatorEqualTo, false
	}
}

// Match compares actual against expected under op.
//
// actual is nil when the value could not be resolved at all (absent JSONPath,
// unparseable document, missing header). Exists/NotExists test exactly that;
// the value-comparing operators treat nil as the empty string having never
// been set, so EqualTo against nil only succeeds for an empty expected value
// when the value genuinely exists.
func Match(expected string, op Operator, actual *string) bool {
	switch op {
	case OperatorExists:
		return actual != nil
	case OperatorNotExists:
		return actual == nil
	}

	if actual == nil {
		// A missing value can only satisfy the negative operators.
		return op == OperatorNotEqualTo || op == OperatorNotContains || op == OperatorNotMatches
	}

	switch op {
	case OperatorEqualTo:
		return *actual == expected
	case OperatorNotEqualTo:
		return *actual != expected
	case OperatorContains:
		return strings.Contains(*actual, expected)
	case OperatorNotContains:
		return !strings.Contains(*actual, expected)
	case OperatorMatches:
		return matchPattern(expected, *actual)
	case OperatorNotMatches:
		return !matchPattern(expected, *actual)
	default:
		return false
	}
}

// matchPattern evaluates an RE2 pattern. An invalid pattern never matches.
func matchPattern(pattern, value string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// ValidatePattern checks a regex operator pattern at load time.
func ValidatePattern(pattern string) error {
	_, err := regexp.Compile(pattern)
	return err
}
