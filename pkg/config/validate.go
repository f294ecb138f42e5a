package config

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/jwcastillo/imposter/pkg/condition"
)

// ValidationError is a single semantic configuration problem, qualified by
// its path within the configuration, e.g. "resources[2].requestBody.allOf[0]".
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationResult aggregates all problems found in one configuration.
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid reports whether no problems were found.
func (r *ValidationResult) IsValid() bool { return len(r.Errors) == 0 }

func (r *ValidationResult) Error() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (r *ValidationResult) add(path, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a loaded configuration for semantic problems the schema
// cannot express: unparseable JSONPath expressions, unknown operators,
// invalid regex patterns, conflicting body shapes.
func Validate(cfg *PluginConfig) error {
	result := &ValidationResult{}

	if cfg.Plugin == "" {
		result.add("plugin", "required")
	}

	for i, res := range cfg.Resources {
		validateResource(res, fmt.Sprintf("resources[%d]", i), result)
	}

	if !result.IsValid() {
		return result
	}
	return nil
}

func validateResource(res *ResourceConfig, path string, result *ValidationResult) {
	if res.RequestBody != nil {
		validateRequestBody(res.RequestBody, path+".requestBody", result)
	}
	for i, em := range res.AllOf {
		validateExpression(em, fmt.Sprintf("%s.allOf[%d]", path, i), result)
	}
	for i, em := range res.AnyOf {
		validateExpression(em, fmt.Sprintf("%s.anyOf[%d]", path, i), result)
	}
	if res.Response != nil && res.Response.Delay != nil {
		d := res.Response.Delay
		if d.Exact > 0 && (d.Min > 0 || d.Max > 0) {
			result.add(path+".response.delay", "exact and min/max are mutually exclusive")
		}
		if d.Max > 0 && d.Min > d.Max {
			result.add(path+".response.delay", "min %d exceeds max %d", d.Min, d.Max)
		}
	}
}

func validateRequestBody(body *RequestBodyConfig, path string, result *ValidationResult) {
	if len(body.AllOf) > 0 && len(body.AnyOf) > 0 {
		result.add(path, "allOf and anyOf are mutually exclusive")
	}
	for i, c := range body.AllOf {
		validateBodyCondition(c, fmt.Sprintf("%s.allOf[%d]", path, i), result)
	}
	for i, c := range body.AnyOf {
		validateBodyCondition(c, fmt.Sprintf("%s.anyOf[%d]", path, i), result)
	}
	if len(body.AllOf) == 0 && len(body.AnyOf) == 0 {
		validateBodyCondition(body.BodyMatchCondition, path, result)
	}
}

func validateBodyCondition(c BodyMatchCondition, path string, result *ValidationResult) {
	if c.JSONPath != "" && c.XPath != "" {
		result.add(path, "jsonPath and xPath are mutually exclusive")
	}
	if c.JSONPath != "" {
		if _, err := jp.ParseString(c.JSONPath); err != nil {
			result.add(path+".jsonPath", "invalid JSONPath %q: %v", c.JSONPath, err)
		}
	}
	validateOperator(c.Operator, c.Value, path, result)
}

func validateExpression(em ExpressionMatchConfig, path string, result *ValidationResult) {
	if em.Expression == "" {
		result.add(path+".expression", "required")
	}
	validateOperator(em.Operator, em.Value, path, result)
}

func validateOperator(op, value, path string, result *ValidationResult) {
	parsed, ok := condition.ParseOperator(op)
	if !ok {
		result.add(path+".operator", "unknown operator %q", op)
		return
	}
	if parsed == condition.OperatorMatches || parsed == condition.OperatorNotMatches {
		if err := condition.ValidatePattern(value); err != nil {
			result.add(path+".value", "invalid pattern %q: %v", value, err)
		}
	}
}
