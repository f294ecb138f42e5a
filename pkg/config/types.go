// Package config defines the declarative mock configuration format and its
// loaders. A configuration file names a plugin and the resources it serves;
// resources carry the matching predicates and the response behaviour.
package config

// PluginConfig is the top-level content of one configuration file.
type PluginConfig struct {
	// Plugin names the plugin that interprets this configuration
	// ("rest", "openapi").
	Plugin string `json:"plugin" yaml:"plugin"`

	// BasePath is prefixed to every resource path at resolution time.
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty"`

	// SpecFile references an OpenAPI document (openapi plugin only),
	// relative to the configuration file.
	SpecFile string `json:"specFile,omitempty" yaml:"specFile,omitempty"`

	// System holds plugin-wide defaults shared by all resources.
	System *SystemConfig `json:"system,omitempty" yaml:"system,omitempty"`

	// Resources lists the mock resources in declaration order. Order is
	// significant: it is the last-resort tie-break during selection.
	Resources []*ResourceConfig `json:"resources,omitempty" yaml:"resources,omitempty"`

	// Dir is the directory the file was loaded from, used to resolve
	// relative references (spec files, scripts, response files).
	// Populated by the loader, never from the file itself.
	Dir string `json:"-" yaml:"-"`
}

// SystemConfig holds plugin-wide defaults.
type SystemConfig struct {
	// XMLNamespaces maps prefixes to namespace URIs for XPath body
	// predicates. Resource- and condition-level namespaces override these.
	XMLNamespaces map[string]string `json:"xmlNamespaces,omitempty" yaml:"xmlNamespaces,omitempty"`
}

// ResourceConfig describes one mock resource: which requests it governs and
// how to respond. All predicate sections are optional; a resource with no
// predicates at all never matches.
type ResourceConfig struct {
	// ID uniquely identifies the resource. Assigned at load when absent.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Path is the request path predicate. A trailing "*" makes it a prefix
	// wildcard; "{param}" placeholders make it a route template.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Method is the HTTP method predicate, matched case-insensitively.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// QueryParams are per-parameter predicates, all of which must hold.
	QueryParams map[string]string `json:"queryParams,omitempty" yaml:"queryParams,omitempty"`

	// RequestHeaders are per-header predicates, all of which must hold.
	// Header names are case-insensitive.
	RequestHeaders map[string]string `json:"requestHeaders,omitempty" yaml:"requestHeaders,omitempty"`

	// RequestBody is the body predicate section.
	RequestBody *RequestBodyConfig `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`

	// AllOf and AnyOf are expression predicates evaluated against
	// request-derived placeholders.
	AllOf []ExpressionMatchConfig `json:"allOf,omitempty" yaml:"allOf,omitempty"`
	AnyOf []ExpressionMatchConfig `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`

	// Eval is a scripted predicate: either an inline script or a reference
	// to a script file, selected by file extension.
	Eval string `json:"eval,omitempty" yaml:"eval,omitempty"`

	// XMLNamespaces are resource-level namespace defaults for XPath body
	// predicates, overriding system-level ones.
	XMLNamespaces map[string]string `json:"xmlNamespaces,omitempty" yaml:"xmlNamespaces,omitempty"`

	// Response describes how to answer requests this resource governs.
	Response *ResponseConfig `json:"response,omitempty" yaml:"response,omitempty"`
}

// HasPredicates reports whether any predicate category is configured.
func (r *ResourceConfig) HasPredicates() bool {
	return r.Path != "" || r.Method != "" || len(r.QueryParams) > 0 ||
		len(r.RequestHeaders) > 0 || r.RequestBody != nil ||
		len(r.AllOf) > 0 || len(r.AnyOf) > 0 || r.Eval != ""
}

// BodyMatchCondition is a single request-body predicate. Exactly one of
// JSONPath, XPath, or whole-body comparison applies, in that precedence.
type BodyMatchCondition struct {
	// JSONPath extracts the compared value from the body parsed as JSON.
	JSONPath string `json:"jsonPath,omitempty" yaml:"jsonPath,omitempty"`

	// XPath extracts the compared value from the body parsed as XML.
	XPath string `json:"xPath,omitempty" yaml:"xPath,omitempty"`

	// XMLNamespaces are condition-level prefix bindings for XPath,
	// overriding resource- and system-level ones.
	XMLNamespaces map[string]string `json:"xmlNamespaces,omitempty" yaml:"xmlNamespaces,omitempty"`

	// Value is the expected value.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	// Operator selects the comparison; empty means equality.
	Operator string `json:"operator,omitempty" yaml:"operator,omitempty"`
}

// RequestBodyConfig is the body predicate section of a resource. AllOf,
// AnyOf, and the embedded single condition are mutually exclusive shapes,
// checked in that precedence order.
type RequestBodyConfig struct {
	BodyMatchCondition `json:",inline" yaml:",inline"`

	// AllOf requires every child condition to hold.
	AllOf []BodyMatchCondition `json:"allOf,omitempty" yaml:"allOf,omitempty"`

	// AnyOf requires at least one child condition to hold.
	AnyOf []BodyMatchCondition `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
}

// ExpressionMatchConfig is one expression predicate: the expression template
// is resolved against the request, then compared against Value.
type ExpressionMatchConfig struct {
	// Expression is a placeholder template, e.g. "{{request.headers.X-Env}}".
	Expression string `json:"expression" yaml:"expression"`

	// Value is the expected value.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	// Operator selects the comparison; empty means equality.
	Operator string `json:"operator,omitempty" yaml:"operator,omitempty"`
}

// ResponseConfig describes a resource's response behaviour.
type ResponseConfig struct {
	// StatusCode defaults to 200 when unset.
	StatusCode int `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`

	// Headers are added to the response verbatim (values are templated).
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Content is the literal response body.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// File is a response body file, relative to the configuration file.
	// Content takes precedence when both are set.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// Template enables placeholder substitution in the response body.
	Template bool `json:"template,omitempty" yaml:"template,omitempty"`

	// Delay postpones the response.
	Delay *DelayConfig `json:"delay,omitempty" yaml:"delay,omitempty"`

	// ScriptFile references a response-generating script; when set it
	// overrides the static fields above.
	ScriptFile string `json:"scriptFile,omitempty" yaml:"scriptFile,omitempty"`
}

// DelayConfig is either an exact delay or a uniform range, in milliseconds.
type DelayConfig struct {
	Exact int `json:"exact,omitempty" yaml:"exact,omitempty"`
	Min   int `json:"min,omitempty" yaml:"min,omitempty"`
	Max   int `json:"max,omitempty" yaml:"max,omitempty"`
}
