package matching

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/jwcastillo/imposter/pkg/condition"
	"github.com/jwcastillo/imposter/pkg/config"
	"github.com/jwcastillo/imposter/pkg/exchange"
	"github.com/jwcastillo/imposter/pkg/template"
)

const (
	descriptionBody      = "request body"
	descriptionBodyAllOf = "allOf"
	descriptionBodyAnyOf = "anyOf"
)

// BodyEvaluator matches the request body. A body predicate section holds
// either an allOf list, an anyOf list, or a single condition; each condition
// resolves its compared value via JSONPath, XPath, or the whole body string,
// in that precedence.
type BodyEvaluator struct{}

// NewBodyEvaluator creates the request-body predicate evaluator.
func NewBodyEvaluator() *BodyEvaluator {
	return &BodyEvaluator{}
}

// Evaluate applies the body predicate, if one is configured.
func (e *BodyEvaluator) Evaluate(res *ResolvedResource, ex *exchange.Exchange) (Result, error) {
	bodyCfg := res.Config.RequestBody
	if bodyCfg == nil {
		return NotConfigured(descriptionBody), nil
	}

	switch {
	case len(bodyCfg.AllOf) > 0:
		for _, child := range bodyCfg.AllOf {
			if !matchBodyCondition(child, res, ex) {
				return Failed(descriptionBodyAllOf), nil
			}
		}
		// Every sub-condition held, so each counts toward specificity.
		return ExactWeighted(descriptionBodyAllOf, len(bodyCfg.AllOf)), nil

	case len(bodyCfg.AnyOf) > 0:
		for _, child := range bodyCfg.AnyOf {
			if matchBodyCondition(child, res, ex) {
				return Exact(descriptionBodyAnyOf), nil
			}
		}
		return Failed(descriptionBodyAnyOf), nil

	case bodyConditionConfigured(bodyCfg.BodyMatchCondition):
		if matchBodyCondition(bodyCfg.BodyMatchCondition, res, ex) {
			return Exact(descriptionBody), nil
		}
		return Failed(descriptionBody), nil

	default:
		return NotConfigured(descriptionBody), nil
	}
}

func bodyConditionConfigured(c config.BodyMatchCondition) bool {
	return c.JSONPath != "" || c.XPath != "" || c.Value != "" || c.Operator != ""
}

// matchBodyCondition evaluates one body condition. The extracted value is
// nil when the body cannot be parsed or the path yields nothing, which the
// condition matcher treats as absent.
func matchBodyCondition(c config.BodyMatchCondition, res *ResolvedResource, ex *exchange.Exchange) bool {
	op, _ := condition.ParseOperator(c.Operator)

	var actual *string
	switch {
	case c.JSONPath != "":
		actual = extractJSONPath(c.JSONPath, ex.Body())
	case c.XPath != "":
		actual = extractXPath(c.XPath, mergeNamespaces(res.Namespaces, c.XMLNamespaces), ex.Body())
	default:
		body := ex.BodyString()
		actual = &body
	}

	return condition.Match(c.Value, op, actual)
}

// extractJSONPath pulls the value at path from the body parsed as JSON.
// Returns nil for an unparseable body, an invalid path, or no result.
func extractJSONPath(path string, body []byte) *string {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil
	}
	data, err := oj.Parse(body)
	if err != nil {
		return nil
	}
	results := expr.Get(data)
	if len(results) == 0 {
		return nil
	}
	s := template.Stringify(results[0])
	return &s
}

// extractXPath pulls the text value at path from the body parsed as XML.
// Configured namespace prefixes are translated to the prefixes the document
// declares for the same URIs before the lookup.
func extractXPath(path string, namespaces map[string]string, body []byte) *string {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil
	}

	path = translatePrefixes(path, namespaces, doc)

	// Attribute step: locate the element, then read the attribute.
	if elemPath, attr, found := strings.Cut(path, "/@"); found {
		elem := doc.FindElement(elemPath)
		if elem == nil {
			return nil
		}
		a := elem.SelectAttr(attr)
		if a == nil {
			return nil
		}
		return &a.Value
	}

	elem := doc.FindElement(path)
	if elem == nil {
		return nil
	}
	text := strings.TrimSpace(elem.Text())
	return &text
}

// mergeNamespaces layers condition-level bindings over the resource's
// merged map. Returns the base map unchanged when there is nothing to add.
func mergeNamespaces(base, overrides map[string]string) map[string]string {
	if len(overrides) == 0 {
		return base
	}
	merged := make(map[string]string, len(base)+len(overrides))
	for prefix, uri := range base {
		merged[prefix] = uri
	}
	for prefix, uri := range overrides {
		merged[prefix] = uri
	}
	return merged
}

// translatePrefixes rewrites configured namespace prefixes in an XPath
// expression into the prefixes the document itself declares for the same
// namespace URIs, so "env:Body" finds "soapenv:Body" when both prefixes
// bind the same URI.
func translatePrefixes(path string, namespaces map[string]string, doc *etree.Document) string {
	if len(namespaces) == 0 {
		return path
	}
	root := doc.Root()
	if root == nil {
		return path
	}

	docPrefixes := documentPrefixes(root)
	for prefix, uri := range namespaces {
		docPrefix, ok := docPrefixes[uri]
		if !ok || docPrefix == prefix {
			continue
		}
		path = strings.ReplaceAll(path, prefix+":", docPrefix+":")
	}
	return path
}

// documentPrefixes walks the document collecting xmlns declarations,
// mapping namespace URI to the first prefix that declares it.
func documentPrefixes(elem *etree.Element) map[string]string {
	prefixes := make(map[string]string)
	collectPrefixes(elem, prefixes)
	return prefixes
}

func collectPrefixes(elem *etree.Element, prefixes map[string]string) {
	for _, attr := range elem.Attr {
		if attr.Space != "xmlns" {
			continue
		}
		if _, seen := prefixes[attr.Value]; !seen {
			prefixes[attr.Value] = attr.Key
		}
	}
	for _, child := range elem.ChildElements() {
		collectPrefixes(child, prefixes)
	}
}
