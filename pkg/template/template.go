// Package template resolves {{placeholder}} expressions against the current
// exchange and the key/value stores. It backs both the expression predicate
// evaluator and response-body templating.
package template

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/jwcastillo/imposter/pkg/exchange"
	"github.com/jwcastillo/imposter/pkg/store"
)

// placeholderRegex matches {{ expression }} with optional whitespace.
var placeholderRegex = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

// randomIntPattern matches random.int(min, max).
var randomIntPattern = regexp.MustCompile(`^random\.int\((\d+),\s*(\d+)\)$`)

// Resolver substitutes request-derived placeholders in template strings.
// A Resolver is stateless apart from the store factory it reads from and is
// safe for concurrent use.
type Resolver struct {
	stores store.Factory
}

// NewResolver creates a resolver backed by the given store factory, which
// may be nil when store placeholders are not needed.
func NewResolver(stores store.Factory) *Resolver {
	return &Resolver{stores: stores}
}

// Resolve replaces every {{...}} placeholder in tmpl with its value for the
// given exchange. Unresolvable placeholders become the empty string.
func (r *Resolver) Resolve(tmpl string, ex *exchange.Exchange) string {
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		inner := placeholderRegex.FindStringSubmatch(match)
		if len(inner) < 2 {
			return ""
		}
		value, _ := r.lookup(strings.TrimSpace(inner[1]), ex)
		return value
	})
}

// ResolveChecked is Resolve, but additionally reports whether every
// placeholder in the template resolved to a present value. The expression
// predicate evaluator uses the presence flag for Exists/NotExists operators.
func (r *Resolver) ResolveChecked(tmpl string, ex *exchange.Exchange) (string, bool) {
	present := true
	resolved := placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		inner := placeholderRegex.FindStringSubmatch(match)
		if len(inner) < 2 {
			present = false
			return ""
		}
		value, ok := r.lookup(strings.TrimSpace(inner[1]), ex)
		if !ok {
			present = false
		}
		return value
	})
	return resolved, present
}

// lookup evaluates a single placeholder expression.
func (r *Resolver) lookup(expr string, ex *exchange.Exchange) (string, bool) {
	switch expr {
	case "request.path":
		return ex.Path(), true
	case "request.method":
		return ex.Method(), true
	case "request.body":
		return ex.BodyString(), true
	case "random.uuid":
		return uuid.New().String(), true
	case "datetime.now.iso8601":
		return time.Now().UTC().Format(time.RFC3339), true
	}

	if m := randomIntPattern.FindStringSubmatch(expr); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if hi < lo {
			lo, hi = hi, lo
		}
		return strconv.Itoa(lo + rand.IntN(hi-lo+1)), true
	}

	if path, ok := strings.CutPrefix(expr, "request.headers."); ok {
		return checked(ex.Header(path))
	}
	if name, ok := strings.CutPrefix(expr, "request.queryParams."); ok {
		return checked(ex.Query(name))
	}
	if name, ok := strings.CutPrefix(expr, "request.pathParams."); ok {
		return checked(ex.PathParam(name))
	}
	if path, ok := strings.CutPrefix(expr, "request.body:"); ok {
		return bodyJSONPath(path, ex.Body())
	}
	if rest, ok := strings.CutPrefix(expr, "stores."); ok {
		return r.storeValue(rest)
	}

	return "", false
}

func checked(value string, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	return value, true
}

// bodyJSONPath extracts a value from the JSON request body at path.
func bodyJSONPath(path string, body []byte) (string, bool) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return "", false
	}
	data, err := oj.Parse(body)
	if err != nil {
		return "", false
	}
	results := expr.Get(data)
	if len(results) == 0 {
		return "", false
	}
	return Stringify(results[0]), true
}

// storeValue resolves "storeName.key" against the store factory.
func (r *Resolver) storeValue(ref string) (string, bool) {
	if r.stores == nil {
		return "", false
	}
	name, key, found := strings.Cut(ref, ".")
	if !found || name == "" || key == "" {
		return "", false
	}
	value, ok := r.stores.Open(name).Load(key)
	if !ok {
		return "", false
	}
	return Stringify(value), true
}

// Stringify renders an extracted value the way predicates compare it:
// scalars as their literal text, structures as compact JSON.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
