package script

import (
	"context"
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprExtension is the file extension the expr engine claims.
const ExprExtension = "expr"

// defaultProgramCacheSize bounds the compiled-program memoization map.
const defaultProgramCacheSize = 256

// ExprEngine evaluates scripts written in the expr expression language.
// Compiled programs are memoized by source text; the cache is bounded and
// dropped wholesale when full, since recompilation is cheap and the set of
// configured scripts is small and stable.
type ExprEngine struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
	maxCache int
}

// NewExprEngine creates an expr-backed script engine.
func NewExprEngine() *ExprEngine {
	return &ExprEngine{
		programs: make(map[string]*vm.Program),
		maxCache: defaultProgramCacheSize,
	}
}

// Evaluate runs a predicate script. Non-boolean results are coerced:
// nil, "", 0, and false are falsy, everything else truthy.
func (e *ExprEngine) Evaluate(ctx context.Context, s Script, rt *Runtime) (bool, error) {
	out, err := e.run(ctx, s, rt)
	if err != nil {
		return false, err
	}
	return truthy(out), nil
}

// Execute runs a response-generating script. The script must evaluate to a
// map; recognized keys are statusCode, headers, and content.
func (e *ExprEngine) Execute(ctx context.Context, s Script, rt *Runtime) (*ResponseBehaviour, error) {
	out, err := e.run(ctx, s, rt)
	if err != nil {
		return nil, err
	}

	result, ok := out.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("script %s: response script must produce a map, got %T", s.Name, out)
	}

	behaviour := &ResponseBehaviour{StatusCode: 200}
	if v, ok := result["statusCode"]; ok {
		code, ok := toInt(v)
		if !ok {
			return nil, fmt.Errorf("script %s: statusCode must be an integer, got %T", s.Name, v)
		}
		behaviour.StatusCode = code
	}
	if v, ok := result["content"]; ok {
		content, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("script %s: content must be a string, got %T", s.Name, v)
		}
		behaviour.Content = content
	}
	if v, ok := result["headers"]; ok {
		raw, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("script %s: headers must be a map, got %T", s.Name, v)
		}
		behaviour.Headers = make(map[string]string, len(raw))
		for name, hv := range raw {
			sv, ok := hv.(string)
			if !ok {
				return nil, fmt.Errorf("script %s: header %q must be a string, got %T", s.Name, name, hv)
			}
			behaviour.Headers[name] = sv
		}
	}
	return behaviour, nil
}

func (e *ExprEngine) run(ctx context.Context, s Script, rt *Runtime) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	program, err := e.compile(s)
	if err != nil {
		return nil, fmt.Errorf("script %s: compile failed: %w", s.Name, err)
	}

	out, err := expr.Run(program, rt.Env())
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", s.Name, err)
	}
	return out, nil
}

func (e *ExprEngine) compile(s Script) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[s.Source]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(s.Source, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if len(e.programs) >= e.maxCache {
		e.programs = make(map[string]*vm.Program)
	}
	e.programs[s.Source] = program
	e.mu.Unlock()
	return program, nil
}

// truthy applies the predicate coercion rules.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	default:
		return 0, false
	}
}
