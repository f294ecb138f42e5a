package script

import (
	"context"
)

// LimitedEngine wraps an Engine with a fixed-size execution slot pool,
// bounding how many scripts run concurrently across all requests. Matching
// itself stays unbounded; only script execution waits for a slot.
type LimitedEngine struct {
	inner Engine
	slots chan struct{}
}

// NewLimitedEngine bounds inner to size concurrent executions. A size of
// zero or less returns inner unchanged.
func NewLimitedEngine(inner Engine, size int) Engine {
	if size <= 0 {
		return inner
	}
	return &LimitedEngine{inner: inner, slots: make(chan struct{}, size)}
}

func (l *LimitedEngine) acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *LimitedEngine) release() {
	<-l.slots
}

// Evaluate waits for an execution slot, then runs the wrapped engine.
func (l *LimitedEngine) Evaluate(ctx context.Context, s Script, rt *Runtime) (bool, error) {
	if err := l.acquire(ctx); err != nil {
		return false, err
	}
	defer l.release()
	return l.inner.Evaluate(ctx, s, rt)
}

// Execute waits for an execution slot, then runs the wrapped engine.
func (l *LimitedEngine) Execute(ctx context.Context, s Script, rt *Runtime) (*ResponseBehaviour, error) {
	if err := l.acquire(ctx); err != nil {
		return nil, err
	}
	defer l.release()
	return l.inner.Execute(ctx, s, rt)
}
