package content

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownType reports a content type key with no registered constructor.
// It is fatal to that node's hydration but must not disturb siblings.
var ErrUnknownType = errors.New("unknown content type key")

// Future is the single-resolution handle for an asynchronous type lookup.
// It resolves exactly once; Result may only be read after Done is closed.
type Future struct {
	done chan struct{}
	once sync.Once
	typ  Type
	err  error
}

// NewFuture returns an unresolved future. Registries resolve the futures
// they hand out; tests may complete one by hand to simulate slow lookups.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Complete resolves the future. Later calls are no-ops.
func (f *Future) Complete(t Type, err error) {
	f.once.Do(func() {
		f.typ = t
		f.err = err
		close(f.done)
	})
}

// Done is closed once the future has resolved.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result returns the resolved type. It blocks until resolution.
func (f *Future) Result() (Type, error) {
	<-f.done
	return f.typ, f.err
}

// Registry maps content type keys to their constructors. The map is closed
// and explicit: a key either resolves to a registered Type or fails with
// ErrUnknownType.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// Register adds or replaces a content type.
func (r *Registry) Register(t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.Key] = t
}

// Keys returns the registered type keys, unordered.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.types))
	for k := range r.types {
		keys = append(keys, k)
	}
	return keys
}

// Resolve looks up a type key and returns a future for the result. Callers
// must tolerate arbitrary delay before the future resolves; this in-process
// registry resolves it before returning.
func (r *Registry) Resolve(key string) *Future {
	f := NewFuture()
	r.mu.RLock()
	t, ok := r.types[key]
	r.mu.RUnlock()
	if !ok {
		f.Complete(Type{}, fmt.Errorf("%w: %q", ErrUnknownType, key))
		return f
	}
	f.Complete(t, nil)
	return f
}
