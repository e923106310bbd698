// Package signal provides the synchronous event primitive that connects the
// structural tree model to its view projections. Delivery is immediate and in
// connection order, so a handler always observes the fully-committed state
// that triggered the emit.
package signal

// Signal dispatches values of type T to connected handlers.
// The zero value is ready to use.
type Signal[T any] struct {
	seq      int
	handlers []entry[T]
}

type entry[T any] struct {
	id int
	fn func(T)
}

// Connect registers a handler and returns a function that disconnects it.
// Disconnecting twice is harmless.
func (s *Signal[T]) Connect(fn func(T)) func() {
	s.seq++
	id := s.seq
	s.handlers = append(s.handlers, entry[T]{id: id, fn: fn})
	return func() {
		for i, e := range s.handlers {
			if e.id == id {
				s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers v to every connected handler, synchronously.
func (s *Signal[T]) Emit(v T) {
	// Snapshot so a handler disconnecting mid-delivery cannot skip a peer.
	snapshot := make([]entry[T], len(s.handlers))
	copy(snapshot, s.handlers)
	for _, e := range snapshot {
		e.fn(v)
	}
}

// Len reports the number of connected handlers.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}
