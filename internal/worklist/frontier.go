package worklist

import "iter"

// Frontier is a batch worklist: values pushed while a batch is processed
// form the next batch. Iteration stops once a batch ends with nothing pushed.
type Frontier[T any] struct {
	current []T
	next    []T
}

// New creates a frontier seeded with the first batch.
func New[T any](seed []T) *Frontier[T] {
	current := make([]T, len(seed))
	copy(current, seed)
	return &Frontier[T]{current: current}
}

// Push schedules value for the next batch.
func (f *Frontier[T]) Push(value T) {
	f.next = append(f.next, value)
}

// Batches yields batches until the frontier is empty.
// The yielded slice is reused; do not retain it.
func (f *Frontier[T]) Batches() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for len(f.current) > 0 {
			if !yield(f.current) {
				return
			}
			f.current, f.next = f.next, f.current[:0]
		}
	}
}
