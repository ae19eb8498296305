package imex

import "iter"

// Merger evaluates a pattern tree against a stream collection and hands out
// merged items one at a time. It is the only place the item type is bound.
type Merger[T any] struct {
	counter *Counter
	streams *Streams[T]
}

// NewMerger returns a merger driving root over streams.
// The caller keeps ownership of root; use root.Clone() to merge the same
// pattern twice.
func NewMerger[T any](root Iterator, streams ...Stream[T]) *Merger[T] {
	return &Merger[T]{
		counter: NewCounter(root),
		streams: NewStreams(streams...),
	}
}

// Next returns the next merged item. It returns false with a nil error once
// the pattern is exhausted.
func (m *Merger[T]) Next() (T, bool, error) {
	var zero T
	ok, err := m.counter.Iterate(m.streams)
	if err != nil || !ok {
		return zero, false, err
	}
	item, _ := m.streams.Last()
	return item, true, nil
}

// All returns the remaining merged items as a sequence. A fatal error is
// yielded once as the final pair.
func (m *Merger[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			item, ok, err := m.Next()
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok || !yield(item, nil) {
				return
			}
		}
	}
}

// Collect drains the merger. On error it returns the items merged before
// the failure together with the error.
func (m *Merger[T]) Collect() ([]T, error) {
	var out []T
	for item, err := range m.All() {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Count returns the number of items merged so far.
func (m *Merger[T]) Count() int {
	return m.counter.Count()
}

// Origin returns the stream index of the most recent item, or -1.
func (m *Merger[T]) Origin() int {
	_, origin := m.streams.Last()
	return origin
}

// Consumed returns the number of items pulled from each stream so far.
func (m *Merger[T]) Consumed() []int {
	return m.streams.Consumed()
}
