package imex

import "iter"

// Stream is a forward-only item iterator supplied by the caller.
//
// Next returns the next item, or false once the stream is exhausted.
// A Stream may also implement interface{ Err() error }; it is consulted when
// Next reports exhaustion, and a non-nil result is a read failure.
type Stream[T any] interface {
	Next() (T, bool)
}

type errStream interface {
	Err() error
}

// Streams is the ordered stream collection a tree is evaluated against.
// It implements Source and records the last item pulled.
type Streams[T any] struct {
	streams  []Stream[T]
	consumed []int
	last     T
	origin   int
}

// NewStreams returns a collection over streams in index order.
func NewStreams[T any](streams ...Stream[T]) *Streams[T] {
	return &Streams[T]{
		streams:  streams,
		consumed: make([]int, len(streams)),
		origin:   -1,
	}
}

// Pull implements Source.
func (s *Streams[T]) Pull(i int) (bool, error) {
	if i < 0 || i >= len(s.streams) {
		return false, NewOutOfRangeError(i, len(s.streams))
	}
	item, ok := s.streams[i].Next()
	if !ok {
		if es, isErr := s.streams[i].(errStream); isErr {
			if err := es.Err(); err != nil {
				return false, NewReadError(i, err)
			}
		}
		return false, nil
	}
	s.last = item
	s.origin = i
	s.consumed[i]++
	return true, nil
}

// Last returns the most recently pulled item and the index of the stream it
// came from. The index is -1 before the first successful pull.
func (s *Streams[T]) Last() (T, int) {
	return s.last, s.origin
}

// Consumed returns the number of items pulled from each stream so far.
func (s *Streams[T]) Consumed() []int {
	out := make([]int, len(s.consumed))
	copy(out, s.consumed)
	return out
}

// SliceStream yields the elements of a slice in order.
type SliceStream[T any] struct {
	items []T
	pos   int
}

// FromSlice returns a stream over items.
func FromSlice[T any](items ...T) *SliceStream[T] {
	return &SliceStream[T]{items: items}
}

// Next implements Stream.
func (s *SliceStream[T]) Next() (T, bool) {
	if s.pos >= len(s.items) {
		var zero T
		return zero, false
	}
	item := s.items[s.pos]
	s.pos++
	return item, true
}

// SeqStream adapts an iter.Seq into a pull-based Stream.
// Call Stop to release the sequence if it is abandoned before its end.
type SeqStream[T any] struct {
	next func() (T, bool)
	stop func()
}

// FromSeq returns a stream pulling from seq.
func FromSeq[T any](seq iter.Seq[T]) *SeqStream[T] {
	next, stop := iter.Pull(seq)
	return &SeqStream[T]{next: next, stop: stop}
}

// Next implements Stream.
func (s *SeqStream[T]) Next() (T, bool) {
	return s.next()
}

// Stop releases the underlying sequence.
func (s *SeqStream[T]) Stop() {
	s.stop()
}

// StreamFunc adapts a plain function to the Stream interface.
type StreamFunc[T any] func() (T, bool)

// Next implements Stream.
func (f StreamFunc[T]) Next() (T, bool) {
	return f()
}
