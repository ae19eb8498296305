package imex

// Source is the ordered stream collection a tree is evaluated against.
//
// Pull advances stream i by exactly one item and reports whether an item was
// produced. A stream index with no backing stream is an error, never
// exhaustion.
type Source interface {
	Pull(stream int) (bool, error)
}

// Iterator is the contract shared by every node in a pattern tree.
//
// Iterate produces at most one item per call. It returns false with a nil
// error when the node is exhausted in its current state.
type Iterator interface {
	Iterate(src Source) (bool, error)
}
