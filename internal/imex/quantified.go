package imex

// Quantified drives repeated cycles of a value under a quantifier.
//
// Each cycle iterates a fresh clone of Val until that clone is exhausted.
// Another cycle is started only if the quantifier grants it and the cycle
// just finished produced at least one item. Before the first cycle the
// "previous cycle produced" flag is set, so the first cycle is always
// attempted when the quantifier allows it.
//
// Once Iterate reports exhaustion, every later call reports exhaustion
// without touching the streams or the quantifier.
//
// The zero iteration state is valid: a node built as a struct literal
// behaves the same as one returned by Quantify.
type Quantified struct {
	// Val is the blueprint cloned at the start of every cycle.
	Val Value

	// Quantifier is the repetition policy as written in the pattern.
	// The live budget is a private copy of it.
	Quantifier Quantifier

	started  bool
	budget   Quantifier
	current  *Value // live instance of the running cycle, nil when idle
	produced bool   // the running (or last finished) cycle yielded an item
	done     bool
}

// Quantify wraps v in a quantified node with the given repetition policy.
func Quantify(v Value, q Quantifier) *Quantified {
	return &Quantified{Val: v, Quantifier: q}
}

// start seeds the live budget and the "previous cycle produced" flag.
func (q *Quantified) start() {
	q.started = true
	q.budget = q.Quantifier
	q.produced = true
}

// Iterate produces the next item of the quantified run.
//
// Starting a cycle is not an item: after cloning a new instance Iterate keeps
// going until the instance yields or the run ends. Errors from stream lookups
// propagate unchanged.
func (q *Quantified) Iterate(src Source) (bool, error) {
	if !q.started {
		q.start()
	}
	for {
		if q.current != nil {
			ok, err := q.current.Iterate(src)
			if err != nil {
				return false, err
			}
			if ok {
				q.produced = true
				return true, nil
			}
			q.current = nil
			continue
		}

		if q.done || !q.produced || !q.budget.Request() {
			q.done = true
			return false, nil
		}
		inst := q.Val.Clone()
		q.current = &inst
		q.produced = false
	}
}

// Exhausted reports whether the node has permanently finished.
func (q *Quantified) Exhausted() bool {
	return q.done
}

// Remaining returns the number of cycles the live budget can still grant.
// Returns -1 for an unbounded quantifier.
func (q *Quantified) Remaining() int {
	if !q.started {
		return q.Quantifier.Remaining()
	}
	return q.budget.Remaining()
}

// Clone returns an un-started copy of the node with a full budget.
func (q *Quantified) Clone() *Quantified {
	return Quantify(q.Val.Clone(), q.Quantifier)
}

// Equal reports whether two nodes describe the same pattern structure.
func (q *Quantified) Equal(o *Quantified) bool {
	if q == nil || o == nil {
		return q == o
	}
	return q.Quantifier == o.Quantifier && q.Val.Equal(o.Val)
}

// String renders the node in pattern syntax.
func (q *Quantified) String() string {
	return q.Val.String() + q.Quantifier.String()
}
