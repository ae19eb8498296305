package imex

import "strconv"

// QuantifierKind distinguishes bounded from unbounded repetition.
type QuantifierKind uint8

const (
	// Bounded grants a fixed number of cycles.
	Bounded QuantifierKind = iota
	// Unbounded grants cycles forever.
	Unbounded
)

// Quantifier is the repetition budget attached to a pattern node.
//
// Each granted Request consumes one unit of a bounded budget. Once a bounded
// quantifier reaches zero it denies permanently. An unbounded quantifier
// always grants.
//
// Quantifier is a value type: copying it copies the remaining budget.
type Quantifier struct {
	kind      QuantifierKind
	remaining int
}

// Times returns a bounded quantifier granting exactly n cycles.
// Negative n is treated as zero.
func Times(n int) Quantifier {
	if n < 0 {
		n = 0
	}
	return Quantifier{kind: Bounded, remaining: n}
}

// Once is the implicit quantifier of an unsuffixed pattern element.
func Once() Quantifier {
	return Times(1)
}

// Forever returns an unbounded quantifier.
func Forever() Quantifier {
	return Quantifier{kind: Unbounded}
}

// Request asks for another cycle and reports whether it was granted.
func (q *Quantifier) Request() bool {
	if q.kind == Unbounded {
		return true
	}
	if q.remaining == 0 {
		return false
	}
	q.remaining--
	return true
}

// Kind returns whether the quantifier is bounded or unbounded.
func (q Quantifier) Kind() QuantifierKind {
	return q.kind
}

// Remaining returns the number of cycles still grantable.
// Returns -1 for an unbounded quantifier.
func (q Quantifier) Remaining() int {
	if q.kind == Unbounded {
		return -1
	}
	return q.remaining
}

// String renders the quantifier in pattern syntax.
// The implicit once-quantifier renders as the empty string.
func (q Quantifier) String() string {
	switch q.kind {
	case Unbounded:
		return "*"
	default:
		if q.remaining == 1 {
			return ""
		}
		return "{" + strconv.Itoa(q.remaining) + "}"
	}
}
