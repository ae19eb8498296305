package imex

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Value.
type Kind uint8

const (
	// KindRef draws items from a single stream.
	KindRef Kind = iota
	// KindGroup concatenates the full runs of its children in order.
	KindGroup
)

// String returns the lowercase variant name.
func (k Kind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a pattern tree node: a stream reference or a group.
//
// A Value held by a Quantified node is a blueprint and is never iterated.
// Clone produces an instance with fresh iteration state; instances are
// single-use and report exhaustion permanently once spent.
type Value struct {
	kind     Kind
	stream   int
	children []*Quantified

	// Instance state.
	cursor int  // group: index of the child currently being drained
	pulled bool // ref: the one pull of this cycle has happened
}

// Ref returns a value drawing from the stream at index stream.
func Ref(stream int) Value {
	return Value{kind: KindRef, stream: stream}
}

// Group returns a value that runs each child to exhaustion, in order.
// The group takes ownership of children.
func Group(children ...*Quantified) Value {
	return Value{kind: KindGroup, children: children}
}

// Kind returns the variant of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Stream returns the referenced stream index. Only meaningful for KindRef.
func (v Value) Stream() int {
	return v.stream
}

// Children returns the group's quantified children. Nil for KindRef.
func (v Value) Children() []*Quantified {
	return v.children
}

// Clone returns a deep copy with all iteration state reset.
func (v Value) Clone() Value {
	switch v.kind {
	case KindRef:
		return Ref(v.stream)
	case KindGroup:
		children := make([]*Quantified, len(v.children))
		for i, c := range v.children {
			children[i] = c.Clone()
		}
		return Group(children...)
	default:
		panic(fmt.Sprintf("imex: unknown value kind %d", v.kind))
	}
}

// Iterate produces the next item of this instance.
//
// A ref instance pulls exactly once from its stream; a group instance drains
// its children in order and stays on a child for as long as it yields.
func (v *Value) Iterate(src Source) (bool, error) {
	switch v.kind {
	case KindRef:
		if v.pulled {
			return false, nil
		}
		v.pulled = true
		return src.Pull(v.stream)

	case KindGroup:
		for v.cursor < len(v.children) {
			ok, err := v.children[v.cursor].Iterate(src)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
			v.cursor++
		}
		return false, nil

	default:
		panic(fmt.Sprintf("imex: unknown value kind %d", v.kind))
	}
}

// Equal reports whether two values describe the same pattern structure.
// Iteration state is ignored.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindRef:
		return v.stream == o.stream
	default:
		if len(v.children) != len(o.children) {
			return false
		}
		for i := range v.children {
			if !v.children[i].Equal(o.children[i]) {
				return false
			}
		}
		return true
	}
}

// String renders the value in pattern syntax.
func (v Value) String() string {
	switch v.kind {
	case KindRef:
		return strconv.Itoa(v.stream)
	default:
		var b strings.Builder
		b.WriteByte('(')
		for _, c := range v.children {
			b.WriteString(c.String())
		}
		b.WriteByte(')')
		return b.String()
	}
}
