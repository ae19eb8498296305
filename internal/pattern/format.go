package pattern

import (
	"strconv"
	"strings"

	"github.com/roach88/imex/internal/imex"
)

// Format renders a root node as pattern text. The implicit outer group of a
// parsed pattern is not written, so Parse(Format(q)) reproduces q.
func Format(q *imex.Quantified) string {
	if q.Val.Kind() == imex.KindGroup && q.Quantifier == imex.Once() {
		var b strings.Builder
		for _, c := range q.Val.Children() {
			b.WriteString(c.String())
		}
		return b.String()
	}
	return q.String()
}

// MaxStream returns the highest stream index referenced anywhere in q,
// or -1 if q references no stream.
func MaxStream(q *imex.Quantified) int {
	highest := -1
	walk(q, func(n *imex.Quantified) {
		if n.Val.Kind() == imex.KindRef && n.Val.Stream() > highest {
			highest = n.Val.Stream()
		}
	})
	return highest
}

// Node is the serializable form of a pattern tree.
type Node struct {
	Kind       string `json:"kind"`
	Stream     *int   `json:"stream,omitempty"`
	Quantifier string `json:"quantifier"`
	Children   []Node `json:"children,omitempty"`
}

// Describe converts q into a Node tree.
func Describe(q *imex.Quantified) Node {
	n := Node{
		Kind:       q.Val.Kind().String(),
		Quantifier: describeQuantifier(q.Quantifier),
	}
	switch q.Val.Kind() {
	case imex.KindRef:
		s := q.Val.Stream()
		n.Stream = &s
	case imex.KindGroup:
		for _, c := range q.Val.Children() {
			n.Children = append(n.Children, Describe(c))
		}
	}
	return n
}

// Tree renders q as an indented outline, one node per line.
func Tree(q *imex.Quantified) string {
	var b strings.Builder
	writeTree(&b, Describe(q), 0)
	return b.String()
}

func writeTree(b *strings.Builder, n Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.Stream != nil {
		b.WriteString("stream ")
		b.WriteString(strconv.Itoa(*n.Stream))
	} else {
		b.WriteString("group")
	}
	b.WriteString(" ")
	b.WriteString(n.Quantifier)
	b.WriteString("\n")
	for _, c := range n.Children {
		writeTree(b, c, depth+1)
	}
}

func describeQuantifier(q imex.Quantifier) string {
	if q.Kind() == imex.Unbounded {
		return "*"
	}
	return "{" + strconv.Itoa(q.Remaining()) + "}"
}

func walk(q *imex.Quantified, fn func(*imex.Quantified)) {
	fn(q)
	for _, c := range q.Val.Children() {
		walk(c, fn)
	}
}
