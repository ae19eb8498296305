package imex

import "strings"

// ref builds a quantified stream reference.
func ref(stream int, q Quantifier) *Quantified {
	return Quantify(Ref(stream), q)
}

// group builds a quantified group.
func group(q Quantifier, children ...*Quantified) *Quantified {
	return Quantify(Group(children...), q)
}

// root wraps children the way a parsed pattern is wrapped.
func root(children ...*Quantified) *Quantified {
	return group(Once(), children...)
}

// lines splits s on newlines; the empty string has no lines.
func lines(s string) Stream[string] {
	if s == "" {
		return FromSlice[string]()
	}
	return FromSlice(strings.Split(s, "\n")...)
}

// chars yields one string per rune of s.
func chars(s string) Stream[string] {
	var items []string
	for _, r := range s {
		items = append(items, string(r))
	}
	return FromSlice(items...)
}

// countingStream records how many times Next was called.
type countingStream struct {
	inner Stream[string]
	calls int
}

func (c *countingStream) Next() (string, bool) {
	c.calls++
	return c.inner.Next()
}

// failingStream yields items and then reports err from Err.
type failingStream struct {
	items []string
	err   error
}

func (f *failingStream) Next() (string, bool) {
	if len(f.items) == 0 {
		return "", false
	}
	item := f.items[0]
	f.items = f.items[1:]
	return item, true
}

func (f *failingStream) Err() error {
	return f.err
}

// drain iterates it against src until exhaustion or error, returning the
// items seen.
func drain(it Iterator, src *Streams[string]) ([]string, error) {
	var out []string
	for {
		ok, err := it.Iterate(src)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		item, _ := src.Last()
		out = append(out, item)
	}
}
