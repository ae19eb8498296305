package imex

// Counter wraps an Iterator and counts the calls that produced an item.
//
// Counting never affects control flow. Exhaustion and errors are passed
// through without incrementing.
type Counter struct {
	it    Iterator
	count int
}

// NewCounter wraps it with a zeroed counter.
func NewCounter(it Iterator) *Counter {
	return &Counter{it: it}
}

// Iterate delegates to the wrapped iterator.
func (c *Counter) Iterate(src Source) (bool, error) {
	ok, err := c.it.Iterate(src)
	if ok && err == nil {
		c.count++
	}
	return ok, err
}

// Count returns the number of items produced so far.
func (c *Counter) Count() int {
	return c.count
}
