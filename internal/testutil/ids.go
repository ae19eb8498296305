package testutil

import "fmt"

// SequentialIDGenerator generates run IDs "<prefix>-1", "<prefix>-2", ...
//
// It satisfies store.IDGenerator, so tests recording runs get predictable
// IDs without planning how many runs they record.
//
// Thread-safety: safe for concurrent use.
type SequentialIDGenerator struct {
	prefix  string
	counter *Counter
}

// NewSequentialIDGenerator creates a generator. An empty prefix means "run".
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialIDGenerator{prefix: prefix, counter: NewCounter()}
}

// Generate returns the next ID.
func (g *SequentialIDGenerator) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.counter.Next())
}
