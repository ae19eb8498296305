package store

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestStore opens a fresh history database that is closed with the test.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun builds a successful run over a.txt and b.txt with the items
// split between them.
func createTestRun(pattern string, items int) *Run {
	return &Run{
		Pattern: pattern,
		Status:  StatusOK,
		Items:   items,
		Streams: []RunStream{
			{Index: 0, Path: "a.txt", Consumed: items / 2},
			{Index: 1, Path: "b.txt", Consumed: items - items/2},
		},
	}
}

// fixedGenerator returns predetermined run IDs in order.
type fixedGenerator struct {
	mu  sync.Mutex
	ids []string
}

func newFixedGenerator(ids ...string) *fixedGenerator {
	return &fixedGenerator{ids: ids}
}

// Generate panics once the IDs run out, so a test that records more runs
// than it planned for fails loudly.
func (g *fixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.ids) == 0 {
		panic("fixedGenerator: all ids used")
	}
	id := g.ids[0]
	g.ids = g.ids[1:]
	return id
}
