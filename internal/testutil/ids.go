package testutil

import (
	"fmt"
	"sync"
)

// SequenceGenerator returns predetermined ids, then "acc-N" counters once
// they run out.
//
// This enables deterministic test execution and golden output comparison.
//
// Thread-safety: SequenceGenerator is safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu  sync.Mutex
	ids []string
	n   int
}

// NewSequenceGenerator creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewSequenceGenerator("acc-a", "acc-b")
//	gen.Generate() // "acc-a"
//	gen.Generate() // "acc-b"
//	gen.Generate() // "acc-3"
func NewSequenceGenerator(ids ...string) *SequenceGenerator {
	return &SequenceGenerator{ids: ids}
}

// Generate returns the next id.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	if g.n <= len(g.ids) {
		return g.ids[g.n-1]
	}
	return fmt.Sprintf("acc-%d", g.n)
}

// Calls returns how many ids have been generated.
func (g *SequenceGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n
}
