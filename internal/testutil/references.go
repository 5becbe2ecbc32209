package testutil

import (
	"fmt"
	"sync"
)

// SequentialReferences generates "<prefix>-0001", "<prefix>-0002", ...
//
// Unlike ledger.UUIDv7Generator it is deterministic, so scenarios can check
// in any number of items and still produce byte-identical output.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialReferences struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialReferences creates a generator. An empty prefix becomes "ref".
func NewSequentialReferences(prefix string) *SequentialReferences {
	if prefix == "" {
		prefix = "ref"
	}
	return &SequentialReferences{prefix: prefix}
}

// Generate returns the next reference.
//
// Implements ledger.ReferenceGenerator.
func (g *SequentialReferences) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
