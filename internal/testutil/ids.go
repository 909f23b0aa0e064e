package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates predictable run IDs: "<prefix>-0001", "<prefix>-0002", ...
//
// Unlike UUIDv7, the output is identical across test runs, which keeps
// golden snapshots and history listings stable.
//
// Thread-safety: Generate is safe for concurrent use.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix defaults to "run".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
