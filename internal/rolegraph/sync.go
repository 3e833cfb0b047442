package rolegraph

import "sync"

// Sync guards a RoleGraph with a single mutex. Queries and insertions
// both mutate internal state paths, so reads and writes share one lock
// rather than a read/write split.
type Sync struct {
	mu    sync.Mutex
	graph *RoleGraph
}

// NewSync wraps a graph for shared use.
func NewSync(graph *RoleGraph) *Sync {
	return &Sync{graph: graph}
}

// WithLock runs fn with exclusive access to the underlying graph. The
// graph pointer must not escape fn.
func (s *Sync) WithLock(fn func(*RoleGraph) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.graph)
}

// Replace swaps the underlying graph, used when a role's knowledge
// graph is rebuilt from a changed source.
func (s *Sync) Replace(graph *RoleGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = graph
}
