package graph

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store using Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu      sync.RWMutex
	files   map[string]FileNode
	symbols map[string]SymbolNode // key: "path::name"
	edges   []Edge
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		files:   make(map[string]FileNode),
		symbols: make(map[string]SymbolNode),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error {
	return nil
}

// AddFile stores a file node keyed by its path.
func (m *MemStore) AddFile(_ context.Context, node FileNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[node.Path] = node
	return nil
}

// AddSymbol stores a class or function node keyed by its identifier.
func (m *MemStore) AddSymbol(_ context.Context, node SymbolNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.symbols[node.ID()] = node
	return nil
}

// AddEdge appends an edge to the internal slice.
func (m *MemStore) AddEdge(_ context.Context, edge Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges = append(m.edges, edge)
	return nil
}

// GetFile returns the file node for the given path, or nil if not found.
func (m *MemStore) GetFile(_ context.Context, path string) (*FileNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// GetSymbol returns the node for the given file path and name, or nil if
// not found.
func (m *MemStore) GetSymbol(_ context.Context, filePath, name string) (*SymbolNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.symbols[SymbolID(filePath, name)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// QuerySymbols returns symbols whose name contains query
// (case-insensitive), sorted by identifier, up to limit results. A limit
// <= 0 returns all matches.
func (m *MemStore) QuerySymbols(_ context.Context, query string, limit int) ([]SymbolNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lowerQuery := strings.ToLower(query)
	var results []SymbolNode
	for _, sym := range m.symbols {
		if strings.Contains(strings.ToLower(sym.Name), lowerQuery) {
			results = append(results, sym)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID() < results[j].ID() })
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetDependencies performs a BFS over file_import edges from nodeID in the
// given direction, up to maxDepth hops. It returns one DependencyChain per
// reachable file.
func (m *MemStore) GetDependencies(_ context.Context, nodeID string, direction Direction, maxDepth int) ([]DependencyChain, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if maxDepth <= 0 {
		return nil, nil
	}

	type bfsEntry struct {
		id   string
		path []string
	}

	visited := map[string]bool{nodeID: true}
	queue := []bfsEntry{{id: nodeID, path: []string{nodeID}}}
	var chains []DependencyChain

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var nextQueue []bfsEntry
		for _, entry := range queue {
			for _, nb := range m.fileNeighbors(entry.id, direction) {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				newPath := make([]string, len(entry.path), len(entry.path)+1)
				copy(newPath, entry.path)
				newPath = append(newPath, nb)
				chains = append(chains, DependencyChain{
					Nodes: newPath,
					Depth: len(newPath) - 1,
				})
				nextQueue = append(nextQueue, bfsEntry{id: nb, path: newPath})
			}
		}
		queue = nextQueue
	}

	return chains, nil
}

// fileNeighbors returns file IDs reachable from id in one hop along
// file_import edges in the given direction.
func (m *MemStore) fileNeighbors(id string, direction Direction) []string {
	var result []string
	for _, e := range m.edges {
		if e.Kind != EdgeKindFileImport {
			continue
		}
		switch direction {
		case DirectionDownstream:
			if e.SourceID == id {
				result = append(result, e.TargetID)
			}
		case DirectionUpstream:
			if e.TargetID == id {
				result = append(result, e.SourceID)
			}
		}
	}
	return result
}

// GetCallers returns the functions whose bodies call the given function,
// sorted by identifier.
func (m *MemStore) GetCallers(_ context.Context, functionID string) ([]SymbolNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []SymbolNode
	for _, e := range m.edges {
		if e.Kind != EdgeKindCalls || e.TargetID != functionID {
			continue
		}
		if s, ok := m.symbols[e.SourceID]; ok {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// AssessImpact computes the blast radius of changing the given files.
// An edge A --file_import--> B means A imports B, so files importing a
// changed file are found by matching edge targets against the changed set.
func (m *MemStore) AssessImpact(_ context.Context, changedFiles []string) (*ImpactResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	changedSet := make(map[string]bool, len(changedFiles))
	for _, f := range changedFiles {
		changedSet[f] = true
	}

	directSet := make(map[string]bool)
	for _, e := range m.edges {
		if e.Kind != EdgeKindFileImport {
			continue
		}
		if changedSet[e.TargetID] && !changedSet[e.SourceID] {
			directSet[e.SourceID] = true
		}
	}

	// Expand from directly affected files until no new files appear.
	allAffected := make(map[string]bool, len(directSet))
	frontier := make(map[string]bool, len(directSet))
	for k := range directSet {
		allAffected[k] = true
		frontier[k] = true
	}

	for len(frontier) > 0 {
		nextFrontier := make(map[string]bool)
		for _, e := range m.edges {
			if e.Kind != EdgeKindFileImport {
				continue
			}
			if frontier[e.TargetID] && !changedSet[e.SourceID] && !allAffected[e.SourceID] {
				allAffected[e.SourceID] = true
				nextFrontier[e.SourceID] = true
			}
		}
		frontier = nextFrontier
	}

	var riskScore float64
	if len(m.files) > 0 {
		riskScore = float64(len(allAffected)) / float64(len(m.files))
	}

	return &ImpactResult{
		DirectlyAffected:     setToSlice(directSet),
		TransitivelyAffected: setToSlice(allAffected),
		RiskScore:            riskScore,
	}, nil
}

// Stats returns counts of all node and edge types in the store.
func (m *MemStore) Stats(_ context.Context) (*GraphStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := &GraphStats{
		FileCount: len(m.files),
		EdgeCount: len(m.edges),
	}
	for _, s := range m.symbols {
		switch s.Kind {
		case NodeKindClass:
			stats.ClassCount++
		case NodeKindFunction:
			stats.FunctionCount++
		}
	}
	stats.NodeCount = stats.FileCount + stats.ClassCount + stats.FunctionCount
	return stats, nil
}

// GetAllEdges returns a copy of all edges in the store.
func (m *MemStore) GetAllEdges(_ context.Context) ([]Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Edge, len(m.edges))
	copy(out, m.edges)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error {
	return nil
}

// setToSlice converts a string bool map to a sorted slice.
func setToSlice(s map[string]bool) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
