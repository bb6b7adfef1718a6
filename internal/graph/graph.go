package graph

import "sort"

// Graph is the structural knowledge graph produced by one Build call.
// It is write-once: stages append nodes and edges while building, and the
// finished value is never mutated after Build returns. Edge insertion has
// set semantics, so duplicate import references or call sites collapse to
// a single edge.
type Graph struct {
	files     map[string]FileNode
	fileOrder []string // discovery order
	symbols   map[string]SymbolNode
	edges     []Edge
	edgeSet   map[Edge]bool
}

// NewGraph returns an empty graph ready for building.
func NewGraph() *Graph {
	return &Graph{
		files:   make(map[string]FileNode),
		symbols: make(map[string]SymbolNode),
		edgeSet: make(map[Edge]bool),
	}
}

// AddFile registers a file node keyed by its root-relative path.
func (g *Graph) AddFile(node FileNode) {
	if _, ok := g.files[node.Path]; !ok {
		g.fileOrder = append(g.fileOrder, node.Path)
	}
	g.files[node.Path] = node
}

// AddSymbol registers a class or function node keyed by "path::name".
// A later declaration with the same name shadows an earlier one, matching
// how the analyzed language rebinds top-level names.
func (g *Graph) AddSymbol(node SymbolNode) {
	g.symbols[node.ID()] = node
}

// AddEdge inserts an edge unless an identical edge already exists.
func (g *Graph) AddEdge(edge Edge) {
	if g.edgeSet[edge] {
		return
	}
	g.edgeSet[edge] = true
	g.edges = append(g.edges, edge)
}

// File returns the file node for the given path.
func (g *Graph) File(path string) (FileNode, bool) {
	f, ok := g.files[path]
	return f, ok
}

// Symbol returns the class or function node with the given identifier.
func (g *Graph) Symbol(id string) (SymbolNode, bool) {
	s, ok := g.symbols[id]
	return s, ok
}

// Files returns all file nodes in discovery order.
func (g *Graph) Files() []FileNode {
	out := make([]FileNode, 0, len(g.fileOrder))
	for _, p := range g.fileOrder {
		out = append(out, g.files[p])
	}
	return out
}

// Symbols returns all class and function nodes sorted by identifier.
func (g *Graph) Symbols() []SymbolNode {
	ids := make([]string, 0, len(g.symbols))
	for id := range g.symbols {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]SymbolNode, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.symbols[id])
	}
	return out
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgesByKind returns all edges of the given kind in insertion order.
func (g *Graph) EdgesByKind(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// HasEdge reports whether the exact edge exists.
func (g *Graph) HasEdge(edge Edge) bool {
	return g.edgeSet[edge]
}

// Stats computes node and edge counts by a linear scan.
func (g *Graph) Stats() GraphStats {
	stats := GraphStats{
		FileCount: len(g.files),
		EdgeCount: len(g.edges),
	}
	for _, s := range g.symbols {
		switch s.Kind {
		case NodeKindClass:
			stats.ClassCount++
		case NodeKindFunction:
			stats.FunctionCount++
		}
	}
	stats.NodeCount = stats.FileCount + stats.ClassCount + stats.FunctionCount
	return stats
}
