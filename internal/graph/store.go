package graph

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
)

// Store is the persistence interface for a built graph.
// Implementations: KuzuStore (production), MemStore (testing, MCP server).
// The core hands a finished, immutable Graph to a Store via SaveGraph and
// places no constraint on the backing format.
type Store interface {
	io.Closer

	// Schema setup, called once before any data is inserted.
	InitSchema(ctx context.Context) error

	// Write operations.
	AddFile(ctx context.Context, node FileNode) error
	AddSymbol(ctx context.Context, node SymbolNode) error
	AddEdge(ctx context.Context, edge Edge) error

	// Read operations.
	GetFile(ctx context.Context, path string) (*FileNode, error)
	GetSymbol(ctx context.Context, filePath, name string) (*SymbolNode, error)
	QuerySymbols(ctx context.Context, query string, limit int) ([]SymbolNode, error)

	// Graph traversal.
	GetDependencies(ctx context.Context, nodeID string, direction Direction, maxDepth int) ([]DependencyChain, error)
	GetCallers(ctx context.Context, functionID string) ([]SymbolNode, error)
	AssessImpact(ctx context.Context, changedFiles []string) (*ImpactResult, error)

	// Stats.
	Stats(ctx context.Context) (*GraphStats, error)
}

// Direction controls dependency traversal direction.
type Direction string

const (
	DirectionUpstream   Direction = "upstream"   // what imports this file?
	DirectionDownstream Direction = "downstream" // what does this file import?
)

// DependencyChain is an ordered sequence of nodes forming a dependency path.
type DependencyChain struct {
	Nodes []string `json:"nodes"` // node IDs in order
	Depth int      `json:"depth"`
}

// ImpactResult describes the blast radius of changing a set of files.
type ImpactResult struct {
	DirectlyAffected     []string `json:"directlyAffected"`     // files that import changed files
	TransitivelyAffected []string `json:"transitivelyAffected"` // full downstream closure
	RiskScore            float64  `json:"riskScore"`            // 0.0-1.0, based on fan-out
}

// SaveGraph copies a built graph into a store. Nodes are written before
// edges so that relationship inserts always find their endpoints.
func SaveGraph(ctx context.Context, dst Store, g *Graph) error {
	if err := dst.InitSchema(ctx); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	for _, f := range g.Files() {
		if err := dst.AddFile(ctx, f); err != nil {
			return fmt.Errorf("add file %s: %w", f.Path, err)
		}
	}
	for _, s := range g.Symbols() {
		if err := dst.AddSymbol(ctx, s); err != nil {
			return fmt.Errorf("add symbol %s: %w", s.ID(), err)
		}
	}
	for _, e := range g.Edges() {
		if err := dst.AddEdge(ctx, e); err != nil {
			return fmt.Errorf("add edge %s->%s: %w", e.SourceID, e.TargetID, err)
		}
	}
	return nil
}

// CodebaseID derives the stable cache key for a repository root: the first
// 16 hex characters of SHA-256 over the absolute root path.
func CodebaseID(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("codebase id: %w", err)
	}
	sum := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(sum[:])[:16], nil
}
