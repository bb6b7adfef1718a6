package mcptools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"codenav/internal/config"
	"codenav/internal/graph"
)

// CodeIntelService holds the current graph store used by MCP tool
// handlers. Each build_graph call produces a fresh store; queries always
// see either the previous complete graph or the new one, never a partial
// build.
type CodeIntelService struct {
	mu     sync.RWMutex
	store  graph.Store
	logger *logrus.Logger
}

// NewCodeIntelService creates a CodeIntelService with an empty in-memory
// store.
func NewCodeIntelService(logger *logrus.Logger) *CodeIntelService {
	if logger == nil {
		logger = logrus.New()
	}
	return &CodeIntelService{
		store:  graph.NewMemStore(),
		logger: logger,
	}
}

// currentStore returns the store serving queries right now.
func (s *CodeIntelService) currentStore() graph.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// BuildGraph runs the full build pipeline over a repository, swaps the
// service's store to the freshly built graph, and persists it to the
// repository's cache directory. Returns graph statistics and the list of
// skipped files.
func (s *CodeIntelService) BuildGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input BuildGraphInput,
) (*mcp.CallToolResult, BuildGraphOutput, error) {
	if input.RepoPath == "" {
		return nil, BuildGraphOutput{}, fmt.Errorf("repoPath is required")
	}

	info, err := os.Stat(input.RepoPath)
	if err != nil {
		return nil, BuildGraphOutput{}, fmt.Errorf("cannot access repoPath: %w", err)
	}
	if !info.IsDir() {
		return nil, BuildGraphOutput{}, fmt.Errorf("repoPath is not a directory: %s", input.RepoPath)
	}

	g, diags, err := graph.Build(ctx, input.RepoPath, graph.BuildOptions{
		ExcludeDirs: input.ExcludeDirs,
	})
	if err != nil {
		return nil, BuildGraphOutput{}, fmt.Errorf("build graph: %w", err)
	}
	for _, d := range diags {
		s.logger.WithField("file", d.Path).Warn(d.Reason)
	}

	fresh := graph.NewMemStore()
	if err := graph.SaveGraph(ctx, fresh, g); err != nil {
		return nil, BuildGraphOutput{}, fmt.Errorf("fill store: %w", err)
	}

	s.mu.Lock()
	s.store = fresh
	s.mu.Unlock()

	// Persist so the CLI stats command can read the same graph later.
	if err := persistGraph(ctx, input.RepoPath, g); err != nil {
		s.logger.WithError(err).Warn("failed to persist graph")
	}

	stats := g.Stats()
	return nil, BuildGraphOutput{Stats: stats, Skipped: diags}, nil
}

// persistGraph copies a built graph into a file-based KuzuDB under the
// repository's cache directory, keyed by the codebase identifier.
func persistGraph(ctx context.Context, repoPath string, g *graph.Graph) error {
	id, err := graph.CodebaseID(repoPath)
	if err != nil {
		return err
	}
	dbPath := filepath.Join(repoPath, config.DefaultCacheDir, id)

	// Remove old graph to avoid stale data.
	os.RemoveAll(dbPath)

	dst, err := graph.NewKuzuFileStore(dbPath)
	if err != nil {
		return fmt.Errorf("open file store: %w", err)
	}
	defer dst.Close()

	return graph.SaveGraph(ctx, dst, g)
}

// QuerySymbols searches for class and function nodes by name substring.
func (s *CodeIntelService) QuerySymbols(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QuerySymbolsInput,
) (*mcp.CallToolResult, QuerySymbolsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	symbols, err := s.currentStore().QuerySymbols(ctx, input.Query, limit)
	if err != nil {
		return nil, QuerySymbolsOutput{}, fmt.Errorf("query symbols: %w", err)
	}

	if input.Kind != "" {
		kind := graph.NodeKind(strings.ToLower(input.Kind))
		filtered := symbols[:0]
		for _, sym := range symbols {
			if sym.Kind == kind {
				filtered = append(filtered, sym)
			}
		}
		symbols = filtered
	}

	return nil, QuerySymbolsOutput{
		Symbols: symbols,
		Total:   len(symbols),
	}, nil
}

// GetDependencies traverses file_import edges from a given file.
func (s *CodeIntelService) GetDependencies(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDependenciesInput,
) (*mcp.CallToolResult, GetDependenciesOutput, error) {
	if input.NodeID == "" {
		return nil, GetDependenciesOutput{}, fmt.Errorf("nodeId is required")
	}

	direction := graph.DirectionDownstream
	if strings.EqualFold(input.Direction, "upstream") {
		direction = graph.DirectionUpstream
	}

	maxDepth := input.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 5
	}

	chains, err := s.currentStore().GetDependencies(ctx, input.NodeID, direction, maxDepth)
	if err != nil {
		return nil, GetDependenciesOutput{}, fmt.Errorf("get dependencies: %w", err)
	}

	return nil, GetDependenciesOutput{Chains: chains}, nil
}

// GetCallers returns the same-file functions that call a given function.
func (s *CodeIntelService) GetCallers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetCallersInput,
) (*mcp.CallToolResult, GetCallersOutput, error) {
	if input.FilePath == "" || input.Function == "" {
		return nil, GetCallersOutput{}, fmt.Errorf("filePath and function are required")
	}

	callers, err := s.currentStore().GetCallers(ctx, graph.SymbolID(input.FilePath, input.Function))
	if err != nil {
		return nil, GetCallersOutput{}, fmt.Errorf("get callers: %w", err)
	}

	return nil, GetCallersOutput{Callers: callers}, nil
}

// AssessImpact computes the blast radius of modifying a set of files.
func (s *CodeIntelService) AssessImpact(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AssessImpactInput,
) (*mcp.CallToolResult, AssessImpactOutput, error) {
	if len(input.ChangedFiles) == 0 {
		return nil, AssessImpactOutput{}, fmt.Errorf("changedFiles is required")
	}

	impact, err := s.currentStore().AssessImpact(ctx, input.ChangedFiles)
	if err != nil {
		return nil, AssessImpactOutput{}, fmt.Errorf("assess impact: %w", err)
	}

	return nil, AssessImpactOutput{Impact: *impact}, nil
}

// GraphStats returns node and edge counts for the current graph.
func (s *CodeIntelService) GraphStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GraphStatsInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	stats, err := s.currentStore().Stats(ctx)
	if err != nil {
		return nil, GraphStatsOutput{}, fmt.Errorf("stats: %w", err)
	}

	return nil, GraphStatsOutput{Stats: *stats}, nil
}
