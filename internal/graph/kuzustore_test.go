//go:build cgo

package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestKuzuStore creates a fresh in-memory KuzuStore with an initialized
// schema and registers cleanup.
func newTestKuzuStore(t *testing.T) *KuzuStore {
	t.Helper()
	s, err := NewKuzuStore()
	require.NoError(t, err, "NewKuzuStore should not fail")
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.InitSchema(context.Background()))
	return s
}

// newSeededKuzuStore saves the fixture graph into an in-memory KuzuStore.
func newSeededKuzuStore(t *testing.T) *KuzuStore {
	t.Helper()
	ctx := context.Background()

	g, diags, err := Build(ctx, fixtureRoot, BuildOptions{})
	require.NoError(t, err)
	require.Empty(t, diags)

	s := newTestKuzuStore(t)
	require.NoError(t, SaveGraph(ctx, s, g))
	return s
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestKuzuStore_InitSchemaIdempotent(t *testing.T) {
	s, err := NewKuzuStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.InitSchema(ctx))

	// Second call must be a no-op (IF NOT EXISTS).
	require.NoError(t, s.InitSchema(ctx))
}

func TestKuzuStore_FileRoundTrip(t *testing.T) {
	s := newTestKuzuStore(t)
	ctx := context.Background()

	file := FileNode{Path: "pkg/main.py", DisplayName: "pkg/main.py"}
	require.NoError(t, s.AddFile(ctx, file))

	got, err := s.GetFile(ctx, file.Path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, file, *got)

	missing, err := s.GetFile(ctx, "ghost.py")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestKuzuStore_SymbolRoundTrip(t *testing.T) {
	s := newTestKuzuStore(t)
	ctx := context.Background()

	sym := SymbolNode{
		Name:        "process",
		Kind:        NodeKindFunction,
		DisplayName: "process()",
		FilePath:    "core.py",
		StartLine:   10,
		EndLine:     24,
		Doc:         "Runs the pipeline.",
		Params:      []string{"items", "strict"},
	}
	require.NoError(t, s.AddSymbol(ctx, sym))

	got, err := s.GetSymbol(ctx, "core.py", "process")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sym, *got)

	missing, err := s.GetSymbol(ctx, "core.py", "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestKuzuStore_QuerySymbols(t *testing.T) {
	s := newSeededKuzuStore(t)
	ctx := context.Background()

	results, err := s.QuerySymbols(ctx, "attack", 10)
	require.NoError(t, err)
	assert.Empty(t, results, "methods are not graph nodes")

	results, err = s.QuerySymbols(ctx, "game", 10)
	require.NoError(t, err)
	require.Len(t, results, 2, "initialize_game and run_game")
	assert.Equal(t, "initialize_game", results[0].Name)
	assert.Equal(t, "run_game", results[1].Name)

	limited, err := s.QuerySymbols(ctx, "game", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestKuzuStore_GetDependencies(t *testing.T) {
	s := newSeededKuzuStore(t)
	ctx := context.Background()

	down, err := s.GetDependencies(ctx, "file3.py", DirectionDownstream, 5)
	require.NoError(t, err)
	targets := map[string]bool{}
	for _, c := range down {
		targets[c.Nodes[len(c.Nodes)-1]] = true
	}
	assert.True(t, targets["file1.py"])
	assert.True(t, targets["file2.py"])

	up, err := s.GetDependencies(ctx, "file2.py", DirectionUpstream, 5)
	require.NoError(t, err)
	sources := map[string]bool{}
	for _, c := range up {
		sources[c.Nodes[len(c.Nodes)-1]] = true
	}
	assert.True(t, sources["file1.py"])
	assert.True(t, sources["file3.py"])
}

func TestKuzuStore_GetCallers(t *testing.T) {
	s := newSeededKuzuStore(t)
	ctx := context.Background()

	callers, err := s.GetCallers(ctx, SymbolID("file1.py", "load_assets"))
	require.NoError(t, err)
	require.Len(t, callers, 1)
	assert.Equal(t, "initialize_game", callers[0].Name)

	none, err := s.GetCallers(ctx, SymbolID("file3.py", "run_game"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestKuzuStore_AssessImpact(t *testing.T) {
	s := newSeededKuzuStore(t)
	ctx := context.Background()

	impact, err := s.AssessImpact(ctx, []string{"file2.py"})
	require.NoError(t, err)
	assert.Equal(t, []string{"file1.py", "file3.py"}, impact.DirectlyAffected)
	assert.Equal(t, []string{"file1.py", "file3.py"}, impact.TransitivelyAffected)
	assert.InDelta(t, 2.0/3.0, impact.RiskScore, 1e-9)
}

func TestKuzuStore_Stats(t *testing.T) {
	s := newSeededKuzuStore(t)

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.FileCount)
	assert.Equal(t, 4, stats.ClassCount)
	assert.Equal(t, 6, stats.FunctionCount)
	assert.Equal(t, 13, stats.NodeCount)
	assert.Equal(t, 14, stats.EdgeCount, "10 defined_in + 3 file_import + 1 calls")
}

func TestKuzuFileStore_Persistence(t *testing.T) {
	ctx := context.Background()
	dbPath := t.TempDir() + "/graphdb"

	g, _, err := Build(ctx, fixtureRoot, BuildOptions{})
	require.NoError(t, err)

	s1, err := NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, SaveGraph(ctx, s1, g))
	require.NoError(t, s1.Close())

	// Reopen and read back.
	s2, err := NewKuzuFileStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })

	got, err := s2.GetSymbol(ctx, "file1.py", "Character")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, NodeKindClass, got.Kind)
}
