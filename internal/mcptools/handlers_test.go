//go:build cgo

package mcptools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codenav/internal/config"
	"codenav/internal/graph"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newTestService returns a service with a quiet logger.
func newTestService(t *testing.T) *CodeIntelService {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)
	return NewCodeIntelService(logger)
}

// copyFixtureRepo copies the sample codebase into a temp dir so that
// build_graph can persist its cache there without touching testdata.
func copyFixtureRepo(t *testing.T) string {
	t.Helper()
	src := "../../testdata/fixtures/py_project"
	dst := t.TempDir()

	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dst, e.Name()), data, 0o644))
	}
	return dst
}

// buildFixture runs the build_graph tool over a fixture copy and returns
// the repo path.
func buildFixture(t *testing.T, svc *CodeIntelService) string {
	t.Helper()
	repo := copyFixtureRepo(t)
	_, out, err := svc.BuildGraph(context.Background(), nil, BuildGraphInput{RepoPath: repo})
	require.NoError(t, err)
	require.Empty(t, out.Skipped)
	return repo
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestBuildGraph(t *testing.T) {
	svc := newTestService(t)
	repo := copyFixtureRepo(t)

	_, out, err := svc.BuildGraph(context.Background(), nil, BuildGraphInput{RepoPath: repo})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Stats.FileCount)
	assert.Equal(t, 4, out.Stats.ClassCount)
	assert.Equal(t, 6, out.Stats.FunctionCount)
	assert.Empty(t, out.Skipped)

	// The graph is persisted under the repo's cache directory.
	id, err := graph.CodebaseID(repo)
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(repo, config.DefaultCacheDir, id))
	assert.NoError(t, statErr, "cache directory should exist after build")
}

func TestBuildGraph_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.BuildGraph(ctx, nil, BuildGraphInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repoPath is required")

	_, _, err = svc.BuildGraph(ctx, nil, BuildGraphInput{RepoPath: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)

	f := filepath.Join(t.TempDir(), "f.py")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	_, _, err = svc.BuildGraph(ctx, nil, BuildGraphInput{RepoPath: f})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestBuildGraph_SkipsBrokenFiles(t *testing.T) {
	svc := newTestService(t)
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "ok.py"), []byte("def f():\n    pass\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "bad.py"), []byte("def bad(:\n"), 0o644))

	_, out, err := svc.BuildGraph(context.Background(), nil, BuildGraphInput{RepoPath: repo})
	require.NoError(t, err)
	require.Len(t, out.Skipped, 1)
	assert.Equal(t, "bad.py", out.Skipped[0].Path)
	assert.Equal(t, 2, out.Stats.FileCount, "the broken file keeps its file node")
}

func TestQuerySymbols(t *testing.T) {
	svc := newTestService(t)
	buildFixture(t, svc)
	ctx := context.Background()

	_, out, err := svc.QuerySymbols(ctx, nil, QuerySymbolsInput{Query: "game"})
	require.NoError(t, err)
	require.Equal(t, 2, out.Total)
	assert.Equal(t, "initialize_game", out.Symbols[0].Name)

	// Kind filter keeps classes only.
	_, classes, err := svc.QuerySymbols(ctx, nil, QuerySymbolsInput{Query: "", Kind: "class"})
	require.NoError(t, err)
	assert.Equal(t, 4, classes.Total)
	for _, s := range classes.Symbols {
		assert.Equal(t, graph.NodeKindClass, s.Kind)
	}

	_, limited, err := svc.QuerySymbols(ctx, nil, QuerySymbolsInput{Query: "game", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, limited.Total)
}

func TestGetDependencies(t *testing.T) {
	svc := newTestService(t)
	buildFixture(t, svc)
	ctx := context.Background()

	_, out, err := svc.GetDependencies(ctx, nil, GetDependenciesInput{NodeID: "file3.py"})
	require.NoError(t, err)
	require.Len(t, out.Chains, 2, "file3 imports file1 and file2")

	_, up, err := svc.GetDependencies(ctx, nil, GetDependenciesInput{NodeID: "file2.py", Direction: "upstream"})
	require.NoError(t, err)
	assert.Len(t, up.Chains, 2, "file1 and file3 import file2")

	_, _, err = svc.GetDependencies(ctx, nil, GetDependenciesInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nodeId is required")
}

func TestGetCallers(t *testing.T) {
	svc := newTestService(t)
	buildFixture(t, svc)
	ctx := context.Background()

	_, out, err := svc.GetCallers(ctx, nil, GetCallersInput{FilePath: "file1.py", Function: "load_assets"})
	require.NoError(t, err)
	require.Len(t, out.Callers, 1)
	assert.Equal(t, "initialize_game", out.Callers[0].Name)

	_, _, err = svc.GetCallers(ctx, nil, GetCallersInput{FilePath: "file1.py"})
	require.Error(t, err)
}

func TestAssessImpact(t *testing.T) {
	svc := newTestService(t)
	buildFixture(t, svc)
	ctx := context.Background()

	_, out, err := svc.AssessImpact(ctx, nil, AssessImpactInput{ChangedFiles: []string{"file2.py"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"file1.py", "file3.py"}, out.Impact.DirectlyAffected)

	_, _, err = svc.AssessImpact(ctx, nil, AssessImpactInput{})
	require.Error(t, err)
}

func TestGraphStats(t *testing.T) {
	svc := newTestService(t)

	// Before any build the store is empty.
	_, empty, err := svc.GraphStats(context.Background(), nil, GraphStatsInput{})
	require.NoError(t, err)
	assert.Zero(t, empty.Stats.NodeCount)

	buildFixture(t, svc)

	_, out, err := svc.GraphStats(context.Background(), nil, GraphStatsInput{})
	require.NoError(t, err)
	assert.Equal(t, 13, out.Stats.NodeCount)
	assert.Equal(t, 14, out.Stats.EdgeCount)
}
