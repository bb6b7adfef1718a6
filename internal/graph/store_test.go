package graph

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodebaseID(t *testing.T) {
	id1, err := CodebaseID("/tmp/project-a")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), id1)

	// Stable for the same path, distinct for a different one.
	again, err := CodebaseID("/tmp/project-a")
	require.NoError(t, err)
	assert.Equal(t, id1, again)

	id2, err := CodebaseID("/tmp/project-b")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestSaveGraph(t *testing.T) {
	g, diags, err := Build(context.Background(), fixtureRoot, BuildOptions{})
	require.NoError(t, err)
	require.Empty(t, diags)

	dst := NewMemStore()
	require.NoError(t, SaveGraph(context.Background(), dst, g))

	stats, err := dst.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, g.Stats(), *stats)

	edges, err := dst.GetAllEdges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, edgeSet(g.Edges()), edgeSet(edges))

	sym, err := dst.GetSymbol(context.Background(), "file1.py", "initialize_game")
	require.NoError(t, err)
	require.NotNil(t, sym)
	assert.Equal(t, "initialize_game()", sym.DisplayName)
}
