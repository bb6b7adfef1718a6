package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_FilesKeepDiscoveryOrder(t *testing.T) {
	g := NewGraph()
	g.AddFile(FileNode{Path: "z.py", DisplayName: "z.py"})
	g.AddFile(FileNode{Path: "a.py", DisplayName: "a.py"})
	g.AddFile(FileNode{Path: "z.py", DisplayName: "z.py"}) // re-add does not reorder

	files := g.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "z.py", files[0].Path)
	assert.Equal(t, "a.py", files[1].Path)
}

func TestGraph_LastSymbolWins(t *testing.T) {
	// Rebinding a top-level name shadows the earlier declaration.
	g := NewGraph()
	g.AddSymbol(SymbolNode{Name: "f", Kind: NodeKindFunction, FilePath: "m.py", StartLine: 1, EndLine: 2})
	g.AddSymbol(SymbolNode{Name: "f", Kind: NodeKindFunction, FilePath: "m.py", StartLine: 10, EndLine: 12})

	syms := g.Symbols()
	require.Len(t, syms, 1)
	assert.Equal(t, 10, syms[0].StartLine)
}

func TestGraph_EdgeSetSemantics(t *testing.T) {
	g := NewGraph()
	e := Edge{SourceID: "a.py", TargetID: "b.py", Kind: EdgeKindFileImport}
	g.AddEdge(e)
	g.AddEdge(e)

	assert.Len(t, g.Edges(), 1)
	assert.True(t, g.HasEdge(e))

	// Same endpoints, different kind is a distinct edge.
	g.AddEdge(Edge{SourceID: "a.py", TargetID: "b.py", Kind: EdgeKindDefinedIn})
	assert.Len(t, g.Edges(), 2)
}

func TestSymbolNode_LineCount(t *testing.T) {
	assert.Equal(t, 1, SymbolNode{StartLine: 5, EndLine: 5}.LineCount())
	assert.Equal(t, 4, SymbolNode{StartLine: 2, EndLine: 5}.LineCount())
	assert.Equal(t, 0, SymbolNode{StartLine: 9, EndLine: 3}.LineCount(), "inverted range clamps to zero")
}
