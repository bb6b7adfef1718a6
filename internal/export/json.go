package export

import (
	"encoding/json"
	"time"

	"codenav/internal/graph"
)

// GraphExport is the top-level JSON export structure for a built graph.
type GraphExport struct {
	Root       string           `json:"root"`
	ExportedAt string           `json:"exportedAt"`
	Files      []graph.FileNode `json:"files"`
	Symbols    []NodeExport     `json:"symbols"`
	Edges      []graph.Edge     `json:"edges"`
	Stats      graph.GraphStats `json:"stats"`
}

// NodeExport is a symbol node with its derived attributes made explicit so
// consumers do not have to recompute them.
type NodeExport struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Kind        graph.NodeKind `json:"kind"`
	DisplayName string         `json:"displayName"`
	File        string         `json:"file"`
	StartLine   int            `json:"startLine"`
	EndLine     int            `json:"endLine"`
	LineCount   int            `json:"lineCount"`
	Doc         string         `json:"doc,omitempty"`
	Params      []string       `json:"params,omitempty"`
}

// BuildExport assembles a GraphExport from a built graph.
func BuildExport(root string, g *graph.Graph) *GraphExport {
	symbols := g.Symbols()
	out := &GraphExport{
		Root:       root,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Files:      g.Files(),
		Symbols:    make([]NodeExport, 0, len(symbols)),
		Edges:      g.Edges(),
		Stats:      g.Stats(),
	}
	for _, s := range symbols {
		out.Symbols = append(out.Symbols, NodeExport{
			ID:          s.ID(),
			Name:        s.Name,
			Kind:        s.Kind,
			DisplayName: s.DisplayName,
			File:        s.FilePath,
			StartLine:   s.StartLine,
			EndLine:     s.EndLine,
			LineCount:   s.LineCount(),
			Doc:         s.Doc,
			Params:      s.Params,
		})
	}
	return out
}

// MarshalJSON renders a GraphExport as indented JSON.
func MarshalJSON(e *GraphExport) ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
