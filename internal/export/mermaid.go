package export

import (
	"fmt"
	"strings"

	"codenav/internal/graph"
)

// GenerateMermaid produces a Mermaid graph TD diagram of the file-import
// structure of a built graph. Every file becomes a node; file_import edges
// become arrows.
func GenerateMermaid(g *graph.Graph) string {
	// Build node → ID mapping for Mermaid (alphanumeric only).
	nodeIDs := make(map[string]string)
	nextID := 0
	getID := func(path string) string {
		if id, ok := nodeIDs[path]; ok {
			return id
		}
		id := fmt.Sprintf("N%d", nextID)
		nextID++
		nodeIDs[path] = id
		return id
	}

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, f := range g.Files() {
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", getID(f.Path), shortPath(f.Path)))
	}

	for _, e := range g.EdgesByKind(graph.EdgeKindFileImport) {
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", getID(e.SourceID), getID(e.TargetID)))
	}

	return sb.String()
}

// shortPath returns the last 2 path segments for readability.
func shortPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}
