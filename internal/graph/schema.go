package graph

// --- Enums ---

// NodeKind classifies nodes in the code graph.
type NodeKind string

const (
	NodeKindFile     NodeKind = "file"
	NodeKindClass    NodeKind = "class"
	NodeKindFunction NodeKind = "function"
)

// EdgeKind classifies relationships between nodes.
type EdgeKind string

const (
	// EdgeKindDefinedIn links a file to a class or function it declares.
	EdgeKindDefinedIn EdgeKind = "defined_in"
	// EdgeKindFileImport links file A to file B when A imports a module
	// whose basename matches B.
	EdgeKindFileImport EdgeKind = "file_import"
	// EdgeKindCalls links a function to another top-level function of the
	// same file that its body calls by bare name.
	EdgeKindCalls EdgeKind = "calls"
)

// --- Models ---

// FileNode represents a source file in the graph. Path is root-relative
// with forward slashes and doubles as the node identifier.
type FileNode struct {
	Path        string `json:"path"`
	DisplayName string `json:"displayName"`
}

// ID returns the node identifier of the file.
func (f FileNode) ID() string { return f.Path }

// SymbolNode represents a top-level class or function declaration.
type SymbolNode struct {
	Name        string   `json:"name"`
	Kind        NodeKind `json:"kind"` // NodeKindClass or NodeKindFunction
	DisplayName string   `json:"displayName"`
	FilePath    string   `json:"filePath"`
	StartLine   int      `json:"startLine"`
	EndLine     int      `json:"endLine"`
	Doc         string   `json:"doc,omitempty"`
	Params      []string `json:"params,omitempty"` // functions only, declaration order
}

// ID returns the composite node identifier "path::name".
func (s SymbolNode) ID() string { return SymbolID(s.FilePath, s.Name) }

// LineCount returns the number of source lines the declaration spans.
func (s SymbolNode) LineCount() int {
	n := s.EndLine - s.StartLine + 1
	if n < 0 {
		return 0
	}
	return n
}

// SymbolID produces the canonical identifier for a class or function node.
func SymbolID(filePath, name string) string {
	return filePath + "::" + name
}

// Edge represents a directed, labeled relationship between two nodes.
type Edge struct {
	SourceID string   `json:"sourceId"`
	TargetID string   `json:"targetId"`
	Kind     EdgeKind `json:"kind"`
}

// Diagnostic records a file that was skipped during analysis and why.
// Skipped files keep their file node but contribute no declarations or
// outgoing edges.
type Diagnostic struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// GraphStats summarizes a built graph.
type GraphStats struct {
	NodeCount     int `json:"nodeCount"`
	EdgeCount     int `json:"edgeCount"`
	FileCount     int `json:"fileCount"`
	ClassCount    int `json:"classCount"`
	FunctionCount int `json:"functionCount"`
}
