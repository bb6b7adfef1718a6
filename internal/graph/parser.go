package graph

import (
	"context"
	"sort"
)

// FunctionDecl describes one top-level function declaration.
type FunctionDecl struct {
	Name      string
	StartLine int
	EndLine   int
	Doc       string
	Params    []string
	// Callees holds every bare-name call target found anywhere in the
	// function body, in source order and unfiltered. The call resolver
	// matches them against the file's own top-level function set after
	// all files have been analyzed.
	Callees []string
}

// ClassDecl describes one top-level class declaration.
type ClassDecl struct {
	Name      string
	StartLine int
	EndLine   int
	Doc       string
}

// FileRecord is the per-file intermediate produced by analyzing a single
// source file. It feeds the graph builder and call resolver and is not part
// of the public graph.
type FileRecord struct {
	Path      string
	Functions []FunctionDecl
	Classes   []ClassDecl
	// Imports maps the bound local alias of a plain import to the root
	// module name ("import pkg.sub as p" records p -> pkg).
	Imports map[string]string
	// FromImports maps each imported name (or its alias) to the root
	// module name of the source module ("from pkg.sub import a as b"
	// records b -> pkg).
	FromImports map[string]string
}

// ImportedModules returns the union of root module names referenced by the
// file's plain imports and from-imports, sorted and deduplicated.
func (r *FileRecord) ImportedModules() []string {
	seen := make(map[string]bool, len(r.Imports)+len(r.FromImports))
	for _, m := range r.Imports {
		seen[m] = true
	}
	for _, m := range r.FromImports {
		seen[m] = true
	}
	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Parser extracts per-file declaration records from source text.
// Implementations: TreeSitterParser (production), stub parsers (testing).
type Parser interface {
	// Parse analyzes a single source file. A parse error (malformed
	// syntax, decode failure) means the file is skipped: the caller keeps
	// the file node but records no declarations for it.
	Parse(ctx context.Context, path string, source []byte) (*FileRecord, error)

	// Close releases parser resources (tree-sitter C memory).
	Close() error
}
