package graph

import "path"

// buildEdges consumes the per-file records and adds declaration nodes,
// defined_in edges, and file_import edges. knownFiles is the full
// discovered file set in discovery order; it includes files that failed to
// parse, since those are still valid import targets.
func buildEdges(g *Graph, records []*FileRecord, knownFiles []string) {
	for _, rec := range records {
		for _, c := range rec.Classes {
			node := SymbolNode{
				Name:        c.Name,
				Kind:        NodeKindClass,
				DisplayName: c.Name,
				FilePath:    rec.Path,
				StartLine:   c.StartLine,
				EndLine:     c.EndLine,
				Doc:         c.Doc,
			}
			g.AddSymbol(node)
			g.AddEdge(Edge{SourceID: rec.Path, TargetID: node.ID(), Kind: EdgeKindDefinedIn})
		}

		for _, fn := range rec.Functions {
			node := SymbolNode{
				Name:        fn.Name,
				Kind:        NodeKindFunction,
				DisplayName: fn.Name + "()",
				FilePath:    rec.Path,
				StartLine:   fn.StartLine,
				EndLine:     fn.EndLine,
				Doc:         fn.Doc,
				Params:      fn.Params,
			}
			g.AddSymbol(node)
			g.AddEdge(Edge{SourceID: rec.Path, TargetID: node.ID(), Kind: EdgeKindDefinedIn})
		}

		for _, module := range rec.ImportedModules() {
			target, ok := matchModuleFile(module, knownFiles)
			if !ok {
				continue // external or library import, no edge
			}
			g.AddEdge(Edge{SourceID: rec.Path, TargetID: target, Kind: EdgeKindFileImport})
		}
	}
}

// matchModuleFile returns the first known file whose basename equals the
// module name plus the source extension. Matching is basename-only: two
// files with the same name in different directories are ambiguous, and the
// first one in file-set iteration order wins. That is a known limitation
// kept for cheap, path-independent resolution in flat repositories.
func matchModuleFile(module string, knownFiles []string) (string, bool) {
	want := module + sourceExt
	for _, f := range knownFiles {
		if path.Base(f) == want {
			return f, true
		}
	}
	return "", false
}
