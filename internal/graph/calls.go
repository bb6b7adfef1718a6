package graph

// resolveCalls runs after every declaration node has been placed. For each
// top-level function it matches the bare-name callees recorded during
// analysis against the file's own top-level function set and adds a calls
// edge per match. Cross-file calls, attribute calls, and calls through
// variables are never resolved; a function calling itself produces a
// self-loop edge.
func resolveCalls(g *Graph, records []*FileRecord) {
	for _, rec := range records {
		local := make(map[string]bool, len(rec.Functions))
		for _, fn := range rec.Functions {
			local[fn.Name] = true
		}

		for _, fn := range rec.Functions {
			callerID := SymbolID(rec.Path, fn.Name)
			for _, callee := range fn.Callees {
				if !local[callee] {
					continue // unresolved call, a normal outcome
				}
				g.AddEdge(Edge{
					SourceID: callerID,
					TargetID: SymbolID(rec.Path, callee),
					Kind:     EdgeKindCalls,
				})
			}
		}
	}
}
