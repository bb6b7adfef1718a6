package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BuildOptions configures a graph build.
type BuildOptions struct {
	// ExcludeDirs are directory basenames skipped during discovery.
	ExcludeDirs []string
	// Parallelism bounds concurrent file analysis. Zero or negative means
	// one goroutine per CPU.
	Parallelism int
	// Parser overrides the production tree-sitter parser, for testing.
	Parser Parser
}

// Build constructs a fresh structural graph from the codebase rooted at
// root. The pipeline runs in four stages: file discovery, per-file
// analysis, edge construction, and call resolution. Per-file read and
// parse failures are isolated: the affected file keeps its bare file node,
// a Diagnostic records the skip, and the build continues. Only an invalid
// root or a cancelled context aborts the run.
//
// File analysis is the only parallel stage; each file's analysis depends
// solely on its own text, and results are merged in discovery order so the
// resulting node and edge sets are deterministic for a fixed tree.
func Build(ctx context.Context, root string, opts BuildOptions) (*Graph, []Diagnostic, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("build: %w", err)
	}

	files, err := DiscoverFiles(absRoot, DiscoverOptions{ExcludeDirs: opts.ExcludeDirs})
	if err != nil {
		return nil, nil, fmt.Errorf("build: %w", err)
	}

	// File nodes are registered before any parsing, so a file that later
	// fails to parse still exists in the graph.
	g := NewGraph()
	for _, rel := range files {
		g.AddFile(FileNode{Path: rel, DisplayName: rel})
	}

	parser := opts.Parser
	if parser == nil {
		p := NewTreeSitterParser()
		defer p.Close()
		parser = p
	}

	// Each slot is written by exactly one goroutine; the merge below reads
	// them in discovery order.
	records := make([]*FileRecord, len(files))
	skips := make([]*Diagnostic, len(files))

	grp, gctx := errgroup.WithContext(ctx)
	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	grp.SetLimit(limit)

	for i, rel := range files {
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(filepath.Join(absRoot, filepath.FromSlash(rel)))
			if err != nil {
				skips[i] = &Diagnostic{Path: rel, Reason: fmt.Sprintf("read: %v", err)}
				return nil
			}
			rec, err := parser.Parse(gctx, rel, source)
			if err != nil {
				skips[i] = &Diagnostic{Path: rel, Reason: fmt.Sprintf("parse: %v", err)}
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, nil, fmt.Errorf("build: %w", err)
	}

	var diagnostics []Diagnostic
	analyzed := make([]*FileRecord, 0, len(files))
	for i := range files {
		if skips[i] != nil {
			diagnostics = append(diagnostics, *skips[i])
			continue
		}
		if records[i] != nil {
			analyzed = append(analyzed, records[i])
		}
	}

	buildEdges(g, analyzed, files)
	resolveCalls(g, analyzed)

	return g, diagnostics, nil
}
