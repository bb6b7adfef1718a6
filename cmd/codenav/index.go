//go:build cgo

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"codenav/internal/config"
	"codenav/internal/graph"
)

var (
	indexExcludeDirs []string
	indexJobs        int
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Parse a repository and build its knowledge graph",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().StringSliceVar(&indexExcludeDirs, "exclude", nil, "directory basenames to skip during discovery")
	indexCmd.Flags().IntVar(&indexJobs, "jobs", 0, "parallel analysis workers (0 = one per CPU)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("not a directory: %s", args[0])
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", args[0])
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	excludes := append(cfg.ExcludeDirs, indexExcludeDirs...)
	jobs := indexJobs
	if jobs == 0 {
		jobs = cfg.Parallelism
	}

	id, err := graph.CodebaseID(root)
	if err != nil {
		return err
	}
	log.WithFields(map[string]any{"repo": root, "codebase": id}).Info("indexing")

	t0 := time.Now()
	g, diags, err := graph.Build(cmd.Context(), root, graph.BuildOptions{
		ExcludeDirs: excludes,
		Parallelism: jobs,
	})
	if err != nil {
		return err
	}
	parseDur := time.Since(t0)

	for _, d := range diags {
		log.WithField("file", d.Path).Warnf("skipped: %s", d.Reason)
	}

	dbPath := filepath.Join(cfg.ResolveCacheDir(root), id)
	os.RemoveAll(dbPath) // replace any stale graph
	t1 := time.Now()
	store, err := graph.NewKuzuFileStore(dbPath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()
	if err := graph.SaveGraph(cmd.Context(), store, g); err != nil {
		return fmt.Errorf("save graph: %w", err)
	}
	saveDur := time.Since(t1)

	stats := g.Stats()
	fmt.Printf("Parsed graph in %.2fs, saved in %.2fs\n", parseDur.Seconds(), saveDur.Seconds())
	fmt.Printf("Nodes: %d, Edges: %d (skipped files: %d)\n", stats.NodeCount, stats.EdgeCount, len(diags))
	return nil
}
