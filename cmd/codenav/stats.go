//go:build cgo

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codenav/internal/config"
	"codenav/internal/graph"
)

var statsCmd = &cobra.Command{
	Use:   "stats <path>",
	Short: "Show node and edge counts for a previously indexed repository",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	id, err := graph.CodebaseID(root)
	if err != nil {
		return err
	}
	dbPath := filepath.Join(cfg.ResolveCacheDir(root), id)
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no cached graph for %s, run 'codenav index' first", args[0])
	}

	store, err := graph.NewKuzuFileStore(dbPath)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Codebase:  %s (%s)\n", root, id)
	fmt.Printf("Files:     %d\n", stats.FileCount)
	fmt.Printf("Classes:   %d\n", stats.ClassCount)
	fmt.Printf("Functions: %d\n", stats.FunctionCount)
	fmt.Printf("Nodes:     %d\n", stats.NodeCount)
	fmt.Printf("Edges:     %d\n", stats.EdgeCount)
	return nil
}
