package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codenav/internal/config"
	"codenav/internal/export"
	"codenav/internal/graph"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Build a repository graph and write it as JSON or a Mermaid diagram",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or mermaid")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	g, diags, err := graph.Build(cmd.Context(), root, graph.BuildOptions{
		ExcludeDirs: cfg.ExcludeDirs,
		Parallelism: cfg.Parallelism,
	})
	if err != nil {
		return err
	}
	for _, d := range diags {
		log.WithField("file", d.Path).Warnf("skipped: %s", d.Reason)
	}

	var data []byte
	switch exportFormat {
	case "json":
		data, err = export.MarshalJSON(export.BuildExport(root, g))
		if err != nil {
			return fmt.Errorf("marshal graph: %w", err)
		}
	case "mermaid":
		data = []byte(export.GenerateMermaid(g))
	default:
		return fmt.Errorf("unknown format %q (want json or mermaid)", exportFormat)
	}

	if exportOutput == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOutput, err)
	}
	log.Infof("wrote %s", exportOutput)
	return nil
}
