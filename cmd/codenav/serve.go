package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codenav/internal/mcptools"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server exposing graph tools over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8132", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := mcptools.NewCodeIntelService(log)
	log.Infof("MCP server listening on %s", serveAddr)
	return mcptools.RunMCPServer(ctx, svc, serveAddr)
}
