package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set by the linker at build time.
var Version = "dev"

var (
	verbose bool
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "codenav",
	Short: "Build and query structural knowledge graphs of source codebases",
	Long: `codenav indexes a source codebase into a structural knowledge graph:
files, the classes and functions they define, import relationships between
files, and same-file call relationships between functions. The graph is
cached on disk and serves search, impact analysis, and call-chain queries.`,
	Version: Version,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		log.SetOutput(os.Stderr)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
