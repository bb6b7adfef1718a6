package graph

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"
)

// sourceExt is the extension of the source files the graph covers.
const sourceExt = ".py"

// DiscoverOptions configures file discovery.
type DiscoverOptions struct {
	// ExcludeDirs are directory basenames skipped during the walk,
	// in addition to ".git".
	ExcludeDirs []string
}

// DiscoverFiles walks root recursively and returns every source file as a
// root-relative, forward-slash path. The result is sorted, which keeps the
// file-set iteration order (and therefore basename-collision import
// resolution) deterministic across runs. A root `.gitignore` is honored
// when present.
func DiscoverFiles(root string, opts DiscoverOptions) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("discover: not a directory: %s", root)
	}

	exclude := map[string]bool{".git": true}
	for _, d := range opts.ExcludeDirs {
		exclude[d] = true
	}

	var gi *ignore.GitIgnore
	if parsed, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		gi = parsed
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if d.IsDir() {
			if path != root && exclude[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != sourceExt {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("discover: walk %s: %w", root, walkErr)
	}

	sort.Strings(files)
	return files, nil
}
