package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from codenav.yml.
type ProjectConfig struct {
	CacheDir    string   `yaml:"cacheDir,omitempty"`
	ExcludeDirs []string `yaml:"excludeDirs,omitempty"`
	Parallelism int      `yaml:"parallelism,omitempty"`
	Verbose     bool     `yaml:"verbose,omitempty"`
}

// DefaultCacheDir is where graphs are persisted when the config does not
// say otherwise, relative to the indexed repository root.
const DefaultCacheDir = ".codenav"

// Load attempts to read codenav.yml or codenav.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"codenav.yml", "codenav.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// ResolveCacheDir returns the cache directory for a repository root,
// applying the default when the config leaves it unset.
func (c *ProjectConfig) ResolveCacheDir(root string) string {
	if c.CacheDir == "" {
		return filepath.Join(root, DefaultCacheDir)
	}
	if filepath.IsAbs(c.CacheDir) {
		return c.CacheDir
	}
	return filepath.Join(root, c.CacheDir)
}
