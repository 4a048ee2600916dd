// Package manifest handles wrapgen.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/chazu/wrapgen/lambda"
)

// FileName is the manifest file looked up by FindAndLoad.
const FileName = "wrapgen.toml"

// Manifest represents a wrapgen.toml project configuration.
type Manifest struct {
	Project Project      `toml:"project"`
	Module  ModuleConfig `toml:"module"`
	Idioms  IdiomsConfig `toml:"idioms"`
	Cache   CacheConfig  `toml:"cache"`

	// Dir is the directory containing the wrapgen.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// ModuleConfig configures the generated extension module.
type ModuleConfig struct {
	Name   string   `toml:"name"`
	Inputs []string `toml:"inputs"` // glob patterns relative to Dir
	Output string   `toml:"output"`
}

// IdiomsConfig overrides the C++ spellings used in wrappers.
type IdiomsConfig struct {
	Indent   string `toml:"indent"`
	Tuple    string `toml:"tuple"`
	Bytes    string `toml:"bytes"`
	Receiver string `toml:"receiver"`
}

// CacheConfig configures the render cache.
type CacheConfig struct {
	Path    string `toml:"path"` // empty disables the cache
	Workers int    `toml:"workers"`
}

// Load parses a wrapgen.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Module.Name == "" {
		m.Module.Name = "m"
	}
	if m.Module.Output == "" {
		m.Module.Output = filepath.Join(".wrapgen", "bindings.cc")
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a wrapgen.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// InputPaths expands the configured input globs into absolute, sorted,
// de-duplicated paths.
func (m *Manifest) InputPaths() ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range m.Module.Inputs {
		matches, err := filepath.Glob(m.resolve(pattern))
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
		}
		for _, p := range matches {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// OutputPath returns the absolute path of the generated file.
func (m *Manifest) OutputPath() string {
	return m.resolve(m.Module.Output)
}

// CachePath returns the absolute cache database path, or "" when caching
// is disabled.
func (m *Manifest) CachePath() string {
	if m.Cache.Path == "" {
		return ""
	}
	return m.resolve(m.Cache.Path)
}

// LambdaIdioms returns the configured idioms with defaults filled in.
func (m *Manifest) LambdaIdioms() lambda.Idioms {
	return lambda.Idioms{
		Indent:   m.Idioms.Indent,
		Tuple:    m.Idioms.Tuple,
		Bytes:    m.Idioms.Bytes,
		Receiver: m.Idioms.Receiver,
	}.WithDefaults()
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}
