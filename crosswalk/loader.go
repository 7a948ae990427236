package crosswalk

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

//go:embed frameworks/*.yaml
var defaultSources embed.FS

// ErrNoSources is returned when no framework file matches the patterns.
var ErrNoSources = errors.New("no framework sources matched")

// LoadError reports that a framework table could not be loaded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load frameworks: %v", e.Err)
	}
	return fmt.Sprintf("load framework %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Default loads the framework tables embedded in the binary.
func Default(logger *slog.Logger) (*Registry, error) {
	return Load(defaultSources, logger, "frameworks/*.yaml")
}

// LoadDir is Load over a directory on disk.
func LoadDir(dir string, logger *slog.Logger, patterns ...string) (*Registry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}
	return Load(os.DirFS(dir), logger, patterns...)
}

// Load reads one framework per matching YAML file, in lexical path order.
func Load(fsys fs.FS, logger *slog.Logger, patterns ...string) (*Registry, error) {
	if len(patterns) == 0 {
		patterns = []string{"**/*.yaml", "**/*.yml"}
	}

	var paths []string
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, &LoadError{Path: pattern, Err: fmt.Errorf("glob: %w", err)}
		}
		for _, m := range matches {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				paths = append(paths, m)
			}
		}
	}
	if len(paths) == 0 {
		return nil, &LoadError{Err: ErrNoSources}
	}
	sort.Strings(paths)

	ids := make(map[string]string)
	resolvers := make([]Resolver, 0, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, &LoadError{Path: p, Err: err}
		}
		var f Framework
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, &LoadError{Path: p, Err: fmt.Errorf("parse yaml: %w", err)}
		}
		if err := f.Validate(); err != nil {
			return nil, &LoadError{Path: p, Err: err}
		}
		if prev, dup := ids[f.FrameworkID]; dup {
			return nil, &LoadError{Path: p, Err: fmt.Errorf("framework %s already defined in %s", f.FrameworkID, prev)}
		}
		ids[f.FrameworkID] = p
		resolvers = append(resolvers, &f)
	}
	return NewRegistry(logger, resolvers...), nil
}
