package graph

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semcomply/vocabulary/aiact"
)

//go:embed ontology/*.yaml
var defaultSources embed.FS

// DefaultPatterns matches every supported ontology file beneath a root.
var DefaultPatterns = []string{"**/*.yaml", "**/*.yml", "**/*.nt"}

// ontologyFile is the YAML layout of an ontology source.
//
//	entities:
//	  - id: BiometricIdentification
//	    type: Purpose
//	    label: Biometric identification
//	    relations:
//	      aiact.purpose.activates_criterion: [BiometricIdentificationCriterion]
//	facts:
//	  - {subject: aiact:X, predicate: aiact.entity.label, object: "X"}
//
// Bare entity names in id, type and relations are qualified into the aiact
// namespace. Objects listed under facts are kept as literals.
type ontologyFile struct {
	Entities []entitySpec `yaml:"entities"`
	Facts    []Fact       `yaml:"facts"`
}

type entitySpec struct {
	ID        string              `yaml:"id"`
	Type      string              `yaml:"type"`
	Label     string              `yaml:"label"`
	Relations map[string][]string `yaml:"relations"`
}

// Load reads every ontology source in fsys matching patterns (DefaultPatterns
// when none are given) and returns the merged immutable ontology. Any source
// that cannot be read or parsed yields a *LoadError.
func Load(fsys fs.FS, patterns ...string) (*Ontology, error) {
	facts, err := LoadFacts(fsys, patterns...)
	if err != nil {
		return nil, err
	}
	return NewOntologyFromFacts(facts), nil
}

// LoadDir is Load over a directory on disk.
func LoadDir(dir string, patterns ...string) (*Ontology, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Path: dir, Err: fmt.Errorf("not a directory")}
	}
	return Load(os.DirFS(dir), patterns...)
}

// Default returns the ontology embedded in the binary.
func Default() (*Ontology, error) {
	return Load(defaultSources, "ontology/*.yaml")
}

// MustDefault is Default that panics on error. The embedded sources are
// covered by tests, so a failure here is a build defect.
func MustDefault() *Ontology {
	o, err := Default()
	if err != nil {
		panic(err)
	}
	return o
}

// LoadFacts reads and parses the matching sources without building an ontology.
// Files are processed in lexical path order so the fact order is stable.
func LoadFacts(fsys fs.FS, patterns ...string) ([]Fact, error) {
	paths, err := matchSources(fsys, patterns)
	if err != nil {
		return nil, err
	}

	var facts []Fact
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, &LoadError{Path: p, Err: err}
		}
		parsed, err := parseSource(p, data)
		if err != nil {
			return nil, err
		}
		facts = append(facts, parsed...)
	}
	return facts, nil
}

func matchSources(fsys fs.FS, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, &LoadError{Path: pattern, Err: fmt.Errorf("glob: %w", err)}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	if len(paths) == 0 {
		return nil, &LoadError{Err: fmt.Errorf("%w: %s", ErrNoSources, strings.Join(patterns, ", "))}
	}
	sort.Strings(paths)
	return paths, nil
}

func parseSource(p string, data []byte) ([]Fact, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return parseYAML(p, data)
	case ".nt":
		return ParseNTriples(p, data)
	default:
		return nil, &LoadError{Path: p, Err: ErrUnsupportedFormat}
	}
}

func parseYAML(p string, data []byte) ([]Fact, error) {
	var file ontologyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &LoadError{Path: p, Err: fmt.Errorf("parse yaml: %w", err)}
	}

	var facts []Fact
	for i, e := range file.Entities {
		id := aiact.Entity(e.ID)
		if id == "" {
			return nil, &LoadError{Path: p, Err: fmt.Errorf("entity %d: id is required", i)}
		}
		if e.Type != "" {
			facts = append(facts, Fact{Subject: id, Predicate: aiact.Type, Object: aiact.Entity(e.Type)})
		}
		if e.Label != "" {
			facts = append(facts, Fact{Subject: id, Predicate: aiact.Label, Object: e.Label})
		}

		// Sort predicates so map iteration does not leak into fact order.
		preds := make([]string, 0, len(e.Relations))
		for pred := range e.Relations {
			preds = append(preds, pred)
		}
		sort.Strings(preds)
		for _, pred := range preds {
			if strings.TrimSpace(pred) == "" {
				return nil, &LoadError{Path: p, Err: fmt.Errorf("entity %s: empty relation predicate", id)}
			}
			for _, target := range e.Relations[pred] {
				obj := aiact.Entity(target)
				if obj == "" {
					return nil, &LoadError{Path: p, Err: fmt.Errorf("entity %s: empty %s target", id, pred)}
				}
				facts = append(facts, Fact{Subject: id, Predicate: pred, Object: obj})
			}
		}
	}

	for i, f := range file.Facts {
		if f.Subject == "" || f.Predicate == "" || f.Object == nil {
			return nil, &LoadError{Path: p, Err: fmt.Errorf("fact %d: subject, predicate and object are required", i)}
		}
		facts = append(facts, f)
	}
	return facts, nil
}
