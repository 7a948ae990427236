package rules

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var defaultSources embed.FS

// DefaultPatterns matches every rule file beneath a root.
var DefaultPatterns = []string{"**/*.yaml", "**/*.yml"}

// ruleFile is the YAML layout of a rule source.
//
//	group: technical
//	rules:
//	  - id: high-parameter-count
//	    name: High parameter count
//	    conditions:
//	      - {property: aiact.system.parameter_count, operator: ">", type: int, value: 10000000000}
//	    consequences:
//	      - {property: aiact.inferred.capability, value: high-parameter-count}
//
// A rule may override the file group. Consequence types are inferred from the
// YAML scalar when omitted.
type ruleFile struct {
	Group Group      `yaml:"group"`
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	Group        Group             `yaml:"group"`
	Conditions   []conditionSpec   `yaml:"conditions"`
	Consequences []consequenceSpec `yaml:"consequences"`
}

type conditionSpec struct {
	Property string    `yaml:"property"`
	Operator Operator  `yaml:"operator"`
	Type     ValueType `yaml:"type"`
	Value    any       `yaml:"value"`
}

type consequenceSpec struct {
	Property string    `yaml:"property"`
	Type     ValueType `yaml:"type"`
	Value    any       `yaml:"value"`
}

// Default builds the catalog embedded in the binary.
func Default(logger *slog.Logger) (*Catalog, error) {
	return LoadCatalog(defaultSources, logger, "catalog/*.yaml")
}

// MustDefault is Default that panics on error.
func MustDefault(logger *slog.Logger) *Catalog {
	c, err := Default(logger)
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalogDir is LoadCatalog over a directory on disk.
func LoadCatalogDir(dir string, logger *slog.Logger, patterns ...string) (*Catalog, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, &LoadError{Path: dir, Err: err}
	}
	return LoadCatalog(os.DirFS(dir), logger, patterns...)
}

// LoadCatalog reads every rule file in fsys matching patterns (DefaultPatterns
// when none are given), in lexical path order, and builds a catalog. Read and
// parse failures are *LoadError; unusable clauses are ConfigWarnings.
func LoadCatalog(fsys fs.FS, logger *slog.Logger, patterns ...string) (*Catalog, error) {
	paths, err := matchSources(fsys, patterns)
	if err != nil {
		return nil, err
	}

	var (
		all      []Rule
		warnings []ConfigWarning
	)
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, &LoadError{Path: p, Err: err}
		}
		rules, ws, err := ParseRules(data)
		if err != nil {
			return nil, &LoadError{Path: p, Err: err}
		}
		all = append(all, rules...)
		warnings = append(warnings, ws...)
	}

	c, err := newCatalog(all, warnings, logger)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	return c, nil
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

// ParseRules decodes one rule file. Values that cannot be resolved are
// reported as warnings and left unresolved so the clause never matches.
func ParseRules(data []byte) ([]Rule, []ConfigWarning, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse yaml: %w", err)
	}

	var warnings []ConfigWarning
	rules := make([]Rule, 0, len(file.Rules))
	for _, spec := range file.Rules {
		r := Rule{
			ID:          strings.TrimSpace(spec.ID),
			Name:        spec.Name,
			Description: strings.TrimSpace(spec.Description),
			Group:       spec.Group,
		}
		if r.Group == "" {
			r.Group = file.Group
		}

		for i, cs := range spec.Conditions {
			cond := Condition{Property: cs.Property, Operator: cs.Operator, Type: cs.Type}
			if cs.Operator.IsKnown() && cs.Type.IsKnown() && Supports(cs.Operator, cs.Type) {
				v, err := Resolve(cs.Type, cs.Operator, cs.Value)
				if err != nil {
					warnings = append(warnings, ConfigWarning{
						RuleID: r.ID, Clause: "condition", Index: i,
						Property: cs.Property, Operator: cs.Operator, Type: cs.Type,
						Reason: err.Error(),
					})
				} else {
					cond.Value = v
				}
			}
			r.Conditions = append(r.Conditions, cond)
		}

		for i, cs := range spec.Consequences {
			v, err := consequenceValue(cs)
			if err != nil {
				warnings = append(warnings, ConfigWarning{
					RuleID: r.ID, Clause: "consequence", Index: i,
					Property: cs.Property, Type: cs.Type,
					Reason: err.Error() + "; dropped",
				})
			}
			r.Consequences = append(r.Consequences, Consequence{Property: cs.Property, Value: v})
		}
		rules = append(rules, r)
	}
	return rules, warnings, nil
}

func consequenceValue(cs consequenceSpec) (Value, error) {
	if cs.Type == "" {
		return Infer(cs.Value)
	}
	if _, isList := cs.Value.([]any); isList {
		return Value{}, fmt.Errorf("consequence value must be a single literal")
	}
	return Resolve(cs.Type, OpEqual, cs.Value)
}
