// Package crosswalk maps compliance requirements onto equivalent controls in
// other regulatory frameworks.
//
// Each framework is resolved independently. A framework that fails (returns
// an error or panics) contributes no mappings and is reported as failed; the
// remaining frameworks are unaffected.
package crosswalk

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/c360studio/semcomply/vocabulary/aiact"
)

// Mapping is one equivalent control in a target framework.
type Mapping struct {
	FrameworkID     string  `json:"framework_id" yaml:"-"`
	TargetControlID string  `json:"target_control_id" yaml:"control"`
	Section         string  `json:"section,omitempty" yaml:"section"`
	Description     string  `json:"description,omitempty" yaml:"description"`
	Confidence      float64 `json:"confidence" yaml:"confidence"`
}

// Resolver looks up the controls of one framework.
type Resolver interface {
	ID() string
	Resolve(requirement string) ([]Mapping, error)
}

// Mapper maps requirements across every known framework.
type Mapper interface {
	Map(requirements []string) Result
}

// Result holds the mappings for a set of requirements.
type Result struct {
	// Mappings is keyed by requirement; requirements without any equivalent
	// control are absent.
	Mappings map[string][]Mapping `json:"mappings"`

	// Failed lists frameworks that could not be resolved, sorted.
	Failed []string `json:"failed_frameworks,omitempty"`
}

// Framework is a static mapping table keyed by requirement identifier.
type Framework struct {
	FrameworkID string               `json:"id" yaml:"id"`
	Name        string               `json:"name" yaml:"name"`
	Version     string               `json:"version,omitempty" yaml:"version"`
	Controls    map[string][]Mapping `json:"controls" yaml:"controls"`
}

// ID returns the framework identifier.
func (f *Framework) ID() string { return f.FrameworkID }

// Resolve returns the controls equivalent to requirement.
func (f *Framework) Resolve(requirement string) ([]Mapping, error) {
	controls := f.Controls[aiact.Entity(requirement)]
	out := make([]Mapping, len(controls))
	for i, m := range controls {
		m.FrameworkID = f.FrameworkID
		out[i] = m
	}
	return out, nil
}

// Validate checks the table and qualifies requirement keys.
func (f *Framework) Validate() error {
	if f.FrameworkID == "" {
		return fmt.Errorf("framework id is required")
	}
	normalized := make(map[string][]Mapping, len(f.Controls))
	for req, mappings := range f.Controls {
		for i, m := range mappings {
			if m.TargetControlID == "" {
				return fmt.Errorf("framework %s: %s mapping %d: control is required", f.FrameworkID, req, i)
			}
			if m.Confidence < 0 || m.Confidence > 1 {
				return fmt.Errorf("framework %s: %s mapping %d: confidence %.2f outside [0,1]", f.FrameworkID, req, i, m.Confidence)
			}
		}
		key := aiact.Entity(req)
		normalized[key] = append(normalized[key], mappings...)
	}
	f.Controls = normalized
	return nil
}

// Registry queries a fixed set of resolvers. It is immutable after
// construction and safe for concurrent use when its resolvers are.
type Registry struct {
	resolvers []Resolver
	logger    *slog.Logger
}

// NewRegistry creates a registry over resolvers, queried in the given order.
func NewRegistry(logger *slog.Logger, resolvers ...Resolver) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{resolvers: append([]Resolver(nil), resolvers...), logger: logger}
}

// Frameworks returns the framework identifiers in query order.
func (r *Registry) Frameworks() []string {
	ids := make([]string, 0, len(r.resolvers))
	for _, res := range r.resolvers {
		ids = append(ids, res.ID())
	}
	return ids
}

// Map resolves every requirement against every framework.
func (r *Registry) Map(requirements []string) Result {
	out := Result{Mappings: make(map[string][]Mapping)}
	for _, res := range r.resolvers {
		perFramework, err := r.resolve(res, requirements)
		if err != nil {
			r.logger.Warn("Framework mapping failed",
				slog.String("framework", res.ID()),
				"error", err)
			out.Failed = append(out.Failed, res.ID())
			continue
		}
		for req, mappings := range perFramework {
			out.Mappings[req] = append(out.Mappings[req], mappings...)
		}
	}
	sort.Strings(out.Failed)
	return out
}

// resolve maps all requirements through one framework. Any error or panic
// discards the framework's partial result.
func (r *Registry) resolve(res Resolver, requirements []string) (result map[string][]Mapping, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	result = make(map[string][]Mapping)
	for _, req := range requirements {
		mappings, err := res.Resolve(req)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", req, err)
		}
		if len(mappings) > 0 {
			result[req] = mappings
		}
	}
	return result, nil
}
