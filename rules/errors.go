package rules

import (
	"errors"
	"fmt"
)

// Catalog build errors.
var (
	// ErrEmptyRuleID is returned when a rule has no identifier.
	ErrEmptyRuleID = errors.New("rule id is required")

	// ErrDuplicateRule is returned when two rules share an identifier.
	ErrDuplicateRule = errors.New("duplicate rule id")

	// ErrNoSources is returned when no rule file matches the patterns.
	ErrNoSources = errors.New("no rule sources matched")
)

// LoadError reports that a rule source could not be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load rules: %v", e.Err)
	}
	return fmt.Sprintf("load rules %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ConfigWarning describes a rule clause that was accepted but can never
// match (or a consequence that was dropped). Processing continues.
type ConfigWarning struct {
	RuleID string `json:"rule_id"`

	// Clause is "condition" or "consequence"; Index is its position in the rule.
	Clause string `json:"clause,omitempty"`
	Index  int    `json:"index"`

	Property string    `json:"property,omitempty"`
	Operator Operator  `json:"operator,omitempty"`
	Type     ValueType `json:"type,omitempty"`
	Reason   string    `json:"reason"`
}

func (w ConfigWarning) String() string {
	if w.Clause == "" {
		return fmt.Sprintf("rule %s: %s", w.RuleID, w.Reason)
	}
	return fmt.Sprintf("rule %s %s %d (%s %s %s): %s",
		w.RuleID, w.Clause, w.Index, w.Property, w.Operator, w.Type, w.Reason)
}
