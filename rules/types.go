package rules

import (
	"sort"
	"strings"
)

// Operator is a condition comparison operator.
type Operator string

// Supported operators.
const (
	OpEqual        Operator = "=="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpIn           Operator = "in"
	OpContains     Operator = "contains"
)

// Operators lists every known operator.
var Operators = []Operator{OpEqual, OpNotEqual, OpGreater, OpLess, OpGreaterEqual, OpLessEqual, OpIn, OpContains}

// IsKnown reports whether op is one of the supported operators.
func (op Operator) IsKnown() bool {
	for _, known := range Operators {
		if op == known {
			return true
		}
	}
	return false
}

// ValueType is the declared type a condition compares in.
type ValueType string

// Supported value types.
const (
	TypeInt   ValueType = "int"
	TypeFloat ValueType = "float"
	TypeBool  ValueType = "bool"
	TypeStr   ValueType = "str"
	TypeURI   ValueType = "uri"
)

// ValueTypes lists every known value type.
var ValueTypes = []ValueType{TypeInt, TypeFloat, TypeBool, TypeStr, TypeURI}

// IsKnown reports whether t is one of the supported value types.
func (t ValueType) IsKnown() bool {
	for _, known := range ValueTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Group is a logical rule grouping. Groups do not affect evaluation order
// beyond the order rules appear in the catalog.
type Group string

// Rule groups.
const (
	GroupContextual Group = "contextual"
	GroupTechnical  Group = "technical"
	GroupCascading  Group = "cascading"
	GroupModality   Group = "modality"
)

// Condition is one clause of a rule. It holds for a subject when at least one
// object bound to (subject, Property) converts to Type and satisfies Operator
// against Value.
type Condition struct {
	Property string    `json:"property" yaml:"property"`
	Operator Operator  `json:"operator" yaml:"operator"`
	Type     ValueType `json:"type" yaml:"type"`
	Value    Value     `json:"value" yaml:"value"`
}

// Match reports whether a single object satisfies the condition. Conversion
// failures and unsupported operator/type pairs yield false.
func (c Condition) Match(object any) bool {
	cmp, ok := comparator(c.Operator, c.Type)
	if !ok || !c.Value.resolvedAs(c.Type, c.Operator) {
		return false
	}
	v, ok := Convert(c.Type, object)
	if !ok {
		return false
	}
	return cmp(v, c.Value)
}

// MatchAny reports whether any of objects satisfies the condition.
func (c Condition) MatchAny(objects []any) bool {
	for _, o := range objects {
		if c.Match(o) {
			return true
		}
	}
	return false
}

// Consequence is a fact asserted on the subject when a rule fires.
type Consequence struct {
	Property string `json:"property" yaml:"property"`
	Value    Value  `json:"value" yaml:"value"`
}

// Rule is a declarative condition/consequence pair set.
type Rule struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	Group        Group         `json:"group" yaml:"group"`
	Conditions   []Condition   `json:"conditions" yaml:"conditions"`
	Consequences []Consequence `json:"consequences" yaml:"consequences"`
}

// Properties returns the sorted, distinct properties read by the rule's
// conditions.
func (r Rule) Properties() []string {
	seen := make(map[string]struct{}, len(r.Conditions))
	props := make([]string, 0, len(r.Conditions))
	for _, c := range r.Conditions {
		if _, ok := seen[c.Property]; ok {
			continue
		}
		seen[c.Property] = struct{}{}
		props = append(props, c.Property)
	}
	sort.Strings(props)
	return props
}

// Writes returns the sorted, distinct properties asserted by the rule.
func (r Rule) Writes() []string {
	seen := make(map[string]struct{}, len(r.Consequences))
	props := make([]string, 0, len(r.Consequences))
	for _, c := range r.Consequences {
		if _, ok := seen[c.Property]; ok {
			continue
		}
		seen[c.Property] = struct{}{}
		props = append(props, c.Property)
	}
	sort.Strings(props)
	return props
}

// clone returns a deep copy so callers cannot mutate catalog state.
func (r Rule) clone() Rule {
	out := r
	out.Conditions = make([]Condition, len(r.Conditions))
	for i, c := range r.Conditions {
		c.Value = c.Value.clone()
		out.Conditions[i] = c
	}
	out.Consequences = make([]Consequence, len(r.Consequences))
	for i, c := range r.Consequences {
		c.Value = c.Value.clone()
		out.Consequences[i] = c
	}
	return out
}

func (r Rule) String() string {
	var sb strings.Builder
	sb.WriteString(r.ID)
	if r.Name != "" {
		sb.WriteString(" (")
		sb.WriteString(r.Name)
		sb.WriteString(")")
	}
	return sb.String()
}
