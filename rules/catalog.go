package rules

import (
	"fmt"
	"log/slog"
	"sort"
)

// Catalog is an immutable, ordered collection of rules. It is built once at
// startup and shared read-only; every accessor returns copies.
type Catalog struct {
	rules    []Rule
	byID     map[string]int
	groups   []Group
	warnings []ConfigWarning
}

// NewCatalog validates rules and builds a catalog preserving their order.
// Duplicate or empty rule ids are errors. Clauses that can never match are
// kept, reported as ConfigWarnings and logged.
func NewCatalog(rules []Rule, logger *slog.Logger) (*Catalog, error) {
	return newCatalog(rules, nil, logger)
}

func newCatalog(rules []Rule, pre []ConfigWarning, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Catalog{
		rules:    make([]Rule, 0, len(rules)),
		byID:     make(map[string]int, len(rules)),
		warnings: append([]ConfigWarning(nil), pre...),
	}
	seenGroup := make(map[Group]struct{})
	reported := make(map[clauseKey]struct{}, len(pre))
	for _, w := range pre {
		reported[clauseKey{w.RuleID, w.Clause, w.Index}] = struct{}{}
	}

	for _, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("%w (rule %q)", ErrEmptyRuleID, r.Name)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r.ID)
		}

		r = r.clone()
		c.warnings = append(c.warnings, check(&r, reported)...)
		c.byID[r.ID] = len(c.rules)
		c.rules = append(c.rules, r)

		if _, ok := seenGroup[r.Group]; !ok {
			seenGroup[r.Group] = struct{}{}
			c.groups = append(c.groups, r.Group)
		}
	}

	for _, w := range c.warnings {
		logger.Warn("Rule configuration warning",
			slog.String("rule", w.RuleID),
			slog.String("clause", w.Clause),
			slog.Int("index", w.Index),
			slog.String("property", w.Property),
			slog.String("operator", string(w.Operator)),
			slog.String("type", string(w.Type)),
			slog.String("reason", w.Reason))
	}
	return c, nil
}

type clauseKey struct {
	rule   string
	clause string
	index  int
}

// check reports conditions that can never match and drops consequences that
// cannot be asserted. Clauses already in reported are not reported twice.
func check(r *Rule, reported map[clauseKey]struct{}) []ConfigWarning {
	var warnings []ConfigWarning
	if len(r.Conditions) == 0 {
		warnings = append(warnings, ConfigWarning{RuleID: r.ID, Reason: "rule has no conditions and never fires"})
	}

	for i, cond := range r.Conditions {
		w := ConfigWarning{RuleID: r.ID, Clause: "condition", Index: i, Property: cond.Property, Operator: cond.Operator, Type: cond.Type}
		switch {
		case cond.Property == "":
			w.Reason = "condition has no property"
		case !cond.Operator.IsKnown():
			w.Reason = fmt.Sprintf("unknown operator %q", cond.Operator)
		case !cond.Type.IsKnown():
			w.Reason = fmt.Sprintf("unknown value type %q", cond.Type)
		case !Supports(cond.Operator, cond.Type):
			w.Reason = fmt.Sprintf("operator %s is not defined for %s", cond.Operator, cond.Type)
		case !cond.Value.resolvedAs(cond.Type, cond.Operator):
			if _, ok := reported[clauseKey{r.ID, w.Clause, i}]; ok {
				continue
			}
			w.Reason = fmt.Sprintf("value %s does not fit %s %s", cond.Value, cond.Operator, cond.Type)
		default:
			continue
		}
		warnings = append(warnings, w)
	}

	kept := r.Consequences[:0]
	for i, cons := range r.Consequences {
		w := ConfigWarning{RuleID: r.ID, Clause: "consequence", Index: i, Property: cons.Property, Type: cons.Value.Type}
		switch {
		case cons.Property == "":
			w.Reason = "consequence has no property; dropped"
		case cons.Value.IsZero() || cons.Value.IsList():
			if _, ok := reported[clauseKey{r.ID, w.Clause, i}]; ok {
				continue
			}
			w.Reason = "consequence value is not a single literal; dropped"
		default:
			kept = append(kept, cons)
			continue
		}
		warnings = append(warnings, w)
	}
	r.Consequences = kept
	return warnings
}

// All returns every rule in catalog order.
func (c *Catalog) All() []Rule {
	if c == nil {
		return nil
	}
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.rules)
}

// Get returns the rule with the given id.
func (c *Catalog) Get(id string) (Rule, bool) {
	if c == nil {
		return Rule{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i].clone(), true
}

// Groups returns the groups in order of first appearance.
func (c *Catalog) Groups() []Group {
	if c == nil {
		return nil
	}
	return append([]Group(nil), c.groups...)
}

// ByGroup returns the rules of one group in catalog order.
func (c *Catalog) ByGroup(g Group) []Rule {
	if c == nil {
		return nil
	}
	var out []Rule
	for _, r := range c.rules {
		if r.Group == g {
			out = append(out, r.clone())
		}
	}
	return out
}

// Warnings returns the configuration warnings found while building.
func (c *Catalog) Warnings() []ConfigWarning {
	if c == nil {
		return nil
	}
	return append([]ConfigWarning(nil), c.warnings...)
}

// Properties returns the sorted set of properties read by any condition.
func (c *Catalog) Properties() []string {
	if c == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var props []string
	for _, r := range c.rules {
		for _, p := range r.Properties() {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			props = append(props, p)
		}
	}
	sort.Strings(props)
	return props
}
