package graph

import (
	"github.com/c360studio/semcomply/vocabulary/aiact"
	"github.com/c360studio/semstreams/message"
)

// Ontology is the immutable set of static facts loaded at process start.
//
// # Thread Safety
//
// An Ontology is never modified after construction and is safe for
// concurrent readers.
type Ontology struct {
	facts *store
}

// NewOntology builds an ontology from pre-parsed triples. Duplicate triples
// collapse; triples with an empty subject, predicate or nil object are skipped.
func NewOntology(triples []message.Triple) *Ontology {
	facts := make([]Fact, 0, len(triples))
	for _, t := range triples {
		facts = append(facts, FromTriple(t))
	}
	return NewOntologyFromFacts(facts)
}

// NewOntologyFromFacts builds an ontology from facts.
func NewOntologyFromFacts(facts []Fact) *Ontology {
	s := newStore()
	for _, f := range facts {
		nf, k, ok := prepare(f.Subject, f.Predicate, f.Object)
		if !ok || s.has(k) {
			continue
		}
		s.add(k, nf)
	}
	return &Ontology{facts: s}
}

// Len returns the number of distinct facts.
func (o *Ontology) Len() int {
	if o == nil {
		return 0
	}
	return o.facts.size()
}

// Facts returns a copy of all facts in load order.
func (o *Ontology) Facts() []Fact {
	if o == nil {
		return nil
	}
	return append([]Fact(nil), o.facts.order...)
}

// Query returns the objects bound to (subject, predicate).
func (o *Ontology) Query(subject, predicate string) []any {
	if o == nil {
		return []any{}
	}
	return append([]any{}, o.facts.objects(subject, predicate)...)
}

// QueryByType returns the sorted subjects declared with the given type.
func (o *Ontology) QueryByType(class string) []string {
	if o == nil {
		return []string{}
	}
	return sortedUnique(o.facts.instances(class))
}

func (o *Ontology) store() *store {
	if o == nil {
		return nil
	}
	return o.facts
}

// Graph is the per-request working graph: an overlay of instance facts on top
// of a shared Ontology. Facts are append-only; nothing is ever retracted.
//
// # Thread Safety
//
// A Graph is owned by a single request and is not safe for concurrent use.
// The underlying Ontology is only read.
type Graph struct {
	base  *Ontology
	local *store
}

// New creates an empty working graph over base. A nil base is treated as an
// empty ontology.
func New(base *Ontology) *Graph {
	return &Graph{base: base, local: newStore()}
}

// Ontology returns the shared static facts beneath this graph.
func (g *Graph) Ontology() *Ontology {
	return g.base
}

// Assert inserts a fact and reports whether it was new. Re-asserting an
// existing fact (static or local) is a no-op that returns false.
func (g *Graph) Assert(subject, predicate string, object any) bool {
	f, k, ok := prepare(subject, predicate, object)
	if !ok {
		return false
	}
	if g.base.store() != nil && g.base.store().has(k) {
		return false
	}
	if g.local.has(k) {
		return false
	}
	g.local.add(k, f)
	return true
}

// AssertAll asserts every fact and returns how many were new.
func (g *Graph) AssertAll(facts []Fact) int {
	added := 0
	for _, f := range facts {
		if g.Assert(f.Subject, f.Predicate, f.Object) {
			added++
		}
	}
	return added
}

// Has reports whether the fact is present.
func (g *Graph) Has(subject, predicate string, object any) bool {
	_, k, ok := prepare(subject, predicate, object)
	if !ok {
		return false
	}
	return g.local.has(k) || (g.base.store() != nil && g.base.store().has(k))
}

// Query returns every object bound to (subject, predicate): static objects
// first, then instance objects. Unknown subjects yield an empty slice.
func (g *Graph) Query(subject, predicate string) []any {
	static := g.base.store().objects(subject, predicate)
	local := g.local.objects(subject, predicate)
	out := make([]any, 0, len(static)+len(local))
	out = append(out, static...)
	return append(out, local...)
}

// QueryIDs returns the string objects bound to (subject, predicate), sorted
// and deduplicated. Non-string literals are skipped.
func (g *Graph) QueryIDs(subject, predicate string) []string {
	var ids []string
	for _, o := range g.Query(subject, predicate) {
		if s, ok := o.(string); ok {
			ids = append(ids, s)
		}
	}
	return sortedUnique(ids)
}

// QueryByType returns the sorted subjects declared with the given type.
func (g *Graph) QueryByType(class string) []string {
	static := g.base.store().instances(class)
	local := g.local.instances(class)
	all := make([]string, 0, len(static)+len(local))
	all = append(all, static...)
	return sortedUnique(append(all, local...))
}

// Systems returns the submitted system instances in the graph.
func (g *Graph) Systems() []string {
	return g.QueryByType(aiact.ClassAISystem)
}

// Predicates returns the sorted predicates that have objects for subject.
func (g *Graph) Predicates(subject string) []string {
	preds := append(g.base.store().predicates(subject), g.local.predicates(subject)...)
	return sortedUnique(preds)
}

// Len returns the total number of facts, static and local.
func (g *Graph) Len() int {
	return g.base.Len() + g.local.size()
}

// LocalLen returns the number of facts asserted on this graph.
func (g *Graph) LocalLen() int {
	return g.local.size()
}

// Facts returns all facts, static first, in assertion order.
func (g *Graph) Facts() []Fact {
	out := g.base.Facts()
	return append(out, g.local.order...)
}

// LocalFacts returns the facts asserted on this graph in assertion order.
func (g *Graph) LocalFacts() []Fact {
	return append([]Fact(nil), g.local.order...)
}

// SubjectFacts returns the local facts about subject in assertion order.
func (g *Graph) SubjectFacts(subject string) []Fact {
	var out []Fact
	for _, f := range g.local.order {
		if f.Subject == subject {
			out = append(out, f)
		}
	}
	return out
}

// Subjects returns the sorted subjects that have local facts.
func (g *Graph) Subjects() []string {
	subjects := make([]string, 0, len(g.local.spo))
	for s := range g.local.spo {
		subjects = append(subjects, s)
	}
	return sortedUnique(subjects)
}
