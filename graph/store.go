package graph

import (
	"sort"

	"github.com/c360studio/semcomply/vocabulary/aiact"
)

// store is the append-only fact storage shared by Ontology and Graph.
type store struct {
	spo   map[string]map[string][]any
	keys  map[factKey]struct{}
	types map[string][]string // class -> subjects, in insertion order
	order []Fact
}

func newStore() *store {
	return &store{
		spo:   make(map[string]map[string][]any),
		keys:  make(map[factKey]struct{}),
		types: make(map[string][]string),
	}
}

func (s *store) has(k factKey) bool {
	_, ok := s.keys[k]
	return ok
}

// add inserts a normalized fact; callers check has first.
func (s *store) add(k factKey, f Fact) {
	s.keys[k] = struct{}{}
	preds, ok := s.spo[f.Subject]
	if !ok {
		preds = make(map[string][]any)
		s.spo[f.Subject] = preds
	}
	preds[f.Predicate] = append(preds[f.Predicate], f.Object)
	if f.Predicate == aiact.Type {
		if class, ok := f.Object.(string); ok {
			s.types[class] = append(s.types[class], f.Subject)
		}
	}
	s.order = append(s.order, f)
}

func (s *store) objects(subject, predicate string) []any {
	if s == nil {
		return nil
	}
	return s.spo[subject][predicate]
}

func (s *store) instances(class string) []string {
	if s == nil {
		return nil
	}
	return s.types[class]
}

func (s *store) predicates(subject string) []string {
	if s == nil {
		return nil
	}
	preds := make([]string, 0, len(s.spo[subject]))
	for p := range s.spo[subject] {
		preds = append(preds, p)
	}
	return preds
}

func (s *store) size() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// prepare normalizes a fact and computes its identity key.
func prepare(subject, predicate string, object any) (Fact, factKey, bool) {
	if subject == "" || predicate == "" {
		return Fact{}, factKey{}, false
	}
	obj, ok := normalize(object)
	if !ok {
		return Fact{}, factKey{}, false
	}
	f := Fact{Subject: subject, Predicate: predicate, Object: obj}
	return f, factKey{subject: subject, predicate: predicate, object: keyOf(obj)}, true
}

func sortedUnique(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
