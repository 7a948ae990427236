// Package graph provides the in-memory fact graph used by the reasoner.
//
// A graph holds (subject, predicate, object) facts. Static ontology facts live
// in an immutable Ontology that is loaded once and shared by every request;
// each request reasons over its own Graph, an overlay that adds instance
// facts on top of the ontology without ever mutating it.
package graph

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/c360studio/semstreams/message"
)

// Fact is a single (subject, predicate, object) statement.
// Object is an entity identifier or a literal: int64, float64, bool or string.
type Fact struct {
	Subject   string `json:"subject" yaml:"subject"`
	Predicate string `json:"predicate" yaml:"predicate"`
	Object    any    `json:"object" yaml:"object"`
}

// String renders the fact for logs and test failures.
func (f Fact) String() string {
	return fmt.Sprintf("(%s %s %v)", f.Subject, f.Predicate, f.Object)
}

// Triple converts the fact to a semstreams triple.
func (f Fact) Triple(source string, ts time.Time) message.Triple {
	return message.Triple{
		Subject:    f.Subject,
		Predicate:  f.Predicate,
		Object:     f.Object,
		Source:     source,
		Timestamp:  ts,
		Confidence: 1.0,
	}
}

// FromTriple converts a semstreams triple to a fact.
func FromTriple(t message.Triple) Fact {
	return Fact{Subject: t.Subject, Predicate: t.Predicate, Object: t.Object}
}

// objectKey is a comparable identity for a normalized object value.
type objectKey struct {
	kind byte
	repr string
}

type factKey struct {
	subject   string
	predicate string
	object    objectKey
}

// normalize maps object values onto the canonical literal set so that
// re-asserting 5 and int64(5) is recognized as the same fact.
func normalize(v any) (any, bool) {
	switch o := v.(type) {
	case nil:
		return nil, false
	case string:
		return o, true
	case bool:
		return o, true
	case int:
		return int64(o), true
	case int8:
		return int64(o), true
	case int16:
		return int64(o), true
	case int32:
		return int64(o), true
	case int64:
		return o, true
	case uint:
		return uintToInt(uint64(o))
	case uint8:
		return int64(o), true
	case uint16:
		return int64(o), true
	case uint32:
		return int64(o), true
	case uint64:
		return uintToInt(o)
	case float32:
		return float64(o), true
	case float64:
		if math.IsNaN(o) {
			return nil, false
		}
		return o, true
	case fmt.Stringer:
		return o.String(), true
	default:
		return fmt.Sprint(o), true
	}
}

func uintToInt(u uint64) (any, bool) {
	if u > math.MaxInt64 {
		return float64(u), true
	}
	return int64(u), true
}

func keyOf(v any) objectKey {
	switch o := v.(type) {
	case string:
		return objectKey{kind: 's', repr: o}
	case bool:
		return objectKey{kind: 'b', repr: strconv.FormatBool(o)}
	case int64:
		return objectKey{kind: 'i', repr: strconv.FormatInt(o, 10)}
	case float64:
		return objectKey{kind: 'f', repr: strconv.FormatFloat(o, 'g', -1, 64)}
	default:
		return objectKey{kind: '?', repr: fmt.Sprint(o)}
	}
}
