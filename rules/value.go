package rules

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/c360studio/semcomply/vocabulary/aiact"
)

// Value is a typed literal: exactly one of Int, Float, Bool or Str is
// meaningful, selected by Type. URI values keep the entity identifier in Str.
// A list value (the reference side of "in") has List set and Type naming
// the element type.
//
// The zero Value is unresolved and never matches.
type Value struct {
	Type  ValueType
	Int   int64
	Float float64
	Bool  bool
	Str   string
	List  []Value
}

// IntValue returns an int value.
func IntValue(n int64) Value { return Value{Type: TypeInt, Int: n} }

// FloatValue returns a float value.
func FloatValue(f float64) Value { return Value{Type: TypeFloat, Float: f} }

// BoolValue returns a bool value.
func BoolValue(b bool) Value { return Value{Type: TypeBool, Bool: b} }

// StrValue returns a string value.
func StrValue(s string) Value { return Value{Type: TypeStr, Str: s} }

// URIValue returns an entity identifier value. Bare names are qualified into
// the aiact namespace.
func URIValue(id string) Value { return Value{Type: TypeURI, Str: aiact.Entity(id)} }

// ListValue returns a list of values of type t for use with "in".
func ListValue(t ValueType, items ...Value) Value {
	list := make([]Value, len(items))
	copy(list, items)
	return Value{Type: t, List: list}
}

// IsZero reports whether the value is unresolved.
func (v Value) IsZero() bool { return v.Type == "" }

// IsList reports whether v is a list value.
func (v Value) IsList() bool { return v.List != nil }

// Any returns the value as a graph literal: int64, float64, bool or string,
// or []any for lists.
func (v Value) Any() any {
	if v.IsList() {
		out := make([]any, len(v.List))
		for i, item := range v.List {
			out[i] = item.Any()
		}
		return out
	}
	switch v.Type {
	case TypeInt:
		return v.Int
	case TypeFloat:
		return v.Float
	case TypeBool:
		return v.Bool
	case TypeStr, TypeURI:
		return v.Str
	default:
		return nil
	}
}

func (v Value) String() string {
	if v.IsZero() {
		return "<unresolved>"
	}
	return fmt.Sprintf("%v", v.Any())
}

// MarshalJSON encodes the plain literal.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// MarshalYAML encodes the plain literal.
func (v Value) MarshalYAML() (any, error) {
	return v.Any(), nil
}

func (v Value) clone() Value {
	if v.List != nil {
		v.List = append([]Value{}, v.List...)
	}
	return v
}

// resolvedAs reports whether v is a usable reference for op over type t.
func (v Value) resolvedAs(t ValueType, op Operator) bool {
	if v.Type != t {
		return false
	}
	if op == OpIn {
		return v.List != nil
	}
	return v.List == nil
}

// Resolve converts a raw reference value, as decoded from a rule file, into a
// typed Value for operator op. "in" takes a list (a scalar becomes a list of
// one); every other operator takes a scalar. URI references are qualified into
// the aiact namespace except for "contains", which matches a raw fragment.
func Resolve(t ValueType, op Operator, raw any) (Value, error) {
	if !t.IsKnown() {
		return Value{}, fmt.Errorf("unknown value type %q", t)
	}
	if op == OpIn {
		items, ok := raw.([]any)
		if !ok {
			items = []any{raw}
		}
		list := make([]Value, 0, len(items))
		for i, item := range items {
			v, err := resolveScalar(t, OpEqual, item)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			list = append(list, v)
		}
		return Value{Type: t, List: list}, nil
	}
	if _, isList := raw.([]any); isList {
		return Value{}, fmt.Errorf("operator %s takes a single value, got a list", op)
	}
	return resolveScalar(t, op, raw)
}

func resolveScalar(t ValueType, op Operator, raw any) (Value, error) {
	if raw == nil {
		return Value{}, fmt.Errorf("missing value")
	}
	if t == TypeURI {
		s, ok := raw.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return Value{}, fmt.Errorf("value %v is not an entity identifier", raw)
		}
		if op == OpContains {
			return Value{Type: TypeURI, Str: s}, nil
		}
		return URIValue(s), nil
	}
	v, ok := Convert(t, raw)
	if !ok {
		return Value{}, fmt.Errorf("value %v does not convert to %s", raw, t)
	}
	return v, nil
}

// Infer picks a value type for a raw consequence value that carries no
// explicit type. Strings containing ':' are entity identifiers.
func Infer(raw any) (Value, error) {
	switch r := raw.(type) {
	case bool:
		return BoolValue(r), nil
	case int:
		return IntValue(int64(r)), nil
	case int64:
		return IntValue(r), nil
	case uint64:
		if r > math.MaxInt64 {
			return FloatValue(float64(r)), nil
		}
		return IntValue(int64(r)), nil
	case float64:
		return FloatValue(r), nil
	case string:
		if strings.Contains(r, ":") {
			return Value{Type: TypeURI, Str: r}, nil
		}
		return StrValue(r), nil
	default:
		return Value{}, fmt.Errorf("unsupported value %v (%T)", raw, raw)
	}
}

// Convert converts a graph object to type t. It never panics; ok is false when
// the object has no faithful representation in t.
func Convert(t ValueType, object any) (Value, bool) {
	switch t {
	case TypeInt:
		n, ok := toInt(object)
		return IntValue(n), ok
	case TypeFloat:
		f, ok := toFloat(object)
		return FloatValue(f), ok
	case TypeBool:
		b, ok := toBool(object)
		return BoolValue(b), ok
	case TypeStr:
		s, ok := toStr(object)
		return StrValue(s), ok
	case TypeURI:
		s, ok := object.(string)
		if !ok || s == "" {
			return Value{}, false
		}
		return Value{Type: TypeURI, Str: s}, true
	default:
		return Value{}, false
	}
}

func toInt(o any) (int64, bool) {
	switch n := o.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func toFloat(o any) (float64, bool) {
	switch n := o.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil && !math.IsNaN(f)
	default:
		return 0, false
	}
}

func toBool(o any) (bool, bool) {
	switch b := o.(type) {
	case bool:
		return b, true
	case string:
		v, err := strconv.ParseBool(strings.TrimSpace(b))
		return v, err == nil
	default:
		return false, false
	}
}

func toStr(o any) (string, bool) {
	switch s := o.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	case bool:
		return strconv.FormatBool(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case int:
		return strconv.Itoa(s), true
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64), true
	default:
		return fmt.Sprint(s), true
	}
}
