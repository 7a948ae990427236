package rules

import "strings"

// compareFunc compares a converted object against a resolved reference.
type compareFunc func(object, ref Value) bool

// comparisons is the operator x type table. A missing entry means the pair is
// unsupported and the condition never matches.
var comparisons = map[ValueType]map[Operator]compareFunc{
	TypeInt: {
		OpEqual:        func(o, r Value) bool { return o.Int == r.Int },
		OpNotEqual:     func(o, r Value) bool { return o.Int != r.Int },
		OpGreater:      func(o, r Value) bool { return o.Int > r.Int },
		OpLess:         func(o, r Value) bool { return o.Int < r.Int },
		OpGreaterEqual: func(o, r Value) bool { return o.Int >= r.Int },
		OpLessEqual:    func(o, r Value) bool { return o.Int <= r.Int },
		OpIn:           member(func(o, r Value) bool { return o.Int == r.Int }),
	},
	TypeFloat: {
		OpEqual:        func(o, r Value) bool { return o.Float == r.Float },
		OpNotEqual:     func(o, r Value) bool { return o.Float != r.Float },
		OpGreater:      func(o, r Value) bool { return o.Float > r.Float },
		OpLess:         func(o, r Value) bool { return o.Float < r.Float },
		OpGreaterEqual: func(o, r Value) bool { return o.Float >= r.Float },
		OpLessEqual:    func(o, r Value) bool { return o.Float <= r.Float },
		OpIn:           member(func(o, r Value) bool { return o.Float == r.Float }),
	},
	TypeBool: {
		OpEqual:    func(o, r Value) bool { return o.Bool == r.Bool },
		OpNotEqual: func(o, r Value) bool { return o.Bool != r.Bool },
		OpIn:       member(func(o, r Value) bool { return o.Bool == r.Bool }),
	},
	TypeStr: {
		OpEqual:    strEqual,
		OpNotEqual: func(o, r Value) bool { return o.Str != r.Str },
		OpIn:       member(strEqual),
		OpContains: func(o, r Value) bool { return strings.Contains(o.Str, r.Str) },
	},
	TypeURI: {
		OpEqual:    strEqual,
		OpNotEqual: func(o, r Value) bool { return o.Str != r.Str },
		OpIn:       member(strEqual),
		OpContains: func(o, r Value) bool { return strings.Contains(o.Str, r.Str) },
	},
}

func strEqual(o, r Value) bool { return o.Str == r.Str }

func member(eq compareFunc) compareFunc {
	return func(o, r Value) bool {
		for _, item := range r.List {
			if eq(o, item) {
				return true
			}
		}
		return false
	}
}

func comparator(op Operator, t ValueType) (compareFunc, bool) {
	cmp, ok := comparisons[t][op]
	return cmp, ok
}

// Supports reports whether op is defined for values of type t.
func Supports(op Operator, t ValueType) bool {
	_, ok := comparator(op, t)
	return ok
}
