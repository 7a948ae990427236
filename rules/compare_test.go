package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupports(t *testing.T) {
	assert.True(t, Supports(OpGreater, TypeInt))
	assert.True(t, Supports(OpLessEqual, TypeFloat))
	assert.True(t, Supports(OpIn, TypeBool))
	assert.True(t, Supports(OpContains, TypeStr))
	assert.True(t, Supports(OpContains, TypeURI))

	assert.False(t, Supports(OpGreater, TypeBool))
	assert.False(t, Supports(OpGreater, TypeStr))
	assert.False(t, Supports(OpContains, TypeInt))
	assert.False(t, Supports(Operator("~="), TypeStr))
	assert.False(t, Supports(OpEqual, ValueType("date")))
}

func TestConditionMatch(t *testing.T) {
	tests := []struct {
		name   string
		cond   Condition
		object any
		want   bool
	}{
		{
			name:   "int greater",
			cond:   Condition{Property: "p", Operator: OpGreater, Type: TypeInt, Value: IntValue(10_000_000_000)},
			object: int64(15_000_000_000),
			want:   true,
		},
		{
			name:   "int greater at threshold",
			cond:   Condition{Property: "p", Operator: OpGreater, Type: TypeInt, Value: IntValue(10_000_000_000)},
			object: int64(10_000_000_000),
			want:   false,
		},
		{
			name:   "conversion failure is false",
			cond:   Condition{Property: "p", Operator: OpGreater, Type: TypeInt, Value: IntValue(1)},
			object: "not a number",
			want:   false,
		},
		{
			name:   "float less equal",
			cond:   Condition{Property: "p", Operator: OpLessEqual, Type: TypeFloat, Value: FloatValue(0.5)},
			object: 0.5,
			want:   true,
		},
		{
			name:   "bool equal from string",
			cond:   Condition{Property: "p", Operator: OpEqual, Type: TypeBool, Value: BoolValue(true)},
			object: "true",
			want:   true,
		},
		{
			name:   "str in",
			cond:   Condition{Property: "p", Operator: OpIn, Type: TypeStr, Value: ListValue(TypeStr, StrValue("full"), StrValue("autonomous"))},
			object: "autonomous",
			want:   true,
		},
		{
			name:   "str not in",
			cond:   Condition{Property: "p", Operator: OpIn, Type: TypeStr, Value: ListValue(TypeStr, StrValue("full"))},
			object: "partial",
			want:   false,
		},
		{
			name:   "uri contains",
			cond:   Condition{Property: "p", Operator: OpContains, Type: TypeURI, Value: Value{Type: TypeURI, Str: "RealTime"}},
			object: "aiact:RealTimeProcessing",
			want:   true,
		},
		{
			name:   "uri not equal",
			cond:   Condition{Property: "p", Operator: OpNotEqual, Type: TypeURI, Value: URIValue("A")},
			object: "aiact:B",
			want:   true,
		},
		{
			name:   "unknown operator",
			cond:   Condition{Property: "p", Operator: Operator("~="), Type: TypeStr, Value: StrValue("x")},
			object: "x",
			want:   false,
		},
		{
			name:   "unsupported pair",
			cond:   Condition{Property: "p", Operator: OpGreater, Type: TypeBool, Value: BoolValue(true)},
			object: true,
			want:   false,
		},
		{
			name:   "unresolved value",
			cond:   Condition{Property: "p", Operator: OpEqual, Type: TypeInt},
			object: int64(0),
			want:   false,
		},
		{
			name:   "scalar value for in",
			cond:   Condition{Property: "p", Operator: OpIn, Type: TypeInt, Value: IntValue(1)},
			object: int64(1),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Match(tt.object))
		})
	}
}

func TestConditionMatchAny_Existential(t *testing.T) {
	cond := Condition{Property: "p", Operator: OpEqual, Type: TypeURI, Value: URIValue("PublicSpaces")}

	assert.True(t, cond.MatchAny([]any{"aiact:Workplace", "aiact:PublicSpaces"}))
	assert.False(t, cond.MatchAny([]any{"aiact:Workplace"}))
	assert.False(t, cond.MatchAny(nil))

	// One bad object does not poison the others.
	gt := Condition{Property: "p", Operator: OpGreater, Type: TypeInt, Value: IntValue(3)}
	assert.True(t, gt.MatchAny([]any{"junk", int64(4)}))
}
