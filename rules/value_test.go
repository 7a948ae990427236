package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		typ    ValueType
		object any
		want   Value
		ok     bool
	}{
		{"int from int64", TypeInt, int64(5), IntValue(5), true},
		{"int from integral float", TypeInt, 5.0, IntValue(5), true},
		{"int from fractional float", TypeInt, 5.5, Value{}, false},
		{"int from numeric string", TypeInt, " 15000000000 ", IntValue(15000000000), true},
		{"int from word", TypeInt, "many", Value{}, false},
		{"int from bool", TypeInt, true, Value{}, false},
		{"float from int64", TypeFloat, int64(2), FloatValue(2), true},
		{"float from string", TypeFloat, "0.25", FloatValue(0.25), true},
		{"bool from bool", TypeBool, true, BoolValue(true), true},
		{"bool from string", TypeBool, "true", BoolValue(true), true},
		{"bool from int", TypeBool, int64(1), Value{}, false},
		{"str from int", TypeStr, int64(3), StrValue("3"), true},
		{"str from string", TypeStr, "full", StrValue("full"), true},
		{"uri from string", TypeURI, "aiact:X", Value{Type: TypeURI, Str: "aiact:X"}, true},
		{"uri from int", TypeURI, int64(3), Value{}, false},
		{"unknown type", ValueType("date"), "x", Value{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Convert(tt.typ, tt.object)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	v, err := Resolve(TypeURI, OpEqual, "BiometricIdentification")
	require.NoError(t, err)
	assert.Equal(t, "aiact:BiometricIdentification", v.Str)

	v, err = Resolve(TypeURI, OpContains, "RealTime")
	require.NoError(t, err)
	assert.Equal(t, "RealTime", v.Str, "contains keeps the raw fragment")

	v, err = Resolve(TypeInt, OpIn, []any{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, ListValue(TypeInt, IntValue(1), IntValue(2), IntValue(3)), v)

	v, err = Resolve(TypeStr, OpIn, "solo")
	require.NoError(t, err)
	assert.Equal(t, []any{"solo"}, v.Any())

	_, err = Resolve(TypeInt, OpEqual, "lots")
	assert.Error(t, err)

	_, err = Resolve(TypeInt, OpEqual, []any{1})
	assert.Error(t, err)

	_, err = Resolve(TypeInt, OpIn, []any{1, "x"})
	assert.Error(t, err)

	_, err = Resolve(ValueType("date"), OpEqual, "x")
	assert.Error(t, err)
}

func TestInfer(t *testing.T) {
	tests := []struct {
		raw  any
		want Value
	}{
		{true, BoolValue(true)},
		{7, IntValue(7)},
		{1.5, FloatValue(1.5)},
		{"high-parameter-count", StrValue("high-parameter-count")},
		{"aiact:HighRisk", Value{Type: TypeURI, Str: "aiact:HighRisk"}},
	}
	for _, tt := range tests {
		got, err := Infer(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := Infer(nil)
	assert.Error(t, err)
}

func TestValueMarshalJSON(t *testing.T) {
	data, err := ListValue(TypeStr, StrValue("a"), StrValue("b")).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(data))
}
