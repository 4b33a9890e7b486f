package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Kinds(t *testing.T) {
	assert.True(t, Missing().IsMissing())
	assert.True(t, Value{}.IsMissing(), "zero Value is missing")
	assert.True(t, Str("").IsMissing(), "empty string reads as missing")
	assert.Equal(t, kindString, Str("x").kind)
	assert.Equal(t, kindNumber, Num(0).kind)
	assert.False(t, Str("2.5").Equal(Num(2.5)), "kinds never compare equal")
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"missing", Missing(), ""},
		{"string", Str("1Z999"), "1Z999"},
		{"integer number", Num(42), "42"},
		{"large number has no exponent", Num(150000000000), "150000000000"},
		{"fraction", Num(5.25), "5.25"},
		{"infinity", Num(math.Inf(1)), "+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.String())
		})
	}
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Str("a").Equal(Str("a")))
	assert.False(t, Str("1").Equal(Num(1)), "kinds differ")
	assert.True(t, Missing().Equal(Str("")))
	assert.True(t, Num(math.NaN()).Equal(Num(math.NaN())))
}

func TestValue_MarshalJSON(t *testing.T) {
	row := Row{Str("Alice"), Missing(), Num(150000000000)}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `["Alice", null, "150000000000"]`, string(data))
}
