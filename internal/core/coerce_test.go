package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{"12", Number(12)},
		{"-4", Number(-4)},
		{"+7", Number(7)},
		{"3.25", Number(3.25)},
		{".5", Number(0.5)},
		{" 3.5", Number(3.5)},
		{"1e3", Number(1000)},
		{"2E-2", Number(0.02)},
		{"1e", Number(1)},
		{"12abc", Number(12)},
		{"1.2.3", Number(1.2)},
		{"0x10", Number(0)},
		{"True", Bool(true)},
		{"False", Bool(false)},
		{"true", String("true")},
		{"", Null()},
		{"Potion", String("Potion")},
		{".", String(".")},
		{"-", String("-")},
		{" ", String(" ")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Coerce(tt.raw)
			assert.True(t, got.Equal(tt.want), "Coerce(%q) = %v (%s), want %v (%s)",
				tt.raw, got.Interface(), got.Kind(), tt.want.Interface(), tt.want.Kind())
		})
	}
}

func TestCoerce_Infinity(t *testing.T) {
	f, ok := Coerce("Infinity").Float()
	assert.True(t, ok)
	assert.True(t, math.IsInf(f, 1))

	f, ok = Coerce("-Infinity").Float()
	assert.True(t, ok)
	assert.True(t, math.IsInf(f, -1))
}

func TestCoerce_Memoized(t *testing.T) {
	// Repeated calls must agree with the uncached path.
	for _, raw := range []string{"42", "Potion", "", "True"} {
		assert.True(t, Coerce(raw).Equal(coerce(raw)), raw)
		assert.True(t, Coerce(raw).Equal(coerce(raw)), raw)
	}
}

func TestValue_Index(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want int
		ok   bool
	}{
		{"zero", Number(0), 0, true},
		{"positive", Number(17), 17, true},
		{"negative", Number(-1), 0, false},
		{"fraction", Number(1.5), 0, false},
		{"null", Null(), 0, false},
		{"string", String("3"), 0, false},
		{"bool", Bool(true), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.v.Index()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValue_Raw(t *testing.T) {
	assert.Equal(t, "12", Number(12).Raw())
	assert.Equal(t, "0.5", Number(0.5).Raw())
	assert.Equal(t, "True", Bool(true).Raw())
	assert.Equal(t, "False", Bool(false).Raw())
	assert.Equal(t, "Potion", String("Potion").Raw())
	assert.Equal(t, "", Null().Raw())
	assert.Equal(t, "Infinity", Number(math.Inf(1)).Raw())
	assert.Equal(t, "", List(Number(1)).Raw())
}

func TestCoerce_RoundTripsThroughRaw(t *testing.T) {
	inputs := []string{
		"12abc",
		" 3.5",
		"1e400",
		"-1e400",
		"-0",
		"Infinity",
		"-Infinity",
		"0.1",
		"1e21",
		"True",
		"False",
		"",
		"Hi-Potion",
		"True ",
	}
	for _, raw := range inputs {
		first := Coerce(raw)
		again := Coerce(first.Raw())
		assert.True(t, again.Equal(first), "%q: %v then %v", raw, first, again)
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", Null(), "null"},
		{"integer", Number(3), "3"},
		{"fraction", Number(0.25), "0.25"},
		{"infinite", Number(math.Inf(1)), "null"},
		{"bool", Bool(false), "false"},
		{"string", String(`say "hi"`), `"say \"hi\""`},
		{"list", List(Number(1), Null(), String("a")), `[1,null,"a"]`},
		{"empty list", List(), `[]`},
		{"nil row", RowValue(nil), "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.MarshalJSON()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}
