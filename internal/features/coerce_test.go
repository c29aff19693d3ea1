package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceNumeric(t *testing.T) {
	tests := []struct {
		name  string
		in    Value
		want  float64
		isNaN bool
	}{
		{"number passes through", Number(7.5), 7.5, false},
		{"plain text", Text("7.5"), 7.5, false},
		{"surrounding spaces", Text("  12 "), 12, false},
		{"exponent", Text("1e2"), 100, false},
		{"negative", Text("-3.25"), -3.25, false},
		{"thousands separator", Text("1,000"), 0, true},
		{"comma decimal", Text("7,5"), 0, true},
		{"hex literal", Text("0x1A"), 0, true},
		{"underscore digits", Text("1_000"), 0, true},
		{"empty", Text(""), 0, true},
		{"words", Text("sete"), 0, true},
		{"nan text", Text("nan"), 0, true},
		{"missing", Missing(), 0, true},
		{"NaN number", Number(math.NaN()), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceNumeric(tt.in)
			if tt.isNaN {
				assert.True(t, got.IsMissing(), "got %v", got)
				return
			}
			f, ok := got.Float()
			require.True(t, ok)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestCoerceNumericAllKeepsShape(t *testing.T) {
	in := []Value{Text("1"), Text("x"), Missing(), Number(4)}

	got := CoerceNumericAll(in)

	require.Len(t, got, len(in))
	f, _ := got[0].Float()
	assert.Equal(t, 1.0, f)
	assert.True(t, got[1].IsMissing())
	assert.True(t, got[2].IsMissing())
	f, _ = got[3].Float()
	assert.Equal(t, 4.0, f)
}

func TestCoerceNumericNeverPanics(t *testing.T) {
	inputs := []string{"", " ", "1.2.3", "--1", "+", "1e", "1e999", "∞", "١٢", "12abc", "0x", "NaN", "Infinity"}
	for _, s := range inputs {
		assert.NotPanics(t, func() { CoerceNumeric(Text(s)) }, s)
	}
}

func TestValueOf(t *testing.T) {
	f := 3.5
	var nilPtr *float64

	assert.True(t, ValueOf(nil).IsMissing())
	assert.True(t, ValueOf(nilPtr).IsMissing())
	assert.True(t, ValueOf(math.NaN()).IsMissing())

	v, ok := ValueOf(&f).Float()
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	v, ok = ValueOf(int64(12)).Float()
	assert.True(t, ok)
	assert.Equal(t, 12.0, v)

	s, ok := ValueOf("Fase 2").TextValue()
	assert.True(t, ok)
	assert.Equal(t, "Fase 2", s)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "nan", Missing().String())
	assert.Equal(t, "7.0", Number(7).String())
	assert.Equal(t, "7.5", Number(7.5).String())
	assert.Equal(t, "abc", Text("abc").String())
}
