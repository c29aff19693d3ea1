package features

import (
	"strconv"
	"strings"
)

// CoerceNumeric converts v to a number when it can be read as one and to
// missing otherwise. Thousands separators and comma decimals are not
// understood and yield missing.
func CoerceNumeric(v Value) Value {
	switch v.kind {
	case kindNumber:
		return v
	case kindText:
		return parseNumber(v.text)
	default:
		return Missing()
	}
}

// CoerceNumericAll applies CoerceNumeric element-wise, preserving length and order.
func CoerceNumericAll(vs []Value) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[i] = CoerceNumeric(v)
	}
	return out
}

func parseNumber(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsRune(s, '_') {
		return Missing()
	}
	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X') {
		return Missing()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing()
	}
	return Number(f)
}
