package features

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type kind uint8

const (
	kindMissing kind = iota
	kindNumber
	kindText
	kindTime
)

// Value is a single cell of a student record: a number, a piece of text,
// a timestamp, or missing. The zero Value is missing.
type Value struct {
	kind kind
	num  float64
	text string
	at   time.Time
}

// Missing returns the missing marker.
func Missing() Value { return Value{} }

// Number wraps f. NaN is stored as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: kindNumber, num: f}
}

// Text wraps s as an unparsed text cell.
func Text(s string) Value { return Value{kind: kindText, text: s} }

// Time wraps a timestamp cell, as produced by spreadsheet readers.
func Time(t time.Time) Value { return Value{kind: kindTime, at: t} }

// ValueOf converts an arbitrary Go value into a Value. It never fails:
// values of unknown types are kept as their fmt.Sprint text.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return Missing()
	case Value:
		return t
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case bool:
		if t {
			return Number(1)
		}
		return Number(0)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Text(t.String())
		}
		return Number(f)
	case decimal.Decimal:
		return Number(t.InexactFloat64())
	case string:
		return Text(t)
	case time.Time:
		return Time(t)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Missing()
		}
		return ValueOf(rv.Elem().Interface())
	}
	return Text(fmt.Sprint(v))
}

// IsMissing reports whether v is the missing marker.
func (v Value) IsMissing() bool { return v.kind == kindMissing }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == kindNumber }

// Float returns the numeric content of v. The second result is false for
// anything that is not already a number; use CoerceNumeric to parse text.
func (v Value) Float() (float64, bool) {
	if v.kind != kindNumber {
		return math.NaN(), false
	}
	return v.num, true
}

// TextValue returns the text content of v and whether v is text.
func (v Value) TextValue() (string, bool) {
	return v.text, v.kind == kindText
}

// TimeValue returns the timestamp content of v and whether v is a timestamp.
func (v Value) TimeValue() (time.Time, bool) {
	return v.at, v.kind == kindTime
}

// String renders v the way a spreadsheet cell would be stringified:
// missing becomes "nan", whole numbers keep one decimal ("7.0").
func (v Value) String() string {
	switch v.kind {
	case kindNumber:
		return formatNumber(v.num)
	case kindText:
		return v.text
	case kindTime:
		return v.at.Format("2006-01-02 15:04:05")
	default:
		return "nan"
	}
}

// Interface returns v as a plain Go value: nil, float64, string or time.Time.
func (v Value) Interface() any {
	switch v.kind {
	case kindNumber:
		return v.num
	case kindText:
		return v.text
	case kindTime:
		return v.at
	default:
		return nil
	}
}

// MarshalJSON encodes missing as null and infinities as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == kindNumber && math.IsInf(v.num, 0) {
		return json.Marshal(formatNumber(v.num))
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts any JSON scalar.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e16:
		return strconv.FormatFloat(f, 'f', 1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// Record is one student: indicator name to value. A key being present
// means the column exists in the record's schema even if its value is missing.
type Record map[string]Value

// RecordFrom builds a Record from loosely typed input such as decoded JSON.
func RecordFrom(m map[string]any) Record {
	r := make(Record, len(m))
	for k, v := range m {
		r[k] = ValueOf(v)
	}
	return r
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Has reports whether column is part of the record's schema.
func (r Record) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Float returns the numeric value stored under column.
func (r Record) Float(column string) (float64, bool) {
	v, ok := r[column]
	if !ok {
		return math.NaN(), false
	}
	return v.Float()
}

// Columns returns the record's column names in sorted order.
func (r Record) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Map flattens r into plain Go values. Infinities are kept as "inf" and
// "-inf" text so the result always encodes as JSON.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		if v.kind == kindNumber && math.IsInf(v.num, 0) {
			out[k] = formatNumber(v.num)
			continue
		}
		out[k] = v.Interface()
	}
	return out
}
