package telemetry

import (
	"encoding/json"
	"strconv"
)

// Kind discriminates the variants of a field Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindText
)

// Value is a single decoded field value. The decoder hands over loosely
// typed scalars; keeping the tag explicit means a missing field can never
// be mistaken for a zero.
type Value struct {
	kind Kind
	num  float64
	b    bool
	text string
}

// Null returns the null Value. It is also the zero value of the type.
func Null() Value { return Value{} }

// Number returns a numeric Value.
func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Text returns a string Value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// ValueOf converts a dynamically typed scalar, as produced by a JSON
// decoder, into a Value. Unsupported types map to null.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Text(t.String())
		}
		return Number(f)
	case bool:
		return Bool(t)
	case string:
		return Text(t)
	default:
		return Null()
	}
}

// Kind returns the variant tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull returns true if the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload. The second return value is false
// when the value is not a number.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Bool returns the boolean payload. The second return value is false
// when the value is not a boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Text returns the string payload. The second return value is false
// when the value is not a string.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindText:
		return v.text
	default:
		return "null"
	}
}

// MarshalJSON encodes the value as its underlying scalar, or JSON null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindText:
		return json.Marshal(v.text)
	default:
		return []byte("null"), nil
	}
}
