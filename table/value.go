package table

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
	"unique"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindNull represents a missing value.
	KindNull Kind = iota
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindTime represents a point in time.
	KindTime
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindTime:
		return "datetime"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String. A few common aliases are accepted.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "null":
		return KindNull, true
	case "integer", "int", "int64":
		return KindInt, true
	case "float", "number", "float64", "double":
		return KindFloat, true
	case "string", "str", "text":
		return KindString, true
	case "boolean", "bool":
		return KindBool, true
	case "datetime", "timestamp", "time", "date":
		return KindTime, true
	default:
		return KindNull, false
	}
}

// Value is a small typed scalar used for table cells and filters.
//
// Strings are interned: facet columns usually repeat a handful of values, so
// equality on strings is a handle comparison.
type Value struct {
	Kind Kind
	I64  int64 // KindInt, or unix nanoseconds for KindTime
	F64  float64
	B    bool
	s    unique.Handle[string]
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value. NaN is a missing value and becomes Null.
func Float(v float64) Value {
	if math.IsNaN(v) {
		return Null()
	}
	return Value{Kind: KindFloat, F64: v}
}

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, s: unique.Make(v)} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Time returns a time Value, normalized to UTC.
func Time(v time.Time) Value { return Value{Kind: KindTime, I64: v.UTC().UnixNano()} }

// IsNull reports whether the value is missing.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.s.Value(), true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsTime returns the time value if Kind is KindTime.
func (v Value) AsTime() (time.Time, bool) {
	if v.Kind != KindTime {
		return time.Time{}, false
	}
	return time.Unix(0, v.I64).UTC(), true
}

// Key returns the canonical hash key of the value.
//
// Two non-null values are equal exactly when their keys are equal. Integral
// floats share the key of the matching integer so that Int(1) and Float(1)
// compare equal, while a string never collides with a number.
func (v Value) Key() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return "n:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		if v.F64 == math.Trunc(v.F64) && v.F64 >= math.MinInt64 && v.F64 < math.MaxInt64 {
			return "n:" + strconv.FormatInt(int64(v.F64), 10)
		}
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindString:
		return "s:" + v.s.Value()
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindTime:
		return "t:" + strconv.FormatInt(v.I64, 10)
	default:
		return "invalid"
	}
}

// Equal reports strict equality. Null is never equal to anything, itself included.
func (v Value) Equal(o Value) bool {
	if v.Kind == KindNull || o.Kind == KindNull {
		return false
	}
	return v.Key() == o.Key()
}

// Text returns a human readable rendering of the value. Null renders as the
// empty string.
func (v Value) Text() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindInt:
		return strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case KindString:
		return v.s.Value()
	case KindBool:
		return strconv.FormatBool(v.B)
	case KindTime:
		t, _ := v.AsTime()
		return t.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Any returns the value as a plain Go value (nil for Null).
func (v Value) Any() any {
	switch v.Kind {
	case KindInt:
		return v.I64
	case KindFloat:
		return v.F64
	case KindString:
		return v.s.Value()
	case KindBool:
		return v.B
	case KindTime:
		t, _ := v.AsTime()
		return t
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
//
// Values serialize to their natural JSON form: null, number, string or bool.
// Times serialize as RFC 3339 text. Infinite floats have no JSON form and are
// written as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInt:
		return strconv.AppendInt(nil, v.I64, 10), nil
	case KindFloat:
		if math.IsInf(v.F64, 0) {
			return []byte("null"), nil
		}
		return strconv.AppendFloat(nil, v.F64, 'g', -1, 64), nil
	case KindString:
		return json.Marshal(v.s.Value())
	case KindBool:
		return strconv.AppendBool(nil, v.B), nil
	case KindTime:
		t, _ := v.AsTime()
		return json.Marshal(t.Format(time.RFC3339Nano))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
//
// JSON carries no time type, so RFC 3339 strings decode as strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	vv, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = vv
	return nil
}
