package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FromAny converts a Go value into a typed Value.
//
// This exists as an adapter layer for decoded JSON, SQL rows and other
// untyped input.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case []byte:
		return String(string(x)), nil
	case float64:
		return Float(x), nil
	case float32:
		return Float(float64(x)), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint64(x)
	case time.Time:
		return Time(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

func fromUint64(x uint64) (Value, error) {
	if x > math.MaxInt64 {
		// Avoid silently wrapping large values.
		return Value{}, fmt.Errorf("uint64 out of range: %d", x)
	}
	return Int(int64(x)), nil
}

// RecordFromAny converts a map[string]any document to a typed Record.
func RecordFromAny(m map[string]any) (Record, error) {
	r := make(Record, len(m))
	for k, v := range m {
		vv, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", k, err)
		}
		r[k] = vv
	}
	return r, nil
}

var nullTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"#N/A": {},
}

// IsNullText reports whether text is one of the tokens read as a missing value.
func IsNullText(text string) bool {
	_, ok := nullTokens[text]
	return ok
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTime(text string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, text)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func parseBool(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", text)
}

// ParseValue converts text into a Value of the given kind.
//
// Null tokens (see IsNullText) yield Null for every kind except KindString,
// where only the empty string does.
func ParseValue(kind Kind, text string) (Value, error) {
	if kind == KindString {
		if text == "" {
			return Null(), nil
		}
		return String(text), nil
	}
	if IsNullText(text) {
		return Null(), nil
	}

	switch kind {
	case KindNull:
		return String(text), nil
	case KindInt:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s %q: %w", kind, text, err)
		}
		return Int(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s %q: %w", kind, text, err)
		}
		return Float(f), nil
	case KindBool:
		b, err := parseBool(text)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case KindTime:
		t, err := parseTime(text)
		if err != nil {
			return Value{}, fmt.Errorf("invalid %s %q: %w", kind, text, err)
		}
		return Time(t), nil
	default:
		return Value{}, fmt.Errorf("unsupported kind %d", kind)
	}
}

// InferKind picks the narrowest kind every non-null cell parses as.
//
// Integers widen to floats; anything else that does not fit a single kind is
// a string column. A column of only null tokens is KindString.
func InferKind(cells []string) Kind {
	candidates := []Kind{KindInt, KindFloat, KindBool, KindTime}
	ok := map[Kind]bool{KindInt: true, KindFloat: true, KindBool: true, KindTime: true}
	seen := false

	for _, c := range cells {
		if IsNullText(c) {
			continue
		}
		seen = true
		if ok[KindInt] {
			if _, err := strconv.ParseInt(c, 10, 64); err != nil {
				ok[KindInt] = false
			}
		}
		if ok[KindFloat] {
			if _, err := strconv.ParseFloat(c, 64); err != nil {
				ok[KindFloat] = false
			}
		}
		if ok[KindBool] {
			if _, err := parseBool(c); err != nil {
				ok[KindBool] = false
			}
		}
		if ok[KindTime] {
			if _, err := parseTime(c); err != nil {
				ok[KindTime] = false
			}
		}
		if !ok[KindInt] && !ok[KindFloat] && !ok[KindBool] && !ok[KindTime] {
			return KindString
		}
	}

	if !seen {
		return KindString
	}
	for _, k := range candidates {
		if ok[k] {
			return k
		}
	}
	return KindString
}
