package attribute

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
)

// DateLayout is the serialized form of date values.
const DateLayout = "2006-01-02"

var (
	funcsMu     sync.RWMutex
	serializers = map[string]Func{
		TypeString:  CastString,
		TypeNumber:  CastNumber,
		TypeInteger: CastInteger,
		TypeFloat:   CastFloat,
		TypeBoolean: CastBoolean,
		TypeTime:    CastTime,
		TypeDate:    CastDate,
	}
	normalizers = map[string]Func{}
)

// SetSerializer replaces the serializer of the type tag and returns the
// previous one. It affects every attribute of that type and of types that
// specialize it without their own serializer. A nil fn removes the entry,
// so passing back the returned value restores the previous behavior.
func SetSerializer(tag string, fn Func) Func {
	return setFunc(serializers, tag, fn)
}

// SetNormalizer replaces the normalizer of the type tag and returns the
// previous one. See SetSerializer.
func SetNormalizer(tag string, fn Func) Func {
	return setFunc(normalizers, tag, fn)
}

// SerializerFor returns the serializer declared by kind or its nearest
// ancestor. The root falls back to the identity function.
func SerializerFor(kind *Kind) Func {
	return funcFor(serializers, kind)
}

// NormalizerFor returns the normalizer declared by kind or its nearest
// ancestor. The root falls back to the identity function.
func NormalizerFor(kind *Kind) Func {
	return funcFor(normalizers, kind)
}

func setFunc(table map[string]Func, tag string, fn Func) Func {
	funcsMu.Lock()
	defer funcsMu.Unlock()

	prev := table[tag]
	if fn == nil {
		delete(table, tag)
	} else {
		table[tag] = fn
	}
	return prev
}

func funcFor(table map[string]Func, kind *Kind) Func {
	funcsMu.RLock()
	defer funcsMu.RUnlock()

	for c := kind; c != nil; c = c.Parent {
		if fn, ok := table[c.Type]; ok {
			return fn
		}
	}
	return identity
}

func identity(v any) any { return v }

// CastString converts v to text. Nil stays nil.
func CastString(v any) any {
	if v == nil {
		return nil
	}
	if t, ok := asTime(v); ok {
		return t.Format(time.RFC3339)
	}
	return cast.ToString(v)
}

// CastNumber converts v to a float64 when its text form has a decimal
// point, and to an int64 otherwise.
func CastNumber(v any) any {
	if v == nil {
		return nil
	}
	if strings.Contains(cast.ToString(v), ".") {
		return toFloat(v)
	}
	return toInt(v)
}

// CastInteger converts v to an int64, truncating fractions.
func CastInteger(v any) any {
	if v == nil {
		return nil
	}
	return toInt(v)
}

// CastFloat converts v to a float64.
func CastFloat(v any) any {
	if v == nil {
		return nil
	}
	return toFloat(v)
}

// CastBoolean converts v to a bool. Empty strings become nil; false, 0,
// "0", "f", "F", "false", "FALSE", "off" and "OFF" become false; any
// other value is true.
func CastBoolean(v any) any {
	switch b := v.(type) {
	case nil:
		return nil
	case bool:
		return b
	case string:
		switch b {
		case "":
			return nil
		case "0", "f", "F", "false", "FALSE", "off", "OFF":
			return false
		}
		return true
	case json.Number:
		f, err := b.Float64()
		return err != nil || f != 0
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return cast.ToFloat64(v) != 0
	}
	return true
}

// CastTime formats time values as RFC 3339 and stringifies anything else.
func CastTime(v any) any {
	if t, ok := asTime(v); ok {
		return t.Format(time.RFC3339)
	}
	return CastString(v)
}

// CastDate formats time values as a calendar date and stringifies
// anything else.
func CastDate(v any) any {
	if t, ok := asTime(v); ok {
		return t.Format(DateLayout)
	}
	return CastString(v)
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}

// toInt truncates numeric text instead of handing it to cast, which would
// read a leading zero as an octal prefix.
func toInt(v any) int64 {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return int64(math.Trunc(f))
	}
	return cast.ToInt64(v)
}

func toFloat(v any) float64 {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return cast.ToFloat64(v)
}
