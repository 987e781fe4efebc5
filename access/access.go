package access

import (
	"reflect"
	"strings"
	"unicode"
)

// Getter is implemented by host objects that resolve their own fields.
// The boolean result reports whether the field exists.
type Getter interface {
	Get(name string) (any, bool)
}

// Get reads the field name off object. Lookup order:
//
//  1. nil object yields nil
//  2. Getter implementations
//  3. map[string]any and any other map with string keys
//  4. accessor method named after the field in CamelCase (no arguments, one result)
//  5. struct field whose json tag matches name
//  6. exported struct field named after the field in CamelCase, or matching
//     it case-insensitively with underscores removed
//
// Absent fields, nil pointers and nil pointer fields yield nil.
func Get(object any, name string) any {
	value, _ := Lookup(object, name)
	return value
}

// Lookup is like Get but also reports whether the field was found.
func Lookup(object any, name string) (any, bool) {
	if IsNil(object) {
		return nil, false
	}

	value, ok := lookup(object, name)
	if IsNil(value) {
		return nil, ok
	}
	return value, ok
}

// IsNil reports whether v is nil or a nil pointer or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func lookup(object any, name string) (any, bool) {
	switch obj := object.(type) {
	case Getter:
		return obj.Get(name)
	case map[string]any:
		v, ok := obj[name]
		return v, ok
	case map[string]string:
		v, ok := obj[name]
		if !ok {
			return nil, false
		}
		return v, true
	}

	rv := reflect.ValueOf(object)
	if method, ok := accessor(rv, name); ok {
		return method, true
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		return field(rv, name)
	}

	return nil, false
}

// Has reports whether object exposes the field name.
func Has(object any, name string) bool {
	_, ok := Lookup(object, name)
	return ok
}

func accessor(rv reflect.Value, name string) (any, bool) {
	if !rv.IsValid() {
		return nil, false
	}

	method := rv.MethodByName(Camelize(name))
	if !method.IsValid() {
		return nil, false
	}

	mt := method.Type()
	if mt.NumIn() != 0 || mt.NumOut() != 1 {
		return nil, false
	}

	return method.Call(nil)[0].Interface(), true
}

func field(rv reflect.Value, name string) (any, bool) {
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		if tagName, _, _ := strings.Cut(tag, ","); tagName == name {
			return rv.Field(i).Interface(), true
		}
	}

	if sf, ok := rt.FieldByName(Camelize(name)); ok && sf.IsExported() {
		return rv.FieldByIndex(sf.Index).Interface(), true
	}

	folded := fold(name)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.IsExported() && fold(sf.Name) == folded {
			return rv.Field(i).Interface(), true
		}
	}

	return nil, false
}

// Camelize converts a snake_case field name into an exported Go identifier:
// "first_name" becomes "FirstName", "id" becomes "Id".
func Camelize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	upper := true
	for _, r := range name {
		if r == '_' || r == '-' {
			upper = true
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

func fold(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}
