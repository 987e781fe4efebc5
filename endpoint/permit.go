package endpoint

import (
	"reflect"
	"sort"

	"github.com/vitalvas/schemakit/access"
	"github.com/vitalvas/schemakit/attribute"
)

func permitted(attrs []*attribute.Attribute, observed any) []any {
	out := make([]any, 0, len(attrs))

	for _, attr := range attrs {
		switch {
		case attr.Kind().Is(attribute.TypeArray):
			out = append(out, map[string]any{attr.Name(): []any{}})

		case !attr.Kind().Is(attribute.TypeObject):
			out = append(out, attr.Name())

		default:
			data := access.Get(observed, attr.Name())
			keys := permitted(attr.Attributes(), data)
			out = append(out, map[string]any{attr.Name(): openKeys(keys, data)})
		}
	}

	return out
}

// openKeys lets an object without declared children accept the keys
// actually present in the input.
func openKeys(keys []any, data any) any {
	if len(keys) > 0 {
		return keys
	}

	names := mapKeys(data)
	if len(names) == 0 {
		return map[string]any{}
	}

	out := make([]any, len(names))
	for i, name := range names {
		out[i] = name
	}
	return out
}

func mapKeys(v any) []string {
	if v == nil {
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil
	}

	names := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return names
}

// Filter keeps the entries of input allowed by a permit descriptor. A bare
// name keeps a scalar value, {name: []} keeps a list of scalars,
// {name: [...]} filters a nested object (or each object of a list) and
// {name: {}} keeps any nested object as is.
func Filter(input map[string]any, descriptor []any) map[string]any {
	out := make(map[string]any)

	for _, rule := range descriptor {
		switch rule := rule.(type) {
		case string:
			if v, ok := input[rule]; ok && scalar(v) {
				out[rule] = v
			}

		case map[string]any:
			for name, nested := range rule {
				v, ok := input[name]
				if !ok {
					continue
				}
				if kept, ok := filterValue(v, nested); ok {
					out[name] = kept
				}
			}
		}
	}

	return out
}

func filterValue(v any, rule any) (any, bool) {
	switch rule := rule.(type) {
	case []any:
		if len(rule) == 0 {
			items, ok := v.([]any)
			if !ok {
				return nil, false
			}
			kept := make([]any, 0, len(items))
			for _, item := range items {
				if scalar(item) {
					kept = append(kept, item)
				}
			}
			return kept, true
		}

		switch v := v.(type) {
		case map[string]any:
			return Filter(v, rule), true
		case []any:
			kept := make([]any, 0, len(v))
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					kept = append(kept, Filter(m, rule))
				}
			}
			return kept, true
		}

	case map[string]any:
		if m, ok := v.(map[string]any); ok {
			kept := make(map[string]any, len(m))
			for k, item := range m {
				kept[k] = item
			}
			return kept, true
		}
	}

	return nil, false
}

func scalar(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer, reflect.Func, reflect.Chan:
		return false
	}
	return true
}
