package serializer

import (
	"reflect"

	"github.com/vitalvas/schemakit/access"
	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/visitor"
)

// Option configures a Serializer.
type Option func(*Serializer)

// WithTypes sets the type registry used for bare names.
func WithTypes(types *attribute.Registry) Option {
	return func(s *Serializer) { s.types = types }
}

// Serializer converts host objects into plain values (maps, slices and
// scalars) shaped by an attribute tree. It is safe for concurrent use.
type Serializer struct {
	resolver visitor.SchemaResolver
	types    *attribute.Registry
	dispatch *visitor.Dispatcher[any, any]
}

// New creates a serializer. The resolver follows schema references and may
// be nil when the serialized trees hold none.
func New(resolver visitor.SchemaResolver, opts ...Option) *Serializer {
	s := &Serializer{resolver: resolver}
	for _, opt := range opts {
		opt(s)
	}

	s.dispatch = visitor.New[any, any](s.types).
		Handle(s.visitAttribute, attribute.TypeAttribute).
		Handle(s.visitArray, attribute.TypeArray).
		Handle(s.visitObject, attribute.TypeObject).
		Handle(s.visitSchema, attribute.TypeSchema)

	return s
}

// Serialize converts object according to node, an attribute or a bare name.
func (s *Serializer) Serialize(node any, object any) (any, error) {
	return s.dispatch.Visit(node, object)
}

// visitAttribute casts scalar values with the serializer of their type.
func (s *Serializer) visitAttribute(attr *attribute.Attribute, object any) (any, error) {
	return attr.Serialize(attr.Value(object)), nil
}

// visitArray serializes each item against the element type. Without an
// element type the items are returned unchanged.
func (s *Serializer) visitArray(attr *attribute.Attribute, object any) (any, error) {
	items := toSlice(attr.Value(object))
	if len(attr.Of()) == 0 {
		return items, nil
	}

	out := make([]any, len(items))
	for i, item := range items {
		v, err := s.dispatch.Visit(attr.OfName(), item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Serializer) visitObject(attr *attribute.Attribute, object any) (any, error) {
	return s.object(attr, attr.Value(object))
}

func (s *Serializer) visitSchema(attr *attribute.Attribute, object any) (any, error) {
	schema, err := visitor.Schema(s.resolver, attr)
	if err != nil {
		return nil, err
	}
	return s.object(schema, attr.Value(object))
}

// object serializes the serializable children whose predicates hold.
// Excluded children are left out of the result.
func (s *Serializer) object(schema *attribute.Attribute, object any) (any, error) {
	out := make(map[string]any)

	for _, child := range schema.Attributes() {
		if !child.Serializable() {
			continue
		}
		ok, err := child.Included(object)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		v, err := s.dispatch.Visit(child, access.Get(object, child.Method()))
		if err != nil {
			return nil, err
		}
		out[child.Name()] = v
	}

	return out, nil
}

// toSlice wraps a non-collection value into a one-item slice. Nil becomes
// an empty slice.
func toSlice(v any) []any {
	if v == nil {
		return []any{}
	}
	if items, ok := v.([]any); ok {
		return items
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return items
	}
	return []any{v}
}
