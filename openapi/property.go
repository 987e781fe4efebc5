package openapi

import (
	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/visitor"
)

// schemaRefPrefix is the location of component schemas in the document.
const schemaRefPrefix = "#/components/schemas/"

// PropertyOptions tune a generated property.
type PropertyOptions struct {
	// As replaces the referenced name when the generated node is a bare
	// schema name.
	As string

	// Schema is recorded as x-schema on every generated property.
	Schema string
}

// PropertyGenerator converts attributes into schema descriptors. Schema
// references become $ref descriptors without consulting a resolver, so
// recursive schemas produce finite output.
type PropertyGenerator struct {
	types    *attribute.Registry
	dispatch *visitor.Dispatcher[PropertyOptions, *Schema]
}

// NewPropertyGenerator creates a property generator. A nil registry means
// the default type registry.
func NewPropertyGenerator(types *attribute.Registry) *PropertyGenerator {
	if types == nil {
		types = attribute.DefaultRegistry()
	}

	g := &PropertyGenerator{types: types}
	g.dispatch = visitor.New[PropertyOptions, *Schema](types).
		Handle(g.visitAttribute, attribute.TypeAttribute).
		Handle(g.visitArray, attribute.TypeArray).
		Handle(g.visitObject, attribute.TypeObject).
		Handle(g.visitSchema, attribute.TypeSchema)

	return g
}

// Property generates the descriptor of node: an attribute, a type tag or a
// schema name.
func (g *PropertyGenerator) Property(node any, opts PropertyOptions) (*Schema, error) {
	if name, ok := node.(string); ok && !g.types.Exists(name) {
		ref := name
		if opts.As != "" {
			ref = opts.As
		}
		return refSchema(ref), nil
	}
	return g.dispatch.Visit(node, opts)
}

func (g *PropertyGenerator) nested(node any, opts PropertyOptions) (*Schema, error) {
	opts.As = ""
	return g.Property(node, opts)
}

func (g *PropertyGenerator) visitAttribute(attr *attribute.Attribute, opts PropertyOptions) (*Schema, error) {
	return build(attr, opts), nil
}

func (g *PropertyGenerator) visitArray(attr *attribute.Attribute, opts PropertyOptions) (*Schema, error) {
	s := build(attr, opts)

	if len(attr.Of()) == 0 {
		s.Items = &Schema{}
		return s, nil
	}

	items, err := g.nested(attr.OfName(), opts)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

func (g *PropertyGenerator) visitObject(attr *attribute.Attribute, opts PropertyOptions) (*Schema, error) {
	s := build(attr, opts)
	s.Properties = make(map[string]*Schema)

	for _, child := range attr.Attributes() {
		if child.Required() {
			s.Required = append(s.Required, child.Name())
		}
		if !child.Serializable() {
			continue
		}

		prop, err := g.nested(child, opts)
		if err != nil {
			return nil, err
		}
		s.Properties[child.Name()] = prop
	}

	return s, nil
}

// visitSchema emits a reference. Expandable references also accept the
// plain string id of the referenced object.
func (g *PropertyGenerator) visitSchema(attr *attribute.Attribute, _ PropertyOptions) (*Schema, error) {
	names := attr.Of()

	if !attr.Expandable() {
		if len(names) == 1 {
			return refSchema(names[0]), nil
		}
		s := &Schema{}
		for _, name := range names {
			s.OneOf = append(s.OneOf, refSchema(name))
		}
		return s, nil
	}

	s := &Schema{}
	for _, name := range names {
		s.OneOf = append(s.OneOf, refSchema(name))
	}
	s.OneOf = append(s.OneOf, &Schema{Type: attribute.TypeString})
	return s, nil
}

func build(attr *attribute.Attribute, opts PropertyOptions) *Schema {
	s := &Schema{
		Type:        attr.NativeType(),
		Description: attr.Description(),
		Enum:        attr.In(),
		Nullable:    attr.Null(),
		Format:      attr.Format(),
		Pattern:     attr.Pattern(),
		XSchema:     opts.Schema,
	}

	if def := attr.Default(); def != nil && def != false {
		s.Default = def
	}
	return s
}

func refSchema(name string) *Schema {
	return &Schema{Ref: schemaRefPrefix + name}
}
