package attribute

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

var (
	// ErrCycle is returned when adding a child would make an attribute
	// contain itself.
	ErrCycle = errors.New("attribute: cyclic attribute tree")

	// ErrNotObject is returned when adding children to a non-object attribute.
	ErrNotObject = errors.New("attribute: not an object")
)

// Attribute is one node of a schema: a named field with a type, its
// constraints and metadata. Object attributes own an ordered list of
// children with unique names.
type Attribute struct {
	name string
	kind *Kind
	opts Options

	children []*Attribute
}

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.name }

// Kind returns the attribute kind.
func (a *Attribute) Kind() *Kind { return a.kind }

// Type returns the semantic type tag.
func (a *Attribute) Type() string { return a.kind.Type }

// Chain returns the type tags from the attribute kind up to the root.
func (a *Attribute) Chain() []string { return a.kind.Chain() }

// NativeType returns the wire-level primitive.
func (a *Attribute) NativeType() string { return a.kind.Native() }

// Options returns a copy of the declared options.
func (a *Attribute) Options() Options { return a.opts.clone() }

func (a *Attribute) Required() bool      { return a.opts.Required }
func (a *Attribute) Null() bool          { return a.opts.Null }
func (a *Attribute) Default() any        { return a.opts.Default }
func (a *Attribute) Description() string { return a.opts.Description }
func (a *Attribute) Private() bool       { return a.opts.Private }
func (a *Attribute) Deprecated() bool    { return a.opts.Deprecated }
func (a *Attribute) Expandable() bool    { return a.opts.Expandable }
func (a *Attribute) If() any             { return a.opts.If }
func (a *Attribute) Unless() any         { return a.opts.Unless }

// Serializable reports whether the attribute appears in serialized output
// and generated schemas.
func (a *Attribute) Serializable() bool { return !a.opts.Private }

// Format returns the declared format or the kind default.
func (a *Attribute) Format() string {
	if a.opts.Format != "" {
		return a.opts.Format
	}
	return a.kind.DefaultFormat()
}

// Pattern returns the source of the match expression, or "".
func (a *Attribute) Pattern() string {
	if a.opts.Match == nil {
		return ""
	}
	return a.opts.Match.String()
}

// In returns the allowed values. String kinds compare as text, so their
// values are stringified.
func (a *Attribute) In() []any {
	in := a.opts.In
	if in == nil {
		in = a.kind.DefaultIn()
	}
	if in == nil || !a.kind.Is(TypeString) {
		return in
	}

	out := make([]any, len(in))
	for i, v := range in {
		out[i] = cast.ToString(v)
	}
	return out
}

// Of returns the element type or referenced schema names.
func (a *Attribute) Of() []string { return a.opts.Of }

// OfName returns the first name in Of, or "".
func (a *Attribute) OfName() string {
	if len(a.opts.Of) == 0 {
		return ""
	}
	return a.opts.Of[0]
}

// Method returns the host object field the value is read from.
func (a *Attribute) Method() string {
	if a.opts.Method != "" {
		return a.opts.Method
	}
	return a.name
}

// Spec returns the standard the value follows and its reference URI.
func (a *Attribute) Spec() (string, string) { return a.kind.Standard() }

// Extra returns the metadata stored under key.
func (a *Attribute) Extra(key string) any { return a.opts.Extra[key] }

// Value substitutes the default for a nil value.
func (a *Attribute) Value(v any) any {
	if v == nil {
		return a.opts.Default
	}
	return v
}

// Serialize casts v with the serializer registered for the attribute kind.
func (a *Attribute) Serialize(v any) any {
	return SerializerFor(a.kind)(v)
}

// Normalize runs the attribute normalizer, or the one registered for its kind.
func (a *Attribute) Normalize(v any) any {
	if a.opts.Normalizer != nil {
		return a.opts.Normalizer(v)
	}
	return NormalizerFor(a.kind)(v)
}

// Attributes returns the children in declaration order.
func (a *Attribute) Attributes() []*Attribute {
	out := make([]*Attribute, len(a.children))
	copy(out, a.children)
	return out
}

// Attribute returns the child called name, or nil.
func (a *Attribute) Attribute(name string) *Attribute {
	for _, c := range a.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Keys returns the child names in declaration order.
func (a *Attribute) Keys() []string {
	keys := make([]string, len(a.children))
	for i, c := range a.children {
		keys[i] = c.name
	}
	return keys
}

// Set adds child, replacing an existing child with the same name in place.
func (a *Attribute) Set(child *Attribute) error {
	if !a.kind.Is(TypeObject) {
		return fmt.Errorf("%w: %s %q", ErrNotObject, a.kind.Type, a.name)
	}
	if child == a || child.contains(a) {
		return fmt.Errorf("%w: %q inside %q", ErrCycle, child.name, a.name)
	}

	for i, c := range a.children {
		if c.name == child.name {
			a.children[i] = child
			return nil
		}
	}
	a.children = append(a.children, child)
	return nil
}

func (a *Attribute) contains(target *Attribute) bool {
	for _, c := range a.children {
		if c == target || c.contains(target) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the attribute and its children.
func (a *Attribute) Clone() *Attribute {
	c := &Attribute{name: a.name, kind: a.kind, opts: a.opts.clone()}
	if len(a.children) > 0 {
		c.children = make([]*Attribute, len(a.children))
		for i, child := range a.children {
			c.children[i] = child.Clone()
		}
	}
	return c
}
