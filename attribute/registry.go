package attribute

import (
	"errors"
	"fmt"

	"github.com/vitalvas/schemakit/registry"
)

// ErrInvalidKind is returned when registering a kind without a type tag.
var ErrInvalidKind = errors.New("attribute: kind must have a type")

// Registry maps type tags to kinds and creates attributes from them.
// It is safe for concurrent use.
type Registry struct {
	kinds *registry.Registry[*Kind]
}

// NewRegistry creates a registry holding the built-in kinds.
func NewRegistry() *Registry {
	r := &Registry{kinds: registry.New[*Kind]("type")}
	for _, kind := range Builtins() {
		_ = r.kinds.Register(kind.Type, kind, false)
	}
	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide type registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a kind under its type tag. A kind without a parent is
// attached to the root kind. Registering an existing tag fails unless
// override is set.
func (r *Registry) Register(kind *Kind, override bool) error {
	if kind == nil || kind.Type == "" {
		return ErrInvalidKind
	}
	if kind.Parent == nil && kind.Type != TypeAttribute {
		kind.Parent = KindAttribute
	}
	return r.kinds.Register(kind.Type, kind, override)
}

// Lookup returns the kind registered under tag.
func (r *Registry) Lookup(tag string) (*Kind, error) {
	return r.kinds.Get(tag)
}

// Exists reports whether tag is registered.
func (r *Registry) Exists(tag string) bool {
	return r.kinds.Exists(tag)
}

// Tags returns the registered type tags in registration order.
func (r *Registry) Tags() []string {
	return r.kinds.Keys()
}

// Create builds a new attribute of the registered type tag.
func (r *Registry) Create(tag, name string, opts ...Option) (*Attribute, error) {
	kind, err := r.Lookup(tag)
	if err != nil {
		return nil, err
	}
	return r.New(kind, name, opts...)
}

// New builds a new attribute of kind. Kind defaults are applied first,
// then opts in order, so later options win. Object kinds run the children
// builder given through Children; other kinds reject it with ErrNotObject.
func (r *Registry) New(kind *Kind, name string, opts ...Option) (*Attribute, error) {
	var o Options
	for _, opt := range kind.defaults() {
		opt(&o)
	}
	for _, opt := range opts {
		opt(&o)
	}

	build, overlays := o.build, o.overlays
	o.build, o.overlays = nil, nil

	if kind.Is(TypeSchema) && len(o.Of) == 0 {
		o.Of = []string{name}
	}

	attr := &Attribute{name: name, kind: kind, opts: o}

	if build != nil {
		if !kind.Is(TypeObject) || kind.Is(TypeSchema) {
			return nil, fmt.Errorf("%w: %s %q cannot declare children", ErrNotObject, kind.Type, name)
		}

		b := newBuilder(r, attr)
		b.overlays = overlays
		build(b)
		if err := b.Err(); err != nil {
			return nil, fmt.Errorf("build %s %q: %w", kind.Type, name, err)
		}
	}

	return attr, nil
}

// Register adds a kind to the default registry.
func Register(kind *Kind, override bool) error {
	return defaultRegistry.Register(kind, override)
}

// Create builds an attribute through the default registry.
func Create(tag, name string, opts ...Option) (*Attribute, error) {
	return defaultRegistry.Create(tag, name, opts...)
}

// Exists reports whether tag is registered in the default registry.
func Exists(tag string) bool {
	return defaultRegistry.Exists(tag)
}
