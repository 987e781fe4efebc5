package visitor

import (
	"errors"
	"fmt"

	"github.com/vitalvas/schemakit/attribute"
)

var (
	// ErrMethodNotFound is returned when no handler matches a node.
	ErrMethodNotFound = errors.New("visitor: cannot find handler")

	// ErrResolverRequired is returned when a schema reference is followed
	// without a resolver.
	ErrResolverRequired = errors.New("visitor: resolver is required")
)

// SchemaResolver looks up registered schemas by name.
type SchemaResolver interface {
	LookupSchema(name string) (*attribute.Attribute, error)
}

// HandlerFunc handles one attribute node with a traversal specific argument.
type HandlerFunc[A, R any] func(attr *attribute.Attribute, arg A) (R, error)

// Dispatcher selects a handler for an attribute by walking its kind chain,
// most specific type first, and falls back to the "attribute" handler.
// Handlers are registered before the dispatcher is used; it is safe for
// concurrent visits afterwards.
type Dispatcher[A, R any] struct {
	types    *attribute.Registry
	handlers map[string]HandlerFunc[A, R]
}

// New creates a dispatcher that turns bare names into attributes through
// types. A nil registry means the default one.
func New[A, R any](types *attribute.Registry) *Dispatcher[A, R] {
	if types == nil {
		types = attribute.DefaultRegistry()
	}
	return &Dispatcher[A, R]{
		types:    types,
		handlers: make(map[string]HandlerFunc[A, R]),
	}
}

// Handle registers fn for each type tag.
func (d *Dispatcher[A, R]) Handle(fn HandlerFunc[A, R], tags ...string) *Dispatcher[A, R] {
	for _, tag := range tags {
		d.handlers[tag] = fn
	}
	return d
}

// Types returns the type registry used for bare names.
func (d *Dispatcher[A, R]) Types() *attribute.Registry {
	return d.types
}

// Attribute turns node into an attribute. A node is either an attribute or
// a bare name: a registered type tag becomes an attribute of that type,
// any other name becomes a reference to the schema of that name.
func (d *Dispatcher[A, R]) Attribute(node any) (*attribute.Attribute, error) {
	switch n := node.(type) {
	case *attribute.Attribute:
		if n == nil {
			return nil, fmt.Errorf("%w: nil attribute", ErrMethodNotFound)
		}
		return n, nil
	case string:
		if d.types.Exists(n) {
			return d.types.Create(n, n)
		}
		return d.types.Create(attribute.TypeSchema, n, attribute.Of(n))
	default:
		return nil, fmt.Errorf("%w: unsupported node %T", ErrMethodNotFound, node)
	}
}

// Resolve returns the attribute for node and the handler chosen for it.
func (d *Dispatcher[A, R]) Resolve(node any) (*attribute.Attribute, HandlerFunc[A, R], error) {
	attr, err := d.Attribute(node)
	if err != nil {
		return nil, nil, err
	}

	for _, tag := range attr.Chain() {
		if fn, ok := d.handlers[tag]; ok {
			return attr, fn, nil
		}
	}

	return nil, nil, fmt.Errorf("%w: visit_%s", ErrMethodNotFound, attr.Type())
}

// Visit resolves node and calls its handler with arg.
func (d *Dispatcher[A, R]) Visit(node any, arg A) (R, error) {
	attr, fn, err := d.Resolve(node)
	if err != nil {
		var zero R
		return zero, err
	}
	return fn(attr, arg)
}

// Schema follows a schema reference through r, using the first name of
// the reference.
func Schema(r SchemaResolver, attr *attribute.Attribute) (*attribute.Attribute, error) {
	if r == nil {
		return nil, ErrResolverRequired
	}
	return r.LookupSchema(attr.OfName())
}
