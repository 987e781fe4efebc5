package resolver

import (
	"fmt"

	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/endpoint"
	"github.com/vitalvas/schemakit/registry"
)

// Option configures a Resolver.
type Option func(*Resolver) error

// WithTypes sets the type registry schemas are created from.
func WithTypes(types *attribute.Registry) Option {
	return func(r *Resolver) error {
		r.types = types
		return nil
	}
}

// WithSchemas registers schemas. Each must be an object attribute.
func WithSchemas(schemas ...*attribute.Attribute) Option {
	return func(r *Resolver) error {
		for _, schema := range schemas {
			if err := r.RegisterSchema(schema, false); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithEndpoints registers endpoints.
func WithEndpoints(endpoints ...*endpoint.Endpoint) Option {
	return func(r *Resolver) error {
		for _, e := range endpoints {
			if err := r.RegisterEndpoint(e, false); err != nil {
				return err
			}
		}
		return nil
	}
}

// Resolver holds the registered schemas and endpoints and resolves
// references to them by name. It is safe for concurrent use.
type Resolver struct {
	types     *attribute.Registry
	schemas   *registry.Registry[*attribute.Attribute]
	endpoints *registry.Registry[*endpoint.Endpoint]
}

// New creates a resolver.
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		types:     attribute.DefaultRegistry(),
		schemas:   registry.New[*attribute.Attribute]("schema"),
		endpoints: registry.New[*endpoint.Endpoint]("endpoint"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Types returns the type registry schemas are created from.
func (r *Resolver) Types() *attribute.Registry {
	return r.types
}

// Schema returns the schema called name when build is nil. Otherwise it
// builds an object schema from build and registers it.
func (r *Resolver) Schema(name string, build func(*attribute.Builder), opts ...attribute.Option) (*attribute.Attribute, error) {
	if build == nil {
		return r.LookupSchema(name)
	}

	opts = append(opts, attribute.Children(build))
	schema, err := r.types.Create(attribute.TypeObject, name, opts...)
	if err != nil {
		return nil, err
	}

	if err := r.RegisterSchema(schema, false); err != nil {
		return nil, err
	}
	return schema, nil
}

// Endpoint returns the endpoint registered for path when build is nil.
// Otherwise it creates the endpoint and registers it. Lookups accept both
// the path and the derived name.
func (r *Resolver) Endpoint(path string, build func(*endpoint.Definition), opts ...endpoint.Option) (*endpoint.Endpoint, error) {
	if build == nil {
		return r.LookupEndpoint(path)
	}

	e := endpoint.New(path, build, opts...)
	if err := r.RegisterEndpoint(e, false); err != nil {
		return nil, err
	}
	return e, nil
}

// RegisterSchema adds an object attribute under its name.
func (r *Resolver) RegisterSchema(schema *attribute.Attribute, override bool) error {
	if !schema.Kind().Is(attribute.TypeObject) || schema.Kind().Is(attribute.TypeSchema) {
		return fmt.Errorf("schema %q: %w", schema.Name(), attribute.ErrNotObject)
	}
	return r.schemas.Register(schema.Name(), schema, override)
}

// RegisterEndpoint adds an endpoint under its name.
func (r *Resolver) RegisterEndpoint(e *endpoint.Endpoint, override bool) error {
	return r.endpoints.Register(e.Name(), e, override)
}

// LookupSchema returns the schema registered under name.
func (r *Resolver) LookupSchema(name string) (*attribute.Attribute, error) {
	return r.schemas.Get(name)
}

// LookupEndpoint returns the endpoint registered under name, which may
// also be given as a path.
func (r *Resolver) LookupEndpoint(name string) (*endpoint.Endpoint, error) {
	return r.endpoints.Get(endpoint.NormalizeName(name))
}

// SchemaNames returns schema names in registration order.
func (r *Resolver) SchemaNames() []string {
	return r.schemas.Keys()
}

// EndpointNames returns endpoint names in registration order.
func (r *Resolver) EndpointNames() []string {
	return r.endpoints.Keys()
}

// Schemas returns the registered schemas in registration order.
func (r *Resolver) Schemas() []*attribute.Attribute {
	return values(r.schemas)
}

// Endpoints returns the registered endpoints in registration order.
func (r *Resolver) Endpoints() []*endpoint.Endpoint {
	return values(r.endpoints)
}

func values[T any](reg *registry.Registry[T]) []T {
	keys := reg.Keys()
	out := make([]T, 0, len(keys))
	for _, key := range keys {
		item, err := reg.Get(key)
		if err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}

var _ endpoint.Resolver = (*Resolver)(nil)
