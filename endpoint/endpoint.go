package endpoint

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/registry"
	"github.com/vitalvas/schemakit/visitor"
)

// Resolver looks up registered schemas and endpoints by name.
type Resolver interface {
	visitor.SchemaResolver
	LookupEndpoint(name string) (*Endpoint, error)
}

// NormalizeName converts a path into an endpoint name:
// "/users/:id/friends" becomes "users_id_friends".
func NormalizeName(path string) string {
	name := strings.ReplaceAll(path, ":", "")
	name = strings.Trim(name, "/")
	return strings.ReplaceAll(name, "/", "_")
}

// Endpoint groups the methods served under a path. Its definition runs
// once, on first access, so methods may refer to endpoints registered
// after it.
type Endpoint struct {
	path        string
	name        string
	schema      string
	title       string
	description string

	build func(*Definition)
	once  sync.Once
	err   error

	methods map[string]*Method
	order   []string
	params  *Params
}

// New creates an endpoint. The build function declares methods and
// default params; it may be nil.
func New(path string, build func(*Definition), opts ...Option) *Endpoint {
	cfg := newConfig(opts)

	name := cfg.name
	if name == "" {
		name = NormalizeName(path)
	}

	return &Endpoint{
		path:        path,
		name:        name,
		schema:      cfg.schema,
		title:       cfg.title,
		description: cfg.description,
		build:       build,
		methods:     make(map[string]*Method),
	}
}

func (e *Endpoint) Path() string        { return e.path }
func (e *Endpoint) Name() string        { return e.name }
func (e *Endpoint) Schema() string      { return e.schema }
func (e *Endpoint) Title() string       { return e.title }
func (e *Endpoint) Description() string { return e.description }

func (e *Endpoint) load() error {
	e.once.Do(func() {
		if e.build != nil {
			e.build(&Definition{endpoint: e})
		}
		if e.params == nil {
			e.params = newDefaultParams(e.schema, emptyObject("default"))
		}
	})
	return e.err
}

// Params returns the default params shared by methods declared with
// WithParams(true) or a name list.
func (e *Endpoint) Params() (*Params, error) {
	if err := e.load(); err != nil {
		return nil, err
	}
	return e.params, nil
}

// Actions returns the declared action names in declaration order.
func (e *Endpoint) Actions() ([]string, error) {
	if err := e.load(); err != nil {
		return nil, err
	}
	return append([]string(nil), e.order...), nil
}

// Method returns the method declared for action with its params built.
func (e *Endpoint) Method(action string, r Resolver) (*Method, error) {
	if err := e.load(); err != nil {
		return nil, err
	}

	m, ok := e.methods[action]
	if !ok {
		return nil, &registry.Error{Kind: "method", Name: action, Err: registry.ErrNotFound}
	}

	if _, err := m.BuildParams(e.params, r); err != nil {
		return nil, fmt.Errorf("endpoint %q method %q: %w", e.name, action, err)
	}
	return m, nil
}

// Methods returns every method with its params built, in declaration
// order.
func (e *Endpoint) Methods(r Resolver) ([]*Method, error) {
	actions, err := e.Actions()
	if err != nil {
		return nil, err
	}

	methods := make([]*Method, 0, len(actions))
	for _, action := range actions {
		m, err := e.Method(action, r)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// Definition is the declaration context passed to an endpoint build
// function.
type Definition struct {
	endpoint *Endpoint
}

// Endpoint returns the endpoint being defined.
func (d *Definition) Endpoint() *Endpoint {
	return d.endpoint
}

// Handle declares a method. The method schema defaults to the endpoint
// schema. Declaring an action twice replaces the earlier method.
func (d *Definition) Handle(verb, action string, opts ...Option) *Method {
	e := d.endpoint

	opts = append([]Option{Schema(e.schema)}, opts...)
	m := NewMethod(verb, action, opts...)

	if _, exists := e.methods[action]; !exists {
		e.order = append(e.order, action)
	}
	e.methods[action] = m
	return m
}

func (d *Definition) Get(action string, opts ...Option) *Method {
	return d.Handle(Get, action, opts...)
}

func (d *Definition) Head(action string, opts ...Option) *Method {
	return d.Handle(Head, action, opts...)
}

func (d *Definition) Trace(action string, opts ...Option) *Method {
	return d.Handle(Trace, action, opts...)
}

func (d *Definition) Post(action string, opts ...Option) *Method {
	return d.Handle(Post, action, opts...)
}

func (d *Definition) Put(action string, opts ...Option) *Method {
	return d.Handle(Put, action, opts...)
}

func (d *Definition) Patch(action string, opts ...Option) *Method {
	return d.Handle(Patch, action, opts...)
}

func (d *Definition) Delete(action string, opts ...Option) *Method {
	return d.Handle(Delete, action, opts...)
}

// Params declares the endpoint default params. A build error is returned
// by every later access to the endpoint.
func (d *Definition) Params(build func(*attribute.Builder)) {
	e := d.endpoint

	attr, err := attribute.Create(attribute.TypeObject, "default", attribute.Children(build))
	if err != nil {
		if e.err == nil {
			e.err = fmt.Errorf("endpoint %q params: %w", e.name, err)
		}
		return
	}
	e.params = newDefaultParams(e.schema, attr)
}
