package endpoint

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/visitor"
)

var (
	// ErrSubset is returned when a params name list refers to names
	// missing from the default parameters.
	ErrSubset = errors.New("endpoint: params are not a subset of the default params")

	// ErrInvalidSpecType is returned for an unsupported params spec.
	ErrInvalidSpecType = errors.New("endpoint: invalid params type")

	// ErrNotBuilt is returned when permitted keys are requested from
	// params that have not been built.
	ErrNotBuilt = errors.New("endpoint: params need to be built first")
)

// Params is the object attribute describing the input accepted by an
// action. Its children are resolved lazily by Build from a spec (see
// WithParams).
type Params struct {
	action  string
	schema  string
	spec    any
	exclude bool

	mu    sync.Mutex
	attr  *attribute.Attribute
	built bool
}

// NewParams creates unbuilt params for action. The spec, exclude flag and
// schema are read from opts.
func NewParams(action string, opts ...Option) *Params {
	cfg := newConfig(opts)
	return &Params{
		action:  action,
		schema:  cfg.schema,
		spec:    cfg.params,
		exclude: cfg.exclude,
		attr:    emptyObject(action),
	}
}

// newDefaultParams creates the already built default parameters of an
// endpoint.
func newDefaultParams(schema string, attr *attribute.Attribute) *Params {
	return &Params{
		action: "default",
		schema: schema,
		attr:   attr,
		built:  true,
	}
}

// Action returns the action the params belong to.
func (p *Params) Action() string { return p.action }

// Schema returns the resource schema the params were declared for.
func (p *Params) Schema() string { return p.schema }

// Spec returns the unresolved params spec.
func (p *Params) Spec() any { return p.spec }

// Attribute returns the object attribute holding the parameters.
func (p *Params) Attribute() *attribute.Attribute {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.attr
}

// Keys returns the parameter names in declaration order.
func (p *Params) Keys() []string {
	return p.Attribute().Keys()
}

// Built reports whether Build has run.
func (p *Params) Built() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.built
}

// Build resolves the params spec against the endpoint default params and returns
// the resulting params, which may be def itself, another endpoint's params
// or p. The resolver is only needed for specs naming another endpoint.
func (p *Params) Build(def *Params, r Resolver) (_ *Params, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	defer func() {
		if err == nil {
			p.built = true
		}
	}()

	switch spec := p.spec.(type) {
	case *Params:
		if spec != p {
			spec.markBuilt()
		}
		return spec, nil

	case nil:
		return p, nil

	case bool:
		if !spec {
			return p, nil
		}
		if def == nil {
			return newDefaultParams(p.schema, emptyObject("default")), nil
		}
		return def, nil

	case func(*attribute.Builder):
		attr, err := attribute.Create(attribute.TypeObject, p.action, attribute.Children(spec))
		if err != nil {
			return nil, fmt.Errorf("params %q: %w", p.action, err)
		}
		p.attr = attr
		return p, nil

	case string:
		if r == nil {
			return nil, fmt.Errorf("params %q: %w", p.action, visitor.ErrResolverRequired)
		}
		other, err := r.LookupEndpoint(spec)
		if err != nil {
			return nil, err
		}
		return other.Params()

	case []string:
		var defaults *attribute.Attribute
		if def != nil {
			defaults = def.Attribute()
		} else {
			defaults = emptyObject("default")
		}

		available := defaults.Keys()
		var missing []string
		for _, name := range spec {
			if !slices.Contains(available, name) {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrSubset, missing)
		}

		keys := spec
		if p.exclude {
			keys = nil
			for _, name := range available {
				if !slices.Contains(spec, name) {
					keys = append(keys, name)
				}
			}
		}

		attr := emptyObject(p.action)
		for _, name := range keys {
			if err := attr.Set(defaults.Attribute(name).Clone()); err != nil {
				return nil, err
			}
		}
		p.attr = attr
		return p, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrInvalidSpecType, p.spec)
}

func (p *Params) markBuilt() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.built = true
}

// Permit returns the permitted keys descriptor of the params: a list of
// field names, {name: []} for arrays and {name: nested} for objects. An
// object without declared children permits the keys observed under its
// name in observed, or any keys ({name: {}}) when none were observed.
func (p *Params) Permit(observed any) ([]any, error) {
	if !p.Built() {
		return nil, ErrNotBuilt
	}
	return permitted(p.Attribute().Attributes(), observed), nil
}

func emptyObject(name string) *attribute.Attribute {
	attr, err := attribute.Create(attribute.TypeObject, name)
	if err != nil {
		// object is a built-in type.
		panic(err)
	}
	return attr
}
