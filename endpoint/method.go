package endpoint

import (
	"sync"

	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/validator"
	"github.com/vitalvas/schemakit/visitor"
)

// HTTP verbs a method can be declared with.
const (
	Get    = "get"
	Head   = "head"
	Trace  = "trace"
	Post   = "post"
	Put    = "put"
	Patch  = "patch"
	Delete = "delete"
)

// VerbsWithoutBody never carry a request body.
var VerbsWithoutBody = []string{Get, Head, Trace}

// VerbsWithBody may carry a request body.
var VerbsWithBody = []string{Post, Put, Patch, Delete}

// Verbs lists every supported verb.
var Verbs = append(append([]string{}, VerbsWithoutBody...), VerbsWithBody...)

// Method is one action of an endpoint: a verb and a relative path bound to
// input params and a response schema.
type Method struct {
	verb        string
	action      string
	path        string
	schema      string
	as          string
	status      int
	title       string
	description string
	validators  []attribute.ValidatorFunc

	mu       sync.Mutex
	params   *Params
	built    bool
	resolver Resolver
}

// NewMethod creates a method. Params stay unbuilt until BuildParams.
func NewMethod(verb, action string, opts ...Option) *Method {
	cfg := newConfig(opts)

	return &Method{
		verb:        verb,
		action:      action,
		path:        cfg.path,
		schema:      cfg.schema,
		as:          cfg.as,
		status:      cfg.status,
		title:       cfg.title,
		description: cfg.description,
		validators:  cfg.validators,
		params:      NewParams(action, opts...),
	}
}

func (m *Method) Verb() string        { return m.verb }
func (m *Method) Action() string      { return m.action }
func (m *Method) Path() string        { return m.path }
func (m *Method) Schema() string      { return m.schema }
func (m *Method) As() string          { return m.as }
func (m *Method) Status() int         { return m.status }
func (m *Method) Title() string       { return m.title }
func (m *Method) Description() string { return m.description }

// Params returns the method params, built or not.
func (m *Method) Params() *Params {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.params
}

// BuildParams resolves the params spec against the endpoint default
// params. Later calls return the first result.
func (m *Method) BuildParams(def *Params, r Resolver) (*Params, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r != nil {
		m.resolver = r
	}
	if m.built {
		return m.params, nil
	}

	params, err := m.params.Build(def, m.resolver)
	if err != nil {
		return nil, err
	}
	m.params = params
	m.built = true

	return params, nil
}

// HasBody reports whether the method takes a request body: its verb
// allows one and it has at least one parameter.
func (m *Method) HasBody() bool {
	for _, verb := range VerbsWithBody {
		if verb == m.verb {
			return len(m.Params().Keys()) > 0
		}
	}
	return false
}

// Validate checks input against the method params. A nil resolver falls
// back to the one given to BuildParams.
func (m *Method) Validate(input any, r Resolver) (validator.Result, error) {
	m.mu.Lock()
	params, built := m.params, m.built
	if r == nil {
		r = m.resolver
	}
	m.mu.Unlock()

	if !built {
		return validator.Result{}, ErrNotBuilt
	}

	var schemas visitor.SchemaResolver
	if r != nil {
		schemas = r
	}

	res, err := validator.New(schemas).Validate(params.Attribute(), input)
	if err != nil {
		return validator.Result{}, err
	}

	var messages []string
	for _, fn := range m.validators {
		messages = append(messages, fn(input)...)
	}
	if len(messages) > 0 {
		if res.Errors == nil {
			res.Errors = &validator.Errors{}
		}
		res.Errors.Messages = append(res.Errors.Messages, messages...)
		res.Value = nil
	}

	return res, nil
}

// Permit filters input down to the keys the built params allow.
func (m *Method) Permit(input map[string]any) (map[string]any, error) {
	m.mu.Lock()
	params, built := m.params, m.built
	m.mu.Unlock()

	if !built {
		return nil, ErrNotBuilt
	}

	descriptor, err := params.Permit(input)
	if err != nil {
		return nil, err
	}
	return Filter(input, descriptor), nil
}
