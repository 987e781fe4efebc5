package endpoint

import "github.com/vitalvas/schemakit/attribute"

// config collects the settings shared by endpoints, methods and params.
// Each constructor reads only the fields that apply to it.
type config struct {
	name        string
	schema      string
	title       string
	description string

	path       string
	params     any
	exclude    bool
	as         string
	status     int
	validators []attribute.ValidatorFunc
}

// Option configures an Endpoint, a Method or a Params.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{path: "/", status: 200}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Name overrides the endpoint name derived from its path.
func Name(name string) Option {
	return func(c *config) { c.name = name }
}

// Schema sets the resource schema. On a method it overrides the endpoint
// schema.
func Schema(name string) Option {
	return func(c *config) { c.schema = name }
}

// Title sets a short human readable title.
func Title(s string) Option {
	return func(c *config) { c.title = s }
}

// Description sets the long description. On a method it becomes the
// operation summary of the generated document.
func Description(s string) Option {
	return func(c *config) { c.description = s }
}

// Path sets the method path relative to the endpoint path. Defaults to "/".
func Path(p string) Option {
	return func(c *config) { c.path = p }
}

// WithParams sets the parameter spec of a method:
//
//   - false or nil: no parameters
//   - true: the endpoint default parameters
//   - []string: a subset of the default parameters (see Except)
//   - func(*attribute.Builder): parameters declared inline
//   - string: the default parameters of another endpoint
//   - *Params: the given parameters
func WithParams(spec any) Option {
	return func(c *config) { c.params = spec }
}

// Only selects the named default parameters.
func Only(names ...string) Option {
	return func(c *config) {
		c.params = names
		c.exclude = false
	}
}

// Except selects every default parameter except the named ones.
func Except(names ...string) Option {
	return func(c *config) {
		c.params = names
		c.exclude = true
	}
}

// As sets the schema the method responds with, when it differs from the
// resource schema (a list envelope, for instance).
func As(name string) Option {
	return func(c *config) { c.as = name }
}

// Status sets the success status code. Defaults to 200.
func Status(code int) Option {
	return func(c *config) { c.status = code }
}

// Validators adds checks run against the whole input after field
// validation. Their messages are reported at the root of the error tree.
func Validators(fns ...attribute.ValidatorFunc) Option {
	return func(c *config) { c.validators = append(c.validators, fns...) }
}
