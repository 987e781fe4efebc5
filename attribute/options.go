package attribute

import (
	"regexp"
	"slices"
)

// Func transforms a value. It is used for serializers and normalizers.
type Func func(value any) any

// ValidatorFunc is a custom validation hook. It returns the violation
// messages for value, or nothing when the value is valid.
type ValidatorFunc func(value any) []string

// Predicate decides whether an attribute applies to the enclosing object.
type Predicate func(object any) bool

// Range is an inclusive pair of bounds.
type Range struct {
	Min float64
	Max float64
}

// Options holds the declared configuration of an attribute. The zero value
// is a valid, unconstrained attribute.
type Options struct {
	Required    bool
	Null        bool
	Default     any
	Description string
	Format      string
	Match       *regexp.Regexp
	In          []any
	Private     bool
	Deprecated  bool

	// If and Unless hold a sibling field name (string), a Predicate or a
	// func(any) bool. Other values fail when evaluated.
	If     any
	Unless any

	// Of names the element type of an array or the schemas a schema
	// attribute refers to.
	Of []string

	// Method is the name used to read the value off a host object.
	Method string

	Expandable bool

	Min   *float64
	Max   *float64
	Range *Range

	Normalizer Func
	Validators []ValidatorFunc

	// Extra keeps metadata that has no dedicated field.
	Extra map[string]any

	build    func(*Builder)
	overlays [][]Option
}

func (o Options) clone() Options {
	c := o
	c.In = slices.Clone(o.In)
	c.Of = slices.Clone(o.Of)
	c.Validators = slices.Clone(o.Validators)
	if o.Min != nil {
		v := *o.Min
		c.Min = &v
	}
	if o.Max != nil {
		v := *o.Max
		c.Max = &v
	}
	if o.Range != nil {
		v := *o.Range
		c.Range = &v
	}
	if o.Extra != nil {
		c.Extra = make(map[string]any, len(o.Extra))
		for k, v := range o.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Option configures an attribute.
type Option func(*Options)

// Required marks the attribute as mandatory.
func Required() Option {
	return func(o *Options) { o.Required = true }
}

// Optional clears a required flag set by kind defaults or a group.
func Optional() Option {
	return func(o *Options) { o.Required = false }
}

// Nullable allows nil values.
func Nullable() Option {
	return func(o *Options) { o.Null = true }
}

// Default sets the value used when the input is nil.
func Default(v any) Option {
	return func(o *Options) { o.Default = v }
}

// Description sets a human-readable description.
func Description(s string) Option {
	return func(o *Options) { o.Description = s }
}

// Format overrides the kind's format annotation.
func Format(s string) Option {
	return func(o *Options) { o.Format = s }
}

// Match requires string values to match the regular expression expr.
// It panics if expr does not compile; use MatchRegexp for dynamic input.
func Match(expr string) Option {
	re := regexp.MustCompile(expr)
	return MatchRegexp(re)
}

// MatchRegexp requires string values to match re.
func MatchRegexp(re *regexp.Regexp) Option {
	return func(o *Options) { o.Match = re }
}

// In restricts values to the given set.
func In(values ...any) Option {
	return func(o *Options) { o.In = values }
}

// Private hides the attribute from serialization and generated schemas.
func Private() Option {
	return func(o *Options) { o.Private = true }
}

// Deprecated marks the attribute as deprecated.
func Deprecated() Option {
	return func(o *Options) { o.Deprecated = true }
}

// If includes the attribute only when pred holds for the enclosing object.
// pred is a sibling field name, a Predicate or a func(any) bool.
func If(pred any) Option {
	return func(o *Options) { o.If = pred }
}

// Unless includes the attribute only when pred does not hold.
func Unless(pred any) Option {
	return func(o *Options) { o.Unless = pred }
}

// Of sets the element type of an array, or the referenced schema names
// of a schema attribute.
func Of(names ...string) Option {
	return func(o *Options) { o.Of = names }
}

// Method reads the value from a differently named field of the host object.
func Method(name string) Option {
	return func(o *Options) { o.Method = name }
}

// Expandable lets a schema reference appear either as an identifier or as
// the embedded object.
func Expandable() Option {
	return func(o *Options) { o.Expandable = true }
}

// Min sets the minimum length of strings or the minimum of numbers.
func Min(v float64) Option {
	return func(o *Options) { o.Min = &v }
}

// Max sets the maximum length of strings or the maximum of numbers.
func Max(v float64) Option {
	return func(o *Options) { o.Max = &v }
}

// Between bounds the length of string values.
func Between(min, max float64) Option {
	return func(o *Options) { o.Range = &Range{Min: min, Max: max} }
}

// Normalizer replaces the type-level normalizer for this attribute.
func Normalizer(fn Func) Option {
	return func(o *Options) { o.Normalizer = fn }
}

// Validators adds custom validation hooks.
func Validators(fns ...ValidatorFunc) Option {
	return func(o *Options) { o.Validators = append(o.Validators, fns...) }
}

// Extra stores metadata under key.
func Extra(key string, value any) Option {
	return func(o *Options) {
		if o.Extra == nil {
			o.Extra = make(map[string]any)
		}
		o.Extra[key] = value
	}
}

// Children declares the children of an object attribute.
func Children(build func(*Builder)) Option {
	return func(o *Options) { o.build = build }
}
