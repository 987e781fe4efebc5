package attribute

// Builder declares the children of an object attribute. It records the
// first error and ignores later declarations once an error occurred.
type Builder struct {
	registry *Registry
	target   *Attribute
	overlays [][]Option
	err      error
}

func newBuilder(r *Registry, target *Attribute) *Builder {
	return &Builder{registry: r, target: target}
}

// Target returns the attribute being built.
func (b *Builder) Target() *Attribute {
	return b.target
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error {
	return b.err
}

// Attr declares a child of any registered type tag.
func (b *Builder) Attr(tag, name string, opts ...Option) *Builder {
	if b.err != nil {
		return b
	}

	attr, err := b.registry.Create(tag, name, b.withOverlays(opts)...)
	if err != nil {
		b.err = err
		return b
	}
	b.err = b.target.Set(attr)
	return b
}

// Add adds an existing attribute as a child. Group options do not apply.
func (b *Builder) Add(attr *Attribute) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.target.Set(attr)
	return b
}

// Group applies opts to every attribute declared inside build, children
// of nested objects included. Groups nest; options of inner groups and of
// the attributes themselves win.
func (b *Builder) Group(build func(*Builder), opts ...Option) *Builder {
	b.overlays = append(b.overlays, opts)
	defer func() { b.overlays = b.overlays[:len(b.overlays)-1] }()

	build(b)
	return b
}

func (b *Builder) withOverlays(opts []Option) []Option {
	if len(b.overlays) == 0 {
		return opts
	}

	var all []Option
	for _, overlay := range b.overlays {
		all = append(all, overlay...)
	}
	all = append(all, opts...)
	return append(all, inherit(b.overlays))
}

// inherit hands the current overlay stack to the builder of a nested
// object.
func inherit(overlays [][]Option) Option {
	stack := append([][]Option(nil), overlays...)
	return func(o *Options) { o.overlays = stack }
}

func (b *Builder) String(name string, opts ...Option) *Builder {
	return b.Attr(TypeString, name, opts...)
}

func (b *Builder) Number(name string, opts ...Option) *Builder {
	return b.Attr(TypeNumber, name, opts...)
}

func (b *Builder) Integer(name string, opts ...Option) *Builder {
	return b.Attr(TypeInteger, name, opts...)
}

func (b *Builder) Float(name string, opts ...Option) *Builder {
	return b.Attr(TypeFloat, name, opts...)
}

func (b *Builder) Boolean(name string, opts ...Option) *Builder {
	return b.Attr(TypeBoolean, name, opts...)
}

func (b *Builder) Date(name string, opts ...Option) *Builder {
	return b.Attr(TypeDate, name, opts...)
}

func (b *Builder) Time(name string, opts ...Option) *Builder {
	return b.Attr(TypeTime, name, opts...)
}

func (b *Builder) Currency(name string, opts ...Option) *Builder {
	return b.Attr(TypeCurrency, name, opts...)
}

func (b *Builder) URI(name string, opts ...Option) *Builder {
	return b.Attr(TypeURI, name, opts...)
}

func (b *Builder) IPAddress(name string, opts ...Option) *Builder {
	return b.Attr(TypeIPAddress, name, opts...)
}

func (b *Builder) UUID(name string, opts ...Option) *Builder {
	return b.Attr(TypeUUID, name, opts...)
}

// Array declares an array. Use Of to type its elements.
func (b *Builder) Array(name string, opts ...Option) *Builder {
	return b.Attr(TypeArray, name, opts...)
}

// Object declares a nested object whose children are declared by build.
func (b *Builder) Object(name string, build func(*Builder), opts ...Option) *Builder {
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, Children(build))
	return b.Attr(TypeObject, name, all...)
}

// Schema declares a reference to a registered schema. Without Of the
// attribute refers to the schema called name.
func (b *Builder) Schema(name string, opts ...Option) *Builder {
	return b.Attr(TypeSchema, name, opts...)
}
