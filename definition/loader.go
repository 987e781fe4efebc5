package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/endpoint"
	"github.com/vitalvas/schemakit/resolver"
)

// ErrInvalidDefinition is returned for definition files that cannot be
// turned into schemas or endpoints.
var ErrInvalidDefinition = errors.New("definition: invalid definition")

// Extensions lists the file extensions read from definition directories.
var Extensions = []string{".yaml", ".yml"}

// Parse decodes one definition file. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	return &f, nil
}

// Files expands paths into the definition files they name. Directories
// contribute their YAML files in name order; other paths are kept as is.
func Files(paths ...string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !isDefinition(entry.Name()) {
				continue
			}
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}
	return files, nil
}

func isDefinition(name string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(name)))
}

// Load creates a resolver holding every definition found under paths.
func Load(paths []string, opts ...resolver.Option) (*resolver.Resolver, error) {
	r, err := resolver.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := LoadInto(r, paths...); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadInto registers the definitions found under paths into r.
func LoadInto(r *resolver.Resolver, paths ...string) error {
	files, err := Files(paths...)
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}

		f, err := Parse(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if err := f.Apply(r); err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
	return nil
}

// Apply registers the schemas of f, in name order, then its endpoints.
func (f *File) Apply(r *resolver.Resolver) error {
	names := make([]string, 0, len(f.Schemas))
	for name := range f.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := f.Schemas[name].register(r, name); err != nil {
			return fmt.Errorf("schema %q: %w", name, err)
		}
	}

	for _, e := range f.Endpoints {
		if err := e.register(r); err != nil {
			return fmt.Errorf("endpoint %q: %w", e.Path, err)
		}
	}
	return nil
}

func (s Schema) register(r *resolver.Resolver, name string) error {
	build, err := compileFields(s.Fields)
	if err != nil {
		return err
	}

	var opts []attribute.Option
	if s.Description != "" {
		opts = append(opts, attribute.Description(s.Description))
	}

	_, err = r.Schema(name, build, opts...)
	return err
}

func (e Endpoint) register(r *resolver.Resolver) error {
	if e.Path == "" {
		return fmt.Errorf("%w: endpoint path is required", ErrInvalidDefinition)
	}

	var params func(*attribute.Builder)
	if len(e.Params) > 0 {
		build, err := compileFields(e.Params)
		if err != nil {
			return err
		}
		params = build
	}

	type declared struct {
		verb, action string
		opts         []endpoint.Option
	}

	methods := make([]declared, 0, len(e.Methods))
	for _, m := range e.Methods {
		opts, err := m.options()
		if err != nil {
			return fmt.Errorf("method %q: %w", m.Action, err)
		}
		methods = append(methods, declared{verb: strings.ToLower(m.Verb), action: m.Action, opts: opts})
	}

	var opts []endpoint.Option
	if e.Name != "" {
		opts = append(opts, endpoint.Name(e.Name))
	}
	if e.Schema != "" {
		opts = append(opts, endpoint.Schema(e.Schema))
	}
	if e.Title != "" {
		opts = append(opts, endpoint.Title(e.Title))
	}
	if e.Description != "" {
		opts = append(opts, endpoint.Description(e.Description))
	}

	_, err := r.Endpoint(e.Path, func(d *endpoint.Definition) {
		if params != nil {
			d.Params(params)
		}
		for _, m := range methods {
			d.Handle(m.verb, m.action, m.opts...)
		}
	}, opts...)
	return err
}

func (m Method) options() ([]endpoint.Option, error) {
	if !slices.Contains(endpoint.Verbs, strings.ToLower(m.Verb)) {
		return nil, fmt.Errorf("%w: unsupported verb %q", ErrInvalidDefinition, m.Verb)
	}
	if m.Action == "" {
		return nil, fmt.Errorf("%w: method action is required", ErrInvalidDefinition)
	}

	var opts []endpoint.Option
	if m.Path != "" {
		opts = append(opts, endpoint.Path(m.Path))
	}
	if m.Schema != "" {
		opts = append(opts, endpoint.Schema(m.Schema))
	}
	if m.As != "" {
		opts = append(opts, endpoint.As(m.As))
	}
	if m.Status != 0 {
		opts = append(opts, endpoint.Status(m.Status))
	}
	if m.Title != "" {
		opts = append(opts, endpoint.Title(m.Title))
	}
	if m.Description != "" {
		opts = append(opts, endpoint.Description(m.Description))
	}

	switch {
	case len(m.Except) > 0:
		if m.Params != nil {
			return nil, fmt.Errorf("%w: params and except are exclusive", ErrInvalidDefinition)
		}
		opts = append(opts, endpoint.Except(m.Except...))

	case m.Params != nil:
		spec, err := m.Params.spec()
		if err != nil {
			return nil, err
		}
		opts = append(opts, endpoint.WithParams(spec))
	}

	return opts, nil
}

func (p *Params) spec() (any, error) {
	switch {
	case p.Enabled != nil:
		return *p.Enabled, nil
	case p.Endpoint != "":
		return p.Endpoint, nil
	case p.Fields != nil:
		return compileFields(p.Fields)
	case p.Names != nil:
		return p.Names, nil
	}
	return nil, nil
}

// compileFields checks every field and returns the builder function that
// declares them.
func compileFields(fields []Field) (func(*attribute.Builder), error) {
	steps := make([]func(*attribute.Builder), 0, len(fields))

	for _, field := range fields {
		step, err := compileField(field)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	return func(b *attribute.Builder) {
		for _, step := range steps {
			step(b)
		}
	}, nil
}

func compileField(field Field) (func(*attribute.Builder), error) {
	if field.Group != nil {
		opts, err := field.Group.attributeOptions()
		if err != nil {
			return nil, fmt.Errorf("group: %w", err)
		}
		children, err := compileFields(field.Fields)
		if err != nil {
			return nil, err
		}
		return func(b *attribute.Builder) { b.Group(children, opts...) }, nil
	}

	if field.Name == "" {
		return nil, fmt.Errorf("%w: field name is required", ErrInvalidDefinition)
	}
	if field.Type == "" {
		return nil, fmt.Errorf("%w: field %q has no type", ErrInvalidDefinition, field.Name)
	}

	opts, err := field.Options.attributeOptions()
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", field.Name, err)
	}

	if len(field.Fields) > 0 {
		children, err := compileFields(field.Fields)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		opts = append(opts, attribute.Children(children))
	}

	return func(b *attribute.Builder) { b.Attr(field.Type, field.Name, opts...) }, nil
}

func (o Options) attributeOptions() ([]attribute.Option, error) {
	var opts []attribute.Option

	if o.Required != nil {
		if *o.Required {
			opts = append(opts, attribute.Required())
		} else {
			opts = append(opts, attribute.Optional())
		}
	}
	if o.Null {
		opts = append(opts, attribute.Nullable())
	}
	if o.Default != nil {
		opts = append(opts, attribute.Default(o.Default))
	}
	if o.Description != "" {
		opts = append(opts, attribute.Description(o.Description))
	}
	if o.Format != "" {
		opts = append(opts, attribute.Format(o.Format))
	}
	if o.Match != "" {
		re, err := regexp.Compile(o.Match)
		if err != nil {
			return nil, fmt.Errorf("%w: match: %w", ErrInvalidDefinition, err)
		}
		opts = append(opts, attribute.MatchRegexp(re))
	}
	if o.In != nil {
		opts = append(opts, attribute.In(o.In...))
	}
	if o.Private {
		opts = append(opts, attribute.Private())
	}
	if o.Deprecated {
		opts = append(opts, attribute.Deprecated())
	}
	if o.Expandable {
		opts = append(opts, attribute.Expandable())
	}
	if o.If != "" {
		opts = append(opts, attribute.If(o.If))
	}
	if o.Unless != "" {
		opts = append(opts, attribute.Unless(o.Unless))
	}
	if len(o.Of) > 0 {
		opts = append(opts, attribute.Of(o.Of...))
	}
	if o.Method != "" {
		opts = append(opts, attribute.Method(o.Method))
	}
	if o.Min != nil {
		opts = append(opts, attribute.Min(*o.Min))
	}
	if o.Max != nil {
		opts = append(opts, attribute.Max(*o.Max))
	}
	if o.Range != nil {
		if len(o.Range) != 2 {
			return nil, fmt.Errorf("%w: range needs exactly two bounds", ErrInvalidDefinition)
		}
		opts = append(opts, attribute.Between(o.Range[0], o.Range[1]))
	}
	for key, value := range o.Extra {
		opts = append(opts, attribute.Extra(key, value))
	}

	return opts, nil
}
