package definition

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the content of one definition file.
type File struct {
	Schemas   map[string]Schema `yaml:"schemas"`
	Endpoints []Endpoint        `yaml:"endpoints"`
}

// Schema declares a named object schema.
type Schema struct {
	Description string  `yaml:"description"`
	Fields      []Field `yaml:"fields"`
}

// Field declares one attribute. Entries carrying group hold no attribute
// of their own: the group options apply to every entry of Fields.
type Field struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"`
	Options `yaml:",inline"`
	Group   *Options `yaml:"group"`
	Fields  []Field  `yaml:"fields"`
}

// Options are the attribute options a field or group may set.
type Options struct {
	Required    *bool          `yaml:"required"`
	Null        bool           `yaml:"null"`
	Default     any            `yaml:"default"`
	Description string         `yaml:"description"`
	Format      string         `yaml:"format"`
	Match       string         `yaml:"match"`
	In          []any          `yaml:"in"`
	Private     bool           `yaml:"private"`
	Deprecated  bool           `yaml:"deprecated"`
	Expandable  bool           `yaml:"expandable"`
	If          string         `yaml:"if"`
	Unless      string         `yaml:"unless"`
	Of          StringList     `yaml:"of"`
	Method      string         `yaml:"method"`
	Min         *float64       `yaml:"min"`
	Max         *float64       `yaml:"max"`
	Range       []float64      `yaml:"range"`
	Extra       map[string]any `yaml:"extra"`
}

// Endpoint declares an endpoint with its default params and methods.
type Endpoint struct {
	Path        string   `yaml:"path"`
	Name        string   `yaml:"name"`
	Schema      string   `yaml:"schema"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Params      []Field  `yaml:"params"`
	Methods     []Method `yaml:"methods"`
}

// Method declares one action of an endpoint.
type Method struct {
	Verb        string     `yaml:"verb"`
	Action      string     `yaml:"action"`
	Path        string     `yaml:"path"`
	Schema      string     `yaml:"schema"`
	As          string     `yaml:"as"`
	Status      int        `yaml:"status"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Params      *Params    `yaml:"params"`
	Except      StringList `yaml:"except"`
}

// StringList decodes either a single string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil

	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	}

	return fmt.Errorf("%w: line %d: expected a string or a list of strings", ErrInvalidDefinition, node.Line)
}

// Params is the params spec of a method. Exactly one form is set:
//
//	params: true            # the endpoint default params
//	params: false           # no params
//	params: users           # the default params of another endpoint
//	params: [name, email]   # a subset of the default params
//	params:                 # params declared inline
//	  - {name: limit, type: integer}
type Params struct {
	Enabled  *bool
	Endpoint string
	Names    []string
	Fields   []Field
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Params) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!bool" {
			var enabled bool
			if err := node.Decode(&enabled); err != nil {
				return err
			}
			p.Enabled = &enabled
			return nil
		}
		return node.Decode(&p.Endpoint)

	case yaml.SequenceNode:
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.MappingNode {
			return node.Decode(&p.Fields)
		}
		p.Names = []string{}
		return node.Decode(&p.Names)
	}

	return fmt.Errorf("%w: line %d: params must be a boolean, an endpoint name or a list", ErrInvalidDefinition, node.Line)
}
