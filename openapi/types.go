package openapi

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by Marshal for an unsupported output format.
var ErrUnknownFormat = errors.New("openapi: unknown format")

// Document represents the root of an OpenAPI v3.0 document.
//
// See: https://spec.openapis.org/oas/v3.0.0#openapi-object
type Document struct {
	OpenAPI    string               `json:"openapi" yaml:"openapi"`
	Info       Info                 `json:"info" yaml:"info"`
	Servers    []Server             `json:"servers,omitempty" yaml:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths" yaml:"paths"`
	Components *Components          `json:"components,omitempty" yaml:"components,omitempty"`
	Tags       []Tag                `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Info provides metadata about the API.
//
// See: https://spec.openapis.org/oas/v3.0.0#info-object
type Info struct {
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description,omitempty" yaml:"description,omitempty"`
	TermsOfService string   `json:"termsOfService,omitempty" yaml:"termsOfService,omitempty"`
	Contact        *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`
	License        *License `json:"license,omitempty" yaml:"license,omitempty"`
	Version        string   `json:"version" yaml:"version"`
}

// Contact represents contact information for the API.
//
// See: https://spec.openapis.org/oas/v3.0.0#contact-object
type Contact struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// License represents license information for the API.
//
// See: https://spec.openapis.org/oas/v3.0.0#license-object
type License struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Server represents a server.
//
// See: https://spec.openapis.org/oas/v3.0.0#server-object
type Server struct {
	URL         string `json:"url" yaml:"url" mapstructure:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
}

// PathItem describes the operations available on a single path.
//
// See: https://spec.openapis.org/oas/v3.0.0#path-item-object
type PathItem struct {
	Get    *Operation `json:"get,omitempty" yaml:"get,omitempty"`
	Put    *Operation `json:"put,omitempty" yaml:"put,omitempty"`
	Post   *Operation `json:"post,omitempty" yaml:"post,omitempty"`
	Delete *Operation `json:"delete,omitempty" yaml:"delete,omitempty"`
	Head   *Operation `json:"head,omitempty" yaml:"head,omitempty"`
	Patch  *Operation `json:"patch,omitempty" yaml:"patch,omitempty"`
	Trace  *Operation `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// Operations returns the operations of the path item keyed by verb.
func (p *PathItem) Operations() map[string]*Operation {
	ops := make(map[string]*Operation)
	for verb, op := range map[string]*Operation{
		"get": p.Get, "put": p.Put, "post": p.Post, "delete": p.Delete,
		"head": p.Head, "patch": p.Patch, "trace": p.Trace,
	} {
		if op != nil {
			ops[verb] = op
		}
	}
	return ops
}

// Operation describes a single API operation on a path.
//
// See: https://spec.openapis.org/oas/v3.0.0#operation-object
type Operation struct {
	Tags        []string             `json:"tags,omitempty" yaml:"tags,omitempty"`
	Summary     string               `json:"summary,omitempty" yaml:"summary,omitempty"`
	Parameters  []*Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody         `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   map[string]*Response `json:"responses" yaml:"responses"`
}

// Parameter describes a single operation parameter. The "in" field is
// "path" for ids taken from the URL template and "query" for the params
// of GET operations.
//
// See: https://spec.openapis.org/oas/v3.0.0#parameter-object
type Parameter struct {
	Name        string  `json:"name" yaml:"name"`
	In          string  `json:"in" yaml:"in"`
	Schema      *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
	Required    bool    `json:"required,omitempty" yaml:"required,omitempty"`
	Deprecated  bool    `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// RequestBody describes a single request body.
//
// See: https://spec.openapis.org/oas/v3.0.0#request-body-object
type RequestBody struct {
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool                  `json:"required,omitempty" yaml:"required,omitempty"`
	Content     map[string]*MediaType `json:"content" yaml:"content"`
}

// Response describes a single response from an API operation.
// Description is required by OpenAPI.
//
// See: https://spec.openapis.org/oas/v3.0.0#response-object
type Response struct {
	Description string                `json:"description" yaml:"description"`
	Content     map[string]*MediaType `json:"content,omitempty" yaml:"content,omitempty"`
}

// MediaType describes a media type with a schema.
//
// See: https://spec.openapis.org/oas/v3.0.0#media-type-object
type MediaType struct {
	Schema *Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Schema is the property descriptor generated for an attribute. A
// reference carries only Ref.
//
// See: https://spec.openapis.org/oas/v3.0.0#schema-object
type Schema struct {
	Ref         string             `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        string             `json:"type,omitempty" yaml:"type,omitempty"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any                `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []any              `json:"enum,omitempty" yaml:"enum,omitempty"`
	Nullable    bool               `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Format      string             `json:"format,omitempty" yaml:"format,omitempty"`
	Pattern     string             `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Items       *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string           `json:"required,omitempty" yaml:"required,omitempty"`
	OneOf       []*Schema          `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`

	// XSchema names the resource schema a query parameter was declared
	// for when it differs from the operation schema.
	XSchema string `json:"x-schema,omitempty" yaml:"x-schema,omitempty"`
}

// emptyProperties reports whether s is an object without visible
// children. Such a schema still encodes "properties: {}".
func (s Schema) emptyProperties() bool {
	return s.Properties != nil && len(s.Properties) == 0
}

func (s Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	if !s.emptyProperties() {
		return json.Marshal(plain(s))
	}
	return json.Marshal(struct {
		plain
		Properties map[string]*Schema `json:"properties"`
	}{plain(s), s.Properties})
}

func (s Schema) MarshalYAML() (any, error) {
	type plain Schema
	if !s.emptyProperties() {
		return plain(s), nil
	}

	var node yaml.Node
	if err := node.Encode(plain(s)); err != nil {
		return nil, err
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "properties"},
		&yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"},
	)
	return &node, nil
}

// Components holds the generated schema of every registered schema.
//
// See: https://spec.openapis.org/oas/v3.0.0#components-object
type Components struct {
	Schemas map[string]*Schema `json:"schemas" yaml:"schemas"`
}

// Tag adds metadata to a single tag used by Operation Objects.
//
// See: https://spec.openapis.org/oas/v3.0.0#tag-object
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Marshal encodes the document as "json" (indented) or "yaml".
func Marshal(doc *Document, format string) ([]byte, error) {
	switch format {
	case "json", "":
		return json.MarshalIndent(doc, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(doc)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
