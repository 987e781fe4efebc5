package openapi

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/endpoint"
	"github.com/vitalvas/schemakit/internal/inflect"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.0"

// emptyResponse describes responses of methods without a schema.
const emptyResponse = "Response"

// Content types of generated operations.
const (
	contentForm = "application/x-www-form-urlencoded"
	contentJSON = "application/json"
)

// idParamRegexp matches :id style tokens in endpoint paths.
var idParamRegexp = regexp.MustCompile(`:(\w+)`)

// Resolver lists and resolves the schemas and endpoints to document.
type Resolver interface {
	endpoint.Resolver
	SchemaNames() []string
	EndpointNames() []string
}

// Generator builds an OpenAPI document from the schemas and endpoints of
// a resolver.
type Generator struct {
	resolver   Resolver
	info       Info
	servers    []Server
	logger     *zap.Logger
	properties *PropertyGenerator
}

// typed is implemented by resolvers carrying their own type registry.
type typed interface {
	Types() *attribute.Registry
}

// NewGenerator creates a document generator with the given API info.
// Resolvers exposing Types() lend their type registry to the generator.
func NewGenerator(r Resolver, info Info) *Generator {
	var types *attribute.Registry
	if t, ok := r.(typed); ok {
		types = t.Types()
	}

	return &Generator{
		resolver:   r,
		info:       info,
		logger:     zap.NewNop(),
		properties: NewPropertyGenerator(types),
	}
}

// AddServer adds a server to the document.
func (g *Generator) AddServer(server Server) *Generator {
	g.servers = append(g.servers, server)
	return g
}

// SetLogger sets the logger used for debug output while building.
func (g *Generator) SetLogger(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g.logger = logger
	return g
}

// SetTypes sets the type registry used to tell type tags from schema names.
func (g *Generator) SetTypes(types *attribute.Registry) *Generator {
	g.properties = NewPropertyGenerator(types)
	return g
}

// Info returns the API info of the document.
func (g *Generator) Info() Info {
	return g.info
}

// Property generates the descriptor of a single attribute, type tag or
// schema name.
func (g *Generator) Property(node any, opts PropertyOptions) (*Schema, error) {
	return g.properties.Property(node, opts)
}

// Build assembles the document. Every registered endpoint contributes one
// path per distinct method path, and every registered schema one
// component schema.
func (g *Generator) Build() (*Document, error) {
	doc := &Document{
		OpenAPI:    Version,
		Info:       g.info,
		Servers:    g.servers,
		Paths:      make(map[string]*PathItem),
		Components: &Components{Schemas: make(map[string]*Schema)},
	}

	for _, name := range g.resolver.EndpointNames() {
		e, err := g.resolver.LookupEndpoint(name)
		if err != nil {
			return nil, err
		}
		if err := g.buildPaths(doc, e); err != nil {
			return nil, fmt.Errorf("endpoint %q: %w", name, err)
		}
	}

	for _, name := range g.resolver.SchemaNames() {
		schema, err := g.resolver.LookupSchema(name)
		if err != nil {
			return nil, err
		}

		s, err := g.properties.Property(schema, PropertyOptions{})
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", name, err)
		}
		doc.Components.Schemas[name] = s

		g.logger.Debug("component schema generated", zap.String("schema", name))
	}

	doc.Tags = collectTags(doc.Paths)

	return doc, nil
}

func (g *Generator) buildPaths(doc *Document, e *endpoint.Endpoint) error {
	methods, err := e.Methods(g.resolver)
	if err != nil {
		return err
	}

	for _, m := range methods {
		resource := convertIDParams(joinURL(e.Path(), m.Path()))

		item, ok := doc.Paths[resource]
		if !ok {
			item = &PathItem{}
			doc.Paths[resource] = item
		}

		op, err := g.operation(m, e.Path())
		if err != nil {
			return fmt.Errorf("method %q: %w", m.Action(), err)
		}
		assignOperation(item, m.Verb(), op)

		g.logger.Debug("operation generated",
			zap.String("path", resource),
			zap.String("verb", m.Verb()),
			zap.String("action", m.Action()),
		)
	}

	return nil
}

func (g *Generator) operation(m *endpoint.Method, baseURL string) (*Operation, error) {
	op := &Operation{Summary: m.Description()}

	if m.Schema() != "" {
		op.Tags = []string{inflect.Pluralize(inflect.Humanize(m.Schema()))}
	}

	params, err := g.Parameters(m, baseURL)
	if err != nil {
		return nil, err
	}
	op.Parameters = params

	if m.HasBody() {
		body, err := g.RequestBody(m)
		if err != nil {
			return nil, err
		}
		op.RequestBody = body
	}

	resp, err := g.Response(m)
	if err != nil {
		return nil, err
	}
	op.Responses = map[string]*Response{strconv.Itoa(m.Status()): resp}

	return op, nil
}

// Parameters returns the path parameters of the method URL followed by
// its query parameters.
func (g *Generator) Parameters(m *endpoint.Method, baseURL string) ([]*Parameter, error) {
	params := PathParameters(joinURL(baseURL, m.Path()))

	query, err := g.QueryParameters(m)
	if err != nil {
		return nil, err
	}
	return append(params, query...), nil
}

// PathParameters returns a required string parameter for every :id
// token of url.
func PathParameters(url string) []*Parameter {
	var params []*Parameter
	for _, match := range idParamRegexp.FindAllStringSubmatch(url, -1) {
		params = append(params, &Parameter{
			Name:     match[1],
			In:       "path",
			Required: true,
			Schema:   &Schema{Type: attribute.TypeString},
		})
	}
	return params
}

// QueryParameters converts the params of GET methods into query
// parameters. Private params are skipped.
func (g *Generator) QueryParameters(m *endpoint.Method) ([]*Parameter, error) {
	if m.Verb() != endpoint.Get {
		return nil, nil
	}

	params := m.Params()

	var opts PropertyOptions
	if m.Schema() != params.Schema() {
		opts.Schema = params.Schema()
	}

	var out []*Parameter
	for _, attr := range params.Attribute().Attributes() {
		if !attr.Serializable() {
			continue
		}

		s, err := g.properties.Property(attr, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, &Parameter{
			Name:        attr.Name(),
			In:          "query",
			Schema:      s,
			Required:    attr.Required(),
			Deprecated:  attr.Deprecated(),
			Description: attr.Description(),
		})
	}
	return out, nil
}

// RequestBody describes the method params as a form encoded body.
func (g *Generator) RequestBody(m *endpoint.Method) (*RequestBody, error) {
	s, err := g.properties.Property(m.Params().Attribute(), PropertyOptions{})
	if err != nil {
		return nil, err
	}

	return &RequestBody{
		Content: map[string]*MediaType{contentForm: {Schema: s}},
	}, nil
}

// Response describes the success response of the method. Methods with a
// schema respond with a JSON reference to it, or to As when set.
func (g *Generator) Response(m *endpoint.Method) (*Response, error) {
	if m.Schema() == "" {
		return &Response{Description: emptyResponse}, nil
	}

	s, err := g.properties.Property(m.Schema(), PropertyOptions{As: m.As()})
	if err != nil {
		return nil, err
	}

	return &Response{
		Description: inflect.Humanize(m.Schema()),
		Content:     map[string]*MediaType{contentJSON: {Schema: s}},
	}, nil
}

// joinURL joins relative URL parts with single slashes. One leading and
// one trailing slash is trimmed from every part and blank parts are
// dropped.
func joinURL(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSuffix(strings.TrimPrefix(part, "/"), "/")
		if strings.TrimSpace(part) == "" {
			continue
		}
		clean = append(clean, part)
	}
	return "/" + strings.Join(clean, "/")
}

// convertIDParams rewrites :id tokens into OpenAPI {id} parameters.
func convertIDParams(url string) string {
	return idParamRegexp.ReplaceAllString(url, "{$1}")
}

// assignOperation assigns an operation to the field of the path item
// matching the verb.
func assignOperation(item *PathItem, verb string, op *Operation) {
	switch verb {
	case endpoint.Get:
		item.Get = op
	case endpoint.Post:
		item.Post = op
	case endpoint.Put:
		item.Put = op
	case endpoint.Delete:
		item.Delete = op
	case endpoint.Patch:
		item.Patch = op
	case endpoint.Head:
		item.Head = op
	case endpoint.Trace:
		item.Trace = op
	}
}

// collectTags returns the distinct operation tags sorted by name.
func collectTags(paths map[string]*PathItem) []Tag {
	seen := make(map[string]bool)
	var tags []Tag

	for _, item := range paths {
		for _, op := range item.Operations() {
			for _, name := range op.Tags {
				if seen[name] {
					continue
				}
				seen[name] = true
				tags = append(tags, Tag{Name: name})
			}
		}
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	return tags
}
