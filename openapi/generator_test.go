package openapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/endpoint"
	"github.com/vitalvas/schemakit/resolver"
)

func newTestResolver(t *testing.T) *resolver.Resolver {
	t.Helper()

	r, err := resolver.New()
	require.NoError(t, err)

	_, err = r.Schema("user", func(b *attribute.Builder) {
		b.String("name", attribute.Required())
		b.Array("friends", attribute.Of("user"))
		b.Schema("best_friend", attribute.Of("user"), attribute.Nullable())
	})
	require.NoError(t, err)

	_, err = r.Schema("list", func(b *attribute.Builder) {
		b.String("object", attribute.Default("list"))
		b.Array("data")
	})
	require.NoError(t, err)

	_, err = r.Endpoint("/users", func(d *endpoint.Definition) {
		d.Params(func(b *attribute.Builder) {
			b.String("name", attribute.Required())
			b.Integer("limit")
		})
		d.Get("index", endpoint.Only("limit"), endpoint.As("list"), endpoint.Description("List users"))
		d.Post("create", endpoint.WithParams(true), endpoint.Status(http.StatusCreated))
		d.Get("show", endpoint.Path("/:id"))
		d.Patch("update", endpoint.Path("/:id"), endpoint.Only("name"))
		d.Delete("destroy", endpoint.Path(":id"))
	}, endpoint.Schema("user"))
	require.NoError(t, err)

	_, err = r.Endpoint("/search", func(d *endpoint.Definition) {
		d.Get("index", endpoint.WithParams("users"))
	})
	require.NoError(t, err)

	return r
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		parts    []string
		expected string
	}{
		{[]string{"/users", "/", "/{id}/"}, "/users/{id}"},
		{[]string{"/users", "/"}, "/users"},
		{[]string{"/", "/"}, "/"},
		{[]string{"users", ":id"}, "/users/:id"},
		{[]string{"/users/", " ", "/books"}, "/users/books"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, joinURL(tc.parts...))
		})
	}
}

func TestConvertIDParams(t *testing.T) {
	assert.Equal(t, "/users/{id}/books/{book_id}", convertIDParams("/users/:id/books/:book_id"))
	assert.Equal(t, "/users", convertIDParams("/users"))
}

func TestPathParameters(t *testing.T) {
	t.Run("ids", func(t *testing.T) {
		params := PathParameters("/users/:user/books/:book")
		assert.Equal(t, []*Parameter{
			{Name: "user", In: "path", Required: true, Schema: &Schema{Type: "string"}},
			{Name: "book", In: "path", Required: true, Schema: &Schema{Type: "string"}},
		}, params)
	})

	t.Run("underscored ids", func(t *testing.T) {
		params := PathParameters("/:id/:user_id")
		require.Len(t, params, 2)
		assert.Equal(t, "id", params[0].Name)
		assert.Equal(t, "user_id", params[1].Name)
	})

	t.Run("no ids", func(t *testing.T) {
		assert.Empty(t, PathParameters("/users"))
	})
}

func TestGeneratorOperations(t *testing.T) {
	r := newTestResolver(t)
	g := NewGenerator(r, Info{Title: "Users API", Version: "1.0.0"})

	users, err := r.LookupEndpoint("users")
	require.NoError(t, err)

	method := func(t *testing.T, e *endpoint.Endpoint, action string) *endpoint.Method {
		t.Helper()
		m, err := e.Method(action, r)
		require.NoError(t, err)
		return m
	}

	t.Run("query params", func(t *testing.T) {
		params, err := g.Parameters(method(t, users, "index"), users.Path())
		require.NoError(t, err)
		assert.Equal(t, []*Parameter{
			{Name: "limit", In: "query", Schema: &Schema{Type: "integer"}},
		}, params)
	})

	t.Run("query params of another schema", func(t *testing.T) {
		search, err := r.LookupEndpoint("search")
		require.NoError(t, err)

		params, err := g.Parameters(method(t, search, "index"), search.Path())
		require.NoError(t, err)
		assert.Equal(t, []*Parameter{
			{Name: "name", In: "query", Required: true, Schema: &Schema{Type: "string", XSchema: "user"}},
			{Name: "limit", In: "query", Schema: &Schema{Type: "integer", XSchema: "user"}},
		}, params)
	})

	t.Run("path params come first", func(t *testing.T) {
		params, err := g.Parameters(method(t, users, "show"), users.Path())
		require.NoError(t, err)
		assert.Equal(t, []*Parameter{
			{Name: "id", In: "path", Required: true, Schema: &Schema{Type: "string"}},
		}, params)
	})

	t.Run("no query params without get", func(t *testing.T) {
		params, err := g.Parameters(method(t, users, "create"), users.Path())
		require.NoError(t, err)
		assert.Empty(t, params)
	})

	t.Run("request body", func(t *testing.T) {
		body, err := g.RequestBody(method(t, users, "create"))
		require.NoError(t, err)
		assert.Equal(t, &RequestBody{
			Content: map[string]*MediaType{
				"application/x-www-form-urlencoded": {Schema: &Schema{
					Type: "object",
					Properties: map[string]*Schema{
						"name":  {Type: "string"},
						"limit": {Type: "integer"},
					},
					Required: []string{"name"},
				}},
			},
		}, body)
	})

	t.Run("response", func(t *testing.T) {
		resp, err := g.Response(method(t, users, "show"))
		require.NoError(t, err)
		assert.Equal(t, &Response{
			Description: "User",
			Content: map[string]*MediaType{
				"application/json": {Schema: &Schema{Ref: "#/components/schemas/user"}},
			},
		}, resp)
	})

	t.Run("response as", func(t *testing.T) {
		resp, err := g.Response(method(t, users, "index"))
		require.NoError(t, err)
		assert.Equal(t, "User", resp.Description)
		assert.Equal(t, "#/components/schemas/list", resp.Content["application/json"].Schema.Ref)
	})

	t.Run("response without schema", func(t *testing.T) {
		search, err := r.LookupEndpoint("search")
		require.NoError(t, err)

		resp, err := g.Response(method(t, search, "index"))
		require.NoError(t, err)
		assert.Equal(t, &Response{Description: "Response"}, resp)
	})
}

func TestGeneratorBuild(t *testing.T) {
	r := newTestResolver(t)
	g := NewGenerator(r, Info{Title: "Users API", Version: "1.0.0"}).
		AddServer(Server{URL: "https://api.example.com"})

	doc, err := g.Build()
	require.NoError(t, err)

	t.Run("document", func(t *testing.T) {
		assert.Equal(t, "3.0.0", doc.OpenAPI)
		assert.Equal(t, "Users API", doc.Info.Title)
		assert.Equal(t, []Server{{URL: "https://api.example.com"}}, doc.Servers)
		assert.Equal(t, []Tag{{Name: "Users"}}, doc.Tags)
	})

	t.Run("paths", func(t *testing.T) {
		require.Len(t, doc.Paths, 3)

		collection := doc.Paths["/users"]
		require.NotNil(t, collection)
		require.NotNil(t, collection.Get)
		require.NotNil(t, collection.Post)
		assert.Nil(t, collection.Delete)
		assert.Equal(t, "List users", collection.Get.Summary)
		assert.Equal(t, []string{"Users"}, collection.Get.Tags)
		assert.Contains(t, collection.Post.Responses, "201")

		member := doc.Paths["/users/{id}"]
		require.NotNil(t, member)
		assert.NotNil(t, member.Get)
		assert.NotNil(t, member.Patch)
		assert.NotNil(t, member.Delete)
		assert.NotNil(t, member.Patch.RequestBody)
		assert.Nil(t, member.Delete.RequestBody)
		assert.Contains(t, member.Get.Responses, "200")

		search := doc.Paths["/search"]
		require.NotNil(t, search)
		assert.Empty(t, search.Get.Tags)
	})

	t.Run("recursive schema", func(t *testing.T) {
		user := doc.Components.Schemas["user"]
		require.NotNil(t, user)
		assert.Equal(t, "object", user.Type)
		assert.Equal(t, []string{"name"}, user.Required)
		assert.Equal(t, "#/components/schemas/user", user.Properties["friends"].Items.Ref)
		assert.Equal(t, "#/components/schemas/user", user.Properties["best_friend"].Ref)
	})

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(context.Background(), doc))
	})

	t.Run("marshal", func(t *testing.T) {
		data, err := Marshal(doc, "json")
		require.NoError(t, err)
		assert.Contains(t, string(data), `"openapi": "3.0.0"`)

		data, err = Marshal(doc, "yaml")
		require.NoError(t, err)
		assert.Contains(t, string(data), "openapi: 3.0.0")

		_, err = Marshal(doc, "toml")
		assert.True(t, errors.Is(err, ErrUnknownFormat))
	})
}

func TestGeneratorBuildErrors(t *testing.T) {
	t.Run("invalid params", func(t *testing.T) {
		r, err := resolver.New()
		require.NoError(t, err)

		_, err = r.Endpoint("/users", func(d *endpoint.Definition) {
			d.Get("index", endpoint.Only("missing"))
		})
		require.NoError(t, err)

		_, err = NewGenerator(r, Info{Title: "API", Version: "1"}).Build()
		assert.True(t, errors.Is(err, endpoint.ErrSubset))
	})

	t.Run("missing reference", func(t *testing.T) {
		r, err := resolver.New()
		require.NoError(t, err)

		_, err = r.Schema("charge", func(b *attribute.Builder) {
			b.Schema("owner", attribute.Of("missing"))
		})
		require.NoError(t, err)

		doc, err := NewGenerator(r, Info{Title: "API", Version: "1"}).Build()
		require.NoError(t, err)
		assert.True(t, errors.Is(Validate(context.Background(), doc), ErrInvalidDocument))
	})
}
