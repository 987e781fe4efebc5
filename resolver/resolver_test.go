package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/endpoint"
	"github.com/vitalvas/schemakit/registry"
	"github.com/vitalvas/schemakit/serializer"
	"github.com/vitalvas/schemakit/validator"
)

func TestSchema(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	t.Run("register", func(t *testing.T) {
		schema, err := r.Schema("user", func(b *attribute.Builder) {
			b.String("username", attribute.Required())
		}, attribute.Description("A user"))
		require.NoError(t, err)
		assert.Equal(t, "user", schema.Name())
		assert.Equal(t, "A user", schema.Description())
		assert.Equal(t, []string{"username"}, schema.Keys())
	})

	t.Run("lookup", func(t *testing.T) {
		schema, err := r.Schema("user", nil)
		require.NoError(t, err)
		assert.Equal(t, "user", schema.Name())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := r.Schema("missing", nil)
		assert.True(t, errors.Is(err, registry.ErrNotFound))
		assert.EqualError(t, err, `schema "missing" cannot be found`)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := r.Schema("user", func(*attribute.Builder) {})
		assert.True(t, errors.Is(err, registry.ErrAlreadyExists))
	})

	t.Run("override", func(t *testing.T) {
		schema, err := r.types.Create(attribute.TypeObject, "user", attribute.Children(func(b *attribute.Builder) {
			b.String("email")
		}))
		require.NoError(t, err)
		require.NoError(t, r.RegisterSchema(schema, true))

		got, err := r.LookupSchema("user")
		require.NoError(t, err)
		assert.Equal(t, []string{"email"}, got.Keys())
	})

	t.Run("not an object", func(t *testing.T) {
		attr, err := attribute.Create(attribute.TypeString, "name")
		require.NoError(t, err)
		assert.True(t, errors.Is(r.RegisterSchema(attr, false), attribute.ErrNotObject))
	})

	t.Run("build error", func(t *testing.T) {
		_, err := r.Schema("broken", func(b *attribute.Builder) {
			b.Attr("money", "amount")
		})
		assert.True(t, errors.Is(err, registry.ErrNotFound))
		assert.NotContains(t, r.SchemaNames(), "broken")
	})
}

func TestEndpoint(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	created, err := r.Endpoint("/users/:id/friends", func(d *endpoint.Definition) {
		d.Get("index")
	}, endpoint.Schema("user"))
	require.NoError(t, err)
	assert.Equal(t, "users_id_friends", created.Name())

	for _, name := range []string{"/users/:id/friends", "users_id_friends", "users/:id/friends/"} {
		t.Run(name, func(t *testing.T) {
			e, err := r.Endpoint(name, nil)
			require.NoError(t, err)
			assert.Same(t, created, e)
		})
	}

	t.Run("missing", func(t *testing.T) {
		_, err := r.Endpoint("/missing", nil)
		assert.True(t, errors.Is(err, registry.ErrNotFound))
		assert.EqualError(t, err, `endpoint "missing" cannot be found`)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := r.Endpoint("/users/:id/friends", func(*endpoint.Definition) {})
		assert.True(t, errors.Is(err, registry.ErrAlreadyExists))
	})

	t.Run("names", func(t *testing.T) {
		_, err := r.Endpoint("/teams", func(*endpoint.Definition) {})
		require.NoError(t, err)

		assert.Equal(t, []string{"users_id_friends", "teams"}, r.EndpointNames())
		require.Len(t, r.Endpoints(), 2)
		assert.Equal(t, "/teams", r.Endpoints()[1].Path())
	})
}

func TestOptions(t *testing.T) {
	team, err := attribute.Create(attribute.TypeObject, "team", attribute.Children(func(b *attribute.Builder) {
		b.String("name")
	}))
	require.NoError(t, err)

	r, err := New(
		WithSchemas(team),
		WithEndpoints(endpoint.New("/teams", nil, endpoint.Schema("team"))),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"team"}, r.SchemaNames())
	assert.Equal(t, []string{"teams"}, r.EndpointNames())
	assert.Equal(t, []*attribute.Attribute{team}, r.Schemas())

	t.Run("duplicate", func(t *testing.T) {
		_, err := New(WithSchemas(team, team))
		assert.True(t, errors.Is(err, registry.ErrAlreadyExists))
	})
}

func TestRecursiveSchemas(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	_, err = r.Schema("hero", func(b *attribute.Builder) {
		b.String("name", attribute.Min(4))
		b.Object("stats", func(b *attribute.Builder) {
			b.Number("strength", attribute.Default(0))
		})
		b.Array("friends", attribute.Of("hero"))
		b.Schema("team")
	})
	require.NoError(t, err)

	_, err = r.Schema("team", func(b *attribute.Builder) {
		b.String("name", attribute.Min(5), attribute.Default("Avengers"))
	})
	require.NoError(t, err)

	t.Run("validate", func(t *testing.T) {
		res, err := validator.New(r).Validate("hero", map[string]any{
			"name":    "Hulk",
			"friends": []any{map[string]any{"name": "Tony"}, map[string]any{"name": "Sta"}},
			"team":    map[string]any{"name": "Aven"},
		})
		require.NoError(t, err)
		assert.Nil(t, res.Value)
		assert.Equal(t, map[string][]string{
			"friends.1.name": {"is too short (minimum is 4 characters)"},
			"team.name":      {"is too short (minimum is 5 characters)"},
		}, res.Errors.Flatten())
	})

	t.Run("serialize", func(t *testing.T) {
		out, err := serializer.New(r).Serialize("hero", map[string]any{
			"name":    "Thor",
			"friends": []any{map[string]any{"name": "Iron Man", "stats": map[string]any{"strength": "9"}}},
			"stats":   map[string]any{"strength": "8"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"name":  "Thor",
			"stats": map[string]any{"strength": int64(8)},
			"friends": []any{map[string]any{
				"name":    "Iron Man",
				"stats":   map[string]any{"strength": int64(9)},
				"friends": []any{},
				"team":    map[string]any{"name": "Avengers"},
			}},
			"team": map[string]any{"name": "Avengers"},
		}, out)
	})

	t.Run("endpoint params", func(t *testing.T) {
		_, err := r.Endpoint("/heroes", func(d *endpoint.Definition) {
			d.Params(func(b *attribute.Builder) {
				b.String("name", attribute.Required())
				b.Schema("team")
			})
			d.Post("create", endpoint.WithParams(true))
		}, endpoint.Schema("hero"))
		require.NoError(t, err)

		_, err = r.Endpoint("/sidekicks", func(d *endpoint.Definition) {
			d.Post("create", endpoint.WithParams("heroes"))
		})
		require.NoError(t, err)

		sidekicks, err := r.Endpoint("/sidekicks", nil)
		require.NoError(t, err)

		m, err := sidekicks.Method("create", r)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "team"}, m.Params().Keys())

		res, err := m.Validate(map[string]any{"name": "Robin", "team": map[string]any{"name": "Bat"}}, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"is too short (minimum is 5 characters)"}, res.Errors.At("team.name").Messages)
	})
}
