package openapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/schemakit/attribute"
)

func mustAttr(t *testing.T, tag, name string, opts ...attribute.Option) *attribute.Attribute {
	t.Helper()
	attr, err := attribute.Create(tag, name, opts...)
	require.NoError(t, err)
	return attr
}

func mustObject(t *testing.T, name string, build func(*attribute.Builder)) *attribute.Attribute {
	t.Helper()
	return mustAttr(t, attribute.TypeObject, name, attribute.Children(build))
}

func TestPropertyGenerator(t *testing.T) {
	g := NewPropertyGenerator(nil)

	tests := []struct {
		name     string
		node     any
		opts     PropertyOptions
		expected *Schema
	}{
		{
			name:     "integer",
			node:     mustAttr(t, attribute.TypeInteger, "amount"),
			expected: &Schema{Type: "integer"},
		},
		{
			name:     "description",
			node:     mustAttr(t, attribute.TypeInteger, "amount", attribute.Description("Total amount")),
			expected: &Schema{Type: "integer", Description: "Total amount"},
		},
		{
			name:     "enum",
			node:     mustAttr(t, attribute.TypeString, "currency", attribute.In("usd", "thb")),
			expected: &Schema{Type: "string", Enum: []any{"usd", "thb"}},
		},
		{
			name:     "nullable",
			node:     mustAttr(t, attribute.TypeString, "currency", attribute.Nullable()),
			expected: &Schema{Type: "string", Nullable: true},
		},
		{
			name:     "default",
			node:     mustAttr(t, attribute.TypeString, "currency", attribute.Default("thb")),
			expected: &Schema{Type: "string", Default: "thb"},
		},
		{
			name:     "false default is omitted",
			node:     mustAttr(t, attribute.TypeBoolean, "livemode", attribute.Default(false)),
			expected: &Schema{Type: "boolean", Enum: []any{true, false}},
		},
		{
			name:     "pattern",
			node:     mustAttr(t, attribute.TypeString, "id", attribute.Match(`test_\w+`)),
			expected: &Schema{Type: "string", Pattern: `test_\w+`},
		},
		{
			name:     "x-schema",
			node:     mustAttr(t, attribute.TypeString, "currency", attribute.Default("thb")),
			opts:     PropertyOptions{Schema: "account"},
			expected: &Schema{Type: "string", Default: "thb", XSchema: "account"},
		},
		{
			name:     "schema name",
			node:     "user",
			expected: &Schema{Ref: "#/components/schemas/user"},
		},
		{
			name:     "schema name with as",
			node:     "user",
			opts:     PropertyOptions{As: "list"},
			expected: &Schema{Ref: "#/components/schemas/list"},
		},
		{
			name:     "type tag",
			node:     "integer",
			expected: &Schema{Type: "integer"},
		},
		{
			name:     "default format",
			node:     mustAttr(t, attribute.TypeTime, "created"),
			expected: &Schema{Type: "string", Format: "date-time"},
		},
		{
			name:     "custom format",
			node:     mustAttr(t, attribute.TypeTime, "created", attribute.Format("int64")),
			expected: &Schema{Type: "string", Format: "int64"},
		},
		{
			name:     "float",
			node:     mustAttr(t, attribute.TypeFloat, "rate"),
			expected: &Schema{Type: "number", Format: "float"},
		},
		{
			name:     "boolean",
			node:     mustAttr(t, attribute.TypeBoolean, "livemode"),
			expected: &Schema{Type: "boolean", Enum: []any{true, false}},
		},
		{
			name: "array of type",
			node: mustAttr(t, attribute.TypeArray, "currencies", attribute.Of("string")),
			expected: &Schema{
				Type:  "array",
				Items: &Schema{Type: "string"},
			},
		},
		{
			name: "array of anything",
			node: mustAttr(t, attribute.TypeArray, "currencies"),
			expected: &Schema{
				Type:  "array",
				Items: &Schema{},
			},
		},
		{
			name: "array of schema",
			node: mustAttr(t, attribute.TypeArray, "friends", attribute.Of("user")),
			opts: PropertyOptions{As: "list"},
			expected: &Schema{
				Type:  "array",
				Items: &Schema{Ref: "#/components/schemas/user"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := g.Property(tc.node, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestPropertyGeneratorObject(t *testing.T) {
	g := NewPropertyGenerator(nil)

	t.Run("object", func(t *testing.T) {
		obj := mustObject(t, "test", func(b *attribute.Builder) {
			b.Integer("amount", attribute.Required())
			b.String("name")
			b.Schema("user")
		})

		got, err := g.Property(obj, PropertyOptions{})
		require.NoError(t, err)
		assert.Equal(t, &Schema{
			Type:     "object",
			Required: []string{"amount"},
			Properties: map[string]*Schema{
				"amount": {Type: "integer"},
				"name":   {Type: "string"},
				"user":   {Ref: "#/components/schemas/user"},
			},
		}, got)
	})

	t.Run("private children are required but hidden", func(t *testing.T) {
		obj := mustObject(t, "test", func(b *attribute.Builder) {
			b.String("secret", attribute.Required(), attribute.Private())
			b.String("name")
		})

		got, err := g.Property(obj, PropertyOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"secret"}, got.Required)
		assert.Contains(t, got.Properties, "name")
		assert.NotContains(t, got.Properties, "secret")
	})

	t.Run("schema of another name", func(t *testing.T) {
		obj := mustObject(t, "test", func(b *attribute.Builder) {
			b.Schema("friends", attribute.Of("user"))
		})

		got, err := g.Property(obj, PropertyOptions{})
		require.NoError(t, err)
		assert.Equal(t, &Schema{Ref: "#/components/schemas/user"}, got.Properties["friends"])
	})

	t.Run("expandable", func(t *testing.T) {
		obj := mustObject(t, "test", func(b *attribute.Builder) {
			b.Schema("friend", attribute.Of("user"), attribute.Expandable())
		})

		got, err := g.Property(obj, PropertyOptions{})
		require.NoError(t, err)
		assert.Equal(t, &Schema{OneOf: []*Schema{
			{Ref: "#/components/schemas/user"},
			{Type: "string"},
		}}, got.Properties["friend"])
	})

	t.Run("expandable with several schemas", func(t *testing.T) {
		obj := mustObject(t, "test", func(b *attribute.Builder) {
			b.Schema("friend", attribute.Of("user", "customer"), attribute.Expandable())
		})

		got, err := g.Property(obj, PropertyOptions{})
		require.NoError(t, err)
		assert.Equal(t, &Schema{OneOf: []*Schema{
			{Ref: "#/components/schemas/user"},
			{Ref: "#/components/schemas/customer"},
			{Type: "string"},
		}}, got.Properties["friend"])
	})

	t.Run("several schemas", func(t *testing.T) {
		obj := mustObject(t, "test", func(b *attribute.Builder) {
			b.Schema("owner", attribute.Of("user", "customer"))
		})

		got, err := g.Property(obj, PropertyOptions{})
		require.NoError(t, err)
		assert.Equal(t, &Schema{OneOf: []*Schema{
			{Ref: "#/components/schemas/user"},
			{Ref: "#/components/schemas/customer"},
		}}, got.Properties["owner"])
	})

	t.Run("x-schema reaches children", func(t *testing.T) {
		obj := mustObject(t, "test", func(b *attribute.Builder) {
			b.String("name")
		})

		got, err := g.Property(obj, PropertyOptions{Schema: "account"})
		require.NoError(t, err)
		assert.Equal(t, "account", got.XSchema)
		assert.Equal(t, "account", got.Properties["name"].XSchema)
	})

	t.Run("empty object", func(t *testing.T) {
		got, err := g.Property(mustObject(t, "test", func(*attribute.Builder) {}), PropertyOptions{})
		require.NoError(t, err)
		assert.Equal(t, &Schema{Type: "object", Properties: map[string]*Schema{}}, got)
	})

	t.Run("only private children", func(t *testing.T) {
		obj := mustObject(t, "test", func(b *attribute.Builder) {
			b.String("secret", attribute.Private())
		})

		got, err := g.Property(obj, PropertyOptions{})
		require.NoError(t, err)
		assert.Equal(t, &Schema{Type: "object", Properties: map[string]*Schema{}}, got)

		data, err := json.Marshal(got)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"object","properties":{}}`, string(data))
	})
}
