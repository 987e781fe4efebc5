package validator

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/registry"
	"github.com/vitalvas/schemakit/visitor"
)

type schemas map[string]*attribute.Attribute

func (s schemas) LookupSchema(name string) (*attribute.Attribute, error) {
	attr, ok := s[name]
	if !ok {
		return nil, &registry.Error{Kind: "schema", Name: name, Err: registry.ErrNotFound}
	}
	return attr, nil
}

func mustObject(t *testing.T, name string, build func(*attribute.Builder)) *attribute.Attribute {
	t.Helper()
	attr, err := attribute.Create(attribute.TypeObject, name, attribute.Children(build))
	require.NoError(t, err)
	return attr
}

func mustAttr(t *testing.T, tag, name string, opts ...attribute.Option) *attribute.Attribute {
	t.Helper()
	attr, err := attribute.Create(tag, name, opts...)
	require.NoError(t, err)
	return attr
}

func heroSchemas(t *testing.T) schemas {
	return schemas{
		"hero": mustObject(t, "hero", func(b *attribute.Builder) {
			b.String("name", attribute.Min(4))
			b.Object("stats", func(b *attribute.Builder) {
				b.Number("strength", attribute.Default(0))
			})
			b.Array("friends", attribute.Of("hero"))
			b.Schema("team")
		}),
		"team": mustObject(t, "team", func(b *attribute.Builder) {
			b.String("name", attribute.Min(5), attribute.Default("Avengers"))
		}),
	}
}

func TestValidateRecursiveSchema(t *testing.T) {
	v := New(heroSchemas(t))

	t.Run("errors at nested paths", func(t *testing.T) {
		res, err := v.Validate("hero", map[string]any{
			"name":    "Hulk",
			"friends": []any{map[string]any{"name": "Tony"}, map[string]any{"name": "Sta"}},
			"team":    map[string]any{"name": "Aven"},
		})
		require.NoError(t, err)
		assert.False(t, res.Valid())
		assert.Nil(t, res.Value)

		assert.Equal(t, map[string][]string{
			"friends.1.name": {"is too short (minimum is 4 characters)"},
			"team.name":      {"is too short (minimum is 5 characters)"},
		}, res.Errors.Flatten())

		assert.Nil(t, res.Errors.At("friends.0"))
		assert.Nil(t, res.Errors.At("name"))
	})

	t.Run("valid input gets defaults", func(t *testing.T) {
		res, err := v.Validate("hero", map[string]any{
			"name":    "Thor",
			"friends": []any{map[string]any{"name": "Loki"}},
		})
		require.NoError(t, err)
		require.True(t, res.Valid())

		assert.Equal(t, map[string]any{
			"name":  "Thor",
			"stats": map[string]any{"strength": 0},
			"friends": []any{map[string]any{
				"name":    "Loki",
				"stats":   map[string]any{"strength": 0},
				"friends": []any{},
				"team":    map[string]any{"name": "Avengers"},
			}},
			"team": map[string]any{"name": "Avengers"},
		}, res.Value)
	})
}

type squad struct {
	Label string
}

func (s squad) Name() string { return s.Label }

type member struct {
	Name string
	Team *squad
}

func TestValidateNilPointers(t *testing.T) {
	v := New(heroSchemas(t))

	t.Run("nil field counts as absent", func(t *testing.T) {
		var res Result
		var err error
		require.NotPanics(t, func() {
			res, err = v.Validate("hero", member{Name: "Thor"})
		})
		require.NoError(t, err)
		require.True(t, res.Valid(), res.Errors)

		value := res.Value.(map[string]any)
		assert.Equal(t, map[string]any{"name": "Avengers"}, value["team"])
		assert.Equal(t, []any{}, value["friends"])
	})

	t.Run("set field is read through its methods", func(t *testing.T) {
		res, err := v.Validate("hero", member{Name: "Thor", Team: &squad{Label: "Defenders"}})
		require.NoError(t, err)
		require.True(t, res.Valid())
		assert.Equal(t, map[string]any{"name": "Defenders"}, res.Value.(map[string]any)["team"])
	})

	t.Run("nil root", func(t *testing.T) {
		var m *member
		res, err := v.Validate("team", m)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "Avengers"}, res.Value)
	})
}

func TestValidateScalars(t *testing.T) {
	v := New(nil)

	tests := []struct {
		name   string
		attr   *attribute.Attribute
		value  any
		errors []string
	}{
		{"string", mustAttr(t, attribute.TypeString, "s"), "john", nil},
		{"not string", mustAttr(t, attribute.TypeString, "s"), 1, []string{"is not string"}},
		{"nil string", mustAttr(t, attribute.TypeString, "s"), nil, nil},
		{"boolean", mustAttr(t, attribute.TypeBoolean, "b"), true, nil},
		{"not boolean", mustAttr(t, attribute.TypeBoolean, "b"), "yes", []string{"is not boolean"}},
		{"number int", mustAttr(t, attribute.TypeNumber, "n"), 1, nil},
		{"number float", mustAttr(t, attribute.TypeNumber, "n"), 1.5, nil},
		{"not number", mustAttr(t, attribute.TypeNumber, "n"), "1", []string{"is not number"}},
		{"integer", mustAttr(t, attribute.TypeInteger, "i"), int64(3), nil},
		{"integer json number", mustAttr(t, attribute.TypeInteger, "i"), json.Number("3"), nil},
		{"not integer", mustAttr(t, attribute.TypeInteger, "i"), 3.5, []string{"is not integer"}},
		{"float", mustAttr(t, attribute.TypeFloat, "f"), 3.5, nil},
		{"float json number", mustAttr(t, attribute.TypeFloat, "f"), json.Number("3.5"), nil},
		{"not float", mustAttr(t, attribute.TypeFloat, "f"), 3, []string{"is not float"}},
		{"date is a string", mustAttr(t, attribute.TypeDate, "d"), 20240101, []string{"is not string"}},
		{"required", mustAttr(t, attribute.TypeString, "s", attribute.Required()), nil, []string{"can't be blank"}},
		{"required blank", mustAttr(t, attribute.TypeString, "s", attribute.Required()), "  ", []string{"can't be blank"}},
		{"nullable required", mustAttr(t, attribute.TypeString, "s", attribute.Required(), attribute.Nullable()), nil, nil},
		{"too long", mustAttr(t, attribute.TypeString, "s", attribute.Max(3)), "john", []string{"is too long (maximum is 3 characters)"}},
		{"min skips nil", mustAttr(t, attribute.TypeString, "s", attribute.Min(1)), nil, nil},
		{"range", mustAttr(t, attribute.TypeString, "s", attribute.Between(2, 3)), "a", []string{"is too short (minimum is 2 characters)"}},
		{"multibyte length", mustAttr(t, attribute.TypeString, "s", attribute.Max(2)), "日本", nil},
		{"format", mustAttr(t, attribute.TypeString, "s", attribute.Match(`\A\d+\z`)), "12a", []string{"is invalid"}},
		{"inclusion", mustAttr(t, attribute.TypeString, "s", attribute.In("a", "b")), "c", []string{"is not included in the list"}},
		{"inclusion stringified", mustAttr(t, attribute.TypeString, "s", attribute.In(1, 2)), "2", nil},
		{"inclusion numeric", mustAttr(t, attribute.TypeInteger, "i", attribute.In(1, 2)), float64(2), []string{"is not integer"}},
		{"inclusion int", mustAttr(t, attribute.TypeInteger, "i", attribute.In(1, 2)), int64(2), nil},
		{"minimum", mustAttr(t, attribute.TypeInteger, "i", attribute.Min(1)), 0, []string{"must be greater than or equal to 1"}},
		{"maximum", mustAttr(t, attribute.TypeFloat, "f", attribute.Max(1.5)), 2.5, []string{"must be less than or equal to 1.5"}},
		{"uri", mustAttr(t, attribute.TypeURI, "u"), "https://example.com/a?b=c", nil},
		{"uri idn host", mustAttr(t, attribute.TypeURI, "u"), "https://bücher.example/", nil},
		{"invalid uri", mustAttr(t, attribute.TypeURI, "u"), "example", []string{"is not a valid URI"}},
		{"ip v4", mustAttr(t, attribute.TypeIPAddress, "ip"), "192.168.1.1", nil},
		{"ip v6", mustAttr(t, attribute.TypeIPAddress, "ip"), "::1", nil},
		{"invalid ip", mustAttr(t, attribute.TypeIPAddress, "ip"), "300.1.1.1", []string{"is not a valid IP address"}},
		{"uuid", mustAttr(t, attribute.TypeUUID, "id"), "f47ac10b-58cc-4372-a567-0e02b2c3d479", nil},
		{"invalid uuid", mustAttr(t, attribute.TypeUUID, "id"), "f47ac10b", []string{"is not a valid UUID"}},
		{"custom validator", mustAttr(t, attribute.TypeString, "s", attribute.Validators(func(v any) []string {
			if v == "admin" {
				return []string{"is reserved"}
			}
			return nil
		})), "admin", []string{"is reserved"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := v.Validate(tc.attr, tc.value)
			require.NoError(t, err)

			if tc.errors == nil {
				assert.True(t, res.Valid(), "%v", res.Errors)
				return
			}
			require.NotNil(t, res.Errors)
			assert.Equal(t, tc.errors, res.Errors.Messages)
		})
	}
}

func TestValidateDefaultsAndNormalizers(t *testing.T) {
	v := New(nil)

	t.Run("default substitutes nil", func(t *testing.T) {
		res, err := v.Validate(mustAttr(t, attribute.TypeString, "s", attribute.Default("x")), nil)
		require.NoError(t, err)
		assert.Equal(t, "x", res.Value)
	})

	t.Run("instance normalizer", func(t *testing.T) {
		attr := mustAttr(t, attribute.TypeBoolean, "b", attribute.Normalizer(func(v any) any {
			return v == "on"
		}))
		res, err := v.Validate(attr, "on")
		require.NoError(t, err)
		assert.True(t, res.Valid())
		assert.Equal(t, true, res.Value)
	})

	t.Run("type level normalizer reaches nested attributes", func(t *testing.T) {
		obj := mustObject(t, "settings", func(b *attribute.Builder) {
			b.Boolean("enabled")
		})
		input := map[string]any{"enabled": "on"}

		res, err := v.Validate(obj, input)
		require.NoError(t, err)
		assert.False(t, res.Valid())

		prev := attribute.SetNormalizer(attribute.TypeBoolean, func(v any) any {
			if v == "on" {
				return true
			}
			return v
		})
		res, err = v.Validate(obj, input)
		require.NoError(t, err)
		assert.True(t, res.Valid())
		assert.Equal(t, map[string]any{"enabled": true}, res.Value)

		attribute.SetNormalizer(attribute.TypeBoolean, prev)
		res, err = v.Validate(obj, input)
		require.NoError(t, err)
		assert.False(t, res.Valid())
	})
}

func TestValidateCollections(t *testing.T) {
	v := New(nil)

	t.Run("array of scalars", func(t *testing.T) {
		pets := mustAttr(t, attribute.TypeArray, "pets", attribute.Of("string"))
		res, err := v.Validate(pets, []any{"jay", 1, "max", true})
		require.NoError(t, err)
		assert.Nil(t, res.Value)
		assert.Equal(t, map[string][]string{
			"1": {"is not string"},
			"3": {"is not string"},
		}, res.Errors.Flatten())
	})

	t.Run("typed slice", func(t *testing.T) {
		pets := mustAttr(t, attribute.TypeArray, "pets", attribute.Of("string"))
		res, err := v.Validate(pets, []string{"jay", "max"})
		require.NoError(t, err)
		assert.Equal(t, []any{"jay", "max"}, res.Value)
	})

	t.Run("untyped array passes items through", func(t *testing.T) {
		res, err := v.Validate(mustAttr(t, attribute.TypeArray, "any"), []any{1, "a", nil})
		require.NoError(t, err)
		assert.Equal(t, []any{1, "a", nil}, res.Value)
	})

	t.Run("nil array", func(t *testing.T) {
		res, err := v.Validate(mustAttr(t, attribute.TypeArray, "any"), nil)
		require.NoError(t, err)
		assert.Equal(t, []any{}, res.Value)
	})

	t.Run("required array", func(t *testing.T) {
		res, err := v.Validate(mustAttr(t, attribute.TypeArray, "tags", attribute.Required()), []any{})
		require.NoError(t, err)
		assert.Equal(t, []string{"can't be blank"}, res.Errors.Messages)
	})

	t.Run("not array", func(t *testing.T) {
		res, err := v.Validate(mustAttr(t, attribute.TypeArray, "tags"), "a")
		require.NoError(t, err)
		assert.Equal(t, []string{"is not array"}, res.Errors.Messages)
	})

	t.Run("object discards values when a child fails", func(t *testing.T) {
		user := mustObject(t, "user", func(b *attribute.Builder) {
			b.String("username", attribute.Min(5))
			b.String("email")
		})
		res, err := v.Validate(user, map[string]any{"username": "john", "email": "john@example.com"})
		require.NoError(t, err)
		assert.Nil(t, res.Value)
		assert.Equal(t, []string{"username"}, keys(res.Errors.Fields))
	})

	t.Run("object reads structs by method", func(t *testing.T) {
		type account struct {
			FullName string
		}
		user := mustObject(t, "user", func(b *attribute.Builder) {
			b.String("name", attribute.Method("full_name"))
		})
		res, err := v.Validate(user, account{FullName: "John"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "John"}, res.Value)
	})

	t.Run("not object", func(t *testing.T) {
		res, err := v.Validate(mustObject(t, "user", func(*attribute.Builder) {}), []any{})
		require.NoError(t, err)
		assert.Equal(t, []string{"is not object"}, res.Errors.Messages)
	})

	t.Run("conditional rules read siblings", func(t *testing.T) {
		user := mustObject(t, "user", func(b *attribute.Builder) {
			b.Boolean("deleted")
			b.String("reason", attribute.Required(), attribute.If("deleted"))
		})

		res, err := v.Validate(user, map[string]any{"deleted": false})
		require.NoError(t, err)
		assert.True(t, res.Valid())

		res, err = v.Validate(user, map[string]any{"deleted": true})
		require.NoError(t, err)
		assert.Equal(t, []string{"can't be blank"}, res.Errors.At("reason").Messages)
	})

	t.Run("invalid predicate", func(t *testing.T) {
		user := mustObject(t, "user", func(b *attribute.Builder) {
			b.String("reason", attribute.Required(), attribute.Unless(42))
		})
		_, err := v.Validate(user, map[string]any{})
		assert.True(t, errors.Is(err, attribute.ErrInvalidPredicate))
	})
}

func TestValidateSchemaReferences(t *testing.T) {
	t.Run("resolver required", func(t *testing.T) {
		_, err := New(nil).Validate("user", map[string]any{})
		assert.True(t, errors.Is(err, visitor.ErrResolverRequired))
	})

	t.Run("unknown schema", func(t *testing.T) {
		_, err := New(schemas{}).Validate("user", map[string]any{})
		assert.True(t, errors.Is(err, registry.ErrNotFound))
	})

	t.Run("reference rules apply", func(t *testing.T) {
		s := heroSchemas(t)
		owner := mustObject(t, "owner", func(b *attribute.Builder) {
			b.Schema("team", attribute.Required())
		})
		res, err := New(s).Validate(owner, map[string]any{"team": map[string]any{}})
		require.NoError(t, err)
		assert.Equal(t, []string{"can't be blank"}, res.Errors.At("team").Messages)
	})
}

func TestCustomEvaluator(t *testing.T) {
	var seen []attribute.Rules
	e := EvaluatorFunc(func(rules attribute.Rules, value, _ any) ([]string, error) {
		seen = append(seen, rules)
		if value == "bad" {
			return []string{"nope"}, nil
		}
		return nil, nil
	})

	v := New(nil, WithEvaluator(e), WithTypes(attribute.NewRegistry()))
	res, err := v.Validate("string", "bad")
	require.NoError(t, err)
	assert.Equal(t, []string{"nope"}, res.Errors.Messages)
	require.Len(t, seen, 1)
	assert.Equal(t, attribute.KindString, seen[0].Kind)
}

func TestErrors(t *testing.T) {
	errs := &Errors{Fields: map[string]*Errors{
		"name": newMessages("can't be blank"),
		"friends": {Items: map[int]*Errors{
			1: {Fields: map[string]*Errors{"name": newMessages("is too short (minimum is 4 characters)")}},
		}},
	}}

	t.Run("json", func(t *testing.T) {
		data, err := json.Marshal(errs)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"name": ["can't be blank"],
			"friends": {"1": {"name": ["is too short (minimum is 4 characters)"]}}
		}`, string(data))
	})

	t.Run("error string", func(t *testing.T) {
		assert.Equal(t,
			"friends.1.name is too short (minimum is 4 characters); name can't be blank",
			errs.Error())
	})

	t.Run("empty", func(t *testing.T) {
		var nilErrs *Errors
		assert.True(t, nilErrs.Empty())
		assert.True(t, (&Errors{Fields: map[string]*Errors{"a": {}}}).Empty())
		assert.False(t, errs.Empty())
	})

	t.Run("at", func(t *testing.T) {
		assert.Same(t, errs, errs.At(""))
		assert.Equal(t, []string{"can't be blank"}, errs.At("name").Messages)
		assert.Nil(t, errs.At("friends.x"))
		assert.Nil(t, errs.At("missing.deeper"))
	})
}

func keys(m map[string]*Errors) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
