package attribute

// Built-in type tags.
const (
	TypeAttribute = "attribute"
	TypeString    = "string"
	TypeNumber    = "number"
	TypeInteger   = "integer"
	TypeFloat     = "float"
	TypeBoolean   = "boolean"
	TypeArray     = "array"
	TypeObject    = "object"
	TypeSchema    = "schema"
	TypeDate      = "date"
	TypeTime      = "time"
	TypeCurrency  = "currency"
	TypeURI       = "uri"
	TypeIPAddress = "ip_address"
	TypeUUID      = "uuid"
)

// Kind describes an attribute type. A kind specializes its Parent: every
// property left empty is inherited from the nearest ancestor that sets it.
// The chain always ends at the root "attribute" kind.
type Kind struct {
	// Type is the semantic type tag, e.g. "integer".
	Type string

	// Parent is the kind this one specializes. Nil means the root kind.
	Parent *Kind

	// NativeType is the JSON primitive the kind maps to on the wire.
	NativeType string

	// Format is the default format annotation.
	Format string

	// Spec and SpecURI name the standard the value follows, if any.
	Spec    string
	SpecURI string

	// In is the default set of allowed values.
	In []any

	// Defaults are options applied to every attribute of this kind before
	// the attribute's own options.
	Defaults []Option
}

// Built-in kinds.
var (
	KindAttribute = &Kind{Type: TypeAttribute}
	KindString    = &Kind{Type: TypeString, Parent: KindAttribute, NativeType: "string"}
	KindNumber    = &Kind{Type: TypeNumber, Parent: KindAttribute, NativeType: "number"}
	KindInteger   = &Kind{Type: TypeInteger, Parent: KindNumber, NativeType: "integer"}
	KindFloat     = &Kind{Type: TypeFloat, Parent: KindNumber, Format: "float"}
	KindBoolean   = &Kind{Type: TypeBoolean, Parent: KindAttribute, NativeType: "boolean", In: []any{true, false}}
	KindArray     = &Kind{Type: TypeArray, Parent: KindAttribute, NativeType: "array"}
	KindObject    = &Kind{Type: TypeObject, Parent: KindAttribute, NativeType: "object"}
	KindSchema    = &Kind{Type: TypeSchema, Parent: KindObject}
	KindDate      = &Kind{Type: TypeDate, Parent: KindString, Format: "date"}
	KindTime      = &Kind{
		Type:    TypeTime,
		Parent:  KindString,
		Format:  "date-time",
		Spec:    "ISO 8601",
		SpecURI: "https://en.wikipedia.org/wiki/ISO_8601",
	}
	KindCurrency = &Kind{
		Type:    TypeCurrency,
		Parent:  KindString,
		Format:  "currency",
		Spec:    "ISO 4217",
		SpecURI: "https://en.wikipedia.org/wiki/ISO_4217",
	}
	KindURI = &Kind{
		Type:    TypeURI,
		Parent:  KindString,
		Format:  "uri",
		Spec:    "RFC 3986",
		SpecURI: "https://tools.ietf.org/html/rfc3986",
	}
	KindIPAddress = &Kind{
		Type:    TypeIPAddress,
		Parent:  KindString,
		Spec:    "RFC 2673 § 3.2",
		SpecURI: "https://tools.ietf.org/html/rfc2673#section-3.2",
	}
	KindUUID = &Kind{
		Type:    TypeUUID,
		Parent:  KindString,
		Format:  "uuid",
		Spec:    "RFC 4122",
		SpecURI: "https://tools.ietf.org/html/rfc4122",
	}
)

// Builtins returns the built-in kinds in registration order.
func Builtins() []*Kind {
	return []*Kind{
		KindAttribute,
		KindString,
		KindNumber,
		KindInteger,
		KindFloat,
		KindBoolean,
		KindArray,
		KindObject,
		KindSchema,
		KindDate,
		KindTime,
		KindCurrency,
		KindURI,
		KindIPAddress,
		KindUUID,
	}
}

// ScalarTypes lists the tags whose values are single JSON primitives.
var ScalarTypes = []string{TypeString, TypeNumber, TypeInteger, TypeFloat, TypeBoolean}

// Is reports whether the kind is tag or specializes it.
func (k *Kind) Is(tag string) bool {
	for c := k; c != nil; c = c.Parent {
		if c.Type == tag {
			return true
		}
	}
	return false
}

// Chain returns the type tags from the most specific kind up to the root.
func (k *Kind) Chain() []string {
	var chain []string
	for c := k; c != nil; c = c.Parent {
		chain = append(chain, c.Type)
	}
	if len(chain) == 0 || chain[len(chain)-1] != TypeAttribute {
		chain = append(chain, TypeAttribute)
	}
	return chain
}

// Native returns the wire-level primitive of the kind.
func (k *Kind) Native() string {
	if v := k.inherit(func(c *Kind) string { return c.NativeType }); v != "" {
		return v
	}
	return k.Type
}

// DefaultFormat returns the format annotation inherited along the chain.
func (k *Kind) DefaultFormat() string {
	return k.inherit(func(c *Kind) string { return c.Format })
}

// Standard returns the name and reference URI of the standard the kind follows.
func (k *Kind) Standard() (string, string) {
	for c := k; c != nil; c = c.Parent {
		if c.Spec != "" {
			return c.Spec, c.SpecURI
		}
	}
	return "", ""
}

// DefaultIn returns the allowed values inherited along the chain.
func (k *Kind) DefaultIn() []any {
	for c := k; c != nil; c = c.Parent {
		if c.In != nil {
			return c.In
		}
	}
	return nil
}

func (k *Kind) inherit(get func(*Kind) string) string {
	for c := k; c != nil; c = c.Parent {
		if v := get(c); v != "" {
			return v
		}
	}
	return ""
}

// defaults returns the kind defaults from the root down, so a more
// specific kind overrides its ancestors.
func (k *Kind) defaults() []Option {
	var chain []*Kind
	for c := k; c != nil; c = c.Parent {
		chain = append(chain, c)
	}

	var opts []Option
	for i := len(chain) - 1; i >= 0; i-- {
		opts = append(opts, chain[i].Defaults...)
	}
	return opts
}
