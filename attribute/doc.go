// Package attribute implements the schema metamodel: typed attribute nodes,
// the type registry and the declarative builder used to author schemas.
//
// # Kinds
//
// Every attribute has a Kind. A kind specializes a parent kind and inherits
// its wire-level type, format and defaults:
//
//	attribute -> string  -> date | time | currency | uri | ip_address | uuid
//	          -> number  -> integer | float
//	          -> boolean
//	          -> array
//	          -> object  -> schema
//
// Custom kinds are added with Register:
//
//	_ = attribute.Register(&attribute.Kind{
//	    Type:   "email",
//	    Parent: attribute.KindString,
//	    Format: "email",
//	}, false)
//
// # Building schemas
//
// Object attributes are declared through a Builder:
//
//	hero, err := attribute.Create(attribute.TypeObject, "hero", attribute.Children(func(b *attribute.Builder) {
//	    b.String("name", attribute.Min(4))
//	    b.Object("stats", func(b *attribute.Builder) {
//	        b.Number("strength", attribute.Default(0))
//	    })
//	    b.Array("friends", attribute.Of("hero"))
//	    b.Schema("team")
//	}))
//
// Group applies a set of options to every attribute declared inside it.
// Inner groups and the attributes' own options take precedence.
//
// # Casts
//
// Serializers and normalizers are registered per type tag with SetSerializer
// and SetNormalizer. A kind without its own function uses the one of its
// nearest ancestor. The tables are process-wide; change them at startup.
package attribute
