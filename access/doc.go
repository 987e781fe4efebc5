// Package access reads named fields off arbitrary host values.
//
// Serialization and validation walk an attribute tree against values that
// may be plain maps, structs, pointers to structs or types with accessor
// methods. Get hides those shapes behind one call:
//
//	access.Get(map[string]any{"name": "Thor"}, "name") // "Thor"
//	access.Get(&Hero{Name: "Thor"}, "name")            // "Thor"
//
// A type may implement Getter to take full control of the lookup.
package access
