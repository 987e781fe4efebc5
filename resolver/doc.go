// Package resolver keeps the named schemas and endpoints of an API and
// resolves references to them at traversal time.
//
// Schema and Endpoint are get-or-register: with a build function they
// declare and register a new entry, without one they look up an existing
// entry and fail with registry.ErrNotFound when it is missing.
//
//	r, _ := resolver.New()
//	r.Schema("team", func(b *attribute.Builder) {
//	    b.String("name", attribute.Default("Avengers"))
//	})
//	team, err := r.Schema("team", nil)
package resolver
