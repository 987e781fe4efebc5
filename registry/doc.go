// Package registry provides a generic, insertion-ordered name registry.
//
// It backs the attribute type registry and both registries of a resolver
// (schemas and endpoints). Entries are created once under a unique name;
// registering the same name again fails with ErrAlreadyExists unless the
// override flag is set.
//
//	r := registry.New[*Thing]("thing")
//	_ = r.Register("a", a, false)
//	t, err := r.Get("a")
//
// Lookup failures are reported as *Error values that unwrap to ErrNotFound
// or ErrAlreadyExists, so callers can use errors.Is.
package registry
