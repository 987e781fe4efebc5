// Package visitor provides the dispatch engine shared by the validator,
// the serializer and the document generator.
//
// A Dispatcher maps type tags to handlers. Visiting an attribute tries the
// handler of its own type, then those of the types it specializes, and
// finally the catch-all "attribute" handler:
//
//	d := visitor.New[any, string](nil)
//	d.Handle(func(a *attribute.Attribute, _ any) (string, error) {
//	    return "number " + a.Name(), nil
//	}, attribute.TypeNumber)
//
//	d.Visit(integerAttr, nil) // "number ..." through integer -> number
//
// Bare names may be used wherever an attribute is expected. A name that is
// a registered type tag becomes an attribute of that type; any other name
// is a reference to the registered schema of that name.
package visitor
