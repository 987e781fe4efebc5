// Package serializer renders host objects as plain nested values shaped by
// an attribute tree.
//
// Fields are read from maps, structs, accessor methods or access.Getter
// implementations by each attribute's method name. Scalars go through the
// serializer registered for their type (see attribute.SetSerializer), so
// "9" becomes 9 for a number attribute. Private attributes and attributes
// whose If or Unless predicate excludes them are omitted.
//
//	s := serializer.New(resolver)
//	out, err := s.Serialize("hero", hero)
package serializer
