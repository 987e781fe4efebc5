package attribute

import (
	"errors"
	"fmt"

	"github.com/vitalvas/schemakit/access"
)

// ErrInvalidPredicate is returned when an If or Unless value is neither a
// field name nor a function.
var ErrInvalidPredicate = errors.New("attribute: invalid predicate value (must be a field name or a function)")

// EvalPredicate evaluates pred against object. A string reads the sibling
// field of that name and tests it for truthiness.
func EvalPredicate(pred any, object any) (bool, error) {
	switch p := pred.(type) {
	case string:
		return Truthy(access.Get(object, p)), nil
	case Predicate:
		return p(object), nil
	case func(any) bool:
		return p(object), nil
	default:
		return false, fmt.Errorf("%w: %T", ErrInvalidPredicate, pred)
	}
}

// Included reports whether the attribute applies to object according to
// its If predicate, or its Unless predicate when If is unset.
func (a *Attribute) Included(object any) (bool, error) {
	if a.opts.If != nil {
		return EvalPredicate(a.opts.If, object)
	}
	if a.opts.Unless != nil {
		ok, err := EvalPredicate(a.opts.Unless, object)
		return !ok, err
	}
	return true, nil
}

// Truthy reports whether v counts as true: everything except nil and false.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}
