// Package validator checks values against attribute trees.
//
// Validation normalizes a value (default substitution, then the attribute
// normalizer), checks its type, and hands the attribute rule set to an
// Evaluator. Objects and arrays recurse into their children; schema
// references are followed through a resolver at each step, which keeps
// recursive schemas finite.
//
//	v := validator.New(resolver)
//	res, err := v.Validate("hero", payload)
//	if err != nil {
//	    // unknown schema, missing resolver, invalid predicate
//	}
//	if !res.Valid() {
//	    fmt.Println(res.Errors.Flatten()) // map[friends.1.name:[is too short (minimum is 4 characters)]]
//	}
//
// When any field of an object or item of an array fails, the result for
// that object or array carries only the errors: values of passing siblings
// are dropped, not returned partially.
package validator
