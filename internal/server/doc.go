// Package server exposes loaded schemas and endpoints over HTTP: the
// OpenAPI document with its docs UI, and JSON routes that validate,
// serialize and permit payloads against the definitions.
//
// Validation routes answer 200 with the normalized value or 422 with the
// error messages keyed by dotted path:
//
//	POST /schemas/user/validate
//	{"age": "old"}
//
//	422 {"valid": false, "errors": {"name": ["can't be blank"], "age": ["is not integer"]}}
//
// Request bodies must be JSON and are capped by Config.MaxBodyBytes.
package server
