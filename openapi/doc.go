// Package openapi generates OpenAPI v3.0.0 documents from registered
// schemas and endpoints.
//
// See: https://spec.openapis.org/oas/v3.0.0
//
// # Generator
//
// A Generator walks every endpoint and schema of a resolver:
//
//	r, _ := resolver.New()
//	r.Schema("user", func(b *attribute.Builder) {
//	    b.String("name", attribute.Required())
//	    b.Array("friends", attribute.Of("user"))
//	})
//	r.Endpoint("/users", func(d *endpoint.Definition) {
//	    d.Params(func(b *attribute.Builder) {
//	        b.String("name")
//	    })
//	    d.Get("index", endpoint.Only("name"))
//	    d.Get("show", endpoint.Path("/:id"))
//	}, endpoint.Schema("user"))
//
//	g := openapi.NewGenerator(r, openapi.Info{Title: "Users API", Version: "1.0.0"})
//	doc, err := g.Build()
//
// Endpoint and method paths are joined and ":id" tokens become "{id}"
// path parameters. Operations are tagged with the pluralized, humanized
// schema name ("credit_card" becomes "Credit cards").
//
// # Parameters
//
// Every ":id" token yields a required string path parameter. GET methods
// expose their params as query parameters; params declared for another
// schema than the operation carry the "x-schema" extension. Methods whose
// verb takes a body and that have params get an
// application/x-www-form-urlencoded request body.
//
// # Responses
//
// Each operation has a single response keyed by the method status. A
// method with a schema responds with application/json content referring to
// its schema, or to the As name when set. Methods without a schema respond
// with a bare "Response" description.
//
// # Components
//
// Every registered schema becomes a component schema. References between
// schemas are emitted as $ref, so recursive schemas produce finite output.
// Expandable references accept either the referenced object or its string
// id:
//
//	{"oneOf": [{"$ref": "#/components/schemas/user"}, {"type": "string"}]}
//
// # Validation
//
// Validate loads the document with kin-openapi and checks it, including
// resolution of every $ref.
//
// # Serving
//
// Handle registers the document and an interactive docs page on any
// router with a Handle(pattern, http.Handler) method:
//
//	mux := http.NewServeMux()
//	g.Handle(mux, "/docs", nil)
//	// /docs/             -> Swagger UI
//	// /docs/schema.json  -> JSON document
//	// /docs/schema.yaml  -> YAML document
//
// The document is built on first request and cached.
package openapi
