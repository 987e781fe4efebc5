// Package endpoint describes HTTP resources: an Endpoint is a path with a
// set of Methods, and each Method binds a verb and a relative path to the
// Params it accepts and the schema it responds with.
//
// Definitions are lazy. The build function of an endpoint runs on first
// access, and the params of a method are resolved against the endpoint
// default params only when the method is requested. Params may therefore
// refer to endpoints that are registered later:
//
//	charges := endpoint.New("/charges", func(d *endpoint.Definition) {
//	    d.Params(func(b *attribute.Builder) {
//	        b.Integer("amount")
//	        b.String("currency")
//	    })
//	    d.Get("index", endpoint.As("list"))
//	    d.Get("show", endpoint.Path("/:id"))
//	    d.Post("create", endpoint.WithParams(true), endpoint.Status(201))
//	    d.Patch("update", endpoint.Path("/:id"), endpoint.Except("currency"))
//	}, endpoint.Schema("charge"))
//
//	m, err := charges.Method("create", resolver)
//
// Built params produce a permit descriptor (see Params.Permit), a
// whitelist of accepted input keys applied by Filter and Method.Permit.
package endpoint
