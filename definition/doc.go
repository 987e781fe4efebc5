// Package definition loads schemas and endpoints from YAML files.
//
// A definition file declares schemas by name and a list of endpoints:
//
//	schemas:
//	  user:
//	    description: A user
//	    fields:
//	      - {name: name, type: string, required: true}
//	      - {name: friends, type: array, of: user}
//	      - name: address
//	        type: object
//	        fields:
//	          - {name: city, type: string}
//	      - group: {private: true}
//	        fields:
//	          - {name: password, type: string}
//
//	endpoints:
//	  - path: /users
//	    schema: user
//	    params:
//	      - {name: name, type: string, required: true}
//	      - {name: limit, type: integer}
//	    methods:
//	      - {verb: get, action: index, params: [limit], as: list}
//	      - {verb: post, action: create, params: true, status: 201}
//	      - {verb: get, action: show, path: "/:id"}
//
// Method params take any form accepted by endpoint.WithParams: true,
// false, another endpoint name, a list of default param names, or a list
// of inline fields. "except" lists default params to leave out.
//
// A Holder keeps the resolver built from a set of files or directories and
// can watch them for changes.
package definition
