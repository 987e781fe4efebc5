package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vitalvas/schemakit/openapi"
	"github.com/vitalvas/schemakit/registry"
	"github.com/vitalvas/schemakit/resolver"
	"github.com/vitalvas/schemakit/serializer"
	"github.com/vitalvas/schemakit/validator"
)

// DefaultMaxBodyBytes caps request bodies when Config leaves it unset.
const DefaultMaxBodyBytes = 1 << 20

// Config configures the router returned by New.
type Config struct {
	// DocsPath is where the OpenAPI document and docs UI are mounted.
	DocsPath string

	// Docs configures the document routes. Nil means defaults.
	Docs *openapi.HandleConfig

	MaxBodyBytes int64
}

type server struct {
	resolver *resolver.Resolver
	logger   *zap.Logger
}

// New returns a router serving r. Routes:
//
//	GET  /schemas
//	POST /schemas/{name}/validate
//	POST /schemas/{name}/serialize
//	GET  /endpoints
//	GET  /endpoints/{name}
//	POST /endpoints/{name}/{action}/validate
//
// plus the document routes of g under cfg.DocsPath.
func New(r *resolver.Resolver, g *openapi.Generator, cfg Config, logger *zap.Logger) (*chi.Mux, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	limit, err := LimitBody(cfg.MaxBodyBytes)
	if err != nil {
		return nil, err
	}

	s := &server{resolver: r, logger: logger}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(AccessLog(logger))
	router.Use(middleware.Recoverer)

	g.Handle(router, cfg.DocsPath, cfg.Docs)

	router.Group(func(api chi.Router) {
		api.Use(RequireJSON)
		api.Use(limit)

		api.Get("/schemas", s.listSchemas)
		api.Post("/schemas/{name}/validate", s.validateSchema)
		api.Post("/schemas/{name}/serialize", s.serializeSchema)

		api.Get("/endpoints", s.listEndpoints)
		api.Get("/endpoints/{name}", s.describeEndpoint)
		api.Post("/endpoints/{name}/{action}/validate", s.validateMethod)
	})

	return router, nil
}

func (s *server) listSchemas(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"schemas": s.resolver.SchemaNames()})
}

func (s *server) listEndpoints(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"endpoints": s.resolver.EndpointNames()})
}

type methodInfo struct {
	Verb   string   `json:"verb"`
	Action string   `json:"action"`
	Path   string   `json:"path"`
	Status int      `json:"status"`
	Params []string `json:"params"`
}

func (s *server) describeEndpoint(w http.ResponseWriter, r *http.Request) {
	e, err := s.resolver.LookupEndpoint(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, err)
		return
	}

	methods, err := e.Methods(s.resolver)
	if err != nil {
		s.fail(w, err)
		return
	}

	infos := make([]methodInfo, 0, len(methods))
	for _, m := range methods {
		infos = append(infos, methodInfo{
			Verb:   m.Verb(),
			Action: m.Action(),
			Path:   m.Path(),
			Status: m.Status(),
			Params: m.Params().Keys(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"name":    e.Name(),
		"path":    e.Path(),
		"schema":  e.Schema(),
		"methods": infos,
	})
}

func (s *server) validateSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := s.resolver.LookupSchema(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, err)
		return
	}

	payload, ok := s.decode(w, r)
	if !ok {
		return
	}

	res, err := validator.New(s.resolver, validator.WithTypes(s.resolver.Types())).Validate(schema, payload)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeResult(w, res)
}

func (s *server) serializeSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := s.resolver.LookupSchema(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, err)
		return
	}

	payload, ok := s.decode(w, r)
	if !ok {
		return
	}

	out, err := serializer.New(s.resolver, serializer.WithTypes(s.resolver.Types())).Serialize(schema, payload)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) validateMethod(w http.ResponseWriter, r *http.Request) {
	e, err := s.resolver.LookupEndpoint(chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, err)
		return
	}

	m, err := e.Method(chi.URLParam(r, "action"), s.resolver)
	if err != nil {
		s.fail(w, err)
		return
	}

	payload, ok := s.decode(w, r)
	if !ok {
		return
	}

	res, err := m.Validate(payload, s.resolver)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !res.Valid() {
		writeResult(w, res)
		return
	}

	input, isMap := payload.(map[string]any)
	if !isMap {
		writeResult(w, res)
		return
	}

	permitted, err := m.Permit(input)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "value": res.Value, "permitted": permitted})
}

// decode reads the JSON request body keeping numbers as json.Number.
func (s *server) decode(w http.ResponseWriter, r *http.Request) (any, bool) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return nil, false
	}
	return payload, true
}

func (s *server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	s.logger.Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeResult(w http.ResponseWriter, res validator.Result) {
	if res.Valid() {
		writeJSON(w, http.StatusOK, map[string]any{"valid": true, "value": res.Value})
		return
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"valid": false, "errors": res.Errors.Flatten()})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
