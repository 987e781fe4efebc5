package validator

import (
	"encoding/json"
	"reflect"

	"github.com/vitalvas/schemakit/access"
	"github.com/vitalvas/schemakit/attribute"
	"github.com/vitalvas/schemakit/visitor"
)

// Evaluator turns a rule set and a value into violation messages. context
// is the object enclosing the value; If and Unless predicates read from it.
type Evaluator interface {
	Evaluate(rules attribute.Rules, value any, context any) ([]string, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(rules attribute.Rules, value any, context any) ([]string, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(rules attribute.Rules, value any, context any) ([]string, error) {
	return f(rules, value, context)
}

// Option configures a Validator.
type Option func(*Validator)

// WithEvaluator replaces the rule evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(v *Validator) { v.evaluator = e }
}

// WithTypes sets the type registry used for bare names.
func WithTypes(types *attribute.Registry) Option {
	return func(v *Validator) { v.types = types }
}

type input struct {
	value   any
	context any
}

// Validator normalizes, type-checks and rule-checks values against
// attribute trees. It is safe for concurrent use.
type Validator struct {
	resolver  visitor.SchemaResolver
	evaluator Evaluator
	types     *attribute.Registry
	dispatch  *visitor.Dispatcher[input, Result]
}

// New creates a validator. The resolver follows schema references and may
// be nil when the validated trees hold none.
func New(resolver visitor.SchemaResolver, opts ...Option) *Validator {
	v := &Validator{
		resolver:  resolver,
		evaluator: RuleEvaluator{},
	}
	for _, opt := range opts {
		opt(v)
	}

	v.dispatch = visitor.New[input, Result](v.types).
		Handle(v.visitAttribute, attribute.TypeAttribute).
		Handle(v.typed(attribute.TypeString, isString), attribute.TypeString).
		Handle(v.typed(attribute.TypeBoolean, isBoolean), attribute.TypeBoolean).
		Handle(v.typed(attribute.TypeNumber, isNumber), attribute.TypeNumber).
		Handle(v.typed(attribute.TypeInteger, isInteger), attribute.TypeInteger).
		Handle(v.typed(attribute.TypeFloat, isFloat), attribute.TypeFloat).
		Handle(v.visitArray, attribute.TypeArray).
		Handle(v.visitObject, attribute.TypeObject).
		Handle(v.visitSchema, attribute.TypeSchema)

	return v
}

// Validate checks value against node, an attribute or a bare name.
// Violations are reported in the result; the error is reserved for
// structural problems such as unknown schemas or invalid predicates.
func (v *Validator) Validate(node any, value any) (Result, error) {
	return v.visit(node, value, nil)
}

func (v *Validator) visit(node any, value, context any) (Result, error) {
	attr, fn, err := v.dispatch.Resolve(node)
	if err != nil {
		return Result{}, err
	}

	if access.IsNil(value) {
		value = nil
	}
	value = attr.Normalize(attr.Value(value))
	return fn(attr, input{value: value, context: context})
}

func (v *Validator) visitAttribute(attr *attribute.Attribute, in input) (Result, error) {
	return v.run(attr, in)
}

func (v *Validator) run(attr *attribute.Attribute, in input) (Result, error) {
	messages, err := v.evaluator.Evaluate(attr.Rules(), in.value, in.context)
	if err != nil {
		return Result{}, err
	}
	if len(messages) > 0 {
		return Result{Value: in.value, Errors: newMessages(messages...)}, nil
	}
	return Result{Value: in.value}, nil
}

// typed checks the value type before the rules. Nil passes the type
// check; nullability is a rule.
func (v *Validator) typed(name string, check func(any) bool) visitor.HandlerFunc[input, Result] {
	return func(attr *attribute.Attribute, in input) (Result, error) {
		if in.value != nil && !check(in.value) {
			return Result{Value: in.value, Errors: newMessages("is not " + name)}, nil
		}
		return v.run(attr, in)
	}
}

func (v *Validator) visitArray(attr *attribute.Attribute, in input) (Result, error) {
	if in.value != nil && !isArray(in.value) {
		return Result{Value: in.value, Errors: newMessages("is not array")}, nil
	}
	if res, err := v.run(attr, in); err != nil || !res.Valid() {
		return res, err
	}

	items := toSlice(in.value)
	values := make([]any, len(items))
	var errs map[int]*Errors

	for i, item := range items {
		if len(attr.Of()) == 0 {
			values[i] = item
			continue
		}

		res, err := v.visit(attr.OfName(), item, in.context)
		if err != nil {
			return Result{}, err
		}
		if !res.Valid() {
			if errs == nil {
				errs = make(map[int]*Errors)
			}
			errs[i] = res.Errors
			continue
		}
		values[i] = res.Value
	}

	if errs != nil {
		return Result{Errors: &Errors{Items: errs}}, nil
	}
	return Result{Value: values}, nil
}

func (v *Validator) visitObject(attr *attribute.Attribute, in input) (Result, error) {
	return v.object(attr, attr, in)
}

// visitSchema applies the rules of the reference itself, then validates
// the value against the referenced schema.
func (v *Validator) visitSchema(attr *attribute.Attribute, in input) (Result, error) {
	schema, err := visitor.Schema(v.resolver, attr)
	if err != nil {
		return Result{}, err
	}
	return v.object(attr, schema, in)
}

func (v *Validator) object(attr, schema *attribute.Attribute, in input) (Result, error) {
	if in.value != nil && !isObject(in.value) {
		return Result{Value: in.value, Errors: newMessages("is not object")}, nil
	}
	if res, err := v.run(attr, in); err != nil || !res.Valid() {
		return res, err
	}

	children := schema.Attributes()
	values := make(map[string]any, len(children))
	var errs map[string]*Errors

	for _, child := range children {
		data := access.Get(in.value, child.Method())

		res, err := v.visit(child, data, in.value)
		if err != nil {
			return Result{}, err
		}
		if !res.Valid() {
			if errs == nil {
				errs = make(map[string]*Errors)
			}
			errs[child.Name()] = res.Errors
			continue
		}
		values[child.Name()] = res.Value
	}

	if errs != nil {
		return Result{Errors: &Errors{Fields: errs}}, nil
	}
	return Result{Value: values}, nil
}

func isString(v any) bool {
	return reflect.ValueOf(v).Kind() == reflect.String && !isJSONNumber(v)
}

func isBoolean(v any) bool {
	return reflect.ValueOf(v).Kind() == reflect.Bool
}

func isNumber(v any) bool {
	return isInteger(v) || isFloat(v)
}

func isInteger(v any) bool {
	if n, ok := v.(json.Number); ok {
		_, err := n.Int64()
		return err == nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(v any) bool {
	if n, ok := v.(json.Number); ok {
		if _, err := n.Int64(); err == nil {
			return false
		}
		_, err := n.Float64()
		return err == nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isJSONNumber(v any) bool {
	_, ok := v.(json.Number)
	return ok
}

func isArray(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

func isObject(v any) bool {
	if _, ok := v.(access.Getter); ok {
		return true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		return rv.Type().Key().Kind() == reflect.String
	case reflect.Struct:
		return true
	}
	return false
}

func toSlice(v any) []any {
	if v == nil {
		return []any{}
	}
	if items, ok := v.([]any); ok {
		return items
	}

	rv := reflect.ValueOf(v)
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items
}
