package validator

import (
	"encoding/json"
	"fmt"
	"net/netip"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/cast"
	"golang.org/x/net/idna"

	"github.com/vitalvas/schemakit/attribute"
)

// Violation messages of the default rule evaluator.
const (
	MsgBlank       = "can't be blank"
	MsgInclusion   = "is not included in the list"
	MsgInvalid     = "is invalid"
	MsgNotANumber  = "is not a number"
	MsgInvalidURI  = "is not a valid URI"
	MsgInvalidIP   = "is not a valid IP address"
	MsgInvalidUUID = "is not a valid UUID"
)

// RuleEvaluator is the default Evaluator. Its messages follow the wording
// of Rails validations. On top of the declared rules it checks the syntax
// of uri, ip_address and uuid values.
type RuleEvaluator struct{}

// Evaluate returns the violations of value against rules. A rule set
// whose If predicate fails, or whose Unless predicate holds, is skipped.
func (RuleEvaluator) Evaluate(rules attribute.Rules, value any, context any) ([]string, error) {
	if rules.If != nil {
		ok, err := attribute.EvalPredicate(rules.If, context)
		if err != nil || !ok {
			return nil, err
		}
	}
	if rules.Unless != nil {
		ok, err := attribute.EvalPredicate(rules.Unless, context)
		if err != nil || ok {
			return nil, err
		}
	}
	if rules.AllowNil && value == nil {
		return nil, nil
	}

	var messages []string
	for _, fn := range rules.Validators {
		messages = append(messages, fn(value)...)
	}

	blank := isBlank(value)

	if !blank {
		if rules.Format != nil && !rules.Format.MatchString(text(value)) {
			messages = append(messages, MsgInvalid)
		}
		if rules.Length != nil {
			messages = append(messages, checkLength(rules.Length, value)...)
		}
		if rules.Numericality != nil {
			messages = append(messages, checkNumericality(rules.Numericality, value)...)
		}
	}

	if rules.Presence && blank {
		messages = append(messages, MsgBlank)
	}

	if !blank {
		if rules.Inclusion != nil && !includes(rules.Inclusion, value) {
			messages = append(messages, MsgInclusion)
		}
		if msg := checkKind(rules.Kind, value); msg != "" {
			messages = append(messages, msg)
		}
	}

	return messages, nil
}

func checkLength(rule *attribute.LengthRule, value any) []string {
	n := length(value)

	var messages []string
	if rule.Minimum != nil && n < *rule.Minimum {
		messages = append(messages, fmt.Sprintf("is too short (minimum is %d %s)", *rule.Minimum, characters(*rule.Minimum)))
	}
	if rule.Maximum != nil && n > *rule.Maximum {
		messages = append(messages, fmt.Sprintf("is too long (maximum is %d %s)", *rule.Maximum, characters(*rule.Maximum)))
	}
	return messages
}

func characters(n int) string {
	if n == 1 {
		return "character"
	}
	return "characters"
}

func checkNumericality(rule *attribute.NumericalityRule, value any) []string {
	n, ok := number(value)
	if !ok {
		return []string{MsgNotANumber}
	}

	var messages []string
	if rule.GreaterThanOrEqualTo != nil && n < *rule.GreaterThanOrEqualTo {
		messages = append(messages, "must be greater than or equal to "+formatNumber(*rule.GreaterThanOrEqualTo))
	}
	if rule.LessThanOrEqualTo != nil && n > *rule.LessThanOrEqualTo {
		messages = append(messages, "must be less than or equal to "+formatNumber(*rule.LessThanOrEqualTo))
	}
	return messages
}

func checkKind(kind *attribute.Kind, value any) string {
	s, ok := value.(string)
	if kind == nil || !ok {
		return ""
	}

	switch {
	case kind.Is(attribute.TypeURI):
		if !validURI(s) {
			return MsgInvalidURI
		}
	case kind.Is(attribute.TypeIPAddress):
		if _, err := netip.ParseAddr(s); err != nil {
			return MsgInvalidIP
		}
	case kind.Is(attribute.TypeUUID):
		if _, err := uuid.Parse(s); err != nil {
			return MsgInvalidUUID
		}
	}
	return ""
}

func validURI(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	if host := u.Hostname(); host != "" {
		if _, err := netip.ParseAddr(host); err == nil {
			return true
		}
		if _, err := idna.Lookup.ToASCII(host); err != nil {
			return false
		}
	}
	return true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func number(value any) (float64, bool) {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case bool:
		return 0, false
	}

	f, err := cast.ToFloat64E(value)
	return f, err == nil
}

func length(value any) int {
	if s, ok := value.(string); ok {
		return utf8.RuneCountInString(s)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
		return rv.Len()
	}
	return utf8.RuneCountInString(text(value))
}

func text(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// isBlank mirrors Rails blank?: nil, false, whitespace-only strings and
// empty collections.
func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return strings.TrimSpace(v) == ""
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func includes(set []any, value any) bool {
	for _, candidate := range set {
		if equal(candidate, value) {
			return true
		}
	}
	return false
}

func equal(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		x, _ := number(a)
		y, _ := number(b)
		return x == y
	}
	return reflect.DeepEqual(a, b)
}
