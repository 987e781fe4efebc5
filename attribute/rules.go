package attribute

import (
	"math"
	"regexp"
)

// LengthRule bounds the length of a value.
type LengthRule struct {
	Minimum *int
	Maximum *int
}

// NumericalityRule bounds a numeric value.
type NumericalityRule struct {
	GreaterThanOrEqualTo *float64
	LessThanOrEqualTo    *float64
}

// Rules is the declarative rule set of an attribute, handed to a rule
// evaluator together with the value. Format, length, numericality and
// inclusion skip blank values.
type Rules struct {
	Kind *Kind

	Format       *regexp.Regexp
	Length       *LengthRule
	Numericality *NumericalityRule

	If     any
	Unless any

	AllowNil   bool
	Presence   bool
	Inclusion  []any
	Validators []ValidatorFunc
}

// Empty reports whether the rule set constrains nothing.
func (r Rules) Empty() bool {
	return r.Format == nil &&
		r.Length == nil &&
		r.Numericality == nil &&
		!r.Presence &&
		r.Inclusion == nil &&
		len(r.Validators) == 0
}

// Rules computes the rule set from the attribute options. String kinds map
// Match, Min, Max and Between to format and length rules; number kinds map
// Min and Max to numericality.
func (a *Attribute) Rules() Rules {
	rules := Rules{
		Kind:       a.kind,
		If:         a.opts.If,
		Unless:     a.opts.Unless,
		AllowNil:   a.opts.Null,
		Presence:   a.opts.Required,
		Inclusion:  a.In(),
		Validators: a.opts.Validators,
	}

	switch {
	case a.kind.Is(TypeString):
		rules.Format = a.opts.Match
		if length := a.lengthRule(); length != nil {
			rules.Length = length
		}
	case a.kind.Is(TypeNumber):
		if a.opts.Min != nil || a.opts.Max != nil {
			rules.Numericality = &NumericalityRule{
				GreaterThanOrEqualTo: a.opts.Min,
				LessThanOrEqualTo:    a.opts.Max,
			}
		}
	}

	return rules
}

func (a *Attribute) lengthRule() *LengthRule {
	if a.opts.Min == nil && a.opts.Max == nil && a.opts.Range == nil {
		return nil
	}

	rule := &LengthRule{}
	if a.opts.Min != nil {
		rule.Minimum = intPtr(*a.opts.Min)
	}
	if a.opts.Max != nil {
		rule.Maximum = intPtr(*a.opts.Max)
	}
	if r := a.opts.Range; r != nil {
		rule.Minimum = intPtr(r.Min)
		rule.Maximum = intPtr(r.Max)
	}
	return rule
}

func intPtr(v float64) *int {
	i := int(math.Round(v))
	return &i
}
