package iconset

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// iconNamePattern is the naming rule for prefixes, icons and aliases:
// lower-case alphanumeric words joined by single dashes.
var iconNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// lintValidate checks records against the struct tags below.
var lintValidate *validator.Validate

func init() {
	lintValidate = validator.New(validator.WithRequiredStructEnabled())
	lintValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	_ = lintValidate.RegisterValidation("iconname", func(fl validator.FieldLevel) bool {
		return iconNamePattern.MatchString(fl.Field().String())
	})
}

type propsRule struct {
	Width  *float64 `json:"width" validate:"omitnil,gt=0"`
	Height *float64 `json:"height" validate:"omitnil,gt=0"`
	Rotate *int     `json:"rotate" validate:"omitnil,min=0,max=3"`
}

type headerRule struct {
	Prefix string `json:"prefix" validate:"required,iconname"`
	Icons  int    `json:"icons" validate:"gt=0"`
	propsRule
}

type iconRule struct {
	Name string `json:"name" validate:"iconname"`
	Body string `json:"body" validate:"required"`
	propsRule
}

type aliasRule struct {
	Name   string `json:"name" validate:"iconname"`
	Parent string `json:"parent" validate:"required,nefield=Name"`
	propsRule
}

type charRule struct {
	Code   string `json:"code" validate:"required,hexadecimal"`
	Target string `json:"target" validate:"required"`
}

// Problem is one rule a record breaks. Path locates the offending value,
// e.g. "icons/home.width".
type Problem struct {
	Path  string
	Rule  string
	Param string
}

func (p Problem) String() string {
	if p.Param != "" {
		return fmt.Sprintf("%s: %s=%s", p.Path, p.Rule, p.Param)
	}
	return fmt.Sprintf("%s: %s", p.Path, p.Rule)
}

// Lint checks names, bodies and numeric ranges of the record. It does not
// follow references; ExportReport does that.
func (r Record) Lint() []Problem {
	var out []Problem
	out = appendProblems(out, "", headerRule{
		Prefix:    r.Prefix,
		Icons:     len(r.Icons),
		propsRule: rangeRule(r.Defaults),
	})
	for _, e := range r.Icons {
		out = appendProblems(out, "icons/"+e.Name, iconRule{
			Name:      e.Name,
			Body:      strings.TrimSpace(e.Value.Body),
			propsRule: rangeRule(e.Value.Props),
		})
	}
	for _, e := range r.Aliases {
		out = appendProblems(out, "aliases/"+e.Name, aliasRule{
			Name:      e.Name,
			Parent:    e.Value.Parent,
			propsRule: rangeRule(e.Value.Props),
		})
	}
	for _, e := range r.Chars {
		out = appendProblems(out, "chars/"+e.Name, charRule{Code: e.Name, Target: e.Value})
	}
	return out
}

func rangeRule(p Props) propsRule {
	return propsRule{Width: p.Width, Height: p.Height, Rotate: p.Rotate}
}

func appendProblems(out []Problem, path string, v any) []Problem {
	err := lintValidate.Struct(v)
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) {
		return out
	}
	for _, fe := range fields {
		p := fe.Field()
		if path != "" {
			p = path + "." + p
		}
		out = append(out, Problem{Path: p, Rule: fe.Tag(), Param: fe.Param()})
	}
	return out
}
