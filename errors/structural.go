package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies the kind of structural failure found in a document.
type ErrorCode string

const (
	// ErrParse indicates the document could not be turned into a tree.
	ErrParse ErrorCode = "svg-parse"
	// ErrNoRoot indicates the tree has no root element.
	ErrNoRoot ErrorCode = "svg-no-root"

	// ErrDuplicateID indicates two elements claim the same identifier.
	ErrDuplicateID ErrorCode = "svg-duplicate-id"
	// ErrReusableMissingID indicates a reusable element has no id attribute.
	ErrReusableMissingID ErrorCode = "svg-reusable-missing-id"
	// ErrNestedReusable indicates an element with its own reusable registration
	// inheriting another one from its parent.
	ErrNestedReusable ErrorCode = "svg-nested-reusable"
	// ErrInvalidHref indicates an href value that is not a local #id reference.
	ErrInvalidHref ErrorCode = "svg-invalid-href"
	// ErrMissingHref indicates a reference element without its href attribute.
	ErrMissingHref ErrorCode = "svg-missing-href"
)

// Structural describes a fatal problem that makes a document unanalyzable.
//
//nolint:errname // public API name uses the domain term.
type Structural struct {
	Code    string
	Message string
	ID      string
	Tag     string
	Index   int
}

// Error formats the failure with its code, message and element context.
func (s *Structural) Error() string {
	if s == nil {
		return "structural <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", s.Code, s.Message))
	if s.Tag != "" {
		if s.Index > 0 {
			b.WriteString(fmt.Sprintf(" at <%s> #%d", s.Tag, s.Index))
		} else {
			b.WriteString(fmt.Sprintf(" at <%s>", s.Tag))
		}
	}
	if s.ID != "" {
		b.WriteString(fmt.Sprintf(" (id: %s)", s.ID))
	}
	return b.String()
}

// Is reports whether target is a Structural error with the same code.
func (s *Structural) Is(target error) bool {
	var other *Structural
	if !errors.As(target, &other) || other == nil {
		return false
	}
	return other.Code == s.Code
}

// NewStructural builds a Structural error with a code and message.
func NewStructural(code ErrorCode, msg string) *Structural {
	return &Structural{Code: string(code), Message: msg}
}

// NewStructuralf formats a message and builds a Structural error.
func NewStructuralf(code ErrorCode, format string, args ...any) *Structural {
	return NewStructural(code, fmt.Sprintf(format, args...))
}

// At attaches element context and returns the receiver.
func (s *Structural) At(tag string, index int) *Structural {
	s.Tag = tag
	s.Index = index
	return s
}

// WithID attaches the offending identifier and returns the receiver.
func (s *Structural) WithID(id string) *Structural {
	s.ID = id
	return s
}

// AsStructural extracts a Structural error from err.
func AsStructural(err error) (*Structural, bool) {
	if err == nil {
		return nil, false
	}
	var s *Structural
	if errors.As(err, &s) && s != nil {
		return s, true
	}
	return nil, false
}

// HasCode reports whether err carries a Structural error with code.
func HasCode(err error, code ErrorCode) bool {
	s, ok := AsStructural(err)
	return ok && s.Code == string(code)
}
