package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaViolation reports content that does not fit the declared model.
	ErrSchemaViolation = errors.New("schema: schema violation")
	// ErrUnexpectedElement reports a declared child in a position where none of the
	// allowed alternatives may appear any more. It also matches ErrSchemaViolation.
	ErrUnexpectedElement = errors.New("schema: unexpected element")
	// ErrInvalidAttributeValue reports a value its codec could not decode.
	ErrInvalidAttributeValue = errors.New("schema: invalid attribute value")
	// ErrInvalidSchema reports a Node whose content model cannot be compiled.
	ErrInvalidSchema = errors.New("schema: invalid schema")
)

// ParseError describes one problem found while mapping a document. Path is the
// slash separated chain of local names from the root to the offending element.
type ParseError struct {
	Kind     error
	Path     string
	Field    string
	Message  string
	Expected []string
	Line     int
	Column   int
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " [%s]", e.Field)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, " (expected: %s)", strings.Join(e.Expected, ", "))
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

func (e *ParseError) Is(target error) bool {
	return e.Kind == ErrUnexpectedElement && target == ErrSchemaViolation
}

// ParseErrors collects every problem found by a lenient parse or by Validate.
type ParseErrors []*ParseError

func (l ParseErrors) Error() string {
	switch len(l) {
	case 0:
		return "schema: no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
	}
}

func (l ParseErrors) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// AsParseErrors extracts the individual problems from an error returned by Parse or
// Validate.
func AsParseErrors(err error) ([]*ParseError, bool) {
	if err == nil {
		return nil, false
	}
	var list ParseErrors
	if errors.As(err, &list) {
		return list, true
	}
	var single *ParseError
	if errors.As(err, &single) {
		return []*ParseError{single}, true
	}
	return nil, false
}
