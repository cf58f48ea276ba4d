package rbac

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an access-control failure.
type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindUnknownRole     Kind = "unknown_role"
	KindValidation      Kind = "validation"
)

// FieldIssue names one invalid input field of an administrative mutation.
type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Error is the single error type produced at the access boundary.
type Error struct {
	Kind   Kind
	Reason string
	Issues []FieldIssue
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	for i, issue := range e.Issues {
		if i == 0 {
			b.WriteString(" (")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s %s", issue.Field, issue.Reason)
		if i == len(e.Issues)-1 {
			b.WriteString(")")
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Reason: "authentication required"}
	ErrForbidden       = &Error{Kind: KindForbidden, Reason: "insufficient permissions"}
	ErrUnknownRole     = &Error{Kind: KindUnknownRole, Reason: "role is not registered"}
	ErrValidation      = &Error{Kind: KindValidation, Reason: "invalid input"}
)

func Unauthenticated(reason string, err error) *Error {
	return &Error{Kind: KindUnauthenticated, Reason: reason, Err: err}
}

func Forbidden(reason string) *Error {
	return &Error{Kind: KindForbidden, Reason: reason}
}

// UnknownRole reports registry/data drift for a stored role key.
func UnknownRole(key string) *Error {
	return &Error{Kind: KindUnknownRole, Reason: fmt.Sprintf("role %q is not registered", key)}
}

// Invalid builds a validation error from collected field issues.
func Invalid(issues ...FieldIssue) *Error {
	return &Error{Kind: KindValidation, Reason: "invalid input", Issues: issues}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsUnauthenticated(err error) bool { return KindOf(err) == KindUnauthenticated }
func IsForbidden(err error) bool       { return KindOf(err) == KindForbidden }
func IsUnknownRole(err error) bool     { return KindOf(err) == KindUnknownRole }
func IsValidation(err error) bool      { return KindOf(err) == KindValidation }

// IssuesOf returns the field issues carried by a validation error.
func IssuesOf(err error) []FieldIssue {
	var e *Error
	if errors.As(err, &e) {
		return e.Issues
	}
	return nil
}
