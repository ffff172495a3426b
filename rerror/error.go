// Package rerror defines the error taxonomy the regex compiler reports:
// a set of sentinel Kind values plus a wrapping Error struct that adds
// the byte offset the error occurred at. Callers compare kinds with
// errors.Is.
package rerror

import (
	"errors"
	"fmt"
)

// Kind identifies which error occurred, independent of where in the
// regex it occurred. Kind values are sentinel errors so callers can
// write errors.Is(err, rerror.InvalidEscape).
type Kind = error

// Syntax errors.
var (
	EmptyClass           Kind = errors.New("empty character class")
	EmptyExpression      Kind = errors.New("empty expression")
	InvalidAnchor        Kind = errors.New("invalid anchor")
	InvalidBackreference Kind = errors.New("invalid backreference")
	InvalidClass         Kind = errors.New("invalid character class")
	InvalidClassRange    Kind = errors.New("invalid character class range")
	InvalidCollating     Kind = errors.New("invalid collating element")
	InvalidEscape        Kind = errors.New("invalid escape")
	InvalidModifier      Kind = errors.New("invalid modifier")
	InvalidQuantifier    Kind = errors.New("invalid quantifier")
	InvalidRepeat        Kind = errors.New("invalid repeat range")
	InvalidSyntax        Kind = errors.New("invalid syntax")
	MismatchedBraces     Kind = errors.New("mismatched braces")
	MismatchedBrackets   Kind = errors.New("mismatched brackets")
	MismatchedParens     Kind = errors.New("mismatched parentheses")
	MismatchedQuotation  Kind = errors.New("mismatched quotation")
)

// Limit errors.
var (
	ExceedsLength Kind = errors.New("regex exceeds maximum length")
	ExceedsLimits Kind = errors.New("exceeds internal field limits")
)

// Semantic errors.
var (
	UndefinedName Kind = errors.New("undefined name")
	UnknownOption Kind = errors.New("unknown option")
)

// Error wraps a Kind with the byte offset into the regex where it was
// detected, so a caller can render a caret diagnostic.
type Error struct {
	Kind   Kind
	Offset uint32
}

// New constructs an Error of the given kind at offset.
func New(kind Kind, offset uint32) *Error {
	return &Error{Kind: kind, Offset: offset}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%v at character %d", e.Kind, e.Offset)
}

// Unwrap exposes Kind to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Is reports whether target is the same Kind as e, so
// errors.Is(err, rerror.InvalidEscape) works directly against an *Error.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}
