package runtime

import (
	"atlas-lang/internal/span"
	"fmt"
)

// ErrorKind classifies evaluation failures.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota
	UnknownOperator
	UnknownIdentifier
	DuplicateIdentifier
	InvalidLiteral
	InvalidExpression
	InvalidStatement
)

var errorKindNames = [...]string{
	TypeMismatch:        "type mismatch",
	UnknownOperator:     "unknown operator",
	UnknownIdentifier:   "unknown identifier",
	DuplicateIdentifier: "duplicate identifier",
	InvalidLiteral:      "invalid literal",
	InvalidExpression:   "invalid expression",
	InvalidStatement:    "invalid statement",
}

func (k ErrorKind) String() string {
	if k >= 0 && int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// EvalError is a fatal evaluation error. Name is set for identifier errors.
type EvalError struct {
	Kind   ErrorKind
	Name   string
	Detail string
	Span   span.Span
}

func (e *EvalError) Error() string {
	msg := e.Kind.String()
	switch {
	case e.Detail != "":
		msg += ": " + e.Detail
	case e.Name != "":
		msg += ": '" + e.Name + "'"
	}
	if e.Span.IsZero() {
		return "runtime error: " + msg
	}
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, msg)
}

// Is matches sentinels by kind. A duplicate declaration also matches
// ErrUnknownIdentifier since both belong to the identifier family.
func (e *EvalError) Is(target error) bool {
	t, ok := target.(*EvalError)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return e.Kind == DuplicateIdentifier && t.Kind == UnknownIdentifier
}

// Sentinels for errors.Is.
var (
	ErrTypeMismatch        = &EvalError{Kind: TypeMismatch}
	ErrUnknownOperator     = &EvalError{Kind: UnknownOperator}
	ErrUnknownIdentifier   = &EvalError{Kind: UnknownIdentifier}
	ErrDuplicateIdentifier = &EvalError{Kind: DuplicateIdentifier}
	ErrInvalidLiteral      = &EvalError{Kind: InvalidLiteral}
	ErrInvalidExpression   = &EvalError{Kind: InvalidExpression}
	ErrInvalidStatement    = &EvalError{Kind: InvalidStatement}
)

func evalErr(kind ErrorKind, s span.Span, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Detail: fmt.Sprintf(format, args...), Span: s}
}

func identErr(kind ErrorKind, name string, s span.Span) *EvalError {
	return &EvalError{Kind: kind, Name: name, Span: s}
}

// withSpan fills in a location on errors raised below the AST level.
func withSpan(err error, s span.Span) error {
	if e, ok := err.(*EvalError); ok && e.Span.IsZero() && !s.IsZero() {
		cp := *e
		cp.Span = s
		return &cp
	}
	return err
}

var noSpan span.Span
