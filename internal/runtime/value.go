// Package runtime implements the atlas evaluator: runtime values, the
// scope-tagged Environment, and the statement/expression interpreter.
package runtime

import (
	"atlas-lang/internal/ast"
	"atlas-lang/internal/span"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the runtime shape of a Value.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBoolean
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindNull:
		return "Null"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// EvalValue is the result of evaluating an expression: either a resolved
// Value or a DeferredIdent still waiting for an Environment lookup.
type EvalValue interface {
	evalValue()
}

// Value is a fully resolved runtime value. The set of implementations is closed.
type Value interface {
	EvalValue
	Kind() Kind
	String() string
}

// NumberVal is the single numeric representation; Int and Float both store it.
type NumberVal float64

// StringVal is a string value.
type StringVal string

// BoolVal is a boolean value.
type BoolVal bool

// NullVal is the absence of a value.
type NullVal struct{}

func (NumberVal) evalValue() {}
func (StringVal) evalValue() {}
func (BoolVal) evalValue()   {}
func (NullVal) evalValue()   {}

func (NumberVal) Kind() Kind { return KindNumber }
func (StringVal) Kind() Kind { return KindString }
func (BoolVal) Kind() Kind   { return KindBoolean }
func (NullVal) Kind() Kind   { return KindNull }

func (v NumberVal) String() string { return FormatNumber(float64(v)) }
func (v StringVal) String() string { return string(v) }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }
func (NullVal) String() string     { return "null" }

// DeferredIdent names a variable used directly as an operator operand.
// The operator resolves it when it consumes the operand.
type DeferredIdent struct {
	Name string
	Span span.Span
}

func (DeferredIdent) evalValue() {}

// FormatNumber renders n in the shortest decimal form that round-trips,
// never using exponent notation.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Accepts reports whether a value of kind k may be stored under declared type t.
func Accepts(t ast.DataType, k Kind) bool {
	switch t {
	case ast.Int, ast.Float:
		return k == KindNumber
	case ast.String:
		return k == KindString
	case ast.Boolean:
		return k == KindBoolean
	default:
		return false
	}
}
