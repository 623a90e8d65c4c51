package runtime

import (
	"atlas-lang/internal/ast"
	"math"
)

// ApplyBinary applies op to two resolved operands.
func ApplyBinary(op ast.BinaryOp, l, r Value) (Value, error) {
	switch op {
	case ast.Add:
		return add(l, r)
	case ast.Sub, ast.Mul, ast.Div, ast.Mod:
		a, b, ok := numbers(l, r)
		if !ok {
			return nil, mismatch(op, l, r)
		}
		return arith(op, a, b), nil
	case ast.Eq, ast.Neq:
		eq, ok := equal(l, r)
		if !ok {
			return nil, mismatch(op, l, r)
		}
		if op == ast.Neq {
			eq = !eq
		}
		return BoolVal(eq), nil
	case ast.Gt, ast.Gte, ast.Lt, ast.Lte:
		a, b, ok := numbers(l, r)
		if !ok {
			return nil, mismatch(op, l, r)
		}
		return BoolVal(compare(op, a, b)), nil
	default:
		return nil, evalErr(UnknownOperator, noSpan, "unknown binary operator %s", op)
	}
}

// ApplyUnary applies op to a resolved operand.
func ApplyUnary(op ast.UnaryOp, v Value) (Value, error) {
	if op != ast.Negate {
		return nil, evalErr(UnknownOperator, noSpan, "unknown unary operator %s", op)
	}
	n, ok := v.(NumberVal)
	if !ok {
		return nil, evalErr(TypeMismatch, noSpan, "cannot negate %s", v.Kind())
	}
	return -n, nil
}

// add sums numbers, concatenates strings, and concatenates the textual form
// of a number with a string in either order.
func add(l, r Value) (Value, error) {
	switch lv := l.(type) {
	case NumberVal:
		switch rv := r.(type) {
		case NumberVal:
			return lv + rv, nil
		case StringVal:
			return StringVal(lv.String() + string(rv)), nil
		}
	case StringVal:
		switch rv := r.(type) {
		case NumberVal:
			return StringVal(string(lv) + rv.String()), nil
		case StringVal:
			return lv + rv, nil
		}
	}
	return nil, mismatch(ast.Add, l, r)
}

func numbers(l, r Value) (float64, float64, bool) {
	a, ok := l.(NumberVal)
	if !ok {
		return 0, 0, false
	}
	b, ok := r.(NumberVal)
	if !ok {
		return 0, 0, false
	}
	return float64(a), float64(b), true
}

// arith follows IEEE 754: division by zero yields an infinity or NaN.
func arith(op ast.BinaryOp, a, b float64) Value {
	switch op {
	case ast.Sub:
		return NumberVal(a - b)
	case ast.Mul:
		return NumberVal(a * b)
	case ast.Div:
		return NumberVal(a / b)
	default: // ast.Mod
		return NumberVal(math.Mod(a, b))
	}
}

func compare(op ast.BinaryOp, a, b float64) bool {
	switch op {
	case ast.Gt:
		return a > b
	case ast.Gte:
		return a >= b
	case ast.Lt:
		return a < b
	default: // ast.Lte
		return a <= b
	}
}

// equal is defined only for same-kind Number, String and Boolean pairs.
func equal(l, r Value) (bool, bool) {
	switch lv := l.(type) {
	case NumberVal:
		if rv, ok := r.(NumberVal); ok {
			return lv == rv, true
		}
	case StringVal:
		if rv, ok := r.(StringVal); ok {
			return lv == rv, true
		}
	case BoolVal:
		if rv, ok := r.(BoolVal); ok {
			return lv == rv, true
		}
	}
	return false, false
}

func mismatch(op ast.BinaryOp, l, r Value) *EvalError {
	return evalErr(TypeMismatch, noSpan, "cannot apply '%s' to %s and %s", op, l.Kind(), r.Kind())
}
