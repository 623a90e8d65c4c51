package runtime

import (
	"atlas-lang/internal/ast"
	"atlas-lang/internal/span"
	"fmt"
	"io"
	"log/slog"
	"math"
)

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks statement trees against a single Environment.
// It is not safe for concurrent use: scope tags are only unique along the
// current call chain.
type Interpreter struct {
	env    *Environment
	output io.Writer
	logger *slog.Logger
}

// NewInterpreter creates an interpreter that prints to output.
// A nil logger discards all records.
func NewInterpreter(output io.Writer, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Interpreter{
		env:    NewEnvironment(),
		output: output,
		logger: logger,
	}
}

// Run evaluates a whole program at scope 0. Every binding is evicted on return.
func (i *Interpreter) Run(file *ast.File) error {
	return i.Evaluate(file.Body, 0)
}

// Exec runs top-level statements at scope 0 without evicting it afterwards,
// so bindings survive across calls. Used by the REPL.
func (i *Interpreter) Exec(file *ast.File) error {
	for _, stmt := range file.Body {
		if err := i.execStmt(stmt, 0); err != nil {
			return err
		}
	}
	return nil
}

// Env returns the interpreter's environment.
func (i *Interpreter) Env() *Environment {
	return i.env
}

// Reset drops every binding.
func (i *Interpreter) Reset() {
	i.env = NewEnvironment()
}

// ============================================================
// Statement execution
// ============================================================

// Evaluate executes stmts in order at the given scope. Bindings tagged with
// scope are evicted exactly once before returning, on success or failure.
func (i *Interpreter) Evaluate(stmts []ast.Stmt, scope ScopeTag) error {
	i.logger.Debug("enter scope", slog.Uint64("scope", uint64(scope)))
	defer func() {
		n := i.env.Evict(scope)
		i.logger.Debug("evict scope",
			slog.Uint64("scope", uint64(scope)),
			slog.Int("evicted", n),
			slog.Int("live", i.env.Len()))
	}()

	for _, stmt := range stmts {
		if err := i.execStmt(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execStmt(stmt ast.Stmt, scope ScopeTag) error {
	switch s := stmt.(type) {
	case *ast.PrintStmt:
		return i.execPrint(s)
	case *ast.IfStmt:
		return i.execIf(s, scope)
	case *ast.VarDeclStmt:
		return i.execVarDecl(s, scope)
	case *ast.WhileStmt:
		return i.execWhile(s, scope)
	case *ast.AssignStmt:
		return i.execAssign(s)
	case nil:
		return evalErr(InvalidStatement, noSpan, "missing statement")
	default:
		return evalErr(InvalidStatement, stmt.GetSpan(), "unhandled statement type: %T", stmt)
	}
}

func (i *Interpreter) execPrint(s *ast.PrintStmt) error {
	val, err := i.evalResolved(s.Expr)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(i.output, val.String()); err != nil {
		return fmt.Errorf("print at %s: %w", s.Span.Start, err)
	}
	return nil
}

func (i *Interpreter) execIf(s *ast.IfStmt, scope ScopeTag) error {
	cond, err := i.condition(s.Condition, s.Span)
	if err != nil {
		return err
	}
	if cond {
		return i.Evaluate(s.Then, scope+1)
	}
	if s.Else != nil {
		return i.Evaluate(s.Else, scope+1)
	}
	return nil
}

// execWhile has no iteration cap; an always-true condition never returns.
func (i *Interpreter) execWhile(s *ast.WhileStmt, scope ScopeTag) error {
	for {
		cond, err := i.condition(s.Condition, s.Span)
		if err != nil {
			return err
		}
		if !cond {
			return nil
		}
		if err := i.Evaluate(s.Body, scope+1); err != nil {
			return err
		}
	}
}

func (i *Interpreter) execVarDecl(s *ast.VarDeclStmt, scope ScopeTag) error {
	var val Value = NullVal{}
	if s.Init != nil {
		v, err := i.evalResolved(s.Init)
		if err != nil {
			return err
		}
		val = v
	}

	if !Accepts(s.Type, val.Kind()) {
		return &EvalError{
			Kind:   TypeMismatch,
			Name:   s.Name,
			Detail: fmt.Sprintf("cannot initialize '%s' of type %s with %s", s.Name, s.Type, val.Kind()),
			Span:   s.Span,
		}
	}
	if s.Type == ast.Int {
		val = NumberVal(truncInt(float64(val.(NumberVal))))
	}

	if err := i.env.Declare(s.Name, s.Type, val, scope); err != nil {
		return withSpan(err, s.Span)
	}
	i.logger.Debug("declare",
		slog.String("name", s.Name),
		slog.String("type", s.Type.String()),
		slog.Uint64("scope", uint64(scope)))
	return nil
}

func (i *Interpreter) execAssign(s *ast.AssignStmt) error {
	val, err := i.evalResolved(s.Value)
	if err != nil {
		return err
	}
	if err := i.env.Assign(s.Name, val); err != nil {
		return withSpan(err, s.Span)
	}
	return nil
}

// condition evaluates a branch or loop test, which must be Boolean.
func (i *Interpreter) condition(expr ast.Expr, s span.Span) (bool, error) {
	val, err := i.evalResolved(expr)
	if err != nil {
		return false, err
	}
	b, ok := val.(BoolVal)
	if !ok {
		return false, evalErr(InvalidExpression, s, "condition must be Boolean, got %s", val.Kind())
	}
	return bool(b), nil
}

// truncInt converts a declared Int initializer the way a saturating
// float-to-int64 cast does: toward zero, NaN to 0, clamped at the int64 range.
func truncInt(n float64) float64 {
	switch {
	case math.IsNaN(n):
		return 0
	case n >= math.MaxInt64:
		return float64(math.MaxInt64)
	case n <= math.MinInt64:
		return float64(math.MinInt64)
	}
	return math.Trunc(n)
}

// ============================================================
// Expression evaluation
// ============================================================

// EvalExpr evaluates expr. A bare identifier is looked up immediately;
// identifiers that are direct operands of an operator are deferred to the
// operator, so the result here is never a DeferredIdent.
func (i *Interpreter) EvalExpr(expr ast.Expr) (EvalValue, error) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return NumberVal(e.Value), nil
	case *ast.StringLiteral:
		return StringVal(e.Value), nil
	case *ast.BoolLiteral:
		return BoolVal(e.Value), nil
	case *ast.IdentExpr:
		v, err := i.lookup(e.Name, e.Span)
		if err != nil {
			return nil, err
		}
		return v, nil
	case *ast.BinaryExpr:
		return i.evalBinary(e)
	case *ast.UnaryExpr:
		return i.evalUnary(e)
	case nil:
		return nil, evalErr(InvalidExpression, noSpan, "missing expression")
	default:
		return nil, evalErr(InvalidExpression, expr.GetSpan(), "unhandled expression type: %T", expr)
	}
}

// evalResolved evaluates expr and resolves any deferred identifier.
func (i *Interpreter) evalResolved(expr ast.Expr) (Value, error) {
	v, err := i.EvalExpr(expr)
	if err != nil {
		return nil, err
	}
	return i.resolve(v)
}

// evalOperand evaluates an operator operand, deferring identifier lookup.
func (i *Interpreter) evalOperand(expr ast.Expr) (EvalValue, error) {
	if id, ok := expr.(*ast.IdentExpr); ok {
		return DeferredIdent{Name: id.Name, Span: id.Span}, nil
	}
	return i.EvalExpr(expr)
}

func (i *Interpreter) resolve(v EvalValue) (Value, error) {
	switch v := v.(type) {
	case Value:
		return v, nil
	case DeferredIdent:
		return i.lookup(v.Name, v.Span)
	default:
		return nil, evalErr(InvalidExpression, noSpan, "unresolvable operand %T", v)
	}
}

func (i *Interpreter) lookup(name string, s span.Span) (Value, error) {
	v, ok := i.env.Lookup(name)
	if !ok {
		return nil, identErr(UnknownIdentifier, name, s)
	}
	return v, nil
}

// evalBinary evaluates both operands, then resolves them left to right and
// dispatches on the resolved kinds. Literal, nested and identifier operands
// are accepted on either side.
func (i *Interpreter) evalBinary(e *ast.BinaryExpr) (EvalValue, error) {
	left, err := i.evalOperand(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalOperand(e.Right)
	if err != nil {
		return nil, err
	}

	l, err := i.resolve(left)
	if err != nil {
		return nil, err
	}
	r, err := i.resolve(right)
	if err != nil {
		return nil, err
	}

	v, err := ApplyBinary(e.Op, l, r)
	if err != nil {
		return nil, withSpan(err, e.Span)
	}
	return v, nil
}

func (i *Interpreter) evalUnary(e *ast.UnaryExpr) (EvalValue, error) {
	operand, err := i.evalOperand(e.Operand)
	if err != nil {
		return nil, err
	}
	v, err := i.resolve(operand)
	if err != nil {
		return nil, err
	}
	out, err := ApplyUnary(e.Op, v)
	if err != nil {
		return nil, withSpan(err, e.Span)
	}
	return out, nil
}
