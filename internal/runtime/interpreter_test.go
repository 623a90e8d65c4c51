package runtime

import (
	"atlas-lang/internal/ast"
	"atlas-lang/internal/lexer"
	"atlas-lang/internal/parser"
	"bytes"
	"errors"
	"strings"
	"testing"
)

// parseSource lexes and parses source, failing the test on any diagnostic.
func parseSource(t *testing.T, source string) *ast.File {
	t.Helper()
	tokens, lexDiags := lexer.New(source, "test.atlas").Tokenize()
	if len(lexDiags) > 0 {
		t.Fatalf("lex errors: %v", lexDiags)
	}
	file, parseDiags := parser.New(tokens).ParseFile()
	if len(parseDiags) > 0 {
		t.Fatalf("parse errors: %v", parseDiags)
	}
	return file
}

// runSource parses and executes source, returning captured stdout and any error.
func runSource(t *testing.T, source string) (string, error) {
	t.Helper()
	file := parseSource(t, source)
	var buf bytes.Buffer
	err := NewInterpreter(&buf, nil).Run(file)
	return buf.String(), err
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, err := runSource(t, source)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if out != expected {
		t.Errorf("output mismatch:\nexpected: %q\ngot:      %q", expected, out)
	}
}

func expectError(t *testing.T, source string, target error, contains string) {
	t.Helper()
	_, err := runSource(t, source)
	if err == nil {
		t.Fatalf("expected error %v, got nil", target)
	}
	if !errors.Is(err, target) {
		t.Errorf("expected %v, got: %v", target, err)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Errorf("expected error containing %q, got: %v", contains, err)
	}
}

// ---- Scenarios ----

func TestAddFloats(t *testing.T) {
	expectOutput(t, `let x: Float = 2.0; let y: Float = 3.0; print x + y;`, "5\n")
}

func TestConcatStringAndNumberIdentifiers(t *testing.T) {
	expectOutput(t, `let s: String = "a"; let n: Float = 1.0; print s + n;`, "a1\n")
}

func TestIfElseSingleStatements(t *testing.T) {
	expectOutput(t, `if (1 > 2) then print "no"; else print "yes";`, "yes\n")
}

func TestIntTruncatesTowardZero(t *testing.T) {
	expectOutput(t, `let i: Int = 3.7; print i;`, "3\n")
	expectOutput(t, `let j: Int = -3.7; print j;`, "-3\n")
}

// ---- Printing ----

func TestPrintLiterals(t *testing.T) {
	expectOutput(t, `
print 42
print 2.5
print "hello"
print true
print false
`, "42\n2.5\nhello\ntrue\nfalse\n")
}

func TestPrintDivisionByZero(t *testing.T) {
	expectOutput(t, `
print 1 / 0
print -1 / 0
print 0 / 0
print 5 % 0
`, "inf\n-inf\nNaN\nNaN\n")
}

// ---- Arithmetic ----

func TestArithmetic(t *testing.T) {
	expectOutput(t, `print 1 + 2 * 3`, "7\n")
	expectOutput(t, `print (1 + 2) * 3`, "9\n")
	expectOutput(t, `print 10 / 4`, "2.5\n")
	expectOutput(t, `print 10 % 3`, "1\n")
	expectOutput(t, `print -7 % 3`, "-1\n")
	expectOutput(t, `print 0.1 + 0.2`, "0.30000000000000004\n")
}

func TestOperandShapes(t *testing.T) {
	// literal/literal, identifier/literal, literal/identifier, identifier/identifier
	expectOutput(t, `
let a: Float = 6
let b: Float = 3
print 6 - 3
print a - 3
print 6 - b
print a - b
print -a
print (a + b) * -b
`, "3\n3\n3\n3\n-6\n-27\n")
}

func TestStringConcatenation(t *testing.T) {
	expectOutput(t, `
let s: String = "x"
let n: Int = 2
print "a" + "b"
print "a" + 1
print 1 + "a"
print s + n
print n + s
print s + (n + 1)
print 1.5 + s
`, "ab\na1\n1a\nx2\n2x\nx3\n1.5x\n")
}

func TestComparisons(t *testing.T) {
	expectOutput(t, `
let a: Float = 2
print a > 1
print a >= 2
print 1 < a
print a <= 1
print a == 2
print a != 2
print "x" == "x"
print true != false
`, "true\ntrue\ntrue\nfalse\ntrue\nfalse\ntrue\ntrue\n")
}

func TestTypeMismatches(t *testing.T) {
	cases := []struct {
		name   string
		source string
	}{
		{"bool plus number", `print true + 1`},
		{"string minus number", `print "a" - 1`},
		{"bool times", `let b: Boolean = true; print b * 2`},
		{"string compare", `print "a" < "b"`},
		{"mixed equality", `print 1 == "1"`},
		{"identifier mixed equality", `let s: String = "1"; print s == 1`},
		{"negate string", `let s: String = "a"; print -s`},
		{"negate bool literal", `print -true`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectError(t, tc.source, ErrTypeMismatch, "type mismatch")
		})
	}
}

func TestUnknownIdentifier(t *testing.T) {
	expectError(t, `print y`, ErrUnknownIdentifier, "'y'")
	expectError(t, `print 1 + y`, ErrUnknownIdentifier, "'y'")
	expectError(t, `print -y`, ErrUnknownIdentifier, "'y'")
	expectError(t, `y = 1`, ErrUnknownIdentifier, "'y'")
}

func TestOperandErrorsBeforeDeferredLookup(t *testing.T) {
	// the unknown left identifier is only looked up after the right operand
	// has been evaluated, so the nested type error wins
	expectError(t, `print y + (1 + true)`, ErrTypeMismatch, "type mismatch")
}

func TestErrorCarriesPosition(t *testing.T) {
	expectError(t, "let a: Float = 1\nprint a + true", ErrTypeMismatch, "runtime error at 2:7")
}

// ---- Declarations and assignment ----

func TestDeclarationTypeChecks(t *testing.T) {
	expectError(t, `let x: Int = "3"`, ErrTypeMismatch, "cannot initialize 'x' of type Int with String")
	expectError(t, `let b: Boolean = 1`, ErrTypeMismatch, "Boolean")
	expectError(t, `let s: String = true`, ErrTypeMismatch, "String")
}

func TestDeclarationWithoutInitializerIsRejected(t *testing.T) {
	for _, typ := range []string{"Int", "Float", "String", "Boolean"} {
		expectError(t, "let x: "+typ, ErrTypeMismatch, "with Null")
	}
}

func TestAssignment(t *testing.T) {
	expectOutput(t, `
let flag: Boolean = false
flag = 1 < 2
print flag
let n: Int = 1
n = 2.5
print n
`, "true\n2.5\n")
}

func TestAssignmentTypeMismatch(t *testing.T) {
	expectError(t, `let flag: Boolean = false; flag = 1`, ErrTypeMismatch, "cannot assign Number to 'flag' of type Boolean")
}

func TestDuplicateDeclaration(t *testing.T) {
	_, err := runSource(t, `let a: Int = 1; let a: Int = 2`)
	if !errors.Is(err, ErrDuplicateIdentifier) {
		t.Fatalf("expected duplicate identifier, got %v", err)
	}
	if !errors.Is(err, ErrUnknownIdentifier) {
		t.Errorf("expected duplicate to match the identifier family, got %v", err)
	}
}

func TestNoShadowingWhileOuterBindingIsLive(t *testing.T) {
	expectError(t, `
let a: Int = 1
if (true) {
  let a: Int = 2
}
`, ErrDuplicateIdentifier, "'a'")
}

// ---- Scopes ----

func TestSiblingBlocksReuseNames(t *testing.T) {
	expectOutput(t, `
if (true) {
  let a: Int = 1
  print a
}
if (true) {
  let a: Int = 2
  print a
}
`, "1\n2\n")
}

func TestBlockBindingsAreEvicted(t *testing.T) {
	expectError(t, `
if (true) {
  let inner: Int = 1
}
print inner
`, ErrUnknownIdentifier, "'inner'")
}

func TestWhileBodyScopeIsFreshEachIteration(t *testing.T) {
	expectOutput(t, `
let i: Int = 0
while (i < 3) {
  let sq: Int = i * i
  print sq
  i = i + 1
}
`, "0\n1\n4\n")
}

func TestOuterAssignmentFromNestedBlock(t *testing.T) {
	expectOutput(t, `
let total: Float = 0
let i: Int = 1
while (i <= 4) {
  if (i % 2 == 0) {
    total = total + i
  } else {
    total = total - i
  }
  i = i + 1
}
print total
`, "2\n")
}

func TestRunEvictsEverything(t *testing.T) {
	file := parseSource(t, `
let a: Int = 1
if (true) { let b: Int = 2 } else { let c: Int = 3 }
`)
	interp := NewInterpreter(&bytes.Buffer{}, nil)
	if err := interp.Run(file); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if n := interp.Env().Len(); n != 0 {
		t.Errorf("expected empty environment, got %d bindings: %v", n, interp.Env().Bindings())
	}
}

func TestFailingBlockStillEvicts(t *testing.T) {
	file := parseSource(t, `
let keep: Int = 1
if (true) {
  let inner: Int = 2
  while (true) {
    let deeper: Int = 3
    print missing
  }
}
`)
	interp := NewInterpreter(&bytes.Buffer{}, nil)
	err := interp.Exec(file)
	if !errors.Is(err, ErrUnknownIdentifier) {
		t.Fatalf("expected unknown identifier, got %v", err)
	}
	bindings := interp.Env().Bindings()
	if len(bindings) != 1 || bindings[0].Name != "keep" {
		t.Errorf("expected only 'keep' to survive, got %v", bindings)
	}
}

func TestExecKeepsGlobalsBetweenCalls(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf, nil)
	if err := interp.Exec(parseSource(t, `let x: Int = 41`)); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if err := interp.Exec(parseSource(t, `x = x + 1; print x`)); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if buf.String() != "42\n" {
		t.Errorf("expected 42, got %q", buf.String())
	}
	interp.Reset()
	if interp.Env().Len() != 0 {
		t.Error("expected Reset to drop bindings")
	}
}

// ---- Conditions ----

func TestConditionMustBeBoolean(t *testing.T) {
	expectError(t, `if (1) { print 1 }`, ErrInvalidExpression, "condition must be Boolean, got Number")
	expectError(t, `let s: String = "x"; while (s) { print 1 }`, ErrInvalidExpression, "got String")
}

func TestWhileFalseNeverRunsBody(t *testing.T) {
	expectOutput(t, `while (false) { print "never" }
print "done"`, "done\n")
}

// stopWriter fails once it has accepted limit writes.
type stopWriter struct {
	limit  int
	writes int
}

var errStop = errors.New("host stopped the program")

func (w *stopWriter) Write(p []byte) (int, error) {
	if w.writes >= w.limit {
		return 0, errStop
	}
	w.writes++
	return len(p), nil
}

func TestWhileTrueHasNoIterationCap(t *testing.T) {
	file := parseSource(t, `
let i: Int = 0
while (true) {
  i = i + 1
  print i
}
`)
	w := &stopWriter{limit: 10000}
	err := NewInterpreter(w, nil).Run(file)
	if !errors.Is(err, errStop) {
		t.Fatalf("expected the loop to run until the host stopped it, got %v", err)
	}
	if w.writes != w.limit {
		t.Errorf("expected %d iterations before the stop, got %d", w.limit, w.writes)
	}
}

// ---- Evaluation properties ----

func TestPrintIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf, nil)
	if err := interp.Exec(parseSource(t, `let a: Int = 1`)); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	before := interp.Env().Bindings()

	stmt := []ast.Stmt{&ast.PrintStmt{Expr: ast.Str("same")}}
	for n := 0; n < 2; n++ {
		if err := interp.Evaluate(stmt, 1); err != nil {
			t.Fatalf("runtime error: %v", err)
		}
	}
	if buf.String() != "same\nsame\n" {
		t.Errorf("expected identical output twice, got %q", buf.String())
	}
	after := interp.Env().Bindings()
	if len(after) != len(before) || after[0] != before[0] {
		t.Errorf("environment changed: before %v, after %v", before, after)
	}
}

func TestEvalExprResolvesBareIdentifier(t *testing.T) {
	interp := NewInterpreter(&bytes.Buffer{}, nil)
	if err := interp.Env().Declare("x", ast.Float, NumberVal(2), 0); err != nil {
		t.Fatal(err)
	}
	v, err := interp.EvalExpr(ast.Ident("x"))
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if _, deferred := v.(DeferredIdent); deferred {
		t.Fatal("bare identifier must not evaluate to a deferred identifier")
	}
	if v != NumberVal(2) {
		t.Errorf("expected 2, got %v", v)
	}
}

func TestEvalExprNullBinding(t *testing.T) {
	interp := NewInterpreter(&bytes.Buffer{}, nil)
	if err := interp.Env().Declare("n", ast.String, NullVal{}, 0); err != nil {
		t.Fatal(err)
	}
	v, err := interp.EvalExpr(ast.Ident("n"))
	if err != nil || v != (NullVal{}) {
		t.Fatalf("expected Null, got %v (%v)", v, err)
	}

	var buf bytes.Buffer
	interp.output = &buf
	if err := interp.Evaluate([]ast.Stmt{&ast.PrintStmt{Expr: ast.Ident("n")}}, 1); err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if buf.String() != "null\n" {
		t.Errorf("expected null, got %q", buf.String())
	}

	_, err = interp.EvalExpr(ast.Binary(ast.Ident("n"), ast.Eq, ast.Ident("n")))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("expected Null == Null to be a type mismatch, got %v", err)
	}
}

func TestMissingNodesAreInvalid(t *testing.T) {
	interp := NewInterpreter(&bytes.Buffer{}, nil)
	if _, err := interp.EvalExpr(nil); !errors.Is(err, ErrInvalidExpression) {
		t.Errorf("expected invalid expression, got %v", err)
	}
	if err := interp.Evaluate([]ast.Stmt{nil}, 0); !errors.Is(err, ErrInvalidStatement) {
		t.Errorf("expected invalid statement, got %v", err)
	}
}
