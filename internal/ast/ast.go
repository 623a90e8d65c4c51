// Package ast defines the statement and expression trees consumed by the runtime.
package ast

import (
	"atlas-lang/internal/span"
	"fmt"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// File (top-level AST root)
// ============================================================

// File is a whole program: an ordered statement sequence.
type File struct {
	NodeBase
	Name string
	Body []Stmt
}

// ============================================================
// Types and operators
// ============================================================

// DataType is the declared type of a variable.
type DataType int

const (
	Int DataType = iota
	Float
	String
	Boolean
)

var dataTypeNames = [...]string{
	Int:     "Int",
	Float:   "Float",
	String:  "String",
	Boolean: "Boolean",
}

func (t DataType) String() string {
	if t >= 0 && int(t) < len(dataTypeNames) {
		return dataTypeNames[t]
	}
	return fmt.Sprintf("DataType(%d)", int(t))
}

// BinaryOp is a binary operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Eq
	Neq
	Gt
	Gte
	Lt
	Lte
)

var binaryOpNames = [...]string{
	Add: "+",
	Sub: "-",
	Mul: "*",
	Div: "/",
	Mod: "%",
	Eq:  "==",
	Neq: "!=",
	Gt:  ">",
	Gte: ">=",
	Lt:  "<",
	Lte: "<=",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	Negate UnaryOp = iota
)

func (op UnaryOp) String() string {
	if op == Negate {
		return "-"
	}
	return fmt.Sprintf("UnaryOp(%d)", int(op))
}

// ============================================================
// Expressions
// ============================================================

// IdentExpr is a reference to a variable.
type IdentExpr struct {
	ExprBase
	Name string
}

// NumberLiteral is a numeric literal. Every number is a float64.
type NumberLiteral struct {
	ExprBase
	Value float64
}

// StringLiteral is a string literal with escapes already processed.
type StringLiteral struct {
	ExprBase
	Value string
}

// BoolLiteral is true or false.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// BinaryExpr is Left Op Right.
type BinaryExpr struct {
	ExprBase
	Left  Expr
	Op    BinaryOp
	Right Expr
}

// UnaryExpr is Op Operand.
type UnaryExpr struct {
	ExprBase
	Op      UnaryOp
	Operand Expr
}

// ============================================================
// Statements
// ============================================================

// PrintStmt writes the value of Expr followed by a newline.
type PrintStmt struct {
	StmtBase
	Expr Expr
}

// IfStmt runs Then or Else one scope deeper. A nil Else means no else branch.
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      []Stmt
	Else      []Stmt
}

// VarDeclStmt declares Name with a fixed type. Init may be nil.
type VarDeclStmt struct {
	StmtBase
	Name string
	Type DataType
	Init Expr
}

// WhileStmt re-runs Body one scope deeper while Condition is true.
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      []Stmt
}

// AssignStmt stores Value into an existing variable.
type AssignStmt struct {
	StmtBase
	Name  string
	Value Expr
}

// ============================================================
// Constructors for hand-built trees
// ============================================================

// Num returns a number literal with no source location.
func Num(v float64) *NumberLiteral { return &NumberLiteral{Value: v} }

// Str returns a string literal with no source location.
func Str(v string) *StringLiteral { return &StringLiteral{Value: v} }

// Bool returns a boolean literal with no source location.
func Bool(v bool) *BoolLiteral { return &BoolLiteral{Value: v} }

// Ident returns an identifier reference with no source location.
func Ident(name string) *IdentExpr { return &IdentExpr{Name: name} }

// Binary returns left op right with no source location.
func Binary(left Expr, op BinaryOp, right Expr) *BinaryExpr {
	return &BinaryExpr{Left: left, Op: op, Right: right}
}

// Neg returns -operand with no source location.
func Neg(operand Expr) *UnaryExpr {
	return &UnaryExpr{Op: Negate, Operand: operand}
}
