// Package parser builds atlas statement trees from tokens.
// It uses Pratt parsing for expressions and recursive descent for statements.
package parser

import (
	"atlas-lang/internal/ast"
	"atlas-lang/internal/diag"
	"atlas-lang/internal/span"
	"atlas-lang/internal/token"
	"fmt"
	"strconv"
)

// ============================================================
// Binding power (precedence) levels
// ============================================================

const (
	bpNone       = 0
	bpEquality   = 30 // == !=
	bpComparison = 40 // < <= > >=
	bpAdditive   = 50 // + -
	bpMultiply   = 60 // * / %
	bpPrefix     = 70 // unary -
)

// infixBP returns the left binding power for an infix operator.
func infixBP(kind token.Kind) int {
	switch kind {
	case token.EQ, token.NEQ:
		return bpEquality
	case token.LT, token.LTE, token.GT, token.GTE:
		return bpComparison
	case token.PLUS, token.MINUS:
		return bpAdditive
	case token.STAR, token.SLASH, token.PERCENT:
		return bpMultiply
	default:
		return bpNone
	}
}

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.PLUS:    ast.Add,
	token.MINUS:   ast.Sub,
	token.STAR:    ast.Mul,
	token.SLASH:   ast.Div,
	token.PERCENT: ast.Mod,
	token.EQ:      ast.Eq,
	token.NEQ:     ast.Neq,
	token.GT:      ast.Gt,
	token.GTE:     ast.Gte,
	token.LT:      ast.Lt,
	token.LTE:     ast.Lte,
}

var dataTypes = map[token.Kind]ast.DataType{
	token.TY_INT:     ast.Int,
	token.TY_FLOAT:   ast.Float,
	token.TY_STRING:  ast.String,
	token.TY_BOOLEAN: ast.Boolean,
}

// ============================================================
// Parser
// ============================================================

// Parser performs syntax analysis on a stream of tokens.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  []diag.Diagnostic
	file   string
}

// New creates a new parser from a token slice.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// WithFile sets the file name recorded on the File node and on diagnostics.
func (p *Parser) WithFile(name string) *Parser {
	p.file = name
	return p
}

// ParseFile parses the whole token stream and returns the AST root and diagnostics.
// The tree is only safe to evaluate when no error diagnostics were returned.
func (p *Parser) ParseFile() (*ast.File, []diag.Diagnostic) {
	file := &ast.File{Name: p.file}
	startPos := p.peek().Span.Start

	p.skipSep()
	for !p.isAtEnd() {
		if stmt := p.parseStmt(); stmt != nil {
			file.Body = append(file.Body, stmt)
		}
		p.skipSep()
	}

	file.Span = span.Span{Start: startPos, End: p.peek().Span.End}
	return file, diag.WithFile(p.diags, p.file)
}

// ---- navigation helpers ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekKind() token.Kind {
	return p.peek().Kind
}

func (p *Parser) peekAt(offset int) token.Kind {
	if p.pos+offset >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[p.pos+offset].Kind
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peekKind() == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind) (token.Token, bool) {
	if p.check(kind) {
		return p.advance(), true
	}
	tok := p.peek()
	p.error("E2001", tok.Span, fmt.Sprintf("expected '%s', got '%s'", kind, tok.Kind))
	return tok, false
}

func (p *Parser) isAtEnd() bool {
	return p.peekKind() == token.EOF
}

// skipSep skips NEWLINE and SEMICOLON tokens.
func (p *Parser) skipSep() {
	for p.match(token.NEWLINE, token.SEMICOLON) {
		p.advance()
	}
}

func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) error(code string, s span.Span, msg string) {
	p.diags = append(p.diags, diag.Errorf(code, s, "%s", msg))
}

// synchronize skips tokens until a likely statement boundary.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.match(token.NEWLINE, token.SEMICOLON) {
			p.advance()
			return
		}
		if p.match(token.RBRACE, token.KW_LET, token.KW_PRINT, token.KW_IF, token.KW_WHILE, token.KW_ELSE) {
			return
		}
		p.advance()
	}
}

// ============================================================
// Statement parsing
// ============================================================

func (p *Parser) parseStmt() ast.Stmt {
	switch p.peekKind() {
	case token.KW_PRINT:
		return p.parsePrintStmt()
	case token.KW_LET:
		return p.parseVarDecl()
	case token.KW_IF:
		return p.parseIfStmt()
	case token.KW_WHILE:
		return p.parseWhileStmt()
	case token.IDENT:
		if p.peekAt(1) == token.ASSIGN {
			return p.parseAssignStmt()
		}
	}

	tok := p.peek()
	p.error("E2002", tok.Span, fmt.Sprintf("unexpected token: '%s'", describe(tok)))
	// always make progress, even when the offending token is a boundary
	p.advance()
	p.synchronize()
	return nil
}

// parsePrintStmt parses: print expr
func (p *Parser) parsePrintStmt() ast.Stmt {
	start := p.advance() // 'print'
	expr := p.parseRequiredExpr()
	return &ast.PrintStmt{
		StmtBase: makeStmtBase(start.Span.Start, p.prevEnd()),
		Expr:     expr,
	}
}

// parseVarDecl parses: let IDENT : type [ = expr ]
func (p *Parser) parseVarDecl() ast.Stmt {
	start := p.advance() // 'let'
	stmt := &ast.VarDeclStmt{}

	nameTok, ok := p.expect(token.IDENT)
	if !ok {
		p.synchronize()
		return nil
	}
	stmt.Name = nameTok.Lexeme

	if _, ok := p.expect(token.COLON); !ok {
		p.synchronize()
		return nil
	}
	typeTok := p.advance()
	dt, ok := dataTypes[typeTok.Kind]
	if !ok {
		p.diags = append(p.diags, diag.Diagnostic{
			Code:     "E2003",
			Severity: diag.Error,
			Message:  fmt.Sprintf("unknown type '%s'", describe(typeTok)),
			Span:     typeTok.Span,
			Hint:     "expected one of Int, Float, String, Boolean",
		})
		p.synchronize()
		return nil
	}
	stmt.Type = dt

	if p.check(token.ASSIGN) {
		p.advance()
		stmt.Init = p.parseRequiredExpr()
	}

	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseAssignStmt parses: IDENT = expr
func (p *Parser) parseAssignStmt() ast.Stmt {
	nameTok := p.advance()
	p.advance() // '='
	value := p.parseRequiredExpr()
	return &ast.AssignStmt{
		StmtBase: makeStmtBase(nameTok.Span.Start, p.prevEnd()),
		Name:     nameTok.Lexeme,
		Value:    value,
	}
}

// parseIfStmt parses: if ( expr ) [then] body [ else body ]
func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.advance() // 'if'
	stmt := &ast.IfStmt{}

	stmt.Condition = p.parseCondition()
	if p.check(token.KW_THEN) {
		p.advance()
	}
	stmt.Then = p.parseBody()

	// else may follow on a later line or after a ';'
	save := p.pos
	p.skipSep()
	if p.check(token.KW_ELSE) {
		p.advance()
		stmt.Else = p.parseBody()
		if stmt.Else == nil {
			stmt.Else = []ast.Stmt{}
		}
	} else {
		p.pos = save
	}

	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

// parseWhileStmt parses: while ( expr ) body
func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.advance() // 'while'
	stmt := &ast.WhileStmt{}
	stmt.Condition = p.parseCondition()
	stmt.Body = p.parseBody()
	stmt.Span = p.makeSpan(start.Span.Start)
	return stmt
}

func (p *Parser) parseCondition() ast.Expr {
	if _, ok := p.expect(token.LPAREN); !ok {
		p.synchronize()
		return nil
	}
	p.skipNewlines()
	cond := p.parseRequiredExpr()
	p.skipNewlines()
	p.expect(token.RPAREN)
	return cond
}

// parseBody parses a braced block or a single statement.
func (p *Parser) parseBody() []ast.Stmt {
	p.skipNewlines()
	if !p.check(token.LBRACE) {
		if stmt := p.parseStmt(); stmt != nil {
			return []ast.Stmt{stmt}
		}
		return nil
	}

	p.advance() // '{'
	stmts := []ast.Stmt{}
	p.skipSep()
	for !p.check(token.RBRACE) && !p.isAtEnd() {
		if stmt := p.parseStmt(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.skipSep()
	}
	p.expect(token.RBRACE)
	return stmts
}

// ============================================================
// Expression parsing (Pratt / precedence climbing)
// ============================================================

// parseRequiredExpr parses an expression and reports a diagnostic if none is present.
func (p *Parser) parseRequiredExpr() ast.Expr {
	reported := len(p.diags)
	expr := p.parseExpr(bpNone)
	if expr == nil {
		if len(p.diags) == reported {
			tok := p.peek()
			p.error("E2004", tok.Span, fmt.Sprintf("expected expression, got '%s'", describe(tok)))
		}
		p.synchronize()
	}
	return expr
}

// parseExpr parses an expression with the given minimum binding power.
func (p *Parser) parseExpr(minBP int) ast.Expr {
	left := p.nud()
	if left == nil {
		return nil
	}

	for {
		bp := infixBP(p.peekKind())
		if bp <= minBP {
			break
		}
		left = p.led(left, bp)
		if left == nil {
			return nil
		}
	}
	return left
}

// nud handles prefix (null denotation) parsing.
func (p *Parser) nud() ast.Expr {
	tok := p.peek()

	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		val, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.error("E2005", tok.Span, fmt.Sprintf("invalid number literal '%s'", tok.Lexeme))
		}
		return &ast.NumberLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    val,
		}

	case token.STRING:
		p.advance()
		return &ast.StringLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    tok.Lexeme,
		}

	case token.KW_TRUE, token.KW_FALSE:
		p.advance()
		return &ast.BoolLiteral{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Value:    tok.Kind == token.KW_TRUE,
		}

	case token.IDENT:
		p.advance()
		return &ast.IdentExpr{
			ExprBase: makeExprBase(tok.Span.Start, tok.Span.End),
			Name:     tok.Lexeme,
		}

	case token.LPAREN:
		p.advance()
		p.skipNewlines()
		expr := p.parseExpr(bpNone)
		p.skipNewlines()
		if _, ok := p.expect(token.RPAREN); !ok || expr == nil {
			return nil
		}
		return expr

	case token.MINUS:
		p.advance()
		operand := p.parseExpr(bpPrefix)
		if operand == nil {
			return nil
		}
		return &ast.UnaryExpr{
			ExprBase: makeExprBase(tok.Span.Start, operand.GetSpan().End),
			Op:       ast.Negate,
			Operand:  operand,
		}

	default:
		return nil
	}
}

// led handles left-associative binary operators.
func (p *Parser) led(left ast.Expr, bp int) ast.Expr {
	tok := p.advance()
	op, ok := binaryOps[tok.Kind]
	if !ok {
		p.error("E2002", tok.Span, fmt.Sprintf("unexpected token: '%s'", describe(tok)))
		return nil
	}
	p.skipNewlines()
	right := p.parseExpr(bp)
	if right == nil {
		next := p.peek()
		p.error("E2004", next.Span, fmt.Sprintf("expected expression after '%s'", tok.Lexeme))
		return nil
	}
	return &ast.BinaryExpr{
		ExprBase: makeExprBase(left.GetSpan().Start, right.GetSpan().End),
		Left:     left,
		Op:       op,
		Right:    right,
	}
}

// ============================================================
// Span helpers
// ============================================================

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.NEWLINE:
		return "newline"
	}
	if tok.Lexeme != "" {
		return tok.Lexeme
	}
	return tok.Kind.String()
}

func (p *Parser) prevEnd() span.Position {
	if p.pos > 0 && p.pos-1 < len(p.tokens) {
		return p.tokens[p.pos-1].Span.End
	}
	return p.peek().Span.Start
}

func (p *Parser) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: p.prevEnd()}
}

func makeExprBase(start, end span.Position) ast.ExprBase {
	return ast.ExprBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}

func makeStmtBase(start, end span.Position) ast.StmtBase {
	return ast.StmtBase{NodeBase: ast.NodeBase{Span: span.Span{Start: start, End: end}}}
}
