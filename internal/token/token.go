// Package token defines the token types produced by the lexer.
package token

import (
	"atlas-lang/internal/span"
	"fmt"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	// Literals
	IDENT  // identifiers: x, total, loop_count
	NUMBER // numeric literals: 3, 2.5
	STRING // string literals: "hello"

	// Operators
	ASSIGN  // =
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %

	EQ  // ==
	NEQ // !=
	LT  // <
	LTE // <=
	GT  // >
	GTE // >=

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	SEMICOLON // ;
	COLON     // :

	// Keywords
	KW_LET
	KW_PRINT
	KW_IF
	KW_THEN
	KW_ELSE
	KW_WHILE
	KW_TRUE
	KW_FALSE

	// Type keywords
	TY_INT
	TY_FLOAT
	TY_STRING
	TY_BOOLEAN
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	ASSIGN:  "=",
	PLUS:    "+",
	MINUS:   "-",
	STAR:    "*",
	SLASH:   "/",
	PERCENT: "%",
	EQ:      "==",
	NEQ:     "!=",
	LT:      "<",
	LTE:     "<=",
	GT:      ">",
	GTE:     ">=",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	SEMICOLON: ";",
	COLON:     ":",

	KW_LET:   "let",
	KW_PRINT: "print",
	KW_IF:    "if",
	KW_THEN:  "then",
	KW_ELSE:  "else",
	KW_WHILE: "while",
	KW_TRUE:  "true",
	KW_FALSE: "false",

	TY_INT:     "Int",
	TY_FLOAT:   "Float",
	TY_STRING:  "String",
	TY_BOOLEAN: "Boolean",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a statement or literal keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_LET && k <= KW_FALSE
}

// IsType returns true if the kind names a declared type.
func (k Kind) IsType() bool {
	return k >= TY_INT && k <= TY_BOOLEAN
}

var keywords = map[string]Kind{
	"let":   KW_LET,
	"print": KW_PRINT,
	"if":    KW_IF,
	"then":  KW_THEN,
	"else":  KW_ELSE,
	"while": KW_WHILE,
	"true":  KW_TRUE,
	"false": KW_FALSE,

	"Int":     TY_INT,
	"Float":   TY_FLOAT,
	"String":  TY_STRING,
	"Boolean": TY_BOOLEAN,

	// lowercase aliases
	"int":    TY_INT,
	"float":  TY_FLOAT,
	"string": TY_STRING,
	"bool":   TY_BOOLEAN,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token represents a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}
