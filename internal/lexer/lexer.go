// Package lexer turns atlas source text into tokens.
package lexer

import (
	"atlas-lang/internal/diag"
	"atlas-lang/internal/span"
	"atlas-lang/internal/token"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes source code into a sequence of tokens.
type Lexer struct {
	source   string
	filename string

	pos  int // current read position in source
	line int // 1-based
	col  int // 1-based

	diags []diag.Diagnostic
}

// New creates a new Lexer for the given source text.
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		col:      1,
	}
}

// Tokenize scans the entire source and returns all tokens and diagnostics.
// The token slice always ends with an EOF token.
func (l *Lexer) Tokenize() ([]token.Token, []diag.Diagnostic) {
	var tokens []token.Token
	for {
		tok := l.nextToken()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens, diag.WithFile(l.diags, l.filename)
}

// ---- internal helpers ----

func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	return l.source[l.pos+1]
}

// advance consumes the current character and returns it.
func (l *Lexer) advance() byte {
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) curPos() span.Position {
	return span.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) makeSpan(start span.Position) span.Span {
	return span.Span{Start: start, End: l.curPos()}
}

func (l *Lexer) tok(kind token.Kind, lexeme string, start span.Position) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Span: l.makeSpan(start)}
}

// skipWhitespace skips spaces, tabs and carriage returns. Newlines are tokens.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
		} else {
			break
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.advance()
	}
}

func (l *Lexer) addError(code string, s span.Span, msg string) {
	l.diags = append(l.diags, diag.Errorf(code, s, "%s", msg))
}

// ---- token reading ----

func (l *Lexer) nextToken() token.Token {
	for {
		l.skipWhitespace()
		ch := l.peek()
		if (ch == '/' && l.peekNext() == '/') || ch == '#' {
			l.skipLineComment()
			continue
		}
		break
	}

	start := l.curPos()
	if l.pos >= len(l.source) {
		return l.tok(token.EOF, "", start)
	}

	ch := l.peek()
	switch {
	case ch == '\n':
		l.advance()
		return l.tok(token.NEWLINE, "\\n", start)
	case ch == '"':
		return l.readString(start)
	case isDigit(ch):
		return l.readNumber(start)
	case isIdentStart(l.source[l.pos:]):
		return l.readIdentifier(start)
	default:
		return l.readOperator(start)
	}
}

// readString reads a double-quoted string literal. The lexeme is the unescaped value.
func (l *Lexer) readString(start span.Position) token.Token {
	l.advance() // opening "
	var value []byte

	for l.pos < len(l.source) {
		ch := l.peek()
		switch ch {
		case '"':
			l.advance()
			return l.tok(token.STRING, string(value), start)
		case '\n':
			l.addError("E1001", l.makeSpan(start), "unterminated string literal")
			return l.tok(token.STRING, string(value), start)
		case '\\':
			l.advance()
			if l.pos >= len(l.source) {
				continue
			}
			esc := l.peek()
			switch esc {
			case 'n':
				value = append(value, '\n')
			case 't':
				value = append(value, '\t')
			case '\\':
				value = append(value, '\\')
			case '"':
				value = append(value, '"')
			case '0':
				value = append(value, 0)
			default:
				l.addError("E1002", l.makeSpan(start), fmt.Sprintf("unknown escape sequence: \\%c", esc))
				value = append(value, esc)
			}
			l.advance()
		default:
			value = append(value, ch)
			l.advance()
		}
	}

	l.addError("E1001", l.makeSpan(start), "unterminated string literal")
	return l.tok(token.STRING, string(value), start)
}

// readNumber reads digits with an optional fractional part. All numbers are float64 at runtime.
func (l *Lexer) readNumber(start span.Position) token.Token {
	numStart := l.pos
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	return l.tok(token.NUMBER, l.source[numStart:l.pos], start)
}

func (l *Lexer) readIdentifier(start span.Position) token.Token {
	identStart := l.pos
	for l.pos < len(l.source) && isIdentPart(l.source[l.pos:]) {
		_, size := utf8.DecodeRuneInString(l.source[l.pos:])
		for i := 0; i < size; i++ {
			l.advance()
		}
	}
	lexeme := l.source[identStart:l.pos]
	return l.tok(token.LookupIdent(lexeme), lexeme, start)
}

func (l *Lexer) readOperator(start span.Position) token.Token {
	ch := l.advance()

	switch ch {
	case '(':
		return l.tok(token.LPAREN, "(", start)
	case ')':
		return l.tok(token.RPAREN, ")", start)
	case '{':
		return l.tok(token.LBRACE, "{", start)
	case '}':
		return l.tok(token.RBRACE, "}", start)
	case ';':
		return l.tok(token.SEMICOLON, ";", start)
	case ':':
		return l.tok(token.COLON, ":", start)
	case '+':
		return l.tok(token.PLUS, "+", start)
	case '-':
		return l.tok(token.MINUS, "-", start)
	case '*':
		return l.tok(token.STAR, "*", start)
	case '/':
		return l.tok(token.SLASH, "/", start)
	case '%':
		return l.tok(token.PERCENT, "%", start)
	case '=':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.EQ, "==", start)
		}
		return l.tok(token.ASSIGN, "=", start)
	case '!':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.NEQ, "!=", start)
		}
		l.addError("E1003", l.makeSpan(start), "unexpected character: '!', did you mean '!='?")
		return l.tok(token.ILLEGAL, "!", start)
	case '<':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.LTE, "<=", start)
		}
		return l.tok(token.LT, "<", start)
	case '>':
		if l.peek() == '=' {
			l.advance()
			return l.tok(token.GTE, ">=", start)
		}
		return l.tok(token.GT, ">", start)
	default:
		// consume the rest of a multi-byte rune so the error points at one character
		r := rune(ch)
		if ch >= utf8.RuneSelf {
			l.pos--
			l.col--
			var size int
			r, size = utf8.DecodeRuneInString(l.source[l.pos:])
			l.pos += size
			l.col++
		}
		lexeme := string(r)
		l.addError("E1003", l.makeSpan(start), fmt.Sprintf("unexpected character: '%s'", lexeme))
		return l.tok(token.ILLEGAL, lexeme, start)
	}
}

// ---- character classification ----

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(s string) bool {
	ch := s[0]
	if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
		return true
	}
	if ch >= utf8.RuneSelf {
		r, _ := utf8.DecodeRuneInString(s)
		return unicode.IsLetter(r)
	}
	return false
}

func isIdentPart(s string) bool {
	return isIdentStart(s) || isDigit(s[0])
}
