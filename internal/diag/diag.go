// Package diag provides diagnostic types reported by the lexer and parser.
package diag

import (
	"atlas-lang/internal/span"
	"fmt"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single front-end message tied to a source range.
type Diagnostic struct {
	Code     string    `json:"code"` // E1xxx lexer, E2xxx parser
	Severity Severity  `json:"severity"`
	File     string    `json:"file,omitempty"`
	Message  string    `json:"message"`
	Span     span.Span `json:"span"`
	Hint     string    `json:"hint,omitempty"`
}

// String renders the diagnostic as a single line, prefixed by the file name when known.
func (d Diagnostic) String() string {
	loc := d.Span.Start.String()
	if d.File != "" {
		loc = d.File + ":" + loc
	}
	msg := fmt.Sprintf("%s: [%s] %s: %s", loc, d.Code, d.Severity, d.Message)
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// Errorf creates an error diagnostic at the given span.
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// Warningf creates a warning diagnostic at the given span.
func Warningf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// HasErrors reports whether any diagnostic in diags is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// WithFile stamps every diagnostic with the given file name.
func WithFile(diags []Diagnostic, file string) []Diagnostic {
	for i := range diags {
		diags[i].File = file
	}
	return diags
}
