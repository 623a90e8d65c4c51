// Package span provides source positions and ranges shared by the front end and the runtime.
package span

import "fmt"

// Position is a location in source text.
type Position struct {
	Offset int `json:"offset" yaml:"offset"` // byte offset from beginning of source
	Line   int `json:"line" yaml:"line"`     // 1-based
	Column int `json:"column" yaml:"column"` // 1-based
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether p was set by the lexer (lines start at 1).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Span is a half-open range [Start, End) in source text.
type Span struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

func (s Span) String() string {
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// IsZero reports whether s carries no location, as for synthesized nodes.
func (s Span) IsZero() bool {
	return !s.Start.IsValid()
}

// Cover returns the smallest span containing both s and o.
func (s Span) Cover(o Span) Span {
	if s.IsZero() {
		return o
	}
	if o.IsZero() {
		return s
	}
	out := s
	if o.Start.Offset < out.Start.Offset {
		out.Start = o.Start
	}
	if o.End.Offset > out.End.Offset {
		out.End = o.End
	}
	return out
}
