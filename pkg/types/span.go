// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the value types shared across doclint packages:
// source spans, declaration descriptions handed over by the host, and the
// diagnostics and fixes handed back to it.
package types

import "fmt"

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line   int // Line number (1-based)
	Column int // Column number (1-based, byte offset within the line + 1)
}

// Before reports whether p is strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SourceSpan is a half-open range of a source file. End points one column
// past the last covered byte.
type SourceSpan struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// SpanOf builds a SourceSpan from two positions.
func SpanOf(start, end Position) SourceSpan {
	return SourceSpan{
		StartLine:   start.Line,
		StartColumn: start.Column,
		EndLine:     end.Line,
		EndColumn:   end.Column,
	}
}

// Start returns the first position covered by the span.
func (s SourceSpan) Start() Position {
	return Position{Line: s.StartLine, Column: s.StartColumn}
}

// End returns the position just past the span.
func (s SourceSpan) End() Position {
	return Position{Line: s.EndLine, Column: s.EndColumn}
}

// IsZero reports whether the span was never set.
func (s SourceSpan) IsZero() bool {
	return s == SourceSpan{}
}

// Overlaps reports whether two spans share a position. Spans starting at
// the same position always overlap, including empty ones.
func (s SourceSpan) Overlaps(o SourceSpan) bool {
	if s.Start() == o.Start() {
		return true
	}
	return s.Start().Before(o.End()) && o.Start().Before(s.End())
}

func (s SourceSpan) String() string {
	if s.StartLine == s.EndLine {
		return fmt.Sprintf("%d:%d-%d", s.StartLine, s.StartColumn, s.EndColumn)
	}
	return fmt.Sprintf("%d:%d-%d:%d", s.StartLine, s.StartColumn, s.EndLine, s.EndColumn)
}
