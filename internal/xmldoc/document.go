// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package xmldoc

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/petar-djukic/doclint/pkg/types"
)

// ErrOverlappingEdit is returned when an edit touches a region already
// claimed by a pending edit of the same document.
var ErrOverlappingEdit = errors.New("overlapping edit")

// line is the layout of one source line of the comment.
type line struct {
	prefix string // Indentation, "///" and at most one following space
	eol    string // "\r" for CRLF input, empty otherwise
}

// Edit replaces the body range [Start, End) with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Document is a parsed doc comment: the per-line prefixes, the body with
// prefixes removed, and the tree parsed from the body.
//
// A Document is immutable. Replace returns a copy carrying one more pending
// edit; pending edits are applied when the document is serialized or
// committed, so offsets found by matching the original tree stay valid while
// several edits are collected.
type Document struct {
	Root *Node

	body     string
	lines    []line
	starts   []int // Body offset of each line start
	origin   int   // File line of the first comment line
	trailing bool  // Raw text ended with a newline
	pending  []Edit
}

// ParseDocument splits raw comment text into layout and body and parses the
// body. origin is the 1-based file line of the first comment line; zero is
// treated as 1.
func ParseDocument(raw string, origin int) (*Document, error) {
	if origin < 1 {
		origin = 1
	}
	d := &Document{origin: origin}
	text := raw
	if strings.HasSuffix(text, "\n") {
		d.trailing = true
		text = text[:len(text)-1]
	}
	rawLines := strings.Split(text, "\n")
	bodies := make([]string, len(rawLines))
	d.lines = make([]line, len(rawLines))
	for i, l := range rawLines {
		if strings.HasSuffix(l, "\r") {
			d.lines[i].eol = "\r"
			l = l[:len(l)-1]
		}
		n := prefixLen(l)
		d.lines[i].prefix = l[:n]
		bodies[i] = l[n:]
	}
	d.body = strings.Join(bodies, "\n")
	d.indexLines()

	root, err := Parse(d.body)
	if err != nil {
		return nil, err
	}
	d.Root = root
	return d, nil
}

// prefixLen measures leading whitespace, "///" and one optional space.
// Lines without "///" have no prefix.
func prefixLen(l string) int {
	i := 0
	for i < len(l) && (l[i] == ' ' || l[i] == '\t') {
		i++
	}
	if !strings.HasPrefix(l[i:], "///") {
		return 0
	}
	i += 3
	if i < len(l) && l[i] == ' ' {
		i++
	}
	return i
}

func (d *Document) indexLines() {
	d.starts = d.starts[:0]
	d.starts = append(d.starts, 0)
	for i := 0; i < len(d.body); i++ {
		if d.body[i] == '\n' {
			d.starts = append(d.starts, i+1)
		}
	}
}

// Body returns the comment text with line prefixes removed.
func (d *Document) Body() string { return d.body }

// Slice returns the body text between two offsets.
func (d *Document) Slice(start, end int) string { return d.body[start:end] }

// Text returns the source text of a node.
func (d *Document) Text(n *Node) string { return d.body[n.Start:n.End] }

// Inner returns the content of an element between its tags.
func (d *Document) Inner(n *Node) string { return d.body[n.InnerStart:n.InnerEnd] }

// Origin returns the file line of the first comment line.
func (d *Document) Origin() int { return d.origin }

// Pending reports whether edits are waiting to be committed.
func (d *Document) Pending() bool { return len(d.pending) > 0 }

// LineOf returns the zero-based comment line holding body offset off.
func (d *Document) LineOf(off int) int {
	return sort.Search(len(d.starts), func(i int) bool { return d.starts[i] > off }) - 1
}

// LineStart returns the body offset of the start of line i.
func (d *Document) LineStart(i int) int { return d.starts[i] }

// LineEnd returns the body offset of the newline ending line i, or the end
// of the body for the last line.
func (d *Document) LineEnd(i int) int {
	if i+1 < len(d.starts) {
		return d.starts[i+1] - 1
	}
	return len(d.body)
}

// LineCount returns the number of comment lines.
func (d *Document) LineCount() int { return len(d.lines) }

// Position maps a body offset to a file position. Columns count the line
// prefix, so they match what an editor shows.
func (d *Document) Position(off int) types.Position {
	i := d.LineOf(off)
	return types.Position{
		Line:   d.origin + i,
		Column: len(d.lines[i].prefix) + off - d.starts[i] + 1,
	}
}

// SourceSpan maps a body range to a file span.
func (d *Document) SourceSpan(start, end int) types.SourceSpan {
	return types.SpanOf(d.Position(start), d.Position(end))
}

// NodeSpan returns the file span of a node.
func (d *Document) NodeSpan(n *Node) types.SourceSpan {
	return d.SourceSpan(n.Start, n.End)
}

// Replace returns a copy of d with the body range [start, end) replaced by
// text. The edit is recorded, not applied; the tree and offsets of the copy
// still describe the original body.
func (d *Document) Replace(start, end int, text string) (*Document, error) {
	if start < 0 || end < start || end > len(d.body) {
		return nil, fmt.Errorf("replace [%d,%d) outside body of length %d", start, end, len(d.body))
	}
	e := Edit{Start: start, End: end, Text: text}
	for _, p := range d.pending {
		if overlaps(p, e) {
			return nil, fmt.Errorf("replace [%d,%d) against pending [%d,%d): %w", start, end, p.Start, p.End, ErrOverlappingEdit)
		}
	}
	c := *d
	c.pending = append(append([]Edit(nil), d.pending...), e)
	return &c, nil
}

// ReplaceNode replaces the whole source text of n.
func (d *Document) ReplaceNode(n *Node, text string) (*Document, error) {
	return d.Replace(n.Start, n.End, text)
}

// Apply records several edits at once.
func (d *Document) Apply(edits ...Edit) (*Document, error) {
	out := d
	for _, e := range edits {
		next, err := out.Replace(e.Start, e.End, e.Text)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// Two edits overlap when they share a byte, or when both insert at the same
// offset (their relative order would be undefined).
func overlaps(a, b Edit) bool {
	if a.Start == b.Start {
		return true
	}
	return a.Start < b.End && b.Start < a.End
}

// String serializes the document with pending edits applied. For a
// document without edits it returns the raw text it was parsed from.
func (d *Document) String() string {
	if len(d.pending) == 0 {
		return d.render(d.body, d.lines)
	}
	body, lines := d.applyPending()
	return d.render(body, lines)
}

// Commit applies pending edits and parses the result into a fresh document.
func (d *Document) Commit() (*Document, error) {
	if len(d.pending) == 0 {
		return d, nil
	}
	return ParseDocument(d.String(), d.origin)
}

func (d *Document) render(body string, lines []line) string {
	var b strings.Builder
	for i, l := range strings.Split(body, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(lines[i].prefix)
		b.WriteString(l)
		b.WriteString(lines[i].eol)
	}
	if d.trailing {
		b.WriteByte('\n')
	}
	return b.String()
}

// applyPending rewrites the body and lays out prefixes for the new lines.
// When the line count is unchanged every line keeps its prefix. Otherwise
// lines before the first edit keep their prefixes, lines after the last
// edit keep theirs counted from the end, and lines created in between get
// the canonical prefix of the comment.
func (d *Document) applyPending() (string, []line) {
	edits := append([]Edit(nil), d.pending...)
	sort.Slice(edits, func(i, j int) bool { return edits[i].Start < edits[j].Start })
	edits = tidyDeletions(d.body, edits)

	var b strings.Builder
	last := 0
	for _, e := range edits {
		b.WriteString(d.body[last:e.Start])
		b.WriteString(e.Text)
		last = e.End
	}
	b.WriteString(d.body[last:])
	body := b.String()

	oldN := len(d.lines)
	newBodies := strings.Split(body, "\n")
	newN := len(newBodies)
	head := d.LineOf(edits[0].Start)
	tail := d.LineOf(edits[len(edits)-1].End)
	canonical := d.canonicalPrefix()

	lines := make([]line, newN)
	for i := range lines {
		var l line
		fromOld := -1
		switch {
		case newN == oldN, i <= head:
			fromOld = i
		case i-(newN-oldN) >= tail && i-(newN-oldN) < oldN:
			fromOld = i - (newN - oldN)
		}
		if fromOld >= 0 {
			l = d.lines[fromOld]
		} else {
			l = line{prefix: canonical, eol: d.lines[0].eol}
		}
		if newBodies[i] == "" && (fromOld < 0 || d.lineBody(fromOld) != "") {
			l.prefix = strings.TrimRight(l.prefix, " \t")
		}
		lines[i] = l
	}
	return body, lines
}

func (d *Document) lineBody(i int) string {
	return d.body[d.starts[i]:d.LineEnd(i)]
}

// canonicalPrefix picks the prefix new lines receive: the first prefix that
// ends in "/// ", else the first non-empty one with a space added.
func (d *Document) canonicalPrefix() string {
	for _, l := range d.lines {
		if strings.HasSuffix(l.prefix, "/// ") {
			return l.prefix
		}
	}
	for _, l := range d.lines {
		if strings.HasSuffix(l.prefix, "///") {
			return l.prefix + " "
		}
	}
	return ""
}

// tidyDeletions widens pure deletions that would leave two spaces, or a
// space at the start of a line, so that removed words take one adjacent
// space with them.
func tidyDeletions(body string, edits []Edit) []Edit {
	out := make([]Edit, len(edits))
	copy(out, edits)
	for i, e := range out {
		if e.Text != "" || e.Start == e.End {
			continue
		}
		before := byte('\n')
		if e.Start > 0 {
			before = body[e.Start-1]
		}
		after := byte('\n')
		if e.End < len(body) {
			after = body[e.End]
		}
		limit := len(body)
		if i+1 < len(out) {
			limit = out[i+1].Start
		}
		switch {
		case after == ' ' && (before == ' ' || before == '\n' || before == '>') && e.End < limit:
			out[i].End++
		case before == ' ' && (after == '\n' || after == '.') && (i == 0 || out[i-1].End < e.Start-1):
			out[i].Start--
		}
	}
	return out
}
