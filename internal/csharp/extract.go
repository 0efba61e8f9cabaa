// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package csharp

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/petar-djukic/doclint/pkg/types"
)

// maxHeaderLines bounds how far a declaration header may spread after its
// doc comment.
const maxHeaderLines = 20

// File is one extracted source file.
type File struct {
	Path         string
	Source       string
	Declarations []*types.DeclarationContext // Documented declarations in source order
	Types        []TypeDef                   // Every type declared in the file
}

// TypeDef is a type declaration, documented or not, as the resolver needs it.
type TypeDef struct {
	Name    string
	Keyword string   // class, struct, interface, record, enum or delegate
	Members []string // Enum members in declaration order
}

// SyntaxError reports a doc comment the extractor could not attach to a
// declaration.
type SyntaxError struct {
	Line   int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

var typeHeader = regexp.MustCompile(`\b(class|struct|interface|record|enum)\s+(?:(?:class|struct)\s+)?([A-Za-z_]\w*)`)

// frame is one open brace. enum is the index of the enum TypeDef whose body
// it opens, or -1.
type frame struct {
	enum int
}

// extractor walks a file line by line, tracking braces so it knows when a
// doc comment sits inside an enum body.
type extractor struct {
	path     string
	lines    []string
	file     *File
	stack    []frame
	pending  int // TypeDef waiting for its opening brace, or -1
	inBlock  bool
	problems []error
}

// Extract finds the documented declarations and the type definitions of one
// C# source file. Problems with individual comments are returned as a
// joined error next to everything that could be extracted.
func Extract(path, src string) (*File, error) {
	x := &extractor{
		path:    path,
		lines:   strings.Split(src, "\n"),
		file:    &File{Path: path, Source: src},
		pending: -1,
	}
	for i := 0; i < len(x.lines); {
		if isDocLine(x.lines[i]) {
			i = x.docComment(i)
			continue
		}
		x.code(x.lines[i])
		i++
	}
	return x.file, errors.Join(x.problems...)
}

// ExtractDeclarations returns the documented declarations of a source file.
func ExtractDeclarations(path, src string) ([]*types.DeclarationContext, error) {
	f, err := Extract(path, src)
	return f.Declarations, err
}

func isDocLine(l string) bool {
	t := strings.TrimSpace(l)
	return strings.HasPrefix(t, "///") && !strings.HasPrefix(t, "////")
}

func (x *extractor) inEnum() bool {
	return len(x.stack) > 0 && x.stack[len(x.stack)-1].enum >= 0
}

// docComment consumes the doc comment starting at line i and attaches it to
// the declaration that follows. The declaration lines are left for code.
func (x *extractor) docComment(i int) int {
	start := i
	for i < len(x.lines) && isDocLine(x.lines[i]) {
		i++
	}
	raw := make([]string, 0, i-start)
	for _, l := range x.lines[start:i] {
		raw = append(raw, strings.TrimSuffix(l, "\r"))
	}

	text, rest, ok := x.header(i)
	if !ok {
		x.problems = append(x.problems, &SyntaxError{Line: start + 1, Reason: "doc comment is not followed by a declaration"})
		return i
	}
	h, ok := parseHeader(text, rest, x.inEnum())
	if !ok {
		x.problems = append(x.problems, &SyntaxError{Line: start + 1, Reason: fmt.Sprintf("cannot parse declaration %q", squash(text))})
		return i
	}
	x.file.Declarations = append(x.file.Declarations, &types.DeclarationContext{
		Kind:        h.kind,
		Name:        h.name,
		FilePath:    x.path,
		Shape:       h.shape,
		RawComment:  strings.Join(raw, "\n"),
		CommentLine: start + 1,
		Code:        squash(text),
	})
	return i
}

// header collects the declaration text after a doc comment up to its
// terminator, and the text that follows the terminator up to the end of
// the first balanced brace block.
func (x *extractor) header(i int) (string, string, bool) {
	var b strings.Builder
	enum := x.inEnum()
	for n := 0; i < len(x.lines) && n < maxHeaderLines; i, n = i+1, n+1 {
		l := x.lines[i]
		if isDocLine(l) {
			return "", "", false
		}
		t := strings.TrimSpace(stripComment(l))
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t)
		if enum {
			return b.String(), "", true
		}
		if at, _ := terminator(b.String()); at >= 0 {
			return b.String(), x.following(i + 1), true
		}
	}
	return "", "", false
}

func (x *extractor) following(i int) string {
	var b strings.Builder
	for n := 0; i < len(x.lines) && n < maxHeaderLines; i, n = i+1, n+1 {
		b.WriteString(stripComment(x.lines[i]))
		b.WriteByte(' ')
		if strings.Contains(x.lines[i], "}") {
			break
		}
	}
	return b.String()
}

// code tracks braces, type definitions and enum members on a code line.
func (x *extractor) code(l string) {
	code := x.stripBlockComments(stripCode(l))
	if m := typeHeader.FindStringSubmatch(code); m != nil && !strings.HasPrefix(strings.TrimSpace(code), "using ") {
		keyword := m[1]
		if keyword == "record" && strings.Contains(m[0], "struct") {
			keyword = "struct"
		}
		x.file.Types = append(x.file.Types, TypeDef{Name: m[2], Keyword: keyword})
		if m[1] == "enum" {
			x.pending = len(x.file.Types) - 1
		} else {
			x.pending = -1
		}
		if strings.Contains(code, ";") && !strings.Contains(code, "{") {
			x.pending = -1
		}
	}

	var seg strings.Builder
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '{':
			x.members(seg.String())
			seg.Reset()
			x.stack = append(x.stack, frame{enum: x.pending})
			x.pending = -1
		case '}':
			x.members(seg.String())
			seg.Reset()
			if len(x.stack) > 0 {
				x.stack = x.stack[:len(x.stack)-1]
			}
		default:
			seg.WriteByte(code[i])
		}
	}
	x.members(seg.String())
}

// members records enum member names found in a segment of an enum body.
func (x *extractor) members(seg string) {
	if !x.inEnum() {
		return
	}
	def := &x.file.Types[x.stack[len(x.stack)-1].enum]
	for _, part := range strings.Split(seg, ",") {
		part = stripAttributes(strings.TrimSpace(part))
		if i := strings.IndexByte(part, '='); i >= 0 {
			part = part[:i]
		}
		part = strings.TrimSpace(part)
		if isIdentifier(part) {
			def.Members = append(def.Members, part)
		}
	}
}

// stripBlockComments removes /* */ comments, which may span lines.
func (x *extractor) stripBlockComments(code string) string {
	var b strings.Builder
	for len(code) > 0 {
		if x.inBlock {
			end := strings.Index(code, "*/")
			if end < 0 {
				return b.String()
			}
			code = code[end+2:]
			x.inBlock = false
			continue
		}
		start := strings.Index(code, "/*")
		if start < 0 {
			b.WriteString(code)
			break
		}
		b.WriteString(code[:start])
		code = code[start+2:]
		x.inBlock = true
	}
	return b.String()
}

// stripCode blanks string and character literal contents and drops a
// trailing // comment so braces and keywords inside them are ignored.
func stripCode(l string) string { return scrub(l, true) }

// stripComment drops a trailing // comment and keeps literals intact.
func stripComment(l string) string { return scrub(l, false) }

func scrub(l string, blank bool) string {
	l = strings.TrimSuffix(l, "\r")
	var b strings.Builder
	for i := 0; i < len(l); i++ {
		c := l[i]
		switch {
		case c == '/' && i+1 < len(l) && l[i+1] == '/':
			return b.String()
		case c == '"' || c == '\'':
			j := literalEnd(l, i)
			if j >= len(l) {
				b.WriteString(l[i:])
				return b.String()
			}
			if blank {
				b.WriteByte(c)
				b.WriteString(strings.Repeat("_", j-i-1))
				b.WriteByte(c)
			} else {
				b.WriteString(l[i : j+1])
			}
			i = j
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// literalEnd returns the index of the quote closing the literal that opens
// at i, or len(s) when it is not closed on this line.
func literalEnd(s string, i int) int {
	q := s[i]
	verbatim := q == '"' && i > 0 && s[i-1] == '@'
	j := i + 1
	for j < len(s) {
		if s[j] == '\\' && !verbatim {
			j += 2
			continue
		}
		if s[j] == q {
			if verbatim && j+1 < len(s) && s[j+1] == '"' {
				j += 2
				continue
			}
			return j
		}
		j++
	}
	return len(s)
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	s = strings.TrimPrefix(s, "@")
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || i > 0 && c >= '0' && c <= '9' || c >= 0x80 {
			continue
		}
		return false
	}
	return true
}
