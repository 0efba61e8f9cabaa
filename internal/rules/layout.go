// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rules

import (
	"github.com/petar-djukic/doclint/internal/matcher"
	"github.com/petar-djukic/doclint/internal/xmldoc"
)

// checkSeparateLines reports multi-line summary and remarks blocks whose
// text shares a line with the opening or closing tag. One-line blocks are
// left alone.
func checkSeparateLines(c *Context) []matcher.Match {
	body := c.Doc.Body()
	var out []matcher.Match
	for _, block := range c.Doc.Root.Elements("summary", "remarks") {
		if block.SelfClosing || block.Unclosed || block.IsBlank() {
			continue
		}
		if c.Doc.LineOf(block.Start) == c.Doc.LineOf(block.End) {
			continue
		}
		first := skipSpace(body, block.InnerStart, block.InnerEnd)
		last := trimRight(body, block.InnerStart, block.InnerEnd)

		var edits []xmldoc.Edit
		if c.Doc.LineOf(first) == c.Doc.LineOf(block.InnerStart) {
			edits = append(edits, xmldoc.Edit{Start: block.InnerStart, End: first, Text: "\n"})
		}
		if c.Doc.LineOf(last) == c.Doc.LineOf(block.InnerEnd) {
			edits = append(edits, xmldoc.Edit{Start: last, End: block.InnerEnd, Text: "\n"})
		}
		if len(edits) == 0 {
			continue
		}
		m := c.Match(block, block.Start, block.End, "Place the <"+block.Name+"> text on its own lines", edits...)
		out = append(out, m)
	}
	return out
}

// Blocks searched for empty lines.
var proseTags = []string{"summary", "remarks", "returns", "param", "typeparam", "value", "exception", "example"}

// Elements that separate paragraphs by themselves.
var paragraphTags = []string{"para", "list", "code", "br"}

// checkEmptyLines reports runs of empty comment lines inside prose blocks.
// A run between two paragraphs becomes a <para/> separator; a run at the
// start or end of a block, or next to an element that already separates
// paragraphs, is removed.
func checkEmptyLines(c *Context) []matcher.Match {
	body := c.Doc.Body()
	var out []matcher.Match
	for _, block := range c.Doc.Root.Elements(proseTags...) {
		block.Walk(func(n *xmldoc.Node) bool {
			if n != block && n.IsElement("code") {
				return false
			}
			if n.Kind != xmldoc.KindText {
				return true
			}
			for _, run := range emptyLineRuns(body, n.Start, n.End) {
				text := "\n<para/>\n"
				if separatedAlready(body, block, n, run) {
					text = "\n"
				}
				out = append(out, c.Match(block, run[0], run[1], "Remove empty lines from <"+block.Name+">",
					xmldoc.Edit{Start: run[0], End: run[1], Text: text}))
			}
			return true
		})
	}
	return out
}

// emptyLineRuns finds the newline runs in [start, end) that enclose at
// least one whitespace-only line. Each run spans from the newline ending
// the last non-empty line to just past the newline before the next one.
func emptyLineRuns(body string, start, end int) [][2]int {
	var out [][2]int
	for i := start; i < end; i++ {
		if body[i] != '\n' {
			continue
		}
		last := -1
		for j := i + 1; ; {
			k := j
			for k < end && (body[k] == ' ' || body[k] == '\t') {
				k++
			}
			if k >= end || body[k] != '\n' {
				break
			}
			last = k
			j = k + 1
		}
		if last < 0 {
			continue
		}
		out = append(out, [2]int{i, last + 1})
		i = last
	}
	return out
}

// separatedAlready reports whether the run sits at the edge of the block or
// next to a paragraph-level element.
func separatedAlready(body string, block, text *xmldoc.Node, run [2]int) bool {
	if trimRight(body, block.InnerStart, run[0]) == block.InnerStart {
		return true
	}
	if trimRight(body, run[1], block.InnerEnd) == run[1] {
		return true
	}
	prev, next := siblings(text)
	if trimRight(body, text.Start, run[0]) == text.Start && prev.IsElement(paragraphTags...) {
		return true
	}
	if skipSpace(body, run[1], text.End) == text.End && next.IsElement(paragraphTags...) {
		return true
	}
	return false
}

func siblings(n *xmldoc.Node) (prev, next *xmldoc.Node) {
	if n.Parent == nil {
		return nil, nil
	}
	for i, c := range n.Parent.Children {
		if c != n {
			continue
		}
		if i > 0 {
			prev = n.Parent.Children[i-1]
		}
		if i+1 < len(n.Parent.Children) {
			next = n.Parent.Children[i+1]
		}
	}
	return prev, next
}
