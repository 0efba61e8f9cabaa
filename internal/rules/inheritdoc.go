// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rules

import (
	"strings"

	"github.com/petar-djukic/doclint/internal/matcher"
	"github.com/petar-djukic/doclint/internal/xmldoc"
)

// checkReferenceSummary reports summaries that only send the reader to
// another member, such as "See <see cref="Run"/>." or
// "<see cref="Run"/> for details.", and replaces them with
// <inheritdoc cref="Run"/>.
func checkReferenceSummary(c *Context) []matcher.Match {
	body := c.Doc.Body()
	var out []matcher.Match
	for _, block := range c.Doc.Root.Elements("summary") {
		if block.SelfClosing {
			continue
		}
		pos := matcher.ContentStart(block, body)
		lead := false
		if end, ok := matcher.PhraseAt(body, pos, c.Catalog.Vocabulary("refer-elsewhere"), true); ok && end > pos {
			pos, lead = skipSpace(body, end, block.InnerEnd), true
		}
		ref := matcher.ElementAt(block, pos)
		if !ref.IsElement("see", "seealso") || !ref.SelfClosing {
			continue
		}
		cref, ok := ref.Attr("cref")
		if !ok || cref == "" {
			continue
		}
		pos = skipSpace(body, ref.End, block.InnerEnd)
		trail := false
		if end, ok := matcher.PhraseAt(body, pos, c.Catalog.Vocabulary("refer-elsewhere-endings"), true); ok && end > pos {
			pos, trail = end, true
		}
		if !lead && !trail || !onlyClosers(body[pos:block.InnerEnd]) {
			continue
		}
		out = append(out, c.Match(block, block.Start, block.End, "Replace a summary that only refers to "+cref+" with <inheritdoc>",
			xmldoc.Edit{Start: block.Start, End: block.End, Text: xmldoc.EmptyElement("inheritdoc", xmldoc.Attr{Name: "cref", Value: cref})}))
	}
	return out
}

// onlyClosers reports whether s holds nothing but whitespace, periods and
// closing </para> tags.
func onlyClosers(s string) bool {
	for {
		s = strings.TrimLeft(s, " \t\r\n.")
		if s == "" {
			return true
		}
		if !strings.HasPrefix(s, "</para>") {
			return false
		}
		s = s[len("</para>"):]
	}
}
