// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package matcher

import (
	"strings"

	"github.com/petar-djukic/doclint/internal/xmldoc"
)

// Tags whose start or end interrupts a sentence.
var boundaryTags = map[string]bool{"para": true, "list": true, "code": true, "br": true}

// Tags whose content never holds sentence punctuation.
var opaqueTags = map[string]bool{"c": true, "code": true}

// SentenceEnd scans the body from offset from up to limit for the end of
// the current sentence. A period ends a sentence when it is followed by
// whitespace, markup, or the limit. It returns the period's offset, or -1
// and the offset where the sentence stops without one (a paragraph
// boundary or the limit). Markup and the content of <c> and <code> are
// skipped.
func SentenceEnd(body string, from, limit int) (dot, stop int) {
	for k := from; k < limit; k++ {
		switch body[k] {
		case '.':
			if k+1 >= limit || isSpace(body[k+1]) || body[k+1] == '<' {
				return k, k + 1
			}
		case '<':
			name, closing := tagAt(body, k)
			if name == "" {
				continue
			}
			if boundaryTags[name] && k > from {
				return -1, k
			}
			gt := strings.IndexByte(body[k:limit], '>')
			if gt < 0 {
				return -1, limit
			}
			selfClosing := gt > 0 && body[k+gt-1] == '/'
			k += gt
			if opaqueTags[name] && !closing && !selfClosing {
				end := strings.Index(body[k:limit], "</"+name)
				if end < 0 {
					return -1, limit
				}
				k += end - 1
			}
		}
	}
	return -1, limit
}

// tagAt reads the element name of a tag starting at '<' offset k.
func tagAt(body string, k int) (name string, closing bool) {
	i := k + 1
	if i < len(body) && body[i] == '/' {
		closing = true
		i++
	}
	j := i
	for j < len(body) && (isAlnum(body[j]) || body[j] == '-' || body[j] == '_' || body[j] == ':') {
		j++
	}
	return body[i:j], closing
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// ContentStart returns the offset where the author's text in block begins:
// leading whitespace and opening <para> tags are skipped.
func ContentStart(block *xmldoc.Node, body string) int {
	pos := skipSpace(body, block.InnerStart, block.InnerEnd)
	for {
		para := elementAt(block, pos)
		if para == nil || !para.IsElement("para") || para.SelfClosing {
			return pos
		}
		pos = skipSpace(body, para.InnerStart, para.InnerEnd)
	}
}

// elementAt returns the descendant element starting exactly at pos.
func elementAt(block *xmldoc.Node, pos int) *xmldoc.Node {
	var found *xmldoc.Node
	block.Walk(func(n *xmldoc.Node) bool {
		if found != nil || n.End <= pos && n != block {
			return false
		}
		if n != block && n.Kind == xmldoc.KindElement && n.Start == pos {
			found = n
			return false
		}
		return true
	})
	return found
}

// ElementAt is elementAt for callers outside the package.
func ElementAt(block *xmldoc.Node, pos int) *xmldoc.Node { return elementAt(block, pos) }

// SentenceStart walks back from offset at to the start of its sentence
// within block: just after the previous sentence-ending period or boundary
// tag, with whitespace skipped.
func SentenceStart(body string, block *xmldoc.Node, at int) int {
	start := ContentStart(block, body)
	for {
		dot, stop := SentenceEnd(body, start, at)
		if dot < 0 && stop >= at {
			return start
		}
		next := stop
		if dot < 0 {
			// Paragraph boundary: move past the tag.
			gt := strings.IndexByte(body[stop:at], '>')
			if gt < 0 {
				return start
			}
			next = stop + gt + 1
		}
		if next <= start {
			return start
		}
		start = skipSpace(body, next, at)
	}
}
