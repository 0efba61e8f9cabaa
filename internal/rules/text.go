// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rules

import (
	"strings"
	"unicode"

	"github.com/petar-djukic/doclint/internal/matcher"
	"github.com/petar-djukic/doclint/internal/xmldoc"
)

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipSpace(s string, i, limit int) int {
	for i < limit && isSpace(s[i]) {
		i++
	}
	return i
}

func trimRight(s string, start, end int) int {
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return end
}

// squash collapses whitespace runs to single spaces.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sentences splits the content of block into sentence ranges. Each range
// starts at the first word of a sentence and ends just past its period, or
// where a paragraph boundary interrupts it.
func sentences(body string, block *xmldoc.Node) [][2]int {
	var out [][2]int
	from := matcher.ContentStart(block, body)
	limit := block.InnerEnd
	for from < limit {
		dot, stop := matcher.SentenceEnd(body, from, limit)
		end := stop
		if dot < 0 {
			end = trimRight(body, from, stop)
		}
		if end > from {
			out = append(out, [2]int{from, end})
		}
		next := stop
		if dot < 0 {
			gt := strings.IndexByte(body[stop:limit], '>')
			if gt < 0 {
				break
			}
			next = stop + gt + 1
		}
		if next <= from {
			break
		}
		from = skipSpace(body, next, limit)
	}
	return out
}

// countWords counts the words of a body range. Markup is not counted,
// except that a self-closing reference such as <see cref="T"/> reads as
// one word.
func countWords(s string) int {
	n := 0
	inWord := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '<' {
			gt := strings.IndexByte(s[i:], '>')
			if gt < 0 {
				break
			}
			if gt > 0 && s[i+gt-1] == '/' {
				n++
			}
			inWord = false
			i += gt
			continue
		}
		if isSpace(c) {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

// words returns the identifier-like words of s with their offsets, markup
// excluded.
func words(s string) []wordAt {
	var out []wordAt
	start := -1
	flush := func(end int) {
		if start >= 0 {
			out = append(out, wordAt{text: s[start:end], at: start})
			start = -1
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '<' {
			flush(i)
			gt := strings.IndexByte(s[i:], '>')
			if gt < 0 {
				break
			}
			i += gt
			continue
		}
		if c == '_' || c == '@' || c >= 0x80 || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(s))
	return out
}

type wordAt struct {
	text string
	at   int
}
