// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rules

import (
	"fmt"

	"github.com/petar-djukic/doclint/internal/matcher"
)

// checkLongSentences reports summary sentences with more words than
// Options.MaxSentenceWords.
func checkLongSentences(c *Context) []matcher.Match {
	body := c.Doc.Body()
	var out []matcher.Match
	for _, block := range c.Doc.Root.Elements("summary") {
		for _, s := range sentences(body, block) {
			n := countWords(body[s[0]:s[1]])
			if n <= c.Options.MaxSentenceWords {
				continue
			}
			msg := fmt.Sprintf("Sentence has %d words; split it into sentences of at most %d", n, c.Options.MaxSentenceWords)
			out = append(out, c.Match(block, s[0], s[1], msg))
		}
	}
	return out
}
