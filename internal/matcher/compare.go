// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package matcher

import (
	"unicode"
	"unicode/utf8"
)

// Stage records how a phrase matched.
type Stage int

const (
	StageExact  Stage = iota // Same characters; whitespace runs compare equal
	StageFolded              // Equal under Unicode case folding
)

func (s Stage) String() string {
	if s == StageFolded {
		return "folded"
	}
	return "exact"
}

// matchAt compares phrase against text starting at offset i. A run of
// whitespace in the phrase matches any non-empty whitespace run in the text,
// so phrases match across comment line breaks. It returns the offset just
// past the matched text.
func matchAt(text string, i int, phrase string, fold bool) (int, bool) {
	j, k := 0, i
	for j < len(phrase) {
		if isSpace(phrase[j]) {
			for j < len(phrase) && isSpace(phrase[j]) {
				j++
			}
			if k >= len(text) || !isSpace(text[k]) {
				return 0, false
			}
			for k < len(text) && isSpace(text[k]) {
				k++
			}
			continue
		}
		if k >= len(text) {
			return 0, false
		}
		pr, pn := utf8.DecodeRuneInString(phrase[j:])
		tr, tn := utf8.DecodeRuneInString(text[k:])
		if pr != tr && !(fold && equalFold(pr, tr)) {
			return 0, false
		}
		j += pn
		k += tn
	}
	// A phrase ending in a word character must end on a word boundary.
	if len(phrase) > 0 && k < len(text) {
		last, _ := utf8.DecodeLastRuneInString(phrase)
		next, _ := utf8.DecodeRuneInString(text[k:])
		if isWordRune(last) && isWordRune(next) {
			return 0, false
		}
	}
	return k, true
}

// longestAt tries every phrase at offset i, first exactly and then, when
// fold is set, case-insensitively. It returns the longest match found by
// the earliest successful stage.
func longestAt(text string, i int, phrases []string, fold bool) (end int, phrase string, stage Stage, ok bool) {
	end = -1
	for _, p := range phrases {
		if e, hit := matchAt(text, i, p, false); hit && e > end {
			end, phrase, ok = e, p, true
		}
	}
	if ok || !fold {
		return end, phrase, StageExact, ok
	}
	for _, p := range phrases {
		if e, hit := matchAt(text, i, p, true); hit && e > end {
			end, phrase, ok = e, p, true
		}
	}
	return end, phrase, StageFolded, ok
}

func equalFold(a, b rune) bool {
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// Hyphens count as word characters so "null" never matches inside
// "null-terminated".
func isWordRune(r rune) bool {
	return r == '_' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordStart reports whether offset i begins a word (or a tag).
func wordStart(text string, i int) bool {
	if i == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(prev)
}

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

// PhraseAt returns the end of the longest of phrases found at offset i of
// text, with the same whitespace and word-boundary rules catalog entries
// match by.
func PhraseAt(text string, i int, phrases []string, fold bool) (int, bool) {
	end, _, _, ok := longestAt(text, i, phrases, fold)
	return end, ok
}
