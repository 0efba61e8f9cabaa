// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package editor

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const defaultFuzzyThreshold = 0.8

// Stage is the matching stage that located a comment.
type Stage int

const (
	StageExact Stage = iota
	StageWhitespaceNormalized
	StageFuzzy
)

func (s Stage) String() string {
	switch s {
	case StageExact:
		return "exact"
	case StageWhitespaceNormalized:
		return "whitespace"
	case StageFuzzy:
		return "fuzzy"
	}
	return "unknown"
}

// matchResult holds the outcome of a single match attempt.
type matchResult struct {
	start      int     // Byte offset of the match start in the content
	end        int     // Byte offset of the match end in the content
	stage      Stage   // Which stage found the match
	similarity float64 // Similarity score (1.0 for exact and whitespace)
}

// findMatch runs the three matching stages in order against content,
// returning the first successful match. Within a stage the candidate
// nearest to line wins. Returns nil if no stage matches.
func findMatch(content, search string, line int, fuzzyThreshold float64) *matchResult {
	if search == "" {
		return nil
	}
	if m := exactMatch(content, search, line); m != nil {
		return m
	}
	if m := whitespaceNormalizedMatch(content, search, line); m != nil {
		return m
	}
	return fuzzyMatch(content, search, line, fuzzyThreshold)
}

// distance is how far a candidate starting at 1-based line l is from the
// hint. Without a hint every candidate is equally near.
func distance(l, hint int) int {
	if hint <= 0 {
		return 0
	}
	if l > hint {
		return l - hint
	}
	return hint - l
}

// exactMatch attempts a byte-for-byte substring match.
func exactMatch(content, search string, line int) *matchResult {
	var best *matchResult
	bestDist := 0
	for from := 0; from <= len(content); {
		idx := strings.Index(content[from:], search)
		if idx < 0 {
			break
		}
		idx += from
		d := distance(countLines(content, idx), line)
		if best == nil || d < bestDist {
			best = &matchResult{start: idx, end: idx + len(search), stage: StageExact, similarity: 1.0}
			bestDist = d
		}
		from = idx + 1
	}
	return best
}

// whitespaceNormalizedMatch collapses runs of whitespace in both content
// and search text, then finds the match by comparing normalized lines.
// When found, it maps back to the original content line boundaries.
func whitespaceNormalizedMatch(content, search string, line int) *matchResult {
	normSearchLines := normalizeLines(search)
	if len(normSearchLines) == 0 {
		return nil
	}

	contentLines := strings.Split(content, "\n")
	normContentLines := make([]string, len(contentLines))
	for i, l := range contentLines {
		normContentLines[i] = collapseSpaces(strings.TrimSpace(l))
	}

	// Slide a window of len(normSearchLines) over normContentLines.
	searchLen := len(normSearchLines)
	var best *matchResult
	bestDist := 0
	for i := 0; i <= len(normContentLines)-searchLen; i++ {
		match := true
		for j := 0; j < searchLen; j++ {
			if normContentLines[i+j] != normSearchLines[j] {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if d := distance(i+1, line); best == nil || d < bestDist {
			start := byteOffsetOfLine(contentLines, i)
			end := byteOffsetOfLine(contentLines, i+searchLen-1) + len(contentLines[i+searchLen-1])
			best = &matchResult{start: start, end: end, stage: StageWhitespaceNormalized, similarity: 1.0}
			bestDist = d
		}
	}
	return best
}

// normalizeLines splits text into lines and normalizes each line by
// trimming whitespace and collapsing runs of spaces.
func normalizeLines(s string) []string {
	lines := strings.Split(s, "\n")
	// Remove trailing empty line from a terminal newline.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	result := make([]string, len(lines))
	for i, l := range lines {
		result[i] = collapseSpaces(strings.TrimSpace(l))
	}
	return result
}

// fuzzyMatch scans content for the region most similar to search,
// returning a match only if the similarity meets the threshold.
func fuzzyMatch(content, search string, line int, threshold float64) *matchResult {
	if content == "" {
		return nil
	}

	contentLines := strings.Split(content, "\n")
	searchLen := len(strings.Split(search, "\n"))
	if searchLen > len(contentLines) {
		return nil
	}

	var best *matchResult
	bestDist := 0
	for i := 0; i <= len(contentLines)-searchLen; i++ {
		candidate := strings.Join(contentLines[i:i+searchLen], "\n")
		sim := similarity(candidate, search)
		if sim < threshold {
			continue
		}
		d := distance(i+1, line)
		if best == nil || sim > best.similarity || sim == best.similarity && d < bestDist {
			start := byteOffsetOfLine(contentLines, i)
			best = &matchResult{start: start, end: start + len(candidate), stage: StageFuzzy, similarity: sim}
			bestDist = d
		}
	}
	return best
}

// findClosestMatch finds the best partial match in content for diagnostics.
// Returns the closest match text, its similarity, and line range.
func findClosestMatch(content, search string) (closest string, sim float64, lineStart, lineEnd int) {
	if search == "" || content == "" {
		return "", 0, 0, 0
	}

	contentLines := strings.Split(content, "\n")
	searchLen := len(strings.Split(search, "\n"))
	if searchLen > len(contentLines) {
		searchLen = len(contentLines)
	}

	var bestSim float64
	var bestStart int
	for i := 0; i <= len(contentLines)-searchLen; i++ {
		candidate := strings.Join(contentLines[i:i+searchLen], "\n")
		if s := similarity(candidate, search); s > bestSim {
			bestSim = s
			bestStart = i
		}
	}

	if bestSim > 0 {
		closest = strings.Join(contentLines[bestStart:bestStart+searchLen], "\n")
		return closest, bestSim, bestStart + 1, bestStart + searchLen
	}
	return "", 0, 0, 0
}

// similarity computes the Levenshtein-based similarity ratio between two strings
// using the go-diff library. Returns a value between 0.0 and 1.0.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// collapseSpaces replaces runs of spaces and tabs with a single space.
func collapseSpaces(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
		} else {
			b.WriteRune(r)
			inSpace = false
		}
	}
	return b.String()
}

// byteOffsetOfLine returns the byte offset of the start of line idx
// in the content reconstructed from lines.
func byteOffsetOfLine(lines []string, idx int) int {
	offset := 0
	for i := 0; i < idx; i++ {
		offset += len(lines[i]) + 1 // +1 for newline
	}
	return offset
}
