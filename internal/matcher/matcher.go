// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package matcher finds catalog phrases in parsed doc comments.
//
// Every entry is tried at its anchor: the first sentence of the summary,
// the start of a parameter or exception block, the words before a
// sentence's period, or anywhere in the text. Among the phrases of one
// entry the longest match wins; among entries of one family, overlapping
// matches are resolved by declaration-kind specificity, then by match
// length, then by catalog order.
package matcher

import (
	"sort"
	"strings"

	"github.com/petar-djukic/doclint/internal/phrase"
	"github.com/petar-djukic/doclint/internal/xmldoc"
	"github.com/petar-djukic/doclint/pkg/types"
)

// Match is one recognized phrase occurrence. Offsets are body offsets of
// the document the match was found in.
type Match struct {
	Entry     *phrase.Entry     // Entry whose phrase matched
	Node      *xmldoc.Node      // Block element holding the match
	Start     int               // First byte of the matched phrase
	End       int               // Just past the matched phrase
	HeadStart int               // Start of the sentence before the phrase (EndOfSentence)
	TailEnd   int               // Just past the rest of the sentence, period included
	Captures  map[string]string // Values for canonical placeholders
	Stage     Stage             // How the phrase matched
	Edits     []xmldoc.Edit     // Explicit replacement; set by structural checks
	Message   string            // Overrides the entry message when set
}

// Region returns the body range a fix for m replaces.
func (m Match) Region() (int, int) {
	if len(m.Edits) > 0 {
		start, end := m.Edits[0].Start, m.Edits[0].End
		for _, e := range m.Edits[1:] {
			start = min(start, e.Start)
			end = max(end, e.End)
		}
		return start, end
	}
	start, end := m.Start, m.End
	if m.Entry.UsesCapture("head") {
		start = m.HeadStart
	}
	if m.Entry.UsesCapture("tail") || m.Entry.Anchor == phrase.EndOfSentence {
		end = m.TailEnd
	}
	return start, end
}

// Overlaps reports whether two matches claim a common region. Matches
// starting at the same offset always overlap.
func (m Match) Overlaps(o Match) bool {
	as, ae := m.Region()
	bs, be := o.Region()
	if as == bs {
		return true
	}
	return as < be && bs < ae
}

// window is a stretch of body text in which one entry is tried.
type window struct {
	block    *xmldoc.Node
	start    int // Anchor offset
	limit    int // Phrases must end at or before this offset
	scope    phrase.Scope
	captures map[string]string
}

// Find returns the matches of entries in doc, with overlaps inside each
// family resolved, ordered by position and entry ID.
func Find(doc *xmldoc.Document, entries []*phrase.Entry, decl *types.DeclarationContext) []Match {
	var candidates []Match
	for _, e := range entries {
		for _, w := range windows(doc, e, decl) {
			if !e.Applicable(w.scope) {
				continue
			}
			candidates = append(candidates, matchWindow(doc, e, w)...)
		}
	}
	return Resolve(candidates)
}

// Resolve keeps, per family, the best of any overlapping matches and sorts
// the survivors by position.
func Resolve(candidates []Match) []Match {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if sa, sb := a.Entry.Specificity(), b.Entry.Specificity(); sa != sb {
			return sa > sb
		}
		if la, lb := a.End-a.Start, b.End-b.Start; la != lb {
			return la > lb
		}
		if a.Entry.Order() != b.Entry.Order() {
			return a.Entry.Order() < b.Entry.Order()
		}
		return a.Start < b.Start
	})

	var kept []Match
	for _, c := range candidates {
		clash := false
		for _, k := range kept {
			if k.Entry.Family == c.Entry.Family && k.Overlaps(c) {
				clash = true
				break
			}
		}
		if !clash {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Start != kept[j].Start {
			return kept[i].Start < kept[j].Start
		}
		return kept[i].Entry.ID < kept[j].Entry.ID
	})
	return kept
}

func windows(doc *xmldoc.Document, e *phrase.Entry, decl *types.DeclarationContext) []window {
	body := doc.Body()
	var out []window
	for _, block := range doc.Root.Elements(e.BlockTags()...) {
		scope := phrase.Scope{Decl: decl, Tag: block.Name}
		captures := baseCaptures(decl)
		if name, ok := block.Attr("name"); ok {
			captures["param"] = name
			if decl != nil {
				if p, ok := decl.Shape.Parameter(name); ok {
					scope.Param = &p
				}
			}
		}
		if cref, ok := block.Attr("cref"); ok {
			captures["cref"] = cref
			scope.Exception = cref
		}

		switch e.Anchor {
		case phrase.StartOfSummary:
			start := ContentStart(block, body)
			out = append(out, window{block: block, start: start, limit: sentenceLimit(body, start, block.InnerEnd), scope: scope, captures: captures})
			// A leading <see cref="..."/> may precede the phrase.
			if see := elementAt(block, start); see.IsElement("see") && see.SelfClosing {
				if cref, ok := see.Attr("cref"); ok {
					after := skipSpace(body, see.End, block.InnerEnd)
					c := clone(captures)
					c["cref"] = cref
					out = append(out, window{block: block, start: after, limit: sentenceLimit(body, after, block.InnerEnd), scope: scope, captures: c})
				}
			}
		case phrase.StartOfParamBlock, phrase.StartOfExceptionBlock:
			out = append(out, window{block: block, start: ContentStart(block, body), limit: block.InnerEnd, scope: scope, captures: captures})
		default:
			out = append(out, window{block: block, start: block.InnerStart, limit: block.InnerEnd, scope: scope, captures: captures})
		}
	}
	return out
}

func sentenceLimit(body string, from, limit int) int {
	_, stop := SentenceEnd(body, from, limit)
	return stop
}

func baseCaptures(decl *types.DeclarationContext) map[string]string {
	c := map[string]string{}
	if decl != nil {
		c["name"] = decl.Name
		if decl.Shape.ReturnType != "" {
			c["type"] = decl.Shape.ReturnType
		}
	}
	return c
}

func clone(m map[string]string) map[string]string {
	c := make(map[string]string, len(m)+4)
	for k, v := range m {
		c[k] = v
	}
	return c
}

func matchWindow(doc *xmldoc.Document, e *phrase.Entry, w window) []Match {
	switch e.Anchor {
	case phrase.EndOfSentence:
		return matchSentenceEnds(doc, e, w)
	case phrase.Anywhere:
		return matchAnywhere(doc, e, w)
	}
	if m, ok := matchStart(doc, e, w, w.start); ok {
		return []Match{m}
	}
	return nil
}

// matchStart tries the entry's phrases at offset at.
func matchStart(doc *xmldoc.Document, e *phrase.Entry, w window, at int) (Match, bool) {
	body := doc.Body()
	end, _, stage, ok := longestAt(body, at, e.Variants, e.IgnoreCase)
	if !ok || end > w.limit {
		return Match{}, false
	}
	if accepted, _, _, hit := longestAt(body, at, e.Accepted, e.IgnoreCase); hit && accepted >= end && accepted > at {
		return Match{}, false
	}

	m := Match{Entry: e, Node: w.block, Start: at, End: end, HeadStart: at, Stage: stage, Captures: clone(w.captures)}
	m.Captures["match"] = body[at:end]
	tail, tailEnd := extractTail(body, end, w.block.InnerEnd, e.TrimSuffixes)
	if end == at && strings.TrimSpace(tail) == "" {
		// A catch-all phrase needs something to rewrite.
		return Match{}, false
	}
	m.TailEnd = tailEnd
	if tail != "" {
		m.Captures["tail"] = tail
	}
	return m, true
}

// extractTail returns the remainder of the sentence after offset from and
// the offset just past it, period included. The returned text excludes
// the period and any configured trailing phrases.
func extractTail(body string, from, limit int, trims []string) (string, int) {
	ts := skipSpace(body, from, limit)
	dot, stop := SentenceEnd(body, from, limit)
	var text string
	var end int
	if dot >= 0 {
		text, end = body[ts:trimRight(body, ts, dot)], dot+1
	} else {
		end = trimRight(body, ts, stop)
		text = body[ts:end]
	}
	if end < from {
		end = from
	}
	return trimSuffixes(text, trims), end
}

func trimSuffixes(text string, trims []string) string {
	for changed := true; changed; {
		changed = false
		lower := strings.ToLower(text)
		for _, s := range trims {
			if s != "" && strings.HasSuffix(lower, strings.ToLower(s)) {
				text = strings.TrimRight(text[:len(text)-len(s)], " \t\n\r,;")
				changed = true
				break
			}
		}
	}
	return text
}

// matchSentenceEnds tries the entry's phrases as the last words of every
// sentence in the window.
func matchSentenceEnds(doc *xmldoc.Document, e *phrase.Entry, w window) []Match {
	body := doc.Body()
	var out []Match
	from := ContentStart(w.block, body)
	for from < w.limit {
		dot, stop := SentenceEnd(body, from, w.limit)
		phraseEnd := trimRight(body, from, stop)
		if dot >= 0 {
			phraseEnd = trimRight(body, from, dot)
		}
		if m, ok := matchEnding(doc, e, w, from, phraseEnd); ok {
			m.TailEnd = stop
			out = append(out, m)
		}
		next := stop
		if dot < 0 {
			gt := strings.IndexByte(body[stop:w.limit], '>')
			if gt < 0 {
				break
			}
			next = stop + gt + 1
		}
		if next <= from {
			break
		}
		from = skipSpace(body, next, w.limit)
	}
	return out
}

// matchEnding finds the longest phrase ending exactly at phraseEnd within
// the sentence starting at sentenceStart.
func matchEnding(doc *xmldoc.Document, e *phrase.Entry, w window, sentenceStart, phraseEnd int) (Match, bool) {
	body := doc.Body()
	for _, fold := range []bool{false, true} {
		if fold && !e.IgnoreCase {
			break
		}
		for s := sentenceStart; s < phraseEnd; s++ {
			if !wordStart(body, s) || isSpace(body[s]) {
				continue
			}
			hit := false
			for _, v := range e.Variants {
				if v == "" {
					continue
				}
				if end, ok := matchAt(body, s, v, fold); ok && end == phraseEnd {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
			if end, _, _, ok := longestAt(body, s, e.Accepted, e.IgnoreCase); ok && end >= phraseEnd {
				return Match{}, false
			}
			stage := StageExact
			if fold {
				stage = StageFolded
			}
			m := Match{Entry: e, Node: w.block, Start: s, End: phraseEnd, HeadStart: sentenceStart, Stage: stage, Captures: clone(w.captures)}
			m.Captures["match"] = body[s:phraseEnd]
			if head := body[sentenceStart:trimRight(body, sentenceStart, s)]; head != "" {
				m.Captures["head"] = head
			}
			return m, true
		}
	}
	return Match{}, false
}

// Elements whose text is code or a reference and is never rewritten.
var codeTags = []string{"c", "code", "see", "seealso", "paramref", "typeparamref"}

// matchAnywhere tries the entry's phrases at every word start of the text
// nodes in the window, skipping code and occurrences of accepted phrases.
func matchAnywhere(doc *xmldoc.Document, e *phrase.Entry, w window) []Match {
	body := doc.Body()
	var texts []*xmldoc.Node
	w.block.Walk(func(n *xmldoc.Node) bool {
		if n != w.block && n.IsElement(codeTags...) {
			return false
		}
		if n.Kind == xmldoc.KindText {
			texts = append(texts, n)
		}
		return true
	})

	var accepted [][2]int
	for _, t := range texts {
		for i := t.Start; i < t.End; i++ {
			if !wordStart(body, i) {
				continue
			}
			if end, _, _, ok := longestAt(body, i, e.Accepted, e.IgnoreCase); ok && end > i {
				accepted = append(accepted, [2]int{i, end})
			}
		}
	}
	inAccepted := func(s, end int) bool {
		for _, a := range accepted {
			if s < a[1] && a[0] < end {
				return true
			}
		}
		return false
	}

	var out []Match
	for _, t := range texts {
		for i := t.Start; i < t.End; i++ {
			if isSpace(body[i]) || !wordStart(body, i) {
				continue
			}
			end, _, stage, ok := longestAt(body, i, e.Variants, e.IgnoreCase)
			if !ok || end <= i || end > w.limit || inAccepted(i, end) {
				continue
			}
			m := Match{Entry: e, Node: w.block, Start: i, End: end, HeadStart: i, TailEnd: end, Stage: stage, Captures: clone(w.captures)}
			m.Captures["match"] = body[i:end]
			if e.UsesCapture("tail") {
				tail, tailEnd := extractTail(body, end, w.limit, e.TrimSuffixes)
				if tail == "" {
					continue
				}
				m.Captures["tail"] = tail
				m.TailEnd = tailEnd
			}
			out = append(out, m)
			i = end - 1
		}
	}
	return out
}
