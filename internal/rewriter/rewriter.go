// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package rewriter turns matches into edits of a comment document.
package rewriter

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/petar-djukic/doclint/internal/matcher"
	"github.com/petar-djukic/doclint/internal/phrase"
	"github.com/petar-djukic/doclint/internal/xmldoc"
)

// ErrNoFix is returned for matches of rules that only report.
var ErrNoFix = errors.New("rule offers no fix")

// AmbiguousFixError reports a match whose captures are not enough to build
// the canonical replacement. Such matches are reported without a fix.
type AmbiguousFixError struct {
	Rule    string
	Missing []string
}

func (e *AmbiguousFixError) Error() string {
	return fmt.Sprintf("%s: cannot build replacement, missing %s", e.Rule, strings.Join(e.Missing, ", "))
}

// Edits returns the body edits that fix m. Structural matches carry their
// edits; phrase matches render the entry's canonical phrase over the
// match region. A phrase found inside a sentence starts lower case.
func Edits(doc *xmldoc.Document, m matcher.Match) ([]xmldoc.Edit, error) {
	if len(m.Edits) > 0 {
		return m.Edits, nil
	}
	if m.Entry == nil {
		return nil, &AmbiguousFixError{Missing: []string{"entry"}}
	}
	if m.Entry.Canonical == "" {
		return nil, ErrNoFix
	}
	text, missing := phrase.Render(m.Entry.Canonical, m.Captures)
	if len(missing) > 0 {
		return nil, &AmbiguousFixError{Rule: m.Entry.Rule, Missing: missing}
	}
	start, end := m.Region()
	if m.Entry.Anchor == phrase.Anywhere && m.Node != nil && matcher.SentenceStart(doc.Body(), m.Node, start) != start {
		text = phrase.LowerFirst(text)
	}
	if doc.Slice(start, end) == text {
		return nil, nil
	}
	return []xmldoc.Edit{{Start: start, End: end, Text: text}}, nil
}

// Apply returns a new document with the fix for m applied.
func Apply(doc *xmldoc.Document, m matcher.Match) (*xmldoc.Document, error) {
	edits, err := Edits(doc, m)
	if err != nil {
		return nil, err
	}
	if len(edits) == 0 {
		return doc, nil
	}
	pending, err := doc.Apply(edits...)
	if err != nil {
		return nil, err
	}
	return pending.Commit()
}

// ApplyAll applies the fixes of every match it can in one pass. Matches
// without a fix, matches whose edits overlap an earlier accepted fix and
// matches inserting text at the boundary of an accepted fix are skipped
// and returned. The caller re-evaluates them against the rewritten text.
func ApplyAll(doc *xmldoc.Document, matches []matcher.Match) (*xmldoc.Document, []matcher.Match, error) {
	ordered := append([]matcher.Match(nil), matches...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })

	pending := doc
	var accepted []xmldoc.Edit
	var skipped []matcher.Match
	for _, m := range ordered {
		edits, err := Edits(doc, m)
		if err != nil || len(edits) == 0 || touches(accepted, edits) {
			skipped = append(skipped, m)
			continue
		}
		next, err := pending.Apply(edits...)
		if errors.Is(err, xmldoc.ErrOverlappingEdit) {
			skipped = append(skipped, m)
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		pending = next
		accepted = append(accepted, edits...)
	}
	out, err := pending.Commit()
	if err != nil {
		return nil, nil, err
	}
	return out, skipped, nil
}

// touches reports whether an insertion in edits sits on the boundary of an
// accepted edit, or an accepted insertion sits on the boundary of one of
// edits. Both fixes would then write text at the same offset.
func touches(accepted, edits []xmldoc.Edit) bool {
	for _, e := range edits {
		for _, a := range accepted {
			if e.Start == e.End && (e.Start == a.Start || e.Start == a.End) {
				return true
			}
			if a.Start == a.End && (a.Start == e.Start || a.Start == e.End) {
				return true
			}
		}
	}
	return false
}
