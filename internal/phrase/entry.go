// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package phrase holds the phrase catalog: the per-rule tables of recognized
// wordings, their canonical replacements, and the predicates deciding which
// declarations an entry applies to. Entries are built once when the catalog
// is loaded and are read-only afterwards, so a catalog can be shared by any
// number of concurrent analyses.
package phrase

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/petar-djukic/doclint/pkg/types"
)

// ErrInvalidCatalog is returned when catalog data is inconsistent.
var ErrInvalidCatalog = errors.New("invalid phrase catalog")

// Anchor is the structural position at which an entry's phrases are tried.
type Anchor int

const (
	StartOfSummary        Anchor = iota // First sentence of <summary>
	EndOfSentence                       // Last words before a sentence's period
	Anywhere                            // Any text position in the selected blocks
	StartOfParamBlock                   // Start of <param> (or another block tag named by the entry)
	StartOfExceptionBlock               // Start of <exception>
)

var anchorNames = [...]string{"start-of-summary", "end-of-sentence", "anywhere", "start-of-param-block", "start-of-exception-block"}

func (a Anchor) String() string {
	if a < 0 || int(a) >= len(anchorNames) {
		return "unknown"
	}
	return anchorNames[a]
}

// ParseAnchor maps a catalog anchor name to its value.
func ParseAnchor(s string) (Anchor, error) {
	for i, name := range anchorNames {
		if s == name {
			return Anchor(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown anchor %q", ErrInvalidCatalog, s)
}

// Scope is what an applicability predicate sees.
type Scope struct {
	Decl      *types.DeclarationContext // Declaration under analysis
	Tag       string                    // Block element the match is tried in
	Param     *types.Parameter          // Parameter documented by a <param> block, if resolved
	Exception string                    // cref of an <exception> block
}

// Predicate decides whether an entry applies in a scope.
type Predicate func(Scope) bool

// And combines predicates; all must hold.
func And(preds ...Predicate) Predicate {
	return func(s Scope) bool {
		for _, p := range preds {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return func(s Scope) bool { return !p(s) }
}

// Entry is one catalog entry: the wordings a rule recognizes at an anchor
// and the canonical phrase they are rewritten into.
type Entry struct {
	ID           string                  // Unique entry identifier, e.g. "DL2001.used-to"
	Rule         string                  // Owning rule, e.g. "DL2001"
	Family       string                  // Overlap group; matches of one family never overlap
	Anchor       Anchor                  // Where phrases are tried
	Tags         []string                // Block elements searched; defaults depend on the anchor
	Kinds        []types.DeclarationKind // Declaration kinds; empty means all
	Canonical    string                  // Replacement template with {capture|fn} placeholders
	Variants     []string                // Recognized non-canonical phrases, sorted, de-duplicated
	Accepted     []string                // Already-canonical phrases that suppress a match at the same place
	TrimSuffixes []string                // Endings removed from the captured tail before splicing
	IgnoreCase   bool                    // Retry case-insensitively when no variant matches exactly
	Applies      Predicate               // Additional applicability test; nil means always
	Message      string                  // Diagnostic message; placeholders allowed
	Title        string                  // Code fix title

	order int // Position in the catalog, the final tie-breaker
}

// Applicable reports whether the entry participates for the scope.
func (e *Entry) Applicable(s Scope) bool {
	if len(e.Kinds) > 0 && (s.Decl == nil || !slices.Contains(e.Kinds, s.Decl.Kind)) {
		return false
	}
	return e.Applies == nil || e.Applies(s)
}

// Specificity ranks member-specific entries above generic ones. An entry
// limited to fewer declaration kinds is more specific.
func (e *Entry) Specificity() int {
	if len(e.Kinds) == 0 {
		return 0
	}
	return 10 - len(e.Kinds)
}

// Order returns the entry's position in its catalog.
func (e *Entry) Order() int { return e.order }

// BlockTags returns the element names searched for this entry.
func (e *Entry) BlockTags() []string {
	if len(e.Tags) > 0 {
		return e.Tags
	}
	switch e.Anchor {
	case StartOfSummary:
		return []string{"summary"}
	case StartOfParamBlock:
		return []string{"param"}
	case StartOfExceptionBlock:
		return []string{"exception"}
	}
	return []string{"summary", "remarks", "param", "typeparam", "returns", "value", "exception"}
}

// UsesCapture reports whether the canonical phrase refers to a capture.
func (e *Entry) UsesCapture(name string) bool {
	for _, p := range placeholders(e.Canonical) {
		if p.name == name {
			return true
		}
	}
	return false
}

// Catalog is an immutable, ordered set of entries plus named phrase lists
// that structural rules consult.
type Catalog struct {
	Version    string
	entries    []*Entry
	byRule     map[string][]*Entry
	vocabulary map[string][]string
}

// NewCatalog validates entries and freezes them into a catalog.
func NewCatalog(version string, entries ...*Entry) (*Catalog, error) {
	c := &Catalog{Version: version, byRule: make(map[string][]*Entry)}
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.ID == "" || e.Rule == "" {
			return nil, fmt.Errorf("%w: entry %d has no id or rule", ErrInvalidCatalog, i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrInvalidCatalog, e.ID)
		}
		seen[e.ID] = true
		if len(e.Variants) == 0 {
			return nil, fmt.Errorf("%w: entry %q recognizes no phrases", ErrInvalidCatalog, e.ID)
		}
		for _, p := range placeholders(e.Canonical) {
			for _, fn := range p.fns {
				if _, ok := transforms[fn]; !ok {
					return nil, fmt.Errorf("%w: entry %q uses unknown transform %q", ErrInvalidCatalog, e.ID, fn)
				}
			}
		}
		if e.Family == "" {
			e.Family = e.Rule
		}
		e.order = i
		c.entries = append(c.entries, e)
		c.byRule[e.Rule] = append(c.byRule[e.Rule], e)
	}
	return c, nil
}

// Entries returns all entries in catalog order.
func (c *Catalog) Entries() []*Entry { return c.entries }

// ForRule returns the entries owned by a rule.
func (c *Catalog) ForRule(rule string) []*Entry { return c.byRule[rule] }

// Entry looks an entry up by ID.
func (c *Catalog) Entry(id string) *Entry {
	for _, e := range c.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Vocabulary returns a named phrase list, expanded like entry phrases.
func (c *Catalog) Vocabulary(name string) []string { return c.vocabulary[name] }

// Rules lists the rule IDs with entries, sorted.
func (c *Catalog) Rules() []string {
	ids := make([]string, 0, len(c.byRule))
	for id := range c.byRule {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s(%s, %d phrases -> %q)", e.ID, e.Anchor, len(e.Variants), strings.TrimSpace(e.Canonical))
}
