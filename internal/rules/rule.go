// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package rules defines the built-in doc comment rules. Wording rules are
// data: their phrase tables live in the embedded catalog.yaml and run
// through the generic matcher. Layout rules and rules that need more than a
// phrase table (exception parameter lists, list items, optional parameter
// defaults) are structural checks that produce matches with explicit edits.
package rules

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"github.com/petar-djukic/doclint/internal/matcher"
	"github.com/petar-djukic/doclint/internal/phrase"
	"github.com/petar-djukic/doclint/internal/xmldoc"
	"github.com/petar-djukic/doclint/pkg/types"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Category groups rules in listings.
type Category string

const (
	CategoryLayout  Category = "layout"
	CategoryWording Category = "wording"
)

// Options tune rules that take parameters.
type Options struct {
	MaxSentenceWords int // Summary sentences longer than this are reported
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{MaxSentenceWords: 40}
}

// Context is the input of a structural check.
type Context struct {
	Doc     *xmldoc.Document
	Decl    *types.DeclarationContext
	Catalog *phrase.Catalog
	Options Options
	entry   *phrase.Entry
}

// Match builds a match for the running rule.
func (c *Context) Match(block *xmldoc.Node, start, end int, message string, edits ...xmldoc.Edit) matcher.Match {
	return matcher.Match{
		Entry:     c.entry,
		Node:      block,
		Start:     start,
		End:       end,
		HeadStart: start,
		TailEnd:   end,
		Captures:  map[string]string{},
		Message:   message,
		Edits:     edits,
	}
}

// Check is a structural rule implementation.
type Check func(c *Context) []matcher.Match

// Rule describes one rule. Rules with phrase entries in the catalog are
// matched through the matcher; Check adds structural findings.
type Rule struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Severity    types.Severity
	Fixable     bool  // The rule can offer fixes
	Check       Check // Structural check, nil for phrase-only rules
	// Canonical is the replacement template for structural matches that
	// carry captures instead of edits.
	Canonical string
}

// Set is a registry of rules bound to a phrase catalog.
type Set struct {
	catalog *phrase.Catalog
	options Options
	rules   map[string]*Rule
	entries map[string]*phrase.Entry // Synthetic entries for structural matches
}

// NewSet creates an empty rule set over a catalog.
func NewSet(catalog *phrase.Catalog, opts Options) *Set {
	if opts.MaxSentenceWords <= 0 {
		opts.MaxSentenceWords = DefaultOptions().MaxSentenceWords
	}
	return &Set{
		catalog: catalog,
		options: opts,
		rules:   make(map[string]*Rule),
		entries: make(map[string]*phrase.Entry),
	}
}

// Register adds a rule, replacing one with the same ID.
func (s *Set) Register(r *Rule) {
	s.rules[r.ID] = r
	s.entries[r.ID] = &phrase.Entry{ID: r.ID, Rule: r.ID, Family: r.ID, Canonical: r.Canonical, Title: r.Name}
}

// Rule looks a rule up by ID.
func (s *Set) Rule(id string) (*Rule, bool) {
	r, ok := s.rules[id]
	return r, ok
}

// Rules returns all rules sorted by ID.
func (s *Set) Rules() []*Rule {
	out := make([]*Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b *Rule) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// Catalog returns the phrase catalog the set matches with.
func (s *Set) Catalog() *phrase.Catalog { return s.catalog }

// Options returns the rule options in effect.
func (s *Set) Options() Options { return s.options }

// Run returns the matches of one rule for a declaration's comment.
func (s *Set) Run(r *Rule, doc *xmldoc.Document, decl *types.DeclarationContext) []matcher.Match {
	var out []matcher.Match
	if entries := s.catalog.ForRule(r.ID); len(entries) > 0 {
		out = matcher.Find(doc, entries, decl)
	}
	if r.Check != nil {
		ctx := &Context{Doc: doc, Decl: decl, Catalog: s.catalog, Options: s.options, entry: s.entries[r.ID]}
		out = append(out, r.Check(ctx)...)
	}
	return out
}

var (
	defaultCatalog     *phrase.Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// DefaultCatalog loads the embedded phrase catalog once per process.
func DefaultCatalog() (*phrase.Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = phrase.Load(bytes.NewReader(catalogYAML), Predicates())
		if defaultCatalogErr != nil {
			defaultCatalogErr = fmt.Errorf("loading built-in catalog: %w", defaultCatalogErr)
		}
	})
	return defaultCatalog, defaultCatalogErr
}

// Default returns the built-in rules over the embedded catalog.
func Default(opts Options) (*Set, error) {
	cat, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	s := NewSet(cat, opts)
	RegisterDefaultRules(s)
	return s, nil
}
