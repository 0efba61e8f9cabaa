// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package phrase

import (
	"fmt"
	"io"
	"strings"

	"github.com/petar-djukic/doclint/pkg/types"
	"gopkg.in/yaml.v3"
)

// Predicates names the applicability tests catalog files may refer to.
type Predicates map[string]Predicate

// catalogFile is the YAML layout of a catalog.
type catalogFile struct {
	Version    string              `yaml:"version"`
	Vocabulary map[string][]string `yaml:"vocabulary"`
	Entries    []entryFile         `yaml:"entries"`
}

type entryFile struct {
	ID           string     `yaml:"id"`
	Rule         string     `yaml:"rule"`
	Family       string     `yaml:"family"`
	Anchor       string     `yaml:"anchor"`
	Tags         []string   `yaml:"tags"`
	Kinds        []string   `yaml:"kinds"`
	When         []string   `yaml:"when"`
	Canonical    string     `yaml:"canonical"`
	Phrases      []string   `yaml:"phrases"`
	Templates    []Template `yaml:"templates"`
	CatchAll     bool       `yaml:"catch-all"`
	Accepted     []string   `yaml:"accepted"`
	TrimSuffixes []string   `yaml:"trim-suffixes"`
	IgnoreCase   bool       `yaml:"ignore-case"`
	Message      string     `yaml:"message"`
	Title        string     `yaml:"title"`
}

// Load decodes a YAML catalog. Entries refer to applicability tests by name
// in their "when" list; a leading "!" negates a test.
func Load(r io.Reader, preds Predicates) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decoding: %v", ErrInvalidCatalog, err)
	}

	entries := make([]*Entry, 0, len(f.Entries))
	for _, ef := range f.Entries {
		e, err := ef.build(preds)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	c, err := NewCatalog(f.Version, entries...)
	if err != nil {
		return nil, err
	}
	c.vocabulary = make(map[string][]string, len(f.Vocabulary))
	for name, list := range f.Vocabulary {
		c.vocabulary[name] = ExpandAll(list, true)
	}
	return c, nil
}

// LoadString is Load over an in-memory document.
func LoadString(s string, preds Predicates) (*Catalog, error) {
	return Load(strings.NewReader(s), preds)
}

func (ef entryFile) build(preds Predicates) (*Entry, error) {
	anchor, err := ParseAnchor(ef.Anchor)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", ef.ID, err)
	}
	e := &Entry{
		ID:           ef.ID,
		Rule:         ef.Rule,
		Family:       ef.Family,
		Anchor:       anchor,
		Tags:         ef.Tags,
		Canonical:    ef.Canonical,
		Accepted:     ExpandAll(ef.Accepted, true),
		TrimSuffixes: ef.TrimSuffixes,
		IgnoreCase:   ef.IgnoreCase,
		Message:      ef.Message,
		Title:        ef.Title,
	}
	for _, k := range ef.Kinds {
		kind, err := types.ParseDeclarationKind(k)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrInvalidCatalog, ef.ID, err)
		}
		e.Kinds = append(e.Kinds, kind)
	}

	var tests []Predicate
	for _, name := range ef.When {
		negate := strings.HasPrefix(name, "!")
		p, ok := preds[strings.TrimPrefix(name, "!")]
		if !ok {
			return nil, fmt.Errorf("%w: entry %q: unknown predicate %q", ErrInvalidCatalog, ef.ID, name)
		}
		if negate {
			p = Not(p)
		}
		tests = append(tests, p)
	}
	if len(tests) > 0 {
		e.Applies = And(tests...)
	}

	e.Variants = ExpandAll(ef.Phrases, true, ef.Templates...)
	if ef.CatchAll && (len(e.Variants) == 0 || e.Variants[0] != "") {
		e.Variants = append([]string{""}, e.Variants...)
	}
	return e, nil
}
