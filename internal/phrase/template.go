// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package phrase

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Template is the compact form of a recognized-phrase space. Every
// combination of one alternative per axis, joined with single spaces, is a
// phrase. Empty alternatives drop out of the joined phrase, which lets an
// axis be optional.
type Template struct {
	Axes        [][]string          `yaml:"axes"`        // Alternatives per position
	Upper       bool                `yaml:"upper"`       // Also emit an upper-first-letter variant
	Inflections map[string][]string `yaml:"inflections"` // Word -> alternative forms, e.g. plurals
}

// Expand evaluates a template into its de-duplicated, sorted phrase set.
// Each phrase is emitted as written, with a lower-case first letter, and,
// when Upper is set, with an upper-case first letter. Inflections add one
// variant per alternative form of every inflected word.
func Expand(t Template) []string {
	phrases := []string{""}
	for _, axis := range t.Axes {
		if len(axis) == 0 {
			continue
		}
		next := make([]string, 0, len(phrases)*len(axis))
		for _, p := range phrases {
			for _, alt := range axis {
				next = append(next, join(p, alt))
			}
		}
		phrases = next
	}

	words := make([]string, 0, len(t.Inflections))
	for w := range t.Inflections {
		words = append(words, w)
	}
	slices.Sort(words)
	for _, w := range words {
		n := len(phrases)
		for i := 0; i < n; i++ {
			for _, form := range t.Inflections[w] {
				if r, ok := replaceWord(phrases[i], w, form); ok {
					phrases = append(phrases, r)
				}
			}
		}
	}

	set := make(map[string]struct{}, len(phrases)*3)
	for _, p := range phrases {
		p = norm.NFC.String(p)
		set[p] = struct{}{}
		set[LowerFirst(p)] = struct{}{}
		if t.Upper {
			set[UpperFirst(p)] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// ExpandAll merges the expansions of several templates plus literal phrases.
func ExpandAll(literals []string, upper bool, templates ...Template) []string {
	all := templates
	if len(literals) > 0 {
		all = append(slices.Clone(templates), Template{Axes: [][]string{literals}, Upper: upper})
	}
	var out []string
	for _, t := range all {
		out = append(out, Expand(t)...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func join(a, b string) string {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

// replaceWord substitutes every whole-word occurrence of w in s.
func replaceWord(s, w, form string) (string, bool) {
	fields := strings.Split(s, " ")
	changed := false
	for i, f := range fields {
		if f == w {
			fields[i] = form
			changed = true
		}
	}
	return strings.Join(fields, " "), changed
}
