// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package phrase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// placeholder is one {name|fn|fn} reference inside a canonical phrase.
type placeholder struct {
	start, end int // Byte range of the braces in the template
	name       string
	fns        []string
}

func placeholders(tmpl string) []placeholder {
	var out []placeholder
	for i := 0; i < len(tmpl); {
		open := strings.IndexByte(tmpl[i:], '{')
		if open < 0 {
			break
		}
		open += i
		end := strings.IndexByte(tmpl[open:], '}')
		if end < 0 {
			break
		}
		end += open
		parts := strings.Split(tmpl[open+1:end], "|")
		out = append(out, placeholder{start: open, end: end + 1, name: strings.TrimSpace(parts[0]), fns: parts[1:]})
		i = end + 1
	}
	return out
}

var transforms = map[string]func(string) string{
	"lower":   LowerFirst,
	"upper":   UpperFirst,
	"third":   thirdPersonFirstWord,
	"trimdot": func(s string) string { return strings.TrimRight(strings.TrimSpace(s), ".") },
	"trim":    strings.TrimSpace,
}

// Render substitutes captures into a canonical template. It returns the
// names of placeholders with no capture; the result is unusable when any
// are missing.
func Render(tmpl string, captures map[string]string) (string, []string) {
	var b strings.Builder
	var missing []string
	last := 0
	for _, p := range placeholders(tmpl) {
		b.WriteString(tmpl[last:p.start])
		last = p.end
		v, ok := captures[p.name]
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, p.name)
			continue
		}
		for _, fn := range p.fns {
			if f, ok := transforms[strings.TrimSpace(fn)]; ok {
				v = f(v)
			}
		}
		b.WriteString(v)
	}
	b.WriteString(tmpl[last:])
	return b.String(), missing
}

// LowerFirst lower-cases the first letter unless the word looks like an
// acronym or identifier (second letter upper-case).
func LowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 || !unicode.IsUpper(r) {
		return s
	}
	if r2, _ := utf8.DecodeRuneInString(s[n:]); unicode.IsUpper(r2) {
		return s
	}
	return cases.Lower(language.Und).String(s[:n]) + s[n:]
}

// UpperFirst upper-cases the first letter.
func UpperFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 || !unicode.IsLower(r) {
		return s
	}
	return cases.Upper(language.Und).String(s[:n]) + s[n:]
}

var irregularThird = map[string]string{
	"be":   "is",
	"are":  "is",
	"have": "has",
	"do":   "does",
	"go":   "goes",
	"can":  "can",
	"may":  "may",
	"must": "must",
}

// ThirdPerson returns the third-person singular present form of a verb:
// "render" -> "renders", "process" -> "processes", "apply" -> "applies".
func ThirdPerson(verb string) string {
	lower := strings.ToLower(verb)
	if v, ok := irregularThird[lower]; ok {
		return matchCase(verb, v)
	}
	switch {
	case lower == "":
		return verb
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"), strings.HasSuffix(lower, "o"):
		return verb + "es"
	case strings.HasSuffix(lower, "s"):
		// Already inflected.
		return verb
	case len(lower) > 1 && strings.HasSuffix(lower, "y") && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		return verb[:len(verb)-1] + "ies"
	}
	return verb + "s"
}

func matchCase(like, s string) string {
	r, _ := utf8.DecodeRuneInString(like)
	if unicode.IsUpper(r) {
		return UpperFirst(s)
	}
	return s
}

func thirdPersonFirstWord(s string) string {
	s = strings.TrimLeft(s, " ")
	i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if i < 0 {
		return ThirdPerson(s)
	}
	if i == 0 {
		return s
	}
	return ThirdPerson(s[:i]) + s[i:]
}
