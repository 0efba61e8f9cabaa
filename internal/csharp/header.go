// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package csharp

import (
	"regexp"
	"strings"

	"github.com/petar-djukic/doclint/pkg/types"
)

var memberModifiers = map[string]bool{
	"public": true, "private": true, "protected": true, "internal": true, "file": true,
	"static": true, "virtual": true, "override": true, "abstract": true, "sealed": true,
	"async": true, "readonly": true, "new": true, "partial": true, "extern": true,
	"unsafe": true, "const": true, "required": true, "volatile": true, "event": true,
	"implicit": true, "explicit": true, "fixed": true,
}

var parameterModifiers = map[string]bool{
	"ref": true, "out": true, "in": true, "params": true, "this": true,
	"scoped": true, "readonly": true,
}

var accessorWord = regexp.MustCompile(`\b(get|set|init)\b`)

// header is a parsed declaration header.
type header struct {
	kind  types.DeclarationKind
	name  string
	shape types.SignatureShape
}

// parseHeader parses the declaration text that follows a doc comment. rest
// is the source after the header, used to find property accessors.
func parseHeader(text, rest string, inEnum bool) (header, bool) {
	text = stripAttributes(strings.TrimSpace(text))
	if inEnum {
		name := text
		if i := strings.IndexAny(name, "=,"); i >= 0 {
			name = name[:i]
		}
		name = strings.TrimSpace(name)
		if !isIdentifier(name) {
			return header{}, false
		}
		return header{kind: types.KindEnumMember, name: name}, true
	}

	at, term := terminator(text)
	if at < 0 {
		return header{}, false
	}
	decl := strings.TrimSpace(text[:at])
	body := text[at:] + " " + rest
	if i := topIndex(decl, " where ", false); i >= 0 {
		decl = decl[:i]
	}

	var h header
	var params string
	open := findParamOpen(decl)
	if open >= 0 {
		end := matchClose(decl, open)
		if end < 0 {
			return header{}, false
		}
		params = decl[open+1 : end]
		decl = strings.TrimSpace(decl[:open])
	}
	initializer, indexer, event := false, false, false
	if open < 0 {
		if i := strings.Index(decl, "this["); i >= 0 {
			if end := matchClose(decl, i+4); end > 0 {
				params = decl[i+5 : end]
				decl = strings.TrimSpace(decl[:i]) + " this"
				indexer = true
			}
		} else if i := topIndex(decl, "=", true); i >= 0 {
			decl = strings.TrimSpace(decl[:i])
			initializer = true
		}
	}

	var words []string
	for _, t := range fields(decl) {
		if memberModifiers[t] {
			h.shape.IsOverride = h.shape.IsOverride || t == "override"
			event = event || t == "event"
			continue
		}
		words = append(words, t)
	}
	if len(words) == 0 {
		return header{}, false
	}

	for i, t := range words {
		switch t {
		case "class", "struct", "interface", "enum", "record":
			keyword, j := t, i+1
			if t == "record" && j < len(words) && (words[j] == "struct" || words[j] == "class") {
				if words[j] == "struct" {
					keyword = "struct"
				}
				j++
			}
			if j >= len(words) {
				return header{}, false
			}
			h.kind, h.name = types.KindType, baseName(words[j])
			h.shape.TypeKeyword = keyword
			h.shape.Parameters = parseParameters(params)
			return h, true
		case "delegate":
			if len(words) < i+3 {
				return header{}, false
			}
			h.kind, h.name = types.KindType, baseName(words[len(words)-1])
			h.shape.TypeKeyword = "delegate"
			h.shape.ReturnType = strings.Join(words[i+1:len(words)-1], " ")
			h.shape.Parameters = parseParameters(params)
			return h, true
		}
	}

	name := words[len(words)-1]
	typ := strings.Join(words[:len(words)-1], " ")
	switch {
	case open >= 0:
		h.kind = types.KindMethod
		if n := len(words); n >= 2 && words[n-2] == "operator" {
			name, typ = "operator"+name, strings.Join(words[:n-2], " ")
		}
		h.name = baseName(name)
		h.shape.ReturnType = typ
		h.shape.Parameters = parseParameters(params)
		return h, true
	case typ == "":
		return header{}, false
	case event:
		h.kind = types.KindEvent
	case indexer:
		h.kind = types.KindProperty
		h.shape.Parameters = parseParameters(params)
		h.shape.HasGetter, h.shape.HasSetter = accessors(term, body)
	case !initializer && (term == "{" || term == "=>"):
		h.kind = types.KindProperty
		h.shape.HasGetter, h.shape.HasSetter = accessors(term, body)
	default:
		h.kind = types.KindField
	}
	h.name = baseName(name)
	h.shape.ReturnType = typ
	return h, true
}

// accessors reports the get and set (or init) accessors of a property
// whose body starts at the terminator.
func accessors(term, body string) (get, set bool) {
	if term == "=>" {
		return true, false
	}
	if end := matchClose(body, 0); end > 0 {
		body = body[:end]
	}
	for _, m := range accessorWord.FindAllString(body, -1) {
		switch m {
		case "get":
			get = true
		case "set", "init":
			set = true
		}
	}
	return get, set
}

func parseParameters(list string) []types.Parameter {
	var out []types.Parameter
	for _, p := range splitTop(list, ',') {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		var param types.Parameter
		for strings.HasPrefix(p, "[") {
			end := matchClose(p, 0)
			if end < 0 {
				break
			}
			for _, a := range splitTop(p[1:end], ',') {
				if k := strings.IndexByte(a, '('); k >= 0 {
					a = a[:k]
				}
				a = strings.TrimSpace(a)
				if k := strings.Index(a, ":"); k >= 0 && !strings.Contains(a, "::") {
					a = strings.TrimSpace(a[k+1:])
				}
				if a != "" {
					param.Attributes = append(param.Attributes, a)
				}
			}
			p = strings.TrimSpace(p[end+1:])
		}
		if i := topIndex(p, "=", true); i >= 0 {
			param.DefaultValue = strings.TrimSpace(p[i+1:])
			param.HasDefault = true
			p = strings.TrimSpace(p[:i])
		}
		toks := fields(p)
		for len(toks) > 1 && parameterModifiers[toks[0]] {
			if param.Modifier == "" && toks[0] != "scoped" && toks[0] != "readonly" {
				param.Modifier = toks[0]
			}
			toks = toks[1:]
		}
		if len(toks) == 0 {
			continue
		}
		param.Name = strings.TrimPrefix(toks[len(toks)-1], "@")
		param.Type = strings.Join(toks[:len(toks)-1], " ")
		out = append(out, param)
	}
	return out
}

// walk calls fn for every byte of s outside literals, with the bracket
// depth around it. Opening and closing brackets see the outer depth. Angle
// brackets count only when angles is set and '<' follows a name.
func walk(s string, angles bool, fn func(i, depth int) bool) {
	parens, angle := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\'' {
			i = literalEnd(s, i)
			continue
		}
		switch {
		case c == '(' || c == '[' || c == '{' && parens > 0:
			if !fn(i, parens+angle) {
				return
			}
			parens++
			continue
		case c == ')' || c == ']' || c == '}' && parens > 0:
			if parens > 0 {
				parens--
			}
			if !fn(i, parens+angle) {
				return
			}
			continue
		case angles && c == '<' && i > 0 && isNameByte(s[i-1]):
			if !fn(i, parens+angle) {
				return
			}
			angle++
			continue
		case angles && c == '>' && angle > 0 && (i == 0 || s[i-1] != '='):
			angle--
			if !fn(i, parens+angle) {
				return
			}
			continue
		}
		if !fn(i, parens+angle) {
			return
		}
	}
}

func isNameByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80
}

// terminator finds where a declaration header ends: a body, a semicolon or
// an expression body, outside brackets.
func terminator(s string) (int, string) {
	at, term := -1, ""
	walk(s, false, func(i, depth int) bool {
		if depth > 0 {
			return true
		}
		switch {
		case s[i] == '{':
			at, term = i, "{"
		case s[i] == ';':
			at, term = i, ";"
		case s[i] == '=' && i+1 < len(s) && s[i+1] == '>':
			at, term = i, "=>"
		default:
			return true
		}
		return false
	})
	return at, term
}

// topIndex returns the first index of sub outside brackets, or -1.
func topIndex(s, sub string, angles bool) int {
	at := -1
	walk(s, angles, func(i, depth int) bool {
		if depth == 0 && strings.HasPrefix(s[i:], sub) {
			at = i
			return false
		}
		return true
	})
	return at
}

// matchClose returns the index of the bracket closing the one at open.
func matchClose(s string, open int) int {
	if open >= len(s) {
		return -1
	}
	var closer byte
	switch s[open] {
	case '(':
		closer = ')'
	case '[':
		closer = ']'
	case '{':
		closer = '}'
	case '<':
		closer = '>'
	default:
		return -1
	}
	opener, depth := s[open], 0
	for i := open; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\'' {
			i = literalEnd(s, i)
			continue
		}
		switch c {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// findParamOpen returns the parenthesis opening a parameter list: the first
// top-level '(' that follows a name.
func findParamOpen(s string) int {
	at := -1
	walk(s, true, func(i, depth int) bool {
		if depth != 0 || s[i] != '(' {
			return true
		}
		j := i - 1
		for j >= 0 && s[j] == ' ' {
			j--
		}
		if j >= 0 && (isNameByte(s[j]) || s[j] == '>') {
			at = i
			return false
		}
		return true
	})
	return at
}

// fields splits s at spaces outside brackets.
func fields(s string) []string {
	var out []string
	start := -1
	walk(s, true, func(i, depth int) bool {
		space := s[i] == ' ' || s[i] == '\t'
		switch {
		case space && depth == 0:
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
		case start < 0 && !space:
			start = i
		}
		return true
	})
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// splitTop splits s at sep outside brackets.
func splitTop(s string, sep byte) []string {
	var out []string
	last := 0
	walk(s, true, func(i, depth int) bool {
		if depth == 0 && s[i] == sep {
			out = append(out, s[last:i])
			last = i + 1
		}
		return true
	})
	if strings.TrimSpace(s[last:]) != "" || len(out) > 0 {
		out = append(out, s[last:])
	}
	return out
}

// stripAttributes drops leading [Attribute] groups.
func stripAttributes(s string) string {
	for strings.HasPrefix(s, "[") {
		end := matchClose(s, 0)
		if end < 0 {
			break
		}
		s = strings.TrimSpace(s[end+1:])
	}
	return s
}

// baseName drops any qualifying prefix and generic arguments:
// "IEquatable<T>.Equals" is "Equals", "Cache<TKey>" is "Cache".
func baseName(s string) string {
	dot := -1
	walk(s, true, func(i, depth int) bool {
		if depth == 0 && s[i] == '.' {
			dot = i
		}
		return true
	})
	s = s[dot+1:]
	if i := strings.IndexByte(s, '<'); i > 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, "@")
}
