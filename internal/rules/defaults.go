// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/petar-djukic/doclint/internal/matcher"
	"github.com/petar-djukic/doclint/internal/xmldoc"
	"github.com/petar-djukic/doclint/pkg/types"
)

const defaultIs = "The default is "

// Attributes whose parameters are filled in by the compiler.
var compilerFilled = []string{"CallerMemberName", "CallerFilePath", "CallerLineNumber", "CallerArgumentExpression", "Optional"}

// checkEnumDefaults links enum members named as plain text after
// "The default is" in the documentation of an enum-typed parameter or
// property.
func checkEnumDefaults(c *Context) []matcher.Match {
	if c.Decl == nil {
		return nil
	}
	body := c.Doc.Body()
	var out []matcher.Match
	for _, block := range c.Doc.Root.Elements("param", "value") {
		typ, info, ok := c.blockType(block)
		if !ok || !info.IsEnum || len(info.EnumMembers) == 0 {
			continue
		}
		for _, t := range block.Children {
			if t.Kind != xmldoc.KindText {
				continue
			}
			text := body[t.Start:t.End]
			for off := 0; ; {
				i := strings.Index(text[off:], defaultIs)
				if i < 0 {
					break
				}
				at := off + i + len(defaultIs)
				off = at
				ws := words(text[at:])
				if len(ws) == 0 || ws[0].at != 0 {
					continue
				}
				member := ws[0].text
				word := member
				if rest := text[at+len(word):]; strings.HasPrefix(rest, ".") && len(ws) > 1 && ws[0].text == bareType(typ) {
					// "Mode.Fast" written out as text.
					member = ws[1].text
					word = text[at : at+ws[1].at+len(member)]
				}
				if !slices.Contains(info.EnumMembers, member) {
					continue
				}
				start := t.Start + at
				m := c.Match(block, start, start+len(word), fmt.Sprintf("Link the enum member %q", member),
					xmldoc.Edit{Start: start, End: start + len(word), Text: xmldoc.SeeCref(bareType(typ) + "." + member)})
				out = append(out, m)
			}
		}
	}
	return out
}

// blockType returns the type documented by a <param> or <value> block.
func (c *Context) blockType(block *xmldoc.Node) (string, types.TypeInfo, bool) {
	if block.Name == "value" {
		return c.Decl.Shape.ReturnType, c.Decl.Shape.ReturnInfo, c.Decl.Shape.ReturnType != ""
	}
	name, _ := block.Attr("name")
	p, ok := c.Decl.Shape.Parameter(name)
	return p.Type, p.Info, ok
}

// bareType strips nullability and namespace from a type as written.
func bareType(t string) string {
	t = strings.TrimSuffix(strings.TrimSpace(t), "?")
	if i := strings.LastIndex(t, "."); i >= 0 && !strings.Contains(t, "<") {
		t = t[i+1:]
	}
	return t
}

// checkOptionalDefaults reports optional parameters whose documentation
// does not mention their default value, and appends
// "The default is X." to it.
func checkOptionalDefaults(c *Context) []matcher.Match {
	if c.Decl == nil {
		return nil
	}
	body := c.Doc.Body()
	var out []matcher.Match
	for _, block := range c.Doc.Root.Elements("param") {
		name, _ := block.Attr("name")
		p, ok := c.Decl.Shape.Parameter(name)
		if !ok || !p.HasDefault || suppressedDefault(p) {
			continue
		}
		if strings.Contains(strings.ToLower(block.InnerText()), "default") {
			continue
		}
		sentence := defaultIs + defaultValueMarkup(p) + "."
		msg := fmt.Sprintf("Document the default value of optional parameter %q", p.Name)
		if block.SelfClosing {
			text := xmldoc.Element("param", sentence, block.Attrs...)
			out = append(out, c.Match(block, block.Start, block.End, msg, xmldoc.Edit{Start: block.Start, End: block.End, Text: text}))
			continue
		}
		end := trimRight(body, block.InnerStart, block.InnerEnd)
		switch {
		case end == block.InnerStart:
		case body[end-1] == '.':
			sentence = " " + sentence
		default:
			sentence = ". " + sentence
		}
		out = append(out, c.Match(block, block.Start, block.End, msg, xmldoc.Edit{Start: end, End: end, Text: sentence}))
	}
	return out
}

func suppressedDefault(p types.Parameter) bool {
	for _, a := range compilerFilled {
		if p.HasAttribute(a) {
			return true
		}
	}
	return false
}

// defaultValueMarkup renders a default value expression for documentation.
func defaultValueMarkup(p types.Parameter) string {
	v := strings.TrimSpace(p.DefaultValue)
	switch {
	case v == "null" || v == "true" || v == "false" || v == "default":
		return xmldoc.Langword(v)
	case strings.HasPrefix(v, "default("):
		return xmldoc.Langword("default")
	case strings.HasPrefix(v, `"`) || strings.HasPrefix(v, "'") || strings.HasPrefix(v, `@"`):
		return xmldoc.Element("c", xmldoc.EscapeText(v))
	case p.Info.IsEnum:
		member := v
		if i := strings.LastIndex(v, "."); i >= 0 {
			member = v[i+1:]
		}
		if slices.Contains(p.Info.EnumMembers, member) || len(p.Info.EnumMembers) == 0 {
			return xmldoc.SeeCref(bareType(p.Type) + "." + member)
		}
	}
	return xmldoc.EscapeText(v)
}
