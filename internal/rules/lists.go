// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rules

import (
	"strings"

	"github.com/petar-djukic/doclint/internal/matcher"
	"github.com/petar-djukic/doclint/internal/xmldoc"
)

var listTypes = []string{"bullet", "number", "table"}

// checkListType reports lists without a valid type attribute. A missing
// type is fixed to "bullet"; an unknown one is only reported.
func checkListType(c *Context) []matcher.Match {
	var out []matcher.Match
	for _, list := range c.Doc.Root.FindAll("list") {
		typ, ok := list.Attr("type")
		switch {
		case !ok:
			at := list.Start + len("<list")
			out = append(out, c.Match(list, list.Start, list.InnerStart, "Specify the list type",
				xmldoc.Edit{Start: at, End: at, Text: ` type="bullet"`}))
		case !containsString(listTypes, typ):
			out = append(out, c.Match(list, list.Start, list.InnerStart, `Unknown list type "`+typ+`"`))
		}
	}
	return out
}

// checkListItems reports items of bullet and numbered lists that do not
// hold exactly one description, optionally preceded by one term.
//
// The fix keeps a single description: the first description, else the
// first term, else the item's text. Further terms and descriptions are
// dropped, so a malformed item loses content.
func checkListItems(c *Context) []matcher.Match {
	body := c.Doc.Body()
	var out []matcher.Match
	for _, list := range c.Doc.Root.FindAll("list") {
		if typ, _ := list.Attr("type"); typ == "table" {
			continue
		}
		for _, item := range list.Elements("item") {
			if item.SelfClosing || wellFormedItem(item) {
				continue
			}
			first := skipSpace(body, item.InnerStart, item.InnerEnd)
			last := trimRight(body, item.InnerStart, item.InnerEnd)
			content := itemDescription(c.Doc, item)
			if strings.TrimSpace(content) == "" {
				out = append(out, c.Match(item, item.Start, item.End, "List item has no description"))
				continue
			}
			out = append(out, c.Match(item, item.Start, item.End, "List items hold exactly one <description>",
				xmldoc.Edit{Start: first, End: last, Text: xmldoc.Element("description", content)}))
		}
	}
	return out
}

func wellFormedItem(item *xmldoc.Node) bool {
	var names []string
	for _, ch := range item.Children {
		switch {
		case ch.Kind == xmldoc.KindText && ch.IsBlank():
		case ch.Kind == xmldoc.KindRaw:
		case ch.IsElement():
			names = append(names, ch.Name)
		default:
			return false
		}
	}
	switch len(names) {
	case 1:
		return names[0] == "description"
	case 2:
		return names[0] == "term" && names[1] == "description"
	}
	return false
}

func itemDescription(doc *xmldoc.Document, item *xmldoc.Node) string {
	if d := item.Elements("description"); len(d) > 0 {
		return strings.TrimSpace(doc.Inner(d[0]))
	}
	if t := item.Elements("term"); len(t) > 0 {
		return strings.TrimSpace(doc.Inner(t[0]))
	}
	return strings.TrimSpace(doc.Inner(item))
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
