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

// nullPart is one condition of an ArgumentNullException block. Conditions
// are separated by "-or-", written as text or as <para>-or-</para>.
type nullPart struct {
	start, end int      // Trimmed body range of the condition
	params     []string // Parameters it names, in the order found
}

// nullBlock is an ArgumentNullException block split into conditions.
type nullBlock struct {
	block *xmldoc.Node
	parts []nullPart
	seps  []string // Body text between consecutive parts
}

// nullCondition renders the canonical condition for one parameter.
func nullCondition(name string) string {
	return xmldoc.Paramref(name) + " is " + xmldoc.Langword("null") + "."
}

// argumentNullBlocks finds and splits the ArgumentNullException blocks of
// the comment.
func argumentNullBlocks(c *Context) []nullBlock {
	if c.Decl == nil || len(c.Decl.Shape.Parameters) == 0 {
		return nil
	}
	body := c.Doc.Body()
	var out []nullBlock
	for _, block := range c.Doc.Root.Elements("exception") {
		cref, _ := block.Attr("cref")
		if block.SelfClosing || exceptionName(cref) != "ArgumentNullException" {
			continue
		}
		nb := splitConditions(body, block)
		for i := range nb.parts {
			nb.parts[i].params = c.conditionParams(body, block, nb.parts[i])
		}
		out = append(out, nb)
	}
	return out
}

// splitConditions cuts the block content at its "-or-" separators.
func splitConditions(body string, block *xmldoc.Node) nullBlock {
	nb := nullBlock{block: block}
	type sep struct{ start, end int }
	var seps []sep
	for _, ch := range block.Children {
		switch {
		case ch.IsElement("para") && strings.TrimSpace(ch.InnerText()) == "-or-" && len(ch.Elements()) == 0:
			seps = append(seps, sep{ch.Start, ch.End})
		case ch.Kind == xmldoc.KindText:
			for off := ch.Start; ; {
				i := strings.Index(body[off:ch.End], "-or-")
				if i < 0 {
					break
				}
				seps = append(seps, sep{off + i, off + i + len("-or-")})
				off += i + len("-or-")
			}
		}
	}

	from := block.InnerStart
	var bounds [][2]int
	for _, s := range seps {
		bounds = append(bounds, [2]int{from, s.start})
		from = s.end
	}
	bounds = append(bounds, [2]int{from, block.InnerEnd})
	for _, b := range bounds {
		start := skipSpace(body, b[0], b[1])
		end := trimRight(body, start, b[1])
		if para := paraSpanning(block, start, end); para != nil {
			start = skipSpace(body, para.InnerStart, para.InnerEnd)
			end = trimRight(body, start, para.InnerEnd)
		}
		if end > start {
			nb.parts = append(nb.parts, nullPart{start: start, end: end})
		}
	}
	for i := 1; i < len(nb.parts); i++ {
		nb.seps = append(nb.seps, body[nb.parts[i-1].end:nb.parts[i].start])
	}
	return nb
}

// paraSpanning returns the <para> child of block covering exactly
// [start, end).
func paraSpanning(block *xmldoc.Node, start, end int) *xmldoc.Node {
	for _, ch := range block.Elements("para") {
		if ch.Start == start && ch.End == end && !ch.SelfClosing {
			return ch
		}
	}
	return nil
}

// conditionParams names the parameters a condition is about: those it
// references with <paramref>, else the word after an opening such as
// "If" or "Thrown when", else any word spelling a parameter name.
func (c *Context) conditionParams(body string, block *xmldoc.Node, p nullPart) []string {
	shape := c.Decl.Shape
	var names []string
	add := func(name string) {
		if shape.ParameterIndex(name) >= 0 && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	block.Walk(func(n *xmldoc.Node) bool {
		if n.IsElement("paramref") && n.Start >= p.start && n.End <= p.end {
			if name, ok := n.Attr("name"); ok {
				add(name)
			}
		}
		return true
	})
	if len(names) > 0 {
		return names
	}

	if end, ok := matcher.PhraseAt(body, p.start, c.Catalog.Vocabulary("null-conditions"), true); ok {
		// "If a, b or c is null"
		for _, w := range words(body[end:p.end]) {
			if w.text == "or" || w.text == "and" || w.text == "nor" {
				continue
			}
			name := strings.TrimPrefix(w.text, "@")
			if shape.ParameterIndex(name) < 0 {
				break
			}
			add(name)
		}
		if len(names) > 0 {
			return names
		}
	}
	for _, w := range words(body[p.start:p.end]) {
		add(strings.TrimPrefix(w.text, "@"))
	}
	return names
}

// checkArgumentNull rewrites ArgumentNullException conditions into
// "<paramref name="x"/> is <see langword="null"/>." with one condition per
// parameter in signature order. Conditions already in that form keep their
// text. Conditions naming no parameter are reported without a fix.
// Parameters of non-nullable value types are left to checkNullValueType.
func checkArgumentNull(c *Context) []matcher.Match {
	body := c.Doc.Body()
	var out []matcher.Match
	for _, nb := range argumentNullBlocks(c) {
		shape := c.Decl.Shape
		var (
			names      []string
			unresolved bool
			expand     bool
		)
		for _, p := range nb.parts {
			nullable := nullableParams(shape, p.params)
			if len(p.params) == 0 {
				unresolved = true
				m := c.Match(nb.block, p.start, p.end, "Cannot tell which parameter this ArgumentNullException condition is about")
				out = append(out, m)
				continue
			}
			if len(nullable) > 1 {
				expand = true
			}
			names = append(names, nullable...)
		}
		if unresolved || len(names) == 0 {
			continue
		}

		ordered := slices.Clone(names)
		slices.SortStableFunc(ordered, func(a, b string) int {
			return shape.ParameterIndex(a) - shape.ParameterIndex(b)
		})
		ordered = slices.Compact(ordered)

		if !expand && slices.Equal(ordered, names) {
			for _, p := range nb.parts {
				nullable := nullableParams(shape, p.params)
				if len(nullable) != 1 {
					continue
				}
				name := nullable[0]
				want := nullCondition(name)
				if squash(body[p.start:p.end]) == want {
					continue
				}
				m := c.Match(nb.block, p.start, p.end,
					fmt.Sprintf("Describe the ArgumentNullException condition as %q", want),
					xmldoc.Edit{Start: p.start, End: p.end, Text: want})
				m.Captures["param"] = name
				out = append(out, m)
			}
			continue
		}

		// Reorder or split: rebuild the whole condition list.
		sep := "\n-or-\n"
		if len(nb.seps) > 0 {
			sep = nb.seps[0]
		}
		kept := map[string]string{}
		for _, p := range nb.parts {
			if len(p.params) == 1 && squash(body[p.start:p.end]) == nullCondition(p.params[0]) {
				kept[p.params[0]] = body[p.start:p.end]
			}
		}
		conds := make([]string, 0, len(ordered))
		for _, name := range ordered {
			if text, ok := kept[name]; ok {
				conds = append(conds, text)
			} else {
				conds = append(conds, nullCondition(name))
			}
		}
		start, end := nb.parts[0].start, nb.parts[len(nb.parts)-1].end
		m := c.Match(nb.block, start, end, "List ArgumentNullException conditions per parameter in signature order",
			xmldoc.Edit{Start: start, End: end, Text: strings.Join(conds, sep)})
		m.Captures["param"] = strings.Join(ordered, ", ")
		out = append(out, m)
	}
	return out
}

// checkNullValueType reports ArgumentNullException conditions about
// parameters whose type can never be null.
func checkNullValueType(c *Context) []matcher.Match {
	var out []matcher.Match
	for _, nb := range argumentNullBlocks(c) {
		shape := c.Decl.Shape
		for _, p := range nb.parts {
			for _, name := range p.params {
				param, _ := shape.Parameter(name)
				if param.Info.AcceptsNull() {
					continue
				}
				m := c.Match(nb.block, p.start, p.end,
					fmt.Sprintf("Parameter %q is a non-nullable value type and cannot cause an ArgumentNullException", name))
				m.Captures["param"] = name
				out = append(out, m)
			}
		}
	}
	return out
}

// nullableParams drops the parameters that cannot be null.
func nullableParams(shape types.SignatureShape, names []string) []string {
	var out []string
	for _, name := range names {
		if p, ok := shape.Parameter(name); ok && p.Info.AcceptsNull() {
			out = append(out, name)
		}
	}
	return out
}
