// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package xmldoc

import (
	"fmt"
	"strings"
)

// MalformedMarkupError reports markup the parser could not recover from.
// Offset is a byte offset into the parsed body.
type MalformedMarkupError struct {
	Offset int
	Reason string
}

func (e *MalformedMarkupError) Error() string {
	return fmt.Sprintf("malformed markup at offset %d: %s", e.Offset, e.Reason)
}

// Parse builds a tree from a comment body (prefixes already removed).
//
// The parser recovers wherever it can: a closing tag with no matching open
// element is kept as text, elements still open when an enclosing element
// closes are closed implicitly, and a '<' that does not start a tag is
// text. It fails only on a tag, attribute value, comment or CDATA section
// that runs off the end of the input.
func Parse(src string) (*Node, error) {
	p := &parser{src: src}
	return p.parse()
}

type parser struct {
	src       string
	stack     []*Node
	textStart int
}

func (p *parser) top() *Node {
	return p.stack[len(p.stack)-1]
}

func (p *parser) parse() (*Node, error) {
	root := &Node{Kind: KindRoot, End: len(p.src), InnerEnd: len(p.src)}
	p.stack = []*Node{root}

	i := 0
	for i < len(p.src) {
		if p.src[i] != '<' {
			i++
			continue
		}
		next, err := p.markup(i)
		if err != nil {
			return nil, err
		}
		if next < 0 {
			// Not markup; the '<' stays part of the running text.
			i++
			continue
		}
		i = next
	}
	p.flushText(len(p.src))
	for len(p.stack) > 1 {
		p.closeImplicitly(len(p.src))
	}
	return root, nil
}

// markup handles the construct starting at '<' offset i. It returns the
// offset after the construct, or -1 when the '<' is plain text.
func (p *parser) markup(i int) (int, error) {
	rest := p.src[i:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		return p.raw(i, "<!--", "-->", "unterminated comment")
	case strings.HasPrefix(rest, "<![CDATA["):
		return p.raw(i, "<![CDATA[", "]]>", "unterminated CDATA section")
	case strings.HasPrefix(rest, "</"):
		return p.closeTag(i), nil
	}
	return p.openTag(i)
}

func (p *parser) raw(i int, open, close, reason string) (int, error) {
	end := strings.Index(p.src[i+len(open):], close)
	if end < 0 {
		return 0, &MalformedMarkupError{Offset: i, Reason: reason}
	}
	end += i + len(open) + len(close)
	p.flushText(i)
	p.appendChild(&Node{Kind: KindRaw, Text: p.src[i:end], Start: i, End: end})
	p.textStart = end
	return end, nil
}

func (p *parser) closeTag(i int) int {
	name := scanName(p.src, i+2)
	if name == "" {
		return -1
	}
	j := skipSpace(p.src, i+2+len(name))
	if j >= len(p.src) || p.src[j] != '>' {
		return -1
	}
	end := j + 1

	match := -1
	for k := len(p.stack) - 1; k > 0; k-- {
		if p.stack[k].Name == name {
			match = k
			break
		}
	}
	if match < 0 {
		// Unmatched closing tag: keep it as text.
		return end
	}

	p.flushText(i)
	for len(p.stack)-1 > match {
		p.closeImplicitly(i)
	}
	el := p.top()
	el.Close = p.src[i:end]
	el.InnerEnd = i
	el.End = end
	p.stack = p.stack[:len(p.stack)-1]
	p.textStart = end
	return end
}

func (p *parser) openTag(i int) (int, error) {
	name := scanName(p.src, i+1)
	if name == "" {
		return -1, nil
	}
	el := &Node{Kind: KindElement, Name: name, Start: i}
	j := i + 1 + len(name)
	for {
		j = skipSpace(p.src, j)
		if j >= len(p.src) {
			return 0, &MalformedMarkupError{Offset: i, Reason: fmt.Sprintf("unterminated tag <%s", name)}
		}
		switch {
		case p.src[j] == '>':
			el.Open = p.src[i : j+1]
			el.InnerStart = j + 1
			p.flushText(i)
			p.appendChild(el)
			p.stack = append(p.stack, el)
			p.textStart = j + 1
			return j + 1, nil
		case strings.HasPrefix(p.src[j:], "/>"):
			el.Open = p.src[i : j+2]
			el.SelfClosing = true
			el.End = j + 2
			el.InnerStart, el.InnerEnd = el.End, el.End
			p.flushText(i)
			p.appendChild(el)
			p.textStart = el.End
			return el.End, nil
		}

		attr := scanName(p.src, j)
		if attr == "" {
			// Something like "a <b c" inside prose; not a tag after all.
			return -1, nil
		}
		j = skipSpace(p.src, j+len(attr))
		if j >= len(p.src) || p.src[j] != '=' {
			el.Attrs = append(el.Attrs, Attr{Name: attr})
			continue
		}
		j = skipSpace(p.src, j+1)
		if j >= len(p.src) {
			return 0, &MalformedMarkupError{Offset: i, Reason: fmt.Sprintf("unterminated tag <%s", name)}
		}
		var value string
		if q := p.src[j]; q == '"' || q == '\'' {
			end := strings.IndexByte(p.src[j+1:], q)
			if end < 0 {
				return 0, &MalformedMarkupError{Offset: j, Reason: fmt.Sprintf("unterminated value of attribute %q", attr)}
			}
			value = p.src[j+1 : j+1+end]
			j += end + 2
		} else {
			k := j
			for k < len(p.src) && !isSpace(p.src[k]) && p.src[k] != '>' && !strings.HasPrefix(p.src[k:], "/>") {
				k++
			}
			value = p.src[j:k]
			j = k
		}
		el.Attrs = append(el.Attrs, Attr{Name: attr, Value: value})
	}
}

func (p *parser) flushText(end int) {
	if end > p.textStart {
		p.appendChild(&Node{Kind: KindText, Text: p.src[p.textStart:end], Start: p.textStart, End: end})
	}
	p.textStart = end
}

func (p *parser) appendChild(n *Node) {
	parent := p.top()
	n.Parent = parent
	parent.Children = append(parent.Children, n)
}

// closeImplicitly pops the innermost open element, ending it at offset at.
func (p *parser) closeImplicitly(at int) {
	el := p.top()
	el.Unclosed = true
	el.InnerEnd = at
	el.End = at
	p.stack = p.stack[:len(p.stack)-1]
}

func scanName(s string, i int) string {
	if i >= len(s) || !isNameStart(s[i]) {
		return ""
	}
	j := i + 1
	for j < len(s) && isNameChar(s[j]) {
		j++
	}
	return s[i:j]
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-' || c == '.' || c == ':'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}
