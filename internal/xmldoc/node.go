// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package xmldoc models XML documentation comments as a lossless tree.
//
// A comment is first split into its line prefixes ("///" plus indentation)
// and its body, the XML text the author wrote. The body is parsed into a
// tree of text, element and raw nodes whose offsets point back into the
// body, so that serializing an untouched tree reproduces the input byte for
// byte and every node maps to an exact source span.
package xmldoc

import "strings"

// NodeKind distinguishes the node variants of a comment tree.
type NodeKind int

const (
	KindRoot    NodeKind = iota // Top-level container
	KindText                    // Character data, kept exactly as written
	KindElement                 // Tag with attributes and children
	KindRaw                     // XML comment or CDATA section, opaque
)

func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindText:
		return "text"
	case KindElement:
		return "element"
	case KindRaw:
		return "raw"
	}
	return "unknown"
}

// Attr is one attribute of an element, in source order.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of a parsed comment body. Offsets are byte offsets into
// the body the node was parsed from.
type Node struct {
	Kind        NodeKind
	Name        string  // Element name
	Attrs       []Attr  // Element attributes in source order
	Text        string  // Source text of text and raw nodes
	Open        string  // Exact source text of the opening tag
	Close       string  // Exact source text of the closing tag; empty when self-closing or unclosed
	SelfClosing bool    // Written as <name/>
	Unclosed    bool    // Closing tag was missing and the element was closed implicitly
	Start       int     // Offset of the first byte of the node
	End         int     // Offset just past the node
	InnerStart  int     // Offset of the first byte of the element content
	InnerEnd    int     // Offset just past the element content
	Parent      *Node   // Enclosing node; nil for the root
	Children    []*Node // Child nodes in document order
}

// IsElement reports whether n is an element with one of the given names.
// With no names it reports whether n is an element at all.
func (n *Node) IsElement(names ...string) bool {
	if n == nil || n.Kind != KindElement {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if n.Name == name {
			return true
		}
	}
	return false
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Elements returns the element children of n, optionally filtered by name.
func (n *Node) Elements(names ...string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement(names...) {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant element with the given name.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c != n && c.IsElement(name) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every descendant element with one of the given names in
// document order.
func (n *Node) FindAll(names ...string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c != n && c.IsElement(names...) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// HasAncestor reports whether an enclosing element has one of the names.
func (n *Node) HasAncestor(names ...string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.IsElement(names...) {
			return true
		}
	}
	return false
}

// InnerText concatenates the text descendants of n, ignoring markup.
func (n *Node) InnerText() string {
	var b strings.Builder
	n.Walk(func(c *Node) bool {
		if c.Kind == KindText {
			b.WriteString(c.Text)
		}
		return true
	})
	return b.String()
}

// IsBlank reports whether n is a text node holding only whitespace.
func (n *Node) IsBlank() bool {
	return n.Kind == KindText && strings.TrimSpace(n.Text) == ""
}

// Serialize re-emits n exactly as it was parsed.
func Serialize(n *Node) string {
	var b strings.Builder
	serialize(&b, n)
	return b.String()
}

func serialize(b *strings.Builder, n *Node) {
	switch n.Kind {
	case KindText, KindRaw:
		b.WriteString(n.Text)
	case KindElement:
		b.WriteString(n.Open)
		for _, c := range n.Children {
			serialize(b, c)
		}
		b.WriteString(n.Close)
	default:
		for _, c := range n.Children {
			serialize(b, c)
		}
	}
}
