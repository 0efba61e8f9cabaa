// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package xmldoc

import "strings"

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", "\"", "&quot;")

// EscapeText escapes the characters that would otherwise start markup.
func EscapeText(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

// OpenTag renders <name a="v">.
func OpenTag(name string, attrs ...Attr) string {
	return "<" + name + renderAttrs(attrs) + ">"
}

// CloseTag renders </name>.
func CloseTag(name string) string {
	return "</" + name + ">"
}

// EmptyElement renders <name a="v"/>.
func EmptyElement(name string, attrs ...Attr) string {
	return "<" + name + renderAttrs(attrs) + "/>"
}

// Element renders an element around already-serialized inner markup.
func Element(name, inner string, attrs ...Attr) string {
	return OpenTag(name, attrs...) + inner + CloseTag(name)
}

// Langword renders <see langword="word"/>.
func Langword(word string) string {
	return EmptyElement("see", Attr{Name: "langword", Value: word})
}

// Paramref renders <paramref name="name"/>.
func Paramref(name string) string {
	return EmptyElement("paramref", Attr{Name: "name", Value: name})
}

// SeeCref renders <see cref="cref"/>.
func SeeCref(cref string) string {
	return EmptyElement("see", Attr{Name: "cref", Value: cref})
}

func renderAttrs(attrs []Attr) string {
	var b strings.Builder
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.Value))
		b.WriteByte('"')
	}
	return b.String()
}
