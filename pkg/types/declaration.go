// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"strings"
)

// DeclarationKind identifies the category of a documented declaration.
type DeclarationKind int

const (
	KindType       DeclarationKind = iota // class, struct, interface, record, enum, delegate
	KindMethod                            // method or constructor
	KindProperty                          // property or indexer
	KindField                             // field or constant
	KindEvent                             // event
	KindEnumMember                        // enum member
)

var kindNames = [...]string{"type", "method", "property", "field", "event", "enum-member"}

// String returns the lower-case name used in rule tables and reports.
func (k DeclarationKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseDeclarationKind maps a rule-table name back to a kind.
func ParseDeclarationKind(s string) (DeclarationKind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return DeclarationKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown declaration kind %q", s)
}

// TypeInfo is what the host knows about a referenced type.
type TypeInfo struct {
	IsValueType bool     // struct, enum or primitive value type
	IsNullable  bool     // T? or Nullable<T> for value types, annotated T? for references
	IsEnum      bool     // enum type
	EnumMembers []string // member names in declaration order, when IsEnum
}

// AcceptsNull reports whether a value of this type can be null, which is
// the precondition for documenting an ArgumentNullException against it.
func (t TypeInfo) AcceptsNull() bool {
	return !t.IsValueType || t.IsNullable
}

// TypeResolver resolves a type name as written in a signature.
type TypeResolver interface {
	ResolveTypeReference(name string) TypeInfo
}

// Parameter describes one method parameter.
type Parameter struct {
	Name         string   // Parameter name
	Type         string   // Type as written, e.g. "Task<bool>" or "int?"
	Modifier     string   // "ref", "out", "in", "params", "this" or empty
	DefaultValue string   // Default value expression as written, when HasDefault
	HasDefault   bool     // True for optional parameters
	Attributes   []string // Attribute names as written, e.g. "CallerMemberName"
	Info         TypeInfo // Resolved type information
}

// IsBoolean reports whether the parameter is a non-nullable boolean.
func (p Parameter) IsBoolean() bool {
	return isBooleanType(p.Type)
}

// HasAttribute reports whether the parameter carries the named attribute.
// Both "Foo" and "FooAttribute", qualified or not, match name "Foo".
func (p Parameter) HasAttribute(name string) bool {
	for _, a := range p.Attributes {
		if i := strings.LastIndex(a, "."); i >= 0 {
			a = a[i+1:]
		}
		a = strings.TrimSuffix(a, "Attribute")
		if a == name {
			return true
		}
	}
	return false
}

// SignatureShape is the part of a declaration's signature the rules care about.
type SignatureShape struct {
	ReturnType  string      // Return type for methods, value type for properties/fields/events
	ReturnInfo  TypeInfo    // Resolved ReturnType
	Parameters  []Parameter // Method parameters in declaration order
	HasGetter   bool        // Property has a get accessor (or is expression-bodied)
	HasSetter   bool        // Property has a set or init accessor
	IsOverride  bool        // Member overrides or implements an inherited member
	TypeKeyword string      // "class", "struct", "interface", "record", "enum" or "delegate" for types
}

// Parameter looks a parameter up by name.
func (s SignatureShape) Parameter(name string) (Parameter, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// ParameterIndex returns the declaration index of the named parameter or -1.
func (s SignatureShape) ParameterIndex(name string) int {
	for i, p := range s.Parameters {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// ParameterNames lists parameter names in declaration order.
func (s SignatureShape) ParameterNames() []string {
	names := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		names[i] = p.Name
	}
	return names
}

// IsVoid reports whether the declaration returns nothing.
func (s SignatureShape) IsVoid() bool {
	return s.ReturnType == "" || s.ReturnType == "void"
}

// ReturnsBoolean reports a plain bool return (or property type).
func (s SignatureShape) ReturnsBoolean() bool {
	return isBooleanType(s.ReturnType)
}

// TaskResult returns T for Task<T> and ValueTask<T> return types.
func (s SignatureShape) TaskResult() (string, bool) {
	t := s.ReturnType
	if lt := strings.Index(t, "<"); lt > 0 {
		if dot := strings.LastIndex(t[:lt], "."); dot >= 0 {
			t = t[dot+1:]
		}
	}
	for _, prefix := range []string{"Task<", "ValueTask<"} {
		if strings.HasPrefix(t, prefix) && strings.HasSuffix(t, ">") {
			return strings.TrimSpace(t[len(prefix) : len(t)-1]), true
		}
	}
	return "", false
}

// ReturnsTaskOfBoolean reports a Task<bool> or ValueTask<bool> return.
func (s SignatureShape) ReturnsTaskOfBoolean() bool {
	t, ok := s.TaskResult()
	return ok && isBooleanType(t)
}

// IsEnumerable reports whether the return type is a sequence.
func (s SignatureShape) IsEnumerable() bool {
	t := s.ReturnType
	if strings.HasSuffix(t, "[]") {
		return true
	}
	for _, prefix := range []string{"IEnumerable", "IReadOnlyCollection", "IReadOnlyList", "ICollection", "IList", "List<", "IAsyncEnumerable"} {
		if strings.HasPrefix(t, prefix) || strings.Contains(t, "."+prefix) {
			return true
		}
	}
	return false
}

// IsNullableValueType reports whether the return type is T? over a value type.
func (s SignatureShape) IsNullableValueType() bool {
	return s.ReturnInfo.IsValueType && s.ReturnInfo.IsNullable
}

// DeclarationContext is one documented (or undocumented) declaration as
// delivered by the host. It is read-only to the analysis.
type DeclarationContext struct {
	Kind        DeclarationKind // Declaration category
	Name        string          // Declared name
	FilePath    string          // Source file path
	Shape       SignatureShape  // Resolved signature shape
	RawComment  string          // Raw doc comment text including "///" prefixes; empty when undocumented
	CommentLine int             // Line of the first comment line in the file (1-based)
	Code        string          // Declaration source text following the comment
}

// IsDocumented reports whether a doc comment is attached.
func (d *DeclarationContext) IsDocumented() bool {
	return strings.TrimSpace(d.RawComment) != ""
}

// String renders a short label such as "method DoSomething".
func (d *DeclarationContext) String() string {
	return d.Kind.String() + " " + d.Name
}

// Fingerprint summarizes everything about the declaration, apart from the
// comment text itself, that can change which rules apply.
func (d *DeclarationContext) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%s|%s|%t%t%t|", d.Kind, d.Shape.TypeKeyword, d.Shape.ReturnType,
		d.Shape.HasGetter, d.Shape.HasSetter, d.Shape.IsOverride)
	fmt.Fprintf(&b, "%+v|", d.Shape.ReturnInfo)
	for _, p := range d.Shape.Parameters {
		fmt.Fprintf(&b, "%s %s %s %t=%s %v %+v;", p.Modifier, p.Type, p.Name, p.HasDefault, p.DefaultValue, p.Attributes, p.Info)
	}
	return b.String()
}

func isBooleanType(t string) bool {
	switch t {
	case "bool", "Boolean", "System.Boolean":
		return true
	}
	return false
}
