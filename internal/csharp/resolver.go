// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package csharp

import (
	"strings"

	"github.com/petar-djukic/doclint/pkg/types"
)

// builtinValueTypes are the value types every C# program sees.
var builtinValueTypes = map[string]bool{
	"bool": true, "Boolean": true, "byte": true, "Byte": true, "sbyte": true, "SByte": true,
	"char": true, "Char": true, "decimal": true, "Decimal": true, "double": true, "Double": true,
	"float": true, "Single": true, "int": true, "Int32": true, "uint": true, "UInt32": true,
	"long": true, "Int64": true, "ulong": true, "UInt64": true, "short": true, "Int16": true,
	"ushort": true, "UInt16": true, "nint": true, "IntPtr": true, "nuint": true, "UIntPtr": true,
	"DateTime": true, "DateTimeOffset": true, "DateOnly": true, "TimeOnly": true, "TimeSpan": true,
	"Guid": true, "CancellationToken": true, "Span": true, "ReadOnlySpan": true, "Memory": true,
	"ReadOnlyMemory": true, "ValueTask": true, "KeyValuePair": true, "ValueTuple": true,
}

// Resolver answers type questions from the type definitions of a set of
// files. Types it has never seen resolve as reference types.
type Resolver struct {
	types map[string]TypeDef
}

// NewResolver indexes the types declared in files. The first definition of
// a name wins.
func NewResolver(files ...*File) *Resolver {
	r := &Resolver{types: make(map[string]TypeDef)}
	for _, f := range files {
		if f == nil {
			continue
		}
		for _, t := range f.Types {
			if _, ok := r.types[t.Name]; !ok {
				r.types[t.Name] = t
			}
		}
	}
	return r
}

// ResolveTypeReference implements types.TypeResolver.
func (r *Resolver) ResolveTypeReference(name string) types.TypeInfo {
	t := strings.TrimSpace(name)
	var info types.TypeInfo
	if strings.HasSuffix(t, "?") {
		info.IsNullable = true
		t = strings.TrimSpace(strings.TrimSuffix(t, "?"))
	}
	if strings.HasPrefix(t, "(") {
		info.IsValueType = true
		return info
	}
	if strings.HasSuffix(t, "]") {
		return info
	}
	t = strings.TrimPrefix(t, "global::")
	base := baseName(t)
	if base == "Nullable" {
		if open := strings.IndexByte(t, '<'); open > 0 && strings.HasSuffix(t, ">") {
			inner := r.ResolveTypeReference(t[open+1 : len(t)-1])
			inner.IsNullable = true
			return inner
		}
	}
	if def, ok := r.types[base]; ok {
		switch def.Keyword {
		case "enum":
			info.IsValueType = true
			info.IsEnum = true
			info.EnumMembers = append([]string(nil), def.Members...)
		case "struct":
			info.IsValueType = true
		}
		return info
	}
	info.IsValueType = builtinValueTypes[base]
	return info
}

// Annotate fills the resolved type information of a declaration's
// signature.
func (r *Resolver) Annotate(decl *types.DeclarationContext) {
	if decl.Shape.ReturnType != "" {
		decl.Shape.ReturnInfo = r.ResolveTypeReference(decl.Shape.ReturnType)
	}
	for i := range decl.Shape.Parameters {
		decl.Shape.Parameters[i].Info = r.ResolveTypeReference(decl.Shape.Parameters[i].Type)
	}
}

var _ types.TypeResolver = (*Resolver)(nil)
