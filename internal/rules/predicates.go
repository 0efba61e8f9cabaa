// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rules

import (
	"strings"

	"github.com/petar-djukic/doclint/internal/phrase"
	"github.com/petar-djukic/doclint/pkg/types"
)

// Predicates returns the applicability tests catalog entries can name.
func Predicates() phrase.Predicates {
	return phrase.Predicates{
		"bool-param": func(s phrase.Scope) bool {
			return s.Param != nil && s.Param.IsBoolean()
		},
		"enum-param": func(s phrase.Scope) bool {
			return s.Param != nil && s.Param.Info.IsEnum
		},
		"bool-return": func(s phrase.Scope) bool {
			return s.Decl != nil && s.Decl.Shape.ReturnsBoolean()
		},
		"task-bool-return": func(s phrase.Scope) bool {
			return s.Decl != nil && s.Decl.Shape.ReturnsTaskOfBoolean()
		},
		"read-write-property": func(s phrase.Scope) bool {
			return s.Decl != nil && s.Decl.Kind == types.KindProperty && s.Decl.Shape.HasGetter && s.Decl.Shape.HasSetter
		},
		"read-only-property": func(s phrase.Scope) bool {
			return s.Decl != nil && s.Decl.Kind == types.KindProperty && s.Decl.Shape.HasGetter && !s.Decl.Shape.HasSetter
		},
		"override": func(s phrase.Scope) bool {
			return s.Decl != nil && s.Decl.Shape.IsOverride
		},
		"argument-null-exception": func(s phrase.Scope) bool {
			return exceptionName(s.Exception) == "ArgumentNullException"
		},
	}
}

// exceptionName reduces a cref such as "T:System.ArgumentNullException" to
// the bare type name.
func exceptionName(cref string) string {
	cref = strings.TrimPrefix(cref, "T:")
	if i := strings.IndexAny(cref, "<{"); i >= 0 {
		cref = cref[:i]
	}
	if i := strings.LastIndex(cref, "."); i >= 0 {
		cref = cref[i+1:]
	}
	return cref
}
