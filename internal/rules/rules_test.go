// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package rules

import (
	"errors"
	"testing"

	"github.com/petar-djukic/doclint/internal/matcher"
	"github.com/petar-djukic/doclint/internal/rewriter"
	"github.com/petar-djukic/doclint/internal/xmldoc"
	"github.com/petar-djukic/doclint/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSet(t *testing.T) *Set {
	t.Helper()
	s, err := Default(DefaultOptions())
	require.NoError(t, err)
	return s
}

func typeDecl(name string) *types.DeclarationContext {
	return &types.DeclarationContext{Kind: types.KindType, Name: name, Shape: types.SignatureShape{TypeKeyword: "class"}}
}

func methodDecl(ret string, params ...types.Parameter) *types.DeclarationContext {
	return &types.DeclarationContext{Kind: types.KindMethod, Name: "DoSomething", Shape: types.SignatureShape{ReturnType: ret, Parameters: params}}
}

func propertyDecl(typ string, setter bool) *types.DeclarationContext {
	return &types.DeclarationContext{Kind: types.KindProperty, Name: "Name", Shape: types.SignatureShape{ReturnType: typ, HasGetter: true, HasSetter: setter}}
}

var (
	objectParam = func(name string) types.Parameter { return types.Parameter{Name: name, Type: "object"} }
	intParam    = func(name string) types.Parameter {
		return types.Parameter{Name: name, Type: "int", Info: types.TypeInfo{IsValueType: true}}
	}
)

// run returns the matches of one rule.
func run(t *testing.T, s *Set, id string, decl *types.DeclarationContext, raw string) (*xmldoc.Document, []matcher.Match) {
	t.Helper()
	r, ok := s.Rule(id)
	require.True(t, ok, "rule %s registered", id)
	doc, err := xmldoc.ParseDocument(raw, 1)
	require.NoError(t, err)
	return doc, s.Run(r, doc, decl)
}

// fixOnce applies the single match of a rule and checks the result is
// clean for the same rule.
func fixOnce(t *testing.T, s *Set, id string, decl *types.DeclarationContext, raw string) string {
	t.Helper()
	doc, matches := run(t, s, id, decl, raw)
	require.Len(t, matches, 1, "matches of %s", id)
	fixed, err := rewriter.Apply(doc, matches[0])
	require.NoError(t, err)
	_, again := run(t, s, id, decl, fixed.String())
	assert.Empty(t, again, "fixed comment is clean for %s", id)
	return fixed.String()
}

func TestDefault_RulesCoverCatalog(t *testing.T) {
	s := defaultSet(t)
	for _, id := range s.Catalog().Rules() {
		_, ok := s.Rule(id)
		assert.True(t, ok, "catalog rule %s has no registered rule", id)
	}
	for _, r := range s.Rules() {
		if r.Check == nil {
			assert.NotEmpty(t, s.Catalog().ForRule(r.ID), "rule %s has neither phrases nor a check", r.ID)
		}
	}
	assert.NotEmpty(t, s.Catalog().Vocabulary("null-conditions"))
	assert.Contains(t, s.Catalog().Vocabulary("refer-elsewhere"), "see")
}

func TestScenarios(t *testing.T) {
	s := defaultSet(t)
	tests := []struct {
		name string
		rule string
		decl *types.DeclarationContext
		raw  string
		want string
	}{
		{
			name: "used to becomes a verb",
			rule: "DL2001",
			decl: typeDecl("TestMe"),
			raw:  "/// <summary>\n/// Used to render something.\n/// </summary>",
			want: "/// <summary>\n/// Renders something.\n/// </summary>",
		},
		{
			name: "argument null condition",
			rule: "DL2020",
			decl: methodDecl("void", objectParam("o")),
			raw:  `/// <exception cref="ArgumentNullException">If o is null.</exception>`,
			want: `/// <exception cref="ArgumentNullException"><paramref name="o"/> is <see langword="null"/>.</exception>`,
		},
		{
			name: "boolean parameter",
			rule: "DL2010",
			decl: methodDecl("void", types.Parameter{Name: "condition", Type: "bool"}),
			raw:  `/// <param name="condition">Some condition</param>`,
			want: `/// <param name="condition"><see langword="true"/> to some condition; otherwise, <see langword="false"/>.</param>`,
		},
		{
			name: "empty lines become a para separator",
			rule: "DL1002",
			decl: typeDecl("TestMe"),
			raw:  "/// <summary>\n/// A\n///\n///\n/// B\n/// </summary>",
			want: "/// <summary>\n/// A\n/// <para/>\n/// B\n/// </summary>",
		},
		{
			name: "list item keeps only the first term",
			rule: "DL1003",
			decl: typeDecl("TestMe"),
			raw:  `/// <remarks><list type="bullet"><item><term>A</term><term>B</term></item></list></remarks>`,
			want: `/// <remarks><list type="bullet"><item><description>A</description></item></list></remarks>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fixOnce(t, s, tc.rule, tc.decl, tc.raw))
		})
	}
}

func TestListItems_DropsSecondTerm(t *testing.T) {
	s := defaultSet(t)
	got := fixOnce(t, s, "DL1003", typeDecl("T"),
		`/// <remarks><list type="bullet"><item><term>A</term><term>B</term></item></list></remarks>`)
	// Normalizing to the first term discards the second one.
	assert.NotContains(t, got, "B")
	assert.NotContains(t, got, "<term>")
}

func TestWording_Gating(t *testing.T) {
	s := defaultSet(t)
	tests := []struct {
		name string
		rule string
		decl *types.DeclarationContext
		raw  string
		want string // empty: no match
	}{
		{
			name: "read-only property",
			rule: "DL2003",
			decl: propertyDecl("string", false),
			raw:  "/// <summary>Gets or sets the name.</summary>",
			want: "/// <summary>Gets the name.</summary>",
		},
		{
			name: "read-write property",
			rule: "DL2003",
			decl: propertyDecl("string", true),
			raw:  "/// <summary>Gets the name.</summary>",
			want: "/// <summary>Gets or sets the name.</summary>",
		},
		{
			name: "read-only property already canonical",
			rule: "DL2003",
			decl: propertyDecl("string", false),
			raw:  "/// <summary>Gets the name.</summary>",
		},
		{
			name: "property rule ignores methods",
			rule: "DL2003",
			decl: methodDecl("string"),
			raw:  "/// <summary>Returns the name.</summary>",
		},
		{
			name: "bool return",
			rule: "DL2011",
			decl: methodDecl("bool"),
			raw:  "/// <returns>True if found; otherwise false.</returns>",
			want: `/// <returns><see langword="true"/> if found; otherwise, <see langword="false"/>.</returns>`,
		},
		{
			name: "task of bool return",
			rule: "DL2011",
			decl: methodDecl("Task<bool>"),
			raw:  "/// <returns>True if found.</returns>",
			want: `/// <returns>A task that will complete with a result of <see langword="true"/> if found; otherwise, with a result of <see langword="false"/>.</returns>`,
		},
		{
			name: "string return is not boolean",
			rule: "DL2011",
			decl: methodDecl("string"),
			raw:  "/// <returns>True if found.</returns>",
		},
		{
			name: "event",
			rule: "DL2004",
			decl: &types.DeclarationContext{Kind: types.KindEvent, Name: "Changed"},
			raw:  "/// <summary>Raised when the value changes.</summary>",
			want: "/// <summary>Occurs when the value changes.</summary>",
		},
		{
			name: "factory prefers the longest phrase",
			rule: "DL2002",
			decl: typeDecl("WidgetFactory"),
			raw:  "/// <summary>Factory class for creating widgets.</summary>",
			want: "/// <summary>Provides support for creating widgets.</summary>",
		},
		{
			name: "meaningless type phrase",
			rule: "DL2002",
			decl: typeDecl("Cache"),
			raw:  "/// <summary>This class is used to cache items.</summary>",
			want: "/// <summary>Caches items.</summary>",
		},
		{
			name: "default value phrasing",
			rule: "DL2012",
			decl: methodDecl("void", intParam("count")),
			raw:  `/// <param name="count">The count. Defaults to 5.</param>`,
			want: `/// <param name="count">The count. The default is 5.</param>`,
		},
		{
			name: "default value inside a sentence",
			rule: "DL2012",
			decl: methodDecl("void", types.Parameter{Name: "items", Type: "string[]"}),
			raw:  `/// <param name="items">Items; default is empty.</param>`,
			want: `/// <param name="items">Items; the default is empty.</param>`,
		},
		{
			name: "plain keyword",
			rule: "DL2030",
			decl: methodDecl("string"),
			raw:  "/// <returns>The name, or null if missing.</returns>",
			want: `/// <returns>The name, or <see langword="null"/> if missing.</returns>`,
		},
		{
			name: "hyphenated keyword is prose",
			rule: "DL2030",
			decl: methodDecl("string"),
			raw:  "/// <returns>A null-terminated name.</returns>",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.want == "" {
				_, matches := run(t, s, tc.rule, tc.decl, tc.raw)
				assert.Empty(t, matches)
				return
			}
			assert.Equal(t, tc.want, fixOnce(t, s, tc.rule, tc.decl, tc.raw))
		})
	}
}

func TestArgumentNull(t *testing.T) {
	s := defaultSet(t)
	decl := methodDecl("void", objectParam("a"), objectParam("b"))

	t.Run("conditions reordered by signature", func(t *testing.T) {
		raw := "/// <exception cref=\"ArgumentNullException\">\n" +
			"/// <paramref name=\"b\"/> is <see langword=\"null\"/>.\n" +
			"/// -or-\n" +
			"/// <paramref name=\"a\"/> is <see langword=\"null\"/>.\n" +
			"/// </exception>"
		want := "/// <exception cref=\"ArgumentNullException\">\n" +
			"/// <paramref name=\"a\"/> is <see langword=\"null\"/>.\n" +
			"/// -or-\n" +
			"/// <paramref name=\"b\"/> is <see langword=\"null\"/>.\n" +
			"/// </exception>"
		assert.Equal(t, want, fixOnce(t, s, "DL2020", decl, raw))
	})

	t.Run("one condition per parameter", func(t *testing.T) {
		raw := `/// <exception cref="ArgumentNullException">If a or b is null.</exception>`
		want := "/// <exception cref=\"ArgumentNullException\"><paramref name=\"a\"/> is <see langword=\"null\"/>.\n" +
			"/// -or-\n" +
			"/// <paramref name=\"b\"/> is <see langword=\"null\"/>.</exception>"
		assert.Equal(t, want, fixOnce(t, s, "DL2020", decl, raw))
	})

	t.Run("only the non-canonical condition changes", func(t *testing.T) {
		raw := "/// <exception cref=\"System.ArgumentNullException\">\n" +
			"/// <paramref name=\"a\"/>  is <see langword=\"null\"/>.\n" +
			"/// <para>-or-</para>\n" +
			"/// <para>b is null.</para>\n" +
			"/// </exception>"
		doc, matches := run(t, s, "DL2020", decl, raw)
		require.Len(t, matches, 1)
		assert.Equal(t, "b", matches[0].Captures["param"])
		fixed, err := rewriter.Apply(doc, matches[0])
		require.NoError(t, err)
		assert.Contains(t, fixed.String(), "/// <paramref name=\"a\"/>  is <see langword=\"null\"/>.\n")
		assert.Contains(t, fixed.String(), "/// <para><paramref name=\"b\"/> is <see langword=\"null\"/>.</para>\n")
	})

	t.Run("unresolved condition has no fix", func(t *testing.T) {
		doc, matches := run(t, s, "DL2020", decl, `/// <exception cref="ArgumentNullException">Something is missing.</exception>`)
		require.Len(t, matches, 1)
		_, err := rewriter.Apply(doc, matches[0])
		var amb *rewriter.AmbiguousFixError
		assert.True(t, errors.As(err, &amb))
	})

	t.Run("value type parameter", func(t *testing.T) {
		vdecl := methodDecl("void", intParam("count"), objectParam("o"))
		raw := `/// <exception cref="ArgumentNullException"><paramref name="count"/> is <see langword="null"/>.</exception>`
		_, matches := run(t, s, "DL2020", vdecl, raw)
		assert.Empty(t, matches)
		doc, matches := run(t, s, "DL2021", vdecl, raw)
		require.Len(t, matches, 1)
		assert.Equal(t, "count", matches[0].Captures["param"])
		_, err := rewriter.Apply(doc, matches[0])
		assert.ErrorIs(t, err, rewriter.ErrNoFix)
	})
}

func TestLayout(t *testing.T) {
	s := defaultSet(t)
	tests := []struct {
		name string
		rule string
		raw  string
		want string
	}{
		{
			name: "summary text moved to its own lines",
			rule: "DL1001",
			raw:  "/// <summary>Does a thing\n/// and more.</summary>",
			want: "/// <summary>\n/// Does a thing\n/// and more.\n/// </summary>",
		},
		{
			name: "leading empty line removed",
			rule: "DL1002",
			raw:  "/// <remarks>\n///\n/// Text.\n/// </remarks>",
			want: "/// <remarks>\n/// Text.\n/// </remarks>",
		},
		{
			name: "list type added",
			rule: "DL1004",
			raw:  `/// <remarks><list><item><description>A</description></item></list></remarks>`,
			want: `/// <remarks><list type="bullet"><item><description>A</description></item></list></remarks>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fixOnce(t, s, tc.rule, typeDecl("T"), tc.raw))
		})
	}

	t.Run("one-line summary is fine", func(t *testing.T) {
		_, matches := run(t, s, "DL1001", typeDecl("T"), "/// <summary>Does a thing.</summary>")
		assert.Empty(t, matches)
	})
	t.Run("empty lines in code are kept", func(t *testing.T) {
		_, matches := run(t, s, "DL1002", typeDecl("T"), "/// <remarks>\n/// <code>\n/// a\n///\n/// b\n/// </code>\n/// </remarks>")
		assert.Empty(t, matches)
	})
}

func TestDefaults(t *testing.T) {
	s := defaultSet(t)
	mode := types.Parameter{Name: "mode", Type: "Mode", Info: types.TypeInfo{IsValueType: true, IsEnum: true, EnumMembers: []string{"Fast", "Slow"}}}

	t.Run("enum default linked", func(t *testing.T) {
		got := fixOnce(t, s, "DL2012", methodDecl("void", mode), `/// <param name="mode">The mode. The default is Fast.</param>`)
		assert.Equal(t, `/// <param name="mode">The mode. The default is <see cref="Mode.Fast"/>.</param>`, got)
	})

	tests := []struct {
		name  string
		param types.Parameter
		raw   string
		want  string
	}{
		{
			name:  "number",
			param: types.Parameter{Name: "count", Type: "int", HasDefault: true, DefaultValue: "5"},
			raw:   `/// <param name="count">The number of items.</param>`,
			want:  `/// <param name="count">The number of items. The default is 5.</param>`,
		},
		{
			name:  "keyword without period",
			param: types.Parameter{Name: "force", Type: "bool", HasDefault: true, DefaultValue: "false"},
			raw:   `/// <param name="force">Whether to overwrite</param>`,
			want:  `/// <param name="force">Whether to overwrite. The default is <see langword="false"/>.</param>`,
		},
		{
			name:  "enum member",
			param: types.Parameter{Name: "mode", Type: "Mode", HasDefault: true, DefaultValue: "Mode.Slow", Info: mode.Info},
			raw:   `/// <param name="mode">The mode.</param>`,
			want:  `/// <param name="mode">The mode. The default is <see cref="Mode.Slow"/>.</param>`,
		},
		{
			name:  "string literal",
			param: types.Parameter{Name: "sep", Type: "string", HasDefault: true, DefaultValue: `","`},
			raw:   `/// <param name="sep">The separator.</param>`,
			want:  `/// <param name="sep">The separator. The default is <c>","</c>.</param>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, fixOnce(t, s, "DL2013", methodDecl("void", tc.param), tc.raw))
		})
	}

	t.Run("caller info parameters are exempt", func(t *testing.T) {
		p := types.Parameter{Name: "caller", Type: "string", HasDefault: true, DefaultValue: "null", Attributes: []string{"CallerMemberName"}}
		_, matches := run(t, s, "DL2013", methodDecl("void", p), `/// <param name="caller">The caller.</param>`)
		assert.Empty(t, matches)
	})
}

func TestLongSentences(t *testing.T) {
	cat, err := DefaultCatalog()
	require.NoError(t, err)
	s := NewSet(cat, Options{MaxSentenceWords: 5})
	RegisterDefaultRules(s)

	doc, matches := run(t, s, "DL2040", typeDecl("T"), "/// <summary>One two three four five six. Short one.</summary>")
	require.Len(t, matches, 1)
	assert.Equal(t, "One two three four five six.", doc.Slice(matches[0].Start, matches[0].End))
	_, err = rewriter.Apply(doc, matches[0])
	assert.ErrorIs(t, err, rewriter.ErrNoFix)
}

func TestReferenceSummary(t *testing.T) {
	s := defaultSet(t)
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "leading see", raw: `/// <summary>See <see cref="Run"/>.</summary>`, want: `/// <inheritdoc cref="Run"/>`},
		{name: "trailing phrase", raw: `/// <summary><see cref="Run"/> for details.</summary>`, want: `/// <inheritdoc cref="Run"/>`},
		{name: "more than a reference", raw: `/// <summary>See <see cref="Run"/> for the retry policy.</summary>`},
		{name: "bare reference", raw: `/// <summary><see cref="Run"/></summary>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.want == "" {
				_, matches := run(t, s, "DL2050", typeDecl("T"), tc.raw)
				assert.Empty(t, matches)
				return
			}
			assert.Equal(t, tc.want, fixOnce(t, s, "DL2050", typeDecl("T"), tc.raw))
		})
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 4, countWords(`Calls <see cref="Run"/> with <c>x</c>`))
	assert.Equal(t, 0, countWords("  "))
}

func TestExceptionName(t *testing.T) {
	for in, want := range map[string]string{
		"ArgumentNullException":               "ArgumentNullException",
		"T:System.ArgumentNullException":      "ArgumentNullException",
		"System.Collections.Generic.List{T}":  "List",
		"global::System.ArgumentNullException": "ArgumentNullException",
	} {
		assert.Equal(t, want, exceptionName(in), in)
	}
}
