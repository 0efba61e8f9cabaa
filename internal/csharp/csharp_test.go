// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package csharp

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/petar-djukic/doclint/pkg/types"
)

// unpack writes a txtar archive from testdata into a temporary directory.
func unpack(t *testing.T, name string) string {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	root := t.TempDir()
	for _, f := range ar.Files {
		p := filepath.Join(root, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, f.Data, 0o644))
	}
	return root
}

func byName(decls []*types.DeclarationContext) map[string]*types.DeclarationContext {
	out := make(map[string]*types.DeclarationContext)
	for _, d := range decls {
		key := d.Kind.String() + " " + d.Name
		if _, ok := out[key]; !ok {
			out[key] = d
		}
	}
	return out
}

func TestScanDir(t *testing.T) {
	root := unpack(t, "project.txtar")
	result, err := ScanDir(root, 4)
	require.NoError(t, err)

	widget := filepath.Join("src", "Widgets", "Widget.cs")
	broken := filepath.Join("src", "Widgets", "Broken.cs")

	t.Run("finds .cs files outside skipped and ignored directories", func(t *testing.T) {
		assert.Len(t, result.Files, 2)
		assert.Contains(t, result.Files, widget)
		assert.Contains(t, result.Files, broken)
	})

	t.Run("collects problems without aborting", func(t *testing.T) {
		require.Len(t, result.Errors, 1)
		assert.Equal(t, broken, result.Errors[0].FilePath)
		var syn *SyntaxError
		require.True(t, errors.As(result.Errors[0].Err, &syn))
		assert.Equal(t, 3, syn.Line)
	})

	t.Run("declarations", func(t *testing.T) {
		decls := result.Declarations()
		assert.Len(t, decls, 13)
		for i := 1; i < len(decls); i++ {
			assert.Less(t, decls[i-1].CommentLine, decls[i].CommentLine)
		}
		first := decls[0]
		assert.Equal(t, types.KindType, first.Kind)
		assert.Equal(t, "Widget", first.Name)
		assert.Equal(t, widget, first.FilePath)
		assert.Equal(t, 6, first.CommentLine)
		assert.Equal(t, "    /// <summary>\n    /// Used to render widgets.\n    /// </summary>", first.RawComment)
		assert.Equal(t, "class", first.Shape.TypeKeyword)
	})

	t.Run("types are resolved across the scan", func(t *testing.T) {
		m := byName(result.Declarations())
		render := m["method RenderAsync"]
		require.NotNil(t, render)
		assert.True(t, render.Shape.ReturnsTaskOfBoolean())

		clear, _ := render.Shape.Parameter("clear")
		assert.True(t, clear.Info.IsValueType)
		color, _ := render.Shape.Parameter("color")
		assert.True(t, color.Info.IsEnum)
		assert.Equal(t, []string{"Red", "Green", "Blue"}, color.Info.EnumMembers)
		target, _ := render.Shape.Parameter("target")
		assert.True(t, target.Info.AcceptsNull())
	})
}

func TestScanDirErrors(t *testing.T) {
	t.Run("nonexistent directory", func(t *testing.T) {
		_, err := ScanDir("/nonexistent/path/12345", 4)
		assert.Error(t, err)
	})

	t.Run("file not directory", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "a.cs")
		require.NoError(t, os.WriteFile(f, []byte("class A {}"), 0o644))
		_, err := ScanDir(f, 4)
		assert.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		result, err := ScanDir(t.TempDir(), 0)
		require.NoError(t, err)
		assert.Empty(t, result.Files)
		assert.Empty(t, result.Errors)
		assert.Empty(t, result.Declarations())
	})
}

func TestScanFiles(t *testing.T) {
	root := unpack(t, "project.txtar")
	result, err := ScanFiles(root, []string{filepath.Join("src", "Widgets", "Widget.cs")}, 1)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Declarations(), 13)
}

func TestExtractDeclarations(t *testing.T) {
	root := unpack(t, "project.txtar")
	src, err := os.ReadFile(filepath.Join(root, "src", "Widgets", "Widget.cs"))
	require.NoError(t, err)
	decls, err := ExtractDeclarations("Widget.cs", string(src))
	require.NoError(t, err)
	m := byName(decls)

	tests := []struct {
		key   string
		check func(t *testing.T, d *types.DeclarationContext)
	}{
		{"property Name", func(t *testing.T, d *types.DeclarationContext) {
			assert.Equal(t, "string", d.Shape.ReturnType)
			assert.True(t, d.Shape.HasGetter)
			assert.False(t, d.Shape.HasSetter)
		}},
		{"property Size", func(t *testing.T, d *types.DeclarationContext) {
			assert.True(t, d.Shape.HasGetter)
			assert.True(t, d.Shape.HasSetter)
		}},
		{"event Changed", func(t *testing.T, d *types.DeclarationContext) {
			assert.Equal(t, "EventHandler", d.Shape.ReturnType)
		}},
		{"method RenderAsync", func(t *testing.T, d *types.DeclarationContext) {
			assert.Equal(t, "Task<bool>", d.Shape.ReturnType)
			assert.Equal(t, []string{"target", "clear", "color", "caller", "counts"}, d.Shape.ParameterNames())
			clear := d.Shape.Parameters[1]
			assert.True(t, clear.HasDefault)
			assert.Equal(t, "false", clear.DefaultValue)
			assert.True(t, clear.IsBoolean())
			caller := d.Shape.Parameters[3]
			assert.True(t, caller.HasAttribute("CallerMemberName"))
			assert.Equal(t, `""`, caller.DefaultValue)
			assert.Equal(t, "Dictionary<string, int>?", d.Shape.Parameters[4].Type)
		}},
		{"method Equals", func(t *testing.T, d *types.DeclarationContext) {
			assert.Equal(t, "bool", d.Shape.ReturnType)
			assert.True(t, d.Shape.ReturnsBoolean())
		}},
		{"property this", func(t *testing.T, d *types.DeclarationContext) {
			assert.Equal(t, "T", d.Shape.ReturnType)
			assert.Equal(t, []string{"index"}, d.Shape.ParameterNames())
		}},
		{"method Widget", func(t *testing.T, d *types.DeclarationContext) {
			assert.True(t, d.Shape.IsVoid())
			require.Len(t, d.Shape.Parameters, 2)
			assert.Equal(t, "ref", d.Shape.Parameters[0].Modifier)
			assert.Equal(t, "params", d.Shape.Parameters[1].Modifier)
			assert.Equal(t, "string[]", d.Shape.Parameters[1].Type)
		}},
		{"type Color", func(t *testing.T, d *types.DeclarationContext) {
			assert.Equal(t, "enum", d.Shape.TypeKeyword)
		}},
		{"enum-member Red", nil},
		{"enum-member Blue", nil},
		{"type Point", func(t *testing.T, d *types.DeclarationContext) {
			assert.Equal(t, "struct", d.Shape.TypeKeyword)
			assert.Equal(t, []string{"X", "Y"}, d.Shape.ParameterNames())
		}},
		{"type Decider", func(t *testing.T, d *types.DeclarationContext) {
			assert.Equal(t, "delegate", d.Shape.TypeKeyword)
			assert.Equal(t, "bool", d.Shape.ReturnType)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			d := m[tc.key]
			require.NotNil(t, d, "declarations: %v", keys(m))
			if tc.check != nil {
				tc.check(t, d)
			}
		})
	}
	assert.NotContains(t, m, "enum-member Green", "undocumented members are not declarations")
}

func keys(m map[string]*types.DeclarationContext) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestExtract_Types(t *testing.T) {
	src := `enum Mode { Fast, Slow = 3 }
/* enum Hidden { A } */
public record class Person(string Name);
struct Pair { }
`
	f, err := Extract("a.cs", src)
	require.NoError(t, err)
	require.Len(t, f.Types, 3)
	assert.Equal(t, TypeDef{Name: "Mode", Keyword: "enum", Members: []string{"Fast", "Slow"}}, f.Types[0])
	assert.Equal(t, "record", f.Types[1].Keyword)
	assert.Equal(t, "struct", f.Types[2].Keyword)
}

func TestResolver(t *testing.T) {
	f := &File{Types: []TypeDef{
		{Name: "Mode", Keyword: "enum", Members: []string{"Fast", "Slow"}},
		{Name: "Pair", Keyword: "struct"},
		{Name: "Person", Keyword: "record"},
	}}
	r := NewResolver(f, nil)
	tests := []struct {
		name string
		want types.TypeInfo
	}{
		{"int", types.TypeInfo{IsValueType: true}},
		{"System.Int32", types.TypeInfo{IsValueType: true}},
		{"int?", types.TypeInfo{IsValueType: true, IsNullable: true}},
		{"Nullable<Pair>", types.TypeInfo{IsValueType: true, IsNullable: true}},
		{"string", types.TypeInfo{}},
		{"string?", types.TypeInfo{IsNullable: true}},
		{"int[]", types.TypeInfo{}},
		{"(int, string)", types.TypeInfo{IsValueType: true}},
		{"Person", types.TypeInfo{}},
		{"Pair", types.TypeInfo{IsValueType: true}},
		{"Mode", types.TypeInfo{IsValueType: true, IsEnum: true, EnumMembers: []string{"Fast", "Slow"}}},
		{"global::App.Mode", types.TypeInfo{IsValueType: true, IsEnum: true, EnumMembers: []string{"Fast", "Slow"}}},
		{"List<Pair>", types.TypeInfo{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.ResolveTypeReference(tc.name))
		})
	}
}

func TestHeaderHelpers(t *testing.T) {
	assert.Equal(t, []string{"Dictionary<string, int>", "x"}, fields("Dictionary<string, int> x"))
	assert.Equal(t, []string{"a", " Func<int, int> f", " b = (1, 2)"}, splitTop("a, Func<int, int> f, b = (1, 2)", ','))
	assert.Equal(t, "Equals", baseName("IEquatable<Widget<T>>.Equals"))
	assert.Equal(t, "Cache", baseName("Cache<TKey, TValue>"))
	assert.Equal(t, `x = "}{" _ `, stripComment(`x = "}{" _ // }`))
	assert.Equal(t, `x = "__" _ `, stripCode(`x = "}{" _ // }`))

	at, term := terminator(`Foo(string s = "{") => 1;`)
	assert.Equal(t, "=>", term)
	assert.Equal(t, 20, at)
}
