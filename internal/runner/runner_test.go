// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/doclint/internal/cache"
	"github.com/petar-djukic/doclint/internal/rewriter"
	"github.com/petar-djukic/doclint/internal/rules"
	"github.com/petar-djukic/doclint/pkg/types"
)

const (
	usedTo = "/// <summary>\n/// Used to render something.\n/// </summary>"
	fixed  = "/// <summary>\n/// Renders something.\n/// </summary>"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newRunner(t *testing.T, cfg Config) *Runner {
	t.Helper()
	if cfg.Rules == nil {
		s, err := rules.Default(rules.DefaultOptions())
		require.NoError(t, err)
		cfg.Rules = s
	}
	if cfg.Logger == nil {
		cfg.Logger = quietLogger()
	}
	r, err := New(cfg)
	require.NoError(t, err)
	return r
}

func typeDecl(raw string) *types.DeclarationContext {
	return &types.DeclarationContext{
		Kind:        types.KindType,
		Name:        "TestMe",
		FilePath:    "TestMe.cs",
		Shape:       types.SignatureShape{TypeKeyword: "class"},
		RawComment:  raw,
		CommentLine: 10,
	}
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoRules)

	s, err := rules.Default(rules.DefaultOptions())
	require.NoError(t, err)
	for _, cfg := range []Config{
		{Rules: s, Enable: []string{"DL9999"}},
		{Rules: s, Disable: []string{"nope"}},
		{Rules: s, Severity: map[string]types.Severity{"DL0000": types.SeverityError}},
	} {
		_, err := New(cfg)
		assert.ErrorIs(t, err, ErrUnknownRule)
	}

	r := newRunner(t, Config{Rules: s, Enable: []string{"DL2001", "DL1001"}})
	require.Len(t, r.Rules(), 2)
	assert.Equal(t, "DL1001", r.Rules()[0].ID)
}

func TestInspect_States(t *testing.T) {
	r := newRunner(t, Config{})
	tests := []struct {
		name  string
		raw   string
		state State
		diags int
	}{
		{"undocumented", "", NotDocumented, 0},
		{"blank comment", "   ", NotDocumented, 0},
		{"clean", fixed, Clean, 0},
		{"violating", usedTo, Violating, 1},
		{"malformed", "/// <summary", Skipped, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := r.Inspect(typeDecl(tc.raw))
			assert.Equal(t, tc.state, res.State, "state %s", res.State)
			assert.Len(t, res.Diagnostics, tc.diags)
		})
	}

	assert.Equal(t, NotDocumented, r.Inspect(nil).State)
	assert.Equal(t, "violating", Violating.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestAnalyze_Diagnostic(t *testing.T) {
	r := newRunner(t, Config{})
	diags := r.Analyze(typeDecl(usedTo))
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "DL2001", d.RuleID)
	assert.Equal(t, "SummaryStartsWithVerb", d.RuleName)
	assert.Equal(t, "type TestMe", d.Declaration)
	assert.Equal(t, "TestMe.cs", d.FilePath)
	assert.Equal(t, types.SeverityWarning, d.Severity)
	assert.True(t, d.Fixable)
	assert.NotEmpty(t, d.Message)
	assert.Equal(t, types.Position{Line: 11, Column: 5}, d.Span.Start())

	// Same input, same output.
	for i := 0; i < 5; i++ {
		assert.Equal(t, diags, r.Analyze(typeDecl(usedTo)))
	}
}

func TestAnalyze_Order(t *testing.T) {
	r := newRunner(t, Config{})
	raw := "/// <summary>Used to render something.\n/// More.</summary>"
	diags := r.Analyze(typeDecl(raw))
	require.NotEmpty(t, diags)
	for i := 1; i < len(diags); i++ {
		prev, cur := diags[i-1], diags[i]
		if prev.Span.Start() == cur.Span.Start() {
			assert.Less(t, prev.RuleID, cur.RuleID)
			continue
		}
		assert.True(t, prev.Span.Start().Before(cur.Span.Start()), "%s before %s", prev, cur)
	}
}

func TestConfig_Overrides(t *testing.T) {
	r := newRunner(t, Config{Disable: []string{"DL2001"}})
	assert.Empty(t, r.Analyze(typeDecl(usedTo)))

	r = newRunner(t, Config{Severity: map[string]types.Severity{"DL2001": types.SeverityError}})
	diags := r.Analyze(typeDecl(usedTo))
	require.Len(t, diags, 1)
	assert.Equal(t, types.SeverityError, diags[0].Severity)
}

func TestFix(t *testing.T) {
	r := newRunner(t, Config{})
	decl := typeDecl(usedTo)
	diags := r.Analyze(decl)
	require.Len(t, diags, 1)

	fix, err := r.Fix(decl, diags[0])
	require.NoError(t, err)
	assert.Equal(t, "DL2001", fix.RuleID)
	assert.NotEmpty(t, fix.Title)
	assert.Equal(t, fixed, fix.NewCommentText)

	// The fixed comment is analyzed from scratch and is clean.
	assert.Equal(t, Clean, r.Inspect(typeDecl(fix.NewCommentText)).State)

	stale := diags[0]
	stale.Span.StartLine++
	_, err = r.Fix(decl, stale)
	assert.ErrorIs(t, err, ErrDiagnosticNotFound)

	_, err = r.Fix(typeDecl(""), diags[0])
	assert.ErrorIs(t, err, ErrNotDocumented)
}

func TestFix_NotFixable(t *testing.T) {
	s, err := rules.Default(rules.Options{MaxSentenceWords: 3})
	require.NoError(t, err)
	r := newRunner(t, Config{Rules: s, Enable: []string{"DL2040"}})
	decl := typeDecl("/// <summary>\n/// Renders a very long sentence here.\n/// </summary>")
	diags := r.Analyze(decl)
	require.Len(t, diags, 1)
	assert.False(t, diags[0].Fixable)
	assert.Equal(t, types.SeverityInfo, diags[0].Severity)

	_, err = r.Fix(decl, diags[0])
	require.Error(t, err)
	assert.ErrorIs(t, err, rewriter.ErrNoFix)
}

func TestFixAll(t *testing.T) {
	r := newRunner(t, Config{})
	decl := typeDecl("/// <summary>Used to render something.\n/// More.</summary>")

	text, remaining, err := r.FixAll(decl)
	require.NoError(t, err)
	assert.Equal(t, "/// <summary>\n/// Renders something.\n/// More.\n/// </summary>", text)
	assert.Empty(t, remaining)
	assert.Equal(t, "/// <summary>Used to render something.\n/// More.</summary>", decl.RawComment, "input untouched")

	text, remaining, err = r.FixAll(typeDecl(fixed))
	require.NoError(t, err)
	assert.Equal(t, fixed, text)
	assert.Empty(t, remaining)

	_, _, err = r.FixAll(typeDecl("/// <summary"))
	assert.Error(t, err)
}

func TestFixAll_InsertionAfterRewrite(t *testing.T) {
	r := newRunner(t, Config{})
	decl := typeDecl("/// <summary>Runs.</summary>\n/// <param name=\"flag\">Whether to run</param>")
	decl.Kind = types.KindMethod
	decl.Name = "Run"
	decl.Shape = types.SignatureShape{
		ReturnType: "void",
		Parameters: []types.Parameter{{Name: "flag", Type: "bool", HasDefault: true, DefaultValue: "true"}},
	}

	text, _, err := r.FixAll(decl)
	require.NoError(t, err)
	assert.NotContains(t, text, "..")
	assert.Contains(t, text, `<see langword="false"/>. The default is <see langword="true"/>.</param>`)
}

func TestAnalyzeAll(t *testing.T) {
	r := newRunner(t, Config{Workers: 3})
	decls := []*types.DeclarationContext{
		typeDecl(usedTo), typeDecl(fixed), typeDecl(""), typeDecl("/// <summary"), typeDecl(usedTo),
	}
	results, err := r.AnalyzeAll(context.Background(), decls)
	require.NoError(t, err)
	require.Len(t, results, len(decls))
	want := []State{Violating, Clean, NotDocumented, Skipped, Violating}
	for i, res := range results {
		assert.Equal(t, want[i], res.State, "declaration %d", i)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.AnalyzeAll(ctx, decls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCache(t *testing.T) {
	c, err := cache.New(cache.Config{Logger: quietLogger()})
	require.NoError(t, err)
	metrics := NewMetrics(nil)
	r := newRunner(t, Config{Cache: c, Metrics: metrics})

	first := r.Inspect(typeDecl(usedTo))
	assert.Equal(t, 1, c.Len())

	// Same comment further down another file: served from the cache with
	// positions moved to the new location.
	moved := typeDecl(usedTo)
	moved.CommentLine = 40
	moved.FilePath = "Other.cs"
	second := r.Inspect(moved)
	require.Len(t, second.Diagnostics, 1)
	assert.Equal(t, Violating, second.State)
	assert.Equal(t, 41, second.Diagnostics[0].Span.StartLine)
	assert.Equal(t, "Other.cs", second.Diagnostics[0].FilePath)

	again := r.Inspect(typeDecl(usedTo))
	assert.Equal(t, first, again)

	// Another declaration shape is another key.
	method := typeDecl(usedTo)
	method.Kind = types.KindMethod
	r.Inspect(method)
	assert.Equal(t, 2, c.Len())

	path := filepath.Join(t.TempDir(), "doclint.prom")
	require.NoError(t, metrics.WriteTextfile(path))
	out, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, `doclint_cache_lookups_total{result="hit"} 2`)
	assert.Contains(t, text, `doclint_cache_lookups_total{result="miss"} 2`)
	assert.Contains(t, text, `doclint_declarations_analyzed_total{state="violating"} 4`)
	assert.Contains(t, text, `doclint_diagnostics_total{rule="DL2001"} 4`)
}

func TestMetrics_Fixes(t *testing.T) {
	metrics := NewMetrics(nil)
	r := newRunner(t, Config{Metrics: metrics})
	decl := typeDecl(usedTo)
	diags := r.Analyze(decl)
	require.Len(t, diags, 1)
	_, err := r.Fix(decl, diags[0])
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "doclint.prom")
	require.NoError(t, metrics.WriteTextfile(path))
	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), `doclint_fixes_total{outcome="applied",rule="DL2001"} 1`)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Fixes.WithLabelValues("DL2001", "applied")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Fixes.WithLabelValues("DL2001", "failed")))
}
