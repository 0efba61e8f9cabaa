// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package lint

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/petar-djukic/doclint/internal/rules"
	"github.com/petar-djukic/doclint/internal/runner"
	"github.com/petar-djukic/doclint/pkg/types"
)

var (
	widgetPath = filepath.Join("src", "Widget.cs")
	storePath  = filepath.Join("lib", "Store.cs")
)

func quiet() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newLinter(t *testing.T) *Linter {
	t.Helper()
	set, err := rules.Default(rules.DefaultOptions())
	require.NoError(t, err)
	r, err := runner.New(runner.Config{Rules: set, Logger: quiet()})
	require.NoError(t, err)
	return NewLinter(Deps{Runner: r, Logger: quiet(), Jobs: 2})
}

// unpack writes the tree fixture into a temporary directory.
func unpack(t *testing.T) string {
	t.Helper()
	ar, err := txtar.ParseFile(filepath.Join("testdata", "tree.txtar"))
	require.NoError(t, err)
	root := t.TempDir()
	for _, f := range ar.Files {
		p := filepath.Join(root, filepath.FromSlash(f.Name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, f.Data, 0o644))
	}
	return root
}

func initRepo(t *testing.T, root string) *gogit.Repository {
	t.Helper()
	r, err := gogit.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(".")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	return r
}

func rulesOf(diags []types.Diagnostic, file string) []string {
	var out []string
	for _, d := range diags {
		if d.FilePath == file {
			out = append(out, d.RuleID)
		}
	}
	return out
}

func TestLint(t *testing.T) {
	root := unpack(t)
	l := newLinter(t)

	tests := []struct {
		name      string
		paths     []string
		wantFiles []string
	}{
		{"whole tree", nil, []string{storePath, widgetPath}},
		{"one directory", []string{filepath.Join(root, "lib")}, []string{storePath}},
		{"one file", []string{filepath.Join(root, widgetPath)}, []string{widgetPath}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rep, err := l.Lint(context.Background(), Target{Root: root, Paths: tc.paths})
			require.NoError(t, err)
			assert.Equal(t, len(tc.wantFiles), rep.Files)
			assert.Equal(t, len(tc.wantFiles), rep.Declarations)
			assert.Equal(t, len(tc.wantFiles), rep.States[runner.Violating])

			var files []string
			for _, d := range rep.Diagnostics {
				if len(files) == 0 || files[len(files)-1] != d.FilePath {
					files = append(files, d.FilePath)
				}
			}
			assert.Equal(t, tc.wantFiles, files, "diagnostics are ordered by file and bin/ is skipped")
		})
	}

	t.Run("diagnostic position", func(t *testing.T) {
		rep, err := l.Lint(context.Background(), Target{Root: root, Paths: []string{filepath.Join(root, widgetPath)}})
		require.NoError(t, err)
		require.Contains(t, rulesOf(rep.Diagnostics, widgetPath), "DL2001")
		for _, d := range rep.Diagnostics {
			if d.RuleID == "DL2001" {
				assert.Equal(t, 4, d.Span.StartLine)
				assert.True(t, d.Fixable)
			}
		}
	})

	t.Run("path outside the root", func(t *testing.T) {
		_, err := l.Lint(context.Background(), Target{Root: root, Paths: []string{t.TempDir()}})
		assert.Error(t, err)
	})
}

func TestLint_ChangedOnly(t *testing.T) {
	root := unpack(t)
	initRepo(t, root)
	l := newLinter(t)

	rep, err := l.Lint(context.Background(), Target{Root: root, ChangedOnly: true})
	require.NoError(t, err)
	assert.Zero(t, rep.Declarations, "clean work tree selects nothing")
	assert.Empty(t, rep.Diagnostics)

	src, err := os.ReadFile(filepath.Join(root, storePath))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, storePath), append(src, '\n'), 0o644))

	rep, err = l.Lint(context.Background(), Target{Root: root, ChangedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Declarations)
	assert.Contains(t, rulesOf(rep.Diagnostics, storePath), "DL2001")
	assert.Empty(t, rulesOf(rep.Diagnostics, widgetPath))

	_, err = l.Lint(context.Background(), Target{Root: t.TempDir(), ChangedOnly: true})
	assert.Error(t, err, "not a repository")
}

func TestFix(t *testing.T) {
	t.Run("dry run leaves files alone", func(t *testing.T) {
		root := unpack(t)
		before, err := os.ReadFile(filepath.Join(root, widgetPath))
		require.NoError(t, err)

		rep, err := newLinter(t).Fix(context.Background(), Target{Root: root}, FixOptions{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, 2, rep.Comments)
		require.Len(t, rep.Changed, 2)
		assert.Equal(t, []string{storePath, widgetPath}, rep.ModifiedFiles())
		assert.Contains(t, rep.Changed[1].After, "    /// Renders widgets.\n")
		assert.Empty(t, rulesOf(rep.Diagnostics, widgetPath))

		after, err := os.ReadFile(filepath.Join(root, widgetPath))
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("writes fixes", func(t *testing.T) {
		root := unpack(t)
		l := newLinter(t)
		rep, err := l.Fix(context.Background(), Target{Root: root}, FixOptions{})
		require.NoError(t, err)
		assert.Empty(t, rep.Failed)
		assert.False(t, rep.Committed)

		data, err := os.ReadFile(filepath.Join(root, widgetPath))
		require.NoError(t, err)
		assert.Contains(t, string(data), "    /// <summary>\n    /// Renders widgets.\n    /// </summary>\n    public class Widget")

		again, err := l.Lint(context.Background(), Target{Root: root})
		require.NoError(t, err)
		assert.Equal(t, rep.Diagnostics, again.Diagnostics, "reported diagnostics match the written files")
		assert.NotContains(t, rulesOf(again.Diagnostics, widgetPath), "DL2001")
	})

	t.Run("commits fixes", func(t *testing.T) {
		root := unpack(t)
		repo := initRepo(t, root)

		rep, err := newLinter(t).Fix(context.Background(), Target{Root: root, Paths: []string{filepath.Join(root, "src")}}, FixOptions{Commit: true})
		require.NoError(t, err)
		assert.True(t, rep.Committed)
		assert.Equal(t, []string{widgetPath}, rep.ModifiedFiles())

		head, err := repo.Head()
		require.NoError(t, err)
		commit, err := repo.CommitObject(head.Hash())
		require.NoError(t, err)
		assert.Contains(t, commit.Message, "DL2001")
		assert.Contains(t, commit.Message, "- src/Widget.cs")
	})

	t.Run("dirty tree blocks committing", func(t *testing.T) {
		root := unpack(t)
		initRepo(t, root)
		require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("wip\n"), 0o644))

		_, err := newLinter(t).Fix(context.Background(), Target{Root: root}, FixOptions{Commit: true})
		assert.Error(t, err)
	})
}

func TestSubtract(t *testing.T) {
	assert.Equal(t, []string{"DL2001", "DL1004"}, subtract([]string{"DL2001", "DL2001", "DL1004", "DL2040"}, []string{"DL2040"}))
	assert.Nil(t, subtract(nil, []string{"DL2001"}))
}
