// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package lint wires the scanner, the rule runner, the editor and git into
// the two things a user asks for: a report of doc comment problems in a
// source tree, and a tree with the fixable ones fixed.
package lint

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/petar-djukic/doclint/internal/csharp"
	"github.com/petar-djukic/doclint/internal/editor"
	gitpkg "github.com/petar-djukic/doclint/internal/git"
	"github.com/petar-djukic/doclint/internal/runner"
	"github.com/petar-djukic/doclint/pkg/types"
)

// Deps holds injected dependencies.
type Deps struct {
	Runner *runner.Runner
	Editor *editor.Editor // Nil means an editor with default settings
	Logger logrus.FieldLogger
	Jobs   int // Scanner workers; zero means NumCPU
}

// Target selects what to lint. The whole tree under Root is always scanned
// so type references resolve across files; Paths and ChangedOnly narrow
// which declarations are analyzed.
type Target struct {
	Root        string
	Paths       []string // Files or directories; empty selects everything
	ChangedOnly bool     // Only files that differ from git HEAD
}

// Report is the outcome of linting a tree.
type Report struct {
	Root         string
	Files        int // Files the analyzed declarations came from
	Declarations int
	States       map[runner.State]int
	Diagnostics  []types.Diagnostic // Ordered by file, position and rule
	ScanErrors   []csharp.ScanError
}

// FixOptions controls Fix.
type FixOptions struct {
	DryRun      bool // Compute fixes without writing files
	Commit      bool // Commit fixed files to git
	CommitDirty bool // With Commit, save uncommitted changes in a separate commit first
}

// FixReport is the outcome of fixing a tree. The embedded Report holds the
// diagnostics that remain after fixing.
type FixReport struct {
	Report
	Comments  int              // Comments rewritten
	Changed   []*editor.Result // Files whose content changed
	Failed    []error          // Fixes that could not be computed or written
	Committed bool
}

// ModifiedFiles returns the paths of changed files relative to the root.
func (f *FixReport) ModifiedFiles() []string {
	out := make([]string, 0, len(f.Changed))
	for _, c := range f.Changed {
		out = append(out, c.FilePath)
	}
	return out
}

// Linter runs lint and fix passes over source trees.
type Linter struct {
	deps Deps
}

// NewLinter creates a Linter with the given dependencies.
func NewLinter(deps Deps) *Linter {
	if deps.Editor == nil {
		deps.Editor = &editor.Editor{Logger: deps.Logger}
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Linter{deps: deps}
}

// Lint scans the target and analyzes the selected declarations.
func (l *Linter) Lint(ctx context.Context, target Target) (*Report, error) {
	scan, decls, err := l.scan(target)
	if err != nil {
		return nil, err
	}
	results, err := l.deps.Runner.AnalyzeAll(ctx, decls)
	if err != nil {
		return nil, err
	}
	return newReport(scan, decls, results), nil
}

// Fix scans the target, rewrites every comment with fixable diagnostics
// and writes the changed files. With Commit, the written files are
// committed to git.
func (l *Linter) Fix(ctx context.Context, target Target, opts FixOptions) (*FixReport, error) {
	scan, decls, err := l.scan(target)
	if err != nil {
		return nil, err
	}

	var repo *gitpkg.Repo
	if opts.Commit && !opts.DryRun {
		repo, err = gitpkg.Open(gitpkg.Config{WorkDir: scan.Root, DirtyCommit: opts.CommitDirty})
		if err != nil {
			return nil, err
		}
		if err := repo.HandleDirty(); err != nil {
			return nil, fmt.Errorf("handling dirty files: %w", err)
		}
	}

	results, err := l.deps.Runner.AnalyzeAll(ctx, decls)
	if err != nil {
		return nil, err
	}

	out := &FixReport{}
	fixes := make(map[string][]editor.Fix)
	var rulesFixed []string
	remaining := append([]runner.Result(nil), results...)
	for i, decl := range decls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := fixableRules(results[i].Diagnostics)
		if len(before) == 0 {
			continue
		}
		text, left, err := l.deps.Runner.FixAll(decl)
		if err != nil {
			out.Failed = append(out.Failed, fmt.Errorf("%s:%d %s: %w", decl.FilePath, decl.CommentLine, decl, err))
			continue
		}
		if text == decl.RawComment {
			continue
		}
		applied := subtract(before, fixableRules(left))
		fixes[decl.FilePath] = append(fixes[decl.FilePath], editor.Fix{
			RuleID:  strings.Join(applied, ","),
			Line:    decl.CommentLine,
			OldText: decl.RawComment,
			NewText: text,
		})
		rulesFixed = append(rulesFixed, applied...)
		remaining[i] = runner.Result{State: runner.Violating, Diagnostics: left}
		if len(left) == 0 {
			remaining[i].State = runner.Clean
		}
	}

	ed := *l.deps.Editor
	ed.DryRun = opts.DryRun
	var written []string
	for _, rel := range sortedKeys(fixes) {
		res, err := ed.ApplyFixes(filepath.Join(scan.Root, rel), fixes[rel])
		if err != nil {
			out.Failed = append(out.Failed, err)
			continue
		}
		res.FilePath = rel
		out.Failed = append(out.Failed, res.Failed...)
		out.Comments += len(res.Applied)
		if res.Changed() {
			out.Changed = append(out.Changed, res)
			written = append(written, rel)
		}
	}

	out.Report = *newReport(scan, decls, remaining)
	if !opts.DryRun && len(written) > 0 {
		// Fixes move lines, so report positions from the files as written.
		if err := l.reanalyze(ctx, scan, written, &out.Report); err != nil {
			return nil, err
		}
	}

	if repo != nil && len(written) > 0 {
		if err := repo.CommitFixes(written, rulesFixed); err != nil {
			return out, fmt.Errorf("committing fixes: %w", err)
		}
		out.Committed = true
	}
	l.deps.Logger.WithFields(logrus.Fields{"files": len(out.Changed), "comments": out.Comments}).Info("fixed doc comments")
	return out, nil
}

// scan extracts the tree and selects the declarations to analyze.
func (l *Linter) scan(target Target) (*csharp.ScanResult, []*types.DeclarationContext, error) {
	root := target.Root
	if root == "" {
		root = "."
	}
	scan, err := csharp.ScanDir(root, l.deps.Jobs)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range scan.Errors {
		l.deps.Logger.WithField("file", e.FilePath).WithError(e.Err).Warn("extracting declarations")
	}

	sel, err := l.selection(scan.Root, target)
	if err != nil {
		return nil, nil, err
	}
	var decls []*types.DeclarationContext
	for _, d := range scan.Declarations() {
		if sel.matches(d.FilePath) {
			decls = append(decls, d)
		}
	}
	l.deps.Logger.WithFields(logrus.Fields{"files": len(scan.Files), "declarations": len(decls)}).Debug("scanned")
	return scan, decls, nil
}

// reanalyze replaces the diagnostics of the written files with a fresh
// analysis of their new content.
func (l *Linter) reanalyze(ctx context.Context, full *csharp.ScanResult, written []string, rep *Report) error {
	rescan, err := csharp.ScanFiles(full.Root, written, l.deps.Jobs)
	if err != nil {
		return err
	}
	decls := rescan.Declarations()
	for _, d := range decls {
		full.Resolver.Annotate(d)
	}
	results, err := l.deps.Runner.AnalyzeAll(ctx, decls)
	if err != nil {
		return err
	}

	isWritten := make(map[string]bool, len(written))
	for _, w := range written {
		isWritten[w] = true
	}
	kept := rep.Diagnostics[:0]
	for _, d := range rep.Diagnostics {
		if !isWritten[d.FilePath] {
			kept = append(kept, d)
		}
	}
	rep.Diagnostics = kept
	for _, r := range results {
		rep.Diagnostics = append(rep.Diagnostics, r.Diagnostics...)
	}
	sortDiagnostics(rep.Diagnostics)
	return nil
}

func newReport(scan *csharp.ScanResult, decls []*types.DeclarationContext, results []runner.Result) *Report {
	rep := &Report{
		Root:         scan.Root,
		Declarations: len(decls),
		States:       make(map[runner.State]int),
		ScanErrors:   scan.Errors,
	}
	files := make(map[string]bool)
	for i, d := range decls {
		files[d.FilePath] = true
		rep.States[results[i].State]++
		rep.Diagnostics = append(rep.Diagnostics, results[i].Diagnostics...)
	}
	rep.Files = len(files)
	sortDiagnostics(rep.Diagnostics)
	return rep
}

func sortDiagnostics(diags []types.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.Span.Start() != b.Span.Start() {
			return a.Span.Start().Before(b.Span.Start())
		}
		return a.RuleID < b.RuleID
	})
}

func fixableRules(diags []types.Diagnostic) []string {
	var out []string
	for _, d := range diags {
		if d.Fixable {
			out = append(out, d.RuleID)
		}
	}
	return out
}

// subtract returns the IDs in a that are not in b, without duplicates.
func subtract(a, b []string) []string {
	drop := make(map[string]bool, len(b))
	for _, id := range b {
		drop[id] = true
	}
	var out []string
	for _, id := range a {
		if !drop[id] {
			drop[id] = true
			out = append(out, id)
		}
	}
	return out
}

func sortedKeys(m map[string][]editor.Fix) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
