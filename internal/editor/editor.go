// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package editor writes fixed doc comments back into source files. Each
// fix names the comment text it replaces; the editor locates that text in
// the current file through staged matching (exact, whitespace-normalized,
// fuzzy), preferring the occurrence nearest the line the comment was
// extracted from, and writes the result atomically.
package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrOverlappingFix is returned for a fix whose comment overlaps one that
// was already applied in the same file.
var ErrOverlappingFix = errors.New("fix overlaps another fix")

// Fix replaces one doc comment.
type Fix struct {
	RuleID  string // Rule that produced the fix, for reporting
	Line    int    // 1-based line the comment started on when extracted
	OldText string // Comment text as extracted
	NewText string // Replacement comment text
}

// Applied records where a fix landed.
type Applied struct {
	Fix
	Stage      Stage
	Similarity float64
	StartLine  int // Line the replaced text started on
}

// Result is the outcome of fixing one file.
type Result struct {
	FilePath string
	Before   string
	After    string
	Applied  []Applied
	Failed   []error // *NotFoundError or ErrOverlappingFix, one per fix
}

// Changed reports whether the file content changed.
func (r *Result) Changed() bool { return r.Before != r.After }

// NotFoundError reports comment text that no matching stage located. It
// carries the closest region for the report.
type NotFoundError struct {
	FilePath   string
	SearchText string
	Closest    string
	Similarity float64
	LineStart  int
	LineEnd    int
}

func (e *NotFoundError) Error() string {
	if e.Closest == "" {
		return fmt.Sprintf("%s: comment not found", e.FilePath)
	}
	return fmt.Sprintf("%s: comment not found; closest match at lines %d-%d (%.0f%% similar)",
		e.FilePath, e.LineStart, e.LineEnd, e.Similarity*100)
}

// Editor applies comment fixes to files.
type Editor struct {
	// FuzzyThreshold is the minimum similarity score for fuzzy matching.
	// Defaults to 0.8 if zero.
	FuzzyThreshold float64
	// DryRun computes the result without writing the file.
	DryRun bool
	Logger logrus.FieldLogger
}

// ApplyFixes applies fixes to the file at path. Every fix is located in the
// file as read; fixes that cannot be located or that overlap an earlier
// one are reported in Result.Failed and the rest are still applied. The
// file is written once, atomically, when anything changed.
func (e *Editor) ApplyFixes(path string, fixes []Fix) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	res := e.Rewrite(path, string(content), fixes)
	if !res.Changed() || e.DryRun {
		return res, nil
	}
	if err := atomicWrite(path, []byte(res.After)); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	e.logger().WithFields(logrus.Fields{"file": path, "fixes": len(res.Applied)}).Debug("wrote fixes")
	return res, nil
}

// Rewrite computes the content with fixes applied without touching disk.
func (e *Editor) Rewrite(path, content string, fixes []Fix) *Result {
	res := &Result{FilePath: path, Before: content, After: content}
	threshold := e.fuzzyThreshold()

	type located struct {
		fix Fix
		m   *matchResult
	}
	var found []located
	for _, f := range fixes {
		m := findMatch(content, f.OldText, f.Line, threshold)
		if m == nil {
			res.Failed = append(res.Failed, buildNotFound(path, content, f.OldText))
			e.logger().WithFields(logrus.Fields{"file": path, "rule": f.RuleID, "line": f.Line}).Warn("comment to fix not found")
			continue
		}
		found = append(found, located{fix: f, m: m})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].m.start < found[j].m.start })

	var b strings.Builder
	last := 0
	for _, l := range found {
		if l.m.start < last {
			res.Failed = append(res.Failed, fmt.Errorf("%s line %d: %w", path, l.fix.Line, ErrOverlappingFix))
			continue
		}
		b.WriteString(content[last:l.m.start])
		b.WriteString(reindent(l.fix.NewText, indentOf(l.fix.OldText), indentOf(content[l.m.start:l.m.end])))
		last = l.m.end
		res.Applied = append(res.Applied, Applied{
			Fix:        l.fix,
			Stage:      l.m.stage,
			Similarity: l.m.similarity,
			StartLine:  countLines(content, l.m.start),
		})
	}
	b.WriteString(content[last:])
	res.After = b.String()
	return res
}

func (e *Editor) fuzzyThreshold() float64 {
	if e.FuzzyThreshold > 0 {
		return e.FuzzyThreshold
	}
	return defaultFuzzyThreshold
}

func (e *Editor) logger() logrus.FieldLogger {
	if e.Logger != nil {
		return e.Logger
	}
	return logrus.StandardLogger()
}

// buildNotFound constructs a structured error when all matching stages fail.
func buildNotFound(filePath, content, search string) *NotFoundError {
	closest, sim, lineStart, lineEnd := findClosestMatch(content, search)
	return &NotFoundError{
		FilePath:   filePath,
		SearchText: search,
		Closest:    closest,
		Similarity: sim,
		LineStart:  lineStart,
		LineEnd:    lineEnd,
	}
}

// indentOf returns the leading whitespace of the first line of s.
func indentOf(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

// reindent moves text from one indentation to another: lines starting with
// from get to instead.
func reindent(text, from, to string) string {
	if from == to {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, from) {
			lines[i] = to + l[len(from):]
		}
	}
	return strings.Join(lines, "\n")
}

// atomicWrite writes data to a temp file in the same directory, then renames
// it to the target path. This prevents partial writes from corrupting files.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	// Preserve original file permissions if the file exists.
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	f, err := os.CreateTemp(dir, ".doclint-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// countLines returns the number of newlines before a byte offset, plus 1
// (for 1-based line numbering).
func countLines(s string, offset int) int {
	return strings.Count(s[:offset], "\n") + 1
}
