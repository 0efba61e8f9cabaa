// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package doclint is the public interface of doclint, a rule-based linter
// and fixer for C# XML documentation comments.
package doclint

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/petar-djukic/doclint/pkg/types"
)

// Error types for the Linter API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrNoFixes       = errors.New("nothing to fix")
)

// Config configures a Linter.
type Config struct {
	WorkDir          string            // Source tree root (required)
	Enable           []string          // Rule IDs to run; empty runs all
	Disable          []string          // Rule IDs never run
	Severity         map[string]string // Rule ID to "info", "warning" or "error"
	MaxSentenceWords int               // Longest summary sentence before DL2040 reports (default 40)
	CatalogFile      string            // Phrase catalog YAML replacing the built-in one
	CacheDir         string            // Disk cache directory; empty keeps results in memory only
	CacheSize        int               // In-memory cached results (default 4096)
	Jobs             int               // Concurrent workers (default NumCPU)
	Logger           *logrus.Logger    // Nil means logrus.StandardLogger()
}

// Result holds the outcome of a lint pass.
type Result struct {
	Root         string             `json:"root"`
	Files        int                `json:"files"`
	Declarations int                `json:"declarations"`
	States       map[string]int     `json:"states"` // Declarations by analysis state
	Diagnostics  []types.Diagnostic `json:"diagnostics"`
	ScanErrors   []string           `json:"scan_errors,omitempty"`
}

// FileChange is one file rewritten by a fix pass.
type FileChange struct {
	Path   string `json:"path"`
	Diff   string `json:"diff"`   // Unified diff of the change
	Fixes  int    `json:"fixes"`  // Comments rewritten
	Before string `json:"-"`
	After  string `json:"-"`
}

// FixResult holds the outcome of a fix pass. Diagnostics are those left
// after fixing.
type FixResult struct {
	Result
	Changes   []FileChange `json:"changes"`
	Failed    []string     `json:"failed,omitempty"`
	Committed bool         `json:"committed"`
}

// FixOptions controls a fix pass.
type FixOptions struct {
	Paths       []string // Files or directories to fix; empty fixes the whole tree
	ChangedOnly bool     // Only files that differ from git HEAD
	DryRun      bool     // Report changes without writing
	Commit      bool     // Commit fixed files to git
	CommitDirty bool     // With Commit, save uncommitted changes in a separate commit first
}

// LintOptions controls a lint pass.
type LintOptions struct {
	Paths       []string // Files or directories to lint; empty lints the whole tree
	ChangedOnly bool     // Only files that differ from git HEAD
}

// RuleInfo describes one rule.
type RuleInfo struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Severity    types.Severity `json:"severity"`
	Fixable     bool           `json:"fixable"`
	Enabled     bool           `json:"enabled"`
	Description string         `json:"description"`
}

// Linter lints and fixes the doc comments of a source tree.
type Linter interface {
	// Lint reports the problems found in the selected files.
	Lint(ctx context.Context, opts LintOptions) (*Result, error)
	// Fix rewrites every fixable comment in the selected files. It returns
	// ErrNoFixes, along with the result, when nothing was fixable.
	Fix(ctx context.Context, opts FixOptions) (*FixResult, error)
	// Rules lists every rule, enabled or not, ordered by ID.
	Rules() []RuleInfo
	// WriteMetrics writes the counters of all passes so far in the
	// Prometheus text format.
	WriteMetrics(path string) error
}
