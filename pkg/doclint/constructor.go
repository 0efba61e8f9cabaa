// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package doclint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/petar-djukic/doclint/internal/cache"
	"github.com/petar-djukic/doclint/internal/lint"
	"github.com/petar-djukic/doclint/internal/phrase"
	"github.com/petar-djukic/doclint/internal/report"
	"github.com/petar-djukic/doclint/internal/rules"
	"github.com/petar-djukic/doclint/internal/runner"
	"github.com/petar-djukic/doclint/pkg/types"
)

const defaultMaxSentenceWords = 40

// New validates the config, loads the rules and returns a ready-to-use
// Linter. It does not scan the tree; that happens in Lint and Fix.
func New(cfg Config) (Linter, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	applyDefaults(&cfg)

	set, err := ruleSet(cfg)
	if err != nil {
		return nil, err
	}
	severity := make(map[string]types.Severity, len(cfg.Severity))
	for id, s := range cfg.Severity {
		v, err := types.ParseSeverity(s)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %s: %v", ErrInvalidConfig, id, err)
		}
		severity[id] = v
	}

	c, err := cache.New(cache.Config{Size: cfg.CacheSize, Dir: cfg.CacheDir, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	metrics := runner.NewMetrics(nil)
	r, err := runner.New(runner.Config{
		Rules:    set,
		Enable:   cfg.Enable,
		Disable:  cfg.Disable,
		Severity: severity,
		Cache:    c,
		Metrics:  metrics,
		Logger:   cfg.Logger,
		Workers:  cfg.Jobs,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &linterAdapter{
		cfg:     cfg,
		set:     set,
		runner:  r,
		metrics: metrics,
		linter:  lint.NewLinter(lint.Deps{Runner: r, Logger: cfg.Logger, Jobs: cfg.Jobs}),
	}, nil
}

func ruleSet(cfg Config) (*rules.Set, error) {
	opts := rules.Options{MaxSentenceWords: cfg.MaxSentenceWords}
	if cfg.CatalogFile == "" {
		return rules.Default(opts)
	}
	f, err := os.Open(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	defer f.Close()
	cat, err := phrase.Load(f, rules.Predicates())
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", cfg.CatalogFile, err)
	}
	set := rules.NewSet(cat, opts)
	rules.RegisterDefaultRules(set)
	return set, nil
}

// linterAdapter adapts internal/lint.Linter to the public Linter interface.
type linterAdapter struct {
	cfg     Config
	set     *rules.Set
	runner  *runner.Runner
	metrics *runner.Metrics
	linter  *lint.Linter
}

func (a *linterAdapter) Lint(ctx context.Context, opts LintOptions) (*Result, error) {
	rep, err := a.linter.Lint(ctx, lint.Target{Root: a.cfg.WorkDir, Paths: opts.Paths, ChangedOnly: opts.ChangedOnly})
	if err != nil {
		return nil, err
	}
	return toResult(rep), nil
}

func (a *linterAdapter) Fix(ctx context.Context, opts FixOptions) (*FixResult, error) {
	rep, err := a.linter.Fix(ctx,
		lint.Target{Root: a.cfg.WorkDir, Paths: opts.Paths, ChangedOnly: opts.ChangedOnly},
		lint.FixOptions{DryRun: opts.DryRun, Commit: opts.Commit, CommitDirty: opts.CommitDirty})
	if rep == nil {
		return &FixResult{}, err
	}
	out := &FixResult{Result: *toResult(&rep.Report), Committed: rep.Committed}
	for _, c := range rep.Changed {
		out.Changes = append(out.Changes, FileChange{
			Path:   c.FilePath,
			Diff:   report.Diff(c.FilePath, c.Before, c.After),
			Fixes:  len(c.Applied),
			Before: c.Before,
			After:  c.After,
		})
	}
	for _, f := range rep.Failed {
		out.Failed = append(out.Failed, f.Error())
	}
	if err == nil && len(out.Changes) == 0 && len(out.Failed) == 0 {
		err = ErrNoFixes
	}
	return out, err
}

func (a *linterAdapter) Rules() []RuleInfo {
	enabled := make(map[string]bool)
	for _, r := range a.runner.Rules() {
		enabled[r.ID] = true
	}
	var out []RuleInfo
	for _, r := range a.set.Rules() {
		sev := r.Severity
		if s, err := types.ParseSeverity(a.cfg.Severity[r.ID]); err == nil {
			sev = s
		}
		out = append(out, RuleInfo{
			ID:          r.ID,
			Name:        r.Name,
			Category:    string(r.Category),
			Severity:    sev,
			Fixable:     r.Fixable,
			Enabled:     enabled[r.ID],
			Description: r.Description,
		})
	}
	return out
}

func (a *linterAdapter) WriteMetrics(path string) error {
	return a.metrics.WriteTextfile(path)
}

func toResult(rep *lint.Report) *Result {
	out := &Result{
		Root:         rep.Root,
		Files:        rep.Files,
		Declarations: rep.Declarations,
		States:       make(map[string]int, len(rep.States)),
		Diagnostics:  rep.Diagnostics,
	}
	for s, n := range rep.States {
		out.States[s.String()] = n
	}
	for _, e := range rep.ScanErrors {
		out.ScanErrors = append(out.ScanErrors, e.Error())
	}
	return out
}

// validateConfig checks that required fields are present and consistent.
func validateConfig(cfg Config) error {
	if cfg.WorkDir == "" {
		return errors.New("WorkDir is required")
	}
	if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("WorkDir %q does not exist or is not a directory", cfg.WorkDir)
	}
	if cfg.MaxSentenceWords < 0 {
		return fmt.Errorf("MaxSentenceWords must not be negative, got %d", cfg.MaxSentenceWords)
	}
	if cfg.Jobs < 0 {
		return fmt.Errorf("Jobs must not be negative, got %d", cfg.Jobs)
	}
	if cfg.CacheSize < 0 {
		return fmt.Errorf("CacheSize must not be negative, got %d", cfg.CacheSize)
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.MaxSentenceWords == 0 {
		cfg.MaxSentenceWords = defaultMaxSentenceWords
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = cache.DefaultSize
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
}
