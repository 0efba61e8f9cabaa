// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner applies a rule set to declarations: it parses each doc
// comment, runs the applicable rules, reports one diagnostic per match and
// produces fixes on request.
//
// A declaration moves through NotDocumented (terminal), or through analysis
// to Clean or Violating. Applying a fix yields a new comment that is
// analyzed from scratch. A comment that cannot be parsed is Skipped and
// yields no diagnostics. Failures are contained per declaration; one broken
// comment never stops the analysis of others.
package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/doclint/internal/cache"
	"github.com/petar-djukic/doclint/internal/matcher"
	"github.com/petar-djukic/doclint/internal/phrase"
	"github.com/petar-djukic/doclint/internal/rewriter"
	"github.com/petar-djukic/doclint/internal/rules"
	"github.com/petar-djukic/doclint/internal/xmldoc"
	"github.com/petar-djukic/doclint/pkg/types"
)

const defaultMaxFixPasses = 8

// Sentinel errors.
var (
	ErrNoRules            = errors.New("no rule set configured")
	ErrUnknownRule        = errors.New("unknown rule")
	ErrNotDocumented      = errors.New("declaration has no doc comment")
	ErrDiagnosticNotFound = errors.New("diagnostic does not match the current comment")
)

// State is where a declaration ended up after analysis.
type State int

const (
	NotDocumented State = iota // No doc comment; never diagnosed
	Clean                      // Documented, no rule matched
	Violating                  // Documented, at least one diagnostic
	Skipped                    // Comment could not be parsed or a rule failed
)

var stateNames = [...]string{"not-documented", "clean", "violating", "skipped"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Config configures a Runner.
type Config struct {
	Rules        *rules.Set                // Rules and catalog; required
	Enable       []string                  // Rule IDs to run; empty runs all
	Disable      []string                  // Rule IDs never run
	Severity     map[string]types.Severity // Per-rule severity overrides
	Cache        *cache.Cache              // Optional result cache
	Metrics      *Metrics                  // Optional metrics
	Logger       logrus.FieldLogger        // Nil means logrus.StandardLogger()
	Workers      int                       // Concurrent analyses in AnalyzeAll; zero means GOMAXPROCS
	MaxFixPasses int                       // Rounds of FixAll; zero means 8
}

// Runner analyzes and fixes doc comments. It is safe for concurrent use.
type Runner struct {
	cfg   Config
	rules []*rules.Rule
	salt  string // Cache key part covering rules, options and catalog
	log   logrus.FieldLogger
}

// Result is the outcome of analyzing one declaration.
type Result struct {
	State       State
	Diagnostics []types.Diagnostic
}

// finding is a diagnostic together with the match it came from.
type finding struct {
	rule  *rules.Rule
	match matcher.Match
	diag  types.Diagnostic
}

// New validates cfg and creates a Runner.
func New(cfg Config) (*Runner, error) {
	if cfg.Rules == nil {
		return nil, ErrNoRules
	}
	for _, id := range append(append([]string(nil), cfg.Enable...), cfg.Disable...) {
		if _, ok := cfg.Rules.Rule(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
	}
	for id := range cfg.Severity {
		if _, ok := cfg.Rules.Rule(id); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRule, id)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxFixPasses <= 0 {
		cfg.MaxFixPasses = defaultMaxFixPasses
	}

	r := &Runner{cfg: cfg, log: cfg.Logger}
	var ids []string
	for _, rule := range cfg.Rules.Rules() {
		if len(cfg.Enable) > 0 && !contains(cfg.Enable, rule.ID) || contains(cfg.Disable, rule.ID) {
			continue
		}
		r.rules = append(r.rules, rule)
		ids = append(ids, rule.ID+"="+r.severity(rule).String())
	}
	r.salt = strings.Join([]string{
		cfg.Rules.Catalog().Version,
		strconv.Itoa(cfg.Rules.Options().MaxSentenceWords),
		strings.Join(ids, ","),
	}, "|")
	return r, nil
}

// Rules returns the rules the runner applies, sorted by ID.
func (r *Runner) Rules() []*rules.Rule { return r.rules }

// Analyze returns the diagnostics of one declaration in a stable order.
func (r *Runner) Analyze(decl *types.DeclarationContext) []types.Diagnostic {
	return r.Inspect(decl).Diagnostics
}

// Inspect analyzes one declaration and reports the state it ended in.
func (r *Runner) Inspect(decl *types.DeclarationContext) Result {
	res := r.inspect(decl)
	r.cfg.Metrics.declaration(res.State)
	for _, d := range res.Diagnostics {
		r.cfg.Metrics.diagnostic(d.RuleID)
	}
	return res
}

func (r *Runner) inspect(decl *types.DeclarationContext) Result {
	if decl == nil || !decl.IsDocumented() {
		return Result{State: NotDocumented}
	}

	key := cache.NewKey(decl.RawComment, decl.Fingerprint(), r.salt)
	if r.cfg.Cache != nil {
		cached, ok := r.cfg.Cache.Get(key)
		r.cfg.Metrics.cacheLookup(ok)
		if ok {
			return r.fromCache(decl, cached)
		}
	}

	doc, findings, err := r.findings(decl)
	if err != nil {
		r.logSkip(decl, err)
		r.cfg.Cache.Put(key, cache.Result{Skipped: true})
		return Result{State: Skipped}
	}
	res := Result{State: Clean}
	for _, f := range findings {
		res.Diagnostics = append(res.Diagnostics, f.diag)
	}
	if len(res.Diagnostics) > 0 {
		res.State = Violating
	}
	r.cfg.Cache.Put(key, toCache(doc, res.Diagnostics))
	return res
}

func (r *Runner) logSkip(decl *types.DeclarationContext, err error) {
	entry := r.log.WithFields(logrus.Fields{"file": decl.FilePath, "declaration": decl.String()}).WithError(err)
	var malformed *xmldoc.MalformedMarkupError
	if errors.As(err, &malformed) {
		entry.Debug("skipping malformed doc comment")
		return
	}
	entry.Warn("skipping declaration")
}

// findings parses the comment and runs every enabled rule. A panic inside a
// rule is turned into an error for this declaration only.
func (r *Runner) findings(decl *types.DeclarationContext) (doc *xmldoc.Document, out []finding, err error) {
	defer func() {
		if p := recover(); p != nil {
			doc, out, err = nil, nil, fmt.Errorf("rule failed: %v", p)
		}
	}()

	doc, err = xmldoc.ParseDocument(decl.RawComment, decl.CommentLine)
	if err != nil {
		return nil, nil, err
	}
	for _, rule := range r.rules {
		for _, m := range r.cfg.Rules.Run(rule, doc, decl) {
			out = append(out, finding{rule: rule, match: m, diag: r.diagnostic(doc, decl, rule, m)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].diag.Span, out[j].diag.Span
		if a.Start() != b.Start() {
			return a.Start().Before(b.Start())
		}
		return out[i].rule.ID < out[j].rule.ID
	})
	return doc, out, nil
}

func (r *Runner) diagnostic(doc *xmldoc.Document, decl *types.DeclarationContext, rule *rules.Rule, m matcher.Match) types.Diagnostic {
	start, end := m.Start, m.End
	if end <= start {
		start, end = m.Region()
	}
	fixable := false
	if rule.Fixable {
		edits, err := rewriter.Edits(doc, m)
		fixable = err == nil && len(edits) > 0
	}
	return types.Diagnostic{
		RuleID:      rule.ID,
		RuleName:    rule.Name,
		Declaration: decl.String(),
		FilePath:    decl.FilePath,
		Span:        doc.SourceSpan(start, end),
		Message:     message(rule, m),
		Severity:    r.severity(rule),
		Fixable:     fixable,
	}
}

func message(rule *rules.Rule, m matcher.Match) string {
	if m.Message != "" {
		return m.Message
	}
	if m.Entry != nil && m.Entry.Message != "" {
		text, missing := phrase.Render(m.Entry.Message, m.Captures)
		if len(missing) == 0 {
			return text
		}
	}
	return rule.Description
}

func (r *Runner) severity(rule *rules.Rule) types.Severity {
	if s, ok := r.cfg.Severity[rule.ID]; ok {
		return s
	}
	return rule.Severity
}

// Fix produces the comment text with the fix for diagnostic d applied. The
// diagnostic must come from analyzing the same comment.
func (r *Runner) Fix(decl *types.DeclarationContext, d types.Diagnostic) (types.CodeFix, error) {
	if decl == nil || !decl.IsDocumented() {
		return types.CodeFix{}, ErrNotDocumented
	}
	doc, findings, err := r.findings(decl)
	if err != nil {
		return types.CodeFix{}, err
	}
	for _, f := range findings {
		if f.rule.ID != d.RuleID || f.diag.Span != d.Span {
			continue
		}
		fixed, err := rewriter.Apply(doc, f.match)
		if err != nil {
			r.cfg.Metrics.fix(f.rule.ID, outcome(err))
			return types.CodeFix{}, fmt.Errorf("%s: %w", d.RuleID, err)
		}
		r.cfg.Metrics.fix(f.rule.ID, "applied")
		title := f.rule.Name
		if f.match.Entry != nil && f.match.Entry.Title != "" {
			title = f.match.Entry.Title
		}
		return types.CodeFix{RuleID: f.rule.ID, Title: title, NewCommentText: fixed.String()}, nil
	}
	return types.CodeFix{}, fmt.Errorf("%w: %s", ErrDiagnosticNotFound, d)
}

// FixAll applies every fix it can, re-analyzing between rounds until the
// comment stops changing. It returns the final comment text and the
// diagnostics that remain.
func (r *Runner) FixAll(decl *types.DeclarationContext) (string, []types.Diagnostic, error) {
	if decl == nil || !decl.IsDocumented() {
		return "", nil, ErrNotDocumented
	}
	current := *decl
	for pass := 0; pass < r.cfg.MaxFixPasses; pass++ {
		doc, findings, err := r.findings(&current)
		if err != nil {
			return "", nil, err
		}
		var fixable []matcher.Match
		for _, f := range findings {
			if f.diag.Fixable {
				fixable = append(fixable, f.match)
			}
		}
		if len(fixable) == 0 {
			break
		}
		fixed, skipped, err := rewriter.ApplyAll(doc, fixable)
		if err != nil {
			return "", nil, err
		}
		for _, m := range fixable {
			if !containsMatch(skipped, m) {
				r.cfg.Metrics.fix(m.Entry.Rule, "applied")
			}
		}
		if fixed.String() == current.RawComment {
			break
		}
		current.RawComment = fixed.String()
	}
	return current.RawComment, r.Analyze(&current), nil
}

// AnalyzeAll analyzes declarations concurrently. Results are in input
// order. Cancellation is checked between declarations.
func (r *Runner) AnalyzeAll(ctx context.Context, decls []*types.DeclarationContext) ([]Result, error) {
	results := make([]Result, len(decls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, decl := range decls {
		if gctx.Err() != nil {
			break
		}
		i, decl := i, decl
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.Inspect(decl)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func outcome(err error) string {
	var amb *rewriter.AmbiguousFixError
	switch {
	case errors.As(err, &amb):
		return "ambiguous"
	case errors.Is(err, rewriter.ErrNoFix):
		return "unfixable"
	}
	return "failed"
}

func toCache(doc *xmldoc.Document, diags []types.Diagnostic) cache.Result {
	res := cache.Result{}
	origin := doc.Origin()
	for _, d := range diags {
		res.Findings = append(res.Findings, cache.Finding{
			Rule:      d.RuleID,
			StartLine: d.Span.StartLine - origin,
			StartCol:  d.Span.StartColumn,
			EndLine:   d.Span.EndLine - origin,
			EndCol:    d.Span.EndColumn,
			Message:   d.Message,
			Severity:  d.Severity.String(),
			Fixable:   d.Fixable,
		})
	}
	return res
}

func (r *Runner) fromCache(decl *types.DeclarationContext, cached cache.Result) Result {
	if cached.Skipped {
		return Result{State: Skipped}
	}
	origin := max(decl.CommentLine, 1)
	res := Result{State: Clean}
	for _, f := range cached.Findings {
		sev, _ := types.ParseSeverity(f.Severity)
		name := ""
		if rule, ok := r.cfg.Rules.Rule(f.Rule); ok {
			name = rule.Name
		}
		res.Diagnostics = append(res.Diagnostics, types.Diagnostic{
			RuleID:      f.Rule,
			RuleName:    name,
			Declaration: decl.String(),
			FilePath:    decl.FilePath,
			Span:        types.SourceSpan{StartLine: origin + f.StartLine, StartColumn: f.StartCol, EndLine: origin + f.EndLine, EndColumn: f.EndCol},
			Message:     f.Message,
			Severity:    sev,
			Fixable:     f.Fixable,
		})
	}
	if len(res.Diagnostics) > 0 {
		res.State = Violating
	}
	return res
}

func containsMatch(list []matcher.Match, m matcher.Match) bool {
	for _, o := range list {
		if o.Entry == m.Entry && o.Start == m.Start && o.End == m.End {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
