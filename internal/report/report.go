// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report renders diagnostics for people (text with source context)
// and for tools (JSON), and renders fix previews as unified diffs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/petar-djukic/doclint/pkg/types"
)

// TextOptions configures the text report.
type TextOptions struct {
	ContextLines int    // Source lines shown above and below each diagnostic; 0 shows none
	Color        bool   // Colorize severities, rule IDs and markers
	Root         string // Directory diagnostic file paths are relative to
}

// Summary counts diagnostics.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Fixable  int `json:"fixable"`
}

// Summarize counts diagnostics by severity.
func Summarize(diags []types.Diagnostic) Summary {
	s := Summary{Total: len(diags)}
	for _, d := range diags {
		switch d.Severity {
		case types.SeverityError:
			s.Errors++
		case types.SeverityWarning:
			s.Warnings++
		default:
			s.Infos++
		}
		if d.Fixable {
			s.Fixable++
		}
	}
	return s
}

func (s Summary) String() string {
	if s.Total == 0 {
		return "no problems"
	}
	return fmt.Sprintf("%s (%s, %s, %s), %d fixable",
		plural(s.Total, "problem"), plural(s.Errors, "error"), plural(s.Warnings, "warning"), plural(s.Infos, "info"), s.Fixable)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

type palette struct {
	severity map[types.Severity]*color.Color
	rule     *color.Color
	location *color.Color
	marker   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		severity: map[types.Severity]*color.Color{
			types.SeverityError:   color.New(color.FgRed, color.Bold),
			types.SeverityWarning: color.New(color.FgYellow, color.Bold),
			types.SeverityInfo:    color.New(color.FgCyan),
		},
		rule:     color.New(color.Bold),
		location: color.New(color.FgWhite, color.Faint),
		marker:   color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.rule, p.location, p.marker, p.severity[types.SeverityError], p.severity[types.SeverityWarning], p.severity[types.SeverityInfo]} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Text writes one block per diagnostic followed by a summary line.
func Text(w io.Writer, diags []types.Diagnostic, opts TextOptions) error {
	p := newPalette(opts.Color)
	sources := make(map[string][]string)
	for _, d := range diags {
		sev := p.severity[d.Severity]
		if sev == nil {
			sev = p.severity[types.SeverityInfo]
		}
		fixable := ""
		if d.Fixable {
			fixable = " [fixable]"
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s: %s%s\n",
			p.location.Sprintf("%s:%d:%d", d.FilePath, d.Span.StartLine, d.Span.StartColumn),
			sev.Sprint(d.Severity), p.rule.Sprint(d.RuleID), d.Message, fixable); err != nil {
			return err
		}
		if opts.ContextLines <= 0 {
			continue
		}
		lines, ok := sources[d.FilePath]
		if !ok {
			lines = readLines(opts.Root, d.FilePath)
			sources[d.FilePath] = lines
		}
		if _, err := io.WriteString(w, codeContext(lines, d.Span.StartLine, opts.ContextLines, p.marker)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, Summarize(diags))
	return err
}

func readLines(root, path string) []string {
	if root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return strings.Split(string(data), "\n")
}

// codeContext returns numbered lines around line, marking line itself.
func codeContext(lines []string, line, contextLines int, marker *color.Color) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	start := max(line-contextLines-1, 0)
	end := min(line+contextLines, len(lines))

	var buf strings.Builder
	for i := start; i < end; i++ {
		lineNum := i + 1
		m := "  "
		if lineNum == line {
			m = marker.Sprint("> ")
		}
		buf.WriteString(fmt.Sprintf("%s%4d │ %s\n", m, lineNum, strings.TrimSuffix(lines[i], "\r")))
	}
	return buf.String()
}

// jsonReport is the document written by JSON.
type jsonReport struct {
	Diagnostics []types.Diagnostic `json:"diagnostics"`
	Summary     Summary            `json:"summary"`
}

// JSON writes diagnostics and their summary as one indented JSON document.
func JSON(w io.Writer, diags []types.Diagnostic) error {
	if diags == nil {
		diags = []types.Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Diagnostics: diags, Summary: Summarize(diags)})
}
