// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic for reporting and exit-status decisions.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

var severityNames = [...]string{"info", "warning", "error"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// ParseSeverity accepts the lower-case names used in configuration files.
func ParseSeverity(s string) (Severity, error) {
	for i, name := range severityNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

// MarshalText implements encoding.TextMarshaler so reports and config
// files carry the readable name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Diagnostic is one violation reported against a declaration.
type Diagnostic struct {
	RuleID      string     `json:"rule"`        // Stable rule identifier, e.g. "DL2001"
	RuleName    string     `json:"name"`        // Short rule name
	Declaration string     `json:"declaration"` // Declaration label, e.g. "method DoSomething"
	FilePath    string     `json:"file"`        // Source file path
	Span        SourceSpan `json:"span"`        // Location of the offending text in the file
	Message     string     `json:"message"`     // Human-readable description
	Severity    Severity   `json:"severity"`    // Reporting severity
	Fixable     bool       `json:"fixable"`     // A code fix can be produced for this diagnostic
}

// String renders the diagnostic in the usual file:line:col form.
func (d Diagnostic) String() string {
	loc := d.FilePath
	if loc == "" {
		loc = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s %s: %s", loc, d.Span.StartLine, d.Span.StartColumn, d.Severity, d.RuleID, d.Message)
}

// CodeFix is a replacement for a declaration's whole doc comment. The host
// applies NewCommentText verbatim over the original comment's text range.
type CodeFix struct {
	RuleID         string // Rule that produced the fix
	Title          string // Short description shown to the user
	NewCommentText string // Complete replacement comment text, prefixes included
}
