// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"fmt"
	"sort"
	"strings"
)

const maxSubjectLength = 72

// GenerateMessage creates a conventional commit message for a fix commit.
// The subject names the rules, the body lists the files, and the trailer
// marks the commit as doclint's for Undo.
func GenerateMessage(ruleIDs, files []string) string {
	msg := buildSubject(uniqueSorted(ruleIDs), len(files))
	if body := buildBody(files); body != "" {
		msg += "\n\n" + body
	}
	return msg + "\n\n" + fixTrailer
}

// buildSubject creates the first line of the commit message.
// Format: "docs: fix doc comments (DL2001, DL2040)", at most 72 chars.
func buildSubject(rules []string, files int) string {
	subject := "docs: fix doc comments"
	if files > 1 {
		subject = fmt.Sprintf("docs: fix doc comments in %d files", files)
	}
	if len(rules) > 0 {
		subject += " (" + strings.Join(rules, ", ") + ")"
	}
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength-3] + "..."
	}
	return subject
}

// buildBody creates the commit body listing fixed files.
func buildBody(files []string) string {
	if len(files) == 0 {
		return ""
	}
	var buf strings.Builder
	buf.WriteString("Fixed files:\n")
	for _, f := range files {
		buf.WriteString(fmt.Sprintf("- %s\n", f))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
