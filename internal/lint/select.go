// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package lint

import (
	"fmt"
	"path/filepath"
	"strings"

	gitpkg "github.com/petar-djukic/doclint/internal/git"
)

// selection is a set of root-relative files and directories. An empty
// selection with all set matches everything.
type selection struct {
	all   bool
	files map[string]bool
	dirs  []string
}

func (s selection) matches(rel string) bool {
	if s.all {
		return true
	}
	if s.files[rel] {
		return true
	}
	for _, d := range s.dirs {
		if d == "." || strings.HasPrefix(rel, d+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// selection resolves target paths against root. ChangedOnly intersects the
// path selection with the files git reports as changed.
func (l *Linter) selection(root string, target Target) (selection, error) {
	paths := selection{all: len(target.Paths) == 0, files: make(map[string]bool)}
	for _, p := range target.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return selection{}, fmt.Errorf("resolving %s: %w", p, err)
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return selection{}, fmt.Errorf("%s is outside %s", p, root)
		}
		if strings.HasSuffix(rel, ".cs") {
			paths.files[rel] = true
		} else {
			paths.dirs = append(paths.dirs, rel)
		}
	}
	if !target.ChangedOnly {
		return paths, nil
	}

	repo, err := gitpkg.Open(gitpkg.Config{WorkDir: root})
	if err != nil {
		return selection{}, err
	}
	changed, err := repo.ChangedFiles(".cs")
	if err != nil {
		return selection{}, err
	}
	out := selection{files: make(map[string]bool)}
	for _, c := range changed {
		rel, err := filepath.Rel(root, c)
		if err != nil || !paths.matches(rel) {
			continue
		}
		out.files[rel] = true
	}
	l.deps.Logger.WithField("files", len(out.files)).Debug("changed files selected")
	return out, nil
}
