// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"errors"
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName  = "doclint"
	authorEmail = "noreply@doclint"
)

// ErrNothingToCommit is returned by CommitFixes when no files are given.
var ErrNothingToCommit = errors.New("nothing to commit")

// HandleDirty checks for uncommitted changes and either commits them
// separately or returns ErrDirtyWorkTree, depending on Config.DirtyCommit.
func (r *Repo) HandleDirty() error {
	dirty, err := r.IsDirty()
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	if !r.cfg.DirtyCommit {
		return ErrDirtyWorkTree
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if _, err := wt.Add("."); err != nil {
		return fmt.Errorf("staging dirty files: %w", err)
	}
	if _, err := wt.Commit(dirtyCommitMsg, &gogit.CommitOptions{Author: signature()}); err != nil {
		return fmt.Errorf("committing dirty files: %w", err)
	}
	return nil
}

// CommitFixes stages exactly the fixed files and commits them with a
// message naming the rules whose fixes were applied.
func (r *Repo) CommitFixes(files, ruleIDs []string) error {
	if len(files) == 0 {
		return ErrNothingToCommit
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	rel := make([]string, 0, len(files))
	for _, f := range files {
		p, err := r.relative(f)
		if err != nil {
			return err
		}
		if _, err := wt.Add(p); err != nil {
			return fmt.Errorf("staging %s: %w", p, err)
		}
		rel = append(rel, p)
	}

	if _, err := wt.Commit(GenerateMessage(ruleIDs, rel), &gogit.CommitOptions{Author: signature()}); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Undo reverts the last commit if doclint made it. It resets softly, so
// the fixes stay staged in the working tree.
func (r *Repo) Undo() error {
	isFix, err := r.IsFixCommit()
	if err != nil {
		return err
	}
	if !isFix {
		return ErrNotFixCommit
	}

	head, err := r.repo.Head()
	if err != nil {
		return fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return fmt.Errorf("getting commit: %w", err)
	}
	if commit.NumParents() == 0 {
		return fmt.Errorf("cannot undo: HEAD is the initial commit")
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return fmt.Errorf("getting parent commit: %w", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}
	if err := wt.Reset(&gogit.ResetOptions{Commit: parent.Hash, Mode: gogit.SoftReset}); err != nil {
		return fmt.Errorf("resetting to parent: %w", err)
	}
	return nil
}

func signature() *object.Signature {
	return &object.Signature{Name: authorName, Email: authorEmail, When: time.Now()}
}
