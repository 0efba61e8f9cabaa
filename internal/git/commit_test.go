// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixedSource = "/// <summary>\n/// Renders widgets.\n/// </summary>\npublic class Widget { }\n"

func TestHandleDirty_CleanRepo(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, DirtyCommit: true})
	require.NoError(t, err)

	require.NoError(t, repo.HandleDirty())

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHandleDirty_CommitsDirtyFiles(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, DirtyCommit: true})
	require.NoError(t, err)

	writeFile(t, dir, "Dirty.cs", "public class Dirty { }\n")
	require.NoError(t, repo.HandleDirty())

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	msg, err := repo.lastCommitMessage()
	require.NoError(t, err)
	assert.Equal(t, dirtyCommitMsg, msg)
}

func TestHandleDirty_ReturnsErrorWhenDisabled(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	writeFile(t, dir, "Dirty.cs", "public class Dirty { }\n")
	assert.ErrorIs(t, repo.HandleDirty(), ErrDirtyWorkTree)
}

func TestCommitFixes(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	writeFile(t, dir, "Widget.cs", fixedSource)
	writeFile(t, dir, "Unrelated.cs", "public class Unrelated { }\n")

	require.NoError(t, repo.CommitFixes([]string{filepath.Join(dir, "Widget.cs")}, []string{"DL2001"}))

	msg, err := repo.lastCommitMessage()
	require.NoError(t, err)
	assert.Contains(t, msg, "docs: fix doc comments (DL2001)")
	assert.Contains(t, msg, "- Widget.cs")
	assert.Contains(t, msg, fixTrailer)

	// Only the fixed file is committed.
	files, err := repo.ChangedFiles(".cs")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "Unrelated.cs")}, files)
}

func TestCommitFixes_Errors(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.CommitFixes(nil, []string{"DL2001"}), ErrNothingToCommit)
	assert.Error(t, repo.CommitFixes([]string{filepath.Join(t.TempDir(), "Elsewhere.cs")}, nil))
}

func TestUndo_RevertsFixCommit(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	writeFile(t, dir, "Widget.cs", fixedSource)
	require.NoError(t, repo.CommitFixes([]string{"Widget.cs"}, []string{"DL2001"}))

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.Undo())

	count, err = repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Soft reset keeps the fix in the working tree.
	content, err := os.ReadFile(filepath.Join(dir, "Widget.cs"))
	require.NoError(t, err)
	assert.Equal(t, fixedSource, string(content))
}

func TestUndo_RefusesOtherCommit(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Undo(), ErrNotFixCommit)

	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCommitFixes_AfterHandleDirty(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(Config{WorkDir: dir, DirtyCommit: true})
	require.NoError(t, err)

	writeFile(t, dir, "Existing.cs", "public class Existing { }\n")
	require.NoError(t, repo.HandleDirty())

	writeFile(t, dir, "Widget.cs", fixedSource)
	require.NoError(t, repo.CommitFixes([]string{"Widget.cs"}, []string{"DL2001"}))

	// Initial, dirty save, fix.
	count, err := repo.commitCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	isFix, err := repo.IsFixCommit()
	require.NoError(t, err)
	assert.True(t, isFix)
}
