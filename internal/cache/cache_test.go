// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	assert.Equal(t, NewKey("a", "b"), NewKey("a", "b"))
	assert.NotEqual(t, NewKey("ab", "c"), NewKey("a", "bc"))
	assert.NotEqual(t, NewKey("a"), NewKey("a", ""))
	assert.Len(t, NewKey("x").String(), 64)
}

func sample() Result {
	return Result{Findings: []Finding{{Rule: "DL2001", StartLine: 1, StartCol: 5, EndLine: 1, EndCol: 12, Message: "m", Severity: "warning", Fixable: true}}}
}

func TestCache_Memory(t *testing.T) {
	c, err := New(Config{Size: 2})
	require.NoError(t, err)

	k := NewKey("comment")
	_, ok := c.Get(k)
	assert.False(t, ok)

	c.Put(k, sample())
	got, ok := c.Get(k)
	require.True(t, ok)
	assert.Equal(t, Schema, got.Schema)
	assert.Equal(t, sample().Findings, got.Findings)

	// Insert-if-absent: a second writer does not replace the first value.
	c.Put(k, Result{Skipped: true})
	got, _ = c.Get(k)
	assert.False(t, got.Skipped)
}

func TestCache_Disk(t *testing.T) {
	dir := t.TempDir()
	c, err := New(Config{Dir: dir})
	require.NoError(t, err)
	k := NewKey("comment", "method")
	c.Put(k, sample())

	// A fresh cache over the same directory sees the entry.
	fresh, err := New(Config{Dir: dir})
	require.NoError(t, err)
	got, ok := fresh.Get(k)
	require.True(t, ok)
	assert.Equal(t, sample().Findings, got.Findings)
	assert.Equal(t, 1, fresh.Len(), "disk hit promoted to memory")

	require.NoError(t, fresh.Purge())
	again, err := New(Config{Dir: dir})
	require.NoError(t, err)
	_, ok = again.Get(k)
	assert.False(t, ok)
}

func TestCache_ConcurrentPut(t *testing.T) {
	c, err := New(Config{Dir: t.TempDir()})
	require.NoError(t, err)
	k := NewKey("same")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put(k, sample())
			_, _ = c.Get(k)
		}()
	}
	wg.Wait()
	got, ok := c.Get(k)
	require.True(t, ok)
	assert.Equal(t, sample().Findings, got.Findings)
}

func TestCache_Nil(t *testing.T) {
	var c *Cache
	c.Put(NewKey("x"), sample())
	_, ok := c.Get(NewKey("x"))
	assert.False(t, ok)
	assert.Zero(t, c.Len())
	assert.NoError(t, c.Purge())
}
