// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cache keeps analysis results keyed by a digest of everything a
// result depends on: the raw comment text, the declaration shape, the
// catalog version and the rule options. Values are pure functions of their
// key, so concurrent writers racing on one key store the same value and
// either may win.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// Schema is bumped whenever the layout of Result changes; entries written
// with another schema are ignored.
const Schema uint16 = 1

// DefaultSize is the number of results kept in memory.
const DefaultSize = 4096

// Key identifies one analysis input.
type Key [sha256.Size]byte

// NewKey digests the parts in order. Parts are length-prefixed so that
// ("ab", "c") and ("a", "bc") differ.
func NewKey(parts ...string) Key {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		l := uint64(len(p))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write([]byte(p))
	}
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Finding is one cached diagnostic. Lines are relative to the first
// comment line so that a result can be reused for a byte-identical comment
// anywhere in a file.
type Finding struct {
	Rule      string `msgpack:"rule"`
	StartLine int    `msgpack:"sl"`
	StartCol  int    `msgpack:"sc"`
	EndLine   int    `msgpack:"el"`
	EndCol    int    `msgpack:"ec"`
	Message   string `msgpack:"msg"`
	Severity  string `msgpack:"sev"`
	Fixable   bool   `msgpack:"fix"`
}

// Result is the cached outcome of analyzing one comment.
type Result struct {
	Schema   uint16    `msgpack:"schema"`
	Skipped  bool      `msgpack:"skipped"` // Comment could not be parsed
	Findings []Finding `msgpack:"findings"`
}

// Cache is an in-memory LRU optionally backed by a disk cache.
type Cache struct {
	mem  *lru.Cache[Key, Result]
	disk *Disk
	log  logrus.FieldLogger
}

// Config configures a Cache.
type Config struct {
	Size   int                // In-memory entries; zero means DefaultSize
	Dir    string             // Disk cache directory; empty disables the disk tier
	Logger logrus.FieldLogger // Nil means logrus.StandardLogger()
}

// New creates a cache.
func New(cfg Config) (*Cache, error) {
	if cfg.Size <= 0 {
		cfg.Size = DefaultSize
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	mem, err := lru.New[Key, Result](cfg.Size)
	if err != nil {
		return nil, err
	}
	c := &Cache{mem: mem, log: cfg.Logger}
	if cfg.Dir != "" {
		if c.disk, err = OpenDisk(cfg.Dir); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Get returns the result stored for k. Disk hits are promoted to memory.
func (c *Cache) Get(k Key) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	if r, ok := c.mem.Get(k); ok {
		return r, true
	}
	if c.disk == nil {
		return Result{}, false
	}
	var r Result
	ok, err := c.disk.Get(k, &r)
	if err != nil {
		c.log.WithError(err).WithField("key", k.String()).Warn("reading disk cache")
		return Result{}, false
	}
	if !ok || r.Schema != Schema {
		return Result{}, false
	}
	c.mem.ContainsOrAdd(k, r)
	return r, true
}

// Put stores r under k unless a result is already present.
func (c *Cache) Put(k Key, r Result) {
	if c == nil {
		return
	}
	r.Schema = Schema
	if present, _ := c.mem.ContainsOrAdd(k, r); present {
		return
	}
	if c.disk == nil {
		return
	}
	if err := c.disk.Put(k, &r); err != nil {
		c.log.WithError(err).WithField("key", k.String()).Warn("writing disk cache")
	}
}

// Len returns the number of results held in memory.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.mem.Len()
}

// Purge drops every result, on disk too.
func (c *Cache) Purge() error {
	if c == nil {
		return nil
	}
	c.mem.Purge()
	if c.disk != nil {
		return c.disk.DropAll()
	}
	return nil
}
