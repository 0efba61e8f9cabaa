// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package csharp finds documented declarations in C# source trees. It is a
// line-oriented extractor, not a compiler front end: it recognizes doc
// comments, the declaration header that follows each of them, and enough
// of the type definitions in scope to tell value types, enums and
// reference types apart.
package csharp

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/petar-djukic/doclint/pkg/types"
)

// skipDirs contains directory names that ScanDir skips.
var skipDirs = map[string]bool{
	"bin":          true,
	"obj":          true,
	".git":         true,
	".vs":          true,
	"node_modules": true,
	"packages":     true,
}

// ScanResult holds the output of a scan.
type ScanResult struct {
	Root     string
	Files    map[string]*File // Keyed by path relative to Root
	Errors   []ScanError
	Resolver *Resolver
}

// ScanError records an extraction problem for a single file.
type ScanError struct {
	FilePath string
	Err      error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

// Declarations returns every documented declaration, ordered by file path
// and then by line.
func (r *ScanResult) Declarations() []*types.DeclarationContext {
	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var out []*types.DeclarationContext
	for _, p := range paths {
		out = append(out, r.Files[p].Declarations...)
	}
	return out
}

// ScanDir walks the directory tree rooted at dir, finds all .cs files,
// and extracts them in parallel using a bounded worker pool.
//
// It skips bin/, obj/, .git/ and similar build directories and respects
// the .gitignore of the root directory. Problems in individual files are
// collected in ScanResult.Errors and do not abort the scan. If concurrency
// is <= 0 it defaults to runtime.NumCPU().
func ScanDir(dir string, concurrency int) (*ScanResult, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absDir)
	}

	ignore := loadGitignore(absDir)
	var paths []string
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		rel, relErr := filepath.Rel(absDir, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path != absDir && (skipDirs[d.Name()] || ignore.Match(splitPath(rel), true)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".cs") || ignore.Match(splitPath(rel), false) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}
	return scan(absDir, paths, concurrency), nil
}

// ScanFiles extracts the given files. Paths are reported relative to root.
func ScanFiles(root string, paths []string, concurrency int) (*ScanResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(absRoot, p)
		}
		abs = append(abs, p)
	}
	return scan(absRoot, abs, concurrency), nil
}

func scan(root string, paths []string, concurrency int) *ScanResult {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	result := &ScanResult{Root: root, Files: make(map[string]*File, len(paths))}

	type extractResult struct {
		rel  string
		file *File
		err  error
	}

	jobs := make(chan string, len(paths))
	results := make(chan extractResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				rel, relErr := filepath.Rel(root, path)
				if relErr != nil {
					rel = path
				}
				src, err := os.ReadFile(path)
				if err != nil {
					results <- extractResult{rel: rel, err: err}
					continue
				}
				f, err := Extract(rel, string(src))
				results <- extractResult{rel: rel, file: f, err: err}
			}
		}()
	}

	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	for er := range results {
		if er.err != nil {
			result.Errors = append(result.Errors, ScanError{FilePath: er.rel, Err: er.err})
		}
		// A file with problems still contributes what could be extracted.
		if er.file != nil {
			result.Files[er.rel] = er.file
		}
	}
	sort.Slice(result.Errors, func(i, j int) bool { return result.Errors[i].FilePath < result.Errors[j].FilePath })

	files := make([]*File, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	result.Resolver = NewResolver(files...)
	for _, f := range files {
		for _, d := range f.Declarations {
			result.Resolver.Annotate(d)
		}
	}
	return result
}

// loadGitignore reads .gitignore from the root directory. Without one the
// matcher matches nothing.
func loadGitignore(root string) gitignore.Matcher {
	var patterns []gitignore.Pattern
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, gitignore.ParsePattern(line, nil))
		}
	}
	return gitignore.NewMatcher(patterns)
}

func splitPath(rel string) []string {
	return strings.Split(filepath.ToSlash(rel), "/")
}
