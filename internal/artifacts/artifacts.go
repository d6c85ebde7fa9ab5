// Copyright 2026 The Modreleaser Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package artifacts locates the build artifacts to upload and picks the primary file.
package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gohugoio/modreleaser/internal/common/matchers"
)

var (
	// ErrNoFiles is returned when none of the patterns matched a file.
	ErrNoFiles = errors.New("no files found")

	// ErrAmbiguousPrimary is returned when more than one file was found and no primary file glob is set.
	ErrAmbiguousPrimary = errors.New("multiple files found but no primary file glob specified, please set primary_file_glob")

	// ErrMultiplePrimaryCandidates is returned when the primary file glob matched more than one of the files.
	ErrMultiplePrimaryCandidates = errors.New("multiple files matched the primary file glob, please use a more specific pattern")

	// ErrNoPrimaryCandidates is returned when the primary file glob matched none of the files.
	ErrNoPrimaryCandidates = errors.New("no files matched the primary file glob that were also in the file list")
)

// DefaultGlobs is used when no glob is configured.
// It matches the jars in Gradle's output directory, the plain jars first, then
// the -dev, -sources and -javadoc companions.
var DefaultGlobs = []string{
	"build/libs/*.jar",
	"!build/libs/*-{dev,sources,javadoc}.jar",
	"build/libs/*-{dev,sources,javadoc}.jar",
}

// Set is the resolved set of files to upload to one platform.
type Set struct {
	// Absolute filenames in match order. Never empty.
	Files []string

	// One of Files.
	Primary string
}

// Secondary returns the files to upload after the primary, without duplicates.
func (s Set) Secondary() []string {
	var secondary []string
	seen := map[string]bool{s.Primary: true}
	for _, f := range s.Files {
		if seen[f] {
			continue
		}
		seen[f] = true
		secondary = append(secondary, f)
	}
	return secondary
}

// Unique returns the primary file followed by Secondary.
func (s Set) Unique() []string {
	return append([]string{s.Primary}, s.Secondary()...)
}

// Resolve finds the files matching patterns in dir and selects the primary file.
// See Find and SelectPrimary.
func Resolve(dir string, patterns, primaryPatterns []string) (Set, error) {
	files, err := Find(dir, patterns)
	if err != nil {
		return Set{}, err
	}
	primary, err := SelectPrimary(dir, files, primaryPatterns)
	if err != nil {
		return Set{}, err
	}
	return Set{Files: files, Primary: primary}, nil
}

// Find expands the glob patterns relative to dir and returns the absolute
// filenames of the matching files, directories excluded.
//
// The patterns are applied in order and the matches appended; a file matched
// by more than one pattern is listed more than once.
// A pattern starting with ! excludes files from the pattern before it.
// If patterns is empty, DefaultGlobs is used.
func Find(dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultGlobs
	}
	files, err := expand(dir, patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w matching patterns: %s", ErrNoFiles, strings.Join(patterns, ", "))
	}
	return files, nil
}

// SelectPrimary selects the primary file from files.
//
// With no primary patterns, files must contain exactly one file.
// Otherwise the patterns are expanded in dir and the matches that are also in files
// must be exactly one file.
func SelectPrimary(dir string, files, primaryPatterns []string) (string, error) {
	if len(files) == 0 {
		return "", ErrNoFiles
	}

	if len(primaryPatterns) == 0 {
		unique := uniqueStrings(files)
		if len(unique) == 1 {
			return unique[0], nil
		}
		return "", fmt.Errorf("%w: found %s", ErrAmbiguousPrimary, strings.Join(unique, ", "))
	}

	matches, err := expand(dir, primaryPatterns)
	if err != nil {
		return "", err
	}

	inFiles := make(map[string]bool, len(files))
	for _, f := range files {
		inFiles[f] = true
	}

	var candidates []string
	for _, m := range uniqueStrings(matches) {
		if inFiles[m] {
			candidates = append(candidates, m)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return "", fmt.Errorf("%w: patterns %s", ErrNoPrimaryCandidates, strings.Join(primaryPatterns, ", "))
	default:
		return "", fmt.Errorf("%w: found %s", ErrMultiplePrimaryCandidates, strings.Join(candidates, ", "))
	}
}

func expand(dir string, patterns []string) ([]string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	parsed, err := matchers.ParsePatterns(patterns)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, p := range parsed {
		matches, err := walkMatches(dir, p)
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}

	return files, nil
}

func walkMatches(dir string, p matchers.Pattern) ([]string, error) {
	absPattern := p.IsAbs()

	root := filepath.FromSlash(p.Root())
	if !absPattern {
		root = filepath.Join(dir, root)
	}

	fi, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if !fi.IsDir() {
		return nil, nil
	}

	maxDepth := p.MaxDepth()

	var files []string
	err = filepath.WalkDir(root, func(filename string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := filepath.ToSlash(filename)
		if !absPattern {
			rel, err := filepath.Rel(dir, filename)
			if err != nil {
				return err
			}
			name = filepath.ToSlash(rel)
		}

		if d.IsDir() {
			if maxDepth > 0 && filename != root && strings.Count(name, "/")+1 >= maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if fi, err := os.Stat(filename); err != nil || fi.IsDir() {
				return nil
			}
		}

		if p.Matcher.Match(name) {
			files = append(files, filename)
		}
		return nil
	})

	return files, err
}

func uniqueStrings(ss []string) []string {
	var unique []string
	seen := make(map[string]bool, len(ss))
	for _, s := range ss {
		if seen[s] {
			continue
		}
		seen[s] = true
		unique = append(unique, s)
	}
	return unique
}
