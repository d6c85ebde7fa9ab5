// Package changelog builds release notes from the git history when the release runner supplies none.
package changelog

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gohugoio/modreleaser/staticfiles"
)

// Options for Notes.
type Options struct {
	// The tag of the release being made. It may not exist yet.
	Tag string

	// The previous release. If empty, the closest v* tag before the release is used.
	PrevTag string

	// Used when Tag does not exist. Defaults to HEAD.
	Commitish string

	// Defaults to the current directory.
	RepoPath string
}

// Commit is a git commit parsed as a conventional commit.
type Commit struct {
	Hash    string
	Author  string
	Subject string
	Body    string

	// The type prefix of the subject, e.g. feat, lower case. Empty if none.
	Kind     string
	Breaking bool

	// Issues referenced with e.g. "Fixes #12" in the body.
	Issues []int
}

// Section is a titled list of commits in the release notes.
type Section struct {
	Title   string
	Commits []Commit
}

// Notes collects the commits since the previous release and renders them as Markdown,
// one section per kind of change.
func Notes(opts Options) (string, error) {
	commits, err := Log(opts)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := staticfiles.ReleaseNotesTemplate.Execute(&buf, map[string]any{"Sections": Sections(commits)}); err != nil {
		return "", fmt.Errorf("failed to render release notes: %w", err)
	}
	return buf.String(), nil
}

// Log returns the commits in the release, newest first.
func Log(opts Options) ([]Commit, error) {
	r := repo(opts.RepoPath)

	to := opts.Tag
	if to != "" {
		exists, err := r.tagExists(to)
		if err != nil {
			return nil, err
		}
		if !exists {
			// Not created yet.
			to = ""
		}
	}
	if to == "" {
		to = opts.Commitish
	}
	if to == "" {
		to = "HEAD"
	}

	from := opts.PrevTag
	if from != "" {
		exists, err := r.tagExists(from)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("previous tag %q does not exist", from)
		}
	} else {
		var err error
		if from, err = r.versionTagBefore(to); err != nil {
			return nil, err
		}
	}

	out, err := r.log(from, to)
	if err != nil {
		return nil, err
	}

	return parseLog(out), nil
}

const (
	sectionBreaking = iota
	sectionFeatures
	sectionFixes
	sectionPerformance
	sectionOther
)

var sectionTitles = [...]string{
	sectionBreaking:    "Breaking Changes",
	sectionFeatures:    "Features",
	sectionFixes:       "Bug Fixes",
	sectionPerformance: "Performance Improvements",
	sectionOther:       "Other Changes",
}

// Sections groups commits by kind in a fixed order. Empty sections and release commits are left out.
func Sections(commits []Commit) []Section {
	var grouped [len(sectionTitles)][]Commit
	for _, c := range commits {
		if c.isRelease() {
			continue
		}
		i := sectionOther
		switch {
		case c.Breaking:
			i = sectionBreaking
		case c.Kind == "feat":
			i = sectionFeatures
		case c.Kind == "fix":
			i = sectionFixes
		case c.Kind == "perf":
			i = sectionPerformance
		}
		grouped[i] = append(grouped[i], c)
	}

	var sections []Section
	for i, g := range grouped {
		if len(g) == 0 {
			continue
		}
		sections = append(sections, Section{Title: sectionTitles[i], Commits: g})
	}
	return sections
}

// The commit made by semantic-release and similar tools.
func (c Commit) isRelease() bool {
	return strings.HasPrefix(c.Subject, "chore(release)")
}

var (
	conventionalRe = regexp.MustCompile(`^(\w+)(?:\([^)]*\))?(!)?:\s*`)
	issueRe        = regexp.MustCompile(`(?i)(?:Updates?|Closes?|Fix\w*|Resolves?|See) #(\d+)`)
)

func newCommit(hash, author, subject, body string) Commit {
	c := Commit{
		Hash:    hash,
		Author:  author,
		Subject: subject,
		Body:    body,
	}
	if m := conventionalRe.FindStringSubmatch(subject); m != nil {
		c.Kind = strings.ToLower(m[1])
		c.Breaking = m[2] == "!"
	}
	if strings.Contains(body, "BREAKING CHANGE") {
		c.Breaking = true
	}
	for _, m := range issueRe.FindAllStringSubmatch(body, -1) {
		if id, err := strconv.Atoi(m[1]); err == nil {
			c.Issues = append(c.Issues, id)
		}
	}
	return c
}
