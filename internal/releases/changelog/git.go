package changelog

import (
	"fmt"
	"os/exec"
	"strings"
)

const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
)

// repo is the path to a git repository, empty for the current directory.
type repo string

func (r repo) git(args ...string) (string, error) {
	if r != "" {
		args = append([]string{"-C", string(r)}, args...)
	}

	out, err := exec.Command("git", args...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %s: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func (r repo) tagExists(tag string) (bool, error) {
	out, err := r.git("tag", "--list", tag)
	if err != nil {
		return false, err
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == tag {
			return true, nil
		}
	}
	return false, nil
}

// versionTagBefore returns the highest v* tag reachable from the parent of ref,
// or an empty string if there is none.
func (r repo) versionTagBefore(ref string) (string, error) {
	out, err := r.git("tag", "--merged", ref+"^", "--sort=-v:refname", "--list", "v[0-9]*")
	if err != nil {
		// ref^ fails on the first commit.
		if strings.Contains(err.Error(), "malformed object name") {
			return "", nil
		}
		return "", err
	}
	tag, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(tag), nil
}

// log returns the commits in from..to, or all commits up to to if from is empty.
func (r repo) log(from, to string) (string, error) {
	rangeArg := to
	if from != "" {
		rangeArg = from + ".." + to
	}
	return r.git("log", "--pretty=format:"+"%x1e%h%x1f%aE%x1f%s%x1f%b", "--abbrev-commit", rangeArg)
}

func parseLog(log string) []Commit {
	var commits []Commit
	for _, record := range strings.Split(log, recordSep) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 4)
		for len(fields) < 4 {
			fields = append(fields, "")
		}
		commits = append(commits, newCommit(fields[0], fields[1], fields[2], strings.TrimSpace(fields[3])))
	}
	return commits
}
