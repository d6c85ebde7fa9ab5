package statustypes

import (
	"fmt"
	"strings"

	"github.com/gohugoio/modreleaser/internal/common/mapsh"
)

// Status is the visibility of a Modrinth version.
type Status int

const (
	InvalidStatus Status = iota
	Listed
	Archived
	Draft
	Unlisted
	Scheduled
	Unknown
)

var statusString = map[Status]string{
	Listed:    "listed",
	Archived:  "archived",
	Draft:     "draft",
	Unlisted:  "unlisted",
	Scheduled: "scheduled",
	Unknown:   "unknown",
}

var stringStatus = mapsh.Invert(statusString)

func (s Status) String() string {
	return statusString[s]
}

// IsRequestable reports whether s can be used as a requested status.
// Modrinth only accepts listed, archived, draft and unlisted there.
func (s Status) IsRequestable() bool {
	switch s {
	case Listed, Archived, Draft, Unlisted:
		return true
	}
	return false
}

// Parse parses a string into a Status.
func Parse(s string) (Status, error) {
	st := stringStatus[strings.ToLower(s)]
	if st == InvalidStatus {
		return st, fmt.Errorf("invalid status %q, must be one of %s", s, mapsh.KeysSorted(statusString))
	}
	return st, nil
}

// ParseRequested parses a string into a Status valid as a requested status.
func ParseRequested(s string) (Status, error) {
	st, err := Parse(s)
	if err != nil {
		return st, err
	}
	if !st.IsRequestable() {
		return InvalidStatus, fmt.Errorf("invalid requested status %q, must be one of [listed archived draft unlisted]", s)
	}
	return st, nil
}

// MustParse is like Parse but panics if the string is not a valid status.
func MustParse(s string) Status {
	st, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return st
}
