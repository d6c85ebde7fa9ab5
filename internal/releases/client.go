package releases

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// FakeToken selects the fake platform clients.
// Set in tests and when running with the -try flag.
const FakeToken = "faketoken"

// UserAgent is sent with every API request.
// It gets the version appended in main.
var UserAgent = "modreleaser"

// Publisher publishes a release to one platform.
type Publisher interface {
	// Name returns the platform name, e.g. curseforge.
	Name() string

	// Publish uploads the files for the given strategy and returns where they were published.
	Publish(ctx context.Context, rc Context, strategy map[string]string) (Result, error)
}

// Result is the outcome of publishing to one platform.
type Result struct {
	// The public page of the published file or version.
	URL string `json:"url"`

	Platform string            `json:"-"`
	ID       string            `json:"-"`
	Strategy map[string]string `json:"-"`
}

// StrategyString returns a stable string representation of strategy, used in logs.
func StrategyString(strategy map[string]string) string {
	if len(strategy) == 0 {
		return "default"
	}
	keys := make([]string, 0, len(strategy))
	for k := range strategy {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "%s=%s", k, strategy[k])
	}
	return sb.String()
}
