// Package identity resolves the acting user's canonical handle through
// an ordered fallback chain: override file, GitHub CLI login, git
// config display name.
package identity

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/arbor-cli/arbor/internal/exec"
)

// ErrUnresolved indicates every fallback failed. The wrapped message
// names the configuration options that fix it.
var ErrUnresolved = errors.New("could not resolve a username")

// Source tags where the handle came from.
type Source string

const (
	SourceOverride  Source = "override-file"
	SourceGitHubCLI Source = "github-cli"
	SourceGitConfig Source = "git-config"
)

// Identity is the resolved handle. Immutable once resolved; never
// persisted by this tool.
type Identity struct {
	Handle string `json:"handle"`
	Source Source `json:"source"`
}

// Resolver probes identity sources. Purely read-only and idempotent.
type Resolver struct {
	executor exec.Executor
	timeout  time.Duration
}

// NewResolver creates a Resolver. timeout bounds the GitHub CLI probe.
func NewResolver(e exec.Executor, timeout time.Duration) *Resolver {
	return &Resolver{executor: e, timeout: timeout}
}

// Resolve walks the fallback chain, first success wins. overridePath
// may be empty to skip the override file. Failures of individual
// sources are swallowed; only exhausting the chain is an error.
func (r *Resolver) Resolve(ctx context.Context, overridePath string) (Identity, error) {
	if overridePath != "" {
		if handle := readOverrideFile(overridePath); handle != "" {
			return Identity{Handle: handle, Source: SourceOverride}, nil
		}
	}

	if login := r.githubLogin(ctx); login != "" {
		return Identity{Handle: login, Source: SourceGitHubCLI}, nil
	}

	if name := r.gitConfigName(ctx); name != "" {
		return Identity{Handle: name, Source: SourceGitConfig}, nil
	}

	return Identity{}, fmt.Errorf(
		"%w: set USERNAME=<handle> in the override file, run 'gh auth login', or configure 'git config user.name'",
		ErrUnresolved)
}

// readOverrideFile returns the USERNAME value from the override file,
// or "" when the file is missing, unreadable, or has no assignment.
func readOverrideFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) != "USERNAME" {
			continue
		}
		return strings.TrimSpace(value)
	}
	return ""
}

// githubLogin asks the GitHub CLI for the authenticated login. Any
// failure (not installed, not authenticated, timeout) yields "".
func (r *Resolver) githubLogin(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.executor.Output(ctx, "", "gh", "api", "user", "--jq", ".login")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// gitConfigName reads git's configured display name and normalizes it
// into a handle. "" when unset or empty after normalization.
func (r *Resolver) gitConfigName(ctx context.Context) string {
	out, err := r.executor.Output(ctx, "", "git", "config", "user.name")
	if err != nil {
		return ""
	}
	return Normalize(strings.TrimSpace(string(out)))
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	invalidRunes  = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun     = regexp.MustCompile(`-{2,}`)
)

// Normalize lowercases s, collapses whitespace runs to single hyphens,
// and strips everything outside [a-z0-9-]. Idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = invalidRunes.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
