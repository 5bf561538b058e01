package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// RepoName derives the repository name from the origin remote URL:
// trailing .git stripped, last path segment, lowercased. Falls back to
// the lowercase basename of mainRoot when there is no usable remote.
// Never fails.
func (s *Service) RepoName(ctx context.Context, mainRoot string) string {
	out, err := s.output(ctx, mainRoot, "remote", "get-url", "origin")
	if err == nil {
		if name := nameFromRemoteURL(strings.TrimSpace(string(out))); name != "" {
			return name
		}
	}
	return strings.ToLower(filepath.Base(mainRoot))
}

func nameFromRemoteURL(url string) string {
	url = strings.TrimSuffix(url, ".git")
	url = strings.TrimRight(url, "/")
	if url == "" {
		return ""
	}
	// Both SSH (git@host:org/repo) and HTTPS URLs end in /repo or :repo.
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	return strings.ToLower(url)
}

// DefaultTrunk probes for the remote trunk ref in fixed priority order:
// origin/main, then origin/master. Returns ErrNoTrunkFound when neither
// exists.
func (s *Service) DefaultTrunk(ctx context.Context, mainRoot string) (string, error) {
	for _, ref := range []string{"origin/main", "origin/master"} {
		if s.run(ctx, mainRoot, "rev-parse", "--verify", "--quiet", ref) == nil {
			return ref, nil
		}
	}
	return "", ErrNoTrunkFound
}

// CurrentBranch returns the branch checked out at path, or an error for
// a detached HEAD.
func (s *Service) CurrentBranch(ctx context.Context, path string) (string, error) {
	out, err := s.output(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	branch := strings.TrimSpace(string(out))
	if branch == "HEAD" {
		return "", fmt.Errorf("HEAD is detached (not on a branch)")
	}
	return branch, nil
}

// Fetch updates the local tracking ref for trunk ("origin/main" form)
// from its remote.
func (s *Service) Fetch(ctx context.Context, mainRoot, trunk string) error {
	remote, branch, ok := strings.Cut(trunk, "/")
	if !ok {
		return fmt.Errorf("malformed trunk ref %q", trunk)
	}
	if _, err := s.output(ctx, mainRoot, "fetch", remote, branch, "--quiet"); err != nil {
		return fmt.Errorf("fetch %s: %w", trunk, err)
	}
	return nil
}

// ConfiguredUserName reads the local git identity's display name.
// Returns "" when unset.
func (s *Service) ConfiguredUserName(ctx context.Context, dir string) string {
	out, err := s.output(ctx, dir, "config", "user.name")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// CommitMessagesSince returns the full messages of commits reachable
// from HEAD but not from ref, oldest first. An empty slice means the
// range is empty.
func (s *Service) CommitMessagesSince(ctx context.Context, path, ref string) ([]string, error) {
	// %x1e separates records so multi-line messages survive splitting.
	out, err := s.output(ctx, path, "log", "--reverse", "--format=%B%x1e", ref+"..HEAD")
	if err != nil {
		return nil, fmt.Errorf("log %s..HEAD: %w", ref, err)
	}

	var messages []string
	for _, chunk := range strings.Split(string(out), "\x1e") {
		msg := strings.TrimSpace(chunk)
		if msg != "" {
			messages = append(messages, msg)
		}
	}
	return messages, nil
}

// Push publishes the branch checked out at path to origin, setting the
// upstream so later divergence queries have a tracking ref.
func (s *Service) Push(ctx context.Context, path string) error {
	if _, err := s.output(ctx, path, "push", "-u", "origin", "HEAD"); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}
