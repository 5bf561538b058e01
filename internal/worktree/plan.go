// Package worktree implements the worktree lifecycle: deterministic
// path/branch planning, the staged creation pipeline, and removal with
// empty-directory pruning.
package worktree

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arbor-cli/arbor/internal/identity"
)

// ErrInvalidArgument indicates bad caller input, detected before any
// side effect.
var ErrInvalidArgument = errors.New("invalid argument")

// Plan is the derived naming scheme for a new worktree. Never stored;
// recomputed from its inputs, which makes it a pure function of
// (handle, repo name, ticket, description).
type Plan struct {
	Branch string `json:"branch"`
	Path   string `json:"path"`
}

// NormalizeDescription lowercases, collapses whitespace to single
// hyphens, and strips characters outside [a-z0-9-]. Idempotent.
func NormalizeDescription(s string) string {
	return identity.Normalize(s)
}

// BuildPlan computes the branch name and worktree path:
//
//	branch: <handle>/<ticket>/<normalized-description>
//	path:   <parent-of-main>/<repo><containerSuffix>/<handle>/<ticket>/<normalized-description>
//
// The ticket is used verbatim as a path and branch segment, so path
// separators in it are rejected rather than silently rewritten.
func BuildPlan(handle, repoName, mainRoot, containerSuffix, ticket, description string) (Plan, error) {
	ticket = strings.TrimSpace(ticket)
	description = strings.TrimSpace(description)

	if ticket == "" {
		return Plan{}, fmt.Errorf("%w: ticket must not be empty", ErrInvalidArgument)
	}
	if strings.ContainsAny(ticket, `/\`) {
		return Plan{}, fmt.Errorf("%w: ticket %q must not contain path separators", ErrInvalidArgument, ticket)
	}
	if description == "" {
		return Plan{}, fmt.Errorf("%w: description must not be empty", ErrInvalidArgument)
	}

	normalized := NormalizeDescription(description)
	if normalized == "" {
		return Plan{}, fmt.Errorf("%w: description %q is empty after normalization", ErrInvalidArgument, description)
	}

	container := repoName + containerSuffix
	return Plan{
		Branch: strings.Join([]string{handle, ticket, normalized}, "/"),
		Path:   filepath.Join(filepath.Dir(mainRoot), container, handle, ticket, normalized),
	}, nil
}
