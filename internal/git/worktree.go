package git

import (
	"context"
	"fmt"
	"strings"
)

// Worktree is one entry of the repository's worktree list.
type Worktree struct {
	Path   string `json:"path"`
	Branch string `json:"branch"`
	Head   string `json:"head"`
	IsMain bool   `json:"is_main"`
}

// ListWorktrees enumerates the repository's worktrees via
// `git worktree list --porcelain`.
//
// Git always lists the main checkout first; the first record is flagged
// IsMain. This ordering is documented git behavior and the rest of the
// tool depends on it.
func (s *Service) ListWorktrees(ctx context.Context, dir string) ([]Worktree, error) {
	out, err := s.output(ctx, dir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotARepository, err)
	}

	worktrees := parseWorktreeList(string(out))
	if len(worktrees) == 0 {
		return nil, ErrNotARepository
	}
	return worktrees, nil
}

// parseWorktreeList parses porcelain output into records. Entries are
// separated by blank lines; each starts with a "worktree <path>" line.
func parseWorktreeList(out string) []Worktree {
	var worktrees []Worktree
	var cur *Worktree

	flush := func() {
		if cur != nil && cur.Path != "" {
			cur.IsMain = len(worktrees) == 0
			worktrees = append(worktrees, *cur)
		}
		cur = nil
	}

	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()
			cur = &Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case cur == nil:
			// Attribute line before any worktree line; malformed, skip.
		case strings.HasPrefix(line, "HEAD "):
			cur.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch refs/heads/"):
			cur.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "detached":
			cur.Branch = "(detached)"
		}
	}
	flush()

	return worktrees
}

// MainRoot returns the path of the repository's main checkout, resolved
// from any directory inside the repository.
func (s *Service) MainRoot(ctx context.Context, startDir string) (string, error) {
	worktrees, err := s.ListWorktrees(ctx, startDir)
	if err != nil {
		return "", err
	}
	return worktrees[0].Path, nil
}

// CreateWorktree creates a worktree at path with a new branch forked
// from baseRef. Path and branch creation are one git operation; a
// collision on either fails the whole call.
func (s *Service) CreateWorktree(ctx context.Context, mainRoot, path, branch, baseRef string) error {
	args := []string{"worktree", "add", path, "-b", branch}
	if baseRef != "" {
		args = append(args, baseRef)
	}
	if _, err := s.output(ctx, mainRoot, args...); err != nil {
		return fmt.Errorf("create worktree: %w", err)
	}
	return nil
}

// RemoveWorktree removes the worktree at path.
func (s *Service) RemoveWorktree(ctx context.Context, mainRoot, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	if _, err := s.output(ctx, mainRoot, args...); err != nil {
		return fmt.Errorf("remove worktree: %w", err)
	}
	return nil
}

// DeleteBranch force-deletes a local branch.
func (s *Service) DeleteBranch(ctx context.Context, mainRoot, branch string) error {
	if _, err := s.output(ctx, mainRoot, "branch", "-D", branch); err != nil {
		return fmt.Errorf("delete branch %s: %w", branch, err)
	}
	return nil
}
