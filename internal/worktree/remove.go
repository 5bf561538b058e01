package worktree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// RemoveOptions are the caller inputs for worktree removal.
type RemoveOptions struct {
	Path         string
	DeleteBranch bool
	Force        bool // pass --force to git worktree remove
}

// RemoveResult reports what removal actually did, including every
// directory deleted by the prune walk.
type RemoveResult struct {
	Path          string   `json:"path"`
	Branch        string   `json:"branch,omitempty"`
	BranchDeleted bool     `json:"branch_deleted"`
	RemovedDirs   []string `json:"removed_dirs,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Remove tears a worktree down: record its branch (best-effort),
// remove the worktree (fatal), delete the branch if requested
// (best-effort), then prune now-empty ancestor directories.
func (m *Manager) Remove(ctx context.Context, opts RemoveOptions) (RemoveResult, error) {
	res := RemoveResult{Path: opts.Path}

	mainRoot, err := m.git.MainRoot(ctx, opts.Path)
	if err != nil {
		return res, err
	}
	if filepath.Clean(opts.Path) == filepath.Clean(mainRoot) {
		return res, fmt.Errorf("%w: refusing to remove the main checkout %s", ErrInvalidArgument, mainRoot)
	}

	// Branch name is only needed for the optional deletion below; a
	// failure here (detached HEAD) must not block removal.
	if branch, err := m.git.CurrentBranch(ctx, opts.Path); err == nil {
		res.Branch = branch
	} else {
		res.Warnings = append(res.Warnings, fmt.Sprintf("record branch: %v", err))
	}

	if err := m.git.RemoveWorktree(ctx, mainRoot, opts.Path, opts.Force); err != nil {
		return res, err
	}

	if opts.DeleteBranch && res.Branch != "" {
		if err := m.git.DeleteBranch(ctx, mainRoot, res.Branch); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("delete branch: %v", err))
		} else {
			res.BranchDeleted = true
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	res.RemovedDirs = PruneEmptyDirs(filepath.Dir(opts.Path), home, m.cfg.ContainerSuffix)

	return res, nil
}
