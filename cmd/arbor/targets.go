package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/arbor-cli/arbor/internal/git"
)

// resolveTarget maps a command argument to a worktree. An existing
// directory path wins; any other argument fuzzy-matches against branch
// names. An empty argument selects the worktree containing dir.
func resolveTarget(ctx context.Context, g *git.Service, dir, arg string) (git.Worktree, error) {
	worktrees, err := g.ListWorktrees(ctx, dir)
	if err != nil {
		return git.Worktree{}, err
	}

	if arg == "" {
		return containingWorktree(worktrees, dir)
	}

	if fi, err := os.Stat(arg); err == nil && fi.IsDir() {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return git.Worktree{}, err
		}
		for _, wt := range worktrees {
			if filepath.Clean(wt.Path) == filepath.Clean(abs) {
				return wt, nil
			}
		}
		return git.Worktree{}, fmt.Errorf("%s is not a worktree of this repository", abs)
	}

	branches := make([]string, len(worktrees))
	for i, wt := range worktrees {
		branches[i] = wt.Branch
	}
	matches := fuzzy.Find(arg, branches)
	if len(matches) == 0 {
		return git.Worktree{}, fmt.Errorf("no worktree branch matches %q (have: %s)",
			arg, strings.Join(branches, ", "))
	}
	// Matches come back ranked, best first.
	return worktrees[matches[0].Index], nil
}

// containingWorktree returns the worktree whose path contains dir,
// preferring the longest match so nested layouts resolve correctly.
func containingWorktree(worktrees []git.Worktree, dir string) (git.Worktree, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return git.Worktree{}, err
	}
	abs = filepath.Clean(abs)

	var (
		best    git.Worktree
		bestLen = -1
	)
	for _, wt := range worktrees {
		p := filepath.Clean(wt.Path)
		if abs != p && !strings.HasPrefix(abs, p+string(filepath.Separator)) {
			continue
		}
		if len(p) > bestLen {
			best = wt
			bestLen = len(p)
		}
	}
	if bestLen < 0 {
		return git.Worktree{}, fmt.Errorf("%s is not inside any worktree of this repository", abs)
	}
	return best, nil
}
