package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arbor-cli/arbor/internal/exec"
	"github.com/arbor-cli/arbor/internal/git"
)

func listingMock(t *testing.T, dir string, paths map[string]string) *exec.Mock {
	t.Helper()

	var b strings.Builder
	first := true
	for path, branch := range paths {
		if !first {
			b.WriteString("\n")
		}
		first = false
		b.WriteString("worktree " + path + "\nHEAD abc123\nbranch refs/heads/" + branch + "\n")
	}

	m := exec.NewMock()
	m.RespondOutput("git", []string{"-C", dir, "worktree", "list", "--porcelain"}, b.String())
	return m
}

func TestResolveTargetFuzzyBranch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	main := filepath.Join(dir, "acme")
	billing := filepath.Join(dir, "acme-worktrees", "alice", "CO-100", "billing-feature")

	var b strings.Builder
	b.WriteString("worktree " + main + "\nHEAD abc123\nbranch refs/heads/main\n\n")
	b.WriteString("worktree " + billing + "\nHEAD def456\nbranch refs/heads/alice/CO-100/billing-feature\n")

	mock := exec.NewMock()
	mock.RespondOutput("git", []string{"-C", main, "worktree", "list", "--porcelain"}, b.String())
	g := git.NewServiceWithExecutor(mock)

	wt, err := resolveTarget(context.Background(), g, main, "billing")
	if err != nil {
		t.Fatalf("resolveTarget = %v", err)
	}
	if wt.Path != billing {
		t.Errorf("Path = %q, want the billing worktree", wt.Path)
	}
}

func TestResolveTargetNoMatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	mock := listingMock(t, dir, map[string]string{dir: "main"})
	g := git.NewServiceWithExecutor(mock)

	_, err := resolveTarget(context.Background(), g, dir, "zzz-nothing")
	if err == nil {
		t.Fatal("resolveTarget = nil, want error for unmatched argument")
	}
	if !strings.Contains(err.Error(), "main") {
		t.Errorf("error %q should list the available branches", err)
	}
}

func TestResolveTargetExistingPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	main := filepath.Join(dir, "acme")
	other := filepath.Join(dir, "acme-worktrees", "alice", "CO-100", "billing-feature")
	if err := os.MkdirAll(other, 0o755); err != nil {
		t.Fatal(err)
	}

	var b strings.Builder
	b.WriteString("worktree " + main + "\nHEAD abc123\nbranch refs/heads/main\n\n")
	b.WriteString("worktree " + other + "\nHEAD def456\nbranch refs/heads/alice/CO-100/billing-feature\n")

	mock := exec.NewMock()
	mock.RespondOutput("git", []string{"-C", main, "worktree", "list", "--porcelain"}, b.String())
	g := git.NewServiceWithExecutor(mock)

	wt, err := resolveTarget(context.Background(), g, main, other)
	if err != nil {
		t.Fatalf("resolveTarget = %v", err)
	}
	if wt.Branch != "alice/CO-100/billing-feature" {
		t.Errorf("Branch = %q", wt.Branch)
	}
}

func TestResolveTargetPathOutsideListing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stranger := filepath.Join(dir, "elsewhere")
	if err := os.MkdirAll(stranger, 0o755); err != nil {
		t.Fatal(err)
	}

	mock := listingMock(t, dir, map[string]string{dir: "main"})
	g := git.NewServiceWithExecutor(mock)

	_, err := resolveTarget(context.Background(), g, dir, stranger)
	if err == nil || !strings.Contains(err.Error(), "not a worktree") {
		t.Fatalf("resolveTarget = %v, want not-a-worktree error", err)
	}
}

func TestContainingWorktree(t *testing.T) {
	t.Parallel()

	worktrees := []git.Worktree{
		{Path: "/src/acme", Branch: "main", IsMain: true},
		{Path: "/src/acme-worktrees/alice/CO-100/billing-feature", Branch: "alice/CO-100/billing-feature"},
	}

	wt, err := containingWorktree(worktrees, "/src/acme-worktrees/alice/CO-100/billing-feature/api")
	if err != nil {
		t.Fatalf("containingWorktree = %v", err)
	}
	if wt.Branch != "alice/CO-100/billing-feature" {
		t.Errorf("Branch = %q", wt.Branch)
	}

	wt, err = containingWorktree(worktrees, "/src/acme")
	if err != nil {
		t.Fatalf("containingWorktree = %v", err)
	}
	if !wt.IsMain {
		t.Error("exact main path should resolve to the main checkout")
	}

	if _, err := containingWorktree(worktrees, "/src/unrelated"); err == nil {
		t.Error("containingWorktree = nil, want error outside all worktrees")
	}
}
