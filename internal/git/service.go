// Package git wraps the git CLI for repository inspection and worktree
// administration.
//
// The package is organized into focused files:
//   - service.go: Service struct, sentinel errors, exec helpers
//   - worktree.go: worktree enumeration and administration
//   - repo.go: repository naming, trunk detection, branch queries
//   - divergence.go: working-tree cleanliness and ahead/behind counts
//   - check.go: tool availability preflight
package git

import (
	"context"
	"errors"

	"github.com/arbor-cli/arbor/internal/exec"
)

// ErrNotARepository indicates the start directory is not inside a git
// repository (worktree enumeration yielded nothing).
var ErrNotARepository = errors.New("not a git repository")

// ErrNoTrunkFound indicates neither origin/main nor origin/master exists.
var ErrNoTrunkFound = errors.New("no trunk branch found: neither origin/main nor origin/master exists")

// Service provides git operations with an injected command executor.
// Tests substitute an exec.Mock; production uses exec.Real.
type Service struct {
	executor exec.Executor
}

// NewService creates a Service backed by the real executor.
func NewService() *Service {
	return &Service{executor: exec.NewReal()}
}

// NewServiceWithExecutor creates a Service with a custom executor.
func NewServiceWithExecutor(e exec.Executor) *Service {
	return &Service{executor: e}
}

// gitArgs prepends -C <dir> when dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

func (s *Service) run(ctx context.Context, dir string, args ...string) error {
	_, _, err := s.executor.Run(ctx, "", "git", gitArgs(dir, args)...)
	return err
}

func (s *Service) output(ctx context.Context, dir string, args ...string) ([]byte, error) {
	return s.executor.Output(ctx, "", "git", gitArgs(dir, args)...)
}
