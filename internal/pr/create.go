package pr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/arbor-cli/arbor/internal/exec"
	"github.com/arbor-cli/arbor/internal/git"
)

// ErrAuthenticationRequired indicates no GitHub credentials were found.
var ErrAuthenticationRequired = errors.New(
	"github authentication required: set GH_TOKEN or run 'gh auth login'")

// Creator submits pull requests for a worktree branch.
type Creator struct {
	git      *git.Service
	executor exec.Executor
}

// NewCreator creates a Creator sharing one executor for git and gh.
func NewCreator(e exec.Executor) *Creator {
	return &Creator{git: git.NewServiceWithExecutor(e), executor: e}
}

// Git exposes the underlying git service.
func (c *Creator) Git() *git.Service {
	return c.git
}

// CreateOptions are the caller inputs for PR creation. Title and Body,
// when set, override the synthesized draft.
type CreateOptions struct {
	Path  string
	Title string
	Body  string
	Draft bool
}

// Result describes the created pull request.
type Result struct {
	URL    string `json:"url"`
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// Create synthesizes the PR content, verifies credentials, pushes the
// branch with an upstream, and opens the PR via the GitHub CLI. Content
// synthesis and the trunk-branch refusal happen before anything leaves
// the machine.
func (c *Creator) Create(ctx context.Context, opts CreateOptions) (Result, error) {
	mainRoot, err := c.git.MainRoot(ctx, opts.Path)
	if err != nil {
		return Result{}, err
	}
	trunk, err := c.git.DefaultTrunk(ctx, mainRoot)
	if err != nil {
		return Result{}, err
	}

	draft, err := Synthesize(ctx, c.git, opts.Path, trunk)
	if err != nil {
		return Result{}, err
	}
	title := opts.Title
	if title == "" {
		title = draft.Title
	}
	body := opts.Body
	if body == "" {
		body = draft.Body
	}

	if err := c.checkCredentials(ctx); err != nil {
		return Result{}, err
	}

	if err := c.git.Push(ctx, opts.Path); err != nil {
		return Result{}, err
	}

	args := []string{"pr", "create", "--title", title, "--body", body}
	if opts.Draft {
		args = append(args, "--draft")
	}
	if _, err := c.executor.Output(ctx, opts.Path, "gh", args...); err != nil {
		return Result{}, fmt.Errorf("gh pr create: %w", err)
	}

	return c.view(ctx, opts.Path)
}

// checkCredentials accepts a GH_TOKEN environment variable or an
// existing gh CLI session.
func (c *Creator) checkCredentials(ctx context.Context) error {
	if os.Getenv("GH_TOKEN") != "" {
		return nil
	}
	if _, _, err := c.executor.Run(ctx, "", "gh", "auth", "status"); err == nil {
		return nil
	}
	return ErrAuthenticationRequired
}

// view reads the created PR's metadata back from the GitHub CLI.
func (c *Creator) view(ctx context.Context, path string) (Result, error) {
	out, err := c.executor.Output(ctx, path, "gh", "pr", "view", "--json", "url,number,title")
	if err != nil {
		return Result{}, fmt.Errorf("gh pr view: %w", err)
	}

	var res Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(out))), &res); err != nil {
		return Result{}, fmt.Errorf("parse gh pr view output: %w", err)
	}
	return res, nil
}
