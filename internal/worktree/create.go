package worktree

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arbor-cli/arbor/internal/config"
	"github.com/arbor-cli/arbor/internal/exec"
	"github.com/arbor-cli/arbor/internal/git"
	"github.com/arbor-cli/arbor/internal/identity"
	"github.com/arbor-cli/arbor/internal/log"
)

// ErrTrunkSyncFailed indicates the trunk fetch failed. Nothing has
// been created at this point.
var ErrTrunkSyncFailed = errors.New("trunk sync failed")

// ErrWorktreeCreationFailed indicates the worktree/branch creation
// itself failed (path or branch collision, git failure).
var ErrWorktreeCreationFailed = errors.New("worktree creation failed")

// Manager orchestrates worktree creation and removal.
type Manager struct {
	git      *git.Service
	resolver *identity.Resolver
	executor exec.Executor
	cfg      config.Config
}

// NewManager creates a Manager sharing one executor across git,
// identity probing, and package-manager invocations.
func NewManager(e exec.Executor, cfg config.Config) *Manager {
	return &Manager{
		git:      git.NewServiceWithExecutor(e),
		resolver: identity.NewResolver(e, cfg.IdentityTimeout()),
		executor: e,
		cfg:      cfg,
	}
}

// Git exposes the underlying git service for read-only queries.
func (m *Manager) Git() *git.Service {
	return m.git
}

// CreateOptions are the caller inputs for worktree creation.
type CreateOptions struct {
	StartDir    string // directory inside the repository; defaults to cwd upstream
	Ticket      string
	Description string
	BaseRef     string // optional explicit base; defaults to the resolved trunk
}

// CreateResult reports everything the caller needs to audit a create,
// including the independent outcomes of the best-effort stages.
type CreateResult struct {
	Path     string            `json:"path"`
	Branch   string            `json:"branch"`
	Identity identity.Identity `json:"identity"`
	RepoName string            `json:"repo_name"`
	Trunk    string            `json:"trunk"`

	// DependenciesInstalled is nil when no lock file was found (step
	// skipped), otherwise the install outcome.
	DependenciesInstalled *bool    `json:"dependencies_installed,omitempty"`
	PackageManager        string   `json:"package_manager,omitempty"`
	EnvFilesCopied        int      `json:"env_files_copied"`
	Warnings              []string `json:"warnings,omitempty"`
}

// stage is one step of the creation pipeline. A fatal stage's failure
// aborts the pipeline; a best-effort stage's failure is recorded as a
// warning and the pipeline continues.
type stage struct {
	name       string
	bestEffort bool
	run        func(ctx context.Context) error
}

// Create runs the creation pipeline:
//
//	validate -> inspect repo -> resolve identity -> resolve paths ->
//	sync trunk -> create worktree -> [install deps] -> [copy env]
//
// The bracketed stages are best-effort. A fatal failure after the
// worktree exists does not occur by construction; best-effort failures
// never roll the worktree back.
func (m *Manager) Create(ctx context.Context, opts CreateOptions) (CreateResult, error) {
	var (
		res      CreateResult
		mainRoot string
		plan     Plan
	)

	stages := []stage{
		{name: "validate", run: func(context.Context) error {
			return validateInputs(opts.Ticket, opts.Description)
		}},
		{name: "inspect repository", run: func(ctx context.Context) error {
			root, err := m.git.MainRoot(ctx, opts.StartDir)
			if err != nil {
				return err
			}
			mainRoot = root
			res.RepoName = m.git.RepoName(ctx, mainRoot)

			trunk, err := m.git.DefaultTrunk(ctx, mainRoot)
			if err != nil {
				return err
			}
			res.Trunk = trunk
			return nil
		}},
		{name: "resolve identity", run: func(ctx context.Context) error {
			id, err := m.resolver.Resolve(ctx, filepath.Join(mainRoot, m.cfg.OverrideFile))
			if err != nil {
				return err
			}
			res.Identity = id
			return nil
		}},
		{name: "resolve paths", run: func(context.Context) error {
			p, err := BuildPlan(res.Identity.Handle, res.RepoName, mainRoot,
				m.cfg.ContainerSuffix, opts.Ticket, opts.Description)
			if err != nil {
				return err
			}
			plan = p
			res.Path = p.Path
			res.Branch = p.Branch
			return nil
		}},
		{name: "sync trunk", run: func(ctx context.Context) error {
			fctx, cancel := context.WithTimeout(ctx, m.cfg.FetchTimeout())
			defer cancel()
			if err := m.git.Fetch(fctx, mainRoot, res.Trunk); err != nil {
				return fmt.Errorf("%w: %v", ErrTrunkSyncFailed, err)
			}
			return nil
		}},
		{name: "create worktree", run: func(ctx context.Context) error {
			base := opts.BaseRef
			if base == "" {
				base = res.Trunk
			}
			if err := m.git.CreateWorktree(ctx, mainRoot, plan.Path, plan.Branch, base); err != nil {
				return fmt.Errorf("%w: %v", ErrWorktreeCreationFailed, err)
			}
			return nil
		}},
		{name: "install dependencies", bestEffort: true, run: func(ctx context.Context) error {
			pm, err := installDependencies(ctx, m.executor, plan.Path, m.cfg.InstallTimeout())
			res.PackageManager = pm
			if pm == "" {
				return nil // no lock file, step skipped
			}
			ok := err == nil
			res.DependenciesInstalled = &ok
			return err
		}},
		{name: "copy env files", bestEffort: true, run: func(context.Context) error {
			copied, warnings, err := CopyEnvFiles(mainRoot, plan.Path, m.cfg.EnvScanDepth)
			res.EnvFilesCopied = copied
			res.Warnings = append(res.Warnings, warnings...)
			return err
		}},
	}

	l := log.FromContext(ctx)
	for _, st := range stages {
		if err := st.run(ctx); err != nil {
			if !st.bestEffort {
				return res, err
			}
			l.Warnf("%s: %v", st.name, err)
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: %v", st.name, err))
		}
	}

	return res, nil
}

// validateInputs rejects empty ticket/description before any I/O runs.
func validateInputs(ticket, description string) error {
	if strings.TrimSpace(ticket) == "" {
		return fmt.Errorf("%w: ticket must not be empty", ErrInvalidArgument)
	}
	if strings.ContainsAny(ticket, `/\`) {
		return fmt.Errorf("%w: ticket %q must not contain path separators", ErrInvalidArgument, ticket)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description must not be empty", ErrInvalidArgument)
	}
	return nil
}
