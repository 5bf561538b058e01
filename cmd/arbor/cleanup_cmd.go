package main

import (
	"github.com/spf13/cobra"

	"github.com/arbor-cli/arbor/internal/exec"
	"github.com/arbor-cli/arbor/internal/log"
	"github.com/arbor-cli/arbor/internal/output"
	"github.com/arbor-cli/arbor/internal/worktree"
)

func newCleanupCmd() *cobra.Command {
	var (
		baseDir      string
		deleteBranch bool
		force        bool
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:     "cleanup <target>",
		Short:   "Remove a worktree and prune its empty ancestors",
		Aliases: []string{"rm"},
		GroupID: GroupCore,
		Args:    cobra.ExactArgs(1),
		Long: `Remove a worktree, optionally delete its branch, and prune the
now-empty directories above it up to the worktree container.

The target is a worktree path or a fuzzy branch-name match. The main
checkout is never removable.`,
		Example: `  arbor cleanup billing
  arbor cleanup billing --delete-branch
  arbor cleanup /home/alice/src/acme-worktrees/alice/CO-100/billing-feature --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			mgr := worktree.NewManager(exec.NewReal(), cfg)
			wt, err := resolveTarget(ctx, mgr.Git(), resolveStartDir(baseDir), args[0])
			if err != nil {
				return err
			}

			res, err := mgr.Remove(ctx, worktree.RemoveOptions{
				Path:         wt.Path,
				DeleteBranch: deleteBranch,
				Force:        force,
			})
			if err != nil {
				return err
			}

			for _, w := range res.Warnings {
				l.Warnf("%s", w)
			}

			if jsonOutput {
				return printJSON(out, res)
			}

			out.Printf("Removed worktree %s\n", res.Path)
			if res.BranchDeleted {
				out.Printf("  deleted branch %s\n", res.Branch)
			}
			for _, dir := range res.RemovedDirs {
				out.Printf("  pruned %s\n", dir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Directory inside the repository (defaults to cwd)")
	cmd.Flags().BoolVar(&deleteBranch, "delete-branch", false, "Also delete the worktree's branch")
	cmd.Flags().BoolVar(&force, "force", false, "Remove even with uncommitted changes")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
