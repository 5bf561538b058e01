package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbor-cli/arbor/internal/exec"
	"github.com/arbor-cli/arbor/internal/git"
	"github.com/arbor-cli/arbor/internal/output"
)

// statusReport is the readiness verdict for one worktree.
type statusReport struct {
	Path        string `json:"path"`
	Branch      string `json:"branch"`
	Clean       bool   `json:"clean"`
	Ahead       int    `json:"ahead"`
	Behind      int    `json:"behind"`
	HasUpstream bool   `json:"has_upstream"`
	ReadyForPR  bool   `json:"ready_for_pr"`
	Message     string `json:"message"`
}

func newStatusCmd() *cobra.Command {
	var (
		baseDir    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "status [target]",
		Short:   "Report a worktree's divergence and PR readiness",
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `Report whether a worktree is ready for a pull request: a clean tree
that is ahead of its upstream and not behind it.

The target is a worktree path or a fuzzy branch-name match; without a
target the worktree containing the current directory is used.`,
		Example: `  arbor status
  arbor status billing
  arbor status /home/alice/src/acme-worktrees/alice/CO-100/billing-feature --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			g := git.NewServiceWithExecutor(exec.NewReal())
			wt, err := resolveTarget(ctx, g, resolveStartDir(baseDir), arg)
			if err != nil {
				return err
			}

			sctx, cancel := context.WithTimeout(ctx, cfg.StatusTimeout())
			defer cancel()
			d, err := g.Divergence(sctx, wt.Path)
			if err != nil {
				return err
			}

			report := buildStatusReport(wt, d)

			if jsonOutput {
				return printJSON(out, report)
			}
			out.Printf("%s (%s)\n", report.Branch, report.Path)
			out.Printf("  clean: %v  ahead: %d  behind: %d\n", report.Clean, report.Ahead, report.Behind)
			out.Printf("  ready for PR: %v (%s)\n", report.ReadyForPR, report.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Directory inside the repository (defaults to cwd)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// buildStatusReport derives the readiness verdict: clean, ahead of the
// upstream, and not behind it. The message names the first blocking
// condition.
func buildStatusReport(wt git.Worktree, d git.Divergence) statusReport {
	r := statusReport{
		Path:        wt.Path,
		Branch:      wt.Branch,
		Clean:       d.Clean,
		Ahead:       d.Ahead,
		Behind:      d.Behind,
		HasUpstream: d.HasUpstream,
	}

	switch {
	case !d.Clean:
		r.Message = "uncommitted changes present"
	case !d.HasUpstream:
		r.Message = "branch has no upstream; push it first"
	case d.Behind > 0:
		r.Message = fmt.Sprintf("%d commit(s) behind the upstream; rebase or merge first", d.Behind)
	case d.Ahead == 0:
		r.Message = "no commits beyond the upstream"
	default:
		r.ReadyForPR = true
		r.Message = fmt.Sprintf("clean and %d commit(s) ahead", d.Ahead)
	}
	return r
}
