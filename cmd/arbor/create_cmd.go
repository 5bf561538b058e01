package main

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/arbor-cli/arbor/internal/exec"
	"github.com/arbor-cli/arbor/internal/log"
	"github.com/arbor-cli/arbor/internal/output"
	"github.com/arbor-cli/arbor/internal/worktree"
)

func newCreateCmd() *cobra.Command {
	var (
		baseDir    string
		baseRef    string
		openWith   string
		copyPath   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "create <ticket> <description...>",
		Short:   "Create a ticket-scoped worktree",
		GroupID: GroupCore,
		Args:    cobra.MinimumNArgs(2),
		Long: `Create a new worktree for a ticket, branched from the freshly
fetched trunk. The branch is named <handle>/<ticket>/<description> and
the worktree lives in the sibling container directory next to the main
checkout.

After creation, dependencies are installed when a lock file is present
and .env files are copied over. Failures of those two steps are
reported as warnings, never as errors.`,
		Example: `  arbor create CO-100 billing feature
  arbor create CO-100 billing feature --base origin/release-1.4
  arbor create CO-100 billing feature --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			runner := exec.NewReal()
			mgr := worktree.NewManager(runner, cfg)
			res, err := mgr.Create(ctx, worktree.CreateOptions{
				StartDir:    resolveStartDir(baseDir),
				Ticket:      args[0],
				Description: strings.Join(args[1:], " "),
				BaseRef:     baseRef,
			})
			if err != nil {
				return err
			}

			for _, w := range res.Warnings {
				l.Warnf("%s", w)
			}
			if copyPath {
				if err := clipboard.WriteAll(res.Path); err != nil {
					l.Warnf("copy path to clipboard: %v", err)
				}
			}
			if openWith != "" {
				if _, _, err := runner.Run(ctx, res.Path, openWith, res.Path); err != nil {
					l.Warnf("open with %s: %v", openWith, err)
				}
			}

			if jsonOutput {
				return printJSON(out, res)
			}

			out.Printf("Created worktree %s\n", res.Path)
			out.Printf("  branch    %s\n", res.Branch)
			out.Printf("  base      %s\n", res.Trunk)
			out.Printf("  identity  %s (%s)\n", res.Identity.Handle, res.Identity.Source)
			if res.PackageManager != "" {
				status := "failed"
				if res.DependenciesInstalled != nil && *res.DependenciesInstalled {
					status = "installed"
				}
				out.Printf("  deps      %s (%s)\n", status, res.PackageManager)
			}
			if res.EnvFilesCopied > 0 {
				out.Printf("  env       %d file(s) copied\n", res.EnvFilesCopied)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Directory inside the repository (defaults to cwd)")
	cmd.Flags().StringVar(&baseRef, "base", "", "Base ref for the new branch (defaults to the trunk)")
	cmd.Flags().StringVar(&openWith, "open", "", "Open the new worktree with the given editor command")
	cmd.Flags().BoolVar(&copyPath, "copy", false, "Copy the new worktree path to the clipboard")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
