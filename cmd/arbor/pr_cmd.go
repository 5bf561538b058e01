package main

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/arbor-cli/arbor/internal/exec"
	"github.com/arbor-cli/arbor/internal/log"
	"github.com/arbor-cli/arbor/internal/output"
	"github.com/arbor-cli/arbor/internal/pr"
)

func newPrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pr",
		Short:   "Pull request operations",
		GroupID: GroupPR,
	}
	cmd.AddCommand(newPrCreateCmd())
	return cmd
}

func newPrCreateCmd() *cobra.Command {
	var (
		baseDir    string
		title      string
		body       string
		draft      bool
		copyURL    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "create [target]",
		Short: "Push the branch and open a pull request",
		Args:  cobra.MaximumNArgs(1),
		Long: `Push the worktree's branch and open a pull request via the GitHub
CLI. Title and body are derived from the commit messages since the
trunk; explicit --title/--body override the derived content.

The target is a worktree path or a fuzzy branch-name match; without a
target the worktree containing the current directory is used.`,
		Example: `  arbor pr create
  arbor pr create billing --draft
  arbor pr create --title "Custom title" --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			creator := pr.NewCreator(exec.NewReal())
			wt, err := resolveTarget(ctx, creator.Git(), resolveStartDir(baseDir), arg)
			if err != nil {
				return err
			}

			res, err := creator.Create(ctx, pr.CreateOptions{
				Path:  wt.Path,
				Title: title,
				Body:  body,
				Draft: draft,
			})
			if err != nil {
				return err
			}

			if copyURL {
				if err := clipboard.WriteAll(res.URL); err != nil {
					l.Warnf("copy URL to clipboard: %v", err)
				}
			}

			if jsonOutput {
				return printJSON(out, res)
			}
			out.Printf("Created PR #%d: %s\n", res.Number, res.Title)
			out.Println(res.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Directory inside the repository (defaults to cwd)")
	cmd.Flags().StringVar(&title, "title", "", "PR title (overrides the derived title)")
	cmd.Flags().StringVar(&body, "body", "", "PR body (overrides the derived body)")
	cmd.Flags().BoolVar(&draft, "draft", false, "Open the PR as a draft")
	cmd.Flags().BoolVar(&copyURL, "copy", false, "Copy the PR URL to the clipboard")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
