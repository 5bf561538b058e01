package main

import (
	"context"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/arbor-cli/arbor/internal/exec"
	"github.com/arbor-cli/arbor/internal/git"
	"github.com/arbor-cli/arbor/internal/output"
	"github.com/arbor-cli/arbor/internal/ui"
)

// worktreeDisplay holds one listing entry for JSON output.
type worktreeDisplay struct {
	Path        string `json:"path"`
	Branch      string `json:"branch"`
	Head        string `json:"head"`
	IsMain      bool   `json:"is_main"`
	Clean       bool   `json:"clean"`
	Ahead       int    `json:"ahead"`
	Behind      int    `json:"behind"`
	HasUpstream bool   `json:"has_upstream"`
	StatusError string `json:"status_error,omitempty"`
}

func newListCmd() *cobra.Command {
	var (
		baseDir    string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List worktrees with their divergence status",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `List the main checkout and all linked worktrees. Each entry shows
its branch, abbreviated head, and divergence against the upstream.

Status queries run concurrently; a failing query degrades that entry to
"status unknown" without affecting the rest of the listing.`,
		Example: `  arbor list
  arbor list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			g := git.NewServiceWithExecutor(exec.NewReal())
			worktrees, err := g.ListWorktrees(ctx, resolveStartDir(baseDir))
			if err != nil {
				return err
			}

			entries := collectStatuses(ctx, g, worktrees)

			if jsonOutput {
				display := make([]worktreeDisplay, 0, len(entries))
				for _, e := range entries {
					d := worktreeDisplay{
						Path:        e.Worktree.Path,
						Branch:      e.Worktree.Branch,
						Head:        e.Worktree.Head,
						IsMain:      e.Worktree.IsMain,
						Clean:       e.Divergence.Clean,
						Ahead:       e.Divergence.Ahead,
						Behind:      e.Divergence.Behind,
						HasUpstream: e.Divergence.HasUpstream,
					}
					if e.StatusErr != nil {
						d.StatusError = e.StatusErr.Error()
					}
					display = append(display, d)
				}
				return printJSON(out, display)
			}

			out.Print(ui.RenderTable(entries, ui.ColorEnabled(os.Stdout)))
			return nil
		},
	}

	cmd.Flags().StringVar(&baseDir, "base-dir", "", "Directory inside the repository (defaults to cwd)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// collectStatuses computes divergence for every worktree concurrently.
// A single failure is captured on its entry; siblings keep running.
func collectStatuses(ctx context.Context, g *git.Service, worktrees []git.Worktree) []ui.Entry {
	entries := make([]ui.Entry, len(worktrees))

	var wg sync.WaitGroup
	for i, wt := range worktrees {
		i, wt := i, wt
		wg.Add(1)
		go func() {
			defer wg.Done()
			sctx, cancel := context.WithTimeout(ctx, cfg.StatusTimeout())
			defer cancel()
			d, err := g.Divergence(sctx, wt.Path)
			entries[i] = ui.Entry{Worktree: wt, Divergence: d, StatusErr: err}
		}()
	}
	wg.Wait()

	return entries
}
