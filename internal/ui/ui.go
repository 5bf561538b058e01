// Package ui renders worktree listings and status lines for terminal
// output. Styling is disabled on non-terminals and when NO_COLOR is
// set, so piped output stays plain text.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/arbor-cli/arbor/internal/git"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	mainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	cleanStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	dirtyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ColorEnabled reports whether styled output should be produced for f.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Entry is one row of the worktree listing.
type Entry struct {
	Worktree   git.Worktree
	Divergence git.Divergence
	// StatusErr marks the divergence query as failed; the entry renders
	// with an unknown status instead of dropping out of the listing.
	StatusErr error
}

// StatusText renders a divergence as a short comma-joined summary,
// e.g. "clean, 2 ahead" or "dirty, 1 ahead, 3 behind".
func StatusText(d git.Divergence) string {
	parts := []string{"dirty"}
	if d.Clean {
		parts[0] = "clean"
	}
	if !d.HasUpstream {
		parts = append(parts, "no upstream")
		return strings.Join(parts, ", ")
	}
	if d.Ahead > 0 {
		parts = append(parts, fmt.Sprintf("%d ahead", d.Ahead))
	}
	if d.Behind > 0 {
		parts = append(parts, fmt.Sprintf("%d behind", d.Behind))
	}
	return strings.Join(parts, ", ")
}

func entryStatus(e Entry) string {
	if e.StatusErr != nil {
		return "status unknown"
	}
	return StatusText(e.Divergence)
}

func styleStatus(status string, color bool) string {
	if !color {
		return status
	}
	switch {
	case status == "status unknown":
		return mutedStyle.Render(status)
	case strings.HasPrefix(status, "clean"):
		return cleanStyle.Render(status)
	default:
		return dirtyStyle.Render(status)
	}
}

// RenderTable formats entries as an aligned ID/BRANCH/HEAD/STATUS
// table. The main checkout renders as ID 0 with its branch highlighted.
func RenderTable(entries []Entry, color bool) string {
	if len(entries) == 0 {
		return "no worktrees\n"
	}

	headers := []string{"ID", "BRANCH", "HEAD", "STATUS"}
	// Column widths track terminal cells, not bytes, so multibyte
	// branch names keep the columns aligned.
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		row := []string{
			fmt.Sprintf("%d", i),
			e.Worktree.Branch,
			shortHead(e.Worktree.Head),
			entryStatus(e),
		}
		for c, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
		rows = append(rows, row)
	}

	var b strings.Builder
	writeRow := func(cells []string, styled []string) {
		for c := range cells {
			text := cells[c]
			pad := strings.Repeat(" ", widths[c]-runewidth.StringWidth(text)+2)
			if styled != nil {
				text = styled[c]
			}
			b.WriteString(text)
			if c < len(cells)-1 {
				b.WriteString(pad)
			}
		}
		b.WriteString("\n")
	}

	if color {
		styled := make([]string, len(headers))
		for i, h := range headers {
			styled[i] = headerStyle.Render(h)
		}
		writeRow(headers, styled)
	} else {
		writeRow(headers, nil)
	}

	for i, row := range rows {
		if !color {
			writeRow(row, nil)
			continue
		}
		styled := make([]string, len(row))
		copy(styled, row)
		if entries[i].Worktree.IsMain {
			styled[1] = mainStyle.Render(row[1])
		}
		styled[3] = styleStatus(row[3], true)
		writeRow(row, styled)
	}

	return b.String()
}

// shortHead abbreviates a commit hash to 7 characters.
func shortHead(head string) string {
	if len(head) > 7 {
		return head[:7]
	}
	return head
}
