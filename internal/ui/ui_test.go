package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/arbor-cli/arbor/internal/git"
)

func TestStatusText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    git.Divergence
		want string
	}{
		{"clean at parity", git.Divergence{Clean: true, HasUpstream: true}, "clean"},
		{"dirty at parity", git.Divergence{HasUpstream: true}, "dirty"},
		{"ahead only", git.Divergence{Clean: true, Ahead: 2, HasUpstream: true}, "clean, 2 ahead"},
		{"behind only", git.Divergence{Clean: true, Behind: 3, HasUpstream: true}, "clean, 3 behind"},
		{"diverged and dirty", git.Divergence{Ahead: 1, Behind: 3, HasUpstream: true}, "dirty, 1 ahead, 3 behind"},
		{"no upstream", git.Divergence{Clean: true}, "clean, no upstream"},
		{"no upstream dirty", git.Divergence{}, "dirty, no upstream"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := StatusText(tt.d); got != tt.want {
				t.Errorf("StatusText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderTablePlain(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{
			Worktree:   git.Worktree{Path: "/src/acme", Branch: "main", Head: "abc1234deadbeef", IsMain: true},
			Divergence: git.Divergence{Clean: true, HasUpstream: true},
		},
		{
			Worktree:   git.Worktree{Path: "/src/acme-worktrees/alice/CO-100/billing-feature", Branch: "alice/CO-100/billing-feature", Head: "def5678"},
			Divergence: git.Divergence{Clean: true, Ahead: 2, HasUpstream: true},
		},
		{
			Worktree:  git.Worktree{Path: "/src/acme-worktrees/alice/CO-200/broken", Branch: "alice/CO-200/broken", Head: "0000000"},
			StatusErr: errors.New("status: exit status 128"),
		},
	}

	out := RenderTable(entries, false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), out)
	}

	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "STATUS") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "0") || !strings.Contains(lines[1], "abc1234 ") {
		t.Errorf("main row = %q, want ID 0 and abbreviated head", lines[1])
	}
	if !strings.Contains(lines[2], "clean, 2 ahead") {
		t.Errorf("worktree row = %q", lines[2])
	}
	if !strings.Contains(lines[3], "status unknown") {
		t.Errorf("failed row = %q, want degraded status", lines[3])
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain rendering must not contain ANSI escapes")
	}
}

func TestRenderTableAlignsMultibyteBranches(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{
			Worktree:   git.Worktree{Path: "/src/acme", Branch: "main", Head: "abc1234", IsMain: true},
			Divergence: git.Divergence{Clean: true, HasUpstream: true},
		},
		{
			Worktree:   git.Worktree{Path: "/src/acme-worktrees/rené/CO-9/café-menü", Branch: "rené/CO-9/café-menü", Head: "def5678"},
			Divergence: git.Divergence{Clean: true, Ahead: 1, HasUpstream: true},
		},
	}

	out := RenderTable(entries, false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), out)
	}

	// The HEAD column must start in the same terminal cell on every
	// line, independent of how many bytes the branch name occupies.
	offsets := make([]int, len(lines))
	for i, line := range lines {
		col := strings.Index(line, headColumnText(i))
		if col < 0 {
			t.Fatalf("line %d missing expected cell: %q", i, line)
		}
		offsets[i] = runewidth.StringWidth(line[:col])
	}
	if offsets[0] != offsets[1] || offsets[1] != offsets[2] {
		t.Errorf("HEAD column offsets = %v, want all equal:\n%s", offsets, out)
	}
}

func headColumnText(line int) string {
	switch line {
	case 0:
		return "HEAD"
	case 1:
		return "abc1234"
	default:
		return "def5678"
	}
}

func TestRenderTableEmpty(t *testing.T) {
	t.Parallel()

	if out := RenderTable(nil, false); out != "no worktrees\n" {
		t.Errorf("RenderTable(nil) = %q", out)
	}
}

func TestShortHead(t *testing.T) {
	t.Parallel()

	if got := shortHead("abc1234deadbeef"); got != "abc1234" {
		t.Errorf("shortHead = %q", got)
	}
	if got := shortHead("ab12"); got != "ab12" {
		t.Errorf("shortHead short input = %q", got)
	}
}
