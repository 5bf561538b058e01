package main

import (
	"strings"
	"testing"

	"github.com/arbor-cli/arbor/internal/git"
)

func TestBuildStatusReport(t *testing.T) {
	t.Parallel()

	wt := git.Worktree{Path: "/x", Branch: "alice/CO-100/billing-feature"}

	tests := []struct {
		name    string
		d       git.Divergence
		ready   bool
		message string
	}{
		{
			name:    "ready",
			d:       git.Divergence{Clean: true, Ahead: 2, HasUpstream: true},
			ready:   true,
			message: "ahead",
		},
		{
			name:    "dirty blocks",
			d:       git.Divergence{Ahead: 2, HasUpstream: true},
			message: "uncommitted",
		},
		{
			name:    "behind blocks",
			d:       git.Divergence{Clean: true, Ahead: 2, Behind: 1, HasUpstream: true},
			message: "behind",
		},
		{
			name:    "nothing to propose",
			d:       git.Divergence{Clean: true, HasUpstream: true},
			message: "no commits",
		},
		{
			name:    "no upstream",
			d:       git.Divergence{Clean: true},
			message: "no upstream",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := buildStatusReport(wt, tt.d)
			if r.ReadyForPR != tt.ready {
				t.Errorf("ReadyForPR = %v, want %v", r.ReadyForPR, tt.ready)
			}
			if !strings.Contains(r.Message, tt.message) {
				t.Errorf("Message = %q, want it to mention %q", r.Message, tt.message)
			}
		})
	}
}
