package worktree

import (
	"errors"
	"testing"
)

func TestBuildPlanScenario(t *testing.T) {
	t.Parallel()

	plan, err := BuildPlan("alice", "acme", "/home/alice/src/acme", "-worktrees", "CO-100", "billing feature")
	if err != nil {
		t.Fatalf("BuildPlan = %v", err)
	}
	if plan.Branch != "alice/CO-100/billing-feature" {
		t.Errorf("Branch = %q, want alice/CO-100/billing-feature", plan.Branch)
	}
	if plan.Path != "/home/alice/src/acme-worktrees/alice/CO-100/billing-feature" {
		t.Errorf("Path = %q", plan.Path)
	}
}

func TestBuildPlanDeterministic(t *testing.T) {
	t.Parallel()

	a, err := BuildPlan("alice", "acme", "/home/alice/src/acme", "-worktrees", "CO-7", "Fix The Parser!")
	if err != nil {
		t.Fatal(err)
	}
	b, err := BuildPlan("alice", "acme", "/home/alice/src/acme", "-worktrees", "CO-7", "Fix The Parser!")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("same inputs produced different plans: %+v vs %+v", a, b)
	}
}

func TestBuildPlanValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		ticket      string
		description string
	}{
		{"empty ticket", "", "desc"},
		{"whitespace ticket", "   ", "desc"},
		{"ticket with slash", "CO/100", "desc"},
		{"ticket with backslash", `CO\100`, "desc"},
		{"empty description", "CO-1", ""},
		{"description empty after normalize", "CO-1", "!!!"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := BuildPlan("alice", "acme", "/repo", "-worktrees", tt.ticket, tt.description)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	t.Parallel()

	if got := NormalizeDescription("Billing Feature!"); got != "billing-feature" {
		t.Errorf("NormalizeDescription = %q, want billing-feature", got)
	}
	// Idempotence.
	if got := NormalizeDescription("billing-feature"); got != "billing-feature" {
		t.Errorf("NormalizeDescription not idempotent: %q", got)
	}
}
