package pr

import (
	"context"
	"errors"
	"testing"

	"github.com/arbor-cli/arbor/internal/exec"
)

const mainRoot = "/home/alice/src/acme"

// newCreateMock answers the full inspection/synthesis/submission chain
// for wtPath with a single-commit branch.
func newCreateMock() *exec.Mock {
	m := exec.NewMock()
	porcelain := "worktree " + mainRoot + "\nHEAD abc123\nbranch refs/heads/main\n\n" +
		"worktree " + wtPath + "\nHEAD def456\nbranch refs/heads/alice/CO-100/billing-feature\n"
	m.RespondOutput("git", []string{"-C", wtPath, "worktree", "list", "--porcelain"}, porcelain)
	m.RespondOutput("git", []string{"-C", wtPath, "rev-parse", "--abbrev-ref", "HEAD"},
		"alice/CO-100/billing-feature\n")
	m.RespondOutput("git", []string{"-C", wtPath, "log"}, "Add billing data model\x1e\n")
	m.RespondOutput("gh", []string{"pr", "view"},
		`{"url":"https://github.com/acme/acme/pull/42","number":42,"title":"Add billing data model"}`)
	return m
}

func TestCreateSynthesizedContent(t *testing.T) {
	t.Setenv("GH_TOKEN", "token")

	mock := newCreateMock()
	c := NewCreator(mock)

	res, err := c.Create(context.Background(), CreateOptions{Path: wtPath})
	if err != nil {
		t.Fatalf("Create = %v", err)
	}

	if res.URL != "https://github.com/acme/acme/pull/42" {
		t.Errorf("URL = %q", res.URL)
	}
	if res.Number != 42 {
		t.Errorf("Number = %d, want 42", res.Number)
	}
	if res.Title != "Add billing data model" {
		t.Errorf("Title = %q", res.Title)
	}

	if !mock.CalledWith("git", "-C", wtPath, "push", "-u", "origin", "HEAD") {
		t.Error("branch was not pushed with an upstream")
	}
	if !mock.CalledWith("gh", "pr", "create", "--title", "Add billing data model", "--body", "") {
		t.Error("gh pr create was not invoked with the synthesized title")
	}
	if mock.CalledWith("gh", "auth", "status") {
		t.Error("GH_TOKEN must short-circuit the gh auth probe")
	}
}

func TestCreateCallerOverridesWin(t *testing.T) {
	t.Setenv("GH_TOKEN", "token")

	mock := newCreateMock()
	c := NewCreator(mock)

	_, err := c.Create(context.Background(), CreateOptions{
		Path:  wtPath,
		Title: "Custom title",
		Body:  "Custom body",
		Draft: true,
	})
	if err != nil {
		t.Fatalf("Create = %v", err)
	}
	if !mock.CalledWith("gh", "pr", "create", "--title", "Custom title", "--body", "Custom body", "--draft") {
		t.Error("caller title/body/draft were not passed through")
	}
}

func TestCreateAuthSessionFallback(t *testing.T) {
	t.Setenv("GH_TOKEN", "")

	mock := newCreateMock()
	c := NewCreator(mock)

	if _, err := c.Create(context.Background(), CreateOptions{Path: wtPath}); err != nil {
		t.Fatalf("Create = %v", err)
	}
	if !mock.CalledWith("gh", "auth", "status") {
		t.Error("gh auth status was not probed without GH_TOKEN")
	}
}

func TestCreateAuthenticationRequired(t *testing.T) {
	t.Setenv("GH_TOKEN", "")

	mock := newCreateMock()
	mock.RespondErr("gh", []string{"auth", "status"}, "You are not logged into any GitHub hosts")
	c := NewCreator(mock)

	_, err := c.Create(context.Background(), CreateOptions{Path: wtPath})
	if !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("Create = %v, want ErrAuthenticationRequired", err)
	}
	if mock.CalledWith("git", "-C", wtPath, "push") {
		t.Error("push must not run without credentials")
	}
	if mock.CalledWith("gh", "pr", "create") {
		t.Error("pr create must not run without credentials")
	}
}

func TestCreateRefusesTrunk(t *testing.T) {
	t.Setenv("GH_TOKEN", "token")

	mock := exec.NewMock()
	porcelain := "worktree " + mainRoot + "\nHEAD abc123\nbranch refs/heads/main\n"
	mock.RespondOutput("git", []string{"-C", mainRoot, "worktree", "list", "--porcelain"}, porcelain)
	mock.RespondOutput("git", []string{"-C", mainRoot, "rev-parse", "--abbrev-ref", "HEAD"}, "main\n")
	c := NewCreator(mock)

	_, err := c.Create(context.Background(), CreateOptions{Path: mainRoot})
	if !errors.Is(err, ErrCannotCreateFromTrunk) {
		t.Fatalf("Create = %v, want ErrCannotCreateFromTrunk", err)
	}
	if mock.CalledWith("git", "-C", mainRoot, "push") {
		t.Error("push must not run from the trunk branch")
	}
}

func TestCreatePushFailure(t *testing.T) {
	t.Setenv("GH_TOKEN", "token")

	mock := newCreateMock()
	mock.RespondErr("git", []string{"-C", wtPath, "push"}, "remote: permission denied")
	c := NewCreator(mock)

	_, err := c.Create(context.Background(), CreateOptions{Path: wtPath})
	if err == nil {
		t.Fatal("Create = nil, want push error")
	}
	if mock.CalledWith("gh", "pr", "create") {
		t.Error("pr create must not run after a failed push")
	}
}
