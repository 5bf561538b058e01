// Package pr synthesizes pull-request content from commit history and
// submits PRs through the GitHub CLI.
package pr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arbor-cli/arbor/internal/git"
)

// ErrNoCommits indicates the branch has no commits beyond the trunk
// tracking ref, so there is nothing to describe.
var ErrNoCommits = errors.New("no commits beyond the trunk")

// ErrCannotCreateFromTrunk indicates HEAD is the trunk branch itself.
var ErrCannotCreateFromTrunk = errors.New("cannot create a pull request from the trunk branch")

// Draft is synthesized pull-request content.
type Draft struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Synthesize derives a Draft from the commits reachable from HEAD of
// the worktree at path but not from trunk (a tracking ref like
// "origin/main").
//
// The title is the subject line of the oldest commit. With more than
// one commit the body lists every subject line under a Changes heading;
// a single commit gets an empty body, its message stands on its own.
func Synthesize(ctx context.Context, g *git.Service, path, trunk string) (Draft, error) {
	branch, err := g.CurrentBranch(ctx, path)
	if err != nil {
		return Draft{}, err
	}
	if branch == trunkBranch(trunk) {
		return Draft{}, fmt.Errorf("%w: %s", ErrCannotCreateFromTrunk, branch)
	}

	messages, err := g.CommitMessagesSince(ctx, path, trunk)
	if err != nil {
		return Draft{}, err
	}
	if len(messages) == 0 {
		return Draft{}, fmt.Errorf("%w (%s..HEAD)", ErrNoCommits, trunk)
	}

	d := Draft{Title: subjectLine(messages[0])}
	if len(messages) > 1 {
		var b strings.Builder
		b.WriteString("## Changes\n\n")
		for _, msg := range messages {
			b.WriteString("- ")
			b.WriteString(subjectLine(msg))
			b.WriteString("\n")
		}
		d.Body = strings.TrimRight(b.String(), "\n")
	}
	return d, nil
}

// subjectLine returns the first line of a commit message.
func subjectLine(msg string) string {
	line, _, _ := strings.Cut(msg, "\n")
	return strings.TrimSpace(line)
}

// trunkBranch strips the remote from a tracking ref: "origin/main"
// yields "main". A ref without a remote part is returned unchanged.
func trunkBranch(trunk string) string {
	if _, branch, ok := strings.Cut(trunk, "/"); ok {
		return branch
	}
	return trunk
}
