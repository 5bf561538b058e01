package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Divergence describes a worktree's state relative to its upstream.
//
// When no upstream is configured, Ahead and Behind are zero and
// HasUpstream is false, so callers can tell upstream parity apart from
// a branch that was never pushed.
type Divergence struct {
	Clean       bool `json:"clean"`
	Ahead       int  `json:"ahead"`
	Behind      int  `json:"behind"`
	HasUpstream bool `json:"has_upstream"`
}

// Divergence computes cleanliness and ahead/behind counts for the
// worktree at path. A missing upstream is not an error.
func (s *Service) Divergence(ctx context.Context, path string) (Divergence, error) {
	d := Divergence{}

	statusOut, err := s.output(ctx, path, "status", "--porcelain")
	if err != nil {
		return d, fmt.Errorf("status: %w", err)
	}
	d.Clean = strings.TrimSpace(string(statusOut)) == ""

	// No upstream configured: counts stay zero. A lookup aborted by
	// cancellation or timeout proves nothing about the upstream, so
	// it stays an error.
	if err := s.run(ctx, path, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{upstream}"); err != nil {
		if ctx.Err() != nil {
			return d, fmt.Errorf("upstream lookup: %w", ctx.Err())
		}
		return d, nil
	}
	d.HasUpstream = true

	// Symmetric difference against the upstream:
	// left side (upstream-only commits) = behind, right side = ahead.
	out, err := s.output(ctx, path, "rev-list", "--count", "--left-right", "@{upstream}...HEAD")
	if err != nil {
		return d, fmt.Errorf("rev-list: %w", err)
	}

	behind, ahead, err := parseLeftRight(string(out))
	if err != nil {
		return d, err
	}
	d.Behind = behind
	d.Ahead = ahead
	return d, nil
}

// parseLeftRight parses "behind<tab>ahead" from rev-list --count --left-right.
func parseLeftRight(out string) (behind, ahead int, err error) {
	parts := strings.Split(strings.TrimSpace(out), "\t")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %q", out)
	}
	behind, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse behind count: %w", err)
	}
	ahead, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse ahead count: %w", err)
	}
	return behind, ahead, nil
}
