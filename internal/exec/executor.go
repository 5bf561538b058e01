// Package exec abstracts external command execution so that components
// can be tested without spawning real processes.
//
// Production code uses Real, which shells out via os/exec; tests inject
// a Mock that replays pre-recorded responses.
//
// arbor shells out to the git/gh CLIs and to package managers rather
// than linking libraries. This keeps behavior identical to what the user
// sees on their own shell (SSH keys, credential helpers, hooks).
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"strings"
	"sync"

	"github.com/arbor-cli/arbor/internal/log"
)

// Executor runs external commands.
type Executor interface {
	// Run executes a command and returns stdout, stderr, and any error.
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)

	// Output executes a command and returns stdout. On failure the
	// trimmed stderr text is folded into the returned error.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// Real executes commands using os/exec.
type Real struct{}

// NewReal returns an Executor backed by os/exec.
func NewReal() *Real {
	return &Real{}
}

// Run executes a command and returns stdout, stderr, and any error.
// A cancelled or expired context surfaces as the context's error.
func (e *Real) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	log.FromContext(ctx).Command(name, args...)

	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return stdout.Bytes(), stderr.Bytes(), err
}

// Output executes a command and returns stdout, with stderr folded into
// the error on failure.
func (e *Real) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	stdout, stderr, err := e.Run(ctx, dir, name, args...)
	if err != nil {
		return stdout, wrapStderr(err, stderr)
	}
	return stdout, nil
}

// wrapStderr folds trimmed stderr text into err so callers see the
// actual tool message, not just an exit status.
func wrapStderr(err error, stderr []byte) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if msg := strings.TrimSpace(string(stderr)); msg != "" {
		// Keep the original error in the chain so callers can still
		// inspect the exit status with errors.As.
		return fmt.Errorf("%s: %w", msg, err)
	}
	return err
}

// Response is the canned result of a mocked command.
type Response struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

// Matcher decides whether a rule applies to an invocation.
type Matcher func(dir, name string, args []string) bool

type rule struct {
	match Matcher
	resp  Response
}

// Call records a command invocation for verification.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Mock replays pre-recorded responses for commands. Rules are matched in
// registration order; unmatched commands succeed with empty output.
type Mock struct {
	mu    sync.Mutex
	rules []rule
	calls []Call
}

// NewMock creates an empty Mock.
func NewMock() *Mock {
	return &Mock{}
}

// AddRule registers a matcher with its response.
func (m *Mock) AddRule(match Matcher, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule{match: match, resp: resp})
}

// Respond registers a response for commands whose name and leading
// arguments match the given prefix.
func (m *Mock) Respond(name string, prefix []string, resp Response) {
	m.AddRule(func(_, n string, args []string) bool {
		if n != name || len(args) < len(prefix) {
			return false
		}
		for i, p := range prefix {
			if args[i] != p {
				return false
			}
		}
		return true
	}, resp)
}

// RespondOutput registers a successful response with the given stdout.
func (m *Mock) RespondOutput(name string, prefix []string, stdout string) {
	m.Respond(name, prefix, Response{Stdout: []byte(stdout)})
}

// RespondErr registers a failing response.
func (m *Mock) RespondErr(name string, prefix []string, stderr string) {
	m.Respond(name, prefix, Response{
		Stderr: []byte(stderr),
		Err:    errors.New("exit status 1"),
	})
}

// Calls returns all recorded invocations.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Call, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CalledWith reports whether any recorded invocation matches the given
// name and argument prefix.
func (m *Mock) CalledWith(name string, prefix ...string) bool {
	for _, c := range m.Calls() {
		if c.Name != name || len(c.Args) < len(prefix) {
			continue
		}
		ok := true
		for i, p := range prefix {
			if c.Args[i] != p {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (m *Mock) lookup(dir, name string, args []string) *Response {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Dir: dir, Name: name, Args: args})
	for _, r := range m.rules {
		if r.match(dir, name, args) {
			resp := r.resp
			return &resp
		}
	}
	return nil
}

// Run replays the first matching rule.
func (m *Mock) Run(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if resp := m.lookup(dir, name, args); resp != nil {
		return resp.Stdout, resp.Stderr, resp.Err
	}
	return nil, nil, nil
}

// Output replays the first matching rule, folding stderr into the error.
func (m *Mock) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	stdout, stderr, err := m.Run(ctx, dir, name, args...)
	if err != nil {
		return stdout, wrapStderr(err, stderr)
	}
	return stdout, nil
}

var (
	_ Executor = (*Real)(nil)
	_ Executor = (*Mock)(nil)
)
