// Package source fetches asset source repositories with git.
//
// A Fetcher clones repositories into temporary working trees. Clones are
// shallow, bounded by a shared concurrency permit and a per-clone timeout,
// and never leave temporary storage behind on failure. Callers release a
// successful tree with Cleanup once they are done with it.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
)

const (
	// DefaultMaxConcurrent is the default number of clones allowed in flight.
	DefaultMaxConcurrent = 5
	// DefaultTimeout bounds a single clone.
	DefaultTimeout = 60 * time.Second
)

// Runner executes git with args in dir and returns its combined output.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// ExecRunner runs the git executable. The process is killed when ctx ends.
type ExecRunner struct {
	// Binary defaults to "git" looked up on PATH.
	Binary string
}

func (r ExecRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	// Helpers such as git-remote-https can hold the output pipe open after
	// git itself is killed.
	cmd.WaitDelay = 5 * time.Second
	return cmd.CombinedOutput()
}

// WorkingTree is a temporary checkout owned by one operation.
type WorkingTree struct {
	Dir string
	URL string
	Ref string
}

// Fetcher clones repositories. It is safe for concurrent use.
type Fetcher struct {
	sem           *semaphore.Weighted
	maxConcurrent int64
	timeout       time.Duration
	runner        Runner
	tempRoot      string
	logger        *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithMaxConcurrent sets the global clone ceiling. Values below 1 are ignored.
func WithMaxConcurrent(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxConcurrent = int64(n)
		}
	}
}

// WithTimeout sets the per-clone timeout. Values below 1ns are ignored.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithRunner replaces the git runner.
func WithRunner(r Runner) Option {
	return func(f *Fetcher) { f.runner = r }
}

// WithTempRoot sets the parent directory for working trees. The default is
// os.TempDir().
func WithTempRoot(dir string) Option {
	return func(f *Fetcher) { f.tempRoot = dir }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		maxConcurrent: DefaultMaxConcurrent,
		timeout:       DefaultTimeout,
		runner:        ExecRunner{},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	f.sem = semaphore.NewWeighted(f.maxConcurrent)
	return f
}

// Timeout returns the per-clone timeout.
func (f *Fetcher) Timeout() time.Duration { return f.timeout }

// Clone makes a shallow clone of url, optionally at branch or tag ref. It
// blocks until a permit is free. On any failure the temporary directory is
// removed before the error is returned.
func (f *Fetcher) Clone(ctx context.Context, url, ref string) (*WorkingTree, error) {
	command := formatCommand(url, ref)
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, &FetchError{Kind: FetchCanceled, URL: url, Command: command, Err: err}
	}
	defer f.sem.Release(1)

	dir, err := os.MkdirTemp(f.tempRoot, "agenthub-clone-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}

	args := []string{"clone", "--depth", "1"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, "--", url, dir)

	cloneCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	f.logger.Debug("cloning source", "url", url, "ref", ref)
	output, err := f.runner.Run(cloneCtx, "", args...)
	if err != nil {
		f.Cleanup(&WorkingTree{Dir: dir})
		fe := f.cloneError(ctx, cloneCtx, url, command, string(output), err)
		f.logger.Debug("clone failed", "url", url, "kind", fe.Kind.String(), "error", fe)
		return nil, fe
	}
	f.logger.Debug("cloned source", "url", url, "dir", dir, "duration", time.Since(start))

	return &WorkingTree{Dir: dir, URL: url, Ref: ref}, nil
}

func (f *Fetcher) cloneError(ctx, cloneCtx context.Context, url, command, output string, err error) *FetchError {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return &FetchError{Kind: FetchGitMissing, URL: url, Command: command, Hints: gitMissingHints(), Err: err}
	case ctx.Err() != nil:
		return &FetchError{Kind: FetchCanceled, URL: url, Command: command, Err: ctx.Err()}
	case errors.Is(cloneCtx.Err(), context.DeadlineExceeded):
		return &FetchError{
			Kind:     FetchTimeout,
			URL:      url,
			Protocol: detectProtocol(url),
			Command:  command,
			Output:   strings.TrimSpace(output),
			Timeout:  f.timeout,
			Hints:    timeoutHints(f.timeout),
			Err:      cloneCtx.Err(),
		}
	default:
		return classifyClone(url, command, output, err)
	}
}

// CommitHash returns the tree's HEAD revision, or "" when git cannot tell.
func (f *Fetcher) CommitHash(ctx context.Context, tree *WorkingTree) string {
	if tree == nil {
		return ""
	}
	out, err := f.runner.Run(ctx, tree.Dir, "rev-parse", "HEAD")
	if err != nil {
		f.logger.Debug("resolving commit failed", "dir", tree.Dir, "error", err)
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Cleanup removes the working tree. It is safe to call more than once and
// on a nil tree.
func (f *Fetcher) Cleanup(tree *WorkingTree) {
	if tree == nil || tree.Dir == "" {
		return
	}
	if err := os.RemoveAll(tree.Dir); err != nil {
		f.logger.Debug("removing working tree failed", "dir", tree.Dir, "error", err)
	}
}
