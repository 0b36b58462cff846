package source

import (
	"context"
	"path/filepath"
	"strings"
)

// RepoInfo describes where a local directory lives inside a git checkout.
type RepoInfo struct {
	RemoteURL string // origin URL, empty when there is no origin
	Commit    string // HEAD, empty outside a repository
	Root      string // top-level directory of the checkout
	Path      string // slash-separated path of the directory from the top level
}

// CloneURL returns the origin URL, or the checkout root when there is no
// origin.
func (i RepoInfo) CloneURL() string {
	if i.RemoteURL != "" {
		return i.RemoteURL
	}
	return i.Root
}

// Inspect reports git provenance for dir. Fields git cannot resolve are left
// empty; Inspect itself never fails.
func (f *Fetcher) Inspect(ctx context.Context, dir string) RepoInfo {
	info := RepoInfo{Path: "."}

	if out, err := f.runner.Run(ctx, dir, "remote", "get-url", "origin"); err == nil {
		info.RemoteURL = strings.TrimSpace(string(out))
	}
	info.Commit = f.CommitHash(ctx, &WorkingTree{Dir: dir})

	out, err := f.runner.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return info
	}
	top := strings.TrimSpace(string(out))
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return info
	}
	// Resolve symlinks on both sides; git reports the physical path.
	if resolved, err := filepath.EvalSymlinks(absDir); err == nil {
		absDir = resolved
	}
	if resolved, err := filepath.EvalSymlinks(top); err == nil {
		top = resolved
	}
	info.Root = top
	if rel, err := filepath.Rel(top, absDir); err == nil && !strings.HasPrefix(rel, "..") {
		info.Path = filepath.ToSlash(rel)
	}
	return info
}
