package source

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ownerRepoPattern matches GitHub "owner/repo" shorthand.
var ownerRepoPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+/[a-zA-Z0-9_.-]+$`)

// Source is a user-supplied source string resolved to something git can
// clone.
type Source struct {
	Input    string
	CloneURL string
	Ref      string // branch or tag, empty for the default branch
	Local    bool   // CloneURL is a directory on this machine
}

// ParseSource resolves a source string.
//
// Supported forms:
//   - "owner/repo"                         GitHub shorthand
//   - "owner/repo#ref"                     shorthand pinned to a branch or tag
//   - "https://host/owner/repo[.git]"      HTTPS URL
//   - "https://host/owner/repo/tree/ref"   HTTPS URL pinned to a branch
//   - "git@host:owner/repo.git"            SSH URL
//   - "./path", "../path", "/path", "~/path" local repository
func ParseSource(input string) (*Source, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty source")
	}

	body, ref := input, ""
	if i := strings.LastIndex(input, "#"); i > 0 {
		body, ref = input[:i], input[i+1:]
	}

	switch {
	case isLocalPath(body):
		return parseLocal(input, body, ref)
	case strings.HasPrefix(body, "git@"), strings.HasPrefix(body, "ssh://"):
		return &Source{Input: input, CloneURL: body, Ref: ref}, nil
	case strings.HasPrefix(body, "https://"), strings.HasPrefix(body, "http://"):
		return parseHTTP(input, body, ref)
	case ownerRepoPattern.MatchString(body):
		return &Source{
			Input:    input,
			CloneURL: fmt.Sprintf("https://github.com/%s.git", strings.TrimSuffix(body, ".git")),
			Ref:      ref,
		}, nil
	}
	return nil, fmt.Errorf("unrecognized source format: %q", input)
}

func isLocalPath(input string) bool {
	return strings.HasPrefix(input, "./") ||
		strings.HasPrefix(input, "../") ||
		strings.HasPrefix(input, "/") ||
		strings.HasPrefix(input, "~/") ||
		input == "." || input == ".."
}

func parseLocal(input, body, ref string) (*Source, error) {
	p := body
	if strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		p = filepath.Join(home, p[2:])
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return nil, fmt.Errorf("resolving local path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("local path not found: %s", abs)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("local path is not a directory: %s", abs)
	}
	return &Source{Input: input, CloneURL: abs, Ref: ref, Local: true}, nil
}

func parseHTTP(input, body, ref string) (*Source, error) {
	u, err := url.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return &Source{Input: input, CloneURL: body, Ref: ref}, nil
	}

	owner, repo := parts[0], strings.TrimSuffix(parts[1], ".git")
	src := &Source{
		Input:    input,
		CloneURL: fmt.Sprintf("%s://%s/%s/%s.git", u.Scheme, u.Host, owner, repo),
		Ref:      ref,
	}
	if len(parts) >= 4 && parts[2] == "tree" && src.Ref == "" {
		src.Ref = parts[3]
	}
	return src, nil
}
