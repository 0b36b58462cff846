package source

import (
	"fmt"
	"strings"
	"time"
)

// FetchErrorKind says which stage of a fetch failed.
type FetchErrorKind int

const (
	// FetchFailed means the clone process exited non-zero.
	FetchFailed FetchErrorKind = iota
	// FetchTimeout means the clone exceeded the configured timeout and was killed.
	FetchTimeout
	// FetchGitMissing means the git executable could not be found.
	FetchGitMissing
	// FetchCanceled means the caller's context ended first.
	FetchCanceled
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchTimeout:
		return "Timeout"
	case FetchGitMissing:
		return "Git Missing"
	case FetchCanceled:
		return "Canceled"
	default:
		return "Clone Failed"
	}
}

// CloneCause classifies a failed clone from git's diagnostic output.
type CloneCause int

const (
	CauseUnknown CloneCause = iota
	// CauseAuth means credentials are missing or invalid.
	CauseAuth
	// CauseRepoNotFound means the URL is wrong or the repository is private.
	CauseRepoNotFound
	// CauseNetwork means the host could not be reached.
	CauseNetwork
	// CauseSSHKey means the SSH key was rejected or not found.
	CauseSSHKey
	// CauseHostKey means SSH host key verification failed.
	CauseHostKey
)

func (c CloneCause) String() string {
	switch c {
	case CauseAuth:
		return "Authentication Required"
	case CauseRepoNotFound:
		return "Repository Not Found"
	case CauseNetwork:
		return "Network Error"
	case CauseSSHKey:
		return "SSH Key Error"
	case CauseHostKey:
		return "SSH Host Key Error"
	default:
		return "Unknown Error"
	}
}

// FetchError is returned by Clone. Temporary storage has always been removed
// by the time a FetchError reaches the caller.
type FetchError struct {
	Kind     FetchErrorKind
	Cause    CloneCause // set when Kind is FetchFailed
	URL      string
	Protocol string // "https" or "ssh"
	Command  string // display form of the git command
	Output   string // combined git output
	Timeout  time.Duration
	Hints    []string
	Err      error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchTimeout:
		return fmt.Sprintf("could not reach source %s: git clone timed out after %s", e.URL, e.Timeout)
	case FetchGitMissing:
		return "git is not installed or not in PATH"
	case FetchCanceled:
		return fmt.Sprintf("git clone of %s canceled: %v", e.URL, e.Err)
	}
	if e.Unreachable() {
		return fmt.Sprintf("could not reach source %s (%s): %s", e.URL, e.Cause, e.firstLine())
	}
	return fmt.Sprintf("git clone failed (%s): %s", e.Cause, e.firstLine())
}

func (e *FetchError) Unwrap() error { return e.Err }

// Unreachable reports whether the source itself could not be reached, as
// opposed to the local tooling being unavailable.
func (e *FetchError) Unreachable() bool {
	if e.Kind == FetchTimeout {
		return true
	}
	if e.Kind != FetchFailed {
		return false
	}
	switch e.Cause {
	case CauseNetwork, CauseRepoNotFound, CauseAuth, CauseSSHKey, CauseHostKey:
		return true
	}
	return false
}

// firstLine returns the first meaningful line of git output.
func (e *FetchError) firstLine() string {
	for _, line := range strings.Split(e.Output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "Cloning into") {
			return line
		}
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "clone failed"
}

// classifyClone builds a FetchFailed error from git's output.
func classifyClone(url, command, output string, err error) *FetchError {
	protocol := detectProtocol(url)
	cause := classifyOutput(output)
	return &FetchError{
		Kind:     FetchFailed,
		Cause:    cause,
		URL:      url,
		Protocol: protocol,
		Command:  command,
		Output:   strings.TrimSpace(output),
		Hints:    hintsForCause(cause, protocol, url),
		Err:      err,
	}
}

func detectProtocol(url string) string {
	if strings.HasPrefix(url, "git@") || strings.HasPrefix(url, "ssh://") {
		return "ssh"
	}
	return "https"
}

// classifyOutput pattern-matches git stderr. Timeouts are detected from the
// context, not from output, so "connection timed out" is a network error.
func classifyOutput(output string) CloneCause {
	lower := strings.ToLower(output)

	if strings.Contains(lower, "permission denied (publickey)") ||
		strings.Contains(lower, "no such identity") ||
		strings.Contains(lower, "load key") ||
		strings.Contains(lower, "identity file") {
		return CauseSSHKey
	}

	if strings.Contains(lower, "host key verification failed") ||
		strings.Contains(lower, "known_hosts") {
		return CauseHostKey
	}

	if strings.Contains(lower, "could not read username") ||
		strings.Contains(lower, "could not read password") ||
		strings.Contains(lower, "invalid credentials") ||
		strings.Contains(lower, "authentication failed") ||
		strings.Contains(lower, "error: 401") ||
		strings.Contains(lower, "error: 403") ||
		strings.Contains(lower, "logon failed") {
		return CauseAuth
	}

	if strings.Contains(lower, "repository not found") ||
		strings.Contains(lower, "does not appear to be a git repository") ||
		strings.Contains(lower, "project not found") ||
		strings.Contains(lower, "not found") {
		return CauseRepoNotFound
	}

	if strings.Contains(lower, "could not resolve host") ||
		strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "connection timed out") ||
		strings.Contains(lower, "network is unreachable") ||
		strings.Contains(lower, "no route to host") ||
		strings.Contains(lower, "name or service not known") {
		return CauseNetwork
	}

	return CauseUnknown
}

func hintsForCause(cause CloneCause, protocol, url string) []string {
	switch cause {
	case CauseAuth:
		hints := []string{
			"Configure a git credential helper: `git config --global credential.helper store`",
			"Or authenticate with your forge's CLI, e.g. `gh auth login`",
		}
		if protocol == "https" {
			if sshURL := httpsToSSH(url); sshURL != "" {
				hints = append(hints, "Try SSH instead: "+sshURL)
			}
		}
		return hints

	case CauseSSHKey:
		hints := []string{
			"Ensure your SSH key is loaded: `ssh-add -l`",
			"If no keys are listed, add one: `ssh-add ~/.ssh/id_ed25519`",
		}
		if protocol == "ssh" {
			if httpsURL := sshToHTTPS(url); httpsURL != "" {
				hints = append(hints, "Try HTTPS instead: "+httpsURL)
			}
		}
		return hints

	case CauseHostKey:
		return []string{
			"The SSH host key is not trusted. Connect once manually with `ssh -T git@<host>` and accept it",
		}

	case CauseRepoNotFound:
		return []string{
			"Verify the repository URL is correct",
			"Ensure you have access to this repository (it may be private)",
		}

	case CauseNetwork:
		return []string{
			"Check your network connection and the hostname in the URL",
			"If behind a proxy, ensure git is configured to use it",
		}

	default:
		return []string{
			"Try cloning manually to diagnose the issue: `git clone <url>`",
		}
	}
}

func timeoutHints(timeout time.Duration) []string {
	return []string{
		fmt.Sprintf("The clone did not finish within %s", timeout),
		"Raise AGENTHUB_GIT_CLONE_TIMEOUT for very large repositories",
	}
}

func gitMissingHints() []string {
	return []string{
		"Install git: https://git-scm.com/downloads",
		"Ensure the git executable is on PATH",
	}
}

// httpsToSSH converts an HTTPS GitHub/GitLab URL to SSH form, or returns "".
func httpsToSSH(url string) string {
	for _, host := range []string{"github.com", "gitlab.com"} {
		prefix := "https://" + host + "/"
		if strings.HasPrefix(url, prefix) {
			path := strings.TrimPrefix(url, prefix)
			if !strings.HasSuffix(path, ".git") {
				path += ".git"
			}
			return "git@" + host + ":" + path
		}
	}
	return ""
}

// sshToHTTPS converts a GitHub/GitLab SSH URL to HTTPS form, or returns "".
func sshToHTTPS(url string) string {
	if !strings.HasPrefix(url, "git@") {
		return ""
	}
	parts := strings.SplitN(strings.TrimPrefix(url, "git@"), ":", 2)
	if len(parts) != 2 {
		return ""
	}
	switch parts[0] {
	case "github.com", "gitlab.com":
		return "https://" + parts[0] + "/" + parts[1]
	default:
		return ""
	}
}

// formatCommand renders a clone for display, leaving out the temp dir.
func formatCommand(url, ref string) string {
	args := []string{"git", "clone", "--depth", "1"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, url)
	return strings.Join(args, " ")
}
