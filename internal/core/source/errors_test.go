package source

import (
	"errors"
	"testing"
	"time"
)

func TestClassifyOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   CloneCause
	}{
		{
			name:   "https could not read username",
			output: "fatal: could not read Username for 'https://github.com': terminal prompts disabled",
			want:   CauseAuth,
		},
		{
			name:   "https authentication failed",
			output: "fatal: Authentication failed for 'https://github.com/owner/repo.git/'",
			want:   CauseAuth,
		},
		{
			name:   "https 403",
			output: "fatal: unable to access 'https://github.com/owner/repo.git/': The requested URL returned error: 403",
			want:   CauseAuth,
		},
		{
			name:   "ssh permission denied publickey",
			output: "git@github.com: Permission denied (publickey).\nfatal: Could not read from remote repository.",
			want:   CauseSSHKey,
		},
		{
			name:   "ssh host key verification failed",
			output: "Host key verification failed.\nfatal: Could not read from remote repository.",
			want:   CauseHostKey,
		},
		{
			name:   "repository not found",
			output: "remote: Repository not found.\nfatal: repository 'https://github.com/owner/nope.git/' not found",
			want:   CauseRepoNotFound,
		},
		{
			name:   "local path is not a repository",
			output: "fatal: repository '/tmp/nothing' does not exist",
			want:   CauseUnknown,
		},
		{
			name:   "dns failure",
			output: "fatal: unable to access 'https://gitlab.invalid/x.git/': Could not resolve host: gitlab.invalid",
			want:   CauseNetwork,
		},
		{
			name:   "tcp connect timeout is a network error",
			output: "ssh: connect to host example.com port 22: Connection timed out",
			want:   CauseNetwork,
		},
		{
			name:   "unclassified",
			output: "fatal: something unexpected happened",
			want:   CauseUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyOutput(tt.output); got != tt.want {
				t.Errorf("classifyOutput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyClone_Hints(t *testing.T) {
	fe := classifyClone("https://github.com/owner/repo.git", "git clone https://github.com/owner/repo.git",
		"fatal: could not read Username for 'https://github.com': terminal prompts disabled", errors.New("exit status 128"))

	if fe.Protocol != "https" {
		t.Errorf("Protocol = %q, want https", fe.Protocol)
	}
	found := false
	for _, h := range fe.Hints {
		if h == "Try SSH instead: git@github.com:owner/repo.git" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected SSH suggestion in hints, got %v", fe.Hints)
	}
	if !fe.Unreachable() {
		t.Error("auth failures should count as unreachable")
	}
}

func TestFetchError_Messages(t *testing.T) {
	tests := []struct {
		err  *FetchError
		want string
	}{
		{
			err:  &FetchError{Kind: FetchTimeout, URL: "https://x/y.git", Timeout: time.Minute},
			want: "could not reach source https://x/y.git: git clone timed out after 1m0s",
		},
		{
			err:  &FetchError{Kind: FetchGitMissing},
			want: "git is not installed or not in PATH",
		},
		{
			err:  &FetchError{Kind: FetchFailed, Cause: CauseUnknown, Output: "Cloning into 'x'...\nfatal: boom"},
			want: "git clone failed (Unknown Error): fatal: boom",
		},
		{
			err:  &FetchError{Kind: FetchFailed, Cause: CauseNetwork, URL: "https://x/y.git", Output: "fatal: Could not resolve host: x"},
			want: "could not reach source https://x/y.git (Network Error): fatal: Could not resolve host: x",
		},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestProtocolConversion(t *testing.T) {
	if got := httpsToSSH("https://gitlab.com/group/repo"); got != "git@gitlab.com:group/repo.git" {
		t.Errorf("httpsToSSH() = %q", got)
	}
	if got := httpsToSSH("https://git.internal/org/repo.git"); got != "" {
		t.Errorf("httpsToSSH() for unknown host = %q, want empty", got)
	}
	if got := sshToHTTPS("git@github.com:owner/repo.git"); got != "https://github.com/owner/repo.git" {
		t.Errorf("sshToHTTPS() = %q", got)
	}
	if got := detectProtocol("ssh://git@host/repo.git"); got != "ssh" {
		t.Errorf("detectProtocol() = %q, want ssh", got)
	}
}
