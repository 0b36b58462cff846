// Package adapter installs asset packages into developer-tool layouts.
//
// An Adapter knows where one tool keeps skills, MCP server configuration and
// agent definitions, for a workspace or for the user's home directory. Each
// tool is a struct embedding BaseAdapter that registers its constructor in
// init. Installs overwrite what they replace and never roll back.
package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jief123/agenthub/internal/core/asset"
)

// ErrNotInstalled is returned when removing something that is not there.
var ErrNotInstalled = errors.New("not installed")

// Scope selects the root a layout is resolved against.
type Scope string

const (
	ScopeWorkspace Scope = "workspace"
	ScopeGlobal    Scope = "global"
)

// ParseScope converts a flag value to a Scope. Empty means workspace.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeWorkspace:
		return ScopeWorkspace, nil
	case ScopeGlobal:
		return ScopeGlobal, nil
	}
	return "", fmt.Errorf("invalid scope %q: must be %s or %s", s, ScopeWorkspace, ScopeGlobal)
}

// Method selects how skill files land in the tool layout.
type Method string

const (
	// MethodSymlink writes files to a cache and links the skill directory to it.
	MethodSymlink Method = "symlink"
	// MethodCopy writes files directly into the skill directory.
	MethodCopy Method = "copy"
)

// ParseMethod converts a flag value to a Method. Empty means symlink.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodSymlink:
		return MethodSymlink, nil
	case MethodCopy:
		return MethodCopy, nil
	}
	return "", fmt.Errorf("invalid install method %q: must be %s or %s", s, MethodSymlink, MethodCopy)
}

// Roots anchors the two scopes.
type Roots struct {
	Workspace string
	Home      string
}

// DefaultRoots returns roots for workspace (made absolute) and the current
// user's home directory.
func DefaultRoots(workspace string) (Roots, error) {
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return Roots{}, fmt.Errorf("resolving workspace: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Roots{}, fmt.Errorf("resolving home directory: %w", err)
	}
	return Roots{Workspace: abs, Home: home}, nil
}

// InstallSummary reports what a composite install applied.
type InstallSummary struct {
	Tool            string   `json:"tool"`
	SkillsInstalled []string `json:"skillsInstalled"`
	MCPsInstalled   []string `json:"mcpsInstalled"`
	AgentConfigPath string   `json:"agentConfigPath,omitempty"`
	Hints           string   `json:"hints,omitempty"`
}

// InstalledSkill is a skill found in a tool's skills directory.
type InstalledSkill struct {
	Name        string
	Description string
	Path        string
	Linked      bool // installed with MethodSymlink
}

// Adapter installs packages for one tool.
type Adapter interface {
	Name() string

	// Paths
	SkillsDir(scope Scope) string
	MCPConfigPath(scope Scope) string
	AgentsDir(scope Scope) string

	// Install returns the skill's target directory.
	InstallSkill(files map[string]string, name string, scope Scope, method Method) (string, error)
	InstallMCP(servers map[string]asset.MCPServerConfig, scope Scope) error
	// InstallAgentConfig returns the summary built so far even on error.
	InstallAgentConfig(pkg *asset.AgentPackage, scope Scope, method Method) (*InstallSummary, error)

	RemoveSkill(name string, scope Scope) error
	RemoveMCP(name string, scope Scope) error
	InstalledSkills(scope Scope) ([]InstalledSkill, error)

	PostInstallHint() string
	// IsInstalled reports whether the tool is set up in the workspace.
	IsInstalled() bool
}
