package asset

import (
	"sort"
)

// MCPServerConfig is one entry of a tool's mcpServers map. Stdio servers
// set Command; remote servers set URL.
type MCPServerConfig struct {
	Command     string            `json:"command,omitempty" yaml:"command,omitempty" validate:"required_without=URL,excluded_with=URL"`
	Args        []string          `json:"args" yaml:"args,omitempty"`
	Env         map[string]string `json:"env" yaml:"env,omitempty"`
	AutoApprove []string          `json:"autoApprove" yaml:"autoApprove,omitempty"`
	URL         string            `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
}

// IsStdio returns true if this server is launched as a local process.
func (c MCPServerConfig) IsStdio() bool { return c.Command != "" }

// Normalized returns a copy with empty collections instead of nil ones, so
// the written config always carries args, env and autoApprove.
func (c MCPServerConfig) Normalized() MCPServerConfig {
	if c.Args == nil {
		c.Args = []string{}
	}
	if c.Env == nil {
		c.Env = map[string]string{}
	}
	if c.AutoApprove == nil {
		c.AutoApprove = []string{}
	}
	return c
}

// EnvVarsNeeded lists the environment variable names the server expects,
// sorted.
func (c MCPServerConfig) EnvVarsNeeded() []string {
	names := make([]string, 0, len(c.Env))
	for k := range c.Env {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// MCPPackage is an MCP server ready for installation.
type MCPPackage struct {
	Name        string          `json:"name" yaml:"name" validate:"required,assetname"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string          `json:"version,omitempty" yaml:"version,omitempty"`
	Tags        []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	Transport   string          `json:"transport,omitempty" yaml:"transport,omitempty" validate:"omitempty,oneof=stdio sse streamable-http"`
	Config      MCPServerConfig `json:"config" yaml:"config"`
}

// Servers returns the package as a single-entry server map.
func (p *MCPPackage) Servers() map[string]MCPServerConfig {
	return map[string]MCPServerConfig{p.Name: p.Config}
}
