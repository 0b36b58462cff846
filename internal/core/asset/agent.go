package asset

// EmbeddedSkill is a skill carried inside an agent package.
type EmbeddedSkill struct {
	Name        string            `json:"name" yaml:"name" validate:"required,assetname"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Files       map[string]string `json:"files" yaml:"files" validate:"required,min=1"`
}

// Package converts the embedded skill to a standalone skill package.
func (s EmbeddedSkill) Package() *SkillPackage {
	return &SkillPackage{Name: s.Name, Description: s.Description, Files: s.Files}
}

// EmbeddedMCP is an MCP server carried inside an agent package.
type EmbeddedMCP struct {
	Name   string          `json:"name" yaml:"name" validate:"required,assetname"`
	Config MCPServerConfig `json:"config" yaml:"config"`
}

// AgentPackage is a composite install: the agent's own config plus every
// skill and MCP server it depends on.
type AgentPackage struct {
	Name        string          `json:"name" yaml:"name" validate:"required,assetname"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	Prompt      string          `json:"prompt" yaml:"prompt" validate:"required"`
	Skills      []EmbeddedSkill `json:"embedded_skills,omitempty" yaml:"embedded_skills,omitempty" validate:"dive"`
	MCPs        []EmbeddedMCP   `json:"embedded_mcps,omitempty" yaml:"embedded_mcps,omitempty" validate:"dive"`
}

// SkillNames returns the embedded skill names in package order.
func (p *AgentPackage) SkillNames() []string {
	names := make([]string, len(p.Skills))
	for i, s := range p.Skills {
		names[i] = s.Name
	}
	return names
}

// MCPNames returns the embedded MCP server names in package order.
func (p *AgentPackage) MCPNames() []string {
	names := make([]string, len(p.MCPs))
	for i, m := range p.MCPs {
		names[i] = m.Name
	}
	return names
}
