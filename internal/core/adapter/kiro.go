package adapter

// Kiro installs into the Kiro IDE and CLI layout under .kiro/.
type Kiro struct {
	BaseAdapter
}

// NewKiro creates a Kiro adapter anchored at roots.
func NewKiro(roots Roots) *Kiro {
	return &Kiro{BaseAdapter{
		name:          "kiro",
		roots:         roots,
		configDir:     ".kiro",
		skillsDir:     ".kiro/skills",
		agentsDir:     ".kiro/agents",
		mcpConfigPath: ".kiro/settings/mcp.json",
		mcpConfigKey:  "mcpServers",
		resourceURI:   "skill://.kiro/skills/**/SKILL.md",
		hint: "Kiro IDE: skills installed, the IDE will auto-discover them.\n" +
			"Kiro CLI: add to agent resources: \"skill://.kiro/skills/**/SKILL.md\"",
	}}
}

func init() {
	Register("kiro", func(roots Roots) Adapter { return NewKiro(roots) })
}
