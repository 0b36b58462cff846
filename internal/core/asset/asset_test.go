package asset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"pdf-tools", true},
		{"a1", true},
		{"", false},
		{"Pdf", false},
		{"pdf_tools", false},
		{"../escape", false},
		{strings.Repeat("a", 64), true},
		{strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		if got := ValidName(tt.name); got != tt.want {
			t.Errorf("ValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("mcp")
	require.NoError(t, err)
	assert.Equal(t, KindMCP, k)

	_, err = ParseKind("rule")
	assert.Error(t, err)
}

func TestCleanRelPath(t *testing.T) {
	good := map[string]string{
		"SKILL.md":             "SKILL.md",
		"scripts/run.sh":       "scripts/run.sh",
		"./docs/../README.md":  "README.md",
		`templates\report.md`: "templates/report.md",
	}
	for in, want := range good {
		got, err := CleanRelPath(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "/etc/passwd", "../outside", "a/../../b", "."} {
		_, err := CleanRelPath(in)
		assert.Error(t, err, in)
	}
}

func TestValidate_Packages(t *testing.T) {
	t.Run("skill requires files", func(t *testing.T) {
		err := Validate(&SkillPackage{Name: "x"})
		assert.Error(t, err)
		assert.NoError(t, Validate(&SkillPackage{Name: "x", Files: map[string]string{"SKILL.md": "..."}}))
	})

	t.Run("mcp needs command or url", func(t *testing.T) {
		assert.Error(t, Validate(&MCPPackage{Name: "db"}))
		assert.NoError(t, Validate(&MCPPackage{Name: "db", Config: MCPServerConfig{Command: "uvx"}}))
		assert.NoError(t, Validate(&MCPPackage{Name: "db", Transport: "sse", Config: MCPServerConfig{URL: "https://mcp.example.com/sse"}}))
		assert.Error(t, Validate(&MCPPackage{Name: "db", Config: MCPServerConfig{Command: "uvx", URL: "https://mcp.example.com"}}))
		assert.Error(t, Validate(&MCPPackage{Name: "db", Transport: "carrier-pigeon", Config: MCPServerConfig{Command: "uvx"}}))
	})

	t.Run("agent dives into embedded assets", func(t *testing.T) {
		pkg := &AgentPackage{
			Name:   "reviewer",
			Prompt: "Review code.",
			Skills: []EmbeddedSkill{{Name: "Bad_Name", Files: map[string]string{"SKILL.md": "x"}}},
		}
		assert.Error(t, Validate(pkg))

		pkg.Skills[0].Name = "good-name"
		assert.NoError(t, Validate(pkg))

		pkg.Prompt = ""
		assert.Error(t, Validate(pkg))
	})
}

func TestMCPServerConfig_Normalized(t *testing.T) {
	c := MCPServerConfig{Command: "node"}.Normalized()
	assert.NotNil(t, c.Args)
	assert.NotNil(t, c.Env)
	assert.NotNil(t, c.AutoApprove)

	env := MCPServerConfig{Env: map[string]string{"TOKEN": "", "API_URL": ""}}
	assert.Equal(t, []string{"API_URL", "TOKEN"}, env.EnvVarsNeeded())
}

func TestLoadAgentPackage(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "agent.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`name: reviewer
prompt: You review pull requests.
embedded_skills:
  - name: style-guide
    files:
      SKILL.md: |
        ---
        name: style-guide
        description: House style.
        ---
embedded_mcps:
  - name: github
    config:
      command: gh-mcp
      env:
        GITHUB_TOKEN: ""
`), 0o644))

	pkg, err := LoadAgentPackage(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "reviewer", pkg.Name)
	assert.Equal(t, []string{"style-guide"}, pkg.SkillNames())
	assert.Equal(t, []string{"github"}, pkg.MCPNames())
	assert.Equal(t, "gh-mcp", pkg.MCPs[0].Config.Command)

	jsonPath := filepath.Join(dir, "agent.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "bare", "prompt": "hi"}`), 0o644))
	pkg, err = LoadAgentPackage(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "bare", pkg.Name)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("name: NoPrompt\n"), 0o644))
	_, err = LoadAgentPackage(invalid)
	assert.Error(t, err)
}

func TestReadSkillDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("skill"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "run.sh"), []byte("echo hi"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte{0x89, 'P', 'N', 'G', 0, 0}, 0o644))

	files, err := ReadSkillDir(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"SKILL.md":       "skill",
		"scripts/run.sh": "echo hi",
	}, files)
}
