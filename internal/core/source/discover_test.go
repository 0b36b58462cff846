package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func candidatePaths(cs []Candidate) []string {
	paths := make([]string, len(cs))
	for i, c := range cs {
		paths[i] = c.Path
	}
	return paths
}

func TestDiscover_PatternOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		".agents/skills/agent-skill/SKILL.md",
		".claude/skills/claude-skill/SKILL.md",
		".kiro/skills/kiro-skill/SKILL.md",
		"skills/b/SKILL.md",
		"skills/a/nested/deep/SKILL.md",
		"skills/SKILL.md",
		"SKILL.md",
	)

	got, err := Discover(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		".",
		"skills",
		"skills/a/nested/deep",
		"skills/b",
		".kiro/skills/kiro-skill",
		".claude/skills/claude-skill",
		".agents/skills/agent-skill",
	}, candidatePaths(got))

	for _, c := range got {
		assert.True(t, filepath.IsAbs(c.ManifestFile), c.ManifestFile)
		assert.FileExists(t, c.ManifestFile)
	}
}

func TestDiscover_IgnoresUnlistedLocations(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"docs/SKILL.md",
		"other/skills/x/SKILL.md",
		".git/skills/SKILL.md",
		"skills/x/README.md",
		"skills/node_modules/pkg/SKILL.md",
		".cursor/skills/x/SKILL.md",
	)

	got, err := Discover(root)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscover_EmptyTree(t *testing.T) {
	got, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDiscover_NilTree(t *testing.T) {
	_, err := New().Discover(nil)
	assert.Error(t, err)
}
