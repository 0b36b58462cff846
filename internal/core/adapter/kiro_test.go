package adapter

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jief123/agenthub/internal/core/asset"
)

func newTestKiro(t *testing.T) (*Kiro, Roots) {
	t.Helper()
	roots := Roots{Workspace: t.TempDir(), Home: t.TempDir()}
	return NewKiro(roots), roots
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, _ := filepath.Rel(dir, p)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", dir, err)
	}
	return files
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid JSON in %s: %v\n%s", path, err, data)
	}
	return out
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

func TestKiroPaths(t *testing.T) {
	k, roots := newTestKiro(t)

	tests := []struct {
		got, want string
	}{
		{k.SkillsDir(ScopeWorkspace), filepath.Join(roots.Workspace, ".kiro", "skills")},
		{k.SkillsDir(ScopeGlobal), filepath.Join(roots.Home, ".kiro", "skills")},
		{k.MCPConfigPath(ScopeWorkspace), filepath.Join(roots.Workspace, ".kiro", "settings", "mcp.json")},
		{k.MCPConfigPath(ScopeGlobal), filepath.Join(roots.Home, ".kiro", "settings", "mcp.json")},
		{k.AgentsDir(ScopeWorkspace), filepath.Join(roots.Workspace, ".kiro", "agents")},
		{k.AgentsDir(ScopeGlobal), filepath.Join(roots.Home, ".kiro", "agents")},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("path = %q, want %q", tt.got, tt.want)
		}
	}
	if k.Name() != "kiro" {
		t.Errorf("Name() = %q", k.Name())
	}
	if !strings.Contains(k.PostInstallHint(), "skill://.kiro/skills/**/SKILL.md") {
		t.Errorf("hint missing resource URI: %q", k.PostInstallHint())
	}
}

func TestKiroIsInstalled(t *testing.T) {
	k, roots := newTestKiro(t)
	if k.IsInstalled() {
		t.Fatal("expected not installed in an empty workspace")
	}
	if err := os.Mkdir(filepath.Join(roots.Workspace, ".kiro"), 0o755); err != nil {
		t.Fatal(err)
	}
	if !k.IsInstalled() {
		t.Fatal("expected installed once .kiro exists")
	}
}

// ---------------------------------------------------------------------------
// InstallSkill
// ---------------------------------------------------------------------------

func TestInstallSkill_CopyReplacesPreviousFiles(t *testing.T) {
	k, _ := newTestKiro(t)

	first := map[string]string{"SKILL.md": "v1", "old/notes.md": "stale"}
	if _, err := k.InstallSkill(first, "pdf", ScopeWorkspace, MethodCopy); err != nil {
		t.Fatalf("first install: %v", err)
	}

	second := map[string]string{"SKILL.md": "v2", "scripts/run.sh": "echo"}
	target, err := k.InstallSkill(second, "pdf", ScopeWorkspace, MethodCopy)
	if err != nil {
		t.Fatalf("second install: %v", err)
	}

	got := listFiles(t, target)
	want := []string{"SKILL.md", "scripts/run.sh"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
	data, _ := os.ReadFile(filepath.Join(target, "SKILL.md"))
	if string(data) != "v2" {
		t.Errorf("SKILL.md = %q, want v2", data)
	}
}

func TestInstallSkill_Symlink(t *testing.T) {
	k, roots := newTestKiro(t)

	files := map[string]string{"SKILL.md": "---\nname: pdf\ndescription: d\n---\n"}
	target, err := k.InstallSkill(files, "pdf", ScopeWorkspace, MethodSymlink)
	if err != nil {
		t.Fatalf("install: %v", err)
	}

	info, err := os.Lstat(target)
	if err != nil {
		t.Fatalf("lstat: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected %s to be a symlink", target)
	}
	dest, _ := os.Readlink(target)
	wantCache := filepath.Join(roots.Workspace, ".agenthub", "cache", "pdf")
	if dest != wantCache {
		t.Errorf("link target = %q, want %q", dest, wantCache)
	}

	// Reinstall with a different file set: the cache is reset.
	if _, err := k.InstallSkill(map[string]string{"SKILL.md": "v2"}, "pdf", ScopeWorkspace, MethodSymlink); err != nil {
		t.Fatalf("reinstall: %v", err)
	}
	if got := listFiles(t, wantCache); !reflect.DeepEqual(got, []string{"SKILL.md"}) {
		t.Errorf("cache files = %v", got)
	}
}

func TestInstallSkill_SymlinkReplacesCopiedDir(t *testing.T) {
	k, _ := newTestKiro(t)
	files := map[string]string{"SKILL.md": "x"}

	if _, err := k.InstallSkill(files, "pdf", ScopeWorkspace, MethodCopy); err != nil {
		t.Fatal(err)
	}
	target, err := k.InstallSkill(files, "pdf", ScopeWorkspace, MethodSymlink)
	if err != nil {
		t.Fatal(err)
	}
	info, _ := os.Lstat(target)
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("expected the copied directory to be replaced by a symlink")
	}
}

func TestInstallSkill_SymlinkFallsBackToCopy(t *testing.T) {
	orig := symlink
	symlink = func(string, string) error { return errors.New("links not supported") }
	t.Cleanup(func() { symlink = orig })

	k, _ := newTestKiro(t)
	files := map[string]string{"SKILL.md": "x", "scripts/run.sh": "echo"}
	target, err := k.InstallSkill(files, "pdf", ScopeWorkspace, MethodSymlink)
	if err != nil {
		t.Fatalf("install: %v", err)
	}

	info, err := os.Lstat(target)
	if err != nil {
		t.Fatalf("lstat: %v", err)
	}
	if info.Mode()&os.ModeSymlink != 0 || !info.IsDir() {
		t.Fatalf("expected %s to be a plain directory, mode %v", target, info.Mode())
	}
	want := []string{"SKILL.md", "scripts/run.sh"}
	if got := listFiles(t, target); !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
}

func TestInstallSkill_GlobalScope(t *testing.T) {
	k, roots := newTestKiro(t)
	target, err := k.InstallSkill(map[string]string{"SKILL.md": "x"}, "pdf", ScopeGlobal, MethodCopy)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(target, roots.Home) {
		t.Errorf("target %q not under home %q", target, roots.Home)
	}
}

func TestInstallSkill_Rejects(t *testing.T) {
	k, roots := newTestKiro(t)

	tests := []struct {
		name    string
		skill   string
		files   map[string]string
		wantErr string
	}{
		{"bad name", "../evil", map[string]string{"SKILL.md": "x"}, "invalid skill name"},
		{"no files", "empty", nil, "has no files"},
		{"absolute path", "abs", map[string]string{"/etc/passwd": "x"}, "invalid file path"},
		{"escaping path", "esc", map[string]string{"../../outside.txt": "x"}, "escapes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := k.InstallSkill(tt.files, tt.skill, ScopeWorkspace, MethodCopy)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(roots.Workspace, "outside.txt")); err == nil {
		t.Error("escaping file was written")
	}
}

// ---------------------------------------------------------------------------
// InstallMCP
// ---------------------------------------------------------------------------

func TestInstallMCP_MergeKeepsOtherEntries(t *testing.T) {
	k, _ := newTestKiro(t)
	path := k.MCPConfigPath(ScopeWorkspace)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	existing := `{
  // user comment
  "mcpServers": {
    "serverB": {"command": "b"},
  },
  "unrelated": true
}`
	if err := os.WriteFile(path, []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	err := k.InstallMCP(map[string]asset.MCPServerConfig{
		"serverA": {Command: "uvx", Args: []string{"server-a"}, Env: map[string]string{"TOKEN": "x"}},
	}, ScopeWorkspace)
	if err != nil {
		t.Fatalf("InstallMCP: %v", err)
	}

	cfg := readJSON(t, path)
	if cfg["unrelated"] != true {
		t.Errorf("unrelated key lost: %v", cfg)
	}
	servers := cfg["mcpServers"].(map[string]any)
	if _, ok := servers["serverB"]; !ok {
		t.Error("serverB was removed")
	}
	a, ok := servers["serverA"].(map[string]any)
	if !ok {
		t.Fatalf("serverA missing: %v", servers)
	}
	if a["command"] != "uvx" {
		t.Errorf("serverA.command = %v", a["command"])
	}
	if aa, ok := a["autoApprove"].([]any); !ok || len(aa) != 0 {
		t.Errorf("serverA.autoApprove = %v, want []", a["autoApprove"])
	}
}

func TestInstallMCP_ReplacesSameName(t *testing.T) {
	k, _ := newTestKiro(t)

	for _, cmd := range []string{"old", "new"} {
		if err := k.InstallMCP(map[string]asset.MCPServerConfig{"db": {Command: cmd}}, ScopeWorkspace); err != nil {
			t.Fatal(err)
		}
	}
	cfg := readJSON(t, k.MCPConfigPath(ScopeWorkspace))
	db := cfg["mcpServers"].(map[string]any)["db"].(map[string]any)
	if db["command"] != "new" {
		t.Errorf("command = %v, want new", db["command"])
	}
}

func TestInstallMCP_EmptyFileStartsFresh(t *testing.T) {
	k, _ := newTestKiro(t)
	path := k.MCPConfigPath(ScopeWorkspace)
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	_ = os.WriteFile(path, []byte("  \n"), 0o644)

	if err := k.InstallMCP(map[string]asset.MCPServerConfig{"x": {URL: "https://mcp.example.com"}}, ScopeWorkspace); err != nil {
		t.Fatal(err)
	}
	cfg := readJSON(t, path)
	x := cfg["mcpServers"].(map[string]any)["x"].(map[string]any)
	if x["url"] != "https://mcp.example.com" {
		t.Errorf("url = %v", x["url"])
	}
	if _, ok := x["command"]; ok {
		t.Error("remote server should not carry a command")
	}
}

func TestInstallMCP_InvalidConfig(t *testing.T) {
	k, _ := newTestKiro(t)
	err := k.InstallMCP(map[string]asset.MCPServerConfig{"x": {}}, ScopeWorkspace)
	if err == nil {
		t.Fatal("expected error for a server without command or url")
	}
	if _, statErr := os.Stat(k.MCPConfigPath(ScopeWorkspace)); statErr == nil {
		t.Error("config written despite invalid server")
	}
}

func TestRemoveMCP(t *testing.T) {
	k, _ := newTestKiro(t)
	servers := map[string]asset.MCPServerConfig{"a": {Command: "a"}, "b": {Command: "b"}}
	if err := k.InstallMCP(servers, ScopeWorkspace); err != nil {
		t.Fatal(err)
	}
	if err := k.RemoveMCP("a", ScopeWorkspace); err != nil {
		t.Fatalf("RemoveMCP: %v", err)
	}
	cfg := readJSON(t, k.MCPConfigPath(ScopeWorkspace))
	got := cfg["mcpServers"].(map[string]any)
	if _, ok := got["a"]; ok {
		t.Error("a still present")
	}
	if _, ok := got["b"]; !ok {
		t.Error("b removed")
	}
	if err := k.RemoveMCP("a", ScopeWorkspace); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("second remove error = %v, want ErrNotInstalled", err)
	}
}

// ---------------------------------------------------------------------------
// InstallAgentConfig
// ---------------------------------------------------------------------------

func testAgent() *asset.AgentPackage {
	return &asset.AgentPackage{
		Name:   "reviewer",
		Prompt: "Review pull requests.",
		Skills: []asset.EmbeddedSkill{
			{Name: "lint", Files: map[string]string{"SKILL.md": "lint"}},
			{Name: "diff", Files: map[string]string{"SKILL.md": "diff"}},
		},
		MCPs: []asset.EmbeddedMCP{
			{Name: "github", Config: asset.MCPServerConfig{Command: "npx", Args: []string{"server-github"}}},
		},
	}
}

func TestInstallAgentConfig(t *testing.T) {
	k, roots := newTestKiro(t)

	summary, err := k.InstallAgentConfig(testAgent(), ScopeWorkspace, MethodCopy)
	if err != nil {
		t.Fatalf("InstallAgentConfig: %v", err)
	}
	if !reflect.DeepEqual(summary.SkillsInstalled, []string{"lint", "diff"}) {
		t.Errorf("SkillsInstalled = %v", summary.SkillsInstalled)
	}
	if !reflect.DeepEqual(summary.MCPsInstalled, []string{"github"}) {
		t.Errorf("MCPsInstalled = %v", summary.MCPsInstalled)
	}
	if summary.Tool != "kiro" || summary.Hints == "" {
		t.Errorf("summary = %+v", summary)
	}

	wantPath := filepath.Join(roots.Workspace, ".kiro", "agents", "reviewer.json")
	if summary.AgentConfigPath != wantPath {
		t.Errorf("AgentConfigPath = %q, want %q", summary.AgentConfigPath, wantPath)
	}
	data, _ := os.ReadFile(wantPath)
	if !strings.Contains(string(data), "\n  \"prompt\"") {
		t.Errorf("agent config not indented with two spaces:\n%s", data)
	}
	cfg := readJSON(t, wantPath)
	if cfg["name"] != "reviewer" || cfg["prompt"] != "Review pull requests." {
		t.Errorf("agent config = %v", cfg)
	}
	res := cfg["resources"].([]any)
	if len(res) != 1 || res[0] != "skill://.kiro/skills/**/SKILL.md" {
		t.Errorf("resources = %v", res)
	}
}

func TestInstallAgentConfig_PartialFailure(t *testing.T) {
	k, roots := newTestKiro(t)

	pkg := testAgent()
	// A file where the MCP settings directory should be makes the MCP step fail.
	if err := os.MkdirAll(filepath.Join(roots.Workspace, ".kiro"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(roots.Workspace, ".kiro", "settings"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := k.InstallAgentConfig(pkg, ScopeWorkspace, MethodCopy)
	if err == nil {
		t.Fatal("expected error")
	}
	if summary == nil {
		t.Fatal("summary must be returned with the error")
	}
	if !reflect.DeepEqual(summary.SkillsInstalled, []string{"lint", "diff"}) {
		t.Errorf("SkillsInstalled = %v", summary.SkillsInstalled)
	}
	if len(summary.MCPsInstalled) != 0 {
		t.Errorf("MCPsInstalled = %v, want none", summary.MCPsInstalled)
	}
	if summary.AgentConfigPath != "" {
		t.Error("agent config should not be written")
	}
	// Skills applied before the failure stay applied.
	if _, err := os.Stat(filepath.Join(k.SkillsDir(ScopeWorkspace), "lint", "SKILL.md")); err != nil {
		t.Errorf("lint skill missing: %v", err)
	}
}

func TestInstallAgentConfig_Invalid(t *testing.T) {
	k, _ := newTestKiro(t)
	summary, err := k.InstallAgentConfig(&asset.AgentPackage{Name: "no-prompt"}, ScopeWorkspace, MethodCopy)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if summary == nil || len(summary.SkillsInstalled) != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

// ---------------------------------------------------------------------------
// Remove and list
// ---------------------------------------------------------------------------

func TestRemoveSkill(t *testing.T) {
	k, roots := newTestKiro(t)
	files := map[string]string{"SKILL.md": "---\nname: pdf\ndescription: PDF tools\n---\n"}
	if _, err := k.InstallSkill(files, "pdf", ScopeWorkspace, MethodSymlink); err != nil {
		t.Fatal(err)
	}

	if err := k.RemoveSkill("pdf", ScopeWorkspace); err != nil {
		t.Fatalf("RemoveSkill: %v", err)
	}
	if pathExists(filepath.Join(k.SkillsDir(ScopeWorkspace), "pdf")) {
		t.Error("skill link still present")
	}
	if pathExists(filepath.Join(roots.Workspace, ".agenthub", "cache", "pdf")) {
		t.Error("cache entry still present")
	}
	if err := k.RemoveSkill("pdf", ScopeWorkspace); !errors.Is(err, ErrNotInstalled) {
		t.Errorf("error = %v, want ErrNotInstalled", err)
	}
}

func TestInstalledSkills(t *testing.T) {
	k, _ := newTestKiro(t)
	mk := func(name string) map[string]string {
		return map[string]string{"SKILL.md": "---\nname: " + name + "\ndescription: about " + name + "\n---\n"}
	}
	if _, err := k.InstallSkill(mk("zeta"), "zeta", ScopeWorkspace, MethodCopy); err != nil {
		t.Fatal(err)
	}
	if _, err := k.InstallSkill(mk("alpha"), "alpha", ScopeWorkspace, MethodSymlink); err != nil {
		t.Fatal(err)
	}
	if _, err := k.InstallSkill(map[string]string{"README.md": "no manifest"}, "junk", ScopeWorkspace, MethodCopy); err != nil {
		t.Fatal(err)
	}

	got, err := k.InstalledSkills(ScopeWorkspace)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d skills, want 2: %+v", len(got), got)
	}
	if got[0].Name != "alpha" || !got[0].Linked {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Name != "zeta" || got[1].Linked || got[1].Description != "about zeta" {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestInstalledSkills_NoDirectory(t *testing.T) {
	k, _ := newTestKiro(t)
	got, err := k.InstalledSkills(ScopeGlobal)
	if err != nil || len(got) != 0 {
		t.Errorf("InstalledSkills = %v, %v", got, err)
	}
}
