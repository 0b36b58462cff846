package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/jief123/agenthub/internal/core/asset"
	"github.com/jief123/agenthub/internal/core/manifest"
)

// symlink is replaced in tests to exercise the copy fallback.
var symlink = os.Symlink

// cacheDir holds symlink targets, relative to the scope root.
const cacheDir = ".agenthub/cache"

// BaseAdapter implements Adapter from layout fields. Tools embed it and
// override what differs.
type BaseAdapter struct {
	name          string
	roots         Roots
	configDir     string // marker directory, e.g. ".kiro"
	skillsDir     string // relative to the scope root
	agentsDir     string
	mcpConfigPath string
	mcpConfigKey  string // JSON key holding servers, e.g. "mcpServers"
	resourceURI   string // agent resource that makes skills visible
	hint          string
}

func (b *BaseAdapter) Name() string            { return b.name }
func (b *BaseAdapter) PostInstallHint() string { return b.hint }

func (b *BaseAdapter) scopeRoot(scope Scope) string {
	if scope == ScopeGlobal {
		return b.roots.Home
	}
	return b.roots.Workspace
}

func (b *BaseAdapter) SkillsDir(scope Scope) string {
	return filepath.Join(b.scopeRoot(scope), filepath.FromSlash(b.skillsDir))
}

func (b *BaseAdapter) MCPConfigPath(scope Scope) string {
	return filepath.Join(b.scopeRoot(scope), filepath.FromSlash(b.mcpConfigPath))
}

func (b *BaseAdapter) AgentsDir(scope Scope) string {
	return filepath.Join(b.scopeRoot(scope), filepath.FromSlash(b.agentsDir))
}

func (b *BaseAdapter) cachePath(scope Scope, name string) string {
	return filepath.Join(b.scopeRoot(scope), filepath.FromSlash(cacheDir), name)
}

func (b *BaseAdapter) IsInstalled() bool {
	return dirExists(filepath.Join(b.roots.Workspace, b.configDir))
}

// --- Skills ---

// InstallSkill writes files under the skills directory as <name>/. An
// existing installation of the same name is replaced entirely.
func (b *BaseAdapter) InstallSkill(files map[string]string, name string, scope Scope, method Method) (string, error) {
	if !asset.ValidName(name) {
		return "", fmt.Errorf("invalid skill name %q", name)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("skill %q has no files", name)
	}
	cleaned, err := cleanFiles(files)
	if err != nil {
		return "", fmt.Errorf("skill %q: %w", name, err)
	}

	target := filepath.Join(b.SkillsDir(scope), name)

	if method == MethodCopy {
		if err := os.RemoveAll(target); err != nil {
			return "", fmt.Errorf("removing previous install of %s: %w", name, err)
		}
		if err := writeFiles(target, cleaned); err != nil {
			return "", fmt.Errorf("installing skill %s for %s: %w", name, b.name, err)
		}
		return target, nil
	}

	cache := b.cachePath(scope, name)
	if err := os.RemoveAll(cache); err != nil {
		return "", fmt.Errorf("resetting cache for %s: %w", name, err)
	}
	if err := writeFiles(cache, cleaned); err != nil {
		return "", fmt.Errorf("caching skill %s: %w", name, err)
	}
	absCache, err := filepath.Abs(cache)
	if err != nil {
		return "", fmt.Errorf("resolving cache path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("creating skill dir for %s: %w", b.name, err)
	}
	// RemoveAll removes a symlink itself, not its target.
	if err := os.RemoveAll(target); err != nil {
		return "", fmt.Errorf("removing previous install of %s: %w", name, err)
	}
	if err := symlink(absCache, target); err != nil {
		// Fall back to copy where links are unavailable.
		if copyErr := writeFiles(target, cleaned); copyErr != nil {
			return "", fmt.Errorf("symlink and copy both failed for %s: symlink: %w, copy: %v",
				name, err, copyErr)
		}
	}
	return target, nil
}

// RemoveSkill removes the installed skill and its cache entry.
func (b *BaseAdapter) RemoveSkill(name string, scope Scope) error {
	if !asset.ValidName(name) {
		return fmt.Errorf("invalid skill name %q", name)
	}
	target := filepath.Join(b.SkillsDir(scope), name)
	if !pathExists(target) {
		return fmt.Errorf("skill %q for %s: %w", name, b.name, ErrNotInstalled)
	}
	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("removing skill %s for %s: %w", name, b.name, err)
	}
	_ = os.RemoveAll(b.cachePath(scope, name))
	cleanupEmptyDir(b.SkillsDir(scope))
	return nil
}

// InstalledSkills lists skill directories holding a valid manifest, sorted by
// name. Directories with a missing or invalid manifest are skipped.
func (b *BaseAdapter) InstalledSkills(scope Scope) ([]InstalledSkill, error) {
	dir := b.SkillsDir(scope)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var result []InstalledSkill
	for _, entry := range entries {
		skillPath := filepath.Join(dir, entry.Name())
		// os.Stat follows symlinked installs.
		if !dirExists(skillPath) {
			continue
		}
		meta, err := manifest.ParseFile(filepath.Join(skillPath, manifest.FileName))
		if err != nil {
			continue
		}
		result = append(result, InstalledSkill{
			Name:        meta.Name,
			Description: meta.Description,
			Path:        skillPath,
			Linked:      entry.Type()&fs.ModeSymlink != 0,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// --- MCP ---

// InstallMCP merges servers into the scope's MCP config. Servers with the
// same name are replaced; every other key in the file is kept.
func (b *BaseAdapter) InstallMCP(servers map[string]asset.MCPServerConfig, scope Scope) error {
	if b.mcpConfigPath == "" {
		return fmt.Errorf("%s does not support MCP configuration", b.name)
	}
	configPath := b.MCPConfigPath(scope)

	root, err := b.loadConfig(configPath)
	if err != nil {
		return err
	}

	// Ensure the top-level config key object exists.
	topKeyPtr := "/" + jsonPointerEscape(b.mcpConfigKey)
	if root.Find(topKeyPtr) == nil {
		topKeyPatch := fmt.Sprintf(`[{"op":"add","path":%q,"value":{}}]`, topKeyPtr)
		if err := root.Patch([]byte(topKeyPatch)); err != nil {
			return fmt.Errorf("creating config key %q: %w", b.mcpConfigKey, err)
		}
	}

	names := make([]string, 0, len(servers))
	for name := range servers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "" {
			return fmt.Errorf("MCP server name is empty")
		}
		cfg := servers[name]
		if err := asset.Validate(cfg); err != nil {
			return fmt.Errorf("MCP server %q: %w", name, err)
		}
		value, err := json.Marshal(cfg.Normalized())
		if err != nil {
			return fmt.Errorf("encoding MCP server %q: %w", name, err)
		}

		entryPtr := topKeyPtr + "/" + jsonPointerEscape(name)
		op := "add"
		if root.Find(entryPtr) != nil {
			op = "replace"
		}
		patch := fmt.Sprintf(`[{"op":%q,"path":%q,"value":%s}]`, op, entryPtr, value)
		if err := root.Patch([]byte(patch)); err != nil {
			return fmt.Errorf("writing MCP entry %q: %w", name, err)
		}
	}

	return writeConfigFile(configPath, finalizeConfig(root))
}

// RemoveMCP deletes one server entry from the scope's MCP config.
func (b *BaseAdapter) RemoveMCP(name string, scope Scope) error {
	if b.mcpConfigPath == "" {
		return fmt.Errorf("%s does not support MCP configuration", b.name)
	}
	configPath := b.MCPConfigPath(scope)

	content, err := readConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	entryPtr := "/" + jsonPointerEscape(b.mcpConfigKey) + "/" + jsonPointerEscape(name)
	if content == "" {
		return fmt.Errorf("MCP server %q for %s: %w", name, b.name, ErrNotInstalled)
	}
	root, err := hujson.Parse([]byte(content))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", configPath, err)
	}
	if root.Find(entryPtr) == nil {
		return fmt.Errorf("MCP server %q for %s: %w", name, b.name, ErrNotInstalled)
	}

	patch := fmt.Sprintf(`[{"op":"remove","path":%q}]`, entryPtr)
	if err := root.Patch([]byte(patch)); err != nil {
		return fmt.Errorf("removing MCP entry: %w", err)
	}
	return writeConfigFile(configPath, finalizeConfig(&root))
}

// loadConfig parses the config at path. A missing or blank file is {}.
func (b *BaseAdapter) loadConfig(path string) (*hujson.Value, error) {
	content, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		content = "{}"
	}
	root, err := hujson.Parse([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if _, ok := root.Value.(*hujson.Object); !ok {
		return nil, fmt.Errorf("%s: top-level value must be an object", path)
	}
	return &root, nil
}

// --- Agents ---

// agentConfig is the tool-side agent definition.
type agentConfig struct {
	Name      string   `json:"name"`
	Prompt    string   `json:"prompt"`
	Resources []string `json:"resources"`
}

// InstallAgentConfig installs the embedded skills, then the embedded MCP
// servers, then writes the agent definition. Steps already applied stay
// applied when a later one fails.
func (b *BaseAdapter) InstallAgentConfig(pkg *asset.AgentPackage, scope Scope, method Method) (*InstallSummary, error) {
	summary := &InstallSummary{
		Tool:            b.name,
		SkillsInstalled: []string{},
		MCPsInstalled:   []string{},
	}
	if pkg == nil {
		return summary, fmt.Errorf("agent package is nil")
	}
	if err := asset.Validate(pkg); err != nil {
		return summary, err
	}

	// 1. Skills
	for _, s := range pkg.Skills {
		if _, err := b.InstallSkill(s.Files, s.Name, scope, method); err != nil {
			return summary, fmt.Errorf("installing skill %q: %w", s.Name, err)
		}
		summary.SkillsInstalled = append(summary.SkillsInstalled, s.Name)
	}

	// 2. MCP servers
	for _, m := range pkg.MCPs {
		if err := b.InstallMCP(map[string]asset.MCPServerConfig{m.Name: m.Config}, scope); err != nil {
			return summary, fmt.Errorf("installing MCP server %q: %w", m.Name, err)
		}
		summary.MCPsInstalled = append(summary.MCPsInstalled, m.Name)
	}

	// 3. Agent definition
	data, err := json.MarshalIndent(agentConfig{
		Name:      pkg.Name,
		Prompt:    pkg.Prompt,
		Resources: []string{b.resourceURI},
	}, "", "  ")
	if err != nil {
		return summary, fmt.Errorf("encoding agent config: %w", err)
	}
	agentFile := filepath.Join(b.AgentsDir(scope), pkg.Name+".json")
	if err := writeConfigFile(agentFile, append(data, '\n')); err != nil {
		return summary, fmt.Errorf("writing agent config: %w", err)
	}
	summary.AgentConfigPath = agentFile
	summary.Hints = b.PostInstallHint()
	return summary, nil
}
