package asset

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// SkillPackage is a skill ready for installation: a flat map of
// slash-separated relative paths to file contents.
type SkillPackage struct {
	Name        string            `json:"name" yaml:"name" validate:"required,assetname"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Files       map[string]string `json:"files" yaml:"files" validate:"required,min=1"`
}

// Paths returns the package's file paths in sorted order.
func (p *SkillPackage) Paths() []string {
	paths := make([]string, 0, len(p.Files))
	for rel := range p.Files {
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return paths
}

// CleanRelPath normalizes a package file path and rejects paths that are
// absolute or would escape the install directory.
func CleanRelPath(rel string) (string, error) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	if rel == "" || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("invalid file path %q", rel)
	}
	cleaned := path.Clean(rel)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("file path %q escapes the skill directory", rel)
	}
	return cleaned, nil
}
