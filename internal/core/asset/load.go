package asset

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// maxSkillFileSize caps individual files read into a skill package.
const maxSkillFileSize = 1 << 20

// LoadAgentPackage reads and validates an agent package from a YAML or JSON
// file.
func LoadAgentPackage(path string) (*AgentPackage, error) {
	var pkg AgentPackage
	if err := loadFile(path, &pkg); err != nil {
		return nil, err
	}
	if err := Validate(&pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// LoadMCPPackage reads and validates an MCP package from a YAML or JSON file.
func LoadMCPPackage(path string) (*MCPPackage, error) {
	var pkg MCPPackage
	if err := loadFile(path, &pkg); err != nil {
		return nil, err
	}
	if err := Validate(&pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// loadFile decodes path with yaml.v3, which also accepts JSON documents.
func loadFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ReadSkillDir collects the text files under dir into a skill package file
// map keyed by slash-separated relative path. VCS metadata, binary files and
// files larger than 1 MiB are left out.
func ReadSkillDir(dir string) (map[string]string, error) {
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxSkillFileSize {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if !isText(data) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading skill directory %s: %w", dir, err)
	}
	return files, nil
}

func isText(data []byte) bool {
	return utf8.Valid(data) && !bytes.ContainsRune(data, 0)
}
