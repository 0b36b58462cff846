package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// headerOffset converts a line inside the header block to a descriptor line:
// the header starts right after the opening delimiter on line 1.
const headerOffset = 1

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// ParseFile reads and parses the descriptor at path.
func ParseFile(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ParseError{Path: path, Reason: "file not found: " + path}
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	m, err := Parse(string(data))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Parse validates content and returns its metadata. Every failure is a
// *ParseError.
func Parse(content string) (*Metadata, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, parseErrorf(0, "SKILL.md is empty")
	}

	header, body, ok := splitFrontmatter(content)
	if !ok {
		return nil, parseErrorf(1, "must start with YAML frontmatter (--- delimiters)")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(header), &doc); err != nil {
		return nil, parseErrorf(yamlErrorLine(err), "invalid YAML in frontmatter: %v", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, parseErrorf(2, "frontmatter must be a YAML mapping")
	}
	root := doc.Content[0]

	var fields map[string]any
	if err := root.Decode(&fields); err != nil {
		return nil, parseErrorf(yamlErrorLine(err), "invalid YAML in frontmatter: %v", err)
	}

	name, err := requiredString(root, fields, "name")
	if err != nil {
		return nil, err
	}
	if len(name) > maxNameLength {
		return nil, parseErrorf(fieldLine(root, "name"),
			"name must be at most %d characters (got %d)", maxNameLength, len(name))
	}
	if !namePattern.MatchString(name) {
		return nil, parseErrorf(fieldLine(root, "name"),
			"name must contain only lowercase letters, digits and hyphens: %q", name)
	}

	description, err := requiredString(root, fields, "description")
	if err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(description); n > maxDescriptionLength {
		return nil, parseErrorf(fieldLine(root, "description"),
			"description must be at most %d characters (got %d)", maxDescriptionLength, n)
	}

	extra := make(map[string]any)
	if raw, ok := fields["metadata"]; ok && raw != nil {
		block, ok := raw.(map[string]any)
		if !ok {
			return nil, parseErrorf(fieldLine(root, "metadata"), "metadata must be a mapping")
		}
		for k, v := range block {
			extra[k] = v
		}
	}
	for k, v := range fields {
		if reservedKeys[k] {
			continue
		}
		if _, exists := extra[k]; exists {
			continue
		}
		extra[k] = v
	}

	return &Metadata{
		Name:          name,
		Description:   description,
		Version:       scalarString(root, fields, "version"),
		License:       scalarString(root, fields, "license"),
		Compatibility: scalarString(root, fields, "compatibility"),
		Extra:         extra,
		Body:          strings.TrimSpace(body),
	}, nil
}

// splitFrontmatter separates the header block from the body. content must
// already be trimmed.
func splitFrontmatter(content string) (header, body string, ok bool) {
	lines := strings.Split(content, "\n")
	if strings.TrimSpace(lines[0]) != delimiter {
		return "", "", false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t\r") == delimiter {
			header = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return header, body, true
		}
	}
	return "", "", false
}

func requiredString(root *yaml.Node, fields map[string]any, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || raw == nil {
		return "", parseErrorf(0, "missing required field: %s", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", parseErrorf(fieldLine(root, key), "%s must be a string", key)
	}
	if s == "" {
		return "", parseErrorf(fieldLine(root, key), "missing required field: %s", key)
	}
	return s, nil
}

// scalarString returns the field as written in the header, so "version: 1.0"
// stays "1.0" instead of going through a float.
func scalarString(root *yaml.Node, fields map[string]any, key string) string {
	if n := valueNode(root, key); n != nil && n.Kind == yaml.ScalarNode {
		if n.Tag == "!!null" {
			return ""
		}
		return n.Value
	}
	if v, ok := fields[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return ""
}

func valueNode(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func fieldLine(mapping *yaml.Node, key string) int {
	if n := valueNode(mapping, key); n != nil && n.Line > 0 {
		return n.Line + headerOffset
	}
	return 0
}

func yamlErrorLine(err error) int {
	m := yamlLinePattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return n + headerOffset
}
