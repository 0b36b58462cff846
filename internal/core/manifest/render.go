package manifest

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Render produces descriptor text for m: the frontmatter header with the
// dedicated fields first and Extra as an explicit metadata block, then the
// body. Parse(Render(m)) yields the same name, description and version.
func Render(m *Metadata) (string, error) {
	if m == nil {
		return "", fmt.Errorf("metadata is nil")
	}

	header := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(key string, value any) error {
		valNode, err := encodeValue(value)
		if err != nil {
			return fmt.Errorf("encoding field %q: %w", key, err)
		}
		header.Content = append(header.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, valNode)
		return nil
	}

	fields := []struct {
		key   string
		value string
	}{
		{"name", m.Name},
		{"description", m.Description},
		{"version", m.Version},
		{"license", m.License},
		{"compatibility", m.Compatibility},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := add(f.key, f.value); err != nil {
			return "", err
		}
	}

	if len(m.Extra) > 0 {
		block := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		keys := make([]string, 0, len(m.Extra))
		for k := range m.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			valNode, err := encodeValue(m.Extra[k])
			if err != nil {
				return "", fmt.Errorf("encoding metadata %q: %w", k, err)
			}
			block.Content = append(block.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, valNode)
		}
		header.Content = append(header.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "metadata"}, block)
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(header); err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	buf.WriteString(delimiter + "\n")
	if m.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(m.Body)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// encodeValue converts a Go value to a yaml.Node via a marshal round trip.
func encodeValue(v any) (*yaml.Node, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0], nil
	}
	return &node, nil
}
