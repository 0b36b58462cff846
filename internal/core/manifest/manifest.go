// Package manifest parses and renders SKILL.md descriptors.
//
// A descriptor is a YAML frontmatter block delimited by "---" lines followed
// by a free-form Markdown body:
//
//	---
//	name: pdf-tools
//	description: Extract text and tables from PDF files.
//	version: 1.2.0
//	metadata:
//	  tags: [pdf, documents]
//	---
//	# PDF tools
//	...
//
// The package does no network access. ParseFile is the only function that
// touches the filesystem.
package manifest

import (
	"fmt"
	"regexp"
)

// FileName is the conventional descriptor file name.
const FileName = "SKILL.md"

const (
	maxNameLength        = 64
	maxDescriptionLength = 1024
)

var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// reservedKeys are header keys mapped to dedicated Metadata fields. Every
// other top-level key is folded into Metadata.Extra.
var reservedKeys = map[string]bool{
	"name":          true,
	"description":   true,
	"version":       true,
	"license":       true,
	"compatibility": true,
	"metadata":      true,
}

// Metadata is a validated descriptor. Name and Description are always set.
type Metadata struct {
	Name          string
	Description   string
	Version       string
	License       string
	Compatibility string

	// Extra holds the explicit metadata block merged with unrecognized
	// top-level header keys. Keys from the explicit block win.
	Extra map[string]any

	// Body is the trimmed text after the closing delimiter.
	Body string
}

// Tags returns the string items of Extra["tags"] when it is a list.
func (m *Metadata) Tags() []string {
	raw, ok := m.Extra["tags"].([]any)
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// ParseError describes why a descriptor was rejected.
type ParseError struct {
	Path   string // file the content came from, if any
	Line   int    // 1-based line in the descriptor, 0 when unknown
	Reason string
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	default:
		return e.Reason
	}
}

func parseErrorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Reason: fmt.Sprintf(format, args...)}
}
