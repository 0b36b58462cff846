// Package asset defines the installable packages handed to tool adapters.
//
// A package is a self-contained, tool-agnostic description of something to
// install: a skill (a flat file tree), an MCP server (a connection config) or
// an agent (a prompt plus embedded skills and MCP servers). Packages are
// produced from catalog entries or loaded from local files and consumed
// read-only by adapters.
package asset

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Kind identifies an asset type.
type Kind string

const (
	KindSkill Kind = "skill"
	KindMCP   Kind = "mcp"
	KindAgent Kind = "agent"
)

// Kinds lists every asset kind in display order.
var Kinds = []Kind{KindSkill, KindMCP, KindAgent}

// ParseKind resolves a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown asset kind %q", s)
}

var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// MaxNameLength bounds asset names.
const MaxNameLength = 64

// ValidName reports whether name is usable as an asset name and as a
// directory name inside a tool layout.
func ValidName(name string) bool {
	return name != "" && len(name) <= MaxNameLength && namePattern.MatchString(name)
}

// validate caches struct metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("assetname", func(fl validator.FieldLevel) bool {
		return ValidName(fl.Field().String())
	})
	return v
}

// Validate checks a package against its struct tags.
func Validate(pkg any) error {
	if err := validate.Struct(pkg); err != nil {
		return fmt.Errorf("invalid package: %w", err)
	}
	return nil
}
