package adapter

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Constructor builds an adapter anchored at roots.
type Constructor func(roots Roots) Adapter

var (
	mu           sync.RWMutex
	constructors = map[string]Constructor{}
)

// Register makes a tool available by name. Registering a name twice panics.
func Register(name string, c Constructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := constructors[name]; dup {
		panic("adapter: Register called twice for " + name)
	}
	constructors[name] = c
}

// Supported returns the registered tool names, sorted.
func Supported() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the adapter for tool. Unknown names fail with
// *UnsupportedToolError.
func Resolve(tool string, roots Roots) (Adapter, error) {
	mu.RLock()
	c, ok := constructors[tool]
	mu.RUnlock()
	if !ok {
		return nil, &UnsupportedToolError{Tool: tool, Supported: Supported()}
	}
	return c(roots), nil
}

// DetectInstalled returns the names of tools set up in the workspace.
func DetectInstalled(roots Roots) []string {
	var detected []string
	for _, name := range Supported() {
		a, err := Resolve(name, roots)
		if err == nil && a.IsInstalled() {
			detected = append(detected, name)
		}
	}
	return detected
}

// UnsupportedToolError is returned for a tool with no registered adapter.
type UnsupportedToolError struct {
	Tool      string
	Supported []string
}

func (e *UnsupportedToolError) Error() string {
	return fmt.Sprintf("unsupported tool %q; supported: %s", e.Tool, strings.Join(e.Supported, ", "))
}
