// Package catalog stores registry entries and sync sources in a JSON file.
//
// The store is safe for concurrent use within a process and across
// processes: readers and writers serialize on an in-process mutex and an
// advisory file lock next to the catalog file. Writes replace the file
// atomically.
package catalog

import (
	"errors"
	"time"

	"github.com/jief123/agenthub/internal/core/asset"
)

var (
	// ErrAlreadyExists is returned when inserting a name that is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotFound is returned by lookups that match nothing.
	ErrNotFound = errors.New("not found")
)

// Entry sources.
const (
	SourceExternal = "external" // bulk-imported from a remote repository
	SourceLocal    = "local"    // published directly
)

// Entry is one catalog record. MCP and Agent are set only for their kinds.
type Entry struct {
	ID          string     `json:"id"`
	Kind        asset.Kind `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Version     string     `json:"version,omitempty"`
	License     string     `json:"license,omitempty"`
	Tags        []string   `json:"tags,omitempty"`

	Source     string `json:"source"`
	GitURL     string `json:"gitUrl,omitempty"`
	GitRef     string `json:"gitRef,omitempty"`
	CommitHash string `json:"commitHash,omitempty"`
	Path       string `json:"path,omitempty"`
	OwnerID    string `json:"ownerId,omitempty"`

	ReadmeContent string `json:"readmeContent,omitempty"`
	ReadmeHTML    string `json:"readmeHtml,omitempty"`

	MCP   *asset.MCPPackage   `json:"mcp,omitempty"`
	Agent *asset.AgentPackage `json:"agent,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SyncSource is a repository re-imported periodically.
type SyncSource struct {
	URL            string        `json:"url"`
	Ref            string        `json:"ref,omitempty"`
	OwnerID        string        `json:"ownerId,omitempty"`
	Interval       time.Duration `json:"interval"`
	Active         bool          `json:"active"`
	LastSyncedAt   time.Time     `json:"lastSyncedAt,omitempty"`
	LastCommitHash string        `json:"lastCommitHash,omitempty"`
	LastError      string        `json:"lastError,omitempty"`
}

// Due reports whether the source should be synced at now.
func (s *SyncSource) Due(now time.Time) bool {
	if !s.Active {
		return false
	}
	if s.LastSyncedAt.IsZero() || s.Interval <= 0 {
		return true
	}
	return !now.Before(s.LastSyncedAt.Add(s.Interval))
}

// document is the on-disk catalog layout.
type document struct {
	Skills  []*Entry      `json:"skills"`
	MCPs    []*Entry      `json:"mcps"`
	Agents  []*Entry      `json:"agents"`
	Sources []*SyncSource `json:"sources"`
}

func emptyDocument() *document {
	return &document{
		Skills:  []*Entry{},
		MCPs:    []*Entry{},
		Agents:  []*Entry{},
		Sources: []*SyncSource{},
	}
}

// entries returns a pointer to the slice holding kind, or nil for an unknown
// kind.
func (d *document) entries(kind asset.Kind) *[]*Entry {
	switch kind {
	case asset.KindSkill:
		return &d.Skills
	case asset.KindMCP:
		return &d.MCPs
	case asset.KindAgent:
		return &d.Agents
	}
	return nil
}
