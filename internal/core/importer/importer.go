// Package importer turns asset repositories into catalog entries.
//
// Bulk imports clone a repository, discover every skill manifest in it and
// insert the ones the catalog does not know yet. Malformed manifests and
// names already present are skipped; a failed fetch or a failing catalog
// store aborts the import. Direct publishes parse a single manifest or
// package and report a name conflict instead of skipping it.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/jief123/agenthub/internal/core/asset"
	"github.com/jief123/agenthub/internal/core/catalog"
	"github.com/jief123/agenthub/internal/core/manifest"
	"github.com/jief123/agenthub/internal/core/source"
)

//go:generate mockgen -destination=mocks/mock_importer.go -package=mocks -source=importer.go Fetcher,Catalog,Renderer

// Fetcher clones and inspects source repositories.
type Fetcher interface {
	Clone(ctx context.Context, url, ref string) (*source.WorkingTree, error)
	CommitHash(ctx context.Context, tree *source.WorkingTree) string
	Discover(tree *source.WorkingTree) ([]source.Candidate, error)
	Cleanup(tree *source.WorkingTree)
}

// Catalog is the entry store imports write to.
type Catalog interface {
	FindByName(ctx context.Context, kind asset.Kind, name string) (*catalog.Entry, error)
	Insert(ctx context.Context, e *catalog.Entry) error
	Exists(ctx context.Context, kind asset.Kind, name string) (bool, error)
}

// Renderer converts a manifest body to HTML.
type Renderer interface {
	Render(body string) (string, error)
}

// Importer creates catalog entries from repositories and package files.
type Importer struct {
	fetcher  Fetcher
	catalog  Catalog
	renderer Renderer
	logger   *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(i *Importer) { i.logger = l }
}

// New returns an Importer.
func New(fetcher Fetcher, catalog Catalog, renderer Renderer, opts ...Option) *Importer {
	i := &Importer{
		fetcher:  fetcher,
		catalog:  catalog,
		renderer: renderer,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportFromSource imports every new skill found in the default branch of
// url. It returns only the entries it created.
func (i *Importer) ImportFromSource(ctx context.Context, url, ownerID string) ([]*catalog.Entry, error) {
	return i.ImportFromSourceRef(ctx, url, "", ownerID)
}

// ImportFromSourceRef is ImportFromSource at a branch or tag. An empty ref
// means the remote's default branch.
func (i *Importer) ImportFromSourceRef(ctx context.Context, url, ref, ownerID string) ([]*catalog.Entry, error) {
	res, err := i.Import(ctx, url, ref, ownerID)
	if res == nil {
		return nil, err
	}
	return res.Created, err
}

// ImportResult is the outcome of one Import run.
type ImportResult struct {
	// Commit is the resolved commit of the fetched tree, empty when unknown.
	Commit  string
	Created []*catalog.Entry
}

// Import is ImportFromSourceRef that also reports the commit it fetched,
// whether or not any skill was created. On a fatal candidate error the
// result still holds the entries created before it.
func (i *Importer) Import(ctx context.Context, url, ref, ownerID string) (*ImportResult, error) {
	// 1. Fetch
	tree, err := i.fetcher.Clone(ctx, url, ref)
	if err != nil {
		return nil, err
	}
	defer i.fetcher.Cleanup(tree)

	// 2. Identify
	res := &ImportResult{
		Commit:  i.fetcher.CommitHash(ctx, tree),
		Created: []*catalog.Entry{},
	}

	// 3. Discover
	candidates, err := i.fetcher.Discover(tree)
	if err != nil {
		return res, fmt.Errorf("discovering skills in %s: %w", url, err)
	}
	i.logger.Debug("discovered skill candidates", "url", url, "count", len(candidates))

	// 4. Parse and insert, one candidate at a time
	for _, c := range candidates {
		entry, err := i.importCandidate(ctx, c, url, ref, res.Commit, ownerID)
		if err != nil {
			return res, err
		}
		if entry != nil {
			res.Created = append(res.Created, entry)
		}
	}

	i.logger.Info("import finished", "url", url, "commit", res.Commit,
		"candidates", len(candidates), "created", len(res.Created))
	return res, nil
}

// importCandidate returns (nil, nil) for a skipped candidate, including one
// whose name was taken between the existence check and the insert. Other
// errors are fatal to the whole import.
func (i *Importer) importCandidate(ctx context.Context, c source.Candidate, url, ref, commit, ownerID string) (*catalog.Entry, error) {
	meta, raw, err := readManifest(c.ManifestFile)
	if err != nil {
		i.logger.Warn("skipping invalid manifest", "path", c.Path, "error", err)
		return nil, nil
	}

	exists, err := i.catalog.Exists(ctx, asset.KindSkill, meta.Name)
	if err != nil {
		return nil, fmt.Errorf("checking skill %q: %w", meta.Name, err)
	}
	if exists {
		i.logger.Debug("skill already in catalog", "name", meta.Name, "path", c.Path)
		return nil, nil
	}

	html, err := i.renderer.Render(meta.Body)
	if err != nil {
		i.logger.Warn("skipping skill with unrenderable body", "name", meta.Name, "error", err)
		return nil, nil
	}

	entry := newSkillEntry(meta, raw, html)
	entry.Source = catalog.SourceExternal
	entry.GitURL = url
	entry.GitRef = ref
	entry.CommitHash = commit
	entry.Path = c.Path
	entry.OwnerID = ownerID

	if err := i.catalog.Insert(ctx, entry); err != nil {
		if errors.Is(err, catalog.ErrAlreadyExists) {
			i.logger.Debug("skill already in catalog", "name", meta.Name, "path", c.Path)
			return nil, nil
		}
		return nil, fmt.Errorf("inserting skill %q: %w", meta.Name, err)
	}
	i.logger.Debug("imported skill", "name", entry.Name, "path", c.Path)
	return entry, nil
}

// PublishRequest describes a single manifest to publish. The git fields are
// provenance recorded on the entry; nothing is fetched.
type PublishRequest struct {
	ManifestPath string
	GitURL       string
	GitRef       string
	CommitHash   string
	Path         string
	OwnerID      string
}

// Publish creates a skill entry from one manifest file. A name already in
// the catalog fails with an error wrapping catalog.ErrAlreadyExists.
func (i *Importer) Publish(ctx context.Context, req PublishRequest) (*catalog.Entry, error) {
	meta, raw, err := readManifest(req.ManifestPath)
	if err != nil {
		return nil, err
	}
	if err := i.ensureAbsent(ctx, asset.KindSkill, meta.Name); err != nil {
		return nil, err
	}
	html, err := i.renderer.Render(meta.Body)
	if err != nil {
		return nil, fmt.Errorf("rendering skill %q: %w", meta.Name, err)
	}

	entry := newSkillEntry(meta, raw, html)
	entry.Source = catalog.SourceLocal
	entry.GitURL = req.GitURL
	entry.GitRef = req.GitRef
	entry.CommitHash = req.CommitHash
	entry.Path = req.Path
	entry.OwnerID = req.OwnerID

	if err := i.catalog.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("publishing skill %q: %w", meta.Name, err)
	}
	i.logger.Info("published skill", "name", entry.Name)
	return entry, nil
}

// PublishMCP creates an MCP entry from a validated package.
func (i *Importer) PublishMCP(ctx context.Context, pkg *asset.MCPPackage, ownerID string) (*catalog.Entry, error) {
	if err := asset.Validate(pkg); err != nil {
		return nil, err
	}
	if err := i.ensureAbsent(ctx, asset.KindMCP, pkg.Name); err != nil {
		return nil, err
	}
	entry := &catalog.Entry{
		Kind:        asset.KindMCP,
		Name:        pkg.Name,
		Description: pkg.Description,
		Version:     pkg.Version,
		Tags:        pkg.Tags,
		Source:      catalog.SourceLocal,
		OwnerID:     ownerID,
		MCP:         pkg,
	}
	if err := i.catalog.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("publishing mcp %q: %w", pkg.Name, err)
	}
	i.logger.Info("published mcp", "name", entry.Name)
	return entry, nil
}

// PublishAgent creates an agent entry from a validated package.
func (i *Importer) PublishAgent(ctx context.Context, pkg *asset.AgentPackage, ownerID string) (*catalog.Entry, error) {
	if err := asset.Validate(pkg); err != nil {
		return nil, err
	}
	if err := i.ensureAbsent(ctx, asset.KindAgent, pkg.Name); err != nil {
		return nil, err
	}
	entry := &catalog.Entry{
		Kind:        asset.KindAgent,
		Name:        pkg.Name,
		Description: pkg.Description,
		Tags:        pkg.Tags,
		Source:      catalog.SourceLocal,
		OwnerID:     ownerID,
		Agent:       pkg,
	}
	if err := i.catalog.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("publishing agent %q: %w", pkg.Name, err)
	}
	i.logger.Info("published agent", "name", entry.Name,
		"skills", len(pkg.Skills), "mcps", len(pkg.MCPs))
	return entry, nil
}

// SkillPackage fetches the files of a skill entry at its recorded source.
func (i *Importer) SkillPackage(ctx context.Context, entry *catalog.Entry) (*asset.SkillPackage, error) {
	if entry.Kind != asset.KindSkill {
		return nil, fmt.Errorf("%s %q is not a skill", entry.Kind, entry.Name)
	}
	if entry.GitURL == "" {
		return nil, fmt.Errorf("skill %q has no source repository", entry.Name)
	}

	tree, err := i.fetcher.Clone(ctx, entry.GitURL, entry.GitRef)
	if err != nil {
		return nil, err
	}
	defer i.fetcher.Cleanup(tree)

	rel := path.Clean(entry.Path)
	if rel != "." {
		if rel, err = asset.CleanRelPath(rel); err != nil {
			return nil, fmt.Errorf("skill %q: %w", entry.Name, err)
		}
	}
	files, err := asset.ReadSkillDir(filepath.Join(tree.Dir, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("reading skill %q: %w", entry.Name, err)
	}
	if _, ok := files[manifest.FileName]; !ok {
		return nil, fmt.Errorf("skill %q: %s not found at %s", entry.Name, manifest.FileName, rel)
	}
	pkg := &asset.SkillPackage{Name: entry.Name, Description: entry.Description, Files: files}
	if err := asset.Validate(pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

func (i *Importer) ensureAbsent(ctx context.Context, kind asset.Kind, name string) error {
	exists, err := i.catalog.Exists(ctx, kind, name)
	if err != nil {
		return fmt.Errorf("checking %s %q: %w", kind, name, err)
	}
	if exists {
		return fmt.Errorf("%s %q: %w", kind, name, catalog.ErrAlreadyExists)
	}
	return nil
}

func readManifest(p string) (*manifest.Metadata, string, error) {
	meta, err := manifest.ParseFile(p)
	if err != nil {
		return nil, "", err
	}
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", p, err)
	}
	return meta, string(raw), nil
}

func newSkillEntry(meta *manifest.Metadata, raw, html string) *catalog.Entry {
	return &catalog.Entry{
		Kind:          asset.KindSkill,
		Name:          meta.Name,
		Description:   meta.Description,
		Version:       meta.Version,
		License:       meta.License,
		Tags:          meta.Tags(),
		ReadmeContent: raw,
		ReadmeHTML:    html,
	}
}

// IsConflict reports whether err is a name conflict from a publish.
func IsConflict(err error) bool {
	return errors.Is(err, catalog.ErrAlreadyExists)
}
