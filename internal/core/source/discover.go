package source

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/gobwas/glob"

	"github.com/jief123/agenthub/internal/core/manifest"
)

// Candidate is a manifest found in a working tree.
type Candidate struct {
	// Path is the slash-separated directory holding the manifest, relative
	// to the tree root. The root itself is ".".
	Path string
	// ManifestFile is the absolute manifest location.
	ManifestFile string
}

// DiscoveryPatterns are matched in order against tree-relative paths. Each
// nested pattern also matches a manifest directly under its prefix.
var DiscoveryPatterns = []string{
	manifest.FileName,
	nestedPattern("skills"),
	nestedPattern(".kiro/skills"),
	nestedPattern(".claude/skills"),
	nestedPattern(".agents/skills"),
}

var discoveryGlobs = compilePatterns(DiscoveryPatterns)

func nestedPattern(prefix string) string {
	return fmt.Sprintf("{%[1]s/%[2]s,%[1]s/**/%[2]s}", prefix, manifest.FileName)
}

func compilePatterns(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, len(patterns))
	for i, p := range patterns {
		globs[i] = glob.MustCompile(p, '/')
	}
	return globs
}

// skipDirs are never descended into during discovery.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// Discover lists manifest candidates in tree, grouped by pattern in
// DiscoveryPatterns order. A manifest matched by two patterns is listed
// twice.
func (f *Fetcher) Discover(tree *WorkingTree) ([]Candidate, error) {
	if tree == nil {
		return nil, fmt.Errorf("discover: nil working tree")
	}
	return Discover(tree.Dir)
}

// Discover lists manifest candidates under root. See Fetcher.Discover.
func Discover(root string) ([]Candidate, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	var manifests []string
	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			if p != absRoot && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != manifest.FileName {
			return nil
		}
		rel, err := filepath.Rel(absRoot, p)
		if err != nil {
			return err
		}
		manifests = append(manifests, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", absRoot, err)
	}

	var candidates []Candidate
	for _, g := range discoveryGlobs {
		for _, rel := range manifests {
			if !g.Match(rel) {
				continue
			}
			candidates = append(candidates, Candidate{
				Path:         path.Dir(rel),
				ManifestFile: filepath.Join(absRoot, filepath.FromSlash(rel)),
			})
		}
	}
	return candidates, nil
}
