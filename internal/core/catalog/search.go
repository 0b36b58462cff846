package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/jief123/agenthub/internal/core/asset"
)

// Result is a search hit. Higher scores rank first.
type Result struct {
	Entry *Entry
	Score int
}

// searchable adapts entries to fuzzy.Source.
type searchable []*Entry

func (s searchable) String(i int) string {
	e := s[i]
	parts := []string{e.Name}
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	parts = append(parts, e.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func (s searchable) Len() int { return len(s) }

// Search fuzzy-matches query against name, description and tags of the
// given kinds, or of every kind when none are given. An empty query returns
// every entry with score 0, ordered by kind then name.
func (s *Store) Search(ctx context.Context, query string, kinds ...asset.Kind) ([]Result, error) {
	if len(kinds) == 0 {
		kinds = asset.Kinds
	}
	query = strings.ToLower(strings.TrimSpace(query))

	var results []Result
	for _, kind := range kinds {
		entries, err := s.List(ctx, kind)
		if err != nil {
			return nil, err
		}
		if query == "" {
			for _, e := range entries {
				results = append(results, Result{Entry: e})
			}
			continue
		}
		for _, m := range fuzzy.FindFrom(query, searchable(entries)) {
			results = append(results, Result{Entry: entries[m.Index], Score: m.Score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}
