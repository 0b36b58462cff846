package catalog

import (
	"context"
	"fmt"
	"time"
)

// AddSource registers a sync source. The URL must not be registered yet.
func (s *Store) AddSource(ctx context.Context, src *SyncSource) error {
	if src.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	return s.update(ctx, func(doc *document) error {
		for _, existing := range doc.Sources {
			if existing.URL == src.URL {
				return fmt.Errorf("source %q: %w", src.URL, ErrAlreadyExists)
			}
		}
		c := *src
		doc.Sources = append(doc.Sources, &c)
		return nil
	})
}

// RemoveSource unregisters the source with url.
func (s *Store) RemoveSource(ctx context.Context, url string) error {
	return s.update(ctx, func(doc *document) error {
		for i, src := range doc.Sources {
			if src.URL == url {
				doc.Sources = append(doc.Sources[:i], doc.Sources[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("source %q: %w", url, ErrNotFound)
	})
}

// ListSources returns the registered sources in registration order.
func (s *Store) ListSources(ctx context.Context) ([]*SyncSource, error) {
	var out []*SyncSource
	err := s.read(ctx, func(doc *document) error {
		out = make([]*SyncSource, len(doc.Sources))
		for i, src := range doc.Sources {
			c := *src
			out[i] = &c
		}
		return nil
	})
	return out, err
}

// MarkSynced records the outcome of a sync run for url. A nil syncErr clears
// the previous error.
func (s *Store) MarkSynced(ctx context.Context, url, commit string, at time.Time, syncErr error) error {
	return s.update(ctx, func(doc *document) error {
		for _, src := range doc.Sources {
			if src.URL != url {
				continue
			}
			src.LastSyncedAt = at.UTC()
			src.LastError = ""
			if syncErr != nil {
				src.LastError = syncErr.Error()
			} else if commit != "" {
				src.LastCommitHash = commit
			}
			return nil
		}
		return fmt.Errorf("source %q: %w", url, ErrNotFound)
	})
}
