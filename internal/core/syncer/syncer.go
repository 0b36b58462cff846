// Package syncer periodically re-imports registered sources into the catalog.
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jief123/agenthub/internal/core/catalog"
	"github.com/jief123/agenthub/internal/core/importer"
)

// DefaultInterval is how often Run checks for due sources.
const DefaultInterval = 24 * time.Hour

// Importer runs a bulk import and reports the commit it fetched.
type Importer interface {
	Import(ctx context.Context, url, ref, ownerID string) (*importer.ImportResult, error)
}

// Store holds the registered sources.
type Store interface {
	ListSources(ctx context.Context) ([]*catalog.SyncSource, error)
	MarkSynced(ctx context.Context, url, commit string, at time.Time, syncErr error) error
}

// Result is the outcome of syncing one source.
type Result struct {
	URL     string
	Created []*catalog.Entry
	Err     error
}

// Syncer re-imports sources whose interval has elapsed.
type Syncer struct {
	importer Importer
	store    Store
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithInterval sets the tick interval of Run.
func WithInterval(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// New returns a Syncer.
func New(importer Importer, store Store, opts ...Option) *Syncer {
	s := &Syncer{
		importer: importer,
		store:    store,
		interval: DefaultInterval,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce syncs every due source concurrently. A failed import is reported
// in its Result; only a failure to read or update the store is returned as
// an error.
func (s *Syncer) RunOnce(ctx context.Context) ([]Result, error) {
	sources, err := s.store.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	now := s.now()
	var due []*catalog.SyncSource
	for _, src := range sources {
		if src.Due(now) {
			due = append(due, src)
		}
	}
	s.logger.Info("sync starting", "sources", len(sources), "due", len(due))

	results := make([]Result, len(due))
	var g errgroup.Group
	for i, src := range due {
		g.Go(func() error {
			res, err := s.Sync(ctx, src)
			results[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Sync imports one source regardless of its schedule and records the
// outcome.
func (s *Syncer) Sync(ctx context.Context, src *catalog.SyncSource) (Result, error) {
	out, err := s.importer.Import(ctx, src.URL, src.Ref, src.OwnerID)
	res := Result{URL: src.URL, Err: err}
	if out != nil {
		res.Created = out.Created
	}

	// A failed run keeps the previously recorded commit.
	var commit string
	if err != nil {
		s.logger.Error("sync failed", "url", src.URL, "error", err)
	} else {
		commit = out.Commit
		s.logger.Info("synced source", "url", src.URL, "commit", commit, "created", len(res.Created))
	}

	if markErr := s.store.MarkSynced(ctx, src.URL, commit, s.now(), err); markErr != nil {
		return res, fmt.Errorf("recording sync of %s: %w", src.URL, markErr)
	}
	return res, nil
}

// Run calls RunOnce immediately and then on every tick until ctx is done.
// Store errors are logged and do not stop the loop.
func (s *Syncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("background sync enabled", "interval", s.interval)
	for {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("sync run failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
