package cmd

import (
	"fmt"
	"log/slog"

	"github.com/jief123/agenthub/internal/core/catalog"
	"github.com/jief123/agenthub/internal/core/importer"
	"github.com/jief123/agenthub/internal/core/render"
	"github.com/jief123/agenthub/internal/core/source"
	"github.com/jief123/agenthub/internal/core/syncer"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	store    *catalog.Store
	fetcher  *source.Fetcher
	importer *importer.Importer
	logger   *slog.Logger
}

// newDeps creates shared dependencies. Called lazily by commands that need them.
func newDeps() (*deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	logger := slog.Default()

	store, err := catalog.Open(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	fetcher := source.New(
		source.WithMaxConcurrent(cfg.Git.MaxConcurrent),
		source.WithTimeout(cfg.Git.CloneTimeout),
		source.WithLogger(logger.With("component", "source")),
	)
	imp := importer.New(fetcher, store, render.NewHTML(),
		importer.WithLogger(logger.With("component", "importer")))

	return &deps{
		store:    store,
		fetcher:  fetcher,
		importer: imp,
		logger:   logger,
	}, nil
}

func (d *deps) syncer() *syncer.Syncer {
	return syncer.New(d.importer, d.store,
		syncer.WithInterval(cfg.Sync.Interval),
		syncer.WithLogger(d.logger.With("component", "syncer")))
}
