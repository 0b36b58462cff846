package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/jief123/agenthub/internal/core/asset"
)

const fileName = "catalog.json"

// Store is a file-backed catalog.
type Store struct {
	path string
	mu   sync.Mutex // one flock holder per process
	lock *flock.Flock
	now  func() time.Time
}

// Open returns a store kept in dir, creating dir if needed. The catalog file
// itself is created on first write.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}
	path := filepath.Join(dir, fileName)
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
		now:  time.Now,
	}, nil
}

// Path returns the catalog file path.
func (s *Store) Path() string { return s.path }

// Exists reports whether an entry of kind named name exists.
func (s *Store) Exists(ctx context.Context, kind asset.Kind, name string) (bool, error) {
	_, err := s.FindByName(ctx, kind, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// FindByName returns a copy of the named entry or an error wrapping
// ErrNotFound.
func (s *Store) FindByName(ctx context.Context, kind asset.Kind, name string) (*Entry, error) {
	var found *Entry
	err := s.read(ctx, func(doc *document) error {
		list := doc.entries(kind)
		if list == nil {
			return fmt.Errorf("unknown asset kind %q", kind)
		}
		for _, e := range *list {
			if e.Name == name {
				c := *e
				found = &c
				return nil
			}
		}
		return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	})
	return found, err
}

// Insert adds e, assigning its ID and timestamps. A name already used by the
// same kind fails with an error wrapping ErrAlreadyExists.
func (s *Store) Insert(ctx context.Context, e *Entry) error {
	if !asset.ValidName(e.Name) {
		return fmt.Errorf("invalid entry name %q", e.Name)
	}
	return s.update(ctx, func(doc *document) error {
		list := doc.entries(e.Kind)
		if list == nil {
			return fmt.Errorf("unknown asset kind %q", e.Kind)
		}
		for _, existing := range *list {
			if existing.Name == e.Name {
				return fmt.Errorf("%s %q: %w", e.Kind, e.Name, ErrAlreadyExists)
			}
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		now := s.now().UTC()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		e.UpdatedAt = now
		c := *e
		*list = append(*list, &c)
		return nil
	})
}

// Delete removes the named entry.
func (s *Store) Delete(ctx context.Context, kind asset.Kind, name string) error {
	return s.update(ctx, func(doc *document) error {
		list := doc.entries(kind)
		if list == nil {
			return fmt.Errorf("unknown asset kind %q", kind)
		}
		for i, e := range *list {
			if e.Name == name {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%s %q: %w", kind, name, ErrNotFound)
	})
}

// List returns the entries of kind sorted by name.
func (s *Store) List(ctx context.Context, kind asset.Kind) ([]*Entry, error) {
	var out []*Entry
	err := s.read(ctx, func(doc *document) error {
		list := doc.entries(kind)
		if list == nil {
			return fmt.Errorf("unknown asset kind %q", kind)
		}
		out = copyEntries(*list)
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func copyEntries(list []*Entry) []*Entry {
	out := make([]*Entry, len(list))
	for i, e := range list {
		c := *e
		out[i] = &c
	}
	return out
}

func (s *Store) read(ctx context.Context, fn func(*document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.RLock(); err != nil {
		return fmt.Errorf("locking catalog: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *Store) update(ctx context.Context, fn func(*document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("locking catalog: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

// load reads the catalog. A missing file is an empty catalog.
func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return emptyDocument(), nil
		}
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	doc := emptyDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return doc, nil
}

// save writes the catalog atomically: temp file then rename.
func (s *Store) save(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving catalog: %w", err)
	}
	return nil
}
