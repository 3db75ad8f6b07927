// Package store keeps pool records keyed by asset pair and seed and
// serializes the operations of each pool.
package store

import (
	"bytes"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/fleshka4/cpamm/internal/apperrors"
	"github.com/fleshka4/cpamm/internal/pool"
)

type entry struct {
	mu  sync.Mutex
	rec pool.Record
}

// Store is an in-memory pool registry with one writer per pool at a time.
type Store struct {
	mu    sync.RWMutex
	pools map[pool.Key]*entry
}

// New returns an empty store.
func New() *Store {
	return &Store{pools: make(map[pool.Key]*entry)}
}

// Create registers rec. Keys are unique.
func (s *Store) Create(rec pool.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := rec.Key()
	if _, ok := s.pools[key]; ok {
		return errors.Wrapf(apperrors.ErrPoolExists, "pool %s", key)
	}
	s.pools[key] = &entry{rec: rec}
	return nil
}

// Get returns the current record under key.
func (s *Store) Get(key pool.Key) (pool.Record, error) {
	e, err := s.entry(key)
	if err != nil {
		return pool.Record{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec, nil
}

// List returns every record ordered by asset X, asset Y, then seed.
func (s *Store) List() []pool.Record {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.pools))
	for _, e := range s.pools {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	out := make([]pool.Record, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.rec)
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[i].Key(), out[j].Key())
	})
	return out
}

// Exclusive runs fn while holding the pool's writer lock. fn gets a copy of
// the record; the copy is stored only when fn returns nil.
func (s *Store) Exclusive(key pool.Key, fn func(rec *pool.Record) error) error {
	e, err := s.entry(key)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := e.rec
	if err := fn(&rec); err != nil {
		return err
	}
	if rec.Key() != key {
		return errors.Wrap(apperrors.ErrInvalidArgument, "pool key is immutable")
	}
	e.rec = rec
	return nil
}

func (s *Store) entry(key pool.Key) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.pools[key]
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrPoolNotFound, "pool %s", key)
	}
	return e, nil
}

func less(a, b pool.Key) bool {
	if c := bytes.Compare(a.AssetX[:], b.AssetX[:]); c != 0 {
		return c < 0
	}
	if c := bytes.Compare(a.AssetY[:], b.AssetY[:]); c != 0 {
		return c < 0
	}
	return a.Seed < b.Seed
}
