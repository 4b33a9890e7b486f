// Package session keeps uploaded tables between requests.
//
// A Workspace holds the two parsed uploads for one user. The web layer
// re-runs the merge pipeline against it on every filter change, so nothing
// derived is stored. Workspaces live in memory only and expire after a
// period of inactivity.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/shipmerge/internal/core"
)

// ErrNotFound is returned for unknown, expired or deleted workspaces.
var ErrNotFound = errors.New("workspace not found")

// Default limits used when the caller passes zero values.
const (
	DefaultTTL        = 30 * time.Minute
	DefaultMaxEntries = 100
)

// Workspace is one user's pair of uploads. Tables are read-only once stored.
type Workspace struct {
	ID            string
	Shipments     core.Table
	ShipmentsName string
	Invoice       core.Table
	InvoiceName   string
	CreatedAt     time.Time
	LastAccess    time.Time
}

// Inputs returns the workspace tables in pipeline form.
func (w *Workspace) Inputs() core.Inputs {
	return core.Inputs{Shipments: &w.Shipments, Invoice: &w.Invoice}
}

// Store is a bounded, expiring in-memory workspace map.
// It is safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	items      map[string]*Workspace
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewStore creates a store. Workspaces idle longer than ttl expire; when
// maxEntries is reached the least recently used workspace is evicted.
func NewStore(ttl time.Duration, maxEntries int) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{
		items:      make(map[string]*Workspace),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Put stores ws under a fresh ID and returns the ID.
func (s *Store) Put(ws *Workspace) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ws.ID = uuid.NewString()
	ws.CreatedAt = now
	ws.LastAccess = now

	s.expireLocked(now)
	for len(s.items) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.items[ws.ID] = ws
	return ws.ID
}

// Get returns the workspace and refreshes its expiry.
func (s *Store) Get(id string) (*Workspace, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if now.Sub(ws.LastAccess) > s.ttl {
		delete(s.items, id)
		return nil, ErrNotFound
	}
	ws.LastAccess = now
	return ws, nil
}

// Delete removes a workspace. It reports whether one was removed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}

// Len returns the number of stored workspaces, expired ones included until
// the next sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep removes expired workspaces and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expireLocked(s.now())
}

// Run sweeps every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Debug("expired workspaces removed", "count", n, "remaining", s.Len())
			}
		}
	}
}

func (s *Store) expireLocked(now time.Time) int {
	removed := 0
	for id, ws := range s.items {
		if now.Sub(ws.LastAccess) > s.ttl {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

func (s *Store) evictOldestLocked() {
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.items[ids[i]].LastAccess.Before(s.items[ids[j]].LastAccess)
	})
	delete(s.items, ids[0])
}
