// Package session keeps pending format selections between the prompt and the button tap
package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tilontare9353-art/Telagram-bot/internal/domain/media/entities"
)

type key struct {
	chatID int64
	userID int64
}

type entry struct {
	selection entities.PendingSelection
	expiresAt time.Time
}

// Store is an in-memory map of pending selections, one per (chat, user).
// Nothing survives a restart.
type Store struct {
	mu      sync.Mutex
	entries map[key]entry

	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	logger   zerolog.Logger
}

// NewStore creates a store. A zero ttl keeps entries until they are taken or replaced.
func NewStore(ttl, cleanupInterval time.Duration, logger zerolog.Logger) *Store {
	return &Store{
		entries:         make(map[key]entry),
		ttl:             ttl,
		cleanupInterval: cleanupInterval,
		now:             time.Now,
		stopCh:          make(chan struct{}),
		logger:          logger,
	}
}

// Put stores sel for (chatID, userID), replacing any previous selection
func (s *Store) Put(chatID, userID int64, sel entities.PendingSelection) {
	e := entry{selection: sel}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key{chatID, userID}] = e
	s.mu.Unlock()
}

// Get returns the selection without consuming it
func (s *Store) Get(chatID, userID int64) (entities.PendingSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(key{chatID, userID})
	if !ok {
		return entities.PendingSelection{}, false
	}
	return e.selection, true
}

// Take removes and returns the selection. Only one caller can get it.
func (s *Store) Take(chatID, userID int64) (entities.PendingSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{chatID, userID}
	e, ok := s.lookup(k)
	if !ok {
		return entities.PendingSelection{}, false
	}
	delete(s.entries, k)
	return e.selection, true
}

// TakeIf removes and returns the selection only if its ID matches selectionID.
// A newer selection under the same key is left in place.
func (s *Store) TakeIf(chatID, userID int64, selectionID string) (entities.PendingSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{chatID, userID}
	e, ok := s.lookup(k)
	if !ok || e.selection.SelectionID != selectionID {
		return entities.PendingSelection{}, false
	}
	delete(s.entries, k)
	return e.selection, true
}

// Count returns the number of live selections
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	now := s.now()
	for _, e := range s.entries {
		if !s.expired(e, now) {
			n++
		}
	}
	return n
}

// lookup must be called with mu held. Expired entries are dropped on sight.
func (s *Store) lookup(k key) (entry, bool) {
	e, ok := s.entries[k]
	if !ok {
		return entry{}, false
	}
	if s.expired(e, s.now()) {
		delete(s.entries, k)
		return entry{}, false
	}
	return e, true
}

func (s *Store) expired(e entry, now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Start launches the sweeper when a ttl is configured
func (s *Store) Start() {
	if s.ttl <= 0 || s.cleanupInterval <= 0 {
		s.logger.Debug().Msg("Session expiry disabled")
		return
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	s.logger.Info().
		Dur("ttl", s.ttl).
		Dur("interval", s.cleanupInterval).
		Msg("Session cleanup started")
}

// Stop stops the sweeper and waits for it to exit
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *Store) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug().Int("removed", n).Msg("Expired sessions removed")
			}
		case <-s.stopCh:
			return
		}
	}
}

// Sweep removes expired selections and returns how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}
