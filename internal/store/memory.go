package store

import (
	"errors"
	"time"

	"go.uber.org/atomic"

	"github.com/i474232898/snowdesk/internal/scoring"
)

var (
	// ErrNotReady is returned by reads before the first successful refresh.
	ErrNotReady = errors.New("resort data not ready yet")
)

// Snapshot is one published ranking. It is never mutated after Publish.
type Snapshot struct {
	Resorts     []scoring.Ranked `json:"resorts"`
	LastUpdated time.Time        `json:"lastUpdated"`
	Count       int              `json:"count"`
	CycleID     string           `json:"cycleId,omitempty"`
}

// Find returns the ranked resort with the given name.
func (s *Snapshot) Find(name string) (scoring.Ranked, bool) {
	for _, r := range s.Resorts {
		if r.Name == name {
			return r, true
		}
	}
	return scoring.Ranked{}, false
}

// MemoryStore holds the most recently published snapshot.
// Writers swap the pointer; readers never lock.
type MemoryStore struct {
	current *atomic.Pointer[Snapshot]
}

// NewMemoryStore creates an empty, not-yet-ready store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{current: atomic.NewPointer[Snapshot](nil)}
}

// Publish installs snap as the current snapshot. A nil snapshot is ignored
// so the store never moves back to not-ready.
func (s *MemoryStore) Publish(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.current.Store(snap)
}

// Latest returns the current snapshot or ErrNotReady.
func (s *MemoryStore) Latest() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotReady
	}
	return snap, nil
}

// Ready reports whether a snapshot has ever been published.
func (s *MemoryStore) Ready() bool {
	return s.current.Load() != nil
}

// Age returns how long ago the current snapshot was computed.
func (s *MemoryStore) Age(now time.Time) (time.Duration, error) {
	snap, err := s.Latest()
	if err != nil {
		return 0, err
	}
	return now.Sub(snap.LastUpdated), nil
}
