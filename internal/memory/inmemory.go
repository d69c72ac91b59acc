package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// InMemoryStore is the dev and test backend. Records are deep-copied on
// the way in and out so callers never share state through the store.
type InMemoryStore struct {
	mu        sync.RWMutex
	records   map[string]*Record
	retention time.Duration
	now       func() time.Time
}

func NewInMemoryStore(retention time.Duration) *InMemoryStore {
	return &InMemoryStore{
		records:   make(map[string]*Record),
		retention: retention,
		now:       time.Now,
	}
}

func (s *InMemoryStore) Load(_ context.Context, userID string) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.records[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.retention > 0 && s.now().Sub(rec.UpdatedAt) > s.retention {
		s.mu.Lock()
		delete(s.records, userID)
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	return clone(rec)
}

func (s *InMemoryStore) Save(_ context.Context, rec *Record) error {
	rec.UpdatedAt = s.now()
	copied, err := clone(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records[rec.UserID] = copied
	s.mu.Unlock()
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.records, userID)
	s.mu.Unlock()
	return nil
}

func clone(rec *Record) (*Record, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
