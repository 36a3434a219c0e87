package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryEntry is what MemoryStore keeps per key. Expiration is enforced on
// read from the recorded timestamps; the go-cache TTL is only a garbage
// collection backstop.
type memoryEntry struct {
	payload    []byte
	deadline   time.Time
	sliding    time.Duration
	lastAccess time.Time
}

// MemoryStore is the in-process driver used for single-node deployments and
// tests. Not a distributed cache: entries die with the process.
type MemoryStore struct {
	c   *gocache.Cache
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		c:   gocache.New(gocache.NoExpiration, time.Minute),
		now: time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	e := v.(memoryEntry)

	now := s.now()
	if !now.Before(e.deadline) || (e.sliding > 0 && now.After(e.lastAccess.Add(e.sliding))) {
		s.c.Delete(key)
		return nil, false, nil
	}

	// slide the window
	e.lastAccess = now
	s.c.Set(key, e, entryTTL(now, e.deadline, e.sliding))

	return e.payload, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, opts EntryOptions) error {
	now := s.now()
	e := memoryEntry{
		payload:    value,
		deadline:   now.Add(opts.Absolute),
		sliding:    opts.Sliding,
		lastAccess: now,
	}
	s.c.Set(key, e, entryTTL(now, e.deadline, e.sliding))
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}
