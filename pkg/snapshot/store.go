package snapshot

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Store is one client-local key-value database. Implementations must treat a
// missing collection as empty, not as an error; the aggregator additionally
// degrades any returned error to "no records".
type Store interface {
	Name() string

	// ReadAll returns every record of the named collection. Records are
	// opaque: raw JSON documents or live Go values.
	ReadAll(ctx context.Context, collection string) ([]any, error)
}

// MemorySource supplies one optional in-memory object to probe for
// file-bearing fields. The host environment injects these explicitly instead
// of the core reaching into ambient globals. Returning false means the object
// is not available right now.
type MemorySource func() (any, bool)

// Collection names probed by the aggregator.
const (
	SnapshotCollection  = "snapshots"
	FilesCollection     = "files"
	WorkspaceCollection = "workspace"
	BoltFilesCollection = "boltFiles"
)

// MemoryStore is an in-process Store backed by go-cache, one cache per
// collection. Snapshot records expire on their own, mirroring the bounded
// history the client keeps.
type MemoryStore struct {
	name string
	ttl  time.Duration

	mu          sync.RWMutex
	collections map[string]*cache.Cache
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(name string, ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemoryStore{
		name:        name,
		ttl:         ttl,
		collections: make(map[string]*cache.Cache),
	}
}

func (s *MemoryStore) Name() string { return s.name }

// Put stores a record under the given key, creating the collection on first
// use. Keys double as the enumeration order of ReadAll.
func (s *MemoryStore) Put(collection, key string, record any) {
	s.mu.Lock()
	c, ok := s.collections[collection]
	if !ok {
		c = cache.New(s.ttl, 10*time.Minute)
		s.collections[collection] = c
	}
	s.mu.Unlock()
	c.Set(key, record, cache.DefaultExpiration)
}

func (s *MemoryStore) ReadAll(_ context.Context, collection string) ([]any, error) {
	s.mu.RLock()
	c, ok := s.collections[collection]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	items := c.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]any, 0, len(keys))
	for _, k := range keys {
		records = append(records, items[k].Object)
	}
	return records, nil
}
