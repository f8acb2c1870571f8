package cache

import (
	"container/list"
	"context"
	"sort"
	"sync"
	"time"
)

const defaultMaxEntries = 10_000

type memoryRecord struct {
	value     []byte
	expiresAt time.Time
	element   *list.Element
}

// MemoryStore is an in-process Store with per-entry expiry and LRU eviction
// once maxEntries is reached.
type MemoryStore struct {
	mu         sync.Mutex
	records    map[string]*memoryRecord
	lru        *list.List
	maxEntries int
	clock      func() time.Time
	onRemove   func(key string)
}

type MemoryOption func(s *MemoryStore)

func WithMaxEntries(n int) MemoryOption {
	return func(s *MemoryStore) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

func WithClock(clock func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRemovalHook calls fn with every key dropped by Delete, expiry or LRU
// eviction. fn runs under the store lock and must not call back into it.
func WithRemovalHook(fn func(key string)) MemoryOption {
	return func(s *MemoryStore) {
		s.onRemove = fn
	}
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		records:    make(map[string]*memoryRecord),
		lru:        list.New(),
		maxEntries: defaultMaxEntries,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	if s.isExpired(record, s.clock()) {
		s.deleteLocked(key)
		return nil, false, nil
	}
	s.lru.MoveToFront(record.element)

	return append([]byte(nil), record.value...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.clock().Add(ttl)
	}

	if record, ok := s.records[key]; ok {
		record.value = append([]byte(nil), value...)
		record.expiresAt = expiresAt
		s.lru.MoveToFront(record.element)
		return nil
	}

	s.records[key] = &memoryRecord{
		value:     append([]byte(nil), value...),
		expiresAt: expiresAt,
		element:   s.lru.PushFront(key),
	}
	s.trimToCapacityLocked()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.deleteLocked(key)
	}
	return nil
}

func (s *MemoryStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*memoryRecord)
	s.lru.Init()
	return nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	n := 0
	for _, record := range s.records {
		if !s.isExpired(record, now) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) trimToCapacityLocked() {
	for len(s.records) > s.maxEntries {
		back := s.lru.Back()
		if back == nil {
			return
		}
		key, ok := back.Value.(string)
		if !ok {
			s.lru.Remove(back)
			continue
		}
		s.deleteLocked(key)
	}
}

func (s *MemoryStore) deleteLocked(key string) {
	record, ok := s.records[key]
	if !ok {
		return
	}
	s.lru.Remove(record.element)
	delete(s.records, key)
	if s.onRemove != nil {
		s.onRemove(key)
	}
}

func (s *MemoryStore) isExpired(record *memoryRecord, now time.Time) bool {
	if record.expiresAt.IsZero() {
		return false
	}
	return !now.Before(record.expiresAt)
}

// MemoryTagIndex is the in-process TagIndex. It keeps the reverse key to
// tags mapping so removed keys can be dropped from every tag.
type MemoryTagIndex struct {
	mu     sync.RWMutex
	tags   map[string]map[string]struct{}
	byKeys map[string]map[string]struct{}
}

func NewMemoryTagIndex() *MemoryTagIndex {
	return &MemoryTagIndex{
		tags:   make(map[string]map[string]struct{}),
		byKeys: make(map[string]map[string]struct{}),
	}
}

// NewMemoryManager wires a MemoryStore and a MemoryTagIndex so keys removed
// from the store leave the index too.
func NewMemoryManager(opts ...MemoryOption) *Manager {
	index := NewMemoryTagIndex()
	opts = append(opts, WithRemovalHook(func(key string) { index.Remove(key) }))
	return NewManager(NewMemoryStore(opts...), index)
}

func (t *MemoryTagIndex) Add(_ context.Context, key string, tags ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, tag := range tags {
		link(t.tags, tag, key)
		link(t.byKeys, key, tag)
	}
	return nil
}

func (t *MemoryTagIndex) Keys(_ context.Context, tags ...string) ([]string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, tag := range tags {
		for key := range t.tags[tag] {
			seen[key] = struct{}{}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (t *MemoryTagIndex) Forget(_ context.Context, keys []string, tags ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, tag := range tags {
		for _, key := range keys {
			unlink(t.tags, tag, key)
			unlink(t.byKeys, key, tag)
		}
	}
	return nil
}

// Remove drops keys from every tag they are indexed under.
func (t *MemoryTagIndex) Remove(keys ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, key := range keys {
		for tag := range t.byKeys[key] {
			unlink(t.tags, tag, key)
		}
		delete(t.byKeys, key)
	}
}

// Len returns the number of distinct indexed keys.
func (t *MemoryTagIndex) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byKeys)
}

func (t *MemoryTagIndex) Reset(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tags = make(map[string]map[string]struct{})
	t.byKeys = make(map[string]map[string]struct{})
	return nil
}

func link(m map[string]map[string]struct{}, from, to string) {
	set, ok := m[from]
	if !ok {
		set = make(map[string]struct{})
		m[from] = set
	}
	set[to] = struct{}{}
}

func unlink(m map[string]map[string]struct{}, from, to string) {
	set, ok := m[from]
	if !ok {
		return
	}
	delete(set, to)
	if len(set) == 0 {
		delete(m, from)
	}
}
