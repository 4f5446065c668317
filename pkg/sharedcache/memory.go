package sharedcache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/travigo/netex-validator/pkg/util"
)

var ErrWrongType = errors.New("operation against a key holding the wrong kind of value")

type entryKind int

const (
	scalarEntry entryKind = iota
	hashEntry
	setEntry
)

type memoryEntry struct {
	kind    entryKind
	scalar  string
	hash    map[string]string
	set     map[string]struct{}
	expires time.Time
}

// MemoryStore is an in-process Store with the same semantics as RedisStore. It backs tests and
// single-process validation runs.
type MemoryStore struct {
	mutex   sync.Mutex
	entries map[string]*memoryEntry

	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: map[string]*memoryEntry{},
		Now:     time.Now,
	}
}

// entry returns the live entry at key, dropping it if it has expired. Caller holds the mutex.
func (s *MemoryStore) entry(key string) *memoryEntry {
	entry, exists := s.entries[key]
	if !exists {
		return nil
	}
	if !entry.expires.IsZero() && !s.Now().Before(entry.expires) {
		delete(s.entries, key)
		return nil
	}

	return entry
}

func (s *MemoryStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}

	return s.Now().Add(ttl)
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry := s.entry(key)
	if entry == nil {
		return "", ErrNotFound
	}
	if entry.kind != scalarEntry {
		return "", ErrWrongType
	}

	return entry.scalar, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value string, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries[key] = &memoryEntry{kind: scalarEntry, scalar: value, expires: s.expiry(ttl)}

	return nil
}

func (s *MemoryStore) Merge(_ context.Context, key string, values map[string]string, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry := s.entry(key)
	if entry == nil {
		entry = &memoryEntry{kind: hashEntry, hash: map[string]string{}}
		s.entries[key] = entry
	}
	if entry.kind != hashEntry {
		return ErrWrongType
	}

	for field, value := range values {
		entry.hash[field] = value
	}
	entry.expires = s.expiry(ttl)

	return nil
}

func (s *MemoryStore) HashGet(_ context.Context, key string, field string) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry := s.entry(key)
	if entry == nil {
		return "", ErrNotFound
	}
	if entry.kind != hashEntry {
		return "", ErrWrongType
	}

	value, exists := entry.hash[field]
	if !exists {
		return "", ErrNotFound
	}

	return value, nil
}

func (s *MemoryStore) HashGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry := s.entry(key)
	if entry == nil {
		return nil, ErrNotFound
	}
	if entry.kind != hashEntry {
		return nil, ErrWrongType
	}

	values := make(map[string]string, len(entry.hash))
	for field, value := range entry.hash {
		values[field] = value
	}

	return values, nil
}

func (s *MemoryStore) SetAdd(_ context.Context, key string, members []string, ttl time.Duration) error {
	if len(members) == 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	entry := s.entry(key)
	if entry == nil {
		entry = &memoryEntry{kind: setEntry, set: map[string]struct{}{}}
		s.entries[key] = entry
	}
	if entry.kind != setEntry {
		return ErrWrongType
	}

	for _, member := range members {
		entry.set[member] = struct{}{}
	}
	entry.expires = s.expiry(ttl)

	return nil
}

func (s *MemoryStore) members(key string) ([]string, error) {
	entry := s.entry(key)
	if entry == nil {
		return nil, nil
	}
	if entry.kind != setEntry {
		return nil, ErrWrongType
	}

	members := make([]string, 0, len(entry.set))
	for member := range entry.set {
		members = append(members, member)
	}

	return util.SortedStrings(members), nil
}

func (s *MemoryStore) SetMembers(_ context.Context, key string) ([]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.members(key)
}

func (s *MemoryStore) SetIntersect(_ context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	result, err := s.members(keys[0])
	if err != nil {
		return nil, err
	}
	for _, key := range keys[1:] {
		members, err := s.members(key)
		if err != nil {
			return nil, err
		}
		result = util.IntersectStrings(result, members)
	}

	return result, nil
}

func (s *MemoryStore) Apply(_ context.Context, writes []Write, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	// checked up front so a wrong type leaves every key untouched
	for _, write := range writes {
		if write.kind == setWrite && len(write.members) > 0 {
			if entry := s.entry(write.key); entry != nil && entry.kind != setEntry {
				return ErrWrongType
			}
		}
	}

	for _, write := range writes {
		switch write.kind {
		case setWrite:
			if len(write.members) == 0 {
				continue
			}
			entry := s.entry(write.key)
			if entry == nil {
				entry = &memoryEntry{kind: setEntry, set: map[string]struct{}{}}
				s.entries[write.key] = entry
			}
			for _, member := range write.members {
				entry.set[member] = struct{}{}
			}
			entry.expires = s.expiry(ttl)
		case valueWrite:
			s.entries[write.key] = &memoryEntry{kind: scalarEntry, scalar: write.value, expires: s.expiry(ttl)}
		}
	}

	return nil
}

func (s *MemoryStore) Exists(_ context.Context, key string) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.entry(key) != nil, nil
}

func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if entry := s.entry(key); entry != nil {
		entry.expires = s.expiry(ttl)
	}

	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}

	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}

	return nil
}

// Keys lists the live keys, for tests and debugging
func (s *MemoryStore) Keys() []string {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var keys []string
	for key := range s.entries {
		if s.entry(key) != nil {
			keys = append(keys, key)
		}
	}

	return util.SortedStrings(keys)
}
