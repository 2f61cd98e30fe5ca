// Package memory is an in-process db.Store used by the embedded SDK and by tests.
// It mirrors the command semantics of the Redis store, including atomicity of
// each single command.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/kailas-cloud/artwatch/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store keeps every key in maps guarded by a single mutex.
type Store struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
	sets   map[string]map[string]struct{}
	zsets  map[string]map[string]float64
	kv     map[string][]byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		hashes: make(map[string]map[string]string),
		sets:   make(map[string]map[string]struct{}),
		zsets:  make(map[string]map[string]float64),
		kv:     make(map[string][]byte),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(context.Context, time.Duration) error { return nil }

// HSet sets hash fields.
func (s *Store) HSet(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.hash(key)
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

// HReplace swaps the whole hash under the store lock.
func (s *Store) HReplace(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(fields) == 0 {
		delete(s.hashes, key)
		return nil
	}
	h := make(map[string]string, len(fields))
	for k, v := range fields {
		h[k] = v
	}
	s.hashes[key] = h
	return nil
}

// HSetNX sets a hash field only if it does not exist yet.
func (s *Store) HSetNX(_ context.Context, key, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.hash(key)
	if _, ok := h[field]; !ok {
		h[field] = value
	}
	return nil
}

// HIncrBy increments an integer hash field.
func (s *Store) HIncrBy(_ context.Context, key, field string, val int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.hash(key)
	cur := int64(0)
	if v, ok := h[field]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, &db.Error{Op: db.OpHIncrBy, Err: err}
		}
		cur = n
	}
	cur += val
	h[field] = strconv.FormatInt(cur, 10)
	return cur, nil
}

// HGetAll returns a copy of a hash; empty when missing.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMap(s.hashes[key]), nil
}

// HGetAllMulti returns copies of several hashes.
func (s *Store) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]string, len(keys))
	for i, k := range keys {
		out[i] = cloneMap(s.hashes[k])
	}
	return out, nil
}

// Del removes a key of any type.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hashes, key)
	delete(s.sets, key)
	delete(s.zsets, key)
	delete(s.kv, key)
	return nil
}

// Exists checks if a key of any type exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, h := s.hashes[key]
	_, st := s.sets[key]
	_, z := s.zsets[key]
	_, kv := s.kv[key]
	return h || st || z || kv, nil
}

// SAdd adds members to a set.
func (s *Store) SAdd(_ context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	for _, m := range members {
		set[m] = struct{}{}
	}
	return nil
}

// SMembers returns set members in unspecified order.
func (s *Store) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.sets[key]
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	return out, nil
}

// SCard returns the set cardinality.
func (s *Store) SCard(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.sets[key])), nil
}

// ZAdd sets the score of a member.
func (s *Store) ZAdd(_ context.Context, key, member string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zset(key)[member] = score
	return nil
}

// ZAddGT raises the score of a member, never lowering it.
func (s *Store) ZAddGT(_ context.Context, key, member string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	z := s.zset(key)
	if cur, ok := z[member]; !ok || score > cur {
		z[member] = score
	}
	return nil
}

// ZIncrBy increments the score of a member.
func (s *Store) ZIncrBy(_ context.Context, key, member string, incr float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zset(key)[member] += incr
	return nil
}

// ZRevRange returns members by descending score; equal scores order by member descending, as Redis does.
func (s *Store) ZRevRange(_ context.Context, key string, offset, limit int) ([]string, error) {
	s.mu.Lock()
	z := s.zsets[key]
	type entry struct {
		member string
		score  float64
	}
	entries := make([]entry, 0, len(z))
	for m, sc := range z {
		entries = append(entries, entry{m, sc})
	}
	s.mu.Unlock()

	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(b.member, a.member)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(entries) {
		return []string{}, nil
	}
	entries = entries[offset:]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.member
	}
	return out, nil
}

// ZScore returns the score of a member or db.ErrKeyNotFound.
func (s *Store) ZScore(_ context.Context, key, member string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.zsets[key][member]
	if !ok {
		return 0, db.ErrKeyNotFound
	}
	return sc, nil
}

// Get retrieves a value by key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return slices.Clone(v), nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = slices.Clone(value)
	return nil
}

// IncrBy increments an integer key.
func (s *Store) IncrBy(_ context.Context, key string, val int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := int64(0)
	if v, ok := s.kv[key]; ok {
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return &db.Error{Op: db.OpIncrBy, Err: err}
		}
		cur = n
	}
	s.kv[key] = []byte(strconv.FormatInt(cur+val, 10))
	return nil
}

func (s *Store) hash(key string) map[string]string {
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string)
		s.hashes[key] = h
	}
	return h
}

func (s *Store) zset(key string) map[string]float64 {
	z, ok := s.zsets[key]
	if !ok {
		z = make(map[string]float64)
		s.zsets[key] = z
	}
	return z
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
