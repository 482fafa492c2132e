// Package explored tracks which articles have been popped and expanded, and by
// which sweep direction, across concurrently running sweeps.
//
// The set is striped: keys hash (FNV-1a) onto a fixed number of shards, each
// guarded by its own mutex. Claim is a single critical section per key, so two
// sweeps racing on the same title cannot both win it, and no lock is ever held
// while a sweep performs a network call.
package explored

import (
	"hash/fnv"
	"sync"

	"github.com/katalvlaran/wikiwalk/core"
)

// DefaultShards is the shard count used by New.
const DefaultShards = 32

// Status is the outcome of a Claim.
type Status int

const (
	// Claimed means the caller is the first to expand the key.
	Claimed Status = iota

	// SameDirection means the caller's own sweep already expanded the key.
	SameDirection

	// OppositeDirection means the other sweep already expanded the key.
	OppositeDirection
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Claimed:
		return "claimed"
	case SameDirection:
		return "same-direction"
	case OppositeDirection:
		return "opposite-direction"
	default:
		return "unknown"
	}
}

type shard struct {
	mu   sync.Mutex
	seen map[string]core.Direction
}

// Set maps canonical titles to the direction that expanded them.
type Set struct {
	shards []shard
}

// New returns a Set with DefaultShards shards.
func New() *Set { return NewSharded(DefaultShards) }

// NewSharded returns a Set with n shards (n < 1 is treated as 1).
func NewSharded(n int) *Set {
	if n < 1 {
		n = 1
	}
	s := &Set{shards: make([]shard, n)}
	for i := range s.shards {
		s.shards[i].seen = make(map[string]core.Direction)
	}

	return s
}

func (s *Set) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	return &s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Claim marks key as expanded by d if nobody has expanded it yet.
// The check and the insert happen under one shard lock.
// Complexity: O(len(key)).
func (s *Set) Claim(key string, d core.Direction) Status {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	prev, ok := sh.seen[key]
	switch {
	case !ok:
		sh.seen[key] = d
		return Claimed
	case prev == d:
		return SameDirection
	default:
		return OppositeDirection
	}
}

// Lookup returns the direction that expanded key, if any.
func (s *Set) Lookup(key string) (core.Direction, bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	d, ok := sh.seen[key]

	return d, ok
}

// Len returns the number of expanded keys. It locks shards one at a time, so
// the total is only exact when no sweep is running.
func (s *Set) Len() int {
	n := 0
	for i := range s.shards {
		s.shards[i].mu.Lock()
		n += len(s.shards[i].seen)
		s.shards[i].mu.Unlock()
	}

	return n
}

// Count returns how many keys were expanded by d.
func (s *Set) Count(d core.Direction) int {
	n := 0
	for i := range s.shards {
		s.shards[i].mu.Lock()
		for _, dir := range s.shards[i].seen {
			if dir == d {
				n++
			}
		}
		s.shards[i].mu.Unlock()
	}

	return n
}
