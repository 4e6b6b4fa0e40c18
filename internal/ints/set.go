// Package ints implements dense sets of small non-negative integers,
// used for terminal key sets (FIRST sets and token key lookups).
package ints

import (
	"math/bits"
)

const (
	chunkShift = 6
	chunkSize  = 1 << chunkShift
)

// Set is a bit set of non-negative integers. Zero value is an empty set.
type Set struct {
	chunks []uint64
}

// NewSet creates a set containing given items.
func NewSet(items ...int) *Set {
	s := &Set{}
	return s.Add(items...)
}

func (s *Set) grow(item int) {
	need := item>>chunkShift + 1
	if need <= len(s.chunks) {
		return
	}

	chunks := make([]uint64, need)
	copy(chunks, s.chunks)
	s.chunks = chunks
}

// Add adds items to the set, negative items are ignored.
func (s *Set) Add(items ...int) *Set {
	for _, item := range items {
		if item < 0 {
			continue
		}

		s.grow(item)
		s.chunks[item>>chunkShift] |= 1 << (uint(item) & (chunkSize - 1))
	}
	return s
}

// Contains reports whether item belongs to the set.
func (s *Set) Contains(item int) bool {
	if item < 0 || item>>chunkShift >= len(s.chunks) {
		return false
	}

	return s.chunks[item>>chunkShift]&(1<<(uint(item)&(chunkSize-1))) != 0
}

// Len returns the number of items.
func (s *Set) Len() int {
	result := 0
	for _, chunk := range s.chunks {
		result += bits.OnesCount64(chunk)
	}
	return result
}

// IsEmpty reports whether the set has no items.
func (s *Set) IsEmpty() bool {
	for _, chunk := range s.chunks {
		if chunk != 0 {
			return false
		}
	}
	return true
}

// Copy returns an independent copy of the set.
func (s *Set) Copy() *Set {
	chunks := make([]uint64, len(s.chunks))
	copy(chunks, s.chunks)
	return &Set{chunks}
}

// Union adds all items of t to s and reports whether s has changed.
func (s *Set) Union(t *Set) bool {
	if t == nil {
		return false
	}

	if len(t.chunks) > len(s.chunks) {
		s.grow(len(t.chunks)<<chunkShift - 1)
	}

	changed := false
	for i, chunk := range t.chunks {
		merged := s.chunks[i] | chunk
		if merged != s.chunks[i] {
			s.chunks[i] = merged
			changed = true
		}
	}
	return changed
}

// Intersects reports whether s and t have common items.
func (s *Set) Intersects(t *Set) bool {
	if s == nil || t == nil {
		return false
	}

	l := min(len(s.chunks), len(t.chunks))
	for i := 0; i < l; i++ {
		if s.chunks[i]&t.chunks[i] != 0 {
			return true
		}
	}
	return false
}

// Intersect returns a new set containing items common to s and t.
func Intersect(s, t *Set) *Set {
	l := min(len(s.chunks), len(t.chunks))
	result := &Set{make([]uint64, l)}
	for i := 0; i < l; i++ {
		result.chunks[i] = s.chunks[i] & t.chunks[i]
	}
	return result
}

// IsEqual reports whether both sets contain the same items.
func (s *Set) IsEqual(t *Set) bool {
	long, short := s.chunks, t.chunks
	if len(long) < len(short) {
		long, short = short, long
	}

	for i, chunk := range long {
		var other uint64
		if i < len(short) {
			other = short[i]
		}
		if chunk != other {
			return false
		}
	}
	return true
}

// ToSlice returns items in ascending order.
func (s *Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	for i, chunk := range s.chunks {
		for chunk != 0 {
			bit := bits.TrailingZeros64(chunk)
			result = append(result, i<<chunkShift+bit)
			chunk &= chunk - 1
		}
	}
	return result
}
