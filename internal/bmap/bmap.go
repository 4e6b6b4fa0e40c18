// Package bmap implements a small read-mostly map with []byte keys.
// The lexer uses it to classify words without converting token bytes to strings.
package bmap

import (
	"strings"
	"unsafe"
)

// BMap maps byte string keys to values. Keys cannot be deleted.
// Added keys are copied, callers may reuse their slices.
type BMap[T any] struct {
	smap map[string]T
}

// New creates a map for about size keys.
func New[T any](size int) *BMap[T] {
	return &BMap[T]{
		smap: make(map[string]T, size),
	}
}

// FromWords creates a map holding every whitespace-separated word of list with the same value.
func FromWords[T any](list string, value T) *BMap[T] {
	words := strings.Fields(list)
	m := New[T](len(words))
	for _, w := range words {
		m.Set([]byte(w), value)
	}
	return m
}

func view(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	return unsafe.String(&key[0], len(key))
}

// Get returns stored value by key and a flag telling whether this key is stored in the map.
func (m *BMap[T]) Get(key []byte) (T, bool) {
	result, has := m.smap[view(key)]
	return result, has
}

// Has reports whether key is stored.
func (m *BMap[T]) Has(key []byte) bool {
	_, has := m.smap[view(key)]
	return has
}

// HasString reports whether key is stored.
func (m *BMap[T]) HasString(key string) bool {
	_, has := m.smap[key]
	return has
}

// Set adds or rewrites value for given key.
func (m *BMap[T]) Set(key []byte, value T) {
	m.smap[string(key)] = value
}

// Len returns the number of stored keys.
func (m *BMap[T]) Len() int {
	return len(m.smap)
}

// Keys returns stored keys in no particular order.
func (m *BMap[T]) Keys() []string {
	result := make([]string, 0, len(m.smap))
	for k := range m.smap {
		result = append(result, k)
	}
	return result
}
