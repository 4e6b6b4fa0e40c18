package bmap

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyMap(t *testing.T) {
	m := New[int](1)

	en, found := m.Get([]byte{})
	assert.Equal(t, 0, en)
	assert.False(t, found)

	en, found = m.Get([]byte{1, 2, 3})
	assert.Equal(t, 0, en)
	assert.False(t, found)
	assert.Equal(t, 0, m.Len())
}

func TestEmptyKey(t *testing.T) {
	m := New[int](1)
	empty := []byte{}

	m.Set([]byte("foo"), 123)
	assert.False(t, m.Has(empty))

	m.Set(empty, 345)
	en, found := m.Get(nil)
	assert.Equal(t, 345, en)
	assert.True(t, found)
}

func TestKeyIsCopied(t *testing.T) {
	m := New[int](2)
	key := []byte("abc")
	m.Set(key, 111)
	m.Set(key[:2], 222)
	key[0] = 'x'

	en, found := m.Get([]byte("abc"))
	assert.Equal(t, 111, en)
	assert.True(t, found)
	assert.True(t, m.HasString("ab"))
	assert.False(t, m.Has(key))
}

func TestFromWords(t *testing.T) {
	m := FromWords("module endmodule\n\twire  module", "keyword")
	assert.Equal(t, 3, m.Len())

	kind, found := m.Get([]byte("wire"))
	assert.True(t, found)
	assert.Equal(t, "keyword", kind)
	assert.False(t, m.Has([]byte("Module")))

	keys := m.Keys()
	sort.Strings(keys)
	assert.Equal(t, []string{"endmodule", "module", "wire"}, keys)
}
